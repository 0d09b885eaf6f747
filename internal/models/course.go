package models

// Course describes a catalog entry offered by a department.
type Course struct {
	Code          string `db:"course_code" json:"code"`
	Name          string `db:"course_name" json:"name"`
	Credits       int    `db:"credits" json:"credits"`
	Semester      int    `db:"semester" json:"semester"`
	Department    string `db:"department" json:"department"`
	MaxStudents   int    `db:"max_students" json:"max_students"`
	Prerequisites string `db:"prerequisites" json:"prerequisites"`
}

// CourseOption is a compact row for the unscheduled-course picker.
type CourseOption struct {
	Code string `db:"course_code" json:"code"`
	Name string `db:"course_name" json:"name"`
}
