package models

// Faculty represents a teaching staff member.
type Faculty struct {
	ID            int    `db:"faculty_id" json:"id"`
	FirstName     string `db:"first_name" json:"first_name"`
	LastName      string `db:"last_name" json:"last_name"`
	Email         string `db:"email" json:"email"`
	Degree        string `db:"degree" json:"degree"`
	Qualification string `db:"qualification" json:"qualification"`
	Expertise     string `db:"expertise_sub" json:"expertise_sub"`
	Designation   string `db:"designation" json:"designation"`
}

// FullName joins first and last name for display.
func (f Faculty) FullName() string {
	if f.FirstName == "" {
		return f.LastName
	}
	if f.LastName == "" {
		return f.FirstName
	}
	return f.FirstName + " " + f.LastName
}

// FacultyOption is a compact row for availability pickers.
type FacultyOption struct {
	ID   int    `db:"faculty_id" json:"id"`
	Name string `db:"name" json:"name"`
}
