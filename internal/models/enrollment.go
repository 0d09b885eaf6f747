package models

// Enrollment pairs a student with one course schedule. The (student,
// schedule) pair is unique in the store.
type Enrollment struct {
	StudentID  string `db:"student_id" json:"student_id"`
	ScheduleID int    `db:"schedule_id" json:"schedule_id"`
}
