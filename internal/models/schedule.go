package models

// CourseSchedule binds one course to a faculty member, timeslot and room.
type CourseSchedule struct {
	ID         int    `db:"schedule_id" json:"id"`
	CourseCode string `db:"course_code" json:"course_code"`
	FacultyID  int    `db:"faculty_id" json:"faculty_id"`
	TimeslotID int    `db:"timeslot_id" json:"timeslot_id"`
	RoomID     string `db:"room_id" json:"room_id"`
}

// ScheduledCourse is the denormalized section row shown when browsing,
// viewing a timetable or exporting: schedule plus course, faculty, timeslot
// and classroom attributes joined in.
type ScheduledCourse struct {
	ScheduleID  int    `db:"schedule_id" json:"schedule_id"`
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseName  string `db:"course_name" json:"course_name"`
	Department  string `db:"department" json:"department"`
	Semester    int    `db:"semester" json:"semester"`
	FacultyID   int    `db:"faculty_id" json:"faculty_id"`
	FacultyName string `db:"faculty_name" json:"faculty_name"`
	TimeslotID  int    `db:"timeslot_id" json:"timeslot_id"`
	DayOfWeek   string `db:"day_of_week" json:"day_of_week"`
	StartTime   string `db:"start_time" json:"start_time"`
	EndTime     string `db:"end_time" json:"end_time"`
	RoomID      string `db:"room_id" json:"room_id"`
	RoomNumber  string `db:"room_number" json:"room_number"`
	Building    string `db:"building" json:"building"`
}

// AssignmentSummary is the compact listing shown to admins when removing
// course assignments.
type AssignmentSummary struct {
	ScheduleID  int    `db:"schedule_id" json:"schedule_id"`
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseName  string `db:"course_name" json:"course_name"`
	FacultyName string `db:"faculty_name" json:"faculty_name"`
	Room        string `db:"room" json:"room"`
	Timeslot    string `db:"timeslot" json:"timeslot"`
}
