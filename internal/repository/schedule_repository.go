package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scit-dev/registrar/internal/models"
)

// ScheduleRepository provides persistence for course schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const sectionColumns = `cs.schedule_id, c.course_code, c.course_name, c.department, c.semester,
        f.faculty_id, f.first_name || ' ' || f.last_name AS faculty_name,
        t.timeslot_id, t.day_of_week, t.start_time, t.end_time,
        cl.room_id, cl.room_number, cl.building`

const sectionJoins = `FROM course_schedule cs
        JOIN courses c ON cs.course_code = c.course_code
        JOIN faculty f ON cs.faculty_id = f.faculty_id
        JOIN timeslots t ON cs.timeslot_id = t.timeslot_id
        JOIN classrooms cl ON cs.room_id = cl.room_id`

// FindByID loads a course schedule by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id int) (*models.CourseSchedule, error) {
	const query = `SELECT schedule_id, course_code, faculty_id, timeslot_id, room_id FROM course_schedule WHERE schedule_id = $1`
	var sched models.CourseSchedule
	if err := r.db.GetContext(ctx, &sched, query, id); err != nil {
		return nil, err
	}
	return &sched, nil
}

// ListSections returns scheduled sections offered to a semester and degree.
func (r *ScheduleRepository) ListSections(ctx context.Context, semester int, degree string) ([]models.ScheduledCourse, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE c.semester = $1 AND c.department = $2 ORDER BY cs.schedule_id`, sectionColumns, sectionJoins)
	var sections []models.ScheduledCourse
	if err := r.db.SelectContext(ctx, &sections, query, semester, degree); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// ListAssignments returns every course assignment with joined display fields.
func (r *ScheduleRepository) ListAssignments(ctx context.Context) ([]models.AssignmentSummary, error) {
	const query = `SELECT cs.schedule_id, cs.course_code, c.course_name,
        f.first_name || ' ' || f.last_name AS faculty_name,
        cl.room_number || ' ' || cl.building AS room,
        t.day_of_week || ' ' || t.start_time || '-' || t.end_time AS timeslot
        FROM course_schedule cs
        JOIN courses c ON cs.course_code = c.course_code
        JOIN faculty f ON cs.faculty_id = f.faculty_id
        JOIN timeslots t ON cs.timeslot_id = t.timeslot_id
        JOIN classrooms cl ON cs.room_id = cl.room_id
        ORDER BY cs.schedule_id`
	var assignments []models.AssignmentSummary
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ExistsForCourse reports whether the course already has a schedule.
func (r *ScheduleRepository) ExistsForCourse(ctx context.Context, courseCode string) (bool, error) {
	const query = `SELECT 1 FROM course_schedule WHERE course_code = $1 LIMIT 1`
	return r.exists(ctx, query, courseCode)
}

// ExistsFacultyAt reports whether the faculty member teaches at the timeslot.
func (r *ScheduleRepository) ExistsFacultyAt(ctx context.Context, facultyID, timeslotID int) (bool, error) {
	const query = `SELECT 1 FROM course_schedule WHERE faculty_id = $1 AND timeslot_id = $2 LIMIT 1`
	return r.exists(ctx, query, facultyID, timeslotID)
}

// ExistsRoomAt reports whether the room is occupied at the timeslot.
func (r *ScheduleRepository) ExistsRoomAt(ctx context.Context, roomID string, timeslotID int) (bool, error) {
	const query = `SELECT 1 FROM course_schedule WHERE room_id = $1 AND timeslot_id = $2 LIMIT 1`
	return r.exists(ctx, query, roomID, timeslotID)
}

func (r *ScheduleRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check schedule: %w", err)
	}
	return true, nil
}

// CreateIfFree inserts the assignment only while the course is unscheduled
// and the faculty and room are both free at the timeslot. The guards run
// inside the insert statement itself so a listing taken moments earlier
// cannot be used to slip a conflicting row in. Returns whether the row was
// created; on success the assigned schedule id is written back.
func (r *ScheduleRepository) CreateIfFree(ctx context.Context, sched *models.CourseSchedule) (bool, error) {
	const query = `INSERT INTO course_schedule (course_code, faculty_id, timeslot_id, room_id)
        SELECT $1, $2, $3, $4
        WHERE NOT EXISTS (SELECT 1 FROM course_schedule WHERE course_code = $1)
          AND NOT EXISTS (SELECT 1 FROM course_schedule WHERE faculty_id = $2 AND timeslot_id = $3)
          AND NOT EXISTS (SELECT 1 FROM course_schedule WHERE room_id = $4 AND timeslot_id = $3)
        RETURNING schedule_id`
	err := r.db.GetContext(ctx, &sched.ID, query, sched.CourseCode, sched.FacultyID, sched.TimeslotID, sched.RoomID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("create schedule: %w", err)
	}
	return true, nil
}

// Remove deletes the schedule and its enrollments in one transaction,
// enrollments first so foreign keys hold throughout. Returns whether the
// schedule row existed.
func (r *ScheduleRepository) Remove(ctx context.Context, id int) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin remove schedule: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE schedule_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete schedule enrollments: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM course_schedule WHERE schedule_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete schedule rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit remove schedule: %w", err)
	}
	return affected > 0, nil
}
