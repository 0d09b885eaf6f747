package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scit-dev/registrar/internal/models"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Exists reports whether the student is enrolled in the schedule.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID string, scheduleID int) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE student_id = $1 AND schedule_id = $2 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, studentID, scheduleID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// ExistsAtTimeslot reports whether the student already holds any enrollment
// whose schedule occupies the timeslot.
func (r *EnrollmentRepository) ExistsAtTimeslot(ctx context.Context, studentID string, timeslotID int) (bool, error) {
	const query = `SELECT 1 FROM enrollments e
        JOIN course_schedule cs ON e.schedule_id = cs.schedule_id
        WHERE e.student_id = $1 AND cs.timeslot_id = $2 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, studentID, timeslotID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check timeslot clash: %w", err)
	}
	return true, nil
}

// CountBySchedule returns the number of enrollments held by a schedule.
func (r *EnrollmentRepository) CountBySchedule(ctx context.Context, scheduleID int) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE schedule_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, scheduleID); err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return count, nil
}

// ListByStudent returns the student's enrolled sections with joined display
// fields, ordered by schedule id.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ScheduledCourse, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments e
        JOIN course_schedule cs ON e.schedule_id = cs.schedule_id
        JOIN courses c ON cs.course_code = c.course_code
        JOIN faculty f ON cs.faculty_id = f.faculty_id
        JOIN timeslots t ON cs.timeslot_id = t.timeslot_id
        JOIN classrooms cl ON cs.room_id = cl.room_id
        WHERE e.student_id = $1 ORDER BY cs.schedule_id`, sectionColumns)
	var sections []models.ScheduledCourse
	if err := r.db.SelectContext(ctx, &sections, query, studentID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return sections, nil
}

// CreateIfSeatAvailable inserts the enrollment only while the schedule's
// course still has a seat left. The capacity check runs inside the insert
// statement itself, so two racing enrollments against the last seat cannot
// both land. Returns whether the row was created.
func (r *EnrollmentRepository) CreateIfSeatAvailable(ctx context.Context, studentID string, scheduleID int) (bool, error) {
	const query = `INSERT INTO enrollments (student_id, schedule_id)
        SELECT $1, $2
        WHERE (SELECT COUNT(*) FROM enrollments WHERE schedule_id = $2) <
              (SELECT c.max_students FROM course_schedule cs
               JOIN courses c ON cs.course_code = c.course_code
               WHERE cs.schedule_id = $2)`
	res, err := r.db.ExecContext(ctx, query, studentID, scheduleID)
	if err != nil {
		return false, fmt.Errorf("create enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create enrollment rows: %w", err)
	}
	return affected > 0, nil
}

// Delete removes the enrollment. Returns whether a row was removed.
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID string, scheduleID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE student_id = $1 AND schedule_id = $2`, studentID, scheduleID)
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete enrollment rows: %w", err)
	}
	return affected > 0, nil
}
