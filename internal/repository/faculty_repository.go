package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scit-dev/registrar/internal/models"
)

// FacultyRepository handles persistence of faculty members.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs the repository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// FindByID returns a faculty member by id.
func (r *FacultyRepository) FindByID(ctx context.Context, id int) (*models.Faculty, error) {
	const query = `SELECT faculty_id, first_name, last_name, email, degree, qualification, expertise_sub, designation FROM faculty WHERE faculty_id = $1`
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// List returns all faculty members ordered by id.
func (r *FacultyRepository) List(ctx context.Context) ([]models.Faculty, error) {
	const query = `SELECT faculty_id, first_name, last_name, email, degree, qualification, expertise_sub, designation FROM faculty ORDER BY faculty_id`
	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query); err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}
	return faculty, nil
}

// Create persists a new faculty record. The id is assigned as max+1 inside
// the insert so two concurrent creates cannot claim the same id.
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	const query = `INSERT INTO faculty (faculty_id, first_name, last_name, email, degree, qualification, expertise_sub, designation)
        VALUES ((SELECT COALESCE(MAX(faculty_id), 0) + 1 FROM faculty), $1, $2, $3, $4, $5, $6, $7)
        RETURNING faculty_id`
	if err := r.db.GetContext(ctx, &faculty.ID, query,
		faculty.FirstName, faculty.LastName, faculty.Email, faculty.Degree,
		faculty.Qualification, faculty.Expertise, faculty.Designation); err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}
	return nil
}

// Delete removes a faculty member. Returns whether a row was removed.
func (r *FacultyRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM faculty WHERE faculty_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete faculty: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete faculty rows: %w", err)
	}
	return affected > 0, nil
}

// ListFreeAt returns faculty with no course schedule at the timeslot.
func (r *FacultyRepository) ListFreeAt(ctx context.Context, timeslotID int) ([]models.FacultyOption, error) {
	const query = `SELECT faculty_id, first_name || ' ' || last_name AS name FROM faculty
        WHERE faculty_id NOT IN (SELECT faculty_id FROM course_schedule WHERE timeslot_id = $1)
        ORDER BY faculty_id`
	var options []models.FacultyOption
	if err := r.db.SelectContext(ctx, &options, query, timeslotID); err != nil {
		return nil, fmt.Errorf("list free faculty: %w", err)
	}
	return options, nil
}
