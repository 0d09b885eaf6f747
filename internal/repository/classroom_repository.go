package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scit-dev/registrar/internal/models"
)

// ClassroomRepository handles persistence of classrooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs the repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// FindByID returns a classroom by room id.
func (r *ClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	const query = `SELECT room_id, building, room_number, capacity, room_type FROM classrooms WHERE room_id = $1`
	var room models.Classroom
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// List returns all classrooms ordered by room id.
func (r *ClassroomRepository) List(ctx context.Context) ([]models.Classroom, error) {
	const query = `SELECT room_id, building, room_number, capacity, room_type FROM classrooms ORDER BY room_id`
	var rooms []models.Classroom
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return rooms, nil
}

// Create persists a new classroom record.
func (r *ClassroomRepository) Create(ctx context.Context, room *models.Classroom) error {
	const query = `INSERT INTO classrooms (room_id, building, room_number, capacity, room_type)
        VALUES (:room_id, :building, :room_number, :capacity, :room_type)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}
	return nil
}

// Delete removes a classroom. Returns whether a row was removed.
func (r *ClassroomRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM classrooms WHERE room_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete classroom: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete classroom rows: %w", err)
	}
	return affected > 0, nil
}

// ListFreeAt returns classrooms with no course schedule at the timeslot.
func (r *ClassroomRepository) ListFreeAt(ctx context.Context, timeslotID int) ([]models.ClassroomOption, error) {
	const query = `SELECT room_id, room_number || ' ' || building AS name FROM classrooms
        WHERE room_id NOT IN (SELECT room_id FROM course_schedule WHERE timeslot_id = $1)
        ORDER BY room_id`
	var options []models.ClassroomOption
	if err := r.db.SelectContext(ctx, &options, query, timeslotID); err != nil {
		return nil, fmt.Errorf("list free classrooms: %w", err)
	}
	return options, nil
}
