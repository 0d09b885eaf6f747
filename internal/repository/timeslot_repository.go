package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scit-dev/registrar/internal/models"
)

// TimeslotRepository handles persistence of timeslots.
type TimeslotRepository struct {
	db *sqlx.DB
}

// NewTimeslotRepository constructs the repository.
func NewTimeslotRepository(db *sqlx.DB) *TimeslotRepository {
	return &TimeslotRepository{db: db}
}

// FindByID returns a timeslot by id.
func (r *TimeslotRepository) FindByID(ctx context.Context, id int) (*models.Timeslot, error) {
	const query = `SELECT timeslot_id, day_of_week, start_time, end_time FROM timeslots WHERE timeslot_id = $1`
	var slot models.Timeslot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// List returns all timeslots ordered by id.
func (r *TimeslotRepository) List(ctx context.Context) ([]models.Timeslot, error) {
	const query = `SELECT timeslot_id, day_of_week, start_time, end_time FROM timeslots ORDER BY timeslot_id`
	var slots []models.Timeslot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list timeslots: %w", err)
	}
	return slots, nil
}

// Create persists a new timeslot; the store assigns the id.
func (r *TimeslotRepository) Create(ctx context.Context, slot *models.Timeslot) error {
	const query = `INSERT INTO timeslots (day_of_week, start_time, end_time)
        VALUES ($1, $2, $3) RETURNING timeslot_id`
	if err := r.db.GetContext(ctx, &slot.ID, query, slot.DayOfWeek, slot.StartTime, slot.EndTime); err != nil {
		return fmt.Errorf("create timeslot: %w", err)
	}
	return nil
}

// Delete removes a timeslot. Returns whether a row was removed.
func (r *TimeslotRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timeslots WHERE timeslot_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete timeslot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete timeslot rows: %w", err)
	}
	return affected > 0, nil
}
