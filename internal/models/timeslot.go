package models

import "fmt"

// Timeslot describes a reserved weekly period. Two timeslots never clash
// unless they share the same id, even when their windows overlap in real
// time; clash detection is identity-based throughout.
type Timeslot struct {
	ID        int    `db:"timeslot_id" json:"id"`
	DayOfWeek string `db:"day_of_week" json:"day_of_week"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// Label renders the timeslot for pickers and listings.
func (t Timeslot) Label() string {
	return fmt.Sprintf("%s %s-%s", t.DayOfWeek, t.StartTime, t.EndTime)
}
