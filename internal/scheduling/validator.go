// Package scheduling holds the pure decision logic deciding whether a
// proposed enrollment or course assignment is legal against the current
// repository state. The validator keeps no state of its own; every call
// re-reads the store, so it is safe to re-invoke at any time.
package scheduling

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/scit-dev/registrar/internal/models"
)

// Reason identifies why a proposal was rejected.
type Reason string

const (
	ReasonAlreadyEnrolled  Reason = "ALREADY_ENROLLED"
	ReasonTimeslotClash    Reason = "TIMESLOT_CLASH"
	ReasonCourseFull       Reason = "COURSE_FULL"
	ReasonAlreadyScheduled Reason = "ALREADY_SCHEDULED"
	ReasonFacultyBusy      Reason = "FACULTY_BUSY"
	ReasonRoomBusy         Reason = "ROOM_BUSY"
)

// Message returns the operator-facing description of the rejection.
func (r Reason) Message() string {
	switch r {
	case ReasonAlreadyEnrolled:
		return "already enrolled in this course"
	case ReasonTimeslotClash:
		return "course timeslot clashes with an existing enrollment"
	case ReasonCourseFull:
		return "course is full"
	case ReasonAlreadyScheduled:
		return "course already has an assignment"
	case ReasonFacultyBusy:
		return "faculty member is busy at this timeslot"
	case ReasonRoomBusy:
		return "room is occupied at this timeslot"
	default:
		return string(r)
	}
}

// Decision is the outcome of a validation. A rejection is a normal negative
// result, never an error; errors are reserved for repository failures.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason,omitempty"`
}

// Accept is the positive decision.
var Accept = Decision{Allowed: true}

// Reject builds a negative decision with the given reason.
func Reject(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

type enrollmentReader interface {
	Exists(ctx context.Context, studentID string, scheduleID int) (bool, error)
	ExistsAtTimeslot(ctx context.Context, studentID string, timeslotID int) (bool, error)
	CountBySchedule(ctx context.Context, scheduleID int) (int, error)
}

type scheduleReader interface {
	FindByID(ctx context.Context, id int) (*models.CourseSchedule, error)
	ExistsForCourse(ctx context.Context, courseCode string) (bool, error)
	ExistsFacultyAt(ctx context.Context, facultyID, timeslotID int) (bool, error)
	ExistsRoomAt(ctx context.Context, roomID string, timeslotID int) (bool, error)
}

type courseReader interface {
	FindByCode(ctx context.Context, code string) (*models.Course, error)
}

// Validator answers accept/reject questions for enrollment and assignment
// proposals.
type Validator struct {
	enrollments enrollmentReader
	schedules   scheduleReader
	courses     courseReader
}

// NewValidator constructs a Validator over the given readers.
func NewValidator(enrollments enrollmentReader, schedules scheduleReader, courses courseReader) *Validator {
	return &Validator{enrollments: enrollments, schedules: schedules, courses: courses}
}

// CanEnroll decides whether the student may join the schedule. Checks run in
// fixed order and stop at the first failure: already enrolled, then timeslot
// clash, then capacity. Clash detection compares timeslot ids only; distinct
// timeslots are unrelated even when their windows overlap.
func (v *Validator) CanEnroll(ctx context.Context, studentID string, scheduleID int) (Decision, error) {
	enrolled, err := v.enrollments.Exists(ctx, studentID, scheduleID)
	if err != nil {
		return Decision{}, err
	}
	if enrolled {
		return Reject(ReasonAlreadyEnrolled), nil
	}

	sched, err := v.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Decision{}, fmt.Errorf("schedule %d not found", scheduleID)
		}
		return Decision{}, err
	}

	clash, err := v.enrollments.ExistsAtTimeslot(ctx, studentID, sched.TimeslotID)
	if err != nil {
		return Decision{}, err
	}
	if clash {
		return Reject(ReasonTimeslotClash), nil
	}

	course, err := v.courses.FindByCode(ctx, sched.CourseCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Decision{}, fmt.Errorf("course %s not found", sched.CourseCode)
		}
		return Decision{}, err
	}
	count, err := v.enrollments.CountBySchedule(ctx, scheduleID)
	if err != nil {
		return Decision{}, err
	}
	if count >= course.MaxStudents {
		return Reject(ReasonCourseFull), nil
	}

	return Accept, nil
}

// CanAssign decides whether the course may be bound to the faculty, timeslot
// and room. The course must be unscheduled and both the faculty and the room
// free at the timeslot. The candidate lists offered to the admin already
// filter on these conditions, but the validator re-checks; listing filters
// are not the integrity boundary.
func (v *Validator) CanAssign(ctx context.Context, courseCode string, facultyID, timeslotID int, roomID string) (Decision, error) {
	scheduled, err := v.schedules.ExistsForCourse(ctx, courseCode)
	if err != nil {
		return Decision{}, err
	}
	if scheduled {
		return Reject(ReasonAlreadyScheduled), nil
	}

	busy, err := v.schedules.ExistsFacultyAt(ctx, facultyID, timeslotID)
	if err != nil {
		return Decision{}, err
	}
	if busy {
		return Reject(ReasonFacultyBusy), nil
	}

	occupied, err := v.schedules.ExistsRoomAt(ctx, roomID, timeslotID)
	if err != nil {
		return Decision{}, err
	}
	if occupied {
		return Reject(ReasonRoomBusy), nil
	}

	return Accept, nil
}
