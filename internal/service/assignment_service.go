package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/scit-dev/registrar/internal/metrics"
	"github.com/scit-dev/registrar/internal/models"
	"github.com/scit-dev/registrar/internal/scheduling"
	appErrors "github.com/scit-dev/registrar/pkg/errors"
)

type scheduleStore interface {
	FindByID(ctx context.Context, id int) (*models.CourseSchedule, error)
	ListAssignments(ctx context.Context) ([]models.AssignmentSummary, error)
	CreateIfFree(ctx context.Context, sched *models.CourseSchedule) (bool, error)
	Remove(ctx context.Context, id int) (bool, error)
}

type courseCatalog interface {
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	ListUnscheduled(ctx context.Context) ([]models.CourseOption, error)
}

type facultyCatalog interface {
	FindByID(ctx context.Context, id int) (*models.Faculty, error)
	ListFreeAt(ctx context.Context, timeslotID int) ([]models.FacultyOption, error)
}

type classroomCatalog interface {
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
	ListFreeAt(ctx context.Context, timeslotID int) ([]models.ClassroomOption, error)
}

type timeslotCatalog interface {
	FindByID(ctx context.Context, id int) (*models.Timeslot, error)
	List(ctx context.Context) ([]models.Timeslot, error)
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AssignmentService drives the admin-side course assignment workflow.
type AssignmentService struct {
	schedules  scheduleStore
	courses    courseCatalog
	faculty    facultyCatalog
	classrooms classroomCatalog
	timeslots  timeslotCatalog
	validator  *scheduling.Validator
	cache      cacheInvalidator
	logger     *zap.Logger
}

// NewAssignmentService constructs AssignmentService. The cache is optional.
func NewAssignmentService(schedules scheduleStore, courses courseCatalog, faculty facultyCatalog, classrooms classroomCatalog, timeslots timeslotCatalog, validator *scheduling.Validator, cache cacheInvalidator, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		schedules:  schedules,
		courses:    courses,
		faculty:    faculty,
		classrooms: classrooms,
		timeslots:  timeslots,
		validator:  validator,
		cache:      cache,
		logger:     logger,
	}
}

// UnscheduledCourses lists courses without an assignment.
func (s *AssignmentService) UnscheduledCourses(ctx context.Context) ([]models.CourseOption, error) {
	options, err := s.courses.ListUnscheduled(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list unscheduled courses")
	}
	return options, nil
}

// Timeslots lists every timeslot.
func (s *AssignmentService) Timeslots(ctx context.Context) ([]models.Timeslot, error) {
	slots, err := s.timeslots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timeslots")
	}
	return slots, nil
}

// FreeFaculty lists faculty with no assignment at the timeslot.
func (s *AssignmentService) FreeFaculty(ctx context.Context, timeslotID int) ([]models.FacultyOption, error) {
	options, err := s.faculty.ListFreeAt(ctx, timeslotID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list free faculty")
	}
	return options, nil
}

// FreeRooms lists classrooms with no assignment at the timeslot.
func (s *AssignmentService) FreeRooms(ctx context.Context, timeslotID int) ([]models.ClassroomOption, error) {
	options, err := s.classrooms.ListFreeAt(ctx, timeslotID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list free rooms")
	}
	return options, nil
}

// ListAssignments returns every course assignment.
func (s *AssignmentService) ListAssignments(ctx context.Context) ([]models.AssignmentSummary, error) {
	assignments, err := s.schedules.ListAssignments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Assign binds the course to the faculty, timeslot and room. All four
// references must exist; the validator decides; on accept the insert
// re-verifies the conflicts atomically. When the insert loses a race the
// validator is consulted again for the concrete reason.
func (s *AssignmentService) Assign(ctx context.Context, courseCode string, facultyID, timeslotID int, roomID string) (scheduling.Decision, *models.CourseSchedule, error) {
	if err := s.checkReferences(ctx, courseCode, facultyID, timeslotID, roomID); err != nil {
		return scheduling.Decision{}, nil, err
	}

	decision, err := s.validator.CanAssign(ctx, courseCode, facultyID, timeslotID, roomID)
	if err != nil {
		metrics.AssignmentDecisions.WithLabelValues(metrics.OutcomeError).Inc()
		return scheduling.Decision{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate assignment")
	}
	if !decision.Allowed {
		metrics.AssignmentDecisions.WithLabelValues(strings.ToLower(string(decision.Reason))).Inc()
		return decision, nil, nil
	}

	sched := &models.CourseSchedule{
		CourseCode: courseCode,
		FacultyID:  facultyID,
		TimeslotID: timeslotID,
		RoomID:     roomID,
	}
	created, err := s.schedules.CreateIfFree(ctx, sched)
	if err != nil {
		metrics.AssignmentDecisions.WithLabelValues(metrics.OutcomeError).Inc()
		return scheduling.Decision{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	if !created {
		decision, err := s.validator.CanAssign(ctx, courseCode, facultyID, timeslotID, roomID)
		if err != nil {
			return scheduling.Decision{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate assignment")
		}
		if decision.Allowed {
			// The conflicting row vanished again between the insert
			// and the re-check; report the collision as-is.
			return scheduling.Decision{}, nil, appErrors.Clone(appErrors.ErrConflict, "assignment conflicted with a concurrent change")
		}
		metrics.AssignmentDecisions.WithLabelValues(strings.ToLower(string(decision.Reason))).Inc()
		return decision, nil, nil
	}

	metrics.AssignmentDecisions.WithLabelValues(metrics.OutcomeAccepted).Inc()
	s.invalidateListings(ctx)
	s.logger.Info("course assigned",
		zap.String("course_code", courseCode),
		zap.Int("faculty_id", facultyID),
		zap.Int("timeslot_id", timeslotID),
		zap.String("room_id", roomID),
		zap.Int("schedule_id", sched.ID),
	)
	return scheduling.Accept, sched, nil
}

// RemoveAssignment deletes the schedule and its enrollments. Returns whether
// the assignment existed.
func (s *AssignmentService) RemoveAssignment(ctx context.Context, scheduleID int) (bool, error) {
	removed, err := s.schedules.Remove(ctx, scheduleID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove assignment")
	}
	if removed {
		s.invalidateListings(ctx)
		s.logger.Info("course assignment removed", zap.Int("schedule_id", scheduleID))
	}
	return removed, nil
}

func (s *AssignmentService) checkReferences(ctx context.Context, courseCode string, facultyID, timeslotID int, roomID string) error {
	if _, err := s.courses.FindByCode(ctx, courseCode); err != nil {
		return notFoundOr(err, "course not found")
	}
	if _, err := s.faculty.FindByID(ctx, facultyID); err != nil {
		return notFoundOr(err, "faculty not found")
	}
	if _, err := s.timeslots.FindByID(ctx, timeslotID); err != nil {
		return notFoundOr(err, "timeslot not found")
	}
	if _, err := s.classrooms.FindByID(ctx, roomID); err != nil {
		return notFoundOr(err, "classroom not found")
	}
	return nil
}

func (s *AssignmentService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "sections:*"); err != nil {
		s.logger.Warn("failed to invalidate section listings", zap.Error(err))
	}
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reference")
}
