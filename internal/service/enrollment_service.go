package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scit-dev/registrar/internal/metrics"
	"github.com/scit-dev/registrar/internal/models"
	"github.com/scit-dev/registrar/internal/scheduling"
	appErrors "github.com/scit-dev/registrar/pkg/errors"
)

type enrollmentStore interface {
	Exists(ctx context.Context, studentID string, scheduleID int) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.ScheduledCourse, error)
	CreateIfSeatAvailable(ctx context.Context, studentID string, scheduleID int) (bool, error)
	Delete(ctx context.Context, studentID string, scheduleID int) (bool, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type sectionLister interface {
	ListSections(ctx context.Context, semester int, degree string) ([]models.ScheduledCourse, error)
}

type listingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// EnrollmentService drives the student-side workflows: browsing sections,
// enrolling, dropping, and the timetable views.
type EnrollmentService struct {
	enrollments enrollmentStore
	students    studentReader
	sections    sectionLister
	validator   *scheduling.Validator
	cache       listingCache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService. The cache is optional;
// pass nil to disable listing caching.
func NewEnrollmentService(enrollments enrollmentStore, students studentReader, sections sectionLister, validator *scheduling.Validator, cache listingCache, cacheTTL time.Duration, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		enrollments: enrollments,
		students:    students,
		sections:    sections,
		validator:   validator,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// AvailableSections lists the scheduled sections offered to the student's
// semester and degree.
func (s *EnrollmentService) AvailableSections(ctx context.Context, studentID string) ([]models.ScheduledCourse, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	key := fmt.Sprintf("sections:%d:%s", student.Semester, student.Degree)
	if s.cache != nil {
		var cached []models.ScheduledCourse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	sections, err := s.sections.ListSections(ctx, student.Semester, student.Degree)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, sections, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache section listing", zap.Error(err))
		}
	}
	return sections, nil
}

// Enroll registers the student into the schedule. The validator decides
// first; on accept the insert re-verifies capacity atomically, so a seat
// vanishing between the decision and the write surfaces as CourseFull rather
// than an oversold section.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID string, scheduleID int) (scheduling.Decision, error) {
	exists, err := s.studentExists(ctx, studentID)
	if err != nil {
		return scheduling.Decision{}, err
	}
	if !exists {
		return scheduling.Decision{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	decision, err := s.validator.CanEnroll(ctx, studentID, scheduleID)
	if err != nil {
		metrics.EnrollmentDecisions.WithLabelValues(metrics.OutcomeError).Inc()
		return scheduling.Decision{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate enrollment")
	}
	if !decision.Allowed {
		metrics.EnrollmentDecisions.WithLabelValues(strings.ToLower(string(decision.Reason))).Inc()
		return decision, nil
	}

	created, err := s.enrollments.CreateIfSeatAvailable(ctx, studentID, scheduleID)
	if err != nil {
		metrics.EnrollmentDecisions.WithLabelValues(metrics.OutcomeError).Inc()
		return scheduling.Decision{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	if !created {
		// Lost the last seat to a concurrent enrollment.
		metrics.EnrollmentDecisions.WithLabelValues(strings.ToLower(string(scheduling.ReasonCourseFull))).Inc()
		return scheduling.Reject(scheduling.ReasonCourseFull), nil
	}

	metrics.EnrollmentDecisions.WithLabelValues(metrics.OutcomeAccepted).Inc()
	s.logger.Info("student enrolled",
		zap.String("student_id", studentID),
		zap.Int("schedule_id", scheduleID),
	)
	return scheduling.Accept, nil
}

// Drop removes the student's enrollment. Returns whether a row was removed.
func (s *EnrollmentService) Drop(ctx context.Context, studentID string, scheduleID int) (bool, error) {
	removed, err := s.enrollments.Delete(ctx, studentID, scheduleID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to drop enrollment")
	}
	if removed {
		s.logger.Info("student dropped course",
			zap.String("student_id", studentID),
			zap.Int("schedule_id", scheduleID),
		)
	}
	return removed, nil
}

// Timetable returns the student's enrolled sections.
func (s *EnrollmentService) Timetable(ctx context.Context, studentID string) ([]models.ScheduledCourse, error) {
	sections, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return sections, nil
}

// Teachers returns the distinct faculty names teaching the student, in
// timetable order.
func (s *EnrollmentService) Teachers(ctx context.Context, studentID string) ([]string, error) {
	sections, err := s.Timetable(ctx, studentID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(sections))
	var names []string
	for _, section := range sections {
		if !seen[section.FacultyName] {
			seen[section.FacultyName] = true
			names = append(names, section.FacultyName)
		}
	}
	return names, nil
}

// Classrooms returns the distinct classrooms hosting the student's sections,
// in timetable order.
func (s *EnrollmentService) Classrooms(ctx context.Context, studentID string) ([]models.ScheduledCourse, error) {
	sections, err := s.Timetable(ctx, studentID)
	if err != nil {
		return nil, err
	}
	type roomKey struct{ number, building string }
	seen := make(map[roomKey]bool, len(sections))
	var rooms []models.ScheduledCourse
	for _, section := range sections {
		key := roomKey{section.RoomNumber, section.Building}
		if !seen[key] {
			seen[key] = true
			rooms = append(rooms, section)
		}
	}
	return rooms, nil
}

func (s *EnrollmentService) studentExists(ctx context.Context, studentID string) (bool, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return true, nil
}
