package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scit-dev/registrar/internal/models"
	"github.com/scit-dev/registrar/internal/scheduling"
	appErrors "github.com/scit-dev/registrar/pkg/errors"
)

type enrollKey struct {
	studentID  string
	scheduleID int
}

// mockEnrollmentStore backs both the service and the validator with an
// in-memory enrollment table.
type mockEnrollmentStore struct {
	enrollments map[enrollKey]bool
	schedules   map[int]models.CourseSchedule
	courses     map[string]models.Course
	timetable   map[string][]models.ScheduledCourse
	insertLoses bool
	err         error
}

func newMockEnrollmentStore() *mockEnrollmentStore {
	return &mockEnrollmentStore{
		enrollments: make(map[enrollKey]bool),
		schedules:   make(map[int]models.CourseSchedule),
		courses:     make(map[string]models.Course),
		timetable:   make(map[string][]models.ScheduledCourse),
	}
}

func (m *mockEnrollmentStore) Exists(ctx context.Context, studentID string, scheduleID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.enrollments[enrollKey{studentID, scheduleID}], nil
}

func (m *mockEnrollmentStore) ExistsAtTimeslot(ctx context.Context, studentID string, timeslotID int) (bool, error) {
	for key, active := range m.enrollments {
		if !active || key.studentID != studentID {
			continue
		}
		if sched, ok := m.schedules[key.scheduleID]; ok && sched.TimeslotID == timeslotID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentStore) CountBySchedule(ctx context.Context, scheduleID int) (int, error) {
	count := 0
	for key, active := range m.enrollments {
		if active && key.scheduleID == scheduleID {
			count++
		}
	}
	return count, nil
}

func (m *mockEnrollmentStore) ListByStudent(ctx context.Context, studentID string) ([]models.ScheduledCourse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.timetable[studentID], nil
}

func (m *mockEnrollmentStore) CreateIfSeatAvailable(ctx context.Context, studentID string, scheduleID int) (bool, error) {
	if m.insertLoses {
		return false, nil
	}
	sched, ok := m.schedules[scheduleID]
	if !ok {
		return false, nil
	}
	count, _ := m.CountBySchedule(ctx, scheduleID)
	if course, ok := m.courses[sched.CourseCode]; ok && count >= course.MaxStudents {
		return false, nil
	}
	m.enrollments[enrollKey{studentID, scheduleID}] = true
	return true, nil
}

func (m *mockEnrollmentStore) Delete(ctx context.Context, studentID string, scheduleID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	key := enrollKey{studentID, scheduleID}
	if !m.enrollments[key] {
		return false, nil
	}
	delete(m.enrollments, key)
	return true, nil
}

// FindByID and the Exists* methods satisfy the validator's schedule reader.
func (m *mockEnrollmentStore) FindByID(ctx context.Context, id int) (*models.CourseSchedule, error) {
	if sched, ok := m.schedules[id]; ok {
		return &sched, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentStore) ExistsForCourse(ctx context.Context, courseCode string) (bool, error) {
	for _, sched := range m.schedules {
		if sched.CourseCode == courseCode {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentStore) ExistsFacultyAt(ctx context.Context, facultyID, timeslotID int) (bool, error) {
	for _, sched := range m.schedules {
		if sched.FacultyID == facultyID && sched.TimeslotID == timeslotID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentStore) ExistsRoomAt(ctx context.Context, roomID string, timeslotID int) (bool, error) {
	for _, sched := range m.schedules {
		if sched.RoomID == roomID && sched.TimeslotID == timeslotID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentStore) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	if course, ok := m.courses[code]; ok {
		return &course, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentStore) ListSections(ctx context.Context, semester int, degree string) ([]models.ScheduledCourse, error) {
	if m.err != nil {
		return nil, m.err
	}
	var sections []models.ScheduledCourse
	for _, sched := range m.schedules {
		course, ok := m.courses[sched.CourseCode]
		if !ok || course.Semester != semester {
			continue
		}
		sections = append(sections, models.ScheduledCourse{
			ScheduleID: sched.ID,
			CourseCode: sched.CourseCode,
			CourseName: course.Name,
			Semester:   course.Semester,
			TimeslotID: sched.TimeslotID,
		})
	}
	return sections, nil
}

type mockStudents struct {
	students map[string]models.Student
	err      error
}

func (m *mockStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	if student, ok := m.students[id]; ok {
		return &student, nil
	}
	return nil, sql.ErrNoRows
}

type mockListingCache struct {
	entries map[string][]byte
	sets    int
	deletes []string
}

func (m *mockListingCache) Get(ctx context.Context, key string, dest interface{}) error {
	if _, ok := m.entries[key]; !ok {
		return appErrors.ErrCacheMiss
	}
	// The cache stores section listings only, so the destination type is
	// fixed.
	*(dest.(*[]models.ScheduledCourse)) = []models.ScheduledCourse{{CourseCode: "CACHED"}}
	return nil
}

func (m *mockListingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = []byte("set")
	m.sets++
	return nil
}

func (m *mockListingCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletes = append(m.deletes, pattern)
	for key := range m.entries {
		delete(m.entries, key)
	}
	return nil
}

func newEnrollmentFixture() (*EnrollmentService, *mockEnrollmentStore, *mockStudents) {
	store := newMockEnrollmentStore()
	store.courses["CS101"] = models.Course{Code: "CS101", Name: "Intro to Programming", Semester: 1, MaxStudents: 2}
	store.courses["MA201"] = models.Course{Code: "MA201", Name: "Linear Algebra", Semester: 1, MaxStudents: 30}
	store.schedules[1] = models.CourseSchedule{ID: 1, CourseCode: "CS101", FacultyID: 1, TimeslotID: 10, RoomID: "R-101"}
	store.schedules[2] = models.CourseSchedule{ID: 2, CourseCode: "MA201", FacultyID: 2, TimeslotID: 10, RoomID: "R-102"}

	students := &mockStudents{students: map[string]models.Student{
		"S-001": {ID: "S-001", FirstName: "Ada", Degree: "BSCS", Semester: 1},
	}}

	validator := scheduling.NewValidator(store, store, store)
	svc := NewEnrollmentService(store, students, store, validator, nil, 0, nil)
	return svc, store, students
}

func TestEnrollAccepted(t *testing.T) {
	svc, store, _ := newEnrollmentFixture()

	decision, err := svc.Enroll(context.Background(), "S-001", 1)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.True(t, store.enrollments[enrollKey{"S-001", 1}])
}

func TestEnrollUnknownStudent(t *testing.T) {
	svc, _, _ := newEnrollmentFixture()

	_, err := svc.Enroll(context.Background(), "S-999", 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollRejectedOnTimeslotClash(t *testing.T) {
	svc, store, _ := newEnrollmentFixture()
	store.enrollments[enrollKey{"S-001", 1}] = true

	// Schedule 2 shares timeslot 10 with schedule 1.
	decision, err := svc.Enroll(context.Background(), "S-001", 2)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, scheduling.ReasonTimeslotClash, decision.Reason)
}

func TestEnrollRejectedWhenSeatLostToRace(t *testing.T) {
	svc, store, _ := newEnrollmentFixture()
	// The validator sees a free seat but the conditional insert loses it to
	// a concurrent enrollment.
	store.insertLoses = true

	decision, err := svc.Enroll(context.Background(), "S-001", 1)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, scheduling.ReasonCourseFull, decision.Reason)
	assert.False(t, store.enrollments[enrollKey{"S-001", 1}])
}

func TestDropThenReenroll(t *testing.T) {
	svc, _, _ := newEnrollmentFixture()
	ctx := context.Background()

	decision, err := svc.Enroll(ctx, "S-001", 1)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	removed, err := svc.Drop(ctx, "S-001", 1)
	require.NoError(t, err)
	assert.True(t, removed)

	decision, err = svc.Enroll(ctx, "S-001", 1)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestDropMissingEnrollment(t *testing.T) {
	svc, _, _ := newEnrollmentFixture()

	removed, err := svc.Drop(context.Background(), "S-001", 1)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAvailableSectionsUsesCache(t *testing.T) {
	store := newMockEnrollmentStore()
	store.courses["CS101"] = models.Course{Code: "CS101", Name: "Intro to Programming", Semester: 1, MaxStudents: 30}
	store.schedules[1] = models.CourseSchedule{ID: 1, CourseCode: "CS101", TimeslotID: 10}
	students := &mockStudents{students: map[string]models.Student{
		"S-001": {ID: "S-001", Degree: "BSCS", Semester: 1},
	}}
	cache := &mockListingCache{}
	validator := scheduling.NewValidator(store, store, store)
	svc := NewEnrollmentService(store, students, store, validator, cache, time.Minute, nil)
	ctx := context.Background()

	sections, err := svc.AvailableSections(ctx, "S-001")
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, 1, cache.sets)

	cached, err := svc.AvailableSections(ctx, "S-001")
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "CACHED", cached[0].CourseCode)
	assert.Equal(t, 1, cache.sets)
}

func TestAvailableSectionsUnknownStudent(t *testing.T) {
	svc, _, _ := newEnrollmentFixture()

	_, err := svc.AvailableSections(context.Background(), "S-999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTeachersDeduplicates(t *testing.T) {
	svc, store, _ := newEnrollmentFixture()
	store.timetable["S-001"] = []models.ScheduledCourse{
		{CourseCode: "CS101", FacultyName: "Grace Hopper"},
		{CourseCode: "MA201", FacultyName: "Alan Turing"},
		{CourseCode: "PH101", FacultyName: "Grace Hopper"},
	}

	names, err := svc.Teachers(context.Background(), "S-001")
	require.NoError(t, err)
	assert.Equal(t, []string{"Grace Hopper", "Alan Turing"}, names)
}

func TestClassroomsDeduplicatesByRoom(t *testing.T) {
	svc, store, _ := newEnrollmentFixture()
	store.timetable["S-001"] = []models.ScheduledCourse{
		{CourseCode: "CS101", RoomNumber: "101", Building: "Science"},
		{CourseCode: "MA201", RoomNumber: "101", Building: "Science"},
		{CourseCode: "PH101", RoomNumber: "101", Building: "Arts"},
	}

	rooms, err := svc.Classrooms(context.Background(), "S-001")
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Science", rooms[0].Building)
	assert.Equal(t, "Arts", rooms[1].Building)
}

func TestTimetablePropagatesStoreError(t *testing.T) {
	svc, store, _ := newEnrollmentFixture()
	store.err = errors.New("connection reset")

	_, err := svc.Timetable(context.Background(), "S-001")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
