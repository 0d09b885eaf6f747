package session

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scit-dev/registrar/internal/models"
	"github.com/scit-dev/registrar/internal/scheduling"
	"github.com/scit-dev/registrar/internal/service"
)

type mockCatalogOps struct {
	students  []service.AddStudentRequest
	faculty   []service.AddFacultyRequest
	courses   []service.AddCourseRequest
	removed   []string
	timeslots []service.AddTimeslotRequest
}

func (m *mockCatalogOps) AddStudent(ctx context.Context, req service.AddStudentRequest) (*models.Student, error) {
	m.students = append(m.students, req)
	return &models.Student{ID: req.ID}, nil
}

func (m *mockCatalogOps) RemoveStudent(ctx context.Context, id string) error {
	m.removed = append(m.removed, id)
	return nil
}

func (m *mockCatalogOps) AddFaculty(ctx context.Context, req service.AddFacultyRequest) (*models.Faculty, error) {
	m.faculty = append(m.faculty, req)
	return &models.Faculty{ID: len(m.faculty)}, nil
}

func (m *mockCatalogOps) RemoveFaculty(ctx context.Context, id int) error { return nil }

func (m *mockCatalogOps) AddCourse(ctx context.Context, req service.AddCourseRequest) (*models.Course, error) {
	m.courses = append(m.courses, req)
	return &models.Course{Code: req.Code}, nil
}

func (m *mockCatalogOps) RemoveCourse(ctx context.Context, code string) error { return nil }

func (m *mockCatalogOps) AddClassroom(ctx context.Context, req service.AddClassroomRequest) (*models.Classroom, error) {
	return &models.Classroom{ID: req.ID}, nil
}

func (m *mockCatalogOps) RemoveClassroom(ctx context.Context, id string) error { return nil }

func (m *mockCatalogOps) AddTimeslot(ctx context.Context, req service.AddTimeslotRequest) (*models.Timeslot, error) {
	m.timeslots = append(m.timeslots, req)
	return &models.Timeslot{ID: len(m.timeslots)}, nil
}

func (m *mockCatalogOps) RemoveTimeslot(ctx context.Context, id int) error { return nil }

type assignCall struct {
	courseCode string
	facultyID  int
	timeslotID int
	roomID     string
}

type mockAssignmentOps struct {
	courses     []models.CourseOption
	slots       []models.Timeslot
	faculty     []models.FacultyOption
	rooms       []models.ClassroomOption
	assignments []models.AssignmentSummary
	decision    scheduling.Decision
	calls       []assignCall
	removed     []int
}

func (m *mockAssignmentOps) UnscheduledCourses(ctx context.Context) ([]models.CourseOption, error) {
	return m.courses, nil
}

func (m *mockAssignmentOps) Timeslots(ctx context.Context) ([]models.Timeslot, error) {
	return m.slots, nil
}

func (m *mockAssignmentOps) FreeFaculty(ctx context.Context, timeslotID int) ([]models.FacultyOption, error) {
	return m.faculty, nil
}

func (m *mockAssignmentOps) FreeRooms(ctx context.Context, timeslotID int) ([]models.ClassroomOption, error) {
	return m.rooms, nil
}

func (m *mockAssignmentOps) ListAssignments(ctx context.Context) ([]models.AssignmentSummary, error) {
	return m.assignments, nil
}

func (m *mockAssignmentOps) Assign(ctx context.Context, courseCode string, facultyID, timeslotID int, roomID string) (scheduling.Decision, *models.CourseSchedule, error) {
	m.calls = append(m.calls, assignCall{courseCode, facultyID, timeslotID, roomID})
	if !m.decision.Allowed {
		return m.decision, nil, nil
	}
	return m.decision, &models.CourseSchedule{ID: 1, CourseCode: courseCode}, nil
}

func (m *mockAssignmentOps) RemoveAssignment(ctx context.Context, scheduleID int) (bool, error) {
	m.removed = append(m.removed, scheduleID)
	return true, nil
}

func newAdminSessionFixture(input string, catalog *mockCatalogOps, assignments *mockAssignmentOps) (*AdminSession, *bytes.Buffer) {
	out := &bytes.Buffer{}
	prompter := NewPrompter(strings.NewReader(input), out)
	sess := NewAdminSession(catalog, assignments, prompter, backgroundContext, nil)
	return sess, out
}

func TestAdminSessionAddStudent(t *testing.T) {
	catalog := &mockCatalogOps{}
	input := "1\nS-001\nAda\nLovelace\nada@example.edu\nBSCS\n1\n0\n"
	sess, out := newAdminSessionFixture(input, catalog, &mockAssignmentOps{})

	require.NoError(t, sess.Run())
	require.Len(t, catalog.students, 1)
	assert.Equal(t, "S-001", catalog.students[0].ID)
	assert.Equal(t, 1, catalog.students[0].Semester)
	assert.Contains(t, out.String(), "Student added.")
}

func TestAdminSessionAddFacultyReportsID(t *testing.T) {
	catalog := &mockCatalogOps{}
	input := "3\nGrace\nHopper\ngrace@example.edu\nPhD\nProfessor\nCompilers\nChair\n0\n"
	sess, out := newAdminSessionFixture(input, catalog, &mockAssignmentOps{})

	require.NoError(t, sess.Run())
	require.Len(t, catalog.faculty, 1)
	assert.Equal(t, "Compilers", catalog.faculty[0].Expertise)
	assert.Contains(t, out.String(), "Faculty added with id 1.")
}

func TestAdminSessionAssignCourse(t *testing.T) {
	assignments := &mockAssignmentOps{
		courses:  []models.CourseOption{{Code: "CS101", Name: "Intro to Programming"}},
		slots:    []models.Timeslot{{ID: 10, DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:30"}},
		faculty:  []models.FacultyOption{{ID: 1, Name: "Grace Hopper"}, {ID: 3, Name: "Alan Turing"}},
		rooms:    []models.ClassroomOption{{ID: "R-101", Name: "101, Science"}},
		decision: scheduling.Accept,
	}
	// Menu 11, course 1, timeslot 1, faculty 2, room 1.
	input := "11\n1\n1\n2\n1\n0\n"
	sess, out := newAdminSessionFixture(input, &mockCatalogOps{}, assignments)

	require.NoError(t, sess.Run())
	require.Len(t, assignments.calls, 1)
	assert.Equal(t, assignCall{"CS101", 3, 10, "R-101"}, assignments.calls[0])
	assert.Contains(t, out.String(), "Assignment completed.")
}

func TestAdminSessionAssignRejected(t *testing.T) {
	assignments := &mockAssignmentOps{
		courses:  []models.CourseOption{{Code: "CS101", Name: "Intro to Programming"}},
		slots:    []models.Timeslot{{ID: 10, DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:30"}},
		faculty:  []models.FacultyOption{{ID: 1, Name: "Grace Hopper"}},
		rooms:    []models.ClassroomOption{{ID: "R-101", Name: "101, Science"}},
		decision: scheduling.Reject(scheduling.ReasonRoomBusy),
	}
	input := "11\n1\n1\n1\n1\n0\n"
	sess, out := newAdminSessionFixture(input, &mockCatalogOps{}, assignments)

	require.NoError(t, sess.Run())
	assert.Contains(t, out.String(), "room is occupied at this timeslot")
}

func TestAdminSessionAssignNoUnscheduledCourses(t *testing.T) {
	sess, out := newAdminSessionFixture("11\n0\n", &mockCatalogOps{}, &mockAssignmentOps{})

	require.NoError(t, sess.Run())
	assert.Contains(t, out.String(), "All courses are already assigned.")
}

func TestAdminSessionRemoveAssignment(t *testing.T) {
	assignments := &mockAssignmentOps{
		assignments: []models.AssignmentSummary{
			{ScheduleID: 7, CourseCode: "CS101", CourseName: "Intro to Programming", FacultyName: "Grace Hopper", Room: "101 Science", Timeslot: "Monday 09:00-10:30"},
		},
	}
	sess, out := newAdminSessionFixture("12\n1\n0\n", &mockCatalogOps{}, assignments)

	require.NoError(t, sess.Run())
	assert.Equal(t, []int{7}, assignments.removed)
	assert.Contains(t, out.String(), "Assignment removed.")
}

func TestAdminSessionInvalidMenuChoice(t *testing.T) {
	sess, out := newAdminSessionFixture("42\n0\n", &mockCatalogOps{}, &mockAssignmentOps{})

	require.NoError(t, sess.Run())
	assert.Contains(t, out.String(), "Invalid choice.")
}
