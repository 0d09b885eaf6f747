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
)

type mockStudentOps struct {
	sections   []models.ScheduledCourse
	timetable  []models.ScheduledCourse
	decision   scheduling.Decision
	enrolled   []int
	dropped    []int
	dropResult bool
}

func (m *mockStudentOps) AvailableSections(ctx context.Context, studentID string) ([]models.ScheduledCourse, error) {
	return m.sections, nil
}

func (m *mockStudentOps) Enroll(ctx context.Context, studentID string, scheduleID int) (scheduling.Decision, error) {
	m.enrolled = append(m.enrolled, scheduleID)
	return m.decision, nil
}

func (m *mockStudentOps) Drop(ctx context.Context, studentID string, scheduleID int) (bool, error) {
	m.dropped = append(m.dropped, scheduleID)
	return m.dropResult, nil
}

func (m *mockStudentOps) Timetable(ctx context.Context, studentID string) ([]models.ScheduledCourse, error) {
	return m.timetable, nil
}

func (m *mockStudentOps) Teachers(ctx context.Context, studentID string) ([]string, error) {
	return []string{"Grace Hopper"}, nil
}

func (m *mockStudentOps) Classrooms(ctx context.Context, studentID string) ([]models.ScheduledCourse, error) {
	return m.timetable, nil
}

type mockExporter struct {
	paths []string
}

func (m *mockExporter) ExportCSV(ctx context.Context, studentID string) (string, error) {
	path := studentID + "_timetable.csv"
	m.paths = append(m.paths, path)
	return path, nil
}

func backgroundContext() (context.Context, context.CancelFunc) {
	return context.WithCancel(context.Background())
}

func newStudentSessionFixture(input string, ops *mockStudentOps) (*StudentSession, *bytes.Buffer, *mockExporter) {
	out := &bytes.Buffer{}
	prompter := NewPrompter(strings.NewReader(input), out)
	exporter := &mockExporter{}
	student := models.Student{ID: "S-001", FirstName: "Ada", LastName: "Lovelace", Degree: "BSCS", Semester: 1}
	sess := NewStudentSession(student, ops, exporter, prompter, backgroundContext, nil)
	return sess, out, exporter
}

func TestStudentSessionAddCourse(t *testing.T) {
	ops := &mockStudentOps{
		sections: []models.ScheduledCourse{
			{ScheduleID: 7, CourseCode: "CS101", CourseName: "Intro to Programming"},
			{ScheduleID: 8, CourseCode: "MA201", CourseName: "Linear Algebra"},
		},
		decision: scheduling.Accept,
	}
	sess, out, _ := newStudentSessionFixture("1\n2\n0\n", ops)

	require.NoError(t, sess.Run())
	assert.Equal(t, []int{8}, ops.enrolled)
	assert.Contains(t, out.String(), "Enrolled successfully.")
}

func TestStudentSessionAddCourseRejected(t *testing.T) {
	ops := &mockStudentOps{
		sections: []models.ScheduledCourse{{ScheduleID: 7, CourseCode: "CS101"}},
		decision: scheduling.Reject(scheduling.ReasonCourseFull),
	}
	sess, out, _ := newStudentSessionFixture("1\n1\n0\n", ops)

	require.NoError(t, sess.Run())
	assert.Contains(t, out.String(), "course is full")
}

func TestStudentSessionDropCourse(t *testing.T) {
	ops := &mockStudentOps{
		timetable:  []models.ScheduledCourse{{ScheduleID: 7, CourseCode: "CS101"}},
		dropResult: true,
	}
	sess, out, _ := newStudentSessionFixture("2\n1\n0\n", ops)

	require.NoError(t, sess.Run())
	assert.Equal(t, []int{7}, ops.dropped)
	assert.Contains(t, out.String(), "Dropped successfully.")
}

func TestStudentSessionViewTimetableEmpty(t *testing.T) {
	sess, out, _ := newStudentSessionFixture("3\n0\n", &mockStudentOps{})

	require.NoError(t, sess.Run())
	assert.Contains(t, out.String(), "No enrolled courses.")
}

func TestStudentSessionExportTimetable(t *testing.T) {
	sess, out, exporter := newStudentSessionFixture("6\n0\n", &mockStudentOps{})

	require.NoError(t, sess.Run())
	require.Len(t, exporter.paths, 1)
	assert.Contains(t, out.String(), "S-001_timetable.csv")
}

func TestStudentSessionInvalidSelection(t *testing.T) {
	ops := &mockStudentOps{
		sections: []models.ScheduledCourse{{ScheduleID: 7, CourseCode: "CS101"}},
		decision: scheduling.Accept,
	}
	sess, out, _ := newStudentSessionFixture("1\n9\n0\n", ops)

	require.NoError(t, sess.Run())
	assert.Empty(t, ops.enrolled)
	assert.Contains(t, out.String(), "selection out of range")
}

func TestStudentSessionEndsOnEOF(t *testing.T) {
	sess, _, _ := newStudentSessionFixture("", &mockStudentOps{})

	require.NoError(t, sess.Run())
}
