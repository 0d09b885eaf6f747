package session

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scit-dev/registrar/internal/models"
	appErrors "github.com/scit-dev/registrar/pkg/errors"
)

type mockAuth struct {
	students map[string]models.Student
	password string
}

func (m *mockAuth) StudentLogin(ctx context.Context, studentID string) (*models.Student, error) {
	if student, ok := m.students[studentID]; ok {
		return &student, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student id not found")
}

func (m *mockAuth) AdminLogin(password string) error {
	if password != m.password {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid admin password")
	}
	return nil
}

func newLoopFixture(input string) (*Loop, *bytes.Buffer) {
	out := &bytes.Buffer{}
	prompter := NewPrompter(strings.NewReader(input), out)
	auth := &mockAuth{
		students: map[string]models.Student{
			"S-001": {ID: "S-001", FirstName: "Ada", LastName: "Lovelace"},
		},
		password: "s3cret",
	}
	newStudent := func(student models.Student) *StudentSession {
		return NewStudentSession(student, &mockStudentOps{}, &mockExporter{}, prompter, backgroundContext, nil)
	}
	newAdmin := func() *AdminSession {
		return NewAdminSession(&mockCatalogOps{}, &mockAssignmentOps{}, prompter, backgroundContext, nil)
	}
	return NewLoop(auth, prompter, backgroundContext, newStudent, newAdmin, nil), out
}

func TestLoopStudentLoginAndLogout(t *testing.T) {
	loop, out := newLoopFixture("1\nS-001\n0\n0\n")

	require.NoError(t, loop.Run())
	assert.Contains(t, out.String(), "Student Menu (Ada Lovelace)")
	assert.Contains(t, out.String(), "Exiting...")
}

func TestLoopStudentLoginUnknownID(t *testing.T) {
	loop, out := newLoopFixture("1\nS-999\n0\n")

	require.NoError(t, loop.Run())
	assert.Contains(t, out.String(), "student id not found")
}

func TestLoopAdminLogin(t *testing.T) {
	loop, out := newLoopFixture("2\ns3cret\n0\n0\n")

	require.NoError(t, loop.Run())
	assert.Contains(t, out.String(), "Admin Menu")
}

func TestLoopAdminLoginWrongPassword(t *testing.T) {
	loop, out := newLoopFixture("2\nnope\n0\n")

	require.NoError(t, loop.Run())
	assert.Contains(t, out.String(), "invalid admin password")
	assert.NotContains(t, out.String(), "Admin Menu")
}

func TestLoopEndsOnEOF(t *testing.T) {
	loop, _ := newLoopFixture("")

	require.NoError(t, loop.Run())
}

func TestContextFactoryAppliesTimeout(t *testing.T) {
	factory := NewContextFactory(context.Background(), time.Minute)

	ctx, cancel := factory()
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, time.Second)
}
