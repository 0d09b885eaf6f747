package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/scit-dev/registrar/internal/models"
)

func TestFacultyRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFacultyRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO faculty (faculty_id, first_name, last_name, email, degree, qualification, expertise_sub, designation)")).
		WithArgs("Grace", "Hopper", "grace@example.edu", "PhD", "Professor", "Compilers", "Chair").
		WillReturnRows(sqlmock.NewRows([]string{"faculty_id"}).AddRow(4))

	faculty := &models.Faculty{
		FirstName:     "Grace",
		LastName:      "Hopper",
		Email:         "grace@example.edu",
		Degree:        "PhD",
		Qualification: "Professor",
		Expertise:     "Compilers",
		Designation:   "Chair",
	}
	require.NoError(t, repo.Create(context.Background(), faculty))
	require.Equal(t, 4, faculty.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryListFreeAt(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFacultyRepository(db)
	rows := sqlmock.NewRows([]string{"faculty_id", "name"}).
		AddRow(1, "Grace Hopper").
		AddRow(3, "Alan Turing")
	mock.ExpectQuery("SELECT faculty_id, first_name").
		WithArgs(10).
		WillReturnRows(rows)

	options, err := repo.ListFreeAt(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, options, 2)
	require.Equal(t, "Grace Hopper", options[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFacultyRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM faculty WHERE faculty_id = $1")).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.Delete(context.Background(), 4)
	require.NoError(t, err)
	require.True(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}
