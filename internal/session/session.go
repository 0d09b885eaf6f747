// Package session implements the console surface: a top-level login loop
// dispatching into one of two role sessions. The roles share nothing beyond
// an identity and the services they drive, so they are separate types rather
// than variants of a common base.
package session

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/scit-dev/registrar/internal/models"
	appErrors "github.com/scit-dev/registrar/pkg/errors"
)

// contextFactory yields a bounded context for one repository-backed
// operation, so a stalled store surfaces as an error instead of a hang.
type contextFactory func() (context.Context, context.CancelFunc)

// NewContextFactory builds per-operation contexts derived from parent with
// the given timeout.
func NewContextFactory(parent context.Context, timeout time.Duration) func() (context.Context, context.CancelFunc) {
	return func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(parent, timeout)
	}
}

type authenticator interface {
	StudentLogin(ctx context.Context, studentID string) (*models.Student, error)
	AdminLogin(password string) error
}

// Loop owns the top-level menu and constructs role sessions on login.
type Loop struct {
	auth       authenticator
	prompter   *Prompter
	newContext contextFactory
	newStudent func(models.Student) *StudentSession
	newAdmin   func() *AdminSession
	logger     *zap.Logger
}

// NewLoop constructs the top-level loop. The two factories defer session
// construction until a login succeeds.
func NewLoop(auth authenticator, prompter *Prompter, newContext func() (context.Context, context.CancelFunc), newStudent func(models.Student) *StudentSession, newAdmin func() *AdminSession, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		auth:       auth,
		prompter:   prompter,
		newContext: newContext,
		newStudent: newStudent,
		newAdmin:   newAdmin,
		logger:     logger,
	}
}

// Run drives the login menu until exit or input ends.
func (l *Loop) Run() error {
	for {
		l.prompter.Printf("\n--- SCIT Management System ---\n")
		l.prompter.Printf("1. Student Login\n2. Admin Login\n0. Exit\n")
		choice, err := l.prompter.Int("Choice")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			l.prompter.Printf("%s\n", errorMessage(err))
			continue
		}

		switch choice {
		case 1:
			err = l.studentLogin()
		case 2:
			err = l.adminLogin()
		case 0:
			l.prompter.Printf("Exiting...\n")
			return nil
		default:
			l.prompter.Printf("Invalid choice.\n")
			continue
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			l.prompter.Printf("%s\n", errorMessage(err))
		}
	}
}

func (l *Loop) studentLogin() error {
	id, err := l.prompter.Line("Enter Student ID")
	if err != nil {
		return err
	}
	ctx, cancel := l.newContext()
	student, err := l.auth.StudentLogin(ctx, id)
	cancel()
	if err != nil {
		return err
	}
	return l.newStudent(*student).Run()
}

func (l *Loop) adminLogin() error {
	password, err := l.prompter.Line("Enter Admin Password")
	if err != nil {
		return err
	}
	if err := l.auth.AdminLogin(password); err != nil {
		return err
	}
	return l.newAdmin().Run()
}

// errorMessage flattens any error into the single-line form the menus print.
func errorMessage(err error) string {
	if appErr := appErrors.FromError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}
