package session

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/scit-dev/registrar/internal/models"
	"github.com/scit-dev/registrar/internal/scheduling"
)

type studentOperations interface {
	AvailableSections(ctx context.Context, studentID string) ([]models.ScheduledCourse, error)
	Enroll(ctx context.Context, studentID string, scheduleID int) (scheduling.Decision, error)
	Drop(ctx context.Context, studentID string, scheduleID int) (bool, error)
	Timetable(ctx context.Context, studentID string) ([]models.ScheduledCourse, error)
	Teachers(ctx context.Context, studentID string) ([]string, error)
	Classrooms(ctx context.Context, studentID string) ([]models.ScheduledCourse, error)
}

type timetableExporter interface {
	ExportCSV(ctx context.Context, studentID string) (string, error)
}

// StudentSession drives the student menu for one logged-in student.
type StudentSession struct {
	student    models.Student
	operations studentOperations
	exporter   timetableExporter
	prompter   *Prompter
	newContext contextFactory
	logger     *zap.Logger
}

// NewStudentSession constructs a session for the student.
func NewStudentSession(student models.Student, operations studentOperations, exporter timetableExporter, prompter *Prompter, newContext contextFactory, logger *zap.Logger) *StudentSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentSession{
		student:    student,
		operations: operations,
		exporter:   exporter,
		prompter:   prompter,
		newContext: newContext,
		logger:     logger,
	}
}

// Run loops the student menu until logout or input ends.
func (s *StudentSession) Run() error {
	for {
		s.prompter.Printf("\n--- Student Menu (%s) ---\n", s.student.FullName())
		s.prompter.Printf("1. Add Course\n2. Drop Course\n3. View Timetable\n4. View Teachers\n5. View Classroom Details\n6. Export Timetable\n0. Logout\n")
		choice, err := s.prompter.Int("Choice")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.prompter.Printf("%s\n", errorMessage(err))
			continue
		}

		switch choice {
		case 1:
			err = s.addCourse()
		case 2:
			err = s.dropCourse()
		case 3:
			err = s.viewTimetable()
		case 4:
			err = s.viewTeachers()
		case 5:
			err = s.viewClassrooms()
		case 6:
			err = s.exportTimetable()
		case 0:
			s.prompter.Printf("Logging out...\n")
			return nil
		default:
			s.prompter.Printf("Invalid choice.\n")
			continue
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.prompter.Printf("%s\n", errorMessage(err))
		}
	}
}

func (s *StudentSession) addCourse() error {
	ctx, cancel := s.newContext()
	defer cancel()

	sections, err := s.operations.AvailableSections(ctx, s.student.ID)
	if err != nil {
		return err
	}
	if len(sections) == 0 {
		s.prompter.Printf("No scheduled courses for your degree/semester.\n")
		return nil
	}
	s.prompter.Printf("Available scheduled courses:\n")
	for i, section := range sections {
		s.prompter.Printf("%d. %s - %s | %s | %s %s-%s | %s %s\n",
			i+1, section.CourseCode, section.CourseName, section.FacultyName,
			section.DayOfWeek, section.StartTime, section.EndTime,
			section.RoomNumber, section.Building)
	}
	idx, err := s.prompter.Select("Enter course number to add", len(sections))
	if err != nil {
		return err
	}

	decision, err := s.operations.Enroll(ctx, s.student.ID, sections[idx].ScheduleID)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		s.prompter.Printf("%s\n", decision.Reason.Message())
		return nil
	}
	s.prompter.Printf("Enrolled successfully.\n")
	return nil
}

func (s *StudentSession) dropCourse() error {
	ctx, cancel := s.newContext()
	defer cancel()

	enrolled, err := s.operations.Timetable(ctx, s.student.ID)
	if err != nil {
		return err
	}
	if len(enrolled) == 0 {
		s.prompter.Printf("No enrolled courses.\n")
		return nil
	}
	for i, section := range enrolled {
		s.prompter.Printf("%d. %s - %s | %s | %s %s-%s\n",
			i+1, section.CourseCode, section.CourseName, section.FacultyName,
			section.DayOfWeek, section.StartTime, section.EndTime)
	}
	idx, err := s.prompter.Select("Enter course number to drop", len(enrolled))
	if err != nil {
		return err
	}

	removed, err := s.operations.Drop(ctx, s.student.ID, enrolled[idx].ScheduleID)
	if err != nil {
		return err
	}
	if !removed {
		s.prompter.Printf("Not enrolled.\n")
		return nil
	}
	s.prompter.Printf("Dropped successfully.\n")
	return nil
}

func (s *StudentSession) viewTimetable() error {
	ctx, cancel := s.newContext()
	defer cancel()

	sections, err := s.operations.Timetable(ctx, s.student.ID)
	if err != nil {
		return err
	}
	if len(sections) == 0 {
		s.prompter.Printf("No enrolled courses.\n")
		return nil
	}
	s.prompter.Printf("%-10s%-32s%-10s%-12s%-12s%-10s%-10s%-20s\n",
		"Course", "Name", "Day", "Start", "End", "Room", "Bldg", "Teacher")
	for _, section := range sections {
		s.prompter.Printf("%-10s%-32s%-10s%-12s%-12s%-10s%-10s%-20s\n",
			section.CourseCode, section.CourseName, section.DayOfWeek,
			section.StartTime, section.EndTime, section.RoomNumber,
			section.Building, section.FacultyName)
	}
	return nil
}

func (s *StudentSession) viewTeachers() error {
	ctx, cancel := s.newContext()
	defer cancel()

	teachers, err := s.operations.Teachers(ctx, s.student.ID)
	if err != nil {
		return err
	}
	s.prompter.Printf("Your Teachers:\n")
	for _, name := range teachers {
		s.prompter.Printf("- %s\n", name)
	}
	return nil
}

func (s *StudentSession) viewClassrooms() error {
	ctx, cancel := s.newContext()
	defer cancel()

	rooms, err := s.operations.Classrooms(ctx, s.student.ID)
	if err != nil {
		return err
	}
	s.prompter.Printf("Your Classrooms:\n")
	for _, room := range rooms {
		s.prompter.Printf("- Room %s in %s\n", room.RoomNumber, room.Building)
	}
	return nil
}

func (s *StudentSession) exportTimetable() error {
	ctx, cancel := s.newContext()
	defer cancel()

	path, err := s.exporter.ExportCSV(ctx, s.student.ID)
	if err != nil {
		return err
	}
	s.prompter.Printf("Timetable exported to %s\n", path)
	return nil
}
