package session

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/scit-dev/registrar/internal/models"
	"github.com/scit-dev/registrar/internal/scheduling"
	"github.com/scit-dev/registrar/internal/service"
)

type catalogOperations interface {
	AddStudent(ctx context.Context, req service.AddStudentRequest) (*models.Student, error)
	RemoveStudent(ctx context.Context, id string) error
	AddFaculty(ctx context.Context, req service.AddFacultyRequest) (*models.Faculty, error)
	RemoveFaculty(ctx context.Context, id int) error
	AddCourse(ctx context.Context, req service.AddCourseRequest) (*models.Course, error)
	RemoveCourse(ctx context.Context, code string) error
	AddClassroom(ctx context.Context, req service.AddClassroomRequest) (*models.Classroom, error)
	RemoveClassroom(ctx context.Context, id string) error
	AddTimeslot(ctx context.Context, req service.AddTimeslotRequest) (*models.Timeslot, error)
	RemoveTimeslot(ctx context.Context, id int) error
}

type assignmentOperations interface {
	UnscheduledCourses(ctx context.Context) ([]models.CourseOption, error)
	Timeslots(ctx context.Context) ([]models.Timeslot, error)
	FreeFaculty(ctx context.Context, timeslotID int) ([]models.FacultyOption, error)
	FreeRooms(ctx context.Context, timeslotID int) ([]models.ClassroomOption, error)
	ListAssignments(ctx context.Context) ([]models.AssignmentSummary, error)
	Assign(ctx context.Context, courseCode string, facultyID, timeslotID int, roomID string) (scheduling.Decision, *models.CourseSchedule, error)
	RemoveAssignment(ctx context.Context, scheduleID int) (bool, error)
}

// AdminSession drives the admin menu.
type AdminSession struct {
	catalog     catalogOperations
	assignments assignmentOperations
	prompter    *Prompter
	newContext  contextFactory
	logger      *zap.Logger
}

// NewAdminSession constructs an admin session.
func NewAdminSession(catalog catalogOperations, assignments assignmentOperations, prompter *Prompter, newContext contextFactory, logger *zap.Logger) *AdminSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminSession{
		catalog:     catalog,
		assignments: assignments,
		prompter:    prompter,
		newContext:  newContext,
		logger:      logger,
	}
}

// Run loops the admin menu until logout or input ends.
func (s *AdminSession) Run() error {
	for {
		s.prompter.Printf("\n--- Admin Menu ---\n")
		s.prompter.Printf("1. Add Student\n2. Remove Student\n3. Add Faculty\n4. Remove Faculty\n5. Add Course\n6. Remove Course\n7. Add Classroom\n8. Remove Classroom\n9. Add Timeslot\n10. Remove Timeslot\n11. Assign Course Schedule\n12. Remove Course Assignment\n0. Logout\n")
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
			err = s.addStudent()
		case 2:
			err = s.removeStudent()
		case 3:
			err = s.addFaculty()
		case 4:
			err = s.removeFaculty()
		case 5:
			err = s.addCourse()
		case 6:
			err = s.removeCourse()
		case 7:
			err = s.addClassroom()
		case 8:
			err = s.removeClassroom()
		case 9:
			err = s.addTimeslot()
		case 10:
			err = s.removeTimeslot()
		case 11:
			err = s.assignCourseSchedule()
		case 12:
			err = s.removeCourseAssignment()
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

func (s *AdminSession) addStudent() error {
	var req service.AddStudentRequest
	var err error
	if req.ID, err = s.prompter.Line("Student ID"); err != nil {
		return err
	}
	if req.FirstName, err = s.prompter.Line("First name"); err != nil {
		return err
	}
	if req.LastName, err = s.prompter.Line("Last name"); err != nil {
		return err
	}
	if req.Email, err = s.prompter.Line("Email"); err != nil {
		return err
	}
	if req.Degree, err = s.prompter.Line("Degree"); err != nil {
		return err
	}
	if req.Semester, err = s.prompter.Int("Semester"); err != nil {
		return err
	}

	ctx, cancel := s.newContext()
	defer cancel()
	if _, err := s.catalog.AddStudent(ctx, req); err != nil {
		return err
	}
	s.prompter.Printf("Student added.\n")
	return nil
}

func (s *AdminSession) removeStudent() error {
	id, err := s.prompter.Line("Student ID to remove")
	if err != nil {
		return err
	}
	ctx, cancel := s.newContext()
	defer cancel()
	if err := s.catalog.RemoveStudent(ctx, id); err != nil {
		return err
	}
	s.prompter.Printf("Student removed.\n")
	return nil
}

func (s *AdminSession) addFaculty() error {
	var req service.AddFacultyRequest
	var err error
	if req.FirstName, err = s.prompter.Line("First name"); err != nil {
		return err
	}
	if req.LastName, err = s.prompter.Line("Last name"); err != nil {
		return err
	}
	if req.Email, err = s.prompter.Line("Email"); err != nil {
		return err
	}
	if req.Degree, err = s.prompter.Line("Degree"); err != nil {
		return err
	}
	if req.Qualification, err = s.prompter.Line("Qualification"); err != nil {
		return err
	}
	if req.Expertise, err = s.prompter.Line("Expertise subject"); err != nil {
		return err
	}
	if req.Designation, err = s.prompter.Line("Designation"); err != nil {
		return err
	}

	ctx, cancel := s.newContext()
	defer cancel()
	faculty, err := s.catalog.AddFaculty(ctx, req)
	if err != nil {
		return err
	}
	s.prompter.Printf("Faculty added with id %d.\n", faculty.ID)
	return nil
}

func (s *AdminSession) removeFaculty() error {
	id, err := s.prompter.Int("Faculty ID to remove")
	if err != nil {
		return err
	}
	ctx, cancel := s.newContext()
	defer cancel()
	if err := s.catalog.RemoveFaculty(ctx, id); err != nil {
		return err
	}
	s.prompter.Printf("Faculty removed.\n")
	return nil
}

func (s *AdminSession) addCourse() error {
	var req service.AddCourseRequest
	var err error
	if req.Code, err = s.prompter.Line("Course code"); err != nil {
		return err
	}
	if req.Name, err = s.prompter.Line("Course name"); err != nil {
		return err
	}
	if req.Credits, err = s.prompter.Int("Credits"); err != nil {
		return err
	}
	if req.Semester, err = s.prompter.Int("Semester"); err != nil {
		return err
	}
	if req.Department, err = s.prompter.Line("Department"); err != nil {
		return err
	}
	if req.MaxStudents, err = s.prompter.Int("Max students"); err != nil {
		return err
	}
	if req.Prerequisites, err = s.prompter.Line("Prerequisites"); err != nil {
		return err
	}

	ctx, cancel := s.newContext()
	defer cancel()
	if _, err := s.catalog.AddCourse(ctx, req); err != nil {
		return err
	}
	s.prompter.Printf("Course added.\n")
	return nil
}

func (s *AdminSession) removeCourse() error {
	code, err := s.prompter.Line("Course code to remove")
	if err != nil {
		return err
	}
	ctx, cancel := s.newContext()
	defer cancel()
	if err := s.catalog.RemoveCourse(ctx, code); err != nil {
		return err
	}
	s.prompter.Printf("Course removed.\n")
	return nil
}

func (s *AdminSession) addClassroom() error {
	var req service.AddClassroomRequest
	var err error
	if req.ID, err = s.prompter.Line("Room ID"); err != nil {
		return err
	}
	if req.RoomNumber, err = s.prompter.Line("Room number"); err != nil {
		return err
	}
	if req.Building, err = s.prompter.Line("Building"); err != nil {
		return err
	}
	if req.Capacity, err = s.prompter.Int("Capacity"); err != nil {
		return err
	}
	if req.RoomType, err = s.prompter.Line("Room type"); err != nil {
		return err
	}

	ctx, cancel := s.newContext()
	defer cancel()
	if _, err := s.catalog.AddClassroom(ctx, req); err != nil {
		return err
	}
	s.prompter.Printf("Classroom added.\n")
	return nil
}

func (s *AdminSession) removeClassroom() error {
	id, err := s.prompter.Line("Room ID to remove")
	if err != nil {
		return err
	}
	ctx, cancel := s.newContext()
	defer cancel()
	if err := s.catalog.RemoveClassroom(ctx, id); err != nil {
		return err
	}
	s.prompter.Printf("Classroom removed.\n")
	return nil
}

func (s *AdminSession) addTimeslot() error {
	var req service.AddTimeslotRequest
	var err error
	if req.DayOfWeek, err = s.prompter.Line("Day of week"); err != nil {
		return err
	}
	if req.StartTime, err = s.prompter.Line("Start time (HH:MM:SS)"); err != nil {
		return err
	}
	if req.EndTime, err = s.prompter.Line("End time (HH:MM:SS)"); err != nil {
		return err
	}

	ctx, cancel := s.newContext()
	defer cancel()
	slot, err := s.catalog.AddTimeslot(ctx, req)
	if err != nil {
		return err
	}
	s.prompter.Printf("Timeslot %d added.\n", slot.ID)
	return nil
}

func (s *AdminSession) removeTimeslot() error {
	id, err := s.prompter.Int("Timeslot ID to remove")
	if err != nil {
		return err
	}
	ctx, cancel := s.newContext()
	defer cancel()
	if err := s.catalog.RemoveTimeslot(ctx, id); err != nil {
		return err
	}
	s.prompter.Printf("Timeslot removed.\n")
	return nil
}

func (s *AdminSession) assignCourseSchedule() error {
	ctx, cancel := s.newContext()
	defer cancel()

	courses, err := s.assignments.UnscheduledCourses(ctx)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		s.prompter.Printf("All courses are already assigned. Remove an assignment to reassign.\n")
		return nil
	}
	s.prompter.Printf("Courses:\n")
	for i, course := range courses {
		s.prompter.Printf("%d. %s - %s\n", i+1, course.Code, course.Name)
	}
	courseIdx, err := s.prompter.Select("Select course", len(courses))
	if err != nil {
		return err
	}

	slots, err := s.assignments.Timeslots(ctx)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		s.prompter.Printf("No timeslots defined.\n")
		return nil
	}
	s.prompter.Printf("Timeslots:\n")
	for i, slot := range slots {
		s.prompter.Printf("%d. %s\n", i+1, slot.Label())
	}
	slotIdx, err := s.prompter.Select("Select timeslot", len(slots))
	if err != nil {
		return err
	}
	timeslotID := slots[slotIdx].ID

	faculty, err := s.assignments.FreeFaculty(ctx, timeslotID)
	if err != nil {
		return err
	}
	if len(faculty) == 0 {
		s.prompter.Printf("No available faculty for this timeslot.\n")
		return nil
	}
	s.prompter.Printf("Faculty:\n")
	for i, option := range faculty {
		s.prompter.Printf("%d. %d - %s\n", i+1, option.ID, option.Name)
	}
	facultyIdx, err := s.prompter.Select("Select faculty", len(faculty))
	if err != nil {
		return err
	}

	rooms, err := s.assignments.FreeRooms(ctx, timeslotID)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		s.prompter.Printf("No available rooms for this timeslot.\n")
		return nil
	}
	s.prompter.Printf("Rooms:\n")
	for i, option := range rooms {
		s.prompter.Printf("%d. %s - %s\n", i+1, option.ID, option.Name)
	}
	roomIdx, err := s.prompter.Select("Select room", len(rooms))
	if err != nil {
		return err
	}

	decision, _, err := s.assignments.Assign(ctx, courses[courseIdx].Code, faculty[facultyIdx].ID, timeslotID, rooms[roomIdx].ID)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		s.prompter.Printf("%s\n", decision.Reason.Message())
		return nil
	}
	s.prompter.Printf("Assignment completed.\n")
	return nil
}

func (s *AdminSession) removeCourseAssignment() error {
	ctx, cancel := s.newContext()
	defer cancel()

	assignments, err := s.assignments.ListAssignments(ctx)
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		s.prompter.Printf("No assigned courses.\n")
		return nil
	}
	for i, assignment := range assignments {
		s.prompter.Printf("%d. %s - %s | %s | %s | %s\n",
			i+1, assignment.CourseCode, assignment.CourseName,
			assignment.FacultyName, assignment.Room, assignment.Timeslot)
	}
	idx, err := s.prompter.Select("Select assignment to remove", len(assignments))
	if err != nil {
		return err
	}

	removed, err := s.assignments.RemoveAssignment(ctx, assignments[idx].ScheduleID)
	if err != nil {
		return err
	}
	if !removed {
		s.prompter.Printf("Assignment no longer exists.\n")
		return nil
	}
	s.prompter.Printf("Assignment removed.\n")
	return nil
}
