package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scit-dev/registrar/internal/models"
	appErrors "github.com/scit-dev/registrar/pkg/errors"
)

type studentWriter interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Create(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) (bool, error)
}

type facultyWriter interface {
	List(ctx context.Context) ([]models.Faculty, error)
	Create(ctx context.Context, faculty *models.Faculty) error
	Delete(ctx context.Context, id int) (bool, error)
}

type courseWriter interface {
	List(ctx context.Context) ([]models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, code string) (bool, error)
}

type classroomWriter interface {
	List(ctx context.Context) ([]models.Classroom, error)
	Create(ctx context.Context, room *models.Classroom) error
	Delete(ctx context.Context, id string) (bool, error)
}

type timeslotWriter interface {
	List(ctx context.Context) ([]models.Timeslot, error)
	Create(ctx context.Context, slot *models.Timeslot) error
	Delete(ctx context.Context, id int) (bool, error)
}

// AddStudentRequest describes the payload for registering a student.
type AddStudentRequest struct {
	ID        string `json:"id" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"required,email"`
	Degree    string `json:"degree" validate:"required"`
	Semester  int    `json:"semester" validate:"required,min=1"`
}

// AddFacultyRequest describes the payload for registering a faculty member.
// The id is assigned by the store.
type AddFacultyRequest struct {
	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name"`
	Email         string `json:"email" validate:"required,email"`
	Degree        string `json:"degree"`
	Qualification string `json:"qualification"`
	Expertise     string `json:"expertise_sub"`
	Designation   string `json:"designation"`
}

// AddCourseRequest describes the payload for adding a catalog course.
type AddCourseRequest struct {
	Code          string `json:"code" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Credits       int    `json:"credits" validate:"required,min=1"`
	Semester      int    `json:"semester" validate:"required,min=1"`
	Department    string `json:"department" validate:"required"`
	MaxStudents   int    `json:"max_students" validate:"min=0"`
	Prerequisites string `json:"prerequisites"`
}

// AddClassroomRequest describes the payload for adding a classroom.
type AddClassroomRequest struct {
	ID         string `json:"id" validate:"required"`
	Building   string `json:"building" validate:"required"`
	RoomNumber string `json:"room_number" validate:"required"`
	Capacity   int    `json:"capacity" validate:"min=0"`
	RoomType   string `json:"room_type"`
}

// AddTimeslotRequest describes the payload for adding a timeslot.
type AddTimeslotRequest struct {
	DayOfWeek string `json:"day_of_week" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// CatalogService manages the reference entities behind the admin menu.
type CatalogService struct {
	students   studentWriter
	faculty    facultyWriter
	courses    courseWriter
	classrooms classroomWriter
	timeslots  timeslotWriter
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(students studentWriter, faculty facultyWriter, courses courseWriter, classrooms classroomWriter, timeslots timeslotWriter, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		students:   students,
		faculty:    faculty,
		courses:    courses,
		classrooms: classrooms,
		timeslots:  timeslots,
		validator:  validate,
		logger:     logger,
	}
}

// AddStudent registers a new student.
func (s *CatalogService) AddStudent(ctx context.Context, req AddStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := &models.Student{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Degree:    req.Degree,
		Semester:  req.Semester,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student added", zap.String("student_id", student.ID))
	return student, nil
}

// RemoveStudent deletes a student and their enrollments.
func (s *CatalogService) RemoveStudent(ctx context.Context, id string) error {
	removed, err := s.students.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove student")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	s.logger.Info("student removed", zap.String("student_id", id))
	return nil
}

// ListStudents returns a page of students and pagination metadata.
func (s *CatalogService) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return students, pagination, nil
}

// AddFaculty registers a new faculty member and returns the assigned id.
func (s *CatalogService) AddFaculty(ctx context.Context, req AddFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}
	faculty := &models.Faculty{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Degree:        req.Degree,
		Qualification: req.Qualification,
		Expertise:     req.Expertise,
		Designation:   req.Designation,
	}
	if err := s.faculty.Create(ctx, faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty")
	}
	s.logger.Info("faculty added", zap.Int("faculty_id", faculty.ID))
	return faculty, nil
}

// RemoveFaculty deletes a faculty member.
func (s *CatalogService) RemoveFaculty(ctx context.Context, id int) error {
	removed, err := s.faculty.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove faculty")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
	}
	s.logger.Info("faculty removed", zap.Int("faculty_id", id))
	return nil
}

// ListFaculty returns all faculty members.
func (s *CatalogService) ListFaculty(ctx context.Context) ([]models.Faculty, error) {
	faculty, err := s.faculty.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	return faculty, nil
}

// AddCourse adds a catalog course.
func (s *CatalogService) AddCourse(ctx context.Context, req AddCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := &models.Course{
		Code:          req.Code,
		Name:          req.Name,
		Credits:       req.Credits,
		Semester:      req.Semester,
		Department:    req.Department,
		MaxStudents:   req.MaxStudents,
		Prerequisites: req.Prerequisites,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.logger.Info("course added", zap.String("course_code", course.Code))
	return course, nil
}

// RemoveCourse deletes a catalog course.
func (s *CatalogService) RemoveCourse(ctx context.Context, code string) error {
	removed, err := s.courses.Delete(ctx, code)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove course")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	s.logger.Info("course removed", zap.String("course_code", code))
	return nil
}

// ListCourses returns all catalog courses.
func (s *CatalogService) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// AddClassroom adds a classroom.
func (s *CatalogService) AddClassroom(ctx context.Context, req AddClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}
	room := &models.Classroom{
		ID:         req.ID,
		Building:   req.Building,
		RoomNumber: req.RoomNumber,
		Capacity:   req.Capacity,
		RoomType:   req.RoomType,
	}
	if err := s.classrooms.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create classroom")
	}
	s.logger.Info("classroom added", zap.String("room_id", room.ID))
	return room, nil
}

// RemoveClassroom deletes a classroom.
func (s *CatalogService) RemoveClassroom(ctx context.Context, id string) error {
	removed, err := s.classrooms.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove classroom")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
	}
	s.logger.Info("classroom removed", zap.String("room_id", id))
	return nil
}

// ListClassrooms returns all classrooms.
func (s *CatalogService) ListClassrooms(ctx context.Context) ([]models.Classroom, error) {
	rooms, err := s.classrooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}
	return rooms, nil
}

// AddTimeslot adds a timeslot; the store assigns the id.
func (s *CatalogService) AddTimeslot(ctx context.Context, req AddTimeslotRequest) (*models.Timeslot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timeslot payload")
	}
	slot := &models.Timeslot{
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.timeslots.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timeslot")
	}
	s.logger.Info("timeslot added", zap.Int("timeslot_id", slot.ID))
	return slot, nil
}

// RemoveTimeslot deletes a timeslot.
func (s *CatalogService) RemoveTimeslot(ctx context.Context, id int) error {
	removed, err := s.timeslots.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove timeslot")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "timeslot not found")
	}
	s.logger.Info("timeslot removed", zap.Int("timeslot_id", id))
	return nil
}

// ListTimeslots returns all timeslots.
func (s *CatalogService) ListTimeslots(ctx context.Context) ([]models.Timeslot, error) {
	slots, err := s.timeslots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timeslots")
	}
	return slots, nil
}
