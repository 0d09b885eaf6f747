package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scit-dev/registrar/internal/models"
	"github.com/scit-dev/registrar/internal/service"
	appErrors "github.com/scit-dev/registrar/pkg/errors"
	"github.com/scit-dev/registrar/pkg/response"
)

// CatalogHandler exposes the admin catalog endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return false
	}
	return true
}

// ListStudents returns a page of registered students.
func (h *CatalogHandler) ListStudents(c *gin.Context) {
	var filter models.StudentFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	students, pagination, err := h.catalog.ListStudents(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, students, pagination)
}

// AddStudent registers a student.
func (h *CatalogHandler) AddStudent(c *gin.Context) {
	var req service.AddStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.catalog.AddStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// RemoveStudent deletes a student and their enrollments.
func (h *CatalogHandler) RemoveStudent(c *gin.Context) {
	if err := h.catalog.RemoveStudent(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListFaculty returns all faculty members.
func (h *CatalogHandler) ListFaculty(c *gin.Context) {
	faculty, err := h.catalog.ListFaculty(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty)
}

// AddFaculty registers a faculty member.
func (h *CatalogHandler) AddFaculty(c *gin.Context) {
	var req service.AddFacultyRequest
	if !bindJSON(c, &req) {
		return
	}
	faculty, err := h.catalog.AddFaculty(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, faculty)
}

// RemoveFaculty deletes a faculty member.
func (h *CatalogHandler) RemoveFaculty(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "faculty id must be a number"))
		return
	}
	if err := h.catalog.RemoveFaculty(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListCourses returns the course catalog.
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// AddCourse adds a catalog course.
func (h *CatalogHandler) AddCourse(c *gin.Context) {
	var req service.AddCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.catalog.AddCourse(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// RemoveCourse deletes a catalog course.
func (h *CatalogHandler) RemoveCourse(c *gin.Context) {
	if err := h.catalog.RemoveCourse(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListClassrooms returns all classrooms.
func (h *CatalogHandler) ListClassrooms(c *gin.Context) {
	classrooms, err := h.catalog.ListClassrooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classrooms)
}

// AddClassroom adds a classroom.
func (h *CatalogHandler) AddClassroom(c *gin.Context) {
	var req service.AddClassroomRequest
	if !bindJSON(c, &req) {
		return
	}
	classroom, err := h.catalog.AddClassroom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, classroom)
}

// RemoveClassroom deletes a classroom.
func (h *CatalogHandler) RemoveClassroom(c *gin.Context) {
	if err := h.catalog.RemoveClassroom(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListTimeslots returns all timeslots.
func (h *CatalogHandler) ListTimeslots(c *gin.Context) {
	timeslots, err := h.catalog.ListTimeslots(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timeslots)
}

// AddTimeslot adds a timeslot.
func (h *CatalogHandler) AddTimeslot(c *gin.Context) {
	var req service.AddTimeslotRequest
	if !bindJSON(c, &req) {
		return
	}
	timeslot, err := h.catalog.AddTimeslot(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, timeslot)
}

// RemoveTimeslot deletes a timeslot.
func (h *CatalogHandler) RemoveTimeslot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "timeslot id must be a number"))
		return
	}
	if err := h.catalog.RemoveTimeslot(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
