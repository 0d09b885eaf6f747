package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scit-dev/registrar/internal/service"
	appErrors "github.com/scit-dev/registrar/pkg/errors"
	"github.com/scit-dev/registrar/pkg/response"
)

// AssignmentHandler exposes the admin course assignment endpoints.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler constructs AssignmentHandler.
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// List returns every course assignment.
func (h *AssignmentHandler) List(c *gin.Context) {
	rows, err := h.assignments.ListAssignments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// UnscheduledCourses lists courses that have no assignment yet.
func (h *AssignmentHandler) UnscheduledCourses(c *gin.Context) {
	courses, err := h.assignments.UnscheduledCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// FreeFaculty lists faculty unoccupied at a timeslot.
func (h *AssignmentHandler) FreeFaculty(c *gin.Context) {
	timeslotID, err := strconv.Atoi(c.Param("timeslotId"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "timeslot id must be a number"))
		return
	}
	options, err := h.assignments.FreeFaculty(c.Request.Context(), timeslotID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options)
}

// FreeRooms lists classrooms unoccupied at a timeslot.
func (h *AssignmentHandler) FreeRooms(c *gin.Context) {
	timeslotID, err := strconv.Atoi(c.Param("timeslotId"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "timeslot id must be a number"))
		return
	}
	options, err := h.assignments.FreeRooms(c.Request.Context(), timeslotID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options)
}

type assignRequest struct {
	CourseCode string `json:"course_code" binding:"required"`
	FacultyID  int    `json:"faculty_id" binding:"required"`
	TimeslotID int    `json:"timeslot_id" binding:"required"`
	RoomID     string `json:"room_id" binding:"required"`
}

// Assign proposes a course assignment and reports the decision.
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	decision, schedule, err := h.assignments.Assign(c.Request.Context(), req.CourseCode, req.FacultyID, req.TimeslotID, req.RoomID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !decision.Allowed {
		response.Error(c, appErrors.New(string(decision.Reason), http.StatusConflict, decision.Reason.Message()))
		return
	}
	response.Created(c, schedule)
}

// Remove deletes a course assignment and its enrollments.
func (h *AssignmentHandler) Remove(c *gin.Context) {
	scheduleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "schedule id must be a number"))
		return
	}
	removed, err := h.assignments.RemoveAssignment(c.Request.Context(), scheduleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !removed {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "assignment not found"))
		return
	}
	response.NoContent(c)
}
