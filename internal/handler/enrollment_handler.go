package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scit-dev/registrar/internal/service"
	appErrors "github.com/scit-dev/registrar/pkg/errors"
	"github.com/scit-dev/registrar/pkg/response"
)

// EnrollmentHandler exposes the student enrollment endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	exports     *service.ExportService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, exports *service.ExportService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, exports: exports}
}

// Sections lists the sections a student may enroll in.
func (h *EnrollmentHandler) Sections(c *gin.Context) {
	sections, err := h.enrollments.AvailableSections(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections)
}

type enrollRequest struct {
	ScheduleID int `json:"schedule_id" binding:"required"`
}

// Enroll proposes an enrollment and reports the decision.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	decision, err := h.enrollments.Enroll(c.Request.Context(), c.Param("id"), req.ScheduleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !decision.Allowed {
		response.Error(c, appErrors.New(string(decision.Reason), http.StatusConflict, decision.Reason.Message()))
		return
	}
	response.Created(c, gin.H{"student_id": c.Param("id"), "schedule_id": req.ScheduleID})
}

// Drop removes an enrollment.
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	scheduleID, err := strconv.Atoi(c.Param("scheduleId"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "schedule id must be a number"))
		return
	}
	removed, err := h.enrollments.Drop(c.Request.Context(), c.Param("id"), scheduleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !removed {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found"))
		return
	}
	response.NoContent(c)
}

// Timetable lists a student's enrolled sections.
func (h *EnrollmentHandler) Timetable(c *gin.Context) {
	rows, err := h.enrollments.Timetable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// Teachers lists the distinct teachers on a student's timetable.
func (h *EnrollmentHandler) Teachers(c *gin.Context) {
	names, err := h.enrollments.Teachers(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, names)
}

// Classrooms lists the distinct classrooms on a student's timetable.
func (h *EnrollmentHandler) Classrooms(c *gin.Context) {
	rooms, err := h.enrollments.Classrooms(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms)
}

// ExportTimetable writes the timetable to disk as CSV or PDF.
func (h *EnrollmentHandler) ExportTimetable(c *gin.Context) {
	var (
		path string
		err  error
	)
	switch format := c.DefaultQuery("format", "csv"); format {
	case "csv":
		path, err = h.exports.ExportCSV(c.Request.Context(), c.Param("id"))
	case "pdf":
		path, err = h.exports.ExportPDF(c.Request.Context(), c.Param("id"))
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"path": path})
}
