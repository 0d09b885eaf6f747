package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/scit-dev/registrar/internal/models"
	appErrors "github.com/scit-dev/registrar/pkg/errors"
	"github.com/scit-dev/registrar/pkg/export"
)

var timetableHeaders = []string{"Course", "Name", "Day", "Start", "End", "Room", "Bldg", "Teacher"}

type timetableReader interface {
	Timetable(ctx context.Context, studentID string) ([]models.ScheduledCourse, error)
}

// ExportService renders student timetables to files.
type ExportService struct {
	timetables timetableReader
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	dir        string
	logger     *zap.Logger
}

// NewExportService constructs ExportService writing into dir.
func NewExportService(timetables timetableReader, dir string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		dir = "."
	}
	return &ExportService{
		timetables: timetables,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		dir:        dir,
		logger:     logger,
	}
}

// TimetableDataset builds the export dataset for a student's timetable.
func (s *ExportService) TimetableDataset(ctx context.Context, studentID string) (export.Dataset, error) {
	sections, err := s.timetables.Timetable(ctx, studentID)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(sections))
	for _, section := range sections {
		rows = append(rows, map[string]string{
			"Course":  section.CourseCode,
			"Name":    section.CourseName,
			"Day":     section.DayOfWeek,
			"Start":   section.StartTime,
			"End":     section.EndTime,
			"Room":    section.RoomNumber,
			"Bldg":    section.Building,
			"Teacher": section.FacultyName,
		})
	}
	return export.Dataset{Headers: timetableHeaders, Rows: rows}, nil
}

// ExportCSV writes `<studentId>_timetable.csv` and returns its path.
func (s *ExportService) ExportCSV(ctx context.Context, studentID string) (string, error) {
	dataset, err := s.TimetableDataset(ctx, studentID)
	if err != nil {
		return "", err
	}
	payload, err := s.csv.Render(dataset)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable csv")
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%s_timetable.csv", studentID))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write timetable csv")
	}
	s.logger.Info("timetable exported", zap.String("student_id", studentID), zap.String("path", path))
	return path, nil
}

// ExportPDF writes `<studentId>_timetable.pdf` and returns its path.
func (s *ExportService) ExportPDF(ctx context.Context, studentID string) (string, error) {
	dataset, err := s.TimetableDataset(ctx, studentID)
	if err != nil {
		return "", err
	}
	payload, err := s.pdf.Render(dataset, fmt.Sprintf("Timetable %s", studentID))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable pdf")
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%s_timetable.pdf", studentID))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write timetable pdf")
	}
	s.logger.Info("timetable exported", zap.String("student_id", studentID), zap.String("path", path))
	return path, nil
}
