package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet   = "Summary"
	questionsSheet = "Questions"
)

// ExportReport renders the score report of a session as an Excel workbook
func (s *quizService) ExportReport(ctx context.Context, id string) ([]byte, error) {
	report, err := s.Report(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := buildReportWorkbook(report)
	if err != nil {
		s.logger.Error("Failed to export report", "session_id", id, "error", err)
		return nil, err
	}
	return data, nil
}

func buildReportWorkbook(report *models.ScoreReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	verdict := "Fail"
	if report.Passed {
		verdict = "Pass"
	}

	summary := [][]interface{}{
		{"Unit", report.Unit},
		{"Module", report.Module},
		{"Course", report.Course},
		{"Correct", report.Score.Correct},
		{"Total", report.Score.Total},
		{"Percentage", report.Score.Percentage},
		{"Result", verdict},
		{"Answered", report.Progress.Answered},
		{"Flagged", report.Progress.Flagged},
		{},
		{"Module", "Total", "Correct", "Accuracy", "Rating"},
	}
	for _, m := range report.Modules {
		summary = append(summary, []interface{}{m.Module, m.Total, m.Correct, m.Accuracy, string(m.Rating)})
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(questionsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	rows := [][]interface{}{
		{"#", "Question ID", "Module", "Question", "Selected", "Correct Options", "Result", "Confirmed", "Flagged", "Explanation"},
	}
	for i, q := range report.Questions {
		result := "Incorrect"
		if q.Correct {
			result = "Correct"
		}
		rows = append(rows, []interface{}{
			i + 1, q.QuestionID, q.Module, q.Text,
			joinIDs(q.Selected), joinIDs(q.CorrectOptionIDs), result,
			q.Confirmed, q.Flagged, q.Explanation,
		})
	}
	if err := writeRows(f, questionsSheet, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
