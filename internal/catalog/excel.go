package catalog

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/xuri/excelize/v2"
)

// optionColumns map to option IDs 1..6.
var optionColumns = []string{"option_a", "option_b", "option_c", "option_d", "option_e", "option_f"}

func parseExcelFile(path, module string, logger *slog.Logger) ([]models.Question, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("excel file has no header row")
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range []string{"id", "text", "correct_answer"} {
		if _, ok := headerMap[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	questions := make([]models.Question, 0, len(rows)-1)
	for rowIndex, row := range rows[1:] {
		q, err := parseExcelRow(row, headerMap, module)
		if err != nil {
			logger.Warn("Skipping Excel row", "file", path, "row", rowIndex+2, "error", err)
			continue
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func parseExcelRow(row []string, headerMap map[string]int, module string) (models.Question, error) {
	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}

	id, err := strconv.Atoi(getColumn("id"))
	if err != nil {
		return models.Question{}, fmt.Errorf("invalid id %q", getColumn("id"))
	}

	q := models.Question{
		ID:          id,
		Text:        getColumn("text"),
		Module:      getColumn("module"),
		Explanation: getColumn("explanation"),
	}
	if q.Module == "" {
		q.Module = module
	}

	if courses := getColumn("course"); courses != "" {
		for _, c := range strings.Split(courses, ",") {
			if c = strings.TrimSpace(c); c != "" {
				q.Courses = append(q.Courses, c)
			}
		}
	}

	for i, col := range optionColumns {
		if text := getColumn(col); text != "" {
			q.Options = append(q.Options, models.Option{ID: i + 1, Text: text})
		}
	}

	for _, letter := range strings.Split(strings.ToUpper(getColumn("correct_answer")), ",") {
		letter = strings.TrimSpace(letter)
		if letter == "" {
			continue
		}
		if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'F' {
			return models.Question{}, fmt.Errorf("invalid correct answer %q", letter)
		}
		q.CorrectOptionIDs = append(q.CorrectOptionIDs, int(letter[0]-'A')+1)
	}

	if date := getColumn("date"); date != "" {
		q.Reference = &models.Reference{Date: date}
	}
	return q, nil
}
