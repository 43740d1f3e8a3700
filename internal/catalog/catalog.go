// Package catalog loads the read-only question bank: units contain modules, modules contain
// questions optionally labelled with courses.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

var (
	ErrUnitNotFound   = errors.New("unit not found")
	ErrModuleNotFound = errors.New("module not found")
)

// Catalog is built once by Load and never mutated afterwards, so it is safe for concurrent reads.
type Catalog struct {
	units     []string
	modules   map[string][]string
	questions map[string]map[string][]models.Question
}

// Load reads <dir>/<unit>/<module>.json and <dir>/<unit>/<module>.xlsx files. Invalid questions
// and duplicate IDs within a module are skipped with a warning; unreadable files fail the load.
func Load(ctx context.Context, dir string, v *validator.Validator, logger *slog.Logger) (*Catalog, error) {
	unitDirs, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read question directory: %w", err)
	}

	c := &Catalog{
		modules:   make(map[string][]string),
		questions: make(map[string]map[string][]models.Question),
	}

	for _, unitDir := range unitDirs {
		if !unitDir.IsDir() || strings.HasPrefix(unitDir.Name(), ".") {
			continue
		}
		unit := unitDir.Name()

		files, err := os.ReadDir(filepath.Join(dir, unit))
		if err != nil {
			return nil, fmt.Errorf("failed to read unit %s: %w", unit, err)
		}

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if file.IsDir() {
				continue
			}

			ext := strings.ToLower(filepath.Ext(file.Name()))
			module := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
			path := filepath.Join(dir, unit, file.Name())

			var parsed []models.Question
			switch ext {
			case ".json":
				parsed, err = parseJSONFile(path, module)
			case ".xlsx":
				parsed, err = parseExcelFile(path, module, logger)
			default:
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}

			c.add(unit, module, parsed, v, logger)
		}
	}

	logger.Info("Question catalog loaded", "dir", dir, "units", len(c.units))
	return c, nil
}

func (c *Catalog) add(unit, module string, parsed []models.Question, v *validator.Validator, logger *slog.Logger) {
	if _, ok := c.questions[unit]; !ok {
		c.questions[unit] = make(map[string][]models.Question)
	}
	if _, ok := c.questions[unit][module]; !ok {
		c.questions[unit][module] = nil
		c.modules[unit] = append(c.modules[unit], module)
		slices.Sort(c.modules[unit])
		if !slices.Contains(c.units, unit) {
			c.units = append(c.units, unit)
			slices.Sort(c.units)
		}
	}

	existing := c.questions[unit][module]
	seen := make(map[int]bool, len(existing)+len(parsed))
	for _, q := range existing {
		seen[q.ID] = true
	}

	for i := range parsed {
		q := parsed[i]
		if err := v.Question().ValidateQuestion(&q); err != nil {
			logger.Warn("Skipping invalid question",
				"unit", unit, "module", module, "question_id", q.ID, "error", err)
			continue
		}
		if seen[q.ID] {
			logger.Warn("Skipping duplicate question ID",
				"unit", unit, "module", module, "question_id", q.ID)
			continue
		}
		seen[q.ID] = true
		existing = append(existing, q)
	}
	c.questions[unit][module] = existing
}

// ListUnits returns the unit names in lexical order.
func (c *Catalog) ListUnits() []string {
	return slices.Clone(c.units)
}

// ListModules returns the module names of unit in lexical order.
func (c *Catalog) ListModules(unit string) ([]string, error) {
	modules, ok := c.modules[unit]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, unit)
	}
	return slices.Clone(modules), nil
}

// ListCourses returns the distinct course labels of a module in order of first appearance.
func (c *Catalog) ListCourses(unit, module string) ([]string, error) {
	questions, err := c.lookup(unit, module)
	if err != nil {
		return nil, err
	}

	courses := make([]string, 0)
	for _, q := range questions {
		for _, course := range q.Courses {
			if !slices.Contains(courses, course) {
				courses = append(courses, course)
			}
		}
	}
	return courses, nil
}

// GetQuestions returns the questions of a module. A non-empty course keeps only the questions
// labelled with it.
func (c *Catalog) GetQuestions(unit, module, course string) ([]models.Question, error) {
	questions, err := c.lookup(unit, module)
	if err != nil {
		return nil, err
	}

	out := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		if course == "" || q.HasCourse(course) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (c *Catalog) lookup(unit, module string) ([]models.Question, error) {
	modules, ok := c.questions[unit]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, unit)
	}
	questions, ok := modules[module]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrModuleNotFound, unit, module)
	}
	return questions, nil
}
