package catalog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const cardiologyJSON = `[
  {"id": 1, "text": "Q1", "module": "Cardiology", "courseName": ["Year 1", "Year 2"],
   "options": [{"id": 1, "text": "a"}, {"id": 2, "text": "b"}], "correctOptionIds": [1],
   "explanation": "e1", "Date": "2023-06"},
  {"id": 2, "text": "Q2", "courseName": "Year 2",
   "options": [{"id": 1, "text": "a"}, {"id": 2, "text": "b"}, {"id": 3, "text": "c"}], "correctOptionId": 3},
  {"id": 3, "text": "Q3", "courseName": ["Year 3"],
   "options": [{"id": 1, "text": "a"}, {"id": 2, "text": "b"}], "correctOptionIds": [1, 2]},
  {"id": 3, "text": "duplicate", "options": [{"id": 1, "text": "a"}, {"id": 2, "text": "b"}], "correctOptionIds": [1]},
  {"id": 4, "text": "no correct", "options": [{"id": 1, "text": "a"}, {"id": 2, "text": "b"}], "correctOptionIds": [9]}
]`

const neurologyJSON = `{"questions": [
  {"id": 10, "text": "N1", "module": "Neurology",
   "options": [{"id": 1, "text": "a"}, {"id": 2, "text": "b"}], "correctOptionIds": [2],
   "reference": {"source": "Exam", "link": "http://example.org"}}
]}`

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Medicine", "Cardiology.json"), cardiologyJSON)
	writeFile(t, filepath.Join(dir, "Medicine", "Neurology.json"), neurologyJSON)
	writeFile(t, filepath.Join(dir, "Medicine", "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, "Anatomy", "Bones.json"), `[]`)
	writeFile(t, filepath.Join(dir, "README.md"), "ignored")

	c, err := Load(context.Background(), dir, validator.New(), discardLogger())
	require.NoError(t, err)
	return c
}

func TestLoad_Listing(t *testing.T) {
	c := newTestCatalog(t)

	assert.Equal(t, []string{"Anatomy", "Medicine"}, c.ListUnits())

	modules, err := c.ListModules("Medicine")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cardiology", "Neurology"}, modules)

	_, err = c.ListModules("Physics")
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestLoad_Normalization(t *testing.T) {
	c := newTestCatalog(t)

	questions, err := c.GetQuestions("Medicine", "Cardiology", "")
	require.NoError(t, err)
	require.Len(t, questions, 3, "duplicate and invalid questions are skipped")

	assert.Equal(t, []string{"Year 1", "Year 2"}, questions[0].Courses)
	require.NotNil(t, questions[0].Reference)
	assert.Equal(t, "2023-06", questions[0].Reference.Date)

	assert.Equal(t, "Cardiology", questions[1].Module, "module defaults to the file name")
	assert.Equal(t, []int{3}, questions[1].CorrectOptionIDs, "legacy single correct option")
	assert.Equal(t, []string{"Year 2"}, questions[1].Courses)
	assert.True(t, questions[1].IsSingleAnswer())

	assert.Equal(t, "Q3", questions[2].Text)
	assert.False(t, questions[2].IsSingleAnswer())

	neuro, err := c.GetQuestions("Medicine", "Neurology", "")
	require.NoError(t, err)
	require.Len(t, neuro, 1)
	assert.Equal(t, "Exam", neuro[0].Reference.Source)
}

func TestListCourses(t *testing.T) {
	c := newTestCatalog(t)

	courses, err := c.ListCourses("Medicine", "Cardiology")
	require.NoError(t, err)
	assert.Equal(t, []string{"Year 1", "Year 2", "Year 3"}, courses)

	courses, err = c.ListCourses("Medicine", "Neurology")
	require.NoError(t, err)
	assert.Empty(t, courses)

	_, err = c.ListCourses("Medicine", "Renal")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestGetQuestions_CourseFilter(t *testing.T) {
	c := newTestCatalog(t)

	questions, err := c.GetQuestions("Medicine", "Cardiology", "Year 2")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, 1, questions[0].ID)
	assert.Equal(t, 2, questions[1].ID)

	questions, err = c.GetQuestions("Medicine", "Cardiology", "Year 9")
	require.NoError(t, err)
	assert.Empty(t, questions)

	empty, err := c.GetQuestions("Anatomy", "Bones", "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetQuestions_ReturnsCopy(t *testing.T) {
	c := newTestCatalog(t)

	questions, err := c.GetQuestions("Medicine", "Cardiology", "")
	require.NoError(t, err)
	questions[0] = questions[1]

	again, err := c.GetQuestions("Medicine", "Cardiology", "")
	require.NoError(t, err)
	assert.Equal(t, 1, again[0].ID)
}

func TestLoad_UnparseableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Medicine", "Broken.json"), `{"questions": [`)

	_, err := Load(context.Background(), dir, validator.New(), discardLogger())
	assert.Error(t, err)

	writeFile(t, filepath.Join(dir, "Medicine", "Broken.json"), `"just a string"`)
	_, err = Load(context.Background(), dir, validator.New(), discardLogger())
	assert.Error(t, err)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing"), validator.New(), discardLogger())
	assert.Error(t, err)
}

func TestLoad_Excel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Medicine"), 0o755))

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"ID", "Text", "Module", "Course", "Option_A", "Option_B", "Option_C", "Correct_Answer", "Explanation", "Date"},
		{1, "Which chamber?", "", "Year 1, Year 2", "LA", "LV", "RA", "b", "Left ventricle", "2022-01"},
		{2, "Pick two", "Valves", "", "Mitral", "Aortic", "Tricuspid", "A, C", "", ""},
		{"x", "bad id", "", "", "a", "b", "", "A", "", ""},
		{3, "bad letter", "", "", "a", "b", "", "Z", "", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, "Medicine", "Cardiology.xlsx")))
	require.NoError(t, f.Close())

	c, err := Load(context.Background(), dir, validator.New(), discardLogger())
	require.NoError(t, err)

	questions, err := c.GetQuestions("Medicine", "Cardiology", "")
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "Cardiology", questions[0].Module)
	assert.Equal(t, []string{"Year 1", "Year 2"}, questions[0].Courses)
	assert.Equal(t, []int{2}, questions[0].CorrectOptionIDs)
	assert.Len(t, questions[0].Options, 3)
	assert.Equal(t, "2022-01", questions[0].Reference.Date)

	assert.Equal(t, "Valves", questions[1].Module)
	assert.Equal(t, []int{1, 3}, questions[1].CorrectOptionIDs)
}
