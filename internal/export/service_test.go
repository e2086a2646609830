package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/syllabus-tools/syllabus-audit/constants"
	"github.com/syllabus-tools/syllabus-audit/internal/analyze"
)

func writeTemplate(t *testing.T, headers []string) string {
	t.Helper()
	f := excelize.NewFile()
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, h))
	}
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadTemplateColumns(t *testing.T) {
	headers := []string{constants.FieldFileName, constants.FieldCourse, "Department Approved", constants.FieldNotes}
	path := writeTemplate(t, headers)

	svc := NewService(nil)
	columns, err := svc.LoadTemplateColumns(path)
	require.NoError(t, err)
	assert.Equal(t, headers, columns)
}

func TestLoadTemplateColumns_MissingFile(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.LoadTemplateColumns(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestLoadTemplateColumns_EmptyHeader(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, f.SaveAs(path))

	svc := NewService(nil)
	_, err := svc.LoadTemplateColumns(path)
	assert.Error(t, err)
}

func TestWriteWorkbook_RoundTrip(t *testing.T) {
	columns := []string{constants.FieldFileName, constants.FieldCourse, constants.FieldModality}
	records := []*analyze.Record{
		{
			Columns: columns,
			Values: map[string]string{
				constants.FieldFileName: "a.pdf",
				constants.FieldCourse:   "GBA5621: Strategic Management",
				constants.FieldModality: "Hybrid",
			},
		},
		{
			Columns: columns,
			Values: map[string]string{
				constants.FieldFileName: "b.pdf",
				constants.FieldCourse:   "",
				constants.FieldModality: "Online",
			},
		},
	}

	svc := NewService(nil)
	out, err := svc.WriteWorkbook(columns, records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Syllabi")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, columns, rows[0])
	assert.Equal(t, []string{"a.pdf", "GBA5621: Strategic Management", "Hybrid"}, rows[1])
	// Trailing empty cells may be trimmed, but present values keep their columns.
	require.GreaterOrEqual(t, len(rows[2]), 3)
	assert.Equal(t, "b.pdf", rows[2][0])
	assert.Equal(t, "", rows[2][1])
	assert.Equal(t, "Online", rows[2][2])
}

func TestWriteWorkbook_NoRecords(t *testing.T) {
	svc := NewService(nil)
	out, err := svc.WriteWorkbook([]string{constants.FieldFileName}, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Syllabi")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{constants.FieldFileName}, rows[0])
}
