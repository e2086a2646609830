package docext

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syllabus-tools/syllabus-audit/constants"
	"github.com/syllabus-tools/syllabus-audit/internal/common"
)

func TestExtractText_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syllabus.txt")
	require.NoError(t, os.WriteFile(path, []byte("ABC 101: Intro\nInstructor: Pat Doe\n"), 0o644))

	ext := NewExtractor(nil).ExtractText(path)
	assert.Equal(t, constants.TEXT, ext.Kind)
	assert.Empty(t, ext.Err)
	assert.Contains(t, ext.Text, "Instructor: Pat Doe")
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syllabus.pages")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	ext := NewExtractor(nil).ExtractText(path)
	assert.Equal(t, constants.UNKNOWN, ext.Kind)
	assert.Equal(t, common.ErrUnsupported.Error(), ext.Err)
	assert.Empty(t, ext.Text)
}

func TestExtractText_MissingFile(t *testing.T) {
	ext := NewExtractor(nil).ExtractText(filepath.Join(t.TempDir(), "missing.txt"))
	assert.NotEmpty(t, ext.Err)
	assert.Empty(t, ext.Text)
}

func TestExtractText_Docx(t *testing.T) {
	const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>ABC 3010: Organizational Behavior</w:t></w:r></w:p>
    <w:p><w:r><w:t>Instructor: </w:t></w:r><w:r><w:t>Alex Rivera</w:t></w:r></w:p>
    <w:p><w:r><w:t></w:t></w:r></w:p>
  </w:body>
</w:document>`

	path := filepath.Join(t.TempDir(), "syllabus.docx")
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	ext := NewExtractor(nil).ExtractText(path)
	require.Empty(t, ext.Err)
	assert.Equal(t, constants.DOCX, ext.Kind)
	assert.Equal(t, "ABC 3010: Organizational Behavior\nInstructor: Alex Rivera\n", ext.Text)
}

func TestExtractText_DocxWithoutDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hollow.docx")
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	_, err = zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	ext := NewExtractor(nil).ExtractText(path)
	assert.Contains(t, ext.Err, "word/document.xml not found")
}

func TestExpandArchive(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bundle.zip")
	out, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	for name, body := range map[string]string{
		"a.txt":          "first syllabus",
		"notes/b.TXT":    "second syllabus",
		"skip.exe":       "binary junk",
		"../escape.txt":  "zip slip attempt",
		"thumbnail.jpeg": "image",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	dest := filepath.Join(dir, "bundle-unzipped")
	paths, err := ExpandArchive(zipPath, dest)
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		assert.True(t, filepath.Dir(p) == dest, "extracted outside dest: %s", p)
		names = append(names, filepath.Base(p))
	}
	assert.ElementsMatch(t, []string{"a.txt", "b.TXT", "escape.txt"}, names)

	b, err := os.ReadFile(filepath.Join(dest, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first syllabus", string(b))
}

func TestExpandArchive_CollidingBasenames(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bundle.zip")
	out, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	for _, m := range []struct{ name, body string }{
		{"fall/syllabus.txt", "fall section"},
		{"spring/syllabus.txt", "spring section"},
		{"summer/syllabus.txt", "summer section"},
	} {
		w, err := zw.Create(m.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(m.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	dest := filepath.Join(dir, "bundle-unzipped")
	paths, err := ExpandArchive(zipPath, dest)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"syllabus.txt", "syllabus-1.txt", "syllabus-2.txt"}, names)

	for i, want := range []string{"fall section", "spring section", "summer section"} {
		b, err := os.ReadFile(paths[i])
		require.NoError(t, err)
		assert.Equal(t, want, string(b))
	}
}

func TestExpandArchive_NotAZip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.zip")
	require.NoError(t, os.WriteFile(path, []byte("not an archive"), 0o644))

	_, err := ExpandArchive(path, filepath.Join(dir, "out"))
	assert.Error(t, err)
}
