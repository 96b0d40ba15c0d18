package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tidyset/internal/cleaner"
	"github.com/KaramelBytes/tidyset/internal/table"
)

func sampleRecord(t *testing.T) *Record {
	t.Helper()
	in, err := table.FromRecords([]string{"Name", "Age"}, [][]any{{"Ann", 25}, {"bob", nil}, {"Ann", 25}})
	require.NoError(t, err)
	c, err := cleaner.New(cleaner.DefaultConfig())
	require.NoError(t, err)
	_, rep, err := c.Clean(in)
	require.NoError(t, err)
	rows, cols := in.Shape()
	return New("people.csv", "people.cleaned.csv", c.Config(), cleaner.Shape{rows, cols}, rep)
}

func TestNewAssignsRunID(t *testing.T) {
	a, b := sampleRecord(t), sampleRecord(t)
	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestSaveLoadJSONAndYAML(t *testing.T) {
	rec := sampleRecord(t)
	dir := t.TempDir()
	for _, name := range []string{"run.json", "run.yaml", "nested/run.yml"} {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(dir, name)
			require.NoError(t, rec.Save(p))
			back, err := Load(p)
			require.NoError(t, err)
			assert.Equal(t, rec.ID, back.ID)
			assert.True(t, rec.CreatedAt.Equal(back.CreatedAt))
			assert.Equal(t, rec.Config, back.Config)
			assert.Equal(t, rec.InputShape, back.InputShape)
			assert.Equal(t, rec.Report, back.Report)
		})
	}
}

func TestSaveMarkdown(t *testing.T) {
	rec := sampleRecord(t)
	p := filepath.Join(t.TempDir(), "run.md")
	require.NoError(t, rec.Save(p))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	md := string(b)
	assert.True(t, strings.HasPrefix(md, "[RUN]\nID: "+rec.ID))
	assert.Contains(t, md, "Input: people.csv (3 rows x 2 columns)")
	assert.Contains(t, md, "Strategy: mean, outlier threshold: 3")
	assert.Contains(t, md, "Removed 1 duplicate row(s)")

	_, err = Load(p)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatForPath(t *testing.T) {
	f, err := FormatForPath("a/b/report.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatForPath("report")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = FormatForPath("report.txt")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
