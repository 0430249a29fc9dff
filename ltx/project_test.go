package ltx_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/xrf/ltx"
)

func TestProjectVerify(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.ltx"), "[base]\r\na = 1\r\n")
	writeFile(t, filepath.Join(dir, "good.ltx"), "#include \"base.ltx\"\r\n[good]:base\r\n")
	writeFile(t, filepath.Join(dir, "bad.ltx"), "[bad]:ghost\r\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "[ignored]:ghost\r\n")

	p, err := ltx.OpenProject(dir)
	require.NoError(t, err)
	assert.Len(t, p.Files, 3)
	assert.Equal(t, []string{filepath.Join(dir, "bad.ltx"), filepath.Join(dir, "good.ltx")}, p.Entries)

	report, err := p.Verify()
	require.NoError(t, err)
	assert.Equal(t, 3, report.Files)
	assert.Equal(t, 2, report.Sections)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, filepath.Join(dir, "bad.ltx"), report.Findings[0].Path)
}

func TestProjectFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	messy := filepath.Join(dir, "messy.ltx")
	clean := filepath.Join(dir, "clean.ltx")
	writeFile(t, messy, "[a]\nkey=value ; note\n")
	writeFile(t, clean, "[a]\r\nkey = value\r\n")

	p, err := ltx.OpenProject(dir)
	require.NoError(t, err)

	report, err := p.Format(false)
	require.NoError(t, err)
	assert.Equal(t, []string{messy}, report.Changed)
	raw, err := os.ReadFile(messy)
	require.NoError(t, err)
	assert.Equal(t, "[a]\nkey=value ; note\n", string(raw))

	report, err = p.Format(true)
	require.NoError(t, err)
	assert.Equal(t, []string{messy}, report.Changed)
	raw, err = os.ReadFile(messy)
	require.NoError(t, err)
	assert.Equal(t, "[a]\r\nkey = value\r\n", string(raw))
}
