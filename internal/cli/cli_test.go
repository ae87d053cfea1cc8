package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wideCSV = `Month,Economic,Family Sponsorship,Refugee,Other
Feb,5250,1820,930,155
Jan,5000,1800,900,150
Mar,5500,1840,1200,160
Total,99999,99999,99999,99999
`

func setupEnv(t *testing.T) (dir, csvPath string) {
	t.Helper()
	dir = t.TempDir()
	csvPath = filepath.Join(dir, "wide.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(wideCSV), 0o644))

	t.Setenv("DATA_SOURCE", "csv")
	t.Setenv("DATA_PATH", csvPath)
	t.Setenv("SQLITE_DB_PATH", filepath.Join(dir, "chart.db"))
	t.Setenv("CHART_LAYOUT_FILE", "")
	t.Setenv("AMQP_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir, csvPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderSVG(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "render")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Equal(t, 4, strings.Count(out, `class="line"`))
	assert.Equal(t, 12, strings.Count(out, `class="pt"`))
	assert.NotContains(t, out, "hx-get", "static renders carry no hover wiring")
}

func TestRenderHidesCategories(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "render", "--hide", "Economic,Refugee", "--hide", "Economic")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, `class="line"`))
	assert.Equal(t, 6, strings.Count(out, `class="pt"`))
}

func TestRenderPNGToFile(t *testing.T) {
	dir, csvPath := setupEnv(t)
	target := filepath.Join(dir, "chart.png")

	_, err := run(t, "render", "--input", csvPath, "--format", "png", "--output", target)
	require.NoError(t, err)

	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))
}

func TestRenderErrors(t *testing.T) {
	dir, _ := setupEnv(t)

	_, err := run(t, "render", "--format", "gif")
	assert.ErrorContains(t, err, "invalid format")

	_, err = run(t, "render", "--hide", "Tourism")
	assert.ErrorContains(t, err, "--hide")

	_, err = run(t, "render", "--input", filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	_, err = run(t, "render", "--output", filepath.Join(dir, "no-such-dir", "chart.svg"))
	assert.ErrorContains(t, err, "create output")
}

func TestRenderSVGToFile(t *testing.T) {
	dir, _ := setupEnv(t)
	target := filepath.Join(dir, "chart.svg")

	out, err := run(t, "render", "--output", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(b), `class="line"`))
}

func TestImportThenRenderFromSQLite(t *testing.T) {
	dir, csvPath := setupEnv(t)
	dbPath := filepath.Join(dir, "chart.db")

	out, err := run(t, "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 3 rows")

	t.Setenv("DATA_SOURCE", "sqlite")
	t.Setenv("SQLITE_DB_PATH", dbPath)
	svg, err := run(t, "render")
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(svg, `class="line"`))
	assert.Equal(t, 12, strings.Count(svg, `class="pt"`))
}

func TestImportRequiresFile(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "import")
	assert.Error(t, err)
}

func TestEventsNeedsBroker(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "events")
	assert.ErrorContains(t, err, "AMQP_URL")
}

func TestInvalidConfigurationFailsEarly(t *testing.T) {
	setupEnv(t)
	t.Setenv("DATA_SOURCE", "ftp")
	_, err := run(t, "render")
	assert.ErrorContains(t, err, "configuration validation failed")
}
