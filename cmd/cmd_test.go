package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/revimg/internal/config"
	"github.com/brogergvhs/revimg/internal/validate"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func isolateConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", dir)

	return filepath.Join(dir, "revimg", "configs")
}

func TestSearchRejectsInvalidImageURL(t *testing.T) {
	_, err := execute(t, "search", "not a url", "3")
	require.Error(t, err)
	assert.ErrorIs(t, err, validate.ErrInvalidURL)
}

func TestSearchRejectsNonPositiveCount(t *testing.T) {
	for _, n := range []string{"0", "-2", "many"} {
		_, err := execute(t, "search", "--", "https://example.com/cat.jpg", n)
		require.Error(t, err, n)
		assert.Contains(t, err.Error(), "positive integer", n)
	}
}

func TestUnderscoredFlagsAreAliases(t *testing.T) {
	search, _, err := rootCmd.Find([]string{"search"})
	require.NoError(t, err)

	for _, name := range []string{"exclude_stock", "no_download", "downloads_dir", "chrome_path"} {
		f := search.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, strings.ReplaceAll(name, "_", "-"), f.Name)
	}
}

func TestConfigPathWithoutProfile(t *testing.T) {
	isolateConfig(t)

	_, err := execute(t, "config", "path")
	assert.ErrorIs(t, err, config.ErrNoConfig)
}

func TestConfigInitThenPath(t *testing.T) {
	dir := isolateConfig(t)

	out, err := execute(t, "config", "init", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "now active")

	out, err = execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Default.yaml"), strings.TrimSpace(out))

	out, err = execute(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Default")
	assert.Contains(t, out, "yes")
}

func TestDownloadRequiresExistingDir(t *testing.T) {
	isolateConfig(t)

	list := filepath.Join(t.TempDir(), "urls.txt")
	_, err := execute(t, "download", list, "--ignore-config", "--downloads-dir", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestParseSearchArgsTrimsImageURL(t *testing.T) {
	imageURL, n, err := parseSearchArgs([]string{"  https://example.com/cat.jpg \n", " 4 "})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cat.jpg", imageURL)
	assert.Equal(t, 4, n)
}

func TestExcludeStockUsageShowsValueSyntax(t *testing.T) {
	search, _, err := rootCmd.Find([]string{"search"})
	require.NoError(t, err)

	f := search.Flags().Lookup("exclude-stock")
	require.NotNil(t, f)
	assert.Contains(t, f.Usage, "--exclude-stock=true")
	assert.Equal(t, "true", f.NoOptDefVal)
}
