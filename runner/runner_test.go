package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManassasDevAct/msg2txt/config"
)

const emlTemplate = "From: %FROM%\r\n" +
	"To: someone@example.com\r\n" +
	"Subject: %SUBJECT%\r\n" +
	"Date: %DATE%\r\n" +
	"\r\n" +
	"%BODY%\r\n"

func writeEML(t *testing.T, dir, name, from, subject, date, body string) string {
	t.Helper()
	content := strings.NewReplacer(
		"%FROM%", from, "%SUBJECT%", subject, "%DATE%", date, "%BODY%", body,
	).Replace(emlTemplate)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(inputs []string, outDir string) config.Config {
	return config.Config{
		Inputs:         inputs,
		OutDir:         outDir,
		Order:          config.OrderDateAsc,
		IncludeHeaders: true,
		IncludeBody:    true,
		ProducePDF:     false,
		LogLevel:       "error",
	}
}

func TestRunConvertsBatchAndCollectsWarnings(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	writeEML(t, inDir, "b.eml", "Bob <bob@x.com>", "Second", "Wed, 01 Jul 2020 10:00:00 +0000", "later message")
	writeEML(t, inDir, "a.eml", "Jane <jane@x.com>", "First", "Wed, 01 Jan 2020 10:00:00 +0000", "earlier message")

	// A broken container must produce a warning, not abort the batch.
	broken := filepath.Join(inDir, "broken.msg")
	require.NoError(t, os.WriteFile(broken, []byte("not a compound file"), 0o644))

	r, err := New(testConfig([]string{filepath.Join(inDir, "*.eml"), broken}, outDir), testLogger())
	require.NoError(t, err)

	result, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "First", result.Records[0].Subject)
	assert.Equal(t, "Second", result.Records[1].Subject)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "broken.msg", result.Warnings[0].Item)

	assert.Equal(t, 3, result.Summary.Scanned)
	assert.Equal(t, 2, result.Summary.Converted)
	assert.Equal(t, 1, result.Summary.Errors)

	// txt and md artifacts exist; pdf was disabled.
	require.Len(t, result.Artifacts, 2)
	txt, err := os.ReadFile(result.Artifacts[0])
	require.NoError(t, err)
	banner := regexp.MustCompile(`(?m)^Email \d+ of 2$`)
	assert.Len(t, banner.FindAllString(string(txt), -1), 2)
	assert.Regexp(t, `merged_emails_\d{8}_\d{6}\.txt$`, result.Artifacts[0])
	assert.Regexp(t, `merged_emails_\d{8}_\d{6}\.md$`, result.Artifacts[1])
}

func TestRunSkipsDuplicateInputs(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	first := writeEML(t, inDir, "a.eml", "Jane <jane@x.com>", "Hello", "Wed, 01 Jan 2020 10:00:00 +0000", "hi")
	data, err := os.ReadFile(first)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "copy.eml"), data, 0o644))

	r, err := New(testConfig([]string{filepath.Join(inDir, "*.eml")}, outDir), testLogger())
	require.NoError(t, err)

	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Records, 1)
	assert.Equal(t, 1, result.Summary.Duplicates)
}

func TestRunAppliesFilters(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	writeEML(t, inDir, "keep.eml", "a@x.com", "Invoice", "Wed, 01 Jan 2020 10:00:00 +0000", "totals inside")
	writeEML(t, inDir, "drop.eml", "b@x.com", "Newsletter", "Wed, 01 Feb 2020 10:00:00 +0000", "unsubscribe anytime")

	cfg := testConfig([]string{filepath.Join(inDir, "*.eml")}, outDir)
	cfg.ExcludeBodyPatterns = []string{"unsubscribe"}

	r, err := New(cfg, testLogger())
	require.NoError(t, err)

	result, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "Invoice", result.Records[0].Subject)
	assert.Equal(t, 1, result.Summary.Filtered)
}

func TestRunRedactionToggles(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	writeEML(t, inDir, "a.eml", "Jane <jane@x.com>", "Hello", "Wed, 01 Jan 2020 10:00:00 +0000", "secret body")

	cfg := testConfig([]string{filepath.Join(inDir, "*.eml")}, outDir)
	cfg.IncludeHeaders = false
	cfg.IncludeBody = false

	r, err := New(cfg, testLogger())
	require.NoError(t, err)

	result, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Empty(t, result.Records[0].HeadersRaw)
	assert.Empty(t, result.Records[0].Body)

	txt, err := os.ReadFile(result.Artifacts[0])
	require.NoError(t, err)
	assert.NotContains(t, string(txt), "secret body")
}

func TestRunNoConvertibleInputs(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	broken := filepath.Join(inDir, "broken.msg")
	require.NoError(t, os.WriteFile(broken, []byte("garbage"), 0o644))

	r, err := New(testConfig([]string{broken}, outDir), testLogger())
	require.NoError(t, err)

	result, err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoRecords)
	assert.Empty(t, result.Artifacts)

	// No artifacts may be written at all.
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunTempFilesCleanedUp(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	tmpRoot := t.TempDir()
	t.Setenv("TMPDIR", tmpRoot)

	writeEML(t, inDir, "a.eml", "Jane <jane@x.com>", "Hello", "Wed, 01 Jan 2020 10:00:00 +0000", "hi")
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "broken.msg"), []byte("garbage"), 0o644))

	r, err := New(testConfig([]string{filepath.Join(inDir, "a.eml"), filepath.Join(inDir, "broken.msg")}, outDir), testLogger())
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)

	// Staged copies are removed on success and on decode failure alike.
	entries, err := os.ReadDir(tmpRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
