package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nthompson/nightcrawler/internal/crawler"
)

func TestRootCmdRequiresSeed(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	err := cmd.Execute()
	require.Error(t, err)
}

func TestRootCmdRejectsExtraArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"https://x.test/", "https://y.test/"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	require.Error(t, cmd.Execute())
}

func TestRootCmdRejectsNonNumericMaxRequests(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"https://x.test/", "--max-requests", "lots"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	require.Error(t, cmd.Execute())
}

func TestRootCmdRejectsMissingOutputFileValue(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"https://x.test/", "--output-file"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	require.Error(t, cmd.Execute())
}

func TestWriteResultToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	opts := &rootOptions{outputFile: path, silent: true}

	err := writeResult(opts, crawler.Result{
		URLs:    []string{"https://x.test/"},
		Headers: map[string]string{"Server": "nginx"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "https://x.test/")
}

func TestBuildLoggerSilent(t *testing.T) {
	logger, err := buildLogger(true)
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(2))
}
