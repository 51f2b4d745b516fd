// Package report serializes crawl results to JSON and writes them to
// standard output or a file.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nthompson/nightcrawler/internal/crawler"
)

// Write encodes the result as indented JSON onto w.
func Write(w io.Writer, result crawler.Result) error {
	if result.URLs == nil {
		result.URLs = []string{}
	}
	if result.Headers == nil {
		result.Headers = map[string]string{}
	}
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// WriteFile writes the result to path, creating or truncating it.
func WriteFile(path string, result crawler.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()
	if err := Write(f, result); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync output file: %w", err)
	}
	return nil
}
