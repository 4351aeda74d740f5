package extraction

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/critex/critex/pkg/criteria"
)

// ResultFilename is the fixed name of the structured record in a job's
// output directory.
const ResultFilename = "result.json"

// TextFilename holds the raw extracted document text.
const TextFilename = "extracted_text.txt"

// WriteResult serializes the design criteria to <dir>/result.json. The file
// is written to a temporary sibling and renamed into place, so a concurrent
// reader never observes a partially written record.
func WriteResult(dc *criteria.DesignCriteria, dir string) (string, error) {
	data, err := json.MarshalIndent(dc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".result-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	path := filepath.Join(dir, ResultFilename)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to rename result into %s: %w", path, err)
	}
	return path, nil
}

// WriteText saves the raw extracted text alongside the result, when present.
func WriteText(dc *criteria.DesignCriteria, dir string) error {
	if dc.RawText == "" {
		return nil
	}
	path := filepath.Join(dir, TextFilename)
	if err := os.WriteFile(path, []byte(dc.RawText), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
