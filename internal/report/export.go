package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/keyprofiler/internal/analyzer"
	"github.com/dbsmedya/keyprofiler/internal/store"
)

// Document is the structured export of one run.
type Document struct {
	RunID            string                            `json:"run_id" yaml:"run_id"`
	StartedAt        time.Time                         `json:"started_at" yaml:"started_at"`
	ScanSeconds      float64                           `json:"scan_seconds" yaml:"scan_seconds"`
	DurationSeconds  float64                           `json:"duration_seconds" yaml:"duration_seconds"`
	TotalKeys        int                               `json:"total_keys" yaml:"total_keys"`
	TotalMemoryBytes int64                             `json:"total_memory_bytes" yaml:"total_memory_bytes"`
	Patterns         map[string]analyzer.PatternReport `json:"patterns" yaml:"patterns"`
	SearchIndexes    []store.SearchIndex               `json:"search_indexes,omitempty" yaml:"search_indexes,omitempty"`
}

// NewDocument builds the export document for res.
func NewDocument(res analyzer.AnalysisResult, indexes []store.SearchIndex) Document {
	return Document{
		RunID:            res.RunID,
		StartedAt:        res.StartedAt,
		ScanSeconds:      res.ScanDuration.Seconds(),
		DurationSeconds:  res.Duration.Seconds(),
		TotalKeys:        res.TotalKeys,
		TotalMemoryBytes: res.TotalMemoryBytes(),
		Patterns:         res.Patterns,
		SearchIndexes:    indexes,
	}
}

// Marshal encodes doc as JSON or YAML according to the extension of path.
func Marshal(doc Document, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return append(b, '\n'), nil
	case ".yaml", ".yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Export writes the structured dump of res to path.
func Export(path string, res analyzer.AnalysisResult, indexes []store.SearchIndex) error {
	data, err := Marshal(NewDocument(res, indexes), path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
