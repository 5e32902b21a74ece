package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/torosent/liftload/internal/metrics"
)

// WriteSummaryFile stores stats at path, as YAML for .yaml/.yml files and as
// indented JSON otherwise.
func WriteSummaryFile(path string, stats metrics.Stats) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(stats); err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
	default:
		if err := PrintJSONReport(&buf, stats); err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}
	return nil
}
