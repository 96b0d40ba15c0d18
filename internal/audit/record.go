// Package audit persists the trail of one cleaning run: what went in, what
// came out, the configuration used, and the cleaner's report.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tidyset/internal/cleaner"
	"github.com/KaramelBytes/tidyset/internal/utils"
)

// Format is an on-disk encoding for a Record.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ErrUnsupportedFormat is returned for unknown formats or extensions.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// ParseFormat accepts json|yaml|yml|markdown|md.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
	}
}

// FormatForPath picks a format from the file extension.
func FormatForPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%s has no extension: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
	return ParseFormat(ext)
}

// Record is one cleaning run.
type Record struct {
	ID         string         `json:"id" yaml:"id"`
	CreatedAt  time.Time      `json:"created_at" yaml:"created_at"`
	Input      string         `json:"input" yaml:"input"`
	Output     string         `json:"output,omitempty" yaml:"output,omitempty"`
	Config     cleaner.Config `json:"config" yaml:"config"`
	InputShape cleaner.Shape  `json:"input_shape" yaml:"input_shape,flow"`
	Report     cleaner.Report `json:"report" yaml:"report"`
}

// New stamps a record with a fresh run ID.
func New(input, output string, cfg cleaner.Config, inputShape cleaner.Shape, rep cleaner.Report) *Record {
	return &Record{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Input:      input,
		Output:     output,
		Config:     cfg,
		InputShape: inputShape,
		Report:     rep,
	}
}

// Encode renders the record in the given format.
func (r *Record) Encode(f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return utils.PrettyJSON(r)
	case FormatYAML:
		b, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	case FormatMarkdown:
		return []byte(r.Markdown()), nil
	default:
		return nil, fmt.Errorf("%q: %w", f, ErrUnsupportedFormat)
	}
}

// Save writes the record atomically; the extension picks the format.
func (r *Record) Save(path string) error {
	f, err := FormatForPath(path)
	if err != nil {
		return err
	}
	b, err := r.Encode(f)
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}

// Load reads a JSON or YAML record.
func Load(path string) (*Record, error) {
	f, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	var r Record
	switch f {
	case FormatJSON:
		err = json.Unmarshal(b, &r)
	case FormatYAML:
		err = yaml.Unmarshal(b, &r)
	default:
		return nil, fmt.Errorf("cannot load %s records: %w", f, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	return &r, nil
}

// Markdown renders run metadata followed by the cleaner report.
func (r *Record) Markdown() string {
	var b strings.Builder
	b.WriteString("[RUN]\n")
	b.WriteString(fmt.Sprintf("ID: %s\n", r.ID))
	b.WriteString(fmt.Sprintf("Created: %s\n", r.CreatedAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Input: %s (%d rows x %d columns)\n", r.Input, r.InputShape.Rows(), r.InputShape.Cols()))
	if r.Output != "" {
		b.WriteString(fmt.Sprintf("Output: %s\n", r.Output))
	}
	b.WriteString(fmt.Sprintf("Strategy: %s, outlier threshold: %g\n\n", r.Config.Strategy, r.Config.OutlierThreshold))
	b.WriteString(r.Report.Markdown())
	return b.String()
}
