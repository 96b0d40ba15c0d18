package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

// Stem returns the file name without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DerivedPath builds "<dir>/<stem><suffix>" for an input file. An empty dir
// keeps the input's own directory.
func DerivedPath(input, dir, suffix string) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, Stem(input)+suffix)
}

// UniquePath returns path if nothing exists there, otherwise the first free
// "<stem>__N<suffix>" sibling starting at N=2. reserved holds paths already
// handed out in this run that may not exist on disk yet.
func UniquePath(path, suffix string, reserved map[string]struct{}) string {
	taken := func(p string) bool {
		if _, ok := reserved[p]; ok {
			return true
		}
		_, err := os.Stat(p)
		return err == nil
	}
	if !taken(path) {
		return path
	}
	dir := filepath.Dir(path)
	stem := strings.TrimSuffix(filepath.Base(path), suffix)
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", stem, idx, suffix))
		if !taken(cand) {
			return cand
		}
	}
}
