package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/tidyset/internal/utils"
)

func TestDerivedPath(t *testing.T) {
	got := utils.DerivedPath(filepath.Join("data", "raw", "sales.csv"), "", ".cleaned.csv")
	want := filepath.Join("data", "raw", "sales.cleaned.csv")
	if got != want {
		t.Fatalf("DerivedPath = %q, want %q", got, want)
	}
	got = utils.DerivedPath("sales.xlsx", "out", ".report.json")
	if want := filepath.Join("out", "sales.report.json"); got != want {
		t.Fatalf("DerivedPath = %q, want %q", got, want)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "metrics.cleaned.csv")
	if got := utils.UniquePath(first, ".cleaned.csv", nil); got != first {
		t.Fatalf("free path changed: %q", got)
	}
	if err := os.WriteFile(first, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	second := filepath.Join(dir, "metrics__2.cleaned.csv")
	if got := utils.UniquePath(first, ".cleaned.csv", nil); got != second {
		t.Fatalf("UniquePath = %q, want %q", got, second)
	}
	reserved := map[string]struct{}{second: {}}
	third := filepath.Join(dir, "metrics__3.cleaned.csv")
	if got := utils.UniquePath(first, ".cleaned.csv", reserved); got != third {
		t.Fatalf("UniquePath = %q, want %q", got, third)
	}
}

func TestSafeWriteFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "report.json")
	b, err := utils.PrettyJSON(map[string]int{"duplicates_removed": 1})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if err := utils.SafeWriteFile(p, b); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	got, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "{\n  \"duplicates_removed\": 1\n}" {
		t.Fatalf("content = %q", got)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}
