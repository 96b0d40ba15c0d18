package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/tidyset/internal/audit"
	"github.com/KaramelBytes/tidyset/internal/cleaner"
)

// resetFlags clears values and Changed state left over from earlier runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command with args and returns what it printed.
func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is execCmd that fails the test on error.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const peopleCSV = "Name,Age,Score\nAnn,25,90\nbob,,85\nAnn,25,90\n"

func TestCLI_CleanWritesDataReportAndPreview(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "people.csv")
	writeFile(t, in, peopleCSV)
	runPath := filepath.Join(home, "runs", "people.json")

	out := runCmd(t, "clean", in, "--preview", "2", "-r", runPath)

	cleaned, err := os.ReadFile(filepath.Join(home, "people.cleaned.csv"))
	if err != nil {
		t.Fatalf("read cleaned: %v", err)
	}
	if want := "name,age,score\nAnn,25,90\nbob,25,85\n"; string(cleaned) != want {
		t.Fatalf("cleaned = %q, want %q", cleaned, want)
	}
	for _, want := range []string{
		"[CLEANING SUMMARY]",
		"Final shape: 2 rows x 3 columns",
		"Removed 1 duplicate row(s)",
		"- age: 1",
		"[PREVIEW]",
		"Shape: (2, 3)",
		"| name | age | score |",
		"✓ Wrote cleaned data to",
		"✓ Saved report to",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	rec, err := audit.Load(runPath)
	if err != nil {
		t.Fatalf("load run record: %v", err)
	}
	if rec.InputShape != (cleaner.Shape{3, 3}) || rec.Report.FinalShape != (cleaner.Shape{2, 3}) {
		t.Fatalf("shapes = %v -> %v", rec.InputShape, rec.Report.FinalShape)
	}
	if rec.Report.DuplicatesRemoved != 1 || rec.Config.Strategy != cleaner.StrategyMean {
		t.Fatalf("record = %+v", rec)
	}
}

func TestCLI_CleanFlagsOverrideConfig(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "x.csv")
	writeFile(t, in, "id,x\n1,1\n2,2\n3,NA\n4,10\n")

	runCmd(t, "config", "set", "strategy", "median")
	outPath := filepath.Join(home, "nested", "out.csv")
	out := runCmd(t, "clean", in, "-o", outPath, "--format", "json")
	if !strings.Contains(out, `"duplicates_removed": 0`) {
		t.Fatalf("expected JSON report, got:\n%s", out)
	}
	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if want := "id,x\n1,1\n2,2\n3,2\n4,10\n"; string(got) != want {
		t.Fatalf("median fill = %q, want %q", got, want)
	}

	runCmd(t, "clean", in, "-o", outPath, "--strategy", "mean", "--quiet")
	got, err = os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if want := "id,x\n1,1\n2,2\n3,4.333333333333333\n4,10\n"; string(got) != want {
		t.Fatalf("mean fill = %q, want %q", got, want)
	}
}

func TestCLI_CleanRejectsBadInput(t *testing.T) {
	home := isolateHome(t)
	in := filepath.Join(home, "people.csv")
	writeFile(t, in, peopleCSV)

	if _, err := execCmd(t, "clean", in, "--strategy", "max"); !errors.Is(err, cleaner.ErrInvalidConfig) {
		t.Fatalf("bad strategy: err = %v", err)
	}
	if _, err := execCmd(t, "clean", in, "--outlier-threshold=-1"); !errors.Is(err, cleaner.ErrInvalidConfig) {
		t.Fatalf("bad threshold: err = %v", err)
	}
	if _, err := execCmd(t, "clean", in, "--delimiter", "x"); err == nil {
		t.Fatalf("expected delimiter error")
	}
	if _, err := execCmd(t, "clean", filepath.Join(home, "missing.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCLI_CleanBatchCollisionSuffix(t *testing.T) {
	home := isolateHome(t)
	csv := "col1,col2\nA,1\nB,2\nB,2\n"
	writeFile(t, filepath.Join(home, "d1", "metrics.csv"), csv)
	writeFile(t, filepath.Join(home, "d2", "metrics.csv"), csv)
	outDir := filepath.Join(home, "out")

	out := runCmd(t, "clean-batch", filepath.Join(home, "d*", "metrics.csv"), "--out-dir", outDir, "--jobs", "2")

	for _, name := range []string{"metrics.cleaned.csv", "metrics__2.cleaned.csv", "metrics.report.json", "metrics__2.report.json"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	rec, err := audit.Load(filepath.Join(outDir, "metrics__2.report.json"))
	if err != nil {
		t.Fatalf("load report: %v", err)
	}
	if rec.Input != filepath.Join(home, "d2", "metrics.csv") || rec.Report.DuplicatesRemoved != 1 {
		t.Fatalf("record = %+v", rec)
	}
	if !strings.Contains(out, "Cleaning metrics.csv...") || !strings.Contains(out, "✓ Cleaned 2 file(s)") {
		t.Fatalf("unexpected progress output:\n%s", out)
	}
	if !strings.Contains(out, "[1/2]") || !strings.Contains(out, "[2/2]") {
		t.Fatalf("missing progress counters:\n%s", out)
	}

	// a second run must not overwrite the first
	runCmd(t, "clean-batch", filepath.Join(home, "d1", "metrics.csv"), "--out-dir", outDir, "--quiet")
	if _, err := os.Stat(filepath.Join(outDir, "metrics__3.cleaned.csv")); err != nil {
		t.Fatalf("expected third suffix: %v", err)
	}
}

func TestCLI_CleanBatchNoMatches(t *testing.T) {
	home := isolateHome(t)
	if _, err := execCmd(t, "clean-batch", filepath.Join(home, "*.csv")); err == nil {
		t.Fatalf("expected error when nothing matches")
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := isolateHome(t)

	runCmd(t, "config", "set", "outlier_threshold", "2.5")
	runCmd(t, "config", "set", "report_format", "yml")
	runCmd(t, "config", "set", "na_values", "-, ?")
	if _, err := execCmd(t, "config", "set", "jobs", "0"); err == nil {
		t.Fatalf("expected error for jobs=0")
	}
	if _, err := execCmd(t, "config", "set", "colour", "red"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if _, err := os.Stat(filepath.Join(home, ".tidyset", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}

	out := runCmd(t, "config", "show")
	for _, want := range []string{"strategy: mean", "outlier_threshold: 2.5", "report_format: yaml", "na_values: -,?"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}
