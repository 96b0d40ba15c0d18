package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/tidyset/internal/cleaner"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Strategy != "mean" || c.OutlierThreshold != 3 {
		t.Fatalf("defaults = %q/%v, want mean/3", c.Strategy, c.OutlierThreshold)
	}
	if c.ReportFormat != "markdown" || c.PreviewRows != 10 || c.Jobs != 4 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	cc, err := c.CleanerConfig()
	if err != nil {
		t.Fatalf("CleanerConfig: %v", err)
	}
	if cc != cleaner.DefaultConfig() {
		t.Fatalf("cleaner config = %+v", cc)
	}
}

func TestSaveThenLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	in := &Global{
		Strategy:         "median",
		OutlierThreshold: 2.5,
		OutputDir:        "/tmp/out",
		ReportFormat:     "json",
		PreviewRows:      3,
		NAValues:         []string{"-", "?"},
		Jobs:             2,
		LogLevel:         "debug",
		LogFormat:        "json",
	}
	if err := Save(in, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	out, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Strategy != "median" || out.OutlierThreshold != 2.5 || out.OutputDir != "/tmp/out" {
		t.Fatalf("loaded = %+v", out)
	}
	if len(out.NAValues) != 2 || out.NAValues[1] != "?" {
		t.Fatalf("na_values = %#v", out.NAValues)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(&Global{Strategy: "median", OutlierThreshold: 2}, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	t.Setenv("TIDYSET_STRATEGY", "mode")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Strategy != "mode" {
		t.Fatalf("strategy = %q, want env override", c.Strategy)
	}
}

func TestCleanerConfigRejectsBadValues(t *testing.T) {
	for _, g := range []Global{
		{Strategy: "max", OutlierThreshold: 3},
		{Strategy: "mean", OutlierThreshold: 0},
	} {
		if _, err := g.CleanerConfig(); !errors.Is(err, cleaner.ErrInvalidConfig) {
			t.Fatalf("%+v: err = %v, want ErrInvalidConfig", g, err)
		}
	}
}
