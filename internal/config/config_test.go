package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Threshold != 0.9 || c.HeadRows != 5 || c.GridCols != 4 || c.Bins != 20 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Encoding != "utf-8" || len(c.ChartKinds) != 2 {
		t.Fatalf("unexpected loader/chart defaults: %+v", c)
	}
	if want := filepath.Join(home, ".tabsift", "studies"); c.StudiesDir != want {
		t.Fatalf("studies_dir = %s, want %s", c.StudiesDir, want)
	}
}

func TestSaveLoadAndEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.RequiredField = "nkill"
	c.Threshold = 0.5
	c.NAValues = []string{"Unknown"}
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.RequiredField != "nkill" || got.Threshold != 0.5 || len(got.NAValues) != 1 {
		t.Fatalf("values not persisted: %+v", got)
	}

	t.Setenv("TABSIFT_THRESHOLD", "0.25")
	got, err = Load(path)
	if err != nil {
		t.Fatalf("reload with env: %v", err)
	}
	if got.Threshold != 0.25 {
		t.Fatalf("env should override file, got %v", got.Threshold)
	}
}

func TestLoadStudiesDirFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	want := filepath.Join(t.TempDir(), "mystudies")
	t.Setenv("TABSIFT_STUDIES_DIR", want)
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.StudiesDir != want {
		t.Fatalf("studies_dir = %s, want %s", c.StudiesDir, want)
	}
}

func TestLoadAcceptsSeparatorWords(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TABSIFT_DECIMAL", "comma")
	t.Setenv("TABSIFT_DELIMITER", "tab")
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Decimal != "comma" || c.Delimiter != "tab" {
		t.Fatalf("unexpected separators: decimal=%q delimiter=%q", c.Decimal, c.Delimiter)
	}
}

func TestSaveDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c := &Global{Threshold: 0.7}
	if err := Save(c, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".tabsift", "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TABSIFT_THRESHOLD", "1.5")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSet(t *testing.T) {
	c := &Global{Threshold: 0.9, HeadRows: 5}
	if err := c.Set("threshold", "0.35"); err != nil || c.Threshold != 0.35 {
		t.Fatalf("threshold: %v %v", err, c.Threshold)
	}
	if err := c.Set("head_rows", "10"); err != nil || c.HeadRows != 10 {
		t.Fatalf("head_rows: %v %v", err, c.HeadRows)
	}
	if err := c.Set("chart_width_in", "6.5"); err != nil || c.ChartWidthIn != 6.5 {
		t.Fatalf("chart_width_in: %v %v", err, c.ChartWidthIn)
	}
	if err := c.Set("na_values", "Unknown, -99 ,,"); err != nil || len(c.NAValues) != 2 || c.NAValues[1] != "-99" {
		t.Fatalf("na_values: %v %v", err, c.NAValues)
	}
	if err := c.Set("encoding", "Latin1"); err != nil || c.Encoding != "latin1" {
		t.Fatalf("encoding: %v %q", err, c.Encoding)
	}

	for _, v := range []string{"comma", "dot", ",", "."} {
		if err := c.Set("decimal", v); err != nil || c.Decimal != v {
			t.Fatalf("decimal %q: %v", v, err)
		}
	}
	if err := c.Set("decimal", "semicolon"); err == nil {
		t.Fatalf("expected decimal error")
	}
	if err := c.Set("delimiter", ";"); err != nil || c.Delimiter != ";" {
		t.Fatalf("delimiter: %v %q", err, c.Delimiter)
	}
	if err := c.Set("delimiter", "::"); err == nil {
		t.Fatalf("expected delimiter error")
	}

	if err := c.Set("threshold", "2"); err == nil {
		t.Fatalf("expected range error")
	}
	if c.Threshold != 0.35 {
		t.Fatalf("failed set must not modify config, got %v", c.Threshold)
	}
	if err := c.Set("bins", "many"); err == nil {
		t.Fatalf("expected conversion error")
	}
	if err := c.Set("api_key", "x"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}
