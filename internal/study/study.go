// Package study persists named run histories on disk.
package study

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/tabsift/internal/utils"
)

const studyFileName = "study.json"

// Study is a directory holding study.json and the artifacts of its runs.
type Study struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Runs        map[string]*Run `json:"runs"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	rootDir string
}

// New constructs an in-memory study. Call Save to persist.
func New(name, description, rootDir string) *Study {
	now := time.Now()
	return &Study{
		Name:        name,
		Description: strings.TrimSpace(description),
		Runs:        make(map[string]*Run),
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// Load reads study.json from dir.
func Load(dir string) (*Study, error) {
	path := filepath.Join(dir, studyFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("study not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read study: %w", err)
	}
	var s Study
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse study: %w", err)
	}
	if s.Runs == nil {
		s.Runs = make(map[string]*Run)
	}
	s.rootDir = dir
	return &s, nil
}

// Exists reports whether dir already holds a study.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, studyFileName))
	return err == nil
}

// RootDir returns the study directory.
func (s *Study) RootDir() string { return s.rootDir }

// ReportsDir is where run reports are written.
func (s *Study) ReportsDir() string { return filepath.Join(s.rootDir, "reports") }

// ChartsDir is where charts for source are written.
func (s *Study) ChartsDir(source string) string {
	return filepath.Join(s.rootDir, "charts", utils.SafeName(utils.BaseName(source), "dataset"))
}

// Save writes study.json atomically.
func (s *Study) Save() error {
	if s.rootDir == "" {
		return errors.New("study root directory not set")
	}
	if err := utils.EnsureDir(s.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	s.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.rootDir, studyFileName), data)
}

// AddRun assigns r an ID and timestamp when unset and records it.
func (s *Study) AddRun(r *Run) *Run {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.At.IsZero() {
		r.At = time.Now()
	}
	if s.Runs == nil {
		s.Runs = make(map[string]*Run)
	}
	s.Runs[r.ID] = r
	s.UpdatedAt = time.Now()
	return r
}

// SortedRuns returns the runs oldest first; ties are ordered by ID.
func (s *Study) SortedRuns() []*Run {
	out := make([]*Run, 0, len(s.Runs))
	for _, r := range s.Runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].At.Equal(out[j].At) {
			return out[i].At.Before(out[j].At)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// List returns the names of the studies found under root, sorted.
func List(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read studies dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && Exists(filepath.Join(root, e.Name())) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
