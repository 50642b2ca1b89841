package test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mickamy/pgexplain/internal/model"
	"github.com/mickamy/pgexplain/internal/parser"
)

var (
	rootPath string
	once     sync.Once
)

// RootPath resolves a path relative to the repository rootPath (where go.mod resides).
func RootPath(t *testing.T) string {
	t.Helper()
	once.Do(func() {
		wd, err := os.Getwd()
		if err != nil {
			t.Fatalf("getwd: %v", err)
		}
		for {
			if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
				rootPath = wd
				break
			}
			next := filepath.Dir(wd)
			if next == wd {
				t.Fatalf("go.mod not found from %s", wd)
			}
			wd = next
		}
	})
	return rootPath
}

// SamplePath returns the absolute path of a file under samples/.
func SamplePath(t *testing.T, rel string) string {
	t.Helper()
	return filepath.Join(RootPath(t), "samples", rel)
}

// ReadSample returns the raw bytes of a sample file.
func ReadSample(t *testing.T, rel string) []byte {
	t.Helper()
	data, err := os.ReadFile(SamplePath(t, rel))
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	return data
}

// LoadSample parses a sample plan relative to the repository rootPath.
func LoadSample(t *testing.T, rel string) []model.ExplainResult {
	t.Helper()
	f, err := os.Open(SamplePath(t, rel))
	if err != nil {
		t.Fatalf("open plan: %v", err)
	}
	defer func() { _ = f.Close() }()

	results, err := parser.ParseJSON(f)
	if err != nil {
		t.Fatalf("parse plan: %v", err)
	}
	return results
}
