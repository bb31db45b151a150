package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations; every path is
// resolved relative to the executable directory, never the working directory.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	LogsDir       string

	// Well-known files
	ReportFile string
}

// GetPaths returns the application paths relative to the executable location.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return NewPaths(filepath.Dir(exe)), nil
}

// NewPaths builds the path set rooted at the given base directory. Split out
// from GetPaths so tests can root everything in a temp directory.
func NewPaths(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")
	reportsDir := filepath.Join(dataDir, "reports")

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		ReportsDir:    reportsDir,
		LogsDir:       filepath.Join(baseDir, "logs"),
		ReportFile:    filepath.Join(reportsDir, "Electricity_Market_Data.xlsx"),
	}
}

// EnsureDirectories creates all required directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ReportsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetReportPath resolves a report file name inside the reports directory.
// Absolute paths are returned as-is.
func (p *Paths) GetReportPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.ReportsDir, name)
}

// GetLogPath resolves a log file name inside the logs directory.
// Absolute paths are returned as-is.
func (p *Paths) GetLogPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.LogsDir, name)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
