// =============================================================================
// Order Set Decoder - File Management Utilities
// =============================================================================
//
// Helpers for the processing workflow around the core engine: discovering
// input exports, naming output files, archiving processed inputs, and
// keeping a short history of recent runs.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FileManager handles input discovery and archival for one run.
type FileManager struct {
	inputDir   string
	archiveDir string
}

// NewFileManager creates a FileManager over the given directories.
func NewFileManager(inputDir, archiveDir string) *FileManager {
	return &FileManager{inputDir: inputDir, archiveDir: archiveDir}
}

// DiscoverInputFiles returns the CSV files in the input directory, sorted by
// name for deterministic processing order.
func (fm *FileManager) DiscoverInputFiles() ([]string, error) {
	entries, err := os.ReadDir(fm.inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", fm.inputDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			files = append(files, filepath.Join(fm.inputDir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ArchiveInputFile moves a processed input into the archive directory with a
// timestamp prefix so repeated runs never collide.
func (fm *FileManager) ArchiveInputFile(path string) (string, error) {
	if err := os.MkdirAll(fm.archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	stamped := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), filepath.Base(path))
	dest := filepath.Join(fm.archiveDir, stamped)
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", path, err)
	}
	return dest, nil
}

// =============================================================================
// OUTPUT NAMING
// =============================================================================

// GenerateOutputFileName expands an output name pattern. Supported
// placeholders:
//
//	{uuid}      - random UUID
//	{timestamp} - 20060102_150405
//	{date}      - 2006-01-02
//	{time}      - 150405
//	{original}  - source file base name without extension
//
// The result always carries a .csv extension.
func GenerateOutputFileName(pattern, sourceFile string) string {
	now := time.Now()
	original := strings.TrimSuffix(filepath.Base(sourceFile), filepath.Ext(sourceFile))

	name := pattern
	name = strings.ReplaceAll(name, "{uuid}", uuid.New().String())
	name = strings.ReplaceAll(name, "{timestamp}", now.Format("20060102_150405"))
	name = strings.ReplaceAll(name, "{date}", now.Format("2006-01-02"))
	name = strings.ReplaceAll(name, "{time}", now.Format("150405"))
	name = strings.ReplaceAll(name, "{original}", original)

	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		name += ".csv"
	}
	return name
}

// =============================================================================
// RUN HISTORY
// =============================================================================

// maxHistoryEntries bounds the history file.
const maxHistoryEntries = 10

// HistoryEntry records one completed run.
type HistoryEntry struct {
	SourceFile  string    `yaml:"source_file"`
	OutputFile  string    `yaml:"output_file"`
	ProcessedAt time.Time `yaml:"processed_at"`
	InputLines  int       `yaml:"input_lines"`
	OutputLines int       `yaml:"output_lines"`
}

// History is the recent-run log, newest first.
type History struct {
	Entries []HistoryEntry `yaml:"entries"`
}

// LoadHistory reads the history file; a missing file yields an empty
// history.
func LoadHistory(path string) (*History, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history %s: %w", path, err)
	}

	var h History
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to parse history %s: %w", path, err)
	}
	return &h, nil
}

// Add prepends an entry, trimming to the newest maxHistoryEntries.
func (h *History) Add(entry HistoryEntry) {
	h.Entries = append([]HistoryEntry{entry}, h.Entries...)
	if len(h.Entries) > maxHistoryEntries {
		h.Entries = h.Entries[:maxHistoryEntries]
	}
}

// Save writes the history file.
func (h *History) Save(path string) error {
	data, err := yaml.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history %s: %w", path, err)
	}
	return nil
}
