// =============================================================================
// Order Set Decoder - CSV Input/Output
// =============================================================================
//
// This module reads order exports into batches and writes decoded batches
// back out. Reading is deliberately forgiving: ragged rows, quoted cells with
// stray quotes, and leading whitespace all parse. Unnamed columns get a
// Column_N placeholder so their values still round-trip.
//
// =============================================================================

package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ginjaninja78/order-set-decoder/internal/types"
)

// Settings controls CSV parsing and writing.
type Settings struct {
	// Delimiter is the field separator. Zero means comma.
	Delimiter rune
}

func (s Settings) delimiter() rune {
	if s.Delimiter == 0 {
		return ','
	}
	return s.Delimiter
}

// =============================================================================
// READING
// =============================================================================

// Read loads one CSV file into a batch. The first record is the header; data
// rows keep their 1-based file row number for reporting.
func Read(path string, settings Settings) (*types.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = settings.delimiter()
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	headers := cleanHeaders(records[0])
	batch := &types.Batch{
		Headers:    headers,
		Lines:      make([]types.Line, 0, len(records)-1),
		SourceFile: path,
	}

	for i, record := range records[1:] {
		fields := make(map[string]string, len(headers))
		for j, header := range headers {
			if j < len(record) {
				fields[header] = record[j]
			} else {
				fields[header] = ""
			}
		}
		batch.Lines = append(batch.Lines, types.Line{
			Fields: fields,
			Row:    i + 2, // header is row 1
		})
	}

	return batch, nil
}

// ReadAll loads several CSV files into one batch. Headers are the union of
// all files' headers, first file's order first; lines keep file order.
func ReadAll(paths []string, settings Settings) (*types.Batch, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files given")
	}

	combined := &types.Batch{SourceFile: strings.Join(paths, ", ")}
	seen := make(map[string]bool)

	for _, path := range paths {
		batch, err := Read(path, settings)
		if err != nil {
			return nil, err
		}
		for _, h := range batch.Headers {
			if !seen[h] {
				seen[h] = true
				combined.Headers = append(combined.Headers, h)
			}
		}
		combined.Lines = append(combined.Lines, batch.Lines...)
	}

	return combined, nil
}

// cleanHeaders trims headers and names blank ones Column_N by position.
func cleanHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}
	return headers
}

// =============================================================================
// WRITING
// =============================================================================

// Write emits a batch as CSV in the batch's header order. Columns a line
// does not carry are written empty.
func Write(path string, batch *types.Batch, settings Settings) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	writer.Comma = settings.delimiter()

	if err := writer.Write(batch.Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(batch.Headers))
	for _, line := range batch.Lines {
		for i, header := range batch.Headers {
			record[i] = line.Fields[header]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
