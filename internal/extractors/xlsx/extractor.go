// Package xlsx extracts cell text from Excel workbooks.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

const cellSeparator = " | "

// Extractor handles XLSX workbooks.
type Extractor struct{}

// New creates a new XLSX extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{"xlsx", "xlsm"}
}

// Extract renders each non-empty sheet as its name followed by one line per row.
func (e *Extractor) Extract(ctx context.Context, content []byte, filename string) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: %s is not a readable workbook: %v", domain.ErrInvalidInput, filename, err)
	}
	defer f.Close()

	var sections []string
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			logger.Debug("Skipping sheet %q of %s: %v", sheet, filename, err)
			continue
		}

		lines := make([]string, 0, len(rows)+1)
		lines = append(lines, sheet)
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, cellSeparator))
			if strings.Trim(line, " |") == "" {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) == 1 {
			continue
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	return strings.Join(sections, "\n\n"), nil
}
