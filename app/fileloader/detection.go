package fileloader

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// formatPattern maps a file name pattern to the format it selects.
type formatPattern struct {
	Pattern     string
	DisplayName string
	Format      Format
}

// formatPatterns is checked in order, so compressed variants come before
// the plain extensions they end with.
var formatPatterns = []formatPattern{
	{Pattern: "*.csv.gz", DisplayName: "CSV Files (gzip)", Format: Format{Type: FileTypeCSV, Compression: CompressionGzip}},
	{Pattern: "*.csv.xz", DisplayName: "CSV Files (xz)", Format: Format{Type: FileTypeCSV, Compression: CompressionXZ}},
	{Pattern: "*.csv", DisplayName: "CSV Files", Format: Format{Type: FileTypeCSV}},
	{Pattern: "*.xlsx", DisplayName: "Excel Files", Format: Format{Type: FileTypeXLSX}},
}

// DetectFormat determines the file type and compression from the file name.
// Matching is case-insensitive on the base name. Returns ErrUnsupportedFormat
// when no pattern matches.
//
// Supported:
//   - CSV (.csv, .csv.gz, .csv.xz)
//   - XLSX (.xlsx)
func DetectFormat(filePath string) (Format, error) {
	if strings.TrimSpace(filePath) == "" {
		return Format{}, ErrUnsupportedFormat
	}

	name := strings.ToLower(filepath.Base(filePath))
	for _, fp := range formatPatterns {
		if ok, _ := doublestar.Match(fp.Pattern, name); ok {
			return fp.Format, nil
		}
	}
	return Format{}, ErrUnsupportedFormat
}

// IsSupported reports whether the path has a supported extension.
func IsSupported(filePath string) bool {
	_, err := DetectFormat(filePath)
	return err == nil
}

// FileFilter is a named group of file name patterns for an open dialog.
type FileFilter struct {
	DisplayName string
	Pattern     string // semicolon separated
}

// FileFilters returns the dialog filters for all supported formats, with an
// "All Supported Files" entry first.
func FileFilters() []FileFilter {
	all := make([]string, 0, len(formatPatterns))
	filters := make([]FileFilter, 0, len(formatPatterns)+1)
	for _, fp := range formatPatterns {
		all = append(all, fp.Pattern)
		filters = append(filters, FileFilter{DisplayName: fp.DisplayName, Pattern: fp.Pattern})
	}
	return append([]FileFilter{{DisplayName: "All Supported Files", Pattern: strings.Join(all, ";")}}, filters...)
}
