// Package fileloader reads a data file (CSV or XLSX, optionally compressed)
// into a table.Document and writes the annotated document back to the same
// file. It owns file type detection, header normalisation, compression and
// the format-specific load and save code.
package fileloader

// FileType represents the type of data file being processed
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeCSV
	FileTypeXLSX
)

// String returns the string representation of FileType
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "CSV"
	case FileTypeXLSX:
		return "XLSX"
	default:
		return "Unknown"
	}
}

// Format is the variant selected for a path: the file type plus the
// compression wrapped around it. It is resolved once per load or save.
type Format struct {
	Type        FileType
	Compression CompressionType
}

// String returns a label such as "CSV" or "CSV+gzip"
func (f Format) String() string {
	if f.Compression == CompressionNone {
		return f.Type.String()
	}
	return f.Type.String() + "+" + f.Compression.String()
}

// ContextCheckInterval is how often (in rows) the parsers check for cancellation.
var ContextCheckInterval = 100
