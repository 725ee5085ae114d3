package fileloader

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"babsa/app/table"

	"github.com/xuri/excelize/v2"
)

// Format-agnostic dispatcher functions
// Load and Save resolve the format once from the path and dispatch to the
// CSV or XLSX implementation. Compressed CSV is decompressed on load and
// compressed again with the same codec on save.

// Load reads the file at filePath into a new document.
// On failure no document is returned; the error wraps one of the sentinel
// kinds in a *FormatError.
func Load(ctx context.Context, filePath string) (*table.Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := DetectFormat(filePath)
	if err != nil {
		return nil, newFormatError("load", filePath, ErrUnsupportedFormat, nil)
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, newFormatError("load", filePath, ErrIOFailure, err)
	}

	data, err := Decompress(raw, format.Compression)
	if err != nil {
		return nil, newFormatError("load", filePath, ErrIOFailure, err)
	}

	var source, header []string
	var rows []*table.Row
	switch format.Type {
	case FileTypeCSV:
		source, header, rows, err = readCSV(ctx, data)
	case FileTypeXLSX:
		header, rows, err = ReadXLSX(ctx, data)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, classify("load", filePath, err)
	}

	if len(header) == 0 && len(rows) == 0 {
		return nil, newFormatError("load", filePath, ErrEmptyDocument, nil)
	}

	doc := table.NewDocument(header, rows)
	doc.SourceHeaders = source
	doc.Path = filePath
	doc.Format = format.String()
	doc.Fingerprint = FingerprintBytes(raw)
	return doc, nil
}

// Save writes doc back to the file and format it was loaded from and
// refreshes doc.Fingerprint. The target is replaced through a temporary file
// in the same directory.
func Save(ctx context.Context, doc *table.Document) error {
	if doc == nil || doc.Path == "" {
		return newFormatError("save", "", ErrSaveTargetInvalid, nil)
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return newFormatError("save", doc.Path, ErrIOFailure, err)
		}
	}

	format, err := DetectFormat(doc.Path)
	if err != nil {
		return newFormatError("save", doc.Path, ErrUnsupportedFormat, nil)
	}

	switch format.Type {
	case FileTypeCSV:
		err = saveCSV(doc, format)
	case FileTypeXLSX:
		err = saveXLSX(doc)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return classify("save", doc.Path, err)
	}

	fingerprint, err := Fingerprint(doc.Path)
	if err != nil {
		return newFormatError("save", doc.Path, ErrIOFailure, err)
	}
	doc.Fingerprint = fingerprint
	return nil
}

func saveCSV(doc *table.Document, format Format) error {
	data, err := WriteCSV(doc)
	if err != nil {
		return err
	}
	data, err = Compress(data, format.Compression)
	if err != nil {
		return err
	}
	return writeFileAtomic(doc.Path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func saveXLSX(doc *table.Document) error {
	f, err := excelize.OpenFile(doc.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteXLSX(f, doc); err != nil {
		return err
	}

	return writeFileAtomic(doc.Path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}

// writeFileAtomic writes through a temporary file next to path and renames
// it over path. The original file mode is kept when path exists.
func writeFileAtomic(path string, write func(w io.Writer) error) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// classify wraps err in a FormatError, keeping a sentinel kind when err
// already is one and treating everything else as an I/O failure.
func classify(op, path string, err error) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		return err
	}
	for _, kind := range []error{ErrUnsupportedFormat, ErrMissingHeader, ErrEmptyDocument, ErrSaveTargetInvalid} {
		if errors.Is(err, kind) {
			return newFormatError(op, path, kind, nil)
		}
	}
	return newFormatError(op, path, ErrIOFailure, err)
}
