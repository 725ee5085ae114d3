package fileloader

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// CompressionType represents the compression format of a file
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionGzip
	CompressionXZ
)

// String returns the string representation of CompressionType
func (ct CompressionType) String() string {
	switch ct {
	case CompressionGzip:
		return "gzip"
	case CompressionXZ:
		return "xz"
	default:
		return "none"
	}
}

// Decompress returns the decompressed content of data.
func Decompress(data []byte, compressionType CompressionType) ([]byte, error) {
	var reader io.Reader

	switch compressionType {
	case CompressionNone:
		return data, nil

	case CompressionGzip:
		gzReader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader

	case CompressionXZ:
		xzReader, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		reader = xzReader

	default:
		return nil, fmt.Errorf("unsupported compression type: %v", compressionType)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Compress returns data compressed with the given codec. Output carries no
// timestamps or names, so equal input gives equal output.
func Compress(data []byte, compressionType CompressionType) ([]byte, error) {
	var buf bytes.Buffer

	switch compressionType {
	case CompressionNone:
		return data, nil

	case CompressionGzip:
		gzWriter := gzip.NewWriter(&buf)
		if _, err := gzWriter.Write(data); err != nil {
			return nil, fmt.Errorf("gzip write failed: %w", err)
		}
		if err := gzWriter.Close(); err != nil {
			return nil, fmt.Errorf("gzip close failed: %w", err)
		}

	case CompressionXZ:
		xzWriter, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		if _, err := xzWriter.Write(data); err != nil {
			return nil, fmt.Errorf("xz write failed: %w", err)
		}
		if err := xzWriter.Close(); err != nil {
			return nil, fmt.Errorf("xz close failed: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported compression type: %v", compressionType)
	}

	return buf.Bytes(), nil
}
