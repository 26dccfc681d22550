package enums

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileFormat identifies the tabular encoding of an uploaded order file.
type FileFormat string

const (
	FileFormatCSV  FileFormat = "csv"
	FileFormatXLSX FileFormat = "xlsx"
)

var validFileFormats = []FileFormat{
	FileFormatCSV,
	FileFormatXLSX,
}

// IsValid reports whether the value matches a supported file format.
func (f FileFormat) IsValid() bool {
	for _, candidate := range validFileFormats {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFileFormat converts the raw string to FileFormat.
func ParseFileFormat(value string) (FileFormat, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validFileFormats {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid file format %q", value)
}

// FileFormatFromName infers the format from a file name, defaulting to CSV.
func FileFormatFromName(name string) FileFormat {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return FileFormatXLSX
	}
	return FileFormatCSV
}
