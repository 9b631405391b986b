package entity

import (
	"path/filepath"
	"slices"
	"strings"
)

// AdvertisedExtensions are the formats the upload surface tells users about.
// Nothing enforces them.
var AdvertisedExtensions = []string{".xlsx", ".xls", ".csv"}

// File is the metadata of a user-chosen file. Its bytes are never inspected.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Extension   string
}

func NewFile(name string, size int64, contentType string) File {
	return File{
		Name:        name,
		Size:        size,
		ContentType: contentType,
		Extension:   strings.ToLower(filepath.Ext(name)),
	}
}

func (f File) AdvertisedFormat() bool {
	return slices.Contains(AdvertisedExtensions, f.Extension)
}
