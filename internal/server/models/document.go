package models

import "time"

// FileType is the content kind an upload was classified as.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeText FileType = "txt"
)

// Document is an admitted upload. Content holds the normalized text; the
// original bytes are never stored.
//
// ChunkCount and ExternalIndexRef are reserved for downstream indexing and
// are not populated at admission.
type Document struct {
	ID               string
	Filename         string
	OriginalName     string
	FileType         FileType
	FileSize         int64
	Content          string
	ChunkCount       int
	ExternalIndexRef string
	ArchiveKey       string
	UploadedBy       string
	UploadedAt       time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
