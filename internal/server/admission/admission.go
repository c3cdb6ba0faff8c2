// Package admission validates untrusted uploads and turns them into
// normalized text: size check, type classification, extraction,
// normalization and an emptiness check, in that order. A run either returns
// non-empty text with its file type or fails with exactly one error kind.
package admission

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
)

// Upload is one inbound file. Size is the byte length reported by the
// transport; Data may be shorter only if the transport stopped reading early.
type Upload struct {
	Data     []byte
	Filename string
	MIMEType string
	Size     int64
}

// Result is the outcome of a successful admission.
type Result struct {
	Text     string
	FileType models.FileType
}

// Extractor turns raw bytes of one file type into text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(data []byte) (string, error)

func (f ExtractorFunc) Extract(data []byte) (string, error) { return f(data) }

// Pipeline admits uploads up to maxSize bytes. It holds no per-upload state
// and is safe for concurrent use.
type Pipeline struct {
	maxSize    int64
	extractors map[models.FileType]Extractor
}

// New returns a Pipeline with the PDF, DOCX and plain-text extractors.
func New(maxSize int64) *Pipeline {
	return &Pipeline{
		maxSize: maxSize,
		extractors: map[models.FileType]Extractor{
			models.FileTypePDF:  ExtractorFunc(ExtractPDF),
			models.FileTypeDOCX: ExtractorFunc(ExtractDOCX),
			models.FileTypeText: ExtractorFunc(ExtractText),
		},
	}
}

// MaxSize returns the configured size ceiling in bytes.
func (p *Pipeline) MaxSize() int64 { return p.maxSize }

// Admit runs u through the pipeline.
func (p *Pipeline) Admit(ctx context.Context, u Upload) (*Result, error) {
	size := max(u.Size, int64(len(u.Data)))
	if size > p.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d byte limit", common.ErrTooLarge, size, p.maxSize)
	}

	ft, ok := Classify(u.MIMEType, u.Filename)
	if !ok {
		return nil, fmt.Errorf("%w: only PDF, DOCX and TXT files are allowed", common.ErrUnsupportedType)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := p.extract(ft, u.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrExtractionFailed, ft, err)
	}

	text := Normalize(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: could not extract text from the document", common.ErrEmptyDocument)
	}

	return &Result{Text: text, FileType: ft}, nil
}

// extract runs the extractor for ft. Parsers see untrusted bytes, so a panic
// inside one is reported as an ordinary extraction error.
func (p *Pipeline) extract(ft models.FileType, data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", nil
	}
	e, ok := p.extractors[ft]
	if !ok {
		return "", fmt.Errorf("no extractor")
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parser panic: %v", r)
		}
	}()
	return e.Extract(data)
}
