package admission

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/supportdesk/internal/server/models"
)

var byMIME = map[string]models.FileType{
	"application/pdf": models.FileTypePDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": models.FileTypeDOCX,
	"text/plain": models.FileTypeText,
}

var byExtension = map[string]models.FileType{
	".pdf":  models.FileTypePDF,
	".docx": models.FileTypeDOCX,
	".txt":  models.FileTypeText,
}

// Classify maps a declared MIME type, falling back to the filename
// extension, onto one of the supported file types. Both inputs are advisory;
// the bytes are never sniffed.
func Classify(mimeType, filename string) (models.FileType, bool) {
	if ft, ok := byMIME[baseMIME(mimeType)]; ok {
		return ft, true
	}
	ft, ok := byExtension[strings.ToLower(filepath.Ext(filename))]
	return ft, ok
}

func baseMIME(v string) string {
	if mt, _, err := mime.ParseMediaType(v); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(v))
}
