package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/dmitrijs2005/supportdesk/internal/logging"
	"github.com/dmitrijs2005/supportdesk/internal/server/admission"
	"github.com/dmitrijs2005/supportdesk/internal/server/archive"
	"github.com/dmitrijs2005/supportdesk/internal/server/guard"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
	"github.com/dmitrijs2005/supportdesk/internal/server/repositories/documents"
)

const archiveContentType = "text/plain; charset=utf-8"

// Admitter runs an upload through admission. *admission.Pipeline implements it.
type Admitter interface {
	Admit(ctx context.Context, u admission.Upload) (*admission.Result, error)
}

// DocumentView is a single document plus an optional download link for its
// archived text.
type DocumentView struct {
	*models.Document
	DownloadURL string
}

type DocumentService struct {
	documents documents.Repository
	pipeline  Admitter
	archive   archive.Store
	logger    logging.Logger
	now       func() time.Time
}

// NewDocumentService wires the orchestrator. store may be nil, which
// disables the text archive.
func NewDocumentService(repo documents.Repository, pipeline Admitter, store archive.Store, logger logging.Logger) *DocumentService {
	return &DocumentService{
		documents: repo,
		pipeline:  pipeline,
		archive:   store,
		logger:    logger,
		now:       time.Now,
	}
}

// Admit checks that id is an admin, runs the upload through the pipeline
// and stores the result. Pipeline failures come back unchanged and leave no
// record behind.
func (s *DocumentService) Admit(ctx context.Context, id *models.Identity, file admission.Upload) (*models.Document, error) {
	if err := guard.RequireRole(id, models.RoleAdmin); err != nil {
		return nil, err
	}

	res, err := s.pipeline.Admit(ctx, file)
	if err != nil {
		s.logger.Info(ctx, "upload rejected", "name", file.Filename, "kind", common.KindOf(err), "error", err)
		return nil, err
	}

	now := s.now().UTC()
	doc := &models.Document{
		Filename:     StorageFilename(now, file.Filename),
		OriginalName: file.Filename,
		FileType:     res.FileType,
		FileSize:     max(file.Size, int64(len(file.Data))),
		Content:      res.Text,
		ChunkCount:   0,
		UploadedBy:   id.AccountID,
		UploadedAt:   now,
	}

	if s.archive != nil {
		key := ArchiveKey(doc.Filename)
		if err := s.archive.Put(ctx, key, []byte(doc.Content), archiveContentType); err != nil {
			return nil, s.storeFault(ctx, "archive text", err)
		}
		doc.ArchiveKey = key
	}

	created, err := s.documents.Create(ctx, doc)
	if err != nil {
		s.dropArchived(ctx, doc.ArchiveKey)
		return nil, s.storeFault(ctx, "create document", err)
	}

	s.logger.Info(ctx, "document admitted",
		"document_id", created.ID, "type", created.FileType, "size", created.FileSize, "by", id.AccountID)
	return created, nil
}

// List returns every document, newest first, without content.
func (s *DocumentService) List(ctx context.Context, id *models.Identity) ([]*models.Document, error) {
	if err := guard.RequireRole(id, models.RoleAdmin); err != nil {
		return nil, err
	}

	docs, err := s.documents.List(ctx)
	if err != nil {
		return nil, s.storeFault(ctx, "list documents", err)
	}
	return docs, nil
}

// Get returns one document with content. When the text is archived a
// presigned link is attached; failing to sign it is logged, not returned.
func (s *DocumentService) Get(ctx context.Context, id *models.Identity, docID string) (*DocumentView, error) {
	if err := guard.RequireRole(id, models.RoleAdmin); err != nil {
		return nil, err
	}

	doc, err := s.documents.GetByID(ctx, docID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: document not found", common.ErrNotFound)
		}
		return nil, s.storeFault(ctx, "get document", err)
	}

	view := &DocumentView{Document: doc}
	if s.archive != nil && doc.ArchiveKey != "" {
		url, err := s.archive.PresignGet(ctx, doc.ArchiveKey)
		if err != nil {
			s.logger.Warn(ctx, "presign failed", "document_id", doc.ID, "error", err)
		} else {
			view.DownloadURL = url
		}
	}
	return view, nil
}

// Delete removes the record and then its archived text, if any.
func (s *DocumentService) Delete(ctx context.Context, id *models.Identity, docID string) error {
	if err := guard.RequireRole(id, models.RoleAdmin); err != nil {
		return err
	}

	var archiveKey string
	if s.archive != nil {
		doc, err := s.documents.GetByID(ctx, docID)
		switch {
		case errors.Is(err, common.ErrNotFound):
			return fmt.Errorf("%w: document not found", common.ErrNotFound)
		case err != nil:
			return s.storeFault(ctx, "get document", err)
		}
		archiveKey = doc.ArchiveKey
	}

	if err := s.documents.Delete(ctx, docID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: document not found", common.ErrNotFound)
		}
		return s.storeFault(ctx, "delete document", err)
	}

	s.dropArchived(ctx, archiveKey)
	s.logger.Info(ctx, "document deleted", "document_id", docID, "by", id.AccountID)
	return nil
}

func (s *DocumentService) dropArchived(ctx context.Context, key string) {
	if s.archive == nil || key == "" {
		return
	}
	if err := s.archive.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn(ctx, "archived text left behind", "key", key, "error", err)
	}
}

func (s *DocumentService) storeFault(ctx context.Context, op string, err error) error {
	return storeFault(ctx, s.logger, op, err)
}

// StorageFilename derives the stored name of an upload: the upload time in
// nanoseconds, a hyphen and the sanitized original name.
func StorageFilename(t time.Time, original string) string {
	return fmt.Sprintf("%d-%s", t.UnixNano(), SanitizeFilename(original))
}

// ArchiveKey is the object key under which a document's text is archived.
func ArchiveKey(filename string) string {
	return "documents/" + filename + ".txt"
}

// SanitizeFilename replaces each run of whitespace with a hyphen and drops
// every character outside [A-Za-z0-9.-_].
func SanitizeFilename(name string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range name {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
			}
			inSpace = true
			continue
		}
		inSpace = false
		if allowedInFilename(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allowedInFilename(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '-', r == '_':
		return true
	}
	return false
}
