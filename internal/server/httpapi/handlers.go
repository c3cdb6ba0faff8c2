package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/dmitrijs2005/supportdesk/internal/server/admission"
	"github.com/dmitrijs2005/supportdesk/internal/server/guard"
	"github.com/dmitrijs2005/supportdesk/internal/server/services"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is the slack allowed on top of the file size for
// boundaries and part headers.
const multipartOverhead = 1 << 20

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	accounts  *services.AccountService
	documents *services.DocumentService
	storage   Pinger
	maxUpload int64
	now       func() time.Time
}

func NewHandler(as *services.AccountService, ds *services.DocumentService, storage Pinger, maxUpload int64) *Handler {
	return &Handler{
		accounts:  as,
		documents: ds,
		storage:   storage,
		maxUpload: maxUpload,
		now:       time.Now,
	}
}

func (h *Handler) health(c *gin.Context) {
	ts := h.now().UTC()
	if h.storage != nil {
		if err := h.storage.Ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "timestamp": ts})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": ts})
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: invalid request body", common.ErrValidation))
		return
	}

	res, err := h.accounts.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, toAuthJSON(res))
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: invalid request body", common.ErrValidation))
		return
	}

	res, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, toAuthJSON(res))
}

func (h *Handler) me(c *gin.Context) {
	a, err := h.accounts.Me(c.Request.Context(), guard.IdentityFrom(c.Request.Context()))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": toAccountJSON(a)})
}

func (h *Handler) listDocuments(c *gin.Context) {
	ctx := c.Request.Context()
	docs, err := h.documents.List(ctx, guard.IdentityFrom(ctx))
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]documentJSON, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentJSON(d))
	}
	respond(c, http.StatusOK, out)
}

func (h *Handler) getDocument(c *gin.Context) {
	ctx := c.Request.Context()
	view, err := h.documents.Get(ctx, guard.IdentityFrom(ctx), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	out := toDocumentJSON(view.Document)
	out.DownloadURL = view.DownloadURL
	respond(c, http.StatusOK, out)
}

func (h *Handler) deleteDocument(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.documents.Delete(ctx, guard.IdentityFrom(ctx), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "document deleted"})
}

func (h *Handler) uploadDocument(c *gin.Context) {
	ctx := c.Request.Context()

	upload, err := h.readUpload(c)
	if err != nil {
		fail(c, err)
		return
	}

	doc, err := h.documents.Admit(ctx, guard.IdentityFrom(ctx), upload)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, toDocumentJSON(doc))
}

// readUpload pulls the "file" part out of a multipart request. A part whose
// declared size is over the limit is rejected without reading it.
func (h *Handler) readUpload(c *gin.Context) (admission.Upload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			return admission.Upload{}, fmt.Errorf("%w: request body exceeds %d bytes", common.ErrTooLarge, tooBig.Limit)
		case errors.Is(err, http.ErrMissingFile):
			return admission.Upload{}, fmt.Errorf("%w: no file uploaded", common.ErrValidation)
		default:
			return admission.Upload{}, fmt.Errorf("%w: invalid multipart body", common.ErrValidation)
		}
	}

	if fh.Size > h.maxUpload {
		return admission.Upload{}, fmt.Errorf("%w: %d bytes exceeds the %d byte limit", common.ErrTooLarge, fh.Size, h.maxUpload)
	}

	f, err := fh.Open()
	if err != nil {
		return admission.Upload{}, fmt.Errorf("%w: open upload: %v", common.ErrInternal, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		return admission.Upload{}, fmt.Errorf("%w: read upload: %v", common.ErrInternal, err)
	}

	return admission.Upload{
		Data:     data,
		Filename: fh.Filename,
		MIMEType: fh.Header.Get("Content-Type"),
		Size:     fh.Size,
	}, nil
}
