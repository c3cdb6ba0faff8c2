package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Message string      `json:"message"`
	Code    common.Kind `json:"code"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

var statusByKind = map[common.Kind]int{
	common.KindMissingCredential: http.StatusUnauthorized,
	common.KindUnauthenticated:   http.StatusUnauthorized,
	common.KindForbidden:         http.StatusForbidden,
	common.KindValidation:        http.StatusBadRequest,
	common.KindNotFound:          http.StatusNotFound,
	common.KindTooLarge:          http.StatusRequestEntityTooLarge,
	common.KindUnsupportedType:   http.StatusUnsupportedMediaType,
	common.KindExtractionFailed:  http.StatusUnprocessableEntity,
	common.KindEmptyDocument:     http.StatusUnprocessableEntity,
	common.KindUnavailable:       http.StatusServiceUnavailable,
	common.KindInternal:          http.StatusInternalServerError,
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	if s, ok := statusByKind[common.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// statusClientClosedRequest is reported when the caller went away before
// the handler finished.
const statusClientClosedRequest = 499

// messageByKind holds the client-facing text of each kind. Error details
// from parsers and stores stay in the log.
var messageByKind = map[common.Kind]string{
	common.KindMissingCredential: "no token provided",
	common.KindUnauthenticated:   "authentication failed",
	common.KindForbidden:         "insufficient permissions",
	common.KindNotFound:          "resource not found",
	common.KindTooLarge:          "file exceeds the maximum upload size",
	common.KindUnsupportedType:   "only PDF, DOCX and TXT files are allowed",
	common.KindExtractionFailed:  "could not read the document",
	common.KindEmptyDocument:     "could not extract text from the document",
}

// publicMessage returns what the client sees for err. Validation errors
// keep their own text, which names the input rule that was broken.
func publicMessage(err error, status int) string {
	kind := common.KindOf(err)
	if kind == common.KindValidation {
		return err.Error()
	}
	if msg, ok := messageByKind[kind]; ok {
		return msg
	}
	return http.StatusText(status)
}

// fail writes the error envelope and aborts the chain. The full error is
// attached to the context for the request logger.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)

	if errors.Is(err, context.Canceled) {
		c.AbortWithStatus(statusClientClosedRequest)
		return
	}

	status := StatusFor(err)
	c.AbortWithStatusJSON(status, envelope{Error: &errorBody{Message: publicMessage(err, status), Code: common.KindOf(err)}})
}
