// Package guard resolves the caller's identity from a bearer token and
// enforces role requirements.
package guard

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
)

const bearerPrefix = "Bearer "

// Verifier checks a raw token. *auth.TokenService implements it.
type Verifier interface {
	Verify(token string) (*models.Identity, error)
}

// Guard authenticates requests against a Verifier.
type Guard struct {
	tokens Verifier
}

func New(v Verifier) *Guard {
	return &Guard{tokens: v}
}

// Authenticate reads "Authorization: Bearer <token>" from h and verifies
// the token. A missing or malformed header is common.ErrMissingCredential;
// every verification failure collapses into common.ErrUnauthenticated so
// callers cannot tell expired, forged and malformed tokens apart.
func (g *Guard) Authenticate(h http.Header) (*models.Identity, error) {
	token, ok := bearerToken(h.Get("Authorization"))
	if !ok {
		return nil, common.ErrMissingCredential
	}

	id, err := g.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid or expired token", common.ErrUnauthenticated)
	}
	return id, nil
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || token == "" || strings.ContainsAny(token, " \t\r\n") {
		return "", false
	}
	return token, true
}

// RequireRole checks that id holds exactly role. A nil id is
// common.ErrUnauthenticated, any other role is common.ErrForbidden.
func RequireRole(id *models.Identity, role models.Role) error {
	if id == nil {
		return fmt.Errorf("%w: authentication required", common.ErrUnauthenticated)
	}
	if id.Role != role {
		return fmt.Errorf("%w: %s access required", common.ErrForbidden, role)
	}
	return nil
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *models.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom returns the identity attached by WithIdentity, or nil.
func IdentityFrom(ctx context.Context) *models.Identity {
	id, _ := ctx.Value(ctxKey{}).(*models.Identity)
	return id
}
