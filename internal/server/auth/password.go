package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/supportdesk/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var bcryptCost = bcrypt.DefaultCost

// dummyHash is compared against when an account does not exist, so a failed
// login costs the same whether or not the email is registered.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("supportdesk-timing-equalizer"), bcrypt.DefaultCost)

// HashPassword returns the bcrypt hash of password. A password longer than
// MaxPasswordBytes is a validation error.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, MaxPasswordBytes)
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, MaxPasswordBytes)
		}
		return "", fmt.Errorf("%w: hash password: %v", common.ErrInternal, err)
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash. An empty hash is
// checked against a dummy hash and always fails.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
