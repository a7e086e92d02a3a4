package usecase

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/bankledger/internal/domain"
)

// PINAuthorizer checks a PIN against the bcrypt hash stored for the
// account owner.
type PINAuthorizer struct {
	credentials CredentialRepository
}

// NewPINAuthorizer creates a new PINAuthorizer.
func NewPINAuthorizer(credentials CredentialRepository) *PINAuthorizer {
	return &PINAuthorizer{credentials: credentials}
}

// Authorize returns nil only when pin matches the stored credential.
func (a *PINAuthorizer) Authorize(ctx context.Context, accountNumber, pin string) error {
	hash, err := a.credentials.GetCredential(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrAuthAccountNotFound
		}

		return domain.NewPersistenceError("load credential", err)
	}

	if pin == "" || hash == "" {
		return domain.ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return domain.ErrInvalidCredential
	}

	return nil
}

// HashPIN returns the bcrypt hash of pin at the given cost.
func HashPIN(pin string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
