package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
)

// MinPasscodeLength is the shortest passcode a ledger may be protected with.
const MinPasscodeLength = 4

var (
	ErrInvalidCredentials = errors.New("invalid ledger passcode")
	ErrWeakPasscode       = fmt.Errorf("passcode must be at least %d characters", MinPasscodeLength)
	ErrUnknownParticipant = errors.New("participant is not on this ledger")
)

// Ensure PasscodeAuthenticator implements Authenticator
var _ Authenticator = (*PasscodeAuthenticator)(nil)

// PasscodeAuthenticator protects ledgers with a shared bcrypt-hashed passcode.
type PasscodeAuthenticator struct {
	cost int
}

// NewPasscodeAuthenticator creates a passcode authenticator. A cost of zero
// selects bcrypt.DefaultCost.
func NewPasscodeAuthenticator(cost int) *PasscodeAuthenticator {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasscodeAuthenticator{cost: cost}
}

// ValidateCredential checks if the passcode meets minimum requirements.
// An empty passcode is allowed and means the ledger is open.
func (a *PasscodeAuthenticator) ValidateCredential(credential string) error {
	if credential != "" && len(credential) < MinPasscodeLength {
		return ErrWeakPasscode
	}
	return nil
}

// Hash hashes the passcode with bcrypt.
func (a *PasscodeAuthenticator) Hash(credential string) (string, error) {
	if credential == "" {
		return "", nil
	}
	if err := a.ValidateCredential(credential); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passcode: %w", err)
	}
	return string(hashed), nil
}

// Authenticate compares the passcode with the ledger's hash.
// Open ledgers accept any credential.
func (a *PasscodeAuthenticator) Authenticate(ledger *models.Ledger, credential string) error {
	if ledger.PasscodeHash == "" {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(ledger.PasscodeHash), []byte(credential)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
