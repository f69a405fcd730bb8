package auth

import "github.com/mohitkumarrajbadi/Splitzy/internal/models"

// Authenticator defines how a ledger's shared credential is stored and checked.
// This abstraction allows swapping the passcode scheme without changing the
// service layer code.
type Authenticator interface {
	// ValidateCredential checks that a new credential meets the implementation's requirements.
	ValidateCredential(credential string) error

	// Hash returns the value to persist on the ledger for credential.
	// An empty credential yields an empty hash, which leaves the ledger open.
	Hash(credential string) (string, error)

	// Authenticate verifies credential against the ledger's stored hash.
	Authenticate(ledger *models.Ledger, credential string) error
}
