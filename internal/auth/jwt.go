package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// tokenIssuer is stamped into every session token and required on parse.
const tokenIssuer = "splitzy"

// clockSkew tolerated between the issuing and validating hosts.
const clockSkew = 5 * time.Second

// JWTManager issues and checks ledger session tokens (HS256).
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	parser        *jwt.Parser
}

// Claims identifies which ledger a session belongs to and who is acting on it.
// The participant is also the token subject.
type Claims struct {
	LedgerID      string `json:"ledger_id"`
	ParticipantID string `json:"participant_id"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a manager signing with secretKey. Tokens expire after tokenDuration.
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(tokenIssuer),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

// Generate creates a session token for participantID acting on ledgerID.
func (m *JWTManager) Generate(ledgerID, participantID string) (string, error) {
	now := time.Now()
	session := Claims{
		LedgerID:      ledgerID,
		ParticipantID: participantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   participantID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, session).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session for ledger %s: %w", ledgerID, err)
	}
	return signed, nil
}

// Validate checks signature, issuer and lifetime and returns the session claims.
// Every failure wraps ErrInvalidToken.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	var session Claims
	if _, err := m.parser.ParseWithClaims(tokenString, &session, m.key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if session.LedgerID == "" || session.ParticipantID == "" {
		return nil, fmt.Errorf("%w: session has no ledger or participant", ErrInvalidToken)
	}
	return &session, nil
}

func (m *JWTManager) key(*jwt.Token) (any, error) {
	return m.secretKey, nil
}
