package models

// Ledger is a shared household ledger: a named roster of participants whose
// bills are settled against each other.
type Ledger struct {
	// ID is the unique identifier for the ledger (UUID format).
	ID string

	// Name is the display name of the ledger (e.g., "OMR Flat").
	Name string

	// Participants is the roster. Order is preserved from creation and is the
	// tie-break order used when simplifying debts.
	Participants []Participant

	// PasscodeHash is the bcrypt hash of the optional ledger passcode.
	// Empty means any participant can open the ledger without one.
	PasscodeHash string

	// CreatedAt is the Unix timestamp when the ledger was created.
	CreatedAt int64

	// Revision increases with every committed change to the roster or bills.
	Revision int64
}

// Participant is a person in a ledger who can pay or owe money.
type Participant struct {
	// ID is unique within the ledger.
	ID string

	// DisplayName is the name shown in the roster. It is the only mutable field.
	DisplayName string

	// Icon is a short emoji or glyph shown next to the name.
	Icon string
}

// HasParticipant reports whether id is on the roster.
func (l *Ledger) HasParticipant(id string) bool {
	_, ok := l.Participant(id)
	return ok
}

// Participant returns the roster entry with the given id.
func (l *Ledger) Participant(id string) (Participant, bool) {
	for _, p := range l.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// ParticipantIDs returns the roster IDs in roster order.
func (l *Ledger) ParticipantIDs() []string {
	ids := make([]string, len(l.Participants))
	for i, p := range l.Participants {
		ids[i] = p.ID
	}
	return ids
}
