package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
)

var (
	ErrNoParticipants = errors.New("must have at least one participant")
	ErrSplitMismatch  = errors.New("split total doesn't match bill amount")
)

// SplitTolerance is how far custom splits may drift from the bill amount.
var SplitTolerance = decimal.New(1, -2)

var cent = decimal.New(1, -2)

// EqualSplit divides amount evenly between participants.
// Shares are rounded down to whole cents and the leftover cents go to the
// first participants in order, so the shares always add up to amount.
func EqualSplit(amount decimal.Decimal, participantIDs []string) ([]models.Split, error) {
	if len(participantIDs) == 0 {
		return nil, ErrNoParticipants
	}

	n := decimal.NewFromInt(int64(len(participantIDs)))
	share := amount.Div(n).Truncate(2)

	splits := make([]models.Split, len(participantIDs))
	for i, id := range participantIDs {
		splits[i] = models.Split{ParticipantID: id, Amount: share}
	}

	remainder := amount.Sub(share.Mul(n))
	for i := 0; remainder.GreaterThanOrEqual(cent); i = (i + 1) % len(splits) {
		splits[i].Amount = splits[i].Amount.Add(cent)
		remainder = remainder.Sub(cent)
	}
	// Sub-cent dust from amounts with more than two decimals
	if !remainder.IsZero() {
		splits[0].Amount = splits[0].Amount.Add(remainder)
	}

	return splits, nil
}

// ValidateSplitTotal checks that custom splits add up to the bill amount
// within SplitTolerance.
func ValidateSplitTotal(amount decimal.Decimal, splits []models.Split) error {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(s.Amount)
	}
	if total.Sub(amount).Abs().GreaterThan(SplitTolerance) {
		return fmt.Errorf("%w: splits sum to %s, bill amount is %s",
			ErrSplitMismatch, total.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}
