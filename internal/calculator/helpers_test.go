package calculator

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	prefix := "amount"
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			prefix = fmt.Sprintf(format, msgAndArgs[1:]...)
		}
	}
	assert.Truef(t, dec(want).Equal(got), "%s: want %s, got %s", prefix, want, got.String())
}

func roster(ids ...string) []models.Participant {
	out := make([]models.Participant, len(ids))
	for i, id := range ids {
		out[i] = models.Participant{ID: id, DisplayName: id, Icon: "👤"}
	}
	return out
}

func bill(payer, amount string, splits ...models.Split) models.Bill {
	return models.Bill{
		ID:       payer + "-" + amount,
		Title:    "Test bill",
		Amount:   dec(amount),
		Category: models.CategoryOther,
		PayerID:  payer,
		Splits:   splits,
	}
}

func split(id, amount string) models.Split {
	return models.Split{ParticipantID: id, Amount: dec(amount)}
}
