package split

import (
	"github.com/shopspring/decimal"

	"github.com/divvy/backend/internal/domain/entity"
)

// Balance is one pairwise debt derived from a bill: the debtor owes the
// creditor the given amount.
type Balance struct {
	Debtor     entity.Participant
	Creditor   entity.Participant
	AmountOwed decimal.Decimal
}

// ComputeBalances derives the settlement view for a single bill: one entry
// per share whose participant is not the payer. The payer's own share is
// skipped. No netting across bills is performed.
func ComputeBalances(bill *entity.Bill) []Balance {
	balances := make([]Balance, 0, len(bill.Shares))
	for _, share := range bill.Shares {
		if entity.SameIdentity(share.Participant, bill.PaidBy) {
			continue
		}
		balances = append(balances, Balance{
			Debtor:     share.Participant,
			Creditor:   bill.PaidBy,
			AmountOwed: share.Share,
		})
	}
	return balances
}
