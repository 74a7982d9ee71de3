package split

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
	"github.com/divvy/backend/internal/domain/valueobject"
)

// manualShareTolerance is the maximum accepted gap between the sum of the
// caller-supplied shares and the bill total.
var manualShareTolerance = decimal.NewFromFloat(0.01)

// manualPolicy passes caller-supplied shares through unchanged after
// verifying they cover the tax-inclusive total.
type manualPolicy struct{}

func (p *manualPolicy) Compute(in Input) (*Result, error) {
	if len(in.ManualShares) == 0 {
		return nil, domainerror.NewBillError(
			domainerror.ErrCodeManualSharesMissing,
			"manual split requires an explicit list of shares",
			domainerror.ErrManualSharesMissing,
		)
	}

	items, subtotal, err := buildItems(in.Items, false)
	if err != nil {
		return nil, err
	}

	totalAmount := valueobject.RoundShare(valueobject.ApplyTax(subtotal, in.TaxPercent))

	suppliedSum := decimal.Zero
	for _, share := range in.ManualShares {
		suppliedSum = suppliedSum.Add(share.Amount)
	}

	if suppliedSum.Sub(totalAmount).Abs().GreaterThan(manualShareTolerance) {
		return nil, domainerror.NewBillError(
			domainerror.ErrCodeManualSharesMismatch,
			fmt.Sprintf("manual shares sum to %s but the bill total is %s",
				suppliedSum.StringFixed(2), totalAmount.StringFixed(2)),
			domainerror.ErrManualSharesMismatch,
		)
	}

	shares := make([]entity.UserShare, 0, len(in.ManualShares))
	for _, share := range in.ManualShares {
		shares = append(shares, entity.UserShare{
			Participant: share.Participant,
			Share:       valueobject.RoundShare(share.Amount),
		})
	}

	return &Result{
		Subtotal:    subtotal,
		TotalAmount: totalAmount,
		Items:       items,
		Shares:      shares,
	}, nil
}
