package split

import (
	"fmt"

	"github.com/shopspring/decimal"

	domainerror "github.com/divvy/backend/internal/domain/error"
	"github.com/divvy/backend/internal/domain/valueobject"
)

// byItemPolicy distributes each line item among its own split_between list.
// Per-identity contributions accumulate unrounded; tax is applied uniformly
// across the accumulated totals and each share is rounded exactly once.
// Rounding drift between the sum of shares and the bill total is accepted
// when an item's price does not divide evenly.
type byItemPolicy struct{}

func (p *byItemPolicy) Compute(in Input) (*Result, error) {
	for _, item := range in.Items {
		if item.SplitType == nil || len(item.SplitBetween) == 0 {
			return nil, domainerror.NewBillError(
				domainerror.ErrCodeItemSplitMissing,
				fmt.Sprintf("item %q must declare a split type and at least one participant", item.Name),
				domainerror.ErrItemSplitMissing,
			)
		}
	}

	items, subtotal, err := buildItems(in.Items, true)
	if err != nil {
		return nil, err
	}

	acc := newAccumulator()
	for _, item := range items {
		perPerson := item.TotalPrice.Div(decimal.NewFromInt(int64(len(item.SplitBetween))))
		for _, participant := range item.SplitBetween {
			acc.add(participant, perPerson)
		}
	}

	shares := acc.shares(func(total decimal.Decimal) decimal.Decimal {
		return valueobject.ApplyTax(total, in.TaxPercent)
	})

	return &Result{
		Subtotal:    subtotal,
		TotalAmount: valueobject.RoundShare(valueobject.ApplyTax(subtotal, in.TaxPercent)),
		Items:       items,
		Shares:      shares,
	}, nil
}
