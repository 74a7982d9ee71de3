package split

import (
	"github.com/shopspring/decimal"

	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
	"github.com/divvy/backend/internal/domain/valueobject"
)

// equallyPolicy divides the tax-inclusive total evenly across the owning
// event's full roster. Item-level split metadata is ignored and not recorded.
type equallyPolicy struct{}

func (p *equallyPolicy) Compute(in Input) (*Result, error) {
	if len(in.Roster) == 0 {
		return nil, domainerror.NewBillError(
			domainerror.ErrCodeEmptyRoster,
			"equal split requires at least one event participant",
			domainerror.ErrEmptyRoster,
		)
	}

	items, subtotal, err := buildItems(in.Items, false)
	if err != nil {
		return nil, err
	}

	totalAmount := valueobject.RoundShare(valueobject.ApplyTax(subtotal, in.TaxPercent))
	perPerson := valueobject.RoundShare(totalAmount.Div(decimal.NewFromInt(int64(len(in.Roster)))))

	shares := make([]entity.UserShare, 0, len(in.Roster))
	for _, participant := range in.Roster {
		shares = append(shares, entity.UserShare{
			Participant: participant,
			Share:       perPerson,
		})
	}

	return &Result{
		Subtotal:    subtotal,
		TotalAmount: totalAmount,
		Items:       items,
		Shares:      shares,
	}, nil
}
