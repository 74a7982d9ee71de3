// Package split implements the three bill-splitting policies and the
// balance derivation that turns a bill's shares into pairwise debts.
package split

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
	"github.com/divvy/backend/internal/domain/valueobject"
)

// RawItem is one bill line as submitted by the caller. SplitType and
// SplitBetween are only consulted by the by-item policy.
type RawItem struct {
	Name         string
	Quantity     int
	UnitPrice    decimal.Decimal
	SplitType    *entity.ItemSplitType
	SplitBetween []entity.Participant
}

// ManualShare is one caller-supplied (participant, amount) pair for the
// manual policy.
type ManualShare struct {
	Participant entity.Participant
	Amount      decimal.Decimal
}

// Input carries everything a policy needs to compute a split. Roster is the
// owning event's participant list (used by the equal policy); ManualShares
// are only consulted by the manual policy.
type Input struct {
	Items        []RawItem
	TaxPercent   decimal.Decimal
	Roster       []entity.Participant
	ManualShares []ManualShare
}

// Result is the outcome of a split computation, ready to be assembled into
// a bill.
type Result struct {
	Subtotal    decimal.Decimal
	TotalAmount decimal.Decimal
	Items       []entity.BillItem
	Shares      []entity.UserShare
}

// Policy computes per-participant shares for one bill. Implementations are
// pure: they never touch storage and fail fast on invalid input.
type Policy interface {
	Compute(in Input) (*Result, error)
}

// ForType returns the policy implementation for the given split type.
func ForType(t entity.SplitType) (Policy, error) {
	switch t {
	case entity.SplitTypeByItem:
		return &byItemPolicy{}, nil
	case entity.SplitTypeEqually:
		return &equallyPolicy{}, nil
	case entity.SplitTypeManual:
		return &manualPolicy{}, nil
	default:
		return nil, domainerror.NewBillError(
			domainerror.ErrCodeInvalidSplitType,
			fmt.Sprintf("unknown split type %q", t),
			domainerror.ErrInvalidSplitType,
		)
	}
}

// buildItems validates the raw lines and converts them into bill items,
// returning the pre-tax subtotal. When keepSplitMeta is false the item-level
// split fields are dropped, as only the by-item policy records them.
func buildItems(raw []RawItem, keepSplitMeta bool) ([]entity.BillItem, decimal.Decimal, error) {
	items := make([]entity.BillItem, 0, len(raw))
	subtotal := decimal.Zero

	for _, r := range raw {
		if r.Name == "" || r.Quantity < 1 || r.UnitPrice.IsNegative() {
			return nil, decimal.Zero, domainerror.NewBillError(
				domainerror.ErrCodeInvalidBillItem,
				fmt.Sprintf("item %q must have a name, quantity >= 1 and a non-negative unit price", r.Name),
				domainerror.ErrInvalidBillItem,
			)
		}

		item := entity.BillItem{
			ID:         uuid.New(),
			Name:       r.Name,
			Quantity:   r.Quantity,
			UnitPrice:  r.UnitPrice,
			TotalPrice: valueobject.LineTotal(r.Quantity, r.UnitPrice),
		}
		if keepSplitMeta {
			item.SplitType = r.SplitType
			item.SplitBetween = r.SplitBetween
		}

		items = append(items, item)
		subtotal = subtotal.Add(item.TotalPrice)
	}

	return items, subtotal, nil
}

// accumulator aggregates unrounded amounts per participant identity,
// preserving the order in which identities first appear.
type accumulator struct {
	order        []string
	totals       map[string]decimal.Decimal
	participants map[string]entity.Participant
}

func newAccumulator() *accumulator {
	return &accumulator{
		totals:       make(map[string]decimal.Decimal),
		participants: make(map[string]entity.Participant),
	}
}

func (a *accumulator) add(p entity.Participant, amount decimal.Decimal) {
	key := p.IdentityKey()
	if _, ok := a.totals[key]; !ok {
		a.order = append(a.order, key)
		a.participants[key] = p
	}
	a.totals[key] = a.totals[key].Add(amount)
}

// shares publishes the accumulated totals as rounded user shares, applying
// transform (if non-nil) to each raw total first.
func (a *accumulator) shares(transform func(decimal.Decimal) decimal.Decimal) []entity.UserShare {
	out := make([]entity.UserShare, 0, len(a.order))
	for _, key := range a.order {
		total := a.totals[key]
		if transform != nil {
			total = transform(total)
		}
		out = append(out, entity.UserShare{
			Participant: a.participants[key],
			Share:       valueobject.RoundShare(total),
		})
	}
	return out
}
