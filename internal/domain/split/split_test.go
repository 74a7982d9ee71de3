package split

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
)

func itemSplit(t entity.ItemSplitType) *entity.ItemSplitType {
	return &t
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func billErrorCode(t *testing.T, err error) domainerror.BillErrorCode {
	t.Helper()
	var billErr *domainerror.BillError
	if !errors.As(err, &billErr) {
		t.Fatalf("expected *BillError, got %T: %v", err, err)
	}
	return billErr.Code
}

func TestForType(t *testing.T) {
	for _, splitType := range []entity.SplitType{
		entity.SplitTypeByItem,
		entity.SplitTypeEqually,
		entity.SplitTypeManual,
	} {
		if _, err := ForType(splitType); err != nil {
			t.Errorf("expected policy for %q, got error: %v", splitType, err)
		}
	}

	_, err := ForType(entity.SplitType("percentage"))
	if err == nil {
		t.Fatal("expected error for unknown split type")
	}
	if code := billErrorCode(t, err); code != domainerror.ErrCodeInvalidSplitType {
		t.Errorf("expected code %s, got %s", domainerror.ErrCodeInvalidSplitType, code)
	}
}

func TestByItemPolicy(t *testing.T) {
	t.Run("single item split four ways with tax", func(t *testing.T) {
		guests := []entity.Participant{
			entity.NewGuestParticipant("An"),
			entity.NewGuestParticipant("Binh"),
			entity.NewGuestParticipant("Chi"),
			entity.NewGuestParticipant("Dung"),
		}

		policy, _ := ForType(entity.SplitTypeByItem)
		result, err := policy.Compute(Input{
			Items: []RawItem{{
				Name:         "Soup",
				Quantity:     1,
				UnitPrice:    dec("300000"),
				SplitType:    itemSplit(entity.ItemSplitCustom),
				SplitBetween: guests,
			}},
			TaxPercent: dec("10"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.Subtotal.Equal(dec("300000")) {
			t.Errorf("expected subtotal 300000, got %s", result.Subtotal)
		}
		if !result.TotalAmount.Equal(dec("330000")) {
			t.Errorf("expected total 330000, got %s", result.TotalAmount)
		}
		if len(result.Shares) != 4 {
			t.Fatalf("expected 4 shares, got %d", len(result.Shares))
		}
		for _, share := range result.Shares {
			if !share.Share.Equal(dec("82500")) {
				t.Errorf("expected share 82500 for %s, got %s", share.Participant.Name, share.Share)
			}
		}
	})

	t.Run("shares accumulate across items per identity", func(t *testing.T) {
		alice := entity.NewGuestParticipant("Alice")
		bob := entity.NewGuestParticipant("Bob")

		policy, _ := ForType(entity.SplitTypeByItem)
		result, err := policy.Compute(Input{
			Items: []RawItem{
				{
					Name:         "Starter",
					Quantity:     1,
					UnitPrice:    dec("20"),
					SplitType:    itemSplit(entity.ItemSplitEveryone),
					SplitBetween: []entity.Participant{alice, bob},
				},
				{
					Name:         "Dessert",
					Quantity:     2,
					UnitPrice:    dec("5"),
					SplitType:    itemSplit(entity.ItemSplitCustom),
					SplitBetween: []entity.Participant{alice},
				},
			},
			TaxPercent: decimal.Zero,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Shares) != 2 {
			t.Fatalf("expected 2 shares, got %d", len(result.Shares))
		}
		// Alice: 20/2 + 10 = 20; Bob: 20/2 = 10. First appearance order holds.
		if result.Shares[0].Participant.Name != "Alice" || !result.Shares[0].Share.Equal(dec("20")) {
			t.Errorf("expected Alice to owe 20, got %s=%s",
				result.Shares[0].Participant.Name, result.Shares[0].Share)
		}
		if result.Shares[1].Participant.Name != "Bob" || !result.Shares[1].Share.Equal(dec("10")) {
			t.Errorf("expected Bob to owe 10, got %s=%s",
				result.Shares[1].Participant.Name, result.Shares[1].Share)
		}
	})

	t.Run("tax applies once to accumulated totals", func(t *testing.T) {
		alice := entity.NewGuestParticipant("Alice")

		policy, _ := ForType(entity.SplitTypeByItem)
		result, err := policy.Compute(Input{
			Items: []RawItem{
				{
					Name:         "One",
					Quantity:     1,
					UnitPrice:    dec("10"),
					SplitType:    itemSplit(entity.ItemSplitCustom),
					SplitBetween: []entity.Participant{alice},
				},
				{
					Name:         "Two",
					Quantity:     1,
					UnitPrice:    dec("20"),
					SplitType:    itemSplit(entity.ItemSplitCustom),
					SplitBetween: []entity.Participant{alice},
				},
			},
			TaxPercent: dec("10"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.Shares[0].Share.Equal(dec("33")) {
			t.Errorf("expected share 33, got %s", result.Shares[0].Share)
		}
	})

	t.Run("uneven division rounds per share without redistribution", func(t *testing.T) {
		participants := []entity.Participant{
			entity.NewGuestParticipant("Alice"),
			entity.NewGuestParticipant("Bob"),
			entity.NewGuestParticipant("Carol"),
		}

		policy, _ := ForType(entity.SplitTypeByItem)
		result, err := policy.Compute(Input{
			Items: []RawItem{{
				Name:         "Pizza",
				Quantity:     1,
				UnitPrice:    dec("10"),
				SplitType:    itemSplit(entity.ItemSplitEveryone),
				SplitBetween: participants,
			}},
			TaxPercent: decimal.Zero,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// 10/3 = 3.333... rounds to 3.33; the missing cent stays unassigned.
		for _, share := range result.Shares {
			if !share.Share.Equal(dec("3.33")) {
				t.Errorf("expected share 3.33, got %s", share.Share)
			}
		}
	})

	t.Run("rejects item without split metadata", func(t *testing.T) {
		policy, _ := ForType(entity.SplitTypeByItem)
		_, err := policy.Compute(Input{
			Items: []RawItem{{
				Name:      "Orphan",
				Quantity:  1,
				UnitPrice: dec("5"),
			}},
			TaxPercent: decimal.Zero,
		})
		if err == nil {
			t.Fatal("expected error for item without split metadata")
		}
		if code := billErrorCode(t, err); code != domainerror.ErrCodeItemSplitMissing {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeItemSplitMissing, code)
		}
	})

	t.Run("rejects item with empty split_between", func(t *testing.T) {
		policy, _ := ForType(entity.SplitTypeByItem)
		_, err := policy.Compute(Input{
			Items: []RawItem{{
				Name:         "Orphan",
				Quantity:     1,
				UnitPrice:    dec("5"),
				SplitType:    itemSplit(entity.ItemSplitCustom),
				SplitBetween: []entity.Participant{},
			}},
			TaxPercent: decimal.Zero,
		})
		if err == nil {
			t.Fatal("expected error for empty split_between")
		}
		if code := billErrorCode(t, err); code != domainerror.ErrCodeItemSplitMissing {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeItemSplitMissing, code)
		}
	})
}

func TestEquallyPolicy(t *testing.T) {
	t.Run("splits total across full roster", func(t *testing.T) {
		roster := []entity.Participant{
			entity.NewGuestParticipant("An"),
			entity.NewGuestParticipant("Binh"),
			entity.NewGuestParticipant("Chi"),
			entity.NewGuestParticipant("Dung"),
		}

		policy, _ := ForType(entity.SplitTypeEqually)
		result, err := policy.Compute(Input{
			Items: []RawItem{
				{Name: "Main", Quantity: 1, UnitPrice: dec("60")},
				{Name: "Drinks", Quantity: 4, UnitPrice: dec("10")},
			},
			TaxPercent: dec("8"),
			Roster:     roster,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.Subtotal.Equal(dec("100")) {
			t.Errorf("expected subtotal 100, got %s", result.Subtotal)
		}
		if !result.TotalAmount.Equal(dec("108")) {
			t.Errorf("expected total 108.00, got %s", result.TotalAmount)
		}
		if len(result.Shares) != 4 {
			t.Fatalf("expected 4 shares, got %d", len(result.Shares))
		}
		for _, share := range result.Shares {
			if !share.Share.Equal(dec("27")) {
				t.Errorf("expected share 27.00 for %s, got %s", share.Participant.Name, share.Share)
			}
		}
	})

	t.Run("records items without split metadata", func(t *testing.T) {
		custom := itemSplit(entity.ItemSplitCustom)
		policy, _ := ForType(entity.SplitTypeEqually)
		result, err := policy.Compute(Input{
			Items: []RawItem{{
				Name:         "Main",
				Quantity:     1,
				UnitPrice:    dec("30"),
				SplitType:    custom,
				SplitBetween: []entity.Participant{entity.NewGuestParticipant("Alice")},
			}},
			TaxPercent: decimal.Zero,
			Roster:     []entity.Participant{entity.NewGuestParticipant("Alice")},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Items[0].SplitType != nil || result.Items[0].SplitBetween != nil {
			t.Error("expected item split metadata to be dropped for equal split")
		}
	})

	t.Run("rejects empty roster", func(t *testing.T) {
		policy, _ := ForType(entity.SplitTypeEqually)
		_, err := policy.Compute(Input{
			Items:      []RawItem{{Name: "Main", Quantity: 1, UnitPrice: dec("30")}},
			TaxPercent: decimal.Zero,
		})
		if err == nil {
			t.Fatal("expected error for empty roster")
		}
		if code := billErrorCode(t, err); code != domainerror.ErrCodeEmptyRoster {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeEmptyRoster, code)
		}
	})
}

func TestManualPolicy(t *testing.T) {
	alice := entity.NewGuestParticipant("Alice")
	bob := entity.NewGuestParticipant("Bob")

	t.Run("accepts shares matching the total", func(t *testing.T) {
		policy, _ := ForType(entity.SplitTypeManual)
		result, err := policy.Compute(Input{
			Items:      []RawItem{{Name: "Lunch", Quantity: 1, UnitPrice: dec("15")}},
			TaxPercent: decimal.Zero,
			ManualShares: []ManualShare{
				{Participant: alice, Amount: dec("10.00")},
				{Participant: bob, Amount: dec("5.00")},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.TotalAmount.Equal(dec("15")) {
			t.Errorf("expected total 15.00, got %s", result.TotalAmount)
		}
		if !result.Shares[0].Share.Equal(dec("10")) || !result.Shares[1].Share.Equal(dec("5")) {
			t.Errorf("expected shares passed through unchanged, got %s and %s",
				result.Shares[0].Share, result.Shares[1].Share)
		}
	})

	t.Run("rejects shares that do not cover the total", func(t *testing.T) {
		policy, _ := ForType(entity.SplitTypeManual)
		_, err := policy.Compute(Input{
			Items:      []RawItem{{Name: "Lunch", Quantity: 1, UnitPrice: dec("15")}},
			TaxPercent: decimal.Zero,
			ManualShares: []ManualShare{
				{Participant: alice, Amount: dec("10.00")},
				{Participant: bob, Amount: dec("4.00")},
			},
		})
		if err == nil {
			t.Fatal("expected error for mismatched manual shares")
		}
		if code := billErrorCode(t, err); code != domainerror.ErrCodeManualSharesMismatch {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeManualSharesMismatch, code)
		}

		// Both sums show up in the message so the caller can see the gap.
		msg := err.Error()
		if !strings.Contains(msg, "14.00") || !strings.Contains(msg, "15.00") {
			t.Errorf("expected message to report both sums, got %q", msg)
		}
	})

	t.Run("accepts a one-cent gap", func(t *testing.T) {
		policy, _ := ForType(entity.SplitTypeManual)
		_, err := policy.Compute(Input{
			Items:      []RawItem{{Name: "Lunch", Quantity: 1, UnitPrice: dec("15")}},
			TaxPercent: decimal.Zero,
			ManualShares: []ManualShare{
				{Participant: alice, Amount: dec("10.00")},
				{Participant: bob, Amount: dec("4.99")},
			},
		})
		if err != nil {
			t.Fatalf("expected one-cent gap to be tolerated, got: %v", err)
		}
	})

	t.Run("rejects missing shares", func(t *testing.T) {
		policy, _ := ForType(entity.SplitTypeManual)
		_, err := policy.Compute(Input{
			Items:      []RawItem{{Name: "Lunch", Quantity: 1, UnitPrice: dec("15")}},
			TaxPercent: decimal.Zero,
		})
		if err == nil {
			t.Fatal("expected error for missing manual shares")
		}
		if code := billErrorCode(t, err); code != domainerror.ErrCodeManualSharesMissing {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeManualSharesMissing, code)
		}
	})
}

func TestBuildItemsValidation(t *testing.T) {
	tests := []struct {
		name string
		item RawItem
	}{
		{"empty name", RawItem{Name: "", Quantity: 1, UnitPrice: dec("5")}},
		{"zero quantity", RawItem{Name: "Water", Quantity: 0, UnitPrice: dec("5")}},
		{"negative price", RawItem{Name: "Water", Quantity: 1, UnitPrice: dec("-5")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := buildItems([]RawItem{tt.item}, false)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if code := billErrorCode(t, err); code != domainerror.ErrCodeInvalidBillItem {
				t.Errorf("expected code %s, got %s", domainerror.ErrCodeInvalidBillItem, code)
			}
		})
	}
}

func TestComputeBalances(t *testing.T) {
	minh := entity.NewGuestParticipant("Minh")
	hung := entity.NewGuestParticipant("Hung")
	lan := entity.NewGuestParticipant("Lan")

	bill := &entity.Bill{
		PaidBy: minh,
		Shares: []entity.UserShare{
			{Participant: minh, Share: dec("214500")},
			{Participant: hung, Share: dec("214500")},
			{Participant: lan, Share: dec("82500")},
		},
	}

	t.Run("payer share emits no record", func(t *testing.T) {
		balances := ComputeBalances(bill)
		if len(balances) != 2 {
			t.Fatalf("expected 2 balances, got %d", len(balances))
		}

		if balances[0].Debtor.Name != "Hung" || !balances[0].AmountOwed.Equal(dec("214500")) {
			t.Errorf("expected Hung to owe 214500, got %s=%s",
				balances[0].Debtor.Name, balances[0].AmountOwed)
		}
		if balances[1].Debtor.Name != "Lan" || !balances[1].AmountOwed.Equal(dec("82500")) {
			t.Errorf("expected Lan to owe 82500, got %s=%s",
				balances[1].Debtor.Name, balances[1].AmountOwed)
		}
		for _, b := range balances {
			if b.Creditor.Name != "Minh" {
				t.Errorf("expected creditor Minh, got %s", b.Creditor.Name)
			}
		}
	})

	t.Run("recomputation is deterministic", func(t *testing.T) {
		first := ComputeBalances(bill)
		second := ComputeBalances(bill)
		if len(first) != len(second) {
			t.Fatalf("expected identical results, got %d and %d entries", len(first), len(second))
		}
		for i := range first {
			if first[i].Debtor.Name != second[i].Debtor.Name ||
				!first[i].AmountOwed.Equal(second[i].AmountOwed) {
				t.Errorf("entry %d differs between runs", i)
			}
		}
	})

	t.Run("registered payer does not match guest with same name", func(t *testing.T) {
		user := entity.NewRegisteredParticipant("Minh", uuid.New())
		guestBill := &entity.Bill{
			PaidBy: user,
			Shares: []entity.UserShare{
				{Participant: minh, Share: dec("10")},
				{Participant: user, Share: dec("10")},
			},
		}

		balances := ComputeBalances(guestBill)
		if len(balances) != 1 {
			t.Fatalf("expected 1 balance, got %d", len(balances))
		}
		if !balances[0].Debtor.IsGuest {
			t.Error("expected the guest share to remain a debt")
		}
	})
}
