package bill

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/divvy/backend/internal/domain/entity"
	domainerror "github.com/divvy/backend/internal/domain/error"
	"github.com/divvy/backend/internal/domain/split"
)

// fakeEventRepo is an in-memory EventRepository for use case tests.
type fakeEventRepo struct {
	events map[uuid.UUID]*entity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*entity.Event)}
}

func (r *fakeEventRepo) Create(_ context.Context, event *entity.Event) error {
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return event, nil
}

func (r *fakeEventRepo) FindByMember(_ context.Context, userID uuid.UUID) ([]*entity.Event, error) {
	var out []*entity.Event
	for _, e := range r.events {
		if e.IsMember(userID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *entity.Event) error {
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.events, id)
	return nil
}

// fakeBillRepo is an in-memory BillRepository for use case tests.
type fakeBillRepo struct {
	bills map[uuid.UUID]*entity.Bill
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{bills: make(map[uuid.UUID]*entity.Bill)}
}

func (r *fakeBillRepo) Create(_ context.Context, bill *entity.Bill) error {
	r.bills[bill.ID] = bill
	return nil
}

func (r *fakeBillRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, ok := r.bills[id]
	if !ok || bill.DeletedAt != nil {
		return nil, errors.New("not found")
	}
	return bill, nil
}

func (r *fakeBillRepo) FindByEvent(_ context.Context, eventID uuid.UUID) ([]*entity.Bill, error) {
	var out []*entity.Bill
	for _, b := range r.bills {
		if b.EventID == eventID && b.DeletedAt == nil {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBillRepo) Update(_ context.Context, bill *entity.Bill) error {
	r.bills[bill.ID] = bill
	return nil
}

func (r *fakeBillRepo) Delete(_ context.Context, id uuid.UUID) error {
	bill, ok := r.bills[id]
	if !ok {
		return errors.New("not found")
	}
	now := bill.CreatedAt
	bill.DeletedAt = &now
	return nil
}

// fakeBalanceCache is an in-memory BalanceCache for use case tests.
type fakeBalanceCache struct {
	entries map[uuid.UUID][]split.Balance
	gets    int
	sets    int
}

func newFakeBalanceCache() *fakeBalanceCache {
	return &fakeBalanceCache{entries: make(map[uuid.UUID][]split.Balance)}
}

func (c *fakeBalanceCache) Get(_ context.Context, billID uuid.UUID) ([]split.Balance, bool, error) {
	c.gets++
	balances, ok := c.entries[billID]
	return balances, ok, nil
}

func (c *fakeBalanceCache) Set(_ context.Context, billID uuid.UUID, balances []split.Balance) error {
	c.sets++
	c.entries[billID] = balances
	return nil
}

func (c *fakeBalanceCache) Invalidate(_ context.Context, billID uuid.UUID) error {
	delete(c.entries, billID)
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

// testEvent returns an event created by a registered user with three guests
// on the roster.
func testEvent(t *testing.T, repo *fakeEventRepo) (*entity.Event, uuid.UUID) {
	t.Helper()
	creatorID := uuid.New()
	creator := entity.NewRegisteredParticipant("Minh", creatorID)
	event := entity.NewEvent("Da Nang trip", "", entity.CurrencyVND, creator, creatorID)
	event.AddParticipant(entity.NewGuestParticipant("Hung"))
	event.AddParticipant(entity.NewGuestParticipant("Lan"))
	if err := repo.Create(context.Background(), event); err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}
	return event, creatorID
}

func TestCreateBill(t *testing.T) {
	ctx := context.Background()

	t.Run("by_item bill computes shares and bumps event total", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		billRepo := newFakeBillRepo()
		event, ownerID := testEvent(t, eventRepo)

		uc := NewCreateBillUseCase(eventRepo, billRepo)
		out, err := uc.Execute(ctx, CreateBillInput{
			OwnerID:   ownerID,
			EventID:   event.ID,
			Title:     "Dinner",
			SplitType: string(entity.SplitTypeByItem),
			Items: []ItemInput{{
				Name:         "Soup",
				Quantity:     1,
				UnitPrice:    dec("300000"),
				SplitType:    strPtr(string(entity.ItemSplitCustom)),
				SplitBetween: []string{"Minh", "Hung", "Lan", "Trang"},
			}},
			TaxPercent: dec("10"),
			PaidBy:     "Minh",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		bill := out.Bill
		if !bill.TotalAmount.Equal(dec("330000")) {
			t.Errorf("expected total 330000, got %s", bill.TotalAmount)
		}
		if len(bill.Shares) != 4 {
			t.Fatalf("expected 4 shares, got %d", len(bill.Shares))
		}
		for _, share := range bill.Shares {
			if !share.Share.Equal(dec("82500")) {
				t.Errorf("expected share 82500, got %s", share.Share)
			}
		}

		// "Minh" resolves to the registered creator, "Trang" becomes a guest.
		if !bill.PaidBy.Registered() {
			t.Error("expected payer resolved to the registered creator")
		}
		if !bill.Shares[3].Participant.IsGuest || bill.Shares[3].Participant.Name != "Trang" {
			t.Error("expected unknown reference to synthesize a guest")
		}

		stored, _ := eventRepo.FindByID(ctx, event.ID)
		if !stored.TotalAmount.Equal(dec("330000")) {
			t.Errorf("expected event total 330000, got %s", stored.TotalAmount)
		}
	})

	t.Run("equal bill splits across the roster", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		billRepo := newFakeBillRepo()
		event, ownerID := testEvent(t, eventRepo)
		event.AddParticipant(entity.NewGuestParticipant("Trang"))

		uc := NewCreateBillUseCase(eventRepo, billRepo)
		out, err := uc.Execute(ctx, CreateBillInput{
			OwnerID:   ownerID,
			EventID:   event.ID,
			Title:     "Groceries",
			SplitType: string(entity.SplitTypeEqually),
			Items: []ItemInput{
				{Name: "Food", Quantity: 1, UnitPrice: dec("60")},
				{Name: "Drinks", Quantity: 4, UnitPrice: dec("10")},
			},
			TaxPercent: dec("8"),
			PaidBy:     "Hung",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !out.Bill.TotalAmount.Equal(dec("108")) {
			t.Errorf("expected total 108.00, got %s", out.Bill.TotalAmount)
		}
		if len(out.Bill.Shares) != 4 {
			t.Fatalf("expected 4 shares, got %d", len(out.Bill.Shares))
		}
		for _, share := range out.Bill.Shares {
			if !share.Share.Equal(dec("27")) {
				t.Errorf("expected share 27.00, got %s", share.Share)
			}
		}
	})

	t.Run("manual bill rejects mismatched shares without persisting", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		billRepo := newFakeBillRepo()
		event, ownerID := testEvent(t, eventRepo)

		uc := NewCreateBillUseCase(eventRepo, billRepo)
		_, err := uc.Execute(ctx, CreateBillInput{
			OwnerID:   ownerID,
			EventID:   event.ID,
			Title:     "Lunch",
			SplitType: string(entity.SplitTypeManual),
			Items:     []ItemInput{{Name: "Lunch", Quantity: 1, UnitPrice: dec("15")}},
			PaidBy:    "Minh",
			ManualShares: []ManualShareInput{
				{Participant: "Hung", Amount: dec("10.00")},
				{Participant: "Lan", Amount: dec("4.00")},
			},
		})
		if err == nil {
			t.Fatal("expected validation error")
		}
		var billErr *domainerror.BillError
		if !errors.As(err, &billErr) || billErr.Code != domainerror.ErrCodeManualSharesMismatch {
			t.Errorf("expected manual shares mismatch, got %v", err)
		}
		if len(billRepo.bills) != 0 {
			t.Error("expected no bill persisted after a failed split")
		}

		stored, _ := eventRepo.FindByID(ctx, event.ID)
		if !stored.TotalAmount.IsZero() {
			t.Error("expected event total untouched after a failed split")
		}
	})

	t.Run("unknown event fails with not found", func(t *testing.T) {
		uc := NewCreateBillUseCase(newFakeEventRepo(), newFakeBillRepo())
		_, err := uc.Execute(ctx, CreateBillInput{
			OwnerID:   uuid.New(),
			EventID:   uuid.New(),
			Title:     "Dinner",
			SplitType: string(entity.SplitTypeEqually),
			Items:     []ItemInput{{Name: "Food", Quantity: 1, UnitPrice: dec("10")}},
			PaidBy:    "Minh",
		})
		var eventErr *domainerror.EventError
		if !errors.As(err, &eventErr) || eventErr.Code != domainerror.ErrCodeEventNotFound {
			t.Errorf("expected event not found, got %v", err)
		}
	})

	t.Run("non-member cannot create a bill", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		event, _ := testEvent(t, eventRepo)

		uc := NewCreateBillUseCase(eventRepo, newFakeBillRepo())
		_, err := uc.Execute(ctx, CreateBillInput{
			OwnerID:   uuid.New(),
			EventID:   event.ID,
			Title:     "Dinner",
			SplitType: string(entity.SplitTypeEqually),
			Items:     []ItemInput{{Name: "Food", Quantity: 1, UnitPrice: dec("10")}},
			PaidBy:    "Minh",
		})
		var eventErr *domainerror.EventError
		if !errors.As(err, &eventErr) || eventErr.Code != domainerror.ErrCodeNotEventMember {
			t.Errorf("expected not a member, got %v", err)
		}
	})

	t.Run("invalid split type is rejected", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		event, ownerID := testEvent(t, eventRepo)

		uc := NewCreateBillUseCase(eventRepo, newFakeBillRepo())
		_, err := uc.Execute(ctx, CreateBillInput{
			OwnerID:   ownerID,
			EventID:   event.ID,
			Title:     "Dinner",
			SplitType: "percentage",
			Items:     []ItemInput{{Name: "Food", Quantity: 1, UnitPrice: dec("10")}},
			PaidBy:    "Minh",
		})
		var billErr *domainerror.BillError
		if !errors.As(err, &billErr) || billErr.Code != domainerror.ErrCodeInvalidSplitType {
			t.Errorf("expected invalid split type, got %v", err)
		}
	})

	t.Run("failed event total write undoes the bill insert", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		billRepo := newFakeBillRepo()
		event, ownerID := testEvent(t, eventRepo)

		uc := NewCreateBillUseCase(&failingUpdateEventRepo{eventRepo}, billRepo)
		_, err := uc.Execute(ctx, CreateBillInput{
			OwnerID:   ownerID,
			EventID:   event.ID,
			Title:     "Dinner",
			SplitType: string(entity.SplitTypeEqually),
			Items:     []ItemInput{{Name: "Food", Quantity: 1, UnitPrice: dec("90")}},
			PaidBy:    "Minh",
		})
		if err == nil {
			t.Fatal("expected an error when the event total cannot be written")
		}

		bills, _ := billRepo.FindByEvent(ctx, event.ID)
		if len(bills) != 0 {
			t.Errorf("expected the bill insert undone, found %d bills", len(bills))
		}
		stored, _ := eventRepo.FindByID(ctx, event.ID)
		if !stored.TotalAmount.IsZero() {
			t.Errorf("expected event total unchanged, got %s", stored.TotalAmount)
		}
	})
}

// failingUpdateEventRepo rejects every Update call. FindByID hands out a
// copy the way a row-hydrating repository would, so in-place mutations by
// the use case never leak into the stored event.
type failingUpdateEventRepo struct {
	*fakeEventRepo
}

func (r *failingUpdateEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	event, err := r.fakeEventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	clone := *event
	return &clone, nil
}

func (r *failingUpdateEventRepo) Update(context.Context, *entity.Event) error {
	return errors.New("connection reset by peer")
}

func TestGetBalances(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*fakeEventRepo, *fakeBillRepo, *fakeBalanceCache, *entity.Bill, uuid.UUID) {
		t.Helper()
		eventRepo := newFakeEventRepo()
		billRepo := newFakeBillRepo()
		cache := newFakeBalanceCache()
		event, ownerID := testEvent(t, eventRepo)

		uc := NewCreateBillUseCase(eventRepo, billRepo)
		out, err := uc.Execute(ctx, CreateBillInput{
			OwnerID:   ownerID,
			EventID:   event.ID,
			Title:     "Dinner",
			SplitType: string(entity.SplitTypeEqually),
			Items:     []ItemInput{{Name: "Food", Quantity: 1, UnitPrice: dec("90")}},
			PaidBy:    "Minh",
		})
		if err != nil {
			t.Fatalf("failed to seed bill: %v", err)
		}
		return eventRepo, billRepo, cache, out.Bill, ownerID
	}

	t.Run("payer is excluded and results are cached", func(t *testing.T) {
		eventRepo, billRepo, cache, bill, callerID := seed(t)

		uc := NewGetBalancesUseCase(billRepo, eventRepo, cache)
		out, err := uc.Execute(ctx, GetBalancesInput{BillID: bill.ID, CallerID: callerID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(out.Balances) != 2 {
			t.Fatalf("expected 2 balances, got %d", len(out.Balances))
		}
		for _, b := range out.Balances {
			if b.Creditor.Name != "Minh" {
				t.Errorf("expected creditor Minh, got %s", b.Creditor.Name)
			}
			if !b.AmountOwed.Equal(dec("30")) {
				t.Errorf("expected amount 30.00, got %s", b.AmountOwed)
			}
		}
		if cache.sets != 1 {
			t.Errorf("expected one cache write, got %d", cache.sets)
		}

		// Second read serves from cache and stays identical.
		again, err := uc.Execute(ctx, GetBalancesInput{BillID: bill.ID, CallerID: callerID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cache.sets != 1 {
			t.Errorf("expected cached read to skip recompute, got %d writes", cache.sets)
		}
		if len(again.Balances) != len(out.Balances) {
			t.Error("expected identical balances on repeated reads")
		}
	})

	t.Run("non-member cannot view balances", func(t *testing.T) {
		eventRepo, billRepo, cache, bill, _ := seed(t)

		uc := NewGetBalancesUseCase(billRepo, eventRepo, cache)
		_, err := uc.Execute(ctx, GetBalancesInput{BillID: bill.ID, CallerID: uuid.New()})
		var eventErr *domainerror.EventError
		if !errors.As(err, &eventErr) || eventErr.Code != domainerror.ErrCodeNotEventMember {
			t.Errorf("expected not a member, got %v", err)
		}
	})

	t.Run("missing bill fails with not found", func(t *testing.T) {
		eventRepo, billRepo, cache, _, callerID := seed(t)

		uc := NewGetBalancesUseCase(billRepo, eventRepo, cache)
		_, err := uc.Execute(ctx, GetBalancesInput{BillID: uuid.New(), CallerID: callerID})
		var billErr *domainerror.BillError
		if !errors.As(err, &billErr) || billErr.Code != domainerror.ErrCodeBillNotFound {
			t.Errorf("expected bill not found, got %v", err)
		}
	})
}

func TestUpdateAndDeleteBill(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*fakeBillRepo, *fakeBalanceCache, *entity.Bill, uuid.UUID) {
		t.Helper()
		eventRepo := newFakeEventRepo()
		billRepo := newFakeBillRepo()
		event, ownerID := testEvent(t, eventRepo)

		uc := NewCreateBillUseCase(eventRepo, billRepo)
		out, err := uc.Execute(ctx, CreateBillInput{
			OwnerID:   ownerID,
			EventID:   event.ID,
			Title:     "Dinner",
			SplitType: string(entity.SplitTypeEqually),
			Items:     []ItemInput{{Name: "Food", Quantity: 1, UnitPrice: dec("90")}},
			PaidBy:    "Minh",
		})
		if err != nil {
			t.Fatalf("failed to seed bill: %v", err)
		}
		return billRepo, newFakeBalanceCache(), out.Bill, ownerID
	}

	t.Run("owner updates title and note only", func(t *testing.T) {
		billRepo, _, bill, ownerID := seed(t)

		uc := NewUpdateBillUseCase(billRepo)
		out, err := uc.Execute(ctx, UpdateBillInput{
			BillID:   bill.ID,
			CallerID: ownerID,
			Title:    strPtr("Team dinner"),
			Note:     strPtr("Friday"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Bill.Title != "Team dinner" || out.Bill.Note != "Friday" {
			t.Errorf("expected metadata updated, got %q/%q", out.Bill.Title, out.Bill.Note)
		}
		if !out.Bill.TotalAmount.Equal(dec("90")) {
			t.Error("expected financial fields untouched")
		}
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		billRepo, _, bill, _ := seed(t)

		uc := NewUpdateBillUseCase(billRepo)
		_, err := uc.Execute(ctx, UpdateBillInput{
			BillID:   bill.ID,
			CallerID: uuid.New(),
			Title:    strPtr("Hijacked"),
		})
		var billErr *domainerror.BillError
		if !errors.As(err, &billErr) || billErr.Code != domainerror.ErrCodeNotBillOwner {
			t.Errorf("expected not bill owner, got %v", err)
		}
	})

	t.Run("owner deletes and the bill disappears from reads", func(t *testing.T) {
		billRepo, cache, bill, ownerID := seed(t)
		cache.entries[bill.ID] = []split.Balance{}

		uc := NewDeleteBillUseCase(billRepo, cache)
		if err := uc.Execute(ctx, DeleteBillInput{BillID: bill.ID, CallerID: ownerID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := billRepo.FindByID(ctx, bill.ID); err == nil {
			t.Error("expected deleted bill to be gone from reads")
		}
		if _, ok := cache.entries[bill.ID]; ok {
			t.Error("expected cached balances invalidated")
		}
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		billRepo, cache, bill, _ := seed(t)

		uc := NewDeleteBillUseCase(billRepo, cache)
		err := uc.Execute(ctx, DeleteBillInput{BillID: bill.ID, CallerID: uuid.New()})
		var billErr *domainerror.BillError
		if !errors.As(err, &billErr) || billErr.Code != domainerror.ErrCodeNotBillOwner {
			t.Errorf("expected not bill owner, got %v", err)
		}
	})
}
