package transaction

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/web"
)

type memStore struct {
	txs map[uuid.UUID]Transaction
}

func (s *memStore) Create(_ context.Context, t Transaction) error {
	s.txs[t.ID] = t
	return nil
}

func (s *memStore) Update(_ context.Context, t Transaction) error {
	if _, ok := s.txs[t.ID]; !ok {
		return ErrNotFound
	}
	s.txs[t.ID] = t
	return nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.txs[id]; !ok {
		return ErrNotFound
	}
	delete(s.txs, id)
	return nil
}

func (s *memStore) QueryAll(context.Context) ([]Transaction, error) {
	var out []Transaction
	for _, t := range s.txs {
		out = append(out, t)
	}
	return out, nil
}

func (s *memStore) QueryByID(_ context.Context, id uuid.UUID) (Transaction, error) {
	t, ok := s.txs[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return t, nil
}

func (s *memStore) QueryByClientID(_ context.Context, clientID uuid.UUID) ([]Transaction, error) {
	var out []Transaction
	for _, t := range s.txs {
		if t.ClientID == clientID {
			out = append(out, t)
		}
	}
	return out, nil
}

func newCore() *Core {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCore(log, &memStore{txs: make(map[uuid.UUID]Transaction)})
}

func atTime(now time.Time) context.Context {
	return web.SetValues(context.Background(), &web.Values{Now: now})
}

func TestCreateDerivesDueDateAndTotal(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	core := newCore()

	tx, err := core.Create(atTime(now), NewTransaction{
		ClientID:         uuid.New(),
		ItemID:           uuid.New(),
		LoanAmount:       100000,
		InterestRate:     10,
		LoanDurationDays: 30,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !tx.StartDate.Equal(now) {
		t.Errorf("got start %v, want %v", tx.StartDate, now)
	}
	if want := now.AddDate(0, 0, 30); !tx.DueDate.Equal(want) {
		t.Errorf("got due %v, want %v", tx.DueDate, want)
	}
	if tx.TotalAmountDue != 110000 {
		t.Errorf("got total due %d, want 110000", tx.TotalAmountDue)
	}
	if tx.Status != StatusActive {
		t.Errorf("got status %q, want %q", tx.Status, StatusActive)
	}
	if tx.Interest() != 10000 {
		t.Errorf("got interest %v, want 10000", tx.Interest())
	}
}

func TestCreateDerivesDuration(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	core := newCore()

	tx, err := core.Create(context.Background(), NewTransaction{
		ClientID:       uuid.New(),
		ItemID:         uuid.New(),
		LoanAmount:     5000,
		StartDate:      start,
		DueDate:        start.AddDate(0, 0, 14),
		TotalAmountDue: 6000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tx.LoanDurationDays != 14 {
		t.Errorf("got duration %d, want 14", tx.LoanDurationDays)
	}
	if tx.TotalAmountDue != 6000 {
		t.Errorf("explicit total due overwritten: %d", tx.TotalAmountDue)
	}
}

func TestCreateValidation(t *testing.T) {
	core := newCore()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	clientID, itemID := uuid.New(), uuid.New()

	tests := []struct {
		name string
		nt   NewTransaction
	}{
		{"no client", NewTransaction{ItemID: itemID, LoanAmount: 1, LoanDurationDays: 1}},
		{"no item", NewTransaction{ClientID: clientID, LoanAmount: 1, LoanDurationDays: 1}},
		{"zero loan", NewTransaction{ClientID: clientID, ItemID: itemID, LoanDurationDays: 1}},
		{"negative rate", NewTransaction{ClientID: clientID, ItemID: itemID, LoanAmount: 1, InterestRate: -1, LoanDurationDays: 1}},
		{"rate above 100", NewTransaction{ClientID: clientID, ItemID: itemID, LoanAmount: 1, InterestRate: 101, LoanDurationDays: 1}},
		{"no due date", NewTransaction{ClientID: clientID, ItemID: itemID, LoanAmount: 1}},
		{"due before start", NewTransaction{ClientID: clientID, ItemID: itemID, LoanAmount: 1, StartDate: start, DueDate: start.AddDate(0, 0, -1)}},
		{"unknown status", NewTransaction{ClientID: clientID, ItemID: itemID, LoanAmount: 1, LoanDurationDays: 1, Status: "overdue"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := core.Create(context.Background(), tt.nt); !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("got %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestUpdateRecomputesTotal(t *testing.T) {
	ctx := context.Background()
	core := newCore()

	tx, err := core.Create(ctx, NewTransaction{
		ClientID:         uuid.New(),
		ItemID:           uuid.New(),
		LoanAmount:       100000,
		InterestRate:     5,
		LoanDurationDays: 30,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rate := 20.0
	got, err := core.Update(ctx, tx.ID, UpdateTransaction{InterestRate: &rate})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.TotalAmountDue != 120000 {
		t.Errorf("got total due %d, want 120000", got.TotalAmountDue)
	}

	completed := StatusCompleted
	got, err = core.Update(ctx, tx.ID, UpdateTransaction{Status: &completed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != StatusCompleted || got.TotalAmountDue != 120000 {
		t.Errorf("unexpected loan after status update: %+v", got)
	}

	if _, err := core.Update(ctx, uuid.New(), UpdateTransaction{Status: &completed}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestLate(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		tx   Transaction
		want bool
	}{
		{"active past due", Transaction{Status: StatusActive, DueDate: now.Add(-time.Hour)}, true},
		{"active not due", Transaction{Status: StatusActive, DueDate: now.Add(time.Hour)}, false},
		{"completed past due", Transaction{Status: StatusCompleted, DueDate: now.Add(-time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tx.Late(now); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
