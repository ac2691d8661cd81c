package paymentdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/client"
	"github.com/rschio/pawnshop/internal/core/client/store/clientdb"
	"github.com/rschio/pawnshop/internal/core/item"
	"github.com/rschio/pawnshop/internal/core/item/store/itemdb"
	"github.com/rschio/pawnshop/internal/core/payment"
	"github.com/rschio/pawnshop/internal/core/transaction"
	"github.com/rschio/pawnshop/internal/core/transaction/store/transactiondb"
	"github.com/rschio/pawnshop/internal/data/dbschema"
	"github.com/rschio/pawnshop/internal/data/dbtest"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
)

func TestPayments(t *testing.T) {
	ctx := context.Background()
	log, database, teardown := dbtest.NewUnit(t, dbtest.WithMigrations())
	t.Cleanup(teardown)

	tables := dbschema.DefaultTables()
	store := NewStore(log, database, tables)

	now := time.Now().UTC().Round(time.Microsecond)
	owner := client.Client{ID: uuid.New(), FirstName: "Koffi", LastName: "Yao", DateCreated: now, DateUpdated: now}
	if err := clientdb.NewStore(log, database, tables).Create(ctx, owner); err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	it := item.Item{ID: uuid.New(), ClientID: owner.ID, Name: "Moto", Status: item.StatusStored, DateCreated: now, DateUpdated: now}
	if err := itemdb.NewStore(log, database, tables).Create(ctx, it); err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	txs := transactiondb.NewStore(log, database, tables)
	tx := transaction.Transaction{
		ID: uuid.New(), ClientID: owner.ID, ItemID: it.ID,
		LoanAmount: 200000, InterestRate: 10, Status: transaction.StatusActive,
		StartDate: now, DueDate: now.AddDate(0, 1, 0), TotalAmountDue: 220000,
		DateCreated: now, DateUpdated: now,
	}
	if err := txs.Create(ctx, tx); err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}

	p := payment.Payment{
		ID:            uuid.New(),
		TransactionID: tx.ID,
		Amount:        20000,
		Type:          payment.TypeInterest,
		Method:        payment.MethodMobileMoney,
		Status:        payment.StatusCompleted,
		PaymentDate:   now,
		DateCreated:   now,
		DateUpdated:   now,
	}
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}

	got, err := store.QueryByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("failed to query payment: %v", err)
	}
	want := p
	want.Loan = &payment.LoanRef{LoanAmount: 200000, ClientFirstName: "Koffi", ClientLastName: "Yao"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("got different payment: %s", diff)
	}

	byTx, err := store.QueryByTransactionID(ctx, tx.ID)
	if err != nil {
		t.Fatalf("failed to query by transaction: %v", err)
	}
	if len(byTx) != 1 || byTx[0].ID != p.ID {
		t.Fatalf("got %d payments for transaction, want the created one", len(byTx))
	}

	p.Status = payment.StatusFailed
	if err := store.Update(ctx, p); err != nil {
		t.Fatalf("failed to update payment: %v", err)
	}
	all, err := store.QueryAll(ctx)
	if err != nil {
		t.Fatalf("failed to query all: %v", err)
	}
	if len(all) != 1 || all[0].Status != payment.StatusFailed {
		t.Fatalf("unexpected payments: %+v", all)
	}

	if err := txs.Delete(ctx, tx.ID); !errors.Is(err, db.ErrDBForeignKey) {
		t.Fatalf("deleting a paid loan got %v, want ErrDBForeignKey", err)
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("failed to delete payment: %v", err)
	}
	if _, err := store.QueryByID(ctx, p.ID); !errors.Is(err, payment.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
