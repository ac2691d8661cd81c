// Package dashboard computes the headline figures of the back-office.
package dashboard

import (
	"context"
	"log/slog"

	"github.com/rschio/pawnshop/internal/core/client"
	"github.com/rschio/pawnshop/internal/core/item"
	"github.com/rschio/pawnshop/internal/core/payment"
	"github.com/rschio/pawnshop/internal/core/transaction"
	"github.com/rschio/pawnshop/internal/web"
	"golang.org/x/sync/errgroup"
)

// Stats are the dashboard totals.
type Stats struct {
	ActiveClients int
	TotalItems    int
	ItemsValue    int64
	ActiveLoans   int
	TotalLoaned   int64
	TotalInterest float64
	TotalPayments int64
	LateLoans     int
}

// Sources of the dashboard lists.
type (
	Clients interface {
		QueryAll(ctx context.Context) ([]client.Client, error)
	}
	Items interface {
		QueryAll(ctx context.Context) ([]item.Item, error)
	}
	Transactions interface {
		QueryAll(ctx context.Context) ([]transaction.Transaction, error)
	}
	Payments interface {
		QueryAll(ctx context.Context) ([]payment.Payment, error)
	}
)

// Core computes the dashboard.
type Core struct {
	log          *slog.Logger
	clients      Clients
	items        Items
	transactions Transactions
	payments     Payments
}

// NewCore constructs a dashboard core.
func NewCore(log *slog.Logger, clients Clients, items Items, transactions Transactions, payments Payments) *Core {
	return &Core{
		log:          log,
		clients:      clients,
		items:        items,
		transactions: transactions,
		payments:     payments,
	}
}

// Stats fetches the four lists concurrently and sums them up. A list that
// fails to load is logged and counts as empty.
func (c *Core) Stats(ctx context.Context) Stats {
	var (
		clients []client.Client
		items   []item.Item
		txs     []transaction.Transaction
		pays    []payment.Payment
	)

	var g errgroup.Group
	g.Go(func() error {
		clients = fetch(ctx, c.log, "clients", c.clients.QueryAll)
		return nil
	})
	g.Go(func() error {
		items = fetch(ctx, c.log, "items", c.items.QueryAll)
		return nil
	})
	g.Go(func() error {
		txs = fetch(ctx, c.log, "transactions", c.transactions.QueryAll)
		return nil
	})
	g.Go(func() error {
		pays = fetch(ctx, c.log, "payments", c.payments.QueryAll)
		return nil
	})
	g.Wait()

	return compute(web.GetTime(ctx), clients, items, txs, pays)
}

func fetch[T any](ctx context.Context, log *slog.Logger, name string, fn func(context.Context) ([]T, error)) []T {
	out, err := fn(ctx)
	if err != nil {
		log.ErrorContext(ctx, "dashboard: prefetch failed", "list", name, "err", err)
		return nil
	}
	return out
}
