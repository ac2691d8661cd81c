package dashboard

import (
	"time"

	"github.com/rschio/pawnshop/internal/core/client"
	"github.com/rschio/pawnshop/internal/core/item"
	"github.com/rschio/pawnshop/internal/core/payment"
	"github.com/rschio/pawnshop/internal/core/transaction"
)

func compute(now time.Time, clients []client.Client, items []item.Item, txs []transaction.Transaction, pays []payment.Payment) Stats {
	s := Stats{
		ActiveClients: len(clients),
		TotalItems:    len(items),
	}

	for _, it := range items {
		s.ItemsValue += it.EstimatedValue
	}

	for _, tx := range txs {
		if tx.Status != transaction.StatusActive {
			continue
		}
		s.ActiveLoans++
		s.TotalLoaned += tx.LoanAmount
		s.TotalInterest += tx.Interest()
		if tx.Late(now) {
			s.LateLoans++
		}
	}

	for _, p := range pays {
		s.TotalPayments += p.Amount
	}

	return s
}
