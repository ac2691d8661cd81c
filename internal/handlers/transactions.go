package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rschio/pawnshop/internal/core/transaction"
	"github.com/rschio/pawnshop/internal/web"
)

func toTransactionResps(txs []transaction.Transaction, now time.Time) []TransactionResp {
	return toSlice(txs, func(t transaction.Transaction) TransactionResp {
		return toTransactionResp(t, now)
	})
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) ([]TransactionResp, error) {
			txs, err := s.transactions.QueryAll(ctx)
			if err != nil {
				return nil, err
			}
			return toTransactionResps(txs, web.GetTime(ctx)), nil
		},
	)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusCreated,
		func(ctx context.Context, req NewTransactionReq) (TransactionResp, error) {
			t, err := s.transactions.Create(ctx, req.toCore())
			if err != nil {
				return TransactionResp{}, err
			}
			return toTransactionResp(t, web.GetTime(ctx)), nil
		},
	)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) (TransactionResp, error) {
			id, err := pathID(r)
			if err != nil {
				return TransactionResp{}, err
			}
			t, err := s.transactions.QueryByID(ctx, id)
			if err != nil {
				return TransactionResp{}, err
			}
			return toTransactionResp(t, web.GetTime(ctx)), nil
		},
	)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, req UpdateTransactionReq) (TransactionResp, error) {
			id, err := pathID(r)
			if err != nil {
				return TransactionResp{}, err
			}
			t, err := s.transactions.Update(ctx, id, req.toCore())
			if err != nil {
				return TransactionResp{}, err
			}
			return toTransactionResp(t, web.GetTime(ctx)), nil
		},
	)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusNoContent,
		func(ctx context.Context, _ struct{}) (struct{}, error) {
			id, err := pathID(r)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, s.transactions.Delete(ctx, id)
		},
	)
}

func (s *Server) listTransactionPayments(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) ([]PaymentResp, error) {
			id, err := pathID(r)
			if err != nil {
				return nil, err
			}
			if _, err := s.transactions.QueryByID(ctx, id); err != nil {
				return nil, err
			}
			ps, err := s.payments.QueryByTransactionID(ctx, id)
			if err != nil {
				return nil, err
			}
			return toSlice(ps, toPaymentResp), nil
		},
	)
}
