package handlers

import (
	"context"
	"net/http"
)

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) ([]PaymentResp, error) {
			ps, err := s.payments.QueryAll(ctx)
			if err != nil {
				return nil, err
			}
			return toSlice(ps, toPaymentResp), nil
		},
	)
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusCreated,
		func(ctx context.Context, req NewPaymentReq) (PaymentResp, error) {
			p, err := s.payments.Create(ctx, req.toCore())
			if err != nil {
				return PaymentResp{}, err
			}
			return toPaymentResp(p), nil
		},
	)
}

func (s *Server) getPayment(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) (PaymentResp, error) {
			id, err := pathID(r)
			if err != nil {
				return PaymentResp{}, err
			}
			p, err := s.payments.QueryByID(ctx, id)
			if err != nil {
				return PaymentResp{}, err
			}
			return toPaymentResp(p), nil
		},
	)
}

func (s *Server) updatePayment(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, req UpdatePaymentReq) (PaymentResp, error) {
			id, err := pathID(r)
			if err != nil {
				return PaymentResp{}, err
			}
			p, err := s.payments.Update(ctx, id, req.toCore())
			if err != nil {
				return PaymentResp{}, err
			}
			return toPaymentResp(p), nil
		},
	)
}

func (s *Server) deletePayment(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusNoContent,
		func(ctx context.Context, _ struct{}) (struct{}, error) {
			id, err := pathID(r)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, s.payments.Delete(ctx, id)
		},
	)
}
