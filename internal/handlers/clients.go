package handlers

import (
	"context"
	"net/http"

	"github.com/rschio/pawnshop/internal/web"
)

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) ([]ClientResp, error) {
			cs, err := s.clients.QueryAll(ctx)
			if err != nil {
				return nil, err
			}
			return toSlice(cs, toClientResp), nil
		},
	)
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusCreated,
		func(ctx context.Context, req NewClientReq) (ClientResp, error) {
			c, err := s.clients.Create(ctx, req.toCore())
			if err != nil {
				return ClientResp{}, err
			}
			return toClientResp(c), nil
		},
	)
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) (ClientResp, error) {
			id, err := pathID(r)
			if err != nil {
				return ClientResp{}, err
			}
			c, err := s.clients.QueryByID(ctx, id)
			if err != nil {
				return ClientResp{}, err
			}
			return toClientResp(c), nil
		},
	)
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, req UpdateClientReq) (ClientResp, error) {
			id, err := pathID(r)
			if err != nil {
				return ClientResp{}, err
			}
			c, err := s.clients.Update(ctx, id, req.toCore())
			if err != nil {
				return ClientResp{}, err
			}
			return toClientResp(c), nil
		},
	)
}

// deleteClient only removes the client when the caller confirmed it with
// ?confirm=true.
func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusNoContent,
		func(ctx context.Context, _ struct{}) (struct{}, error) {
			id, err := pathID(r)
			if err != nil {
				return struct{}{}, err
			}
			if r.URL.Query().Get("confirm") != "true" {
				return struct{}{}, errConfirmationRequired
			}
			return struct{}{}, s.clients.Delete(ctx, id)
		},
	)
}

func (s *Server) listClientItems(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) ([]ItemResp, error) {
			id, err := pathID(r)
			if err != nil {
				return nil, err
			}
			if _, err := s.clients.QueryByID(ctx, id); err != nil {
				return nil, err
			}
			its, err := s.items.QueryByClientID(ctx, id)
			if err != nil {
				return nil, err
			}
			return toSlice(its, toItemResp), nil
		},
	)
}

func (s *Server) listClientTransactions(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) ([]TransactionResp, error) {
			id, err := pathID(r)
			if err != nil {
				return nil, err
			}
			if _, err := s.clients.QueryByID(ctx, id); err != nil {
				return nil, err
			}
			txs, err := s.transactions.QueryByClientID(ctx, id)
			if err != nil {
				return nil, err
			}
			return toTransactionResps(txs, web.GetTime(ctx)), nil
		},
	)
}
