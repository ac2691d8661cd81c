package handlers

import (
	"context"
	"net/http"
)

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) ([]ItemResp, error) {
			its, err := s.items.QueryAll(ctx)
			if err != nil {
				return nil, err
			}
			return toSlice(its, toItemResp), nil
		},
	)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusCreated,
		func(ctx context.Context, req NewItemReq) (ItemResp, error) {
			it, err := s.items.Create(ctx, req.toCore())
			if err != nil {
				return ItemResp{}, err
			}
			return toItemResp(it), nil
		},
	)
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) (ItemResp, error) {
			id, err := pathID(r)
			if err != nil {
				return ItemResp{}, err
			}
			it, err := s.items.QueryByID(ctx, id)
			if err != nil {
				return ItemResp{}, err
			}
			return toItemResp(it), nil
		},
	)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, req UpdateItemReq) (ItemResp, error) {
			id, err := pathID(r)
			if err != nil {
				return ItemResp{}, err
			}
			it, err := s.items.Update(ctx, id, req.toCore())
			if err != nil {
				return ItemResp{}, err
			}
			return toItemResp(it), nil
		},
	)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusNoContent,
		func(ctx context.Context, _ struct{}) (struct{}, error) {
			id, err := pathID(r)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, s.items.Delete(ctx, id)
		},
	)
}
