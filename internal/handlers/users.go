package handlers

import (
	"context"
	"net/http"
)

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusCreated,
		func(ctx context.Context, req NewUserReq) (UserResp, error) {
			u, err := s.users.Create(ctx, req.toCore())
			if err != nil {
				return UserResp{}, err
			}
			return toUserResp(u), nil
		},
	)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) (UserResp, error) {
			id, err := pathID(r)
			if err != nil {
				return UserResp{}, err
			}
			u, err := s.users.QueryByID(ctx, id)
			if err != nil {
				return UserResp{}, err
			}
			return toUserResp(u), nil
		},
	)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) (ProfileResp, error) {
			id, err := pathID(r)
			if err != nil {
				return ProfileResp{}, err
			}
			p, err := s.profiles.QueryByUserID(ctx, id)
			if err != nil {
				return ProfileResp{}, err
			}
			return toProfileResp(p), nil
		},
	)
}

func (s *Server) putProfile(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, req ProfileReq) (ProfileResp, error) {
			id, err := pathID(r)
			if err != nil {
				return ProfileResp{}, err
			}
			p, err := s.profiles.Upsert(ctx, id, req.toCore())
			if err != nil {
				return ProfileResp{}, err
			}
			return toProfileResp(p), nil
		},
	)
}

func (s *Server) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) ([]SubscriptionResp, error) {
			id, err := pathID(r)
			if err != nil {
				return nil, err
			}
			if _, err := s.users.QueryByID(ctx, id); err != nil {
				return nil, err
			}
			subs, err := s.subscriptions.QueryByUser(ctx, id)
			if err != nil {
				return nil, err
			}
			return toSlice(subs, toSubscriptionResp), nil
		},
	)
}
