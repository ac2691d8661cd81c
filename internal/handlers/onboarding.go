package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/onboarding"
)

// machineHandler serves the plain state machine moves, which never fail.
func (s *Server) machineHandler(w http.ResponseWriter, r *http.Request, move func(ctx context.Context, id uuid.UUID) onboarding.State) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) (OnboardingResp, error) {
			id, err := pathID(r)
			if err != nil {
				return OnboardingResp{}, err
			}
			return toOnboardingResp(move(ctx, id)), nil
		},
	)
}

func (s *Server) getOnboarding(w http.ResponseWriter, r *http.Request) {
	s.machineHandler(w, r, s.onboarding.Machine().Load)
}

func (s *Server) resetOnboarding(w http.ResponseWriter, r *http.Request) {
	s.machineHandler(w, r, s.onboarding.Machine().Reset)
}

func (s *Server) startOnboarding(w http.ResponseWriter, r *http.Request) {
	s.machineHandler(w, r, s.onboarding.Machine().Start)
}

func (s *Server) skipOnboarding(w http.ResponseWriter, r *http.Request) {
	s.machineHandler(w, r, s.onboarding.Machine().Skip)
}

func (s *Server) advanceOnboarding(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, req AdvanceReq) (OnboardingResp, error) {
			id, err := pathID(r)
			if err != nil {
				return OnboardingResp{}, err
			}
			step, err := onboarding.ParseStep(req.Step)
			if err != nil {
				return OnboardingResp{}, err
			}
			return toOnboardingResp(s.onboarding.Machine().Advance(ctx, id, step)), nil
		},
	)
}

func (s *Server) onboardingPlan(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, req ChoosePlanReq) (OnboardingResp, error) {
			id, err := pathID(r)
			if err != nil {
				return OnboardingResp{}, err
			}
			st, sub, err := s.onboarding.ChoosePlan(ctx, id, req.PlanID)
			if err != nil {
				return OnboardingResp{}, err
			}
			resp := toOnboardingResp(st)
			sr := toSubscriptionResp(sub)
			resp.Subscription = &sr
			return resp, nil
		},
	)
}

func (s *Server) onboardingProfile(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, req ProfileReq) (OnboardingResp, error) {
			id, err := pathID(r)
			if err != nil {
				return OnboardingResp{}, err
			}
			st, p, err := s.onboarding.CreateProfile(ctx, id, req.toCore())
			if err != nil {
				return OnboardingResp{}, err
			}
			resp := toOnboardingResp(st)
			pr := toProfileResp(p)
			resp.Profile = &pr
			return resp, nil
		},
	)
}

func (s *Server) onboardingSendCode(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusAccepted,
		func(ctx context.Context, req SendCodeReq) (OnboardingResp, error) {
			id, err := pathID(r)
			if err != nil {
				return OnboardingResp{}, err
			}
			st, err := s.onboarding.SendCode(ctx, id, req.Phone)
			if err != nil {
				return OnboardingResp{}, err
			}
			return toOnboardingResp(st), nil
		},
	)
}

func (s *Server) onboardingVerifyCode(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, req VerifyCodeReq) (OnboardingResp, error) {
			id, err := pathID(r)
			if err != nil {
				return OnboardingResp{}, err
			}
			st, err := s.onboarding.VerifyCode(ctx, id, req.Code)
			if err != nil {
				return OnboardingResp{}, err
			}
			return toOnboardingResp(st), nil
		},
	)
}
