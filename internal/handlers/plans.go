package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/plan"
)

// listPlans returns the whole catalog, the plans offered to the business
// and the plan the selector should highlight.
func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, r, s, http.StatusOK,
		func(ctx context.Context, _ struct{}) (PlansResp, error) {
			q := r.URL.Query()

			b, err := plan.ParseBusiness(q.Get("business"))
			if err != nil {
				return PlansResp{}, err
			}

			var current uuid.UUID
			if sel := q.Get("selected"); sel != "" {
				if current, err = uuid.Parse(sel); err != nil {
					return PlansResp{}, fmt.Errorf("%w: selected: %w", errBadRequest, err)
				}
			}

			plans := s.plans.Catalog(ctx)
			resp := PlansResp{
				Business: string(b),
				Plans:    toSlice(plans, toPlanResp),
				Visible:  toSlice(plan.Filter(plans, b), toPlanResp),
			}
			if sel := plan.Select(plans, b, current); sel != uuid.Nil {
				resp.Selected = sel.String()
			}
			return resp, nil
		},
	)
}
