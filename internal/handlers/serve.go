package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/client"
	"github.com/rschio/pawnshop/internal/core/item"
	"github.com/rschio/pawnshop/internal/core/onboarding"
	"github.com/rschio/pawnshop/internal/core/payment"
	"github.com/rschio/pawnshop/internal/core/plan"
	"github.com/rschio/pawnshop/internal/core/profile"
	"github.com/rschio/pawnshop/internal/core/subscription"
	"github.com/rschio/pawnshop/internal/core/transaction"
	"github.com/rschio/pawnshop/internal/core/user"
	"github.com/rschio/pawnshop/internal/core/verify"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
	"github.com/rschio/pawnshop/internal/web"
)

var (
	errBadRequest           = errors.New("bad request")
	errInvalidID            = errors.New("invalid id")
	errConfirmationRequired = errors.New("deletion must be confirmed with confirm=true")
	errRateLimited          = errors.New("too many requests")
)

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", errInvalidID, r.PathValue("id"))
	}
	return id, nil
}

// serveJSON decodes the request body into Req, runs fn and writes its
// result with status. Requests without a body get the zero Req.
func serveJSON[Req any, Resp any](
	w http.ResponseWriter,
	r *http.Request,
	s *Server,
	status int,
	fn func(ctx context.Context, req Req) (Resp, error),
) {
	ctx := r.Context()

	var req Req
	if r.Method != http.MethodGet && r.Method != http.MethodDelete {
		if err := decode(r, &req); err != nil {
			s.respondError(ctx, w, err)
			return
		}
	}

	resp, err := fn(ctx, req)
	if err != nil {
		s.respondError(ctx, w, err)
		return
	}

	s.respond(ctx, w, status, resp)
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()

	if r.ContentLength == 0 {
		return nil
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return fmt.Errorf("%w: request must be a json", errBadRequest)
	}

	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func (s *Server) respond(ctx context.Context, w http.ResponseWriter, status int, resp any) {
	web.SetStatusCode(ctx, status)

	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	bs, err := json.Marshal(resp)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to encode response", "ERROR", err)
		web.SetStatusCode(ctx, http.StatusInternalServerError)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bs)
}

func (s *Server) respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.ErrorContext(ctx, "request failed", "ERROR", err)
		msg = "internal error"
	} else {
		s.log.InfoContext(ctx, "request rejected", "status", status, "ERROR", err)
	}

	s.respond(ctx, w, status, ErrorResp{Error: msg})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errInvalidID),
		errors.Is(err, client.ErrNotFound),
		errors.Is(err, item.ErrNotFound),
		errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, payment.ErrNotFound),
		errors.Is(err, plan.ErrNotFound),
		errors.Is(err, profile.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, db.ErrDBNotFound):
		return http.StatusNotFound

	case errors.Is(err, errBadRequest),
		errors.Is(err, client.ErrInvalidArgument),
		errors.Is(err, item.ErrInvalidArgument),
		errors.Is(err, transaction.ErrInvalidArgument),
		errors.Is(err, payment.ErrInvalidArgument),
		errors.Is(err, plan.ErrInvalidArgument),
		errors.Is(err, profile.ErrInvalidArgument),
		errors.Is(err, subscription.ErrInvalidArgument),
		errors.Is(err, user.ErrInvalidArgument),
		errors.Is(err, onboarding.ErrInvalidArgument),
		errors.Is(err, verify.ErrInvalidArgument):
		return http.StatusBadRequest

	case errors.Is(err, db.ErrDBDuplicatedEntry),
		errors.Is(err, db.ErrDBForeignKey),
		errors.Is(err, user.ErrUniqueEmail),
		errors.Is(err, onboarding.ErrWrongStep):
		return http.StatusConflict

	case errors.Is(err, errConfirmationRequired):
		return http.StatusPreconditionRequired

	case errors.Is(err, verify.ErrCodeMismatch),
		errors.Is(err, verify.ErrCodeExpired):
		return http.StatusUnprocessableEntity

	case errors.Is(err, verify.ErrTooManyAttempts),
		errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	}

	return http.StatusInternalServerError
}
