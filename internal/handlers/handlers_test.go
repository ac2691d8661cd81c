package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/client"
	"github.com/rschio/pawnshop/internal/core/client/store/clientdb"
	"github.com/rschio/pawnshop/internal/core/dashboard"
	"github.com/rschio/pawnshop/internal/core/item"
	"github.com/rschio/pawnshop/internal/core/item/store/itemdb"
	"github.com/rschio/pawnshop/internal/core/onboarding"
	"github.com/rschio/pawnshop/internal/core/onboarding/stores/onboardingmem"
	"github.com/rschio/pawnshop/internal/core/payment"
	"github.com/rschio/pawnshop/internal/core/payment/store/paymentdb"
	"github.com/rschio/pawnshop/internal/core/plan"
	"github.com/rschio/pawnshop/internal/core/plan/store/plandb"
	"github.com/rschio/pawnshop/internal/core/profile"
	"github.com/rschio/pawnshop/internal/core/profile/store/profiledb"
	"github.com/rschio/pawnshop/internal/core/subscription"
	"github.com/rschio/pawnshop/internal/core/subscription/store/subscriptiondb"
	"github.com/rschio/pawnshop/internal/core/transaction"
	"github.com/rschio/pawnshop/internal/core/transaction/store/transactiondb"
	"github.com/rschio/pawnshop/internal/core/user"
	"github.com/rschio/pawnshop/internal/core/user/store/userdb"
	"github.com/rschio/pawnshop/internal/core/verify"
	"github.com/rschio/pawnshop/internal/data/dbschema"
	db "github.com/rschio/pawnshop/internal/data/dbsql/pgx"
	"github.com/rschio/pawnshop/internal/data/dbtest"
	"github.com/rschio/pawnshop/internal/logger"
	"github.com/rschio/pawnshop/internal/metrics"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

const goodCode = "123456"

type fakeVerifier struct{}

func (fakeVerifier) Send(context.Context, uuid.UUID, string) error { return nil }

func (fakeVerifier) Check(_ context.Context, _ uuid.UUID, code string) error {
	if code != goodCode {
		return verify.ErrCodeMismatch
	}
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log, database, teardown := dbtest.NewUnit(t, dbtest.WithMigrations())
	t.Cleanup(teardown)

	tables := dbschema.DefaultTables()
	clients := client.NewCore(log, clientdb.NewStore(log, database, tables))
	items := item.NewCore(log, itemdb.NewStore(log, database, tables))
	txs := transaction.NewCore(log, transactiondb.NewStore(log, database, tables))
	pays := payment.NewCore(log, paymentdb.NewStore(log, database, tables))
	users := user.NewCore(log, userdb.NewStore(log, database, tables))
	profiles := profile.NewCore(log, profiledb.NewStore(log, database, tables))
	plans := plan.NewCore(log, plandb.NewStore(log, database, tables), nil)
	subs := subscription.NewCore(log, subscriptiondb.NewStore(log, database, tables))
	machine := onboarding.NewMachine(log, onboardingmem.NewStore())

	server := NewServer(Config{
		Log:           log,
		Ready:         func(ctx context.Context) error { return db.StatusCheck(ctx, database) },
		Clients:       clients,
		Items:         items,
		Transactions:  txs,
		Payments:      pays,
		Users:         users,
		Profiles:      profiles,
		Plans:         plans,
		Subscriptions: subs,
		Onboarding:    onboarding.NewFlow(log, machine, plans, subs, profiles, fakeVerifier{}),
		Dashboard:     dashboard.NewCore(log, clients, items, txs, pays),
	})

	httpServer := httptest.NewServer(APIMux(server, otel.GetTracerProvider().Tracer("")))
	t.Cleanup(httpServer.Close)

	return httpServer
}

// call sends body as JSON, checks the status code and decodes the answer
// into out when it is not nil.
func call(t *testing.T, method, url string, body any, want int, out any) {
	t.Helper()

	var r io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(bs)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: got status %d, want %d: %s", method, url, resp.StatusCode, want, b)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}
	}
}

func TestPawnFlow(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/v1"

	var c ClientResp
	call(t, http.MethodPost, base+"/clients", NewClientReq{
		FirstName: "Awa",
		LastName:  "Diop",
		Phone:     "+221 77 123 45 67",
		IDType:    "passport",
	}, http.StatusCreated, &c)

	if c.WhatsAppURL != "https://wa.me/221771234567" {
		t.Errorf("whatsapp_url = %q", c.WhatsAppURL)
	}
	if c.IDTypeLabel != "Passeport" {
		t.Errorf("id_type_label = %q", c.IDTypeLabel)
	}

	var it ItemResp
	call(t, http.MethodPost, base+"/items", NewItemReq{
		ClientID:       c.ID,
		Name:           "Montre",
		EstimatedValue: 50000,
	}, http.StatusCreated, &it)

	if it.Status != string(item.StatusStored) {
		t.Errorf("item status = %q, want stored", it.Status)
	}

	var tx TransactionResp
	call(t, http.MethodPost, base+"/transactions", NewTransactionReq{
		ClientID:         c.ID,
		ItemID:           it.ID,
		LoanAmount:       30000,
		InterestRate:     10,
		LoanDurationDays: 30,
	}, http.StatusCreated, &tx)

	if tx.TotalAmountDue != 33000 {
		t.Errorf("total_amount_due = %d, want 33000", tx.TotalAmountDue)
	}

	var got TransactionResp
	call(t, http.MethodGet, base+"/transactions/"+tx.ID.String(), nil, http.StatusOK, &got)
	if diff := cmp.Diff(&ItemRef{Name: "Montre", EstimatedValue: 50000}, got.Item); diff != "" {
		t.Errorf("joined item mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&PersonRef{FirstName: "Awa", LastName: "Diop"}, got.Client); diff != "" {
		t.Errorf("joined client mismatch (-want +got):\n%s", diff)
	}

	var p PaymentResp
	call(t, http.MethodPost, base+"/payments", NewPaymentReq{
		TransactionID: tx.ID,
		Amount:        3000,
		PaymentType:   string(payment.TypeInterest),
	}, http.StatusCreated, &p)

	var ps []PaymentResp
	call(t, http.MethodGet, base+"/transactions/"+tx.ID.String()+"/payments", nil, http.StatusOK, &ps)
	if len(ps) != 1 || ps[0].ID != p.ID {
		t.Fatalf("got payments %+v", ps)
	}

	var ts []TransactionResp
	call(t, http.MethodGet, base+"/clients/"+c.ID.String()+"/transactions", nil, http.StatusOK, &ts)
	if len(ts) != 1 {
		t.Fatalf("got %d client transactions, want 1", len(ts))
	}

	var stats StatsResp
	call(t, http.MethodGet, base+"/dashboard", nil, http.StatusOK, &stats)
	wantStats := StatsResp{
		ActiveClients: 1,
		TotalItems:    1,
		ItemsValue:    50000,
		ActiveLoans:   1,
		TotalLoaned:   30000,
		TotalInterest: 3000,
		TotalPayments: 3000,
	}
	if diff := cmp.Diff(wantStats, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	// The client still owns an item, so the delete is refused.
	call(t, http.MethodDelete, base+"/clients/"+c.ID.String()+"?confirm=true", nil, http.StatusConflict, nil)
}

func TestClientGainsWhatsApp(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/v1"

	var c ClientResp
	call(t, http.MethodPost, base+"/clients", NewClientReq{FirstName: "Fatou", LastName: "Sow"}, http.StatusCreated, &c)

	var list []ClientResp
	call(t, http.MethodGet, base+"/clients", nil, http.StatusOK, &list)
	if len(list) != 1 {
		t.Fatalf("got %d clients, want 1", len(list))
	}
	if list[0].Email != "" || list[0].Phone != "" || list[0].WhatsAppURL != "" {
		t.Errorf("contact fields should be empty: %+v", list[0])
	}

	phone := "06 12 34 56 78"
	call(t, http.MethodPut, base+"/clients/"+c.ID.String(), UpdateClientReq{Phone: &phone}, http.StatusOK, &c)
	if c.WhatsAppURL != "https://wa.me/612345678" {
		t.Errorf("whatsapp_url = %q", c.WhatsAppURL)
	}
	if c.FirstName != "Fatou" {
		t.Errorf("partial update lost the first name: %q", c.FirstName)
	}
}

func TestDeleteClientNeedsConfirmation(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/v1"

	var c ClientResp
	call(t, http.MethodPost, base+"/clients", NewClientReq{FirstName: "Moussa", LastName: "Ba"}, http.StatusCreated, &c)

	path := base + "/clients/" + c.ID.String()

	var e ErrorResp
	call(t, http.MethodDelete, path, nil, http.StatusPreconditionRequired, &e)
	if e.Error == "" {
		t.Errorf("expected an error message")
	}
	call(t, http.MethodGet, path, nil, http.StatusOK, nil)

	call(t, http.MethodDelete, path+"?confirm=true", nil, http.StatusNoContent, nil)
	call(t, http.MethodGet, path, nil, http.StatusNotFound, nil)
	call(t, http.MethodDelete, path+"?confirm=true", nil, http.StatusNotFound, nil)
}

func TestBadRequests(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/v1"

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"invalid id", http.MethodGet, "/clients/not-a-uuid", nil, http.StatusNotFound},
		{"unknown client", http.MethodGet, "/clients/" + uuid.NewString(), nil, http.StatusNotFound},
		{"missing names", http.MethodPost, "/clients", NewClientReq{Email: "a@b.co"}, http.StatusBadRequest},
		{"bad email", http.MethodPost, "/clients", NewClientReq{FirstName: "A", LastName: "B", Email: "nope"}, http.StatusBadRequest},
		{"orphan item", http.MethodPost, "/items", NewItemReq{ClientID: uuid.New(), Name: "Bague", EstimatedValue: 1}, http.StatusConflict},
		{"unknown business", http.MethodGet, "/plans?business=bank", nil, http.StatusBadRequest},
		{"unknown step", http.MethodPost, "/users/" + uuid.NewString() + "/onboarding/advance", AdvanceReq{Step: "payment"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call(t, tt.method, base+tt.path, tt.body, tt.want, nil)
		})
	}

	t.Run("not json", func(t *testing.T) {
		resp, err := http.Post(base+"/clients", "text/plain", strings.NewReader(`{"first_name":"A"}`))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("got status %d, want 400", resp.StatusCode)
		}
	})
}

func TestPlans(t *testing.T) {
	srv := newTestServer(t)

	var resp PlansResp
	call(t, http.MethodGet, srv.URL+"/v1/plans?business=other", nil, http.StatusOK, &resp)

	if len(resp.Plans) != 5 {
		t.Fatalf("got %d plans, want 5", len(resp.Plans))
	}
	if len(resp.Visible) == 0 {
		t.Fatalf("no visible plan")
	}
	for _, p := range resp.Visible {
		if plan.Tier(p.Type).Sees() {
			t.Errorf("plan %s offered to a non SeeS business", p.Name)
		}
	}
	if resp.Selected != resp.Visible[0].ID.String() {
		t.Errorf("selected = %s, want first visible %s", resp.Selected, resp.Visible[0].ID)
	}

	// A visible selection is kept.
	last := resp.Visible[len(resp.Visible)-1].ID
	call(t, http.MethodGet, srv.URL+"/v1/plans?business=other&selected="+last.String(), nil, http.StatusOK, &resp)
	if resp.Selected != last.String() {
		t.Errorf("selected = %s, want %s", resp.Selected, last)
	}
}

func TestOnboarding(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/v1"

	var u UserResp
	call(t, http.MethodPost, base+"/users", NewUserReq{Email: "Owner@Shop.SN", Password: "secret1"}, http.StatusCreated, &u)
	if u.Email != "owner@shop.sn" {
		t.Errorf("email = %q", u.Email)
	}
	call(t, http.MethodPost, base+"/users", NewUserReq{Email: "owner@shop.sn", Password: "secret1"}, http.StatusConflict, nil)

	ob := fmt.Sprintf("%s/users/%s/onboarding", base, u.ID)

	var st OnboardingResp
	call(t, http.MethodGet, ob, nil, http.StatusOK, &st)
	if st.Started || st.CurrentStep != onboarding.StepNone || st.View != "" {
		t.Fatalf("fresh state = %+v", st)
	}

	call(t, http.MethodPost, ob+"/start", nil, http.StatusOK, &st)
	if st.CurrentStep != onboarding.StepPlan || st.View != "plan_selector" {
		t.Fatalf("after start = %+v", st)
	}

	profileReq := ProfileReq{FullName: "Awa Diop", Email: "awa@shop.sn"}
	call(t, http.MethodPost, ob+"/profile", profileReq, http.StatusConflict, nil)

	var plans PlansResp
	call(t, http.MethodGet, base+"/plans", nil, http.StatusOK, &plans)
	chosen := plans.Visible[0]

	call(t, http.MethodPost, ob+"/plan", ChoosePlanReq{PlanID: chosen.ID}, http.StatusOK, &st)
	if st.CurrentStep != onboarding.StepProfile || st.Subscription == nil {
		t.Fatalf("after plan = %+v", st)
	}
	if st.Subscription.PlanID != chosen.ID {
		t.Errorf("subscribed to %s, want %s", st.Subscription.PlanID, chosen.ID)
	}

	call(t, http.MethodPost, ob+"/profile", profileReq, http.StatusOK, &st)
	if st.CurrentStep != onboarding.StepSMS || st.View != "sms_form" {
		t.Fatalf("after profile = %+v", st)
	}

	call(t, http.MethodPost, ob+"/sms/send", SendCodeReq{Phone: "+221771234567"}, http.StatusAccepted, &st)
	if st.CurrentStep != onboarding.StepSMS {
		t.Fatalf("sending a code moved the step: %+v", st)
	}

	call(t, http.MethodPost, ob+"/sms/verify", VerifyCodeReq{Code: "000000"}, http.StatusUnprocessableEntity, nil)
	call(t, http.MethodGet, ob, nil, http.StatusOK, &st)
	if st.CurrentStep != onboarding.StepSMS {
		t.Fatalf("a wrong code moved the step: %+v", st)
	}

	call(t, http.MethodPost, ob+"/sms/verify", VerifyCodeReq{Code: goodCode}, http.StatusOK, &st)
	if !st.Completed || st.CurrentStep != onboarding.StepDone || st.View != "" {
		t.Fatalf("after verify = %+v", st)
	}

	var subs []SubscriptionResp
	call(t, http.MethodGet, base+"/users/"+u.ID.String()+"/subscriptions", nil, http.StatusOK, &subs)
	if len(subs) != 1 {
		t.Errorf("got %d subscriptions, want 1", len(subs))
	}

	var pr ProfileResp
	call(t, http.MethodGet, base+"/users/"+u.ID.String()+"/profile", nil, http.StatusOK, &pr)
	if pr.FullName != "Awa Diop" {
		t.Errorf("full_name = %q", pr.FullName)
	}
	if pr.SelectedPlan != chosen.Type {
		t.Errorf("selected_plan = %q, want confirmed tier %q", pr.SelectedPlan, chosen.Type)
	}

	call(t, http.MethodDelete, ob, nil, http.StatusOK, &st)
	if st.Started || st.Completed || st.CurrentStep != onboarding.StepNone {
		t.Errorf("after reset = %+v", st)
	}
}

func TestReadinessAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	var st StatusResp
	call(t, http.MethodGet, srv.URL+"/v1/readiness", nil, http.StatusOK, &st)
	if st.Status != "ok" {
		t.Errorf("status = %q", st.Status)
	}

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), `pawnshop_http_requests_total{method="GET",route="GET /v1/readiness",status="200"} 1`) {
		t.Errorf("readiness request not counted:\n%s", b)
	}
}

func TestRateLimit(t *testing.T) {
	var buf bytes.Buffer
	server := NewServer(Config{
		Log:       logger.NewWithWriter(&buf, "TEST", "TEST"),
		Metrics:   metrics.New(),
		RateLimit: rate.Limit(0.001),
		RateBurst: 2,
	})
	mux := APIMux(server, otel.GetTracerProvider().Tracer(""))

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/readiness", nil))
		codes[i] = w.Code
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Errorf("status codes mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("query: %w", client.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: name", item.ErrInvalidArgument), http.StatusBadRequest},
		{fmt.Errorf("create: %w", db.ErrDBForeignKey), http.StatusConflict},
		{user.ErrUniqueEmail, http.StatusConflict},
		{onboarding.ErrWrongStep, http.StatusConflict},
		{errConfirmationRequired, http.StatusPreconditionRequired},
		{verify.ErrCodeExpired, http.StatusUnprocessableEntity},
		{verify.ErrTooManyAttempts, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusOf(tt.err); got != tt.want {
			t.Errorf("statusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
