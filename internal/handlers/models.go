package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/client"
	"github.com/rschio/pawnshop/internal/core/dashboard"
	"github.com/rschio/pawnshop/internal/core/item"
	"github.com/rschio/pawnshop/internal/core/onboarding"
	"github.com/rschio/pawnshop/internal/core/payment"
	"github.com/rschio/pawnshop/internal/core/plan"
	"github.com/rschio/pawnshop/internal/core/profile"
	"github.com/rschio/pawnshop/internal/core/subscription"
	"github.com/rschio/pawnshop/internal/core/transaction"
	"github.com/rschio/pawnshop/internal/core/user"
)

type ErrorResp struct {
	Error string `json:"error"`
}

type StatusResp struct {
	Status string `json:"status"`
}

// =============================================================================
// Clients

type NewClientReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	IDType    string `json:"id_type"`
	IDNumber  string `json:"id_number"`
}

func (r NewClientReq) toCore() client.NewClient {
	return client.NewClient{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		IDType:    client.IDType(r.IDType),
		IDNumber:  r.IDNumber,
	}
}

type UpdateClientReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	IDType    *string `json:"id_type"`
	IDNumber  *string `json:"id_number"`
}

func (r UpdateClientReq) toCore() client.UpdateClient {
	uc := client.UpdateClient{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		IDNumber:  r.IDNumber,
	}
	if r.IDType != nil {
		t := client.IDType(*r.IDType)
		uc.IDType = &t
	}
	return uc
}

type ClientResp struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	IDType      string    `json:"id_type,omitempty"`
	IDTypeLabel string    `json:"id_type_label,omitempty"`
	IDNumber    string    `json:"id_number,omitempty"`
	WhatsAppURL string    `json:"whatsapp_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toClientResp(c client.Client) ClientResp {
	wa, _ := c.WhatsApp()
	return ClientResp{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		IDType:      string(c.IDType),
		IDTypeLabel: c.IDType.Label(),
		IDNumber:    c.IDNumber,
		WhatsAppURL: wa,
		CreatedAt:   c.DateCreated,
		UpdatedAt:   c.DateUpdated,
	}
}

// =============================================================================
// Items

type NewItemReq struct {
	ClientID       uuid.UUID `json:"client_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Condition      string    `json:"condition"`
	EstimatedValue int64     `json:"estimated_value"`
	Status         string    `json:"status"`
	Images         []string  `json:"images"`
}

func (r NewItemReq) toCore() item.NewItem {
	return item.NewItem{
		ClientID:       r.ClientID,
		Name:           r.Name,
		Description:    r.Description,
		Category:       r.Category,
		Condition:      r.Condition,
		EstimatedValue: r.EstimatedValue,
		Status:         item.Status(r.Status),
		Images:         r.Images,
	}
}

type UpdateItemReq struct {
	ClientID       *uuid.UUID `json:"client_id"`
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	Category       *string    `json:"category"`
	Condition      *string    `json:"condition"`
	EstimatedValue *int64     `json:"estimated_value"`
	Status         *string    `json:"status"`
	Images         []string   `json:"images"`
}

func (r UpdateItemReq) toCore() item.UpdateItem {
	ui := item.UpdateItem{
		ClientID:       r.ClientID,
		Name:           r.Name,
		Description:    r.Description,
		Category:       r.Category,
		Condition:      r.Condition,
		EstimatedValue: r.EstimatedValue,
		Images:         r.Images,
	}
	if r.Status != nil {
		st := item.Status(*r.Status)
		ui.Status = &st
	}
	return ui
}

type PersonRef struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ItemResp struct {
	ID             uuid.UUID  `json:"id"`
	ClientID       uuid.UUID  `json:"client_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Category       string     `json:"category,omitempty"`
	Condition      string     `json:"condition,omitempty"`
	EstimatedValue int64      `json:"estimated_value"`
	Status         string     `json:"status"`
	Images         []string   `json:"images"`
	Client         *PersonRef `json:"client,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toItemResp(it item.Item) ItemResp {
	resp := ItemResp{
		ID:             it.ID,
		ClientID:       it.ClientID,
		Name:           it.Name,
		Description:    it.Description,
		Category:       it.Category,
		Condition:      it.Condition,
		EstimatedValue: it.EstimatedValue,
		Status:         string(it.Status),
		Images:         it.Images,
		CreatedAt:      it.DateCreated,
		UpdatedAt:      it.DateUpdated,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if it.Owner != nil {
		resp.Client = &PersonRef{FirstName: it.Owner.FirstName, LastName: it.Owner.LastName}
	}
	return resp
}

// =============================================================================
// Transactions

type NewTransactionReq struct {
	ClientID         uuid.UUID `json:"client_id"`
	ItemID           uuid.UUID `json:"item_id"`
	LoanAmount       int64     `json:"loan_amount"`
	InterestRate     float64   `json:"interest_rate"`
	Status           string    `json:"status"`
	StartDate        time.Time `json:"start_date"`
	DueDate          time.Time `json:"due_date"`
	LoanDurationDays int       `json:"loan_duration_days"`
	TotalAmountDue   int64     `json:"total_amount_due"`
}

func (r NewTransactionReq) toCore() transaction.NewTransaction {
	return transaction.NewTransaction{
		ClientID:         r.ClientID,
		ItemID:           r.ItemID,
		LoanAmount:       r.LoanAmount,
		InterestRate:     r.InterestRate,
		Status:           transaction.Status(r.Status),
		StartDate:        r.StartDate,
		DueDate:          r.DueDate,
		LoanDurationDays: r.LoanDurationDays,
		TotalAmountDue:   r.TotalAmountDue,
	}
}

type UpdateTransactionReq struct {
	LoanAmount       *int64     `json:"loan_amount"`
	InterestRate     *float64   `json:"interest_rate"`
	Status           *string    `json:"status"`
	StartDate        *time.Time `json:"start_date"`
	DueDate          *time.Time `json:"due_date"`
	LoanDurationDays *int       `json:"loan_duration_days"`
	TotalAmountDue   *int64     `json:"total_amount_due"`
}

func (r UpdateTransactionReq) toCore() transaction.UpdateTransaction {
	ut := transaction.UpdateTransaction{
		LoanAmount:       r.LoanAmount,
		InterestRate:     r.InterestRate,
		StartDate:        r.StartDate,
		DueDate:          r.DueDate,
		LoanDurationDays: r.LoanDurationDays,
		TotalAmountDue:   r.TotalAmountDue,
	}
	if r.Status != nil {
		st := transaction.Status(*r.Status)
		ut.Status = &st
	}
	return ut
}

type ItemRef struct {
	Name           string `json:"name"`
	EstimatedValue int64  `json:"estimated_value"`
}

type TransactionResp struct {
	ID               uuid.UUID  `json:"id"`
	ClientID         uuid.UUID  `json:"client_id"`
	ItemID           uuid.UUID  `json:"item_id"`
	LoanAmount       int64      `json:"loan_amount"`
	InterestRate     float64    `json:"interest_rate"`
	Interest         float64    `json:"interest"`
	Status           string     `json:"status"`
	Late             bool       `json:"late"`
	StartDate        time.Time  `json:"start_date"`
	DueDate          time.Time  `json:"due_date"`
	LoanDurationDays int        `json:"loan_duration_days"`
	TotalAmountDue   int64      `json:"total_amount_due"`
	Item             *ItemRef   `json:"item,omitempty"`
	Client           *PersonRef `json:"client,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func toTransactionResp(t transaction.Transaction, now time.Time) TransactionResp {
	resp := TransactionResp{
		ID:               t.ID,
		ClientID:         t.ClientID,
		ItemID:           t.ItemID,
		LoanAmount:       t.LoanAmount,
		InterestRate:     t.InterestRate,
		Interest:         t.Interest(),
		Status:           string(t.Status),
		Late:             t.Late(now),
		StartDate:        t.StartDate,
		DueDate:          t.DueDate,
		LoanDurationDays: t.LoanDurationDays,
		TotalAmountDue:   t.TotalAmountDue,
		CreatedAt:        t.DateCreated,
		UpdatedAt:        t.DateUpdated,
	}
	if t.Item != nil {
		resp.Item = &ItemRef{Name: t.Item.Name, EstimatedValue: t.Item.EstimatedValue}
	}
	if t.Client != nil {
		resp.Client = &PersonRef{FirstName: t.Client.FirstName, LastName: t.Client.LastName}
	}
	return resp
}

// =============================================================================
// Payments

type NewPaymentReq struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	PaymentType   string    `json:"payment_type"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	PaymentDate   time.Time `json:"payment_date"`
}

func (r NewPaymentReq) toCore() payment.NewPayment {
	return payment.NewPayment{
		TransactionID: r.TransactionID,
		Amount:        r.Amount,
		Type:          payment.Type(r.PaymentType),
		Method:        payment.Method(r.PaymentMethod),
		Status:        payment.Status(r.Status),
		PaymentDate:   r.PaymentDate,
	}
}

type UpdatePaymentReq struct {
	Amount        *int64     `json:"amount"`
	PaymentType   *string    `json:"payment_type"`
	PaymentMethod *string    `json:"payment_method"`
	Status        *string    `json:"status"`
	PaymentDate   *time.Time `json:"payment_date"`
}

func (r UpdatePaymentReq) toCore() payment.UpdatePayment {
	up := payment.UpdatePayment{
		Amount:      r.Amount,
		PaymentDate: r.PaymentDate,
	}
	if r.PaymentType != nil {
		v := payment.Type(*r.PaymentType)
		up.Type = &v
	}
	if r.PaymentMethod != nil {
		v := payment.Method(*r.PaymentMethod)
		up.Method = &v
	}
	if r.Status != nil {
		v := payment.Status(*r.Status)
		up.Status = &v
	}
	return up
}

type LoanRef struct {
	LoanAmount int64     `json:"loan_amount"`
	Client     PersonRef `json:"client"`
}

type PaymentResp struct {
	ID            uuid.UUID `json:"id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	PaymentType   string    `json:"payment_type"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	PaymentDate   time.Time `json:"payment_date"`
	Transaction   *LoanRef  `json:"transaction,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toPaymentResp(p payment.Payment) PaymentResp {
	resp := PaymentResp{
		ID:            p.ID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		PaymentType:   string(p.Type),
		PaymentMethod: string(p.Method),
		Status:        string(p.Status),
		PaymentDate:   p.PaymentDate,
		CreatedAt:     p.DateCreated,
		UpdatedAt:     p.DateUpdated,
	}
	if p.Loan != nil {
		resp.Transaction = &LoanRef{
			LoanAmount: p.Loan.LoanAmount,
			Client:     PersonRef{FirstName: p.Loan.ClientFirstName, LastName: p.Loan.ClientLastName},
		}
	}
	return resp
}

// =============================================================================
// Plans

type PlanResp struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	Price        int64         `json:"price"`
	DurationDays int           `json:"duration_days"`
	Duration     string        `json:"duration"`
	Features     plan.Features `json:"features"`
	Gradient     string        `json:"gradient"`
	Color        string        `json:"color"`
	Popular      bool          `json:"popular"`
	Savings      int           `json:"savings,omitempty"`
}

func toPlanResp(p plan.Plan) PlanResp {
	return PlanResp{
		ID:           p.ID,
		Name:         p.Name,
		Type:         string(p.Type),
		Price:        p.Price,
		DurationDays: p.DurationDays,
		Duration:     p.Duration(),
		Features:     p.Features,
		Gradient:     p.DisplayGradient(),
		Color:        p.Color(),
		Popular:      p.Popular(),
		Savings:      p.Savings(),
	}
}

type PlansResp struct {
	Business string     `json:"business"`
	Plans    []PlanResp `json:"plans"`
	Visible  []PlanResp `json:"visible"`
	Selected string     `json:"selected"`
}

// =============================================================================
// Users

type NewUserReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

func (r NewUserReq) toCore() user.NewUser {
	return user.NewUser{
		Email:    r.Email,
		Password: r.Password,
		Role:     user.Role(r.Role),
		Phone:    r.Phone,
	}
}

type UserResp struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Phone         string    `json:"phone,omitempty"`
	PhoneVerified bool      `json:"phone_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func toUserResp(u user.User) UserResp {
	return UserResp{
		ID:            u.ID,
		Email:         u.Email,
		Role:          string(u.Role),
		Phone:         u.Phone,
		PhoneVerified: u.PhoneVerified,
		CreatedAt:     u.DateCreated,
	}
}

type ProfileReq struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	SelectedPlan string `json:"selected_plan"`
}

func (r ProfileReq) toCore() profile.UpsertProfile {
	return profile.UpsertProfile{
		FullName:     r.FullName,
		Email:        r.Email,
		Phone:        r.Phone,
		SelectedPlan: r.SelectedPlan,
	}
}

type ProfileResp struct {
	UserID       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	SelectedPlan string    `json:"selected_plan,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toProfileResp(p profile.Profile) ProfileResp {
	return ProfileResp{
		UserID:       p.UserID,
		FullName:     p.FullName,
		Email:        p.Email,
		Phone:        p.Phone,
		SelectedPlan: p.SelectedPlan,
		CreatedAt:    p.DateCreated,
		UpdatedAt:    p.DateUpdated,
	}
}

type SubscriptionResp struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	PlanID             uuid.UUID `json:"plan_id"`
	Plan               string    `json:"plan"`
	Status             string    `json:"status"`
	Price              int64     `json:"price"`
	BillingPeriod      string    `json:"billing_period"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
}

func toSubscriptionResp(s subscription.Subscription) SubscriptionResp {
	return SubscriptionResp{
		ID:                 s.ID,
		UserID:             s.UserID,
		PlanID:             s.PlanID,
		Plan:               string(s.Plan),
		Status:             string(s.Status),
		Price:              s.Price,
		BillingPeriod:      s.BillingPeriod,
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
	}
}

// =============================================================================
// Onboarding

type AdvanceReq struct {
	Step string `json:"step"`
}

type ChoosePlanReq struct {
	PlanID uuid.UUID `json:"plan_id"`
}

type SendCodeReq struct {
	Phone string `json:"phone"`
}

type VerifyCodeReq struct {
	Code string `json:"code"`
}

type OnboardingResp struct {
	Started      bool              `json:"started"`
	Completed    bool              `json:"completed"`
	CurrentStep  onboarding.Step   `json:"current_step"`
	View         string            `json:"view,omitempty"`
	Subscription *SubscriptionResp `json:"subscription,omitempty"`
	Profile      *ProfileResp      `json:"profile,omitempty"`
}

func toOnboardingResp(st onboarding.State) OnboardingResp {
	return OnboardingResp{
		Started:     st.Started,
		Completed:   st.Completed,
		CurrentStep: st.CurrentStep,
		View:        onboarding.View(st.CurrentStep),
	}
}

// =============================================================================
// Dashboard

type StatsResp struct {
	ActiveClients int     `json:"active_clients"`
	TotalItems    int     `json:"total_items"`
	ItemsValue    int64   `json:"items_value"`
	ActiveLoans   int     `json:"active_loans"`
	TotalLoaned   int64   `json:"total_loaned"`
	TotalInterest float64 `json:"total_interest"`
	TotalPayments int64   `json:"total_payments"`
	LateLoans     int     `json:"late_loans"`
}

func toStatsResp(s dashboard.Stats) StatsResp {
	return StatsResp(s)
}

func toSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
