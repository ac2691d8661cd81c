package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UnlimitedDays is the duration that marks a plan without expiry.
const UnlimitedDays = 9999

// Tier is the type tag of a plan.
type Tier string

// Set of plan tiers.
const (
	TierFree        Tier = "free"
	TierMonthly     Tier = "monthly"
	TierAnnual      Tier = "annual"
	TierSeesMonthly Tier = "sees_monthly"
	TierSeesAnnual  Tier = "sees_annual"
)

// Sees reports whether the tier is sold to the SeeS business category.
func (t Tier) Sees() bool {
	return strings.HasPrefix(string(t), "sees")
}

// Business is the category of business a customer runs. It decides which
// plans are offered.
type Business string

// Set of business categories.
const (
	BusinessSees  Business = "sees"
	BusinessOther Business = "other"
)

// ParseBusiness parses s, defaulting to SeeS when s is empty.
func ParseBusiness(s string) (Business, error) {
	switch Business(s) {
	case "", BusinessSees:
		return BusinessSees, nil
	case BusinessOther:
		return BusinessOther, nil
	}
	return "", fmt.Errorf("%w: unknown business %q", ErrInvalidArgument, s)
}

// Plan is a purchasable pricing tier.
type Plan struct {
	ID           uuid.UUID
	Name         string
	Type         Tier
	Price        int64
	DurationDays int
	Features     Features
	Gradient     string
	IsActive     bool
	DateCreated  time.Time
}

// Duration is the human readable length of the plan.
func (p Plan) Duration() string {
	if p.DurationDays == UnlimitedDays {
		return "Illimité"
	}
	return fmt.Sprintf("%d jours", p.DurationDays)
}

// DisplayGradient is the stored gradient, or the one derived from the tier.
func (p Plan) DisplayGradient() string {
	if p.Gradient != "" {
		return p.Gradient
	}
	switch p.Type {
	case TierFree:
		return "from-gray-500 to-gray-600"
	case TierMonthly:
		return "from-blue-500 to-blue-600"
	}
	return "from-purple-500 to-purple-600"
}

// Color is the accent colour of the tier.
func (p Plan) Color() string {
	switch p.Type {
	case TierFree:
		return "gray"
	case TierMonthly:
		return "blue"
	}
	return "purple"
}

// Popular marks the plan highlighted in the catalog.
func (p Plan) Popular() bool {
	return p.Type == TierMonthly
}

// Savings is the discount in percent advertised for the plan.
func (p Plan) Savings() int {
	if p.Type == TierAnnual {
		return 20
	}
	return 0
}

// VisibleTo reports whether the plan is offered to business.
func (p Plan) VisibleTo(b Business) bool {
	if p.Type == TierFree {
		return true
	}
	if b == BusinessSees {
		return p.Type.Sees()
	}
	return !p.Type.Sees()
}

// BillingPeriod is the billing cadence of subscriptions to the plan.
func (p Plan) BillingPeriod() string {
	switch p.Type {
	case TierAnnual, TierSeesAnnual:
		return "annual"
	}
	return "monthly"
}

// Filter returns the plans offered to business, keeping their order.
func Filter(plans []Plan, b Business) []Plan {
	visible := make([]Plan, 0, len(plans))
	for _, p := range plans {
		if p.VisibleTo(b) {
			visible = append(visible, p)
		}
	}
	return visible
}

// Select returns the plan that should be selected under business. The
// current selection is kept while it stays visible, otherwise the first
// visible plan wins. It returns uuid.Nil when nothing is visible.
func Select(plans []Plan, b Business, current uuid.UUID) uuid.UUID {
	visible := Filter(plans, b)
	if len(visible) == 0 {
		return uuid.Nil
	}
	for _, p := range visible {
		if p.ID == current {
			return current
		}
	}
	return visible[0].ID
}
