package plan

import (
	"bytes"
	"encoding/json"
)

// SupportLevel is the support tier bundled with a plan.
type SupportLevel string

// Set of support levels.
const (
	SupportEmail    SupportLevel = "email"
	SupportPriority SupportLevel = "priority"
	SupportPremium  SupportLevel = "premium"
)

// StartupPayment describes the initial payments some plans require.
type StartupPayment struct {
	Count      int   `json:"count"`
	Amount     int64 `json:"amount"`
	Refundable bool  `json:"refundable"`
}

// Features holds the limits and perks of a plan.
type Features struct {
	MaxOrganizations     int             `json:"max_organizations"`
	MaxGaragesPerOrg     int             `json:"max_garages_per_org"`
	MaxUsersPerOrg       int             `json:"max_users_per_org"`
	MaxVehiclesPerGarage int             `json:"max_vehicles_per_garage"`
	SupportLevel         SupportLevel    `json:"support_level"`
	Analytics            bool            `json:"analytics"`
	SetupDays            int             `json:"setup_days"`
	CautionAmount        int64           `json:"caution_amount"`
	AdditionalActivities int             `json:"additional_activities"`
	AdditionalInstances  int             `json:"additional_instances"`
	StartupPayment       *StartupPayment `json:"startup_payment,omitempty"`
}

// NormalizeFeatures decodes the stored feature payload. It accepts a JSON
// object, a JSON string holding an object, or null. Anything else yields
// the zero Features.
func NormalizeFeatures(raw []byte) Features {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Features{}
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Features{}
		}
		raw = bytes.TrimSpace([]byte(s))
	}

	if len(raw) == 0 || raw[0] != '{' {
		return Features{}
	}

	var f Features
	if err := json.Unmarshal(raw, &f); err != nil {
		return Features{}
	}
	return f
}
