package plan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeFeatures(t *testing.T) {
	want := Features{MaxOrganizations: 2, SupportLevel: SupportPremium, Analytics: true}

	tests := []struct {
		name string
		raw  string
		want Features
	}{
		{"object", `{"max_organizations":2,"support_level":"premium","analytics":true}`, want},
		{"string holding object", `"{\"max_organizations\":2,\"support_level\":\"premium\",\"analytics\":true}"`, want},
		{"null", `null`, Features{}},
		{"empty", ``, Features{}},
		{"string not json", `"illimité"`, Features{}},
		{"array", `[1,2]`, Features{}},
		{"number", `42`, Features{}},
		{"broken object", `{"max_organizations":`, Features{}},
		{"startup payment", `{"startup_payment":{"count":2,"amount":50000,"refundable":false}}`,
			Features{StartupPayment: &StartupPayment{Count: 2, Amount: 50000}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFeatures([]byte(tt.raw))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("got different features: %s", diff)
			}
		})
	}
}
