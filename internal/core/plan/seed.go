package plan

// seedPlans is the default catalog inserted into an empty plan table.
func seedPlans() []Plan {
	return []Plan{
		{
			Name:         "Gratuit",
			Type:         TierFree,
			Price:        0,
			DurationDays: 7,
			Features: Features{
				MaxOrganizations:     1,
				MaxGaragesPerOrg:     1,
				MaxUsersPerOrg:       5,
				MaxVehiclesPerGarage: 50,
				SupportLevel:         SupportEmail,
			},
			IsActive: true,
		},
		{
			Name:         "SeeS Mensuel",
			Type:         TierSeesMonthly,
			Price:        10000,
			DurationDays: 30,
			Features: Features{
				MaxOrganizations:     1,
				MaxGaragesPerOrg:     1,
				MaxUsersPerOrg:       10,
				MaxVehiclesPerGarage: 200,
				SupportLevel:         SupportPriority,
				Analytics:            true,
				SetupDays:            1,
				AdditionalActivities: 1,
			},
			Gradient: "from-emerald-400 to-emerald-600",
			IsActive: true,
		},
		{
			Name:         "SeeS Annuel",
			Type:         TierSeesAnnual,
			Price:        100000,
			DurationDays: 365,
			Features: Features{
				MaxOrganizations:     2,
				MaxGaragesPerOrg:     2,
				MaxUsersPerOrg:       50,
				MaxVehiclesPerGarage: 1000,
				SupportLevel:         SupportPremium,
				Analytics:            true,
				SetupDays:            2,
				CautionAmount:        50000,
				StartupPayment:       &StartupPayment{Count: 2, Amount: 50000, Refundable: false},
				AdditionalInstances:  2,
			},
			Gradient: "from-yellow-400 to-amber-600",
			IsActive: true,
		},
		{
			Name:         "Pro Mensuel",
			Type:         TierMonthly,
			Price:        15000,
			DurationDays: 30,
			Features: Features{
				MaxOrganizations:     1,
				MaxGaragesPerOrg:     1,
				MaxUsersPerOrg:       20,
				MaxVehiclesPerGarage: 500,
				SupportLevel:         SupportPriority,
				Analytics:            true,
				SetupDays:            2,
				CautionAmount:        50000,
				AdditionalActivities: 2,
			},
			IsActive: true,
		},
		{
			Name:         "Pro Annuel",
			Type:         TierAnnual,
			Price:        150000,
			DurationDays: 365,
			Features: Features{
				MaxOrganizations:     2,
				MaxGaragesPerOrg:     2,
				MaxUsersPerOrg:       100,
				MaxVehiclesPerGarage: 2000,
				SupportLevel:         SupportPremium,
				Analytics:            true,
				SetupDays:            2,
				CautionAmount:        50000,
				AdditionalInstances:  3,
			},
			IsActive: true,
		},
	}
}
