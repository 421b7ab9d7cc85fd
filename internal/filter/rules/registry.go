package rules

import "github.com/campusplanner/planner/internal/filter"

// All returns one instance of every built-in rule, in registration
// order. Callers typically pass the result straight to
// Service.RegisterFilter.
func All() []filter.Rule {
	return []filter.Rule{
		SearchText{},
		Department{},
		Term{},
		CreditRange{},
		Professor{},
		Location{},
		Availability{},
		SectionCode{},
		SectionStatus{},
		PeriodDays{},
		PeriodProfessor{},
		PeriodTerm{},
		PeriodTime{},
		PeriodLocation{},
		PeriodType{},
		PeriodAvailability{},
		PeriodConflict{},
		RequiredStatus{},
	}
}
