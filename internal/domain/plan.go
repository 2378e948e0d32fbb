package domain

import (
	"fmt"
	"strings"
)

type PlanKind string

const (
	PlanMonthly    PlanKind = "MONTHLY"
	PlanSemiAnnual PlanKind = "SEMI_ANNUAL"
	PlanAnnual     PlanKind = "ANNUAL"
	PlanVIP        PlanKind = "VIP"
	PlanTest       PlanKind = "TEST"
)

var planKinds = []PlanKind{PlanMonthly, PlanSemiAnnual, PlanAnnual, PlanVIP, PlanTest}

func ParsePlanKind(s string) (PlanKind, error) {
	p := PlanKind(strings.ToUpper(strings.TrimSpace(s)))
	for _, k := range planKinds {
		if p == k {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: plan %q", ErrUnknownValue, s)
}
