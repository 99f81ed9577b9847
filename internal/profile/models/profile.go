package models

import (
	"fmt"

	dErrors "residentportal/pkg/domain-errors"
)

// ResidentProfile is the aggregate root of a household submission.
//
// Invariants:
//   - Spouse is non-nil iff Head.CivilStatus is Married
//   - len(Dependents.Children()) == ChildrenCount
//   - len(Dependents.Others()) == OtherMembersCount
//   - Dependents are ordered children first
type ResidentProfile struct {
	Head              Person        `json:"household_head"`
	Spouse            *Person       `json:"spouse,omitempty"`
	Dependents        Dependents    `json:"dependents"`
	Census            CensusAnswers `json:"census"`
	ChildrenCount     int           `json:"children_count"`
	OtherMembersCount int           `json:"other_members_count"`
}

// Clone returns a deep copy so callers can hand snapshots across goroutines.
func (p *ResidentProfile) Clone() *ResidentProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.Head = *p.Head.Clone()
	c.Spouse = p.Spouse.Clone()
	c.Dependents = p.Dependents.Clone()
	return &c
}

// IsEmpty reports whether nothing has been entered yet.
func (p *ResidentProfile) IsEmpty() bool {
	return p.Head.FirstName == "" && p.Head.LastName == "" && p.Spouse == nil &&
		len(p.Dependents) == 0 && p.Census == (CensusAnswers{})
}

// CheckInvariants reports the first violated aggregate invariant as a
// CodeInvariantViolation error.
func (p *ResidentProfile) CheckInvariants() error {
	if p.Spouse != nil && !p.Head.CivilStatus.RequiresSpouse() {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("spouse present while civil status is %q", p.Head.CivilStatus))
	}
	children := len(p.Dependents.Children())
	others := len(p.Dependents.Others())
	if children != p.ChildrenCount {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("children count %d does not match %d child entries", p.ChildrenCount, children))
	}
	if others != p.OtherMembersCount {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("other members count %d does not match %d entries", p.OtherMembersCount, others))
	}
	for i, d := range p.Dependents {
		if i >= children && d.Kind() == DependentKindChild {
			return dErrors.New(dErrors.CodeInvariantViolation, "children must precede other members")
		}
	}
	return nil
}
