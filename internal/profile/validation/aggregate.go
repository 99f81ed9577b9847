package validation

import (
	"fmt"

	"residentportal/internal/profile/models"
)

// Profile re-validates a whole submission in order: head, spouse requirement,
// spouse, each dependent by kind, census. Field names are qualified with the
// section they belong to.
func Profile(p *models.ResidentProfile, vctx Context) Result {
	if r := Person(&p.Head, KindHead, vctx); !r.IsValid() {
		return r.WithPrefix("household_head")
	}
	if p.Head.CivilStatus.RequiresSpouse() {
		if p.Spouse == nil {
			return Invalid("spouse", "is required when the household head is married")
		}
		if r := Person(p.Spouse, KindSpouse, vctx); !r.IsValid() {
			return r.WithPrefix("spouse")
		}
	}
	for i, d := range p.Dependents {
		if r := Dependent(d, vctx); !r.IsValid() {
			return r.WithPrefix(fmt.Sprintf("dependents[%d]", i))
		}
	}
	if r := Census(&p.Census); !r.IsValid() {
		return r.WithPrefix("census")
	}
	return Valid
}
