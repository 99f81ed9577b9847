// Package validation checks intake entities against kind-specific rule sets.
//
// Rules run in a fixed order and stop at the first violation, so a step
// reports one field at a time. Nothing here performs I/O.
package validation

import (
	"fmt"
	"strings"

	"residentportal/internal/profile/age"
	"residentportal/internal/profile/models"
	dErrors "residentportal/pkg/domain-errors"
)

// EntityKind selects the rule set.
type EntityKind string

const (
	KindHead        EntityKind = "household_head"
	KindSpouse      EntityKind = "spouse"
	KindChild       EntityKind = "child"
	KindOtherMember EntityKind = "other_member"
	KindCensus      EntityKind = "census"
)

// Context carries settings the rules depend on.
type Context struct {
	// ZonedBarangay is the only barangay code in which a zone number is valid.
	ZonedBarangay string
}

// Result is Valid or Invalid(Field, Reason).
type Result struct {
	Field  string
	Reason string
}

// Valid is the passing result.
var Valid = Result{}

// Invalid builds a failing result.
func Invalid(field, reason string) Result {
	return Result{Field: field, Reason: reason}
}

func (r Result) IsValid() bool {
	return r.Field == "" && r.Reason == ""
}

// WithPrefix qualifies the field name, e.g. "dependents[2]".
func (r Result) WithPrefix(prefix string) Result {
	if r.IsValid() {
		return r
	}
	return Result{Field: prefix + "." + r.Field, Reason: r.Reason}
}

// Err converts an invalid result to a CodeValidation error naming the field.
func (r Result) Err() error {
	if r.IsValid() {
		return nil
	}
	return dErrors.NewField(dErrors.CodeValidation, r.Field, r.Reason)
}

// Validate dispatches on kind. The entity must be *models.Person for head and
// spouse, a models.Dependent for dependents, and *models.CensusAnswers for census.
func Validate(entity any, kind EntityKind, vctx Context) Result {
	switch kind {
	case KindHead, KindSpouse:
		p, ok := entity.(*models.Person)
		if !ok || p == nil {
			return Invalid(string(kind), "is required")
		}
		return Person(p, kind, vctx)
	case KindChild, KindOtherMember:
		d, ok := entity.(models.Dependent)
		if !ok || d == nil {
			return Invalid("dependent", "is required")
		}
		if kindOf(d) != kind {
			return Invalid("relation", fmt.Sprintf("does not describe a %s", kind))
		}
		return Dependent(d, vctx)
	case KindCensus:
		c, ok := entity.(*models.CensusAnswers)
		if !ok || c == nil {
			return Invalid("census", "is required")
		}
		return Census(c)
	}
	return Invalid("kind", fmt.Sprintf("unknown entity kind %q", kind))
}

func kindOf(d models.Dependent) EntityKind {
	if d.Kind() == models.DependentKindChild {
		return KindChild
	}
	return KindOtherMember
}

// checker records the first failure; later checks are no-ops.
type checker struct {
	res Result
}

func (c *checker) failed() bool {
	return !c.res.IsValid()
}

func (c *checker) fail(field, reason string) {
	if !c.failed() {
		c.res = Invalid(field, reason)
	}
}

func (c *checker) require(field, value string) {
	if !c.failed() && strings.TrimSpace(value) == "" {
		c.fail(field, "is required")
	}
}

func (c *checker) check(ok bool, field, reason string) {
	if !c.failed() && !ok {
		c.fail(field, reason)
	}
}

func (c *checker) identity(id *models.Identity) {
	c.require("first_name", id.FirstName)
	c.require("last_name", id.LastName)
}

func (c *checker) address(a *models.Address, vctx Context) {
	c.require("address.region", a.Region)
	c.require("address.province", a.Province)
	c.require("address.city", a.City)
	c.require("address.barangay", a.Barangay)
	if strings.TrimSpace(a.Zone) != "" {
		c.check(vctx.ZonedBarangay != "" && a.Barangay == vctx.ZonedBarangay,
			"address.zone", "zone is only valid for the zoned barangay")
	}
}

func (c *checker) gender(id *models.Identity) {
	c.require("gender", string(id.Gender))
	c.check(id.Gender.IsValid(), "gender", "must be Male, Female, or Other")
	if id.Gender == models.GenderOther {
		c.require("gender_other", id.GenderOther)
	}
}

func (c *checker) education(level models.EducationLevel) {
	c.require("education", string(level))
	c.check(level.IsValid(), "education", "unknown education level")
}

func (c *checker) employment(e *models.Employment) {
	c.require("employment.type", string(e.Type))
	c.check(e.Type.IsValid(), "employment.type", "unknown employment type")
	if e.Type == models.EmploymentEmployed {
		c.require("employment.occupation", e.Occupation)
		c.require("employment.skills", e.Skills)
		c.require("employment.employer_address", e.EmployerAddress)
	}
}

// Person validates a household head or spouse.
func Person(p *models.Person, kind EntityKind, vctx Context) Result {
	var c checker
	c.identity(&p.Identity)
	c.address(&p.Address, vctx)
	c.check(p.BirthDate != nil, "birth_date", "is required")
	c.check(p.Age != age.Unknown, "birth_date", "must not be in the future")
	c.require("age", p.Age)
	c.check(age.ValidLabel(p.Age), "age", "must read like \"<n> years old\" in hours, days, months, or years")
	c.gender(&p.Identity)
	c.require("civil_status", string(p.CivilStatus))
	c.check(p.CivilStatus.IsValid(), "civil_status", "unknown civil status")
	c.require("phone", p.Phone)
	c.require("identification.type", p.Identification.Type)
	if p.Identification.Type != models.IDTypeNone {
		c.require("identification.number", p.Identification.Number)
	}
	c.employment(&p.Employment)
	c.education(p.Education)
	return c.res
}

// Dependent validates a child or other household member.
func Dependent(d models.Dependent, vctx Context) Result {
	info := d.Info()
	var c checker
	c.identity(&info.Identity)
	c.require("relation", info.Relation)
	c.gender(&info.Identity)
	c.require("age", info.Age)
	c.check(age.ValidLabel(info.Age), "age", "must read like \"<n> years old\" in hours, days, months, or years")
	c.check(info.BirthDate != nil, "birth_date", "is required")
	c.education(info.Education)

	child, ok := d.(*models.Child)
	if !ok {
		return c.res
	}
	c.check(models.IsChildRelation(info.Relation), "relation", "must be Son or Daughter for a child")
	c.check(child.LivingWithParents.IsAnswered(), "living_with_parents", "is required")
	if child.LivingWithParents == models.No {
		c.address(&child.Address, vctx)
	}
	return c.res
}

// Census validates the survey answers.
func Census(a *models.CensusAnswers) Result {
	var c checker
	answers := []struct {
		field string
		value models.YesNo
	}{
		{"owns_house", a.OwnsHouse},
		{"is_renting", a.IsRenting},
		{"has_own_comfort_room", a.HasOwnComfortRoom},
		{"has_own_water_supply", a.HasOwnWaterSupply},
		{"has_own_electricity", a.HasOwnElectricity},
	}
	for _, ans := range answers {
		c.check(ans.value.IsAnswered(), ans.field, "is required")
	}
	c.require("years_in_locality", a.YearsInLocality)
	c.check(a.IsRegisteredVoter.IsAnswered(), "is_registered_voter", "is required")
	if a.IsRegisteredVoter == models.Yes {
		c.require("voter_precinct_no", a.VoterPrecinctNo)
	}
	return c.res
}
