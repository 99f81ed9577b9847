package models

import (
	"strings"
	"time"
)

// Gender values accepted on a Person. Other requires free text in GenderOther.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// CivilStatus drives the spouse branch of the wizard.
type CivilStatus string

const (
	CivilStatusSingle    CivilStatus = "Single"
	CivilStatusMarried   CivilStatus = "Married"
	CivilStatusDivorced  CivilStatus = "Divorced"
	CivilStatusWidowed   CivilStatus = "Widowed"
	CivilStatusSeparated CivilStatus = "Separated"
	CivilStatusCommonLaw CivilStatus = "Common-Law"
	CivilStatusAnnulled  CivilStatus = "Annulled"
)

func (c CivilStatus) IsValid() bool {
	switch c {
	case CivilStatusSingle, CivilStatusMarried, CivilStatusDivorced, CivilStatusWidowed,
		CivilStatusSeparated, CivilStatusCommonLaw, CivilStatusAnnulled:
		return true
	}
	return false
}

// RequiresSpouse reports whether the spouse section must exist.
func (c CivilStatus) RequiresSpouse() bool {
	return c == CivilStatusMarried
}

// EmploymentType classifies a person's work situation.
type EmploymentType string

const (
	EmploymentEmployed     EmploymentType = "employed"
	EmploymentSelfEmployed EmploymentType = "self-employed"
	EmploymentStudent      EmploymentType = "student"
	EmploymentRetired      EmploymentType = "retired"
	EmploymentUnemployed   EmploymentType = "unemployed"
)

func (e EmploymentType) IsValid() bool {
	switch e {
	case EmploymentEmployed, EmploymentSelfEmployed, EmploymentStudent, EmploymentRetired, EmploymentUnemployed:
		return true
	}
	return false
}

// EducationLevel is the highest level attained.
type EducationLevel string

const (
	EducationNone       EducationLevel = "None"
	EducationElementary EducationLevel = "Elementary"
	EducationHighSchool EducationLevel = "High School"
	EducationVocational EducationLevel = "Vocational"
	EducationCollege    EducationLevel = "College"
	EducationPostGrad   EducationLevel = "Post Graduate"
)

func (e EducationLevel) IsValid() bool {
	switch e {
	case EducationNone, EducationElementary, EducationHighSchool, EducationVocational, EducationCollege, EducationPostGrad:
		return true
	}
	return false
}

const (
	// IDTypeNone marks a person without identification.
	IDTypeNone = "No ID"
	// IDNumberNone is the number stored when IDTypeNone is selected.
	IDNumberNone = "N/A"
)

// Address is a free-text line plus the four-level administrative hierarchy.
// Codes are opaque and resolved to names by the reference address service.
type Address struct {
	Line     string `json:"line"`
	Region   string `json:"region"`
	Province string `json:"province"`
	City     string `json:"city"`
	Barangay string `json:"barangay"`
	Zone     string `json:"zone,omitempty"`
}

// Identification is the single ID record kept for a head or spouse.
type Identification struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

// Normalize applies the "No ID" rule.
func (i *Identification) Normalize() {
	if i.Type == IDTypeNone {
		i.Number = IDNumberNone
	}
}

// Employment holds work details; the detail fields matter only when employed.
type Employment struct {
	Type            EmploymentType `json:"type"`
	Occupation      string         `json:"occupation,omitempty"`
	Skills          string         `json:"skills,omitempty"`
	EmployerAddress string         `json:"employer_address,omitempty"`
}

// Identity is the name and demographic block shared by persons and dependents.
type Identity struct {
	FirstName     string         `json:"first_name"`
	LastName      string         `json:"last_name"`
	MiddleName    string         `json:"middle_name,omitempty"`
	MiddleInitial string         `json:"middle_initial,omitempty"`
	Suffix        string         `json:"suffix,omitempty"`
	BirthDate     *time.Time     `json:"birth_date,omitempty"`
	Age           string         `json:"age"`
	Gender        Gender         `json:"gender"`
	GenderOther   string         `json:"gender_other,omitempty"`
	CivilStatus   CivilStatus    `json:"civil_status,omitempty"`
	Religion      string         `json:"religion,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	Employment    Employment     `json:"employment"`
	Education     EducationLevel `json:"education"`
}

// DeriveMiddleInitial fills MiddleInitial from MiddleName.
func (i *Identity) DeriveMiddleInitial() {
	m := strings.TrimSpace(i.MiddleName)
	if m == "" {
		i.MiddleInitial = ""
		return
	}
	i.MiddleInitial = strings.ToUpper(string([]rune(m)[:1])) + "."
}

// Person is a household head or spouse.
type Person struct {
	Identity
	Address        Address        `json:"address"`
	Identification Identification `json:"identification"`
}

// Clone returns a deep copy.
func (p *Person) Clone() *Person {
	if p == nil {
		return nil
	}
	c := *p
	c.BirthDate = cloneTime(p.BirthDate)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
