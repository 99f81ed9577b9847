package wizard

import "residentportal/internal/profile/models"

// Step tags the wizard pages.
type Step string

const (
	StepHouseholdHead Step = "household_head"
	StepSpouse        Step = "spouse"
	StepComposition   Step = "composition"
	StepCensus        Step = "census"
	StepConfirmation  Step = "confirmation"
)

// StepsFor returns the ordered step sequence for the head's civil status.
// The Spouse step is present only for Married.
func StepsFor(civilStatus models.CivilStatus) []Step {
	if civilStatus.RequiresSpouse() {
		return []Step{StepHouseholdHead, StepSpouse, StepComposition, StepCensus, StepConfirmation}
	}
	return []Step{StepHouseholdHead, StepComposition, StepCensus, StepConfirmation}
}

func indexOf(steps []Step, step Step) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}

// Tab is a read-only section of the Confirmation step.
type Tab string

const (
	TabHead        Tab = "head"
	TabSpouse      Tab = "spouse"
	TabComposition Tab = "composition"
	TabCensus      Tab = "census"
)

func (t Tab) IsValid() bool {
	switch t {
	case TabHead, TabSpouse, TabComposition, TabCensus:
		return true
	}
	return false
}

// StepInput is the data a step submits when advancing.
type StepInput interface {
	Step() Step
}

// HouseholdInput completes the HouseholdHead step.
type HouseholdInput struct {
	Head models.Person `json:"household_head"`
}

// SpouseInput completes the Spouse step.
type SpouseInput struct {
	Spouse models.Person `json:"spouse"`
}

// CompositionInput completes the Composition step. The declared counts must
// match the entries supplied.
type CompositionInput struct {
	ChildrenCount     int               `json:"children_count"`
	OtherMembersCount int               `json:"other_members_count"`
	Dependents        models.Dependents `json:"dependents"`
}

// CensusInput completes the Census step.
type CensusInput struct {
	Census models.CensusAnswers `json:"census"`
}

func (HouseholdInput) Step() Step   { return StepHouseholdHead }
func (SpouseInput) Step() Step      { return StepSpouse }
func (CompositionInput) Step() Step { return StepComposition }
func (CensusInput) Step() Step      { return StepCensus }
