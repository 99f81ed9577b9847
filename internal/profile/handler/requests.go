package handler

import (
	"net/http"
	"strings"

	"residentportal/internal/profile/wizard"
	dErrors "residentportal/pkg/domain-errors"
	"residentportal/pkg/platform/httputil"
)

const maxReasonLength = 500

// DeclareCompositionRequest resizes the dependent slots ahead of filling them.
type DeclareCompositionRequest struct {
	ChildrenCount     int `json:"children_count"`
	OtherMembersCount int `json:"other_members_count"`
}

func (r *DeclareCompositionRequest) Validate() error {
	if r.ChildrenCount < 0 {
		return dErrors.NewField(dErrors.CodeValidation, "children_count", "must not be negative")
	}
	if r.OtherMembersCount < 0 {
		return dErrors.NewField(dErrors.CodeValidation, "other_members_count", "must not be negative")
	}
	return nil
}

// SelectTabRequest switches the confirmation tab.
type SelectTabRequest struct {
	Tab wizard.Tab `json:"tab"`
}

func (r *SelectTabRequest) Validate() error {
	if !r.Tab.IsValid() {
		return dErrors.NewField(dErrors.CodeValidation, "tab", "unknown tab")
	}
	return nil
}

// RequestUpdateRequest asks to reopen an approved profile.
type RequestUpdateRequest struct {
	Reason string `json:"reason"`
}

func (r *RequestUpdateRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		return dErrors.NewField(dErrors.CodeValidation, "reason", "is required")
	}
	if len(r.Reason) > maxReasonLength {
		return dErrors.NewField(dErrors.CodeValidation, "reason", "is too long")
	}
	return nil
}

func decodeStepInput(r *http.Request, step wizard.Step) (wizard.StepInput, error) {
	switch step {
	case wizard.StepHouseholdHead:
		return decodeInput[wizard.HouseholdInput](r)
	case wizard.StepSpouse:
		return decodeInput[wizard.SpouseInput](r)
	case wizard.StepComposition:
		return decodeInput[wizard.CompositionInput](r)
	case wizard.StepCensus:
		return decodeInput[wizard.CensusInput](r)
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown step")
	}
}

func decodeInput[T wizard.StepInput](r *http.Request) (wizard.StepInput, error) {
	var in T
	if err := httputil.DecodeJSON(r, &in); err != nil {
		return nil, err
	}
	return in, nil
}
