// Package wizard sequences the intake steps for one resident session.
package wizard

import (
	"context"
	"fmt"
	"sync"

	"residentportal/internal/profile/intake"
	"residentportal/internal/profile/models"
	"residentportal/internal/profile/validation"
	id "residentportal/pkg/domain"
	dErrors "residentportal/pkg/domain-errors"
)

// ProfileSaver persists the in-progress aggregate after each completed step.
type ProfileSaver interface {
	UpsertProfile(ctx context.Context, residentID id.ResidentID, profile *models.ResidentProfile) error
}

// Controller owns the current step of one session. Each forward move
// validates the step, merges it into the Store, and saves the profile before
// the step changes.
type Controller struct {
	mu         sync.Mutex
	residentID id.ResidentID
	store      *intake.Store
	saver      ProfileSaver
	vctx       validation.Context

	current  Step
	married  bool
	readOnly bool
	tab      Tab
}

// New starts at the first step. The spouse branch follows the head already
// in the store, if any.
func New(residentID id.ResidentID, store *intake.Store, saver ProfileSaver, vctx validation.Context) *Controller {
	return &Controller{
		residentID: residentID,
		store:      store,
		saver:      saver,
		vctx:       vctx,
		current:    StepHouseholdHead,
		married:    store.Snapshot().Head.CivilStatus.RequiresSpouse(),
		tab:        TabHead,
	}
}

// Current returns the active step.
func (c *Controller) Current() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Steps returns the sequence in effect.
func (c *Controller) Steps() []Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.steps()
}

func (c *Controller) steps() []Step {
	if c.married {
		return StepsFor(models.CivilStatusMarried)
	}
	return StepsFor(models.CivilStatusSingle)
}

// Advance completes the current step with in and moves forward.
// On a validation or persistence failure the step does not change.
func (c *Controller) Advance(ctx context.Context, in StepInput) (Step, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return c.current, dErrors.New(dErrors.CodeForbidden, "profile is read-only in its current status")
	}
	if in == nil {
		return c.current, dErrors.New(dErrors.CodeBadRequest, "step input is required")
	}
	if c.current == StepConfirmation {
		return c.current, dErrors.New(dErrors.CodeBadRequest, "confirmation is completed by submitting the profile")
	}
	if in.Step() != c.current {
		return c.current, dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("expected input for step %q, got %q", c.current, in.Step()))
	}

	sections, err := c.merge(in)
	if err != nil {
		return c.current, err
	}

	if err := c.saver.UpsertProfile(ctx, c.residentID, c.store.Snapshot()); err != nil {
		return c.current, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to save step")
	}
	c.store.MarkSaved(sections...)

	steps := c.steps()
	c.current = steps[indexOf(steps, c.current)+1]
	if c.current == StepConfirmation {
		c.tab = TabHead
	}
	return c.current, nil
}

// merge validates in and applies it to the store, returning the sections to
// mark saved once persisted.
func (c *Controller) merge(in StepInput) ([]intake.Section, error) {
	switch v := in.(type) {
	case HouseholdInput:
		head := c.store.PreparePerson(v.Head)
		if r := validation.Person(&head, validation.KindHead, c.vctx); !r.IsValid() {
			return nil, r.Err()
		}
		c.store.SetHousehold(head)
		c.married = head.CivilStatus.RequiresSpouse()
		sections := []intake.Section{intake.SectionHousehold}
		if c.store.Dirty(intake.SectionSpouse) {
			sections = append(sections, intake.SectionSpouse)
		}
		return sections, nil

	case SpouseInput:
		spouse := c.store.PreparePerson(v.Spouse)
		if r := validation.Person(&spouse, validation.KindSpouse, c.vctx); !r.IsValid() {
			return nil, r.Err()
		}
		if err := c.store.SetSpouse(&spouse); err != nil {
			return nil, err
		}
		return []intake.Section{intake.SectionSpouse}, nil

	case CompositionInput:
		list := c.store.PrepareDependents(v.Dependents)
		if n := len(list.Children()); n != v.ChildrenCount {
			return nil, dErrors.NewField(dErrors.CodeValidation, "children_count",
				fmt.Sprintf("declared %d children but %d were provided", v.ChildrenCount, n))
		}
		if n := len(list.Others()); n != v.OtherMembersCount {
			return nil, dErrors.NewField(dErrors.CodeValidation, "other_members_count",
				fmt.Sprintf("declared %d other members but %d were provided", v.OtherMembersCount, n))
		}
		for i, d := range list {
			if r := validation.Dependent(d, c.vctx); !r.IsValid() {
				return nil, r.WithPrefix(fmt.Sprintf("dependents[%d]", i)).Err()
			}
		}
		c.store.SetDependents(list)
		return []intake.Section{intake.SectionComposition}, nil

	case CensusInput:
		if r := validation.Census(&v.Census); !r.IsValid() {
			return nil, r.Err()
		}
		c.store.SetCensus(v.Census)
		return []intake.Section{intake.SectionCensus}, nil
	}
	return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unsupported step input %T", in))
}

// Retreat moves one step back. It fails on the first step.
func (c *Controller) Retreat() (Step, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	steps := c.steps()
	i := indexOf(steps, c.current)
	if i <= 0 {
		return c.current, dErrors.New(dErrors.CodeBadRequest, "already at the first step")
	}
	c.current = steps[i-1]
	return c.current, nil
}

// CanRetreat reports whether Retreat would move.
func (c *Controller) CanRetreat() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return indexOf(c.steps(), c.current) > 0
}

// DeclareComposition pre-allocates dependent slots for the declared counts.
func (c *Controller) DeclareComposition(childrenCount, otherCount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return dErrors.New(dErrors.CodeForbidden, "profile is read-only in its current status")
	}
	return c.store.ResizeDependentSlots(childrenCount, otherCount)
}

// SelectTab switches the Confirmation sub-view. The outer step is unchanged.
func (c *Controller) SelectTab(tab Tab) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != StepConfirmation {
		return dErrors.New(dErrors.CodeBadRequest, "tabs are only available on the confirmation step")
	}
	if !tab.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown tab %q", tab))
	}
	if tab == TabSpouse && !c.married {
		return dErrors.New(dErrors.CodeBadRequest, "no spouse section for this household")
	}
	c.tab = tab
	return nil
}

// Tab returns the selected Confirmation tab.
func (c *Controller) Tab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// SetReadOnly toggles status gating.
func (c *Controller) SetReadOnly(readOnly bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readOnly = readOnly
}

func (c *Controller) ReadOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readOnly
}

// Reset empties the store and returns to the first step.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Reset()
	c.current = StepHouseholdHead
	c.married = false
	c.tab = TabHead
}

// Refresh re-reads the spouse branch from the store after a background
// reconcile changed the head. A current Spouse step that no longer applies
// falls through to Composition.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.married = c.store.Snapshot().Head.CivilStatus.RequiresSpouse()
	if !c.married {
		if c.current == StepSpouse {
			c.current = StepComposition
		}
		if c.tab == TabSpouse {
			c.tab = TabHead
		}
	}
}

// Store exposes the session's data store.
func (c *Controller) Store() *intake.Store {
	return c.store
}
