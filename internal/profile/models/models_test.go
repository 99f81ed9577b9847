package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "residentportal/pkg/domain-errors"
)

type StatusSuite struct {
	suite.Suite
}

func TestStatusSuite(t *testing.T) {
	suite.Run(t, new(StatusSuite))
}

func (s *StatusSuite) TestNextOnSubmission() {
	s.Run("first submission goes to initial review", func() {
		s.Equal(StatusPendingInitialReview, NextOnSubmission(nil))
	})

	s.Run("pending update request becomes update submitted", func() {
		current := StatusPendingUpdateRequest
		s.Equal(StatusUpdateSubmittedPendingReview, NextOnSubmission(&current))
	})

	s.Run("every other status returns to initial review", func() {
		for _, st := range AllStatuses {
			if st == StatusPendingUpdateRequest {
				continue
			}
			current := st
			s.Equal(StatusPendingInitialReview, NextOnSubmission(&current), st.String())
		}
	})
}

func (s *StatusSuite) TestTransitions() {
	s.Run("pending states can be decided", func() {
		for _, st := range []ProfileStatus{StatusPendingInitialReview, StatusPendingUpdateRequest, StatusUpdateSubmittedPendingReview} {
			s.True(st.CanTransitionTo(StatusApproved), st.String())
			s.True(st.CanTransitionTo(StatusRejected), st.String())
		}
	})

	s.Run("approved cannot be approved again", func() {
		s.False(StatusApproved.CanTransitionTo(StatusApproved))
		s.True(StatusApproved.CanTransitionTo(StatusPendingUpdateRequest))
		s.True(StatusApproved.CanTransitionTo(StatusRequiredToUpdate))
	})

	s.Run("rejected is terminal for administrators", func() {
		for _, st := range AllStatuses {
			s.False(StatusRejected.CanTransitionTo(st))
		}
	})
}

func (s *StatusSuite) TestGating() {
	s.True(StatusApproved.IsReadOnly())
	s.False(StatusPendingUpdateRequest.IsReadOnly())
	s.False(StatusRequiredToUpdate.IsReadOnly())
	s.True(StatusRejected.ClearsIntake())
	s.False(StatusApproved.ClearsIntake())
}

func (s *StatusSuite) TestTextEncoding() {
	raw, err := json.Marshal(StatusRecord{Status: StatusRequiredToUpdate})
	s.Require().NoError(err)
	s.Contains(string(raw), `"required_to_update"`)

	var decoded StatusRecord
	s.Require().NoError(json.Unmarshal(raw, &decoded))
	s.Equal(StatusRequiredToUpdate, decoded.Status)

	var bad ProfileStatus
	s.Error(bad.UnmarshalText([]byte("archived")))
}

func TestProfileInvariants(t *testing.T) {
	t.Run("spouse without marriage is inconsistent", func(t *testing.T) {
		p := &ResidentProfile{Head: Person{Identity: Identity{CivilStatus: CivilStatusSingle}}, Spouse: &Person{}}
		err := p.CheckInvariants()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("dependent count mismatch is inconsistent", func(t *testing.T) {
		p := &ResidentProfile{ChildrenCount: 2, Dependents: Dependents{NewChild(Address{})}}
		err := p.CheckInvariants()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("children must come first", func(t *testing.T) {
		p := &ResidentProfile{
			ChildrenCount:     1,
			OtherMembersCount: 1,
			Dependents:        Dependents{NewOtherMember(), NewChild(Address{})},
		}
		require.Error(t, p.CheckInvariants())
	})

	t.Run("consistent profile passes", func(t *testing.T) {
		p := &ResidentProfile{
			Head:              Person{Identity: Identity{CivilStatus: CivilStatusMarried}},
			Spouse:            &Person{},
			ChildrenCount:     1,
			OtherMembersCount: 1,
			Dependents:        Dependents{NewChild(Address{}), NewOtherMember()},
		}
		require.NoError(t, p.CheckInvariants())
	})
}

func TestDependentsJSON(t *testing.T) {
	born := time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC)
	child := NewChild(Address{Region: "03"})
	child.Relation = RelationDaughter
	child.FirstName = "Ana"
	child.BirthDate = &born
	other := NewOtherMember()
	other.Relation = "Grandmother"

	raw, err := json.Marshal(Dependents{child, other})
	require.NoError(t, err)

	var decoded Dependents
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)

	gotChild, ok := decoded[0].(*Child)
	require.True(t, ok)
	assert.Equal(t, "Ana", gotChild.FirstName)
	assert.Equal(t, Yes, gotChild.LivingWithParents)
	assert.Equal(t, "03", gotChild.Address.Region)
	assert.True(t, born.Equal(*gotChild.BirthDate))
	assert.Equal(t, DependentKindOther, decoded[1].Kind())

	t.Run("relation decides the variant when kind is absent", func(t *testing.T) {
		var ds Dependents
		require.NoError(t, json.Unmarshal([]byte(`[{"relation":"Son"},{"relation":"Uncle"}]`), &ds))
		assert.Equal(t, DependentKindChild, ds[0].Kind())
		assert.Equal(t, DependentKindOther, ds[1].Kind())
	})
}

func TestIdentityDerivedFields(t *testing.T) {
	id := Identity{MiddleName: " santos"}
	id.DeriveMiddleInitial()
	assert.Equal(t, "S.", id.MiddleInitial)

	ident := Identification{Type: IDTypeNone, Number: "123"}
	ident.Normalize()
	assert.Equal(t, IDNumberNone, ident.Number)
}
