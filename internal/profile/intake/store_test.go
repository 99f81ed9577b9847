package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"residentportal/internal/profile/models"
	dErrors "residentportal/pkg/domain-errors"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type StoreSuite struct {
	suite.Suite
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = New(WithClock(func() time.Time { return fixedNow }))
}

func headAt(addr models.Address, status models.CivilStatus) models.Person {
	born := time.Date(1985, 1, 10, 0, 0, 0, 0, time.UTC)
	return models.Person{
		Identity: models.Identity{FirstName: "Maria", LastName: "Clara", MiddleName: "delos", BirthDate: &born, CivilStatus: status},
		Address:  addr,
	}
}

var (
	homeAddr  = models.Address{Region: "R03", Province: "P1", City: "C1", Barangay: "B1"}
	movedAddr = models.Address{Region: "R04", Province: "P9", City: "C9", Barangay: "B9"}
)

func (s *StoreSuite) TestSetHousehold() {
	s.Run("derives middle initial and age", func() {
		s.store.SetHousehold(headAt(homeAddr, models.CivilStatusSingle))
		snap := s.store.Snapshot()
		s.Equal("D.", snap.Head.MiddleInitial)
		s.Equal("41 years old", snap.Head.Age)
		s.True(s.store.Dirty(SectionHousehold))
	})

	s.Run("leaving Married drops the spouse", func() {
		s.store.SetHousehold(headAt(homeAddr, models.CivilStatusMarried))
		s.Require().NoError(s.store.SetSpouse(&models.Person{Identity: models.Identity{FirstName: "Crisostomo"}}))
		s.store.MarkSaved(SectionSpouse)

		s.store.SetHousehold(headAt(homeAddr, models.CivilStatusWidowed))
		s.Nil(s.store.Snapshot().Spouse)
		s.True(s.store.Dirty(SectionSpouse))
	})

	s.Run("spouse is refused for an unmarried head", func() {
		s.store.SetHousehold(headAt(homeAddr, models.CivilStatusSingle))
		err := s.store.SetSpouse(&models.Person{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *StoreSuite) TestResizeDependentSlots() {
	s.store.SetHousehold(headAt(homeAddr, models.CivilStatusSingle))

	s.Run("new child slots mirror the head and live with parents", func() {
		s.Require().NoError(s.store.ResizeDependentSlots(2, 1))
		snap := s.store.Snapshot()
		s.Require().Len(snap.Dependents, 3)
		children := snap.Dependents.Children()
		s.Require().Len(children, 2)
		s.Equal(models.Yes, children[0].LivingWithParents)
		s.Equal(homeAddr, children[0].Address)
		s.Equal(models.DependentKindOther, snap.Dependents[2].Kind())
		s.NoError(snap.CheckInvariants())
	})

	s.Run("is idempotent", func() {
		s.Require().NoError(s.store.ResizeDependentSlots(2, 1))
		once := s.store.Snapshot()
		version := s.store.Version()

		s.Require().NoError(s.store.ResizeDependentSlots(2, 1))
		s.Equal(once, s.store.Snapshot())
		s.Equal(version, s.store.Version())
	})

	s.Run("keeps entries in place and truncates extras", func() {
		snap := s.store.Snapshot()
		snap.Dependents[0].Info().FirstName = "First"
		snap.Dependents[1].Info().FirstName = "Second"
		s.store.SetDependents(snap.Dependents)

		s.Require().NoError(s.store.ResizeDependentSlots(1, 2))
		after := s.store.Snapshot()
		s.Require().Len(after.Dependents, 3)
		s.Equal("First", after.Dependents[0].Info().FirstName)
		s.Equal(1, after.ChildrenCount)
		s.Equal(2, after.OtherMembersCount)
		s.NoError(after.CheckInvariants())
	})

	s.Run("rejects negative counts", func() {
		s.Error(s.store.ResizeDependentSlots(-1, 0))
	})
}

func (s *StoreSuite) TestDerivedFields() {
	s.store.SetHousehold(headAt(homeAddr, models.CivilStatusSingle))
	born := fixedNow.AddDate(0, 0, -10)
	child := models.NewChild(models.Address{})
	child.BirthDate = &born
	child.Age = "99 years old"
	apart := models.NewChild(models.Address{Region: "R07"})
	apart.LivingWithParents = models.No
	s.store.SetDependents(models.Dependents{models.NewOtherMember(), child, apart})

	s.Run("children move ahead and counts follow the list", func() {
		snap := s.store.Snapshot()
		s.Equal(models.DependentKindChild, snap.Dependents[0].Kind())
		s.Equal(2, snap.ChildrenCount)
		s.Equal(1, snap.OtherMembersCount)
	})

	s.Run("age label is recomputed from the birth date", func() {
		s.Equal("10 days old", s.store.Snapshot().Dependents[0].Info().Age)
	})

	s.Run("head address change re-mirrors only children living with parents", func() {
		s.store.SetHousehold(headAt(movedAddr, models.CivilStatusSingle))
		children := s.store.Snapshot().Dependents.Children()
		s.Equal(movedAddr, children[0].Address)
		s.Equal("R07", children[1].Address.Region)
	})
}

func (s *StoreSuite) TestReconcile() {
	remote := &models.ResidentProfile{
		Head:   headAt(homeAddr, models.CivilStatusSingle),
		Census: models.CensusAnswers{YearsInLocality: "30"},
	}
	remote.Head.FirstName = "Remote"

	s.Run("clean sections take remote data", func() {
		applied := s.store.Reconcile(remote)
		s.ElementsMatch(AllSections, applied)
		s.Equal("Remote", s.store.Snapshot().Head.FirstName)
		s.False(s.store.IsDirty())
	})

	s.Run("dirty sections keep local edits", func() {
		local := headAt(homeAddr, models.CivilStatusSingle)
		local.FirstName = "Local"
		s.store.SetHousehold(local)

		changed := remote.Clone()
		changed.Head.FirstName = "Admin"
		changed.Census.YearsInLocality = "31"
		applied := s.store.Reconcile(changed)

		s.NotContains(applied, SectionHousehold)
		snap := s.store.Snapshot()
		s.Equal("Local", snap.Head.FirstName)
		s.Equal("31", snap.Census.YearsInLocality)
	})

	s.Run("saved sections accept remote data again", func() {
		s.store.MarkSaved(SectionHousehold)
		s.store.Reconcile(remote)
		s.Equal("Remote", s.store.Snapshot().Head.FirstName)
	})

	s.Run("nil remote changes nothing", func() {
		s.Empty(s.store.Reconcile(nil))
	})
}

func (s *StoreSuite) TestResetAndSeed() {
	s.store.SetCensus(models.CensusAnswers{YearsInLocality: "2"})
	s.True(s.store.IsDirty())
	s.Equal([]Section{SectionCensus}, s.store.DirtySections())

	s.store.Reset()
	s.False(s.store.IsDirty())
	s.True(s.store.Snapshot().IsEmpty())
	s.NoError(s.store.CheckInvariants())
}
