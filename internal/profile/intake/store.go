// Package intake holds the in-progress resident profile for one wizard session.
//
// The Store owns the aggregate, tracks which sections have unsaved local edits,
// and keeps derived fields (age labels, mirrored child addresses, dependent
// slot counts) consistent on every mutation. Background sync goes through
// Reconcile, which never overwrites a dirty section.
package intake

import (
	"fmt"
	"sync"
	"time"

	"residentportal/internal/profile/age"
	"residentportal/internal/profile/models"
	dErrors "residentportal/pkg/domain-errors"
)

// Section is a unit of dirty tracking and partial save.
type Section string

const (
	SectionHousehold   Section = "household"
	SectionSpouse      Section = "spouse"
	SectionComposition Section = "composition"
	SectionCensus      Section = "census"
)

// AllSections in wizard order.
var AllSections = []Section{SectionHousehold, SectionSpouse, SectionComposition, SectionCensus}

// Store is safe for concurrent use by the session owner and the sync poller.
type Store struct {
	mu      sync.RWMutex
	profile models.ResidentProfile
	version uint64
	dirty   map[Section]bool
	now     func() time.Time
}

type Option func(*Store)

// WithClock overrides the reference time used for age labels.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{dirty: make(map[Section]bool), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed replaces the whole aggregate with persisted state and clears dirty marks.
func (s *Store) Seed(p *models.ResidentProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.profile = models.ResidentProfile{}
	} else {
		s.profile = *p.Clone()
	}
	s.dirty = make(map[Section]bool)
	s.refreshDerived()
	s.version++
}

// Reset clears the store back to an empty profile.
func (s *Store) Reset() {
	s.Seed(nil)
}

// SetHousehold replaces the household head. Leaving Married drops the spouse.
func (s *Store) SetHousehold(p models.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	head := p.Clone()
	head.DeriveMiddleInitial()
	head.Identification.Normalize()
	s.profile.Head = *head
	if !head.CivilStatus.RequiresSpouse() && s.profile.Spouse != nil {
		s.profile.Spouse = nil
		s.markDirty(SectionSpouse)
	}
	s.refreshDerived()
	s.markDirty(SectionHousehold)
}

// SetSpouse sets or clears the spouse. A spouse is only accepted while the
// household head is Married.
func (s *Store) SetSpouse(p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p != nil && !s.profile.Head.CivilStatus.RequiresSpouse() {
		return dErrors.New(dErrors.CodeInvariantViolation, "spouse requires a married household head")
	}
	spouse := p.Clone()
	if spouse != nil {
		spouse.DeriveMiddleInitial()
		spouse.Identification.Normalize()
	}
	s.profile.Spouse = spouse
	s.refreshDerived()
	s.markDirty(SectionSpouse)
	return nil
}

// SetDependents replaces the dependent list. Children are moved ahead of
// other members and the declared counts follow the list.
func (s *Store) SetDependents(list models.Dependents) {
	s.mu.Lock()
	defer s.mu.Unlock()
	children, others := split(list.Clone())
	s.profile.Dependents = join(children, others)
	s.profile.ChildrenCount = len(children)
	s.profile.OtherMembersCount = len(others)
	s.refreshDerived()
	s.markDirty(SectionComposition)
}

// SetCensus replaces the census answers.
func (s *Store) SetCensus(c models.CensusAnswers) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Census = c
	s.markDirty(SectionCensus)
}

// ResizeDependentSlots grows or truncates each dependent kind to the given
// count. Existing entries keep their position; new child slots mirror the
// head address and default to living with parents. Calling it again with the
// same counts changes nothing.
func (s *Store) ResizeDependentSlots(childrenCount, otherCount int) error {
	if childrenCount < 0 || otherCount < 0 {
		return dErrors.NewField(dErrors.CodeValidation, "children_count", "counts cannot be negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	children, others := split(s.profile.Dependents)
	if len(children) == childrenCount && len(others) == otherCount &&
		s.profile.ChildrenCount == childrenCount && s.profile.OtherMembersCount == otherCount {
		return nil
	}
	children = resize(children, childrenCount, func() models.Dependent {
		return models.NewChild(s.profile.Head.Address)
	})
	others = resize(others, otherCount, func() models.Dependent {
		return models.NewOtherMember()
	})
	s.profile.Dependents = join(children, others)
	s.profile.ChildrenCount = childrenCount
	s.profile.OtherMembersCount = otherCount
	s.refreshDerived()
	s.markDirty(SectionComposition)
	return nil
}

// PreparePerson returns a copy of p with derived fields filled in, as
// SetHousehold and SetSpouse would store it. The store is not modified.
func (s *Store) PreparePerson(p models.Person) models.Person {
	out := p.Clone()
	out.DeriveMiddleInitial()
	out.Identification.Normalize()
	if out.BirthDate != nil {
		out.Age = age.ComputeLabel(out.BirthDate, s.now())
	}
	return *out
}

// PrepareDependents returns list ordered and derived as SetDependents would
// store it, mirroring the current head address. The store is not modified.
func (s *Store) PrepareDependents(list models.Dependents) models.Dependents {
	s.mu.RLock()
	headAddr := s.profile.Head.Address
	s.mu.RUnlock()
	children, others := split(list.Clone())
	out := join(children, others)
	deriveDependents(out, headAddr, s.now())
	return out
}

// Snapshot returns a deep copy of the aggregate.
func (s *Store) Snapshot() *models.ResidentProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Clone()
}

// Version increases on every change.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Dirty reports whether a section has unsaved local edits.
func (s *Store) Dirty(section Section) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty[section]
}

// IsDirty reports whether any section has unsaved local edits.
func (s *Store) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dirty) > 0
}

// DirtySections lists unsaved sections in wizard order.
func (s *Store) DirtySections() []Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Section
	for _, sec := range AllSections {
		if s.dirty[sec] {
			out = append(out, sec)
		}
	}
	return out
}

// MarkSaved clears the dirty marks of persisted sections. Saving counts as a
// change so state read from the store before the save is seen as stale.
func (s *Store) MarkSaved(sections ...Section) {
	if len(sections) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sec := range sections {
		delete(s.dirty, sec)
	}
	s.version++
}

// Reconcile merges persisted state into the store: a section is overwritten
// only when it has no unsaved local edits. Returns the sections applied.
func (s *Store) Reconcile(remote *models.ResidentProfile) []Section {
	if remote == nil {
		return nil
	}
	r := remote.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	var applied []Section
	if !s.dirty[SectionHousehold] {
		s.profile.Head = r.Head
		applied = append(applied, SectionHousehold)
	}
	if !s.dirty[SectionSpouse] {
		s.profile.Spouse = r.Spouse
		applied = append(applied, SectionSpouse)
	}
	if !s.dirty[SectionComposition] {
		s.profile.Dependents = r.Dependents
		s.profile.ChildrenCount = r.ChildrenCount
		s.profile.OtherMembersCount = r.OtherMembersCount
		applied = append(applied, SectionComposition)
	}
	if !s.dirty[SectionCensus] {
		s.profile.Census = r.Census
		applied = append(applied, SectionCensus)
	}
	if !s.profile.Head.CivilStatus.RequiresSpouse() {
		s.profile.Spouse = nil
	}
	if len(applied) > 0 {
		s.refreshDerived()
		s.version++
	}
	return applied
}

// CheckInvariants reports an InconsistentState error if the aggregate is off.
func (s *Store) CheckInvariants() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.profile.CheckInvariants(); err != nil {
		return fmt.Errorf("intake store: %w", err)
	}
	return nil
}

func (s *Store) markDirty(section Section) {
	s.dirty[section] = true
	s.version++
}

// refreshDerived recomputes age labels and mirrors the head address into
// children who live with their parents. Caller holds the write lock.
func (s *Store) refreshDerived() {
	now := s.now()
	head := &s.profile.Head
	if head.BirthDate != nil {
		head.Age = age.ComputeLabel(head.BirthDate, now)
	}
	if sp := s.profile.Spouse; sp != nil && sp.BirthDate != nil {
		sp.Age = age.ComputeLabel(sp.BirthDate, now)
	}
	deriveDependents(s.profile.Dependents, head.Address, now)
}

func deriveDependents(list models.Dependents, headAddr models.Address, now time.Time) {
	for _, d := range list {
		info := d.Info()
		info.DeriveMiddleInitial()
		if info.BirthDate != nil {
			info.Age = age.ComputeLabel(info.BirthDate, now)
		}
		if c, ok := d.(*models.Child); ok && c.MirrorsHeadAddress() {
			c.Address = headAddr
		}
	}
}

func split(list models.Dependents) (children, others []models.Dependent) {
	for _, d := range list {
		if d.Kind() == models.DependentKindChild {
			children = append(children, d)
		} else {
			others = append(others, d)
		}
	}
	return children, others
}

func join(children, others []models.Dependent) models.Dependents {
	out := make(models.Dependents, 0, len(children)+len(others))
	out = append(out, children...)
	return append(out, others...)
}

func resize(list []models.Dependent, n int, blank func() models.Dependent) []models.Dependent {
	if len(list) >= n {
		return list[:n]
	}
	for len(list) < n {
		list = append(list, blank())
	}
	return list
}
