package models

import (
	"encoding/json"
	"fmt"
)

// DependentKind is the variant tag of a Dependent.
type DependentKind string

const (
	DependentKindChild DependentKind = "child"
	DependentKindOther DependentKind = "other"
)

// Relation labels that make a dependent a Child.
const (
	RelationSon      = "Son"
	RelationDaughter = "Daughter"
)

// IsChildRelation reports whether relation selects the Child variant.
func IsChildRelation(relation string) bool {
	return relation == RelationSon || relation == RelationDaughter
}

// YesNo is a tri-state answer: Yes, No, or unanswered.
type YesNo string

const (
	Yes   YesNo = "Yes"
	No    YesNo = "No"
	Unset YesNo = ""
)

func (y YesNo) IsAnswered() bool {
	return y == Yes || y == No
}

// Dependent is either a *Child or an *OtherMember.
type Dependent interface {
	Kind() DependentKind
	// Info exposes the fields both variants share for in-place updates.
	Info() *DependentInfo
	Clone() Dependent
	isDependent()
}

// DependentInfo is the Person shape minus identification, plus a relation.
type DependentInfo struct {
	Identity
	Relation string `json:"relation"`
}

// Child is a son or daughter of the household head.
type Child struct {
	DependentInfo
	LivingWithParents YesNo   `json:"living_with_parents"`
	Address           Address `json:"address"`
}

func (c *Child) Kind() DependentKind  { return DependentKindChild }
func (c *Child) Info() *DependentInfo { return &c.DependentInfo }
func (c *Child) isDependent()         {}

// MirrorsHeadAddress reports whether the address follows the household head.
func (c *Child) MirrorsHeadAddress() bool { return c.LivingWithParents == Yes }

func (c *Child) Clone() Dependent {
	cp := *c
	cp.BirthDate = cloneTime(c.BirthDate)
	return &cp
}

// OtherMember is any non-child household member. Its address is not collected.
type OtherMember struct {
	DependentInfo
}

func (o *OtherMember) Kind() DependentKind  { return DependentKindOther }
func (o *OtherMember) Info() *DependentInfo { return &o.DependentInfo }
func (o *OtherMember) isDependent()         {}

func (o *OtherMember) Clone() Dependent {
	cp := *o
	cp.BirthDate = cloneTime(o.BirthDate)
	return &cp
}

// NewChild returns a blank child slot that lives with the head at headAddress.
func NewChild(headAddress Address) *Child {
	return &Child{LivingWithParents: Yes, Address: headAddress}
}

// NewOtherMember returns a blank other-member slot.
func NewOtherMember() *OtherMember {
	return &OtherMember{}
}

// Dependents is the ordered dependent list: children first, then other members.
type Dependents []Dependent

// Children returns the Child entries in order.
func (ds Dependents) Children() []*Child {
	var out []*Child
	for _, d := range ds {
		if c, ok := d.(*Child); ok {
			out = append(out, c)
		}
	}
	return out
}

// Others returns the OtherMember entries in order.
func (ds Dependents) Others() []*OtherMember {
	var out []*OtherMember
	for _, d := range ds {
		if o, ok := d.(*OtherMember); ok {
			out = append(out, o)
		}
	}
	return out
}

func (ds Dependents) Clone() Dependents {
	if ds == nil {
		return nil
	}
	out := make(Dependents, len(ds))
	for i, d := range ds {
		out[i] = d.Clone()
	}
	return out
}

type dependentEnvelope struct {
	Kind     DependentKind `json:"kind"`
	Relation string        `json:"relation"`
}

// UnmarshalJSON picks the variant from the explicit kind or, failing that,
// from the relation label.
func (ds *Dependents) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(Dependents, 0, len(raws))
	for i, raw := range raws {
		var env dependentEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("dependent %d: %w", i, err)
		}
		kind := env.Kind
		if kind == "" {
			kind = DependentKindOther
			if IsChildRelation(env.Relation) {
				kind = DependentKindChild
			}
		}
		var d Dependent
		switch kind {
		case DependentKindChild:
			d = &Child{}
		case DependentKindOther:
			d = &OtherMember{}
		default:
			return fmt.Errorf("dependent %d: unknown kind %q", i, kind)
		}
		if err := json.Unmarshal(raw, d); err != nil {
			return fmt.Errorf("dependent %d: %w", i, err)
		}
		out = append(out, d)
	}
	*ds = out
	return nil
}

// MarshalJSON writes each dependent with its kind tag.
func (ds Dependents) MarshalJSON() ([]byte, error) {
	type taggedChild struct {
		Kind DependentKind `json:"kind"`
		*Child
	}
	type taggedOther struct {
		Kind DependentKind `json:"kind"`
		*OtherMember
	}
	items := make([]any, 0, len(ds))
	for _, d := range ds {
		switch v := d.(type) {
		case *Child:
			items = append(items, taggedChild{Kind: DependentKindChild, Child: v})
		case *OtherMember:
			items = append(items, taggedOther{Kind: DependentKindOther, OtherMember: v})
		}
	}
	return json.Marshal(items)
}
