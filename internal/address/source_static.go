package address

import (
	"context"
	"fmt"

	"residentportal/pkg/platform/sentinel"
)

// StaticSource serves a fixed hierarchy held in memory.
type StaticSource struct {
	regions   []Place
	provinces map[string][]Place
	cities    map[string][]Place
	barangays map[string][]Place
}

// Node is a place and its children, used to build a StaticSource.
type Node struct {
	Place
	Children []Node
}

// NewStaticSource builds a source from region trees.
func NewStaticSource(regions ...Node) *StaticSource {
	s := &StaticSource{
		provinces: make(map[string][]Place),
		cities:    make(map[string][]Place),
		barangays: make(map[string][]Place),
	}
	for _, r := range regions {
		s.regions = append(s.regions, r.Place)
		for _, p := range r.Children {
			s.provinces[r.Code] = append(s.provinces[r.Code], p.Place)
			for _, c := range p.Children {
				s.cities[p.Code] = append(s.cities[p.Code], c.Place)
				for _, b := range c.Children {
					s.barangays[c.Code] = append(s.barangays[c.Code], b.Place)
				}
			}
		}
	}
	return s
}

func (s *StaticSource) List(_ context.Context, level Level, parentCode string) ([]Place, error) {
	var (
		places []Place
		ok     bool
	)
	switch level {
	case LevelRegion:
		return append([]Place(nil), s.regions...), nil
	case LevelProvince:
		places, ok = s.provinces[parentCode]
	case LevelCity:
		places, ok = s.cities[parentCode]
	case LevelBarangay:
		places, ok = s.barangays[parentCode]
	}
	if !ok {
		return nil, fmt.Errorf("%s under %q: %w", level, parentCode, sentinel.ErrNotFound)
	}
	return append([]Place(nil), places...), nil
}

// DevSource is a small hierarchy for local runs without the address API.
func DevSource() *StaticSource {
	return NewStaticSource(Node{
		Place: Place{Code: "R03", Name: "Central Luzon"},
		Children: []Node{{
			Place: Place{Code: "P0314", Name: "Bulacan"},
			Children: []Node{{
				Place: Place{Code: "C031403", Name: "City of Malolos"},
				Children: []Node{
					{Place: Place{Code: "B0314030", Name: "Bulihan"}},
					{Place: Place{Code: "B0314031", Name: "Santo Rosario"}},
				},
			}},
		}},
	})
}
