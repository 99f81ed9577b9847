// Package address resolves Philippine address codes (region, province,
// city/municipality, barangay) against reference data.
package address

import "fmt"

// Level is one tier of the address hierarchy.
type Level string

const (
	LevelRegion   Level = "region"
	LevelProvince Level = "province"
	LevelCity     Level = "city"
	LevelBarangay Level = "barangay"
)

// Place is one reference entry.
type Place struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Resolved carries the display names for a stored address.
type Resolved struct {
	Region   Place `json:"region"`
	Province Place `json:"province"`
	City     Place `json:"city"`
	Barangay Place `json:"barangay"`
}

// Label renders "Barangay, City, Province, Region".
func (r Resolved) Label() string {
	return fmt.Sprintf("%s, %s, %s, %s", r.Barangay.Name, r.City.Name, r.Province.Name, r.Region.Name)
}

func findPlace(places []Place, code string) (Place, bool) {
	for _, p := range places {
		if p.Code == code {
			return p, true
		}
	}
	return Place{}, false
}
