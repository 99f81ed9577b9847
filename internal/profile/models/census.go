package models

// CensusAnswers is the housing, utilities, and voter survey attached to a profile.
type CensusAnswers struct {
	OwnsHouse         YesNo  `json:"owns_house"`
	IsRenting         YesNo  `json:"is_renting"`
	HasOwnComfortRoom YesNo  `json:"has_own_comfort_room"`
	HasOwnWaterSupply YesNo  `json:"has_own_water_supply"`
	HasOwnElectricity YesNo  `json:"has_own_electricity"`
	IsRegisteredVoter YesNo  `json:"is_registered_voter"`
	YearsInLocality   string `json:"years_in_locality"`
	VoterPrecinctNo   string `json:"voter_precinct_no,omitempty"`
}
