package service

import (
	"time"

	"residentportal/internal/profile/models"
)

func date(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

var homeAddress = models.Address{Line: "8 Rizal Ave", Region: "R03", Province: "P0314", City: "C031403", Barangay: "B0314030"}

func validPerson(first string, civil models.CivilStatus, gender models.Gender) models.Person {
	return models.Person{
		Identity: models.Identity{
			FirstName:   first,
			LastName:    "Dela Cruz",
			BirthDate:   date(1988, 2, 11),
			Age:         "38 years old",
			Gender:      gender,
			CivilStatus: civil,
			Phone:       "09181234567",
			Employment:  models.Employment{Type: models.EmploymentSelfEmployed},
			Education:   models.EducationCollege,
		},
		Address:        homeAddress,
		Identification: models.Identification{Type: "PhilSys", Number: "1234-5678-9012"},
	}
}

func validChild(first string) *models.Child {
	c := models.NewChild(homeAddress)
	c.FirstName = first
	c.LastName = "Dela Cruz"
	c.Relation = models.RelationDaughter
	c.Gender = models.GenderFemale
	c.BirthDate = date(2023, 5, 3)
	c.Age = "3 years old"
	c.Education = models.EducationNone
	return c
}

func validCensus() models.CensusAnswers {
	return models.CensusAnswers{
		OwnsHouse:         models.No,
		IsRenting:         models.Yes,
		HasOwnComfortRoom: models.Yes,
		HasOwnWaterSupply: models.Yes,
		HasOwnElectricity: models.Yes,
		IsRegisteredVoter: models.No,
		YearsInLocality:   "5",
	}
}

func validSingleProfile() *models.ResidentProfile {
	return &models.ResidentProfile{
		Head:          validPerson("Pedro", models.CivilStatusSingle, models.GenderMale),
		Dependents:    models.Dependents{validChild("Lina")},
		ChildrenCount: 1,
		Census:        validCensus(),
	}
}

func validMarriedProfile() *models.ResidentProfile {
	spouse := validPerson("Teresa", models.CivilStatusMarried, models.GenderFemale)
	p := validSingleProfile()
	p.Head.CivilStatus = models.CivilStatusMarried
	p.Spouse = &spouse
	return p
}

func statusPtr(s models.ProfileStatus) *models.ProfileStatus {
	return &s
}
