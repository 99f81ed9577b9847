package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"residentportal/internal/profile/age"
	"residentportal/internal/profile/models"
	dErrors "residentportal/pkg/domain-errors"
)

type ValidationSuite struct {
	suite.Suite
	vctx Context
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationSuite))
}

func (s *ValidationSuite) SetupTest() {
	s.vctx = Context{ZonedBarangay: "BRGY-ZONED"}
}

func birth(y int) *time.Time {
	t := time.Date(y, 6, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func validAddress() models.Address {
	return models.Address{Line: "12 Mabini St", Region: "R03", Province: "P0314", City: "C031403", Barangay: "B0314030"}
}

func validHead() *models.Person {
	return &models.Person{
		Identity: models.Identity{
			FirstName:   "Jose",
			LastName:    "Rizal",
			BirthDate:   birth(1980),
			Age:         "46 years old",
			Gender:      models.GenderMale,
			CivilStatus: models.CivilStatusSingle,
			Phone:       "09171234567",
			Employment:  models.Employment{Type: models.EmploymentRetired},
			Education:   models.EducationCollege,
		},
		Address:        validAddress(),
		Identification: models.Identification{Type: "Passport", Number: "P1234567"},
	}
}

func validChild() *models.Child {
	c := models.NewChild(validAddress())
	c.FirstName = "Ana"
	c.LastName = "Rizal"
	c.Relation = models.RelationDaughter
	c.Gender = models.GenderFemale
	c.BirthDate = birth(2015)
	c.Age = "11 years old"
	c.Education = models.EducationElementary
	return c
}

func validOther() *models.OtherMember {
	o := models.NewOtherMember()
	o.FirstName = "Lola"
	o.LastName = "Rizal"
	o.Relation = "Grandmother"
	o.Gender = models.GenderFemale
	o.BirthDate = birth(1950)
	o.Age = "76 years old"
	o.Education = models.EducationNone
	return o
}

func validCensus() *models.CensusAnswers {
	return &models.CensusAnswers{
		OwnsHouse:         models.Yes,
		IsRenting:         models.No,
		HasOwnComfortRoom: models.Yes,
		HasOwnWaterSupply: models.Yes,
		HasOwnElectricity: models.Yes,
		IsRegisteredVoter: models.No,
		YearsInLocality:   "12",
	}
}

func (s *ValidationSuite) TestPerson() {
	s.Run("valid head passes", func() {
		s.True(Validate(validHead(), KindHead, s.vctx).IsValid())
	})

	s.Run("fails fast on the first missing field", func() {
		p := validHead()
		p.FirstName = ""
		p.Phone = ""
		r := Validate(p, KindHead, s.vctx)
		s.Equal("first_name", r.Field)
	})

	s.Run("missing region is reported before birth date", func() {
		p := validHead()
		p.Address.Region = ""
		p.BirthDate = nil
		s.Equal("address.region", Validate(p, KindHead, s.vctx).Field)
	})

	s.Run("No ID waives the number", func() {
		p := validHead()
		p.Identification = models.Identification{Type: models.IDTypeNone}
		s.True(Validate(p, KindSpouse, s.vctx).IsValid())
	})

	s.Run("other ID types require a number", func() {
		p := validHead()
		p.Identification.Number = " "
		s.Equal("identification.number", Validate(p, KindHead, s.vctx).Field)
	})

	s.Run("employed requires occupation details", func() {
		p := validHead()
		p.Employment = models.Employment{Type: models.EmploymentEmployed, Occupation: "Teacher"}
		s.Equal("employment.skills", Validate(p, KindHead, s.vctx).Field)
	})

	s.Run("gender Other requires free text", func() {
		p := validHead()
		p.Gender = models.GenderOther
		s.Equal("gender_other", Validate(p, KindHead, s.vctx).Field)
	})

	s.Run("zone outside the zoned barangay is invalid", func() {
		p := validHead()
		p.Address.Zone = "4"
		s.Equal("address.zone", Validate(p, KindHead, s.vctx).Field)

		p.Address.Barangay = "BRGY-ZONED"
		s.True(Validate(p, KindHead, s.vctx).IsValid())
	})

	s.Run("future birth date is invalid", func() {
		p := validHead()
		p.BirthDate = birth(2099)
		p.Age = age.ComputeLabel(p.BirthDate, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
		r := Validate(p, KindSpouse, s.vctx)
		s.Equal("birth_date", r.Field)
		s.Equal("must not be in the future", r.Reason)
	})

	s.Run("age must be a derived label", func() {
		p := validHead()
		p.Age = "forty"
		s.Equal("age", Validate(p, KindHead, s.vctx).Field)
	})

	s.Run("wrong entity type is invalid", func() {
		s.False(Validate(validCensus(), KindHead, s.vctx).IsValid())
	})
}

func (s *ValidationSuite) TestChild() {
	s.Run("valid child passes", func() {
		s.True(Validate(validChild(), KindChild, s.vctx).IsValid())
	})

	s.Run("living apart with blank region always fails", func() {
		c := validChild()
		c.LivingWithParents = models.No
		c.Address.Region = ""
		s.Equal("address.region", Validate(c, KindChild, s.vctx).Field)
	})

	s.Run("living with parents never requires region", func() {
		c := validChild()
		c.LivingWithParents = models.Yes
		c.Address = models.Address{}
		s.True(Validate(c, KindChild, s.vctx).IsValid())
	})

	s.Run("unanswered living arrangement fails", func() {
		c := validChild()
		c.LivingWithParents = models.Unset
		s.Equal("living_with_parents", Validate(c, KindChild, s.vctx).Field)
	})

	s.Run("age without the word old fails the format rule", func() {
		c := validChild()
		c.Age = "3 years"
		r := Validate(c, KindChild, s.vctx)
		s.Equal("age", r.Field)
		s.Contains(r.Reason, "years old")
	})

	s.Run("kind mismatch is rejected", func() {
		s.Equal("relation", Validate(validChild(), KindOtherMember, s.vctx).Field)
	})
}

func (s *ValidationSuite) TestOtherMember() {
	s.Run("address is never required", func() {
		o := validOther()
		s.True(Validate(o, KindOtherMember, s.vctx).IsValid())
	})

	s.Run("education is required", func() {
		o := validOther()
		o.Education = ""
		s.Equal("education", Validate(o, KindOtherMember, s.vctx).Field)
	})
}

func (s *ValidationSuite) TestCensus() {
	s.Run("registered voter without precinct fails", func() {
		c := validCensus()
		c.IsRegisteredVoter = models.Yes
		r := Validate(c, KindCensus, s.vctx)
		s.Equal("voter_precinct_no", r.Field)
	})

	s.Run("non voter never requires precinct", func() {
		c := validCensus()
		c.IsRegisteredVoter = models.No
		c.VoterPrecinctNo = ""
		s.True(Validate(c, KindCensus, s.vctx).IsValid())
	})

	s.Run("unanswered yes/no field fails", func() {
		c := validCensus()
		c.HasOwnWaterSupply = models.Unset
		s.Equal("has_own_water_supply", Validate(c, KindCensus, s.vctx).Field)
	})
}

func (s *ValidationSuite) TestProfile() {
	s.Run("married head without spouse names the spouse", func() {
		p := &models.ResidentProfile{Head: *validHead(), Census: *validCensus()}
		p.Head.CivilStatus = models.CivilStatusMarried

		r := Profile(p, s.vctx)
		s.Equal("spouse", r.Field)
		err := r.Err()
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("spouse", dErrors.FieldOf(err))
	})

	s.Run("dependent failures carry their index", func() {
		bad := validOther()
		bad.Age = "3 years"
		p := &models.ResidentProfile{
			Head:              *validHead(),
			Census:            *validCensus(),
			Dependents:        models.Dependents{validChild(), bad},
			ChildrenCount:     1,
			OtherMembersCount: 1,
		}
		s.Equal("dependents[1].age", Profile(p, s.vctx).Field)
	})

	s.Run("complete profile passes", func() {
		p := &models.ResidentProfile{Head: *validHead(), Census: *validCensus()}
		s.True(Profile(p, s.vctx).IsValid())
		s.NoError(Profile(p, s.vctx).Err())
	})
}
