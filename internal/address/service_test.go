package address

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"residentportal/internal/profile/models"
	dErrors "residentportal/pkg/domain-errors"
	"residentportal/pkg/testutil"
)

type failingSource struct{}

func (failingSource) List(context.Context, Level, string) ([]Place, error) {
	return nil, errors.New("connection refused")
}

func TestResolveNames(t *testing.T) {
	svc := NewService(DevSource())
	addr := models.Address{Region: "R03", Province: "P0314", City: "C031403", Barangay: "B0314031"}

	got, err := svc.ResolveNames(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, "Santo Rosario", got.Barangay.Name)
	assert.Equal(t, "Santo Rosario, City of Malolos, Bulacan, Central Luzon", got.Label())
}

func TestResolveNamesUnknownBarangay(t *testing.T) {
	svc := NewService(DevSource())
	addr := models.Address{Region: "R03", Province: "P0314", City: "C031403", Barangay: "B9999999"}

	_, err := svc.ResolveNames(context.Background(), addr)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
	assert.Equal(t, "address.barangay", dErrors.FieldOf(err))
}

func TestResolveNamesMismatchedParent(t *testing.T) {
	svc := NewService(DevSource())
	addr := models.Address{Region: "R03", Province: "P9999", City: "C031403", Barangay: "B0314031"}

	_, err := svc.ResolveNames(context.Background(), addr)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestListings(t *testing.T) {
	svc := NewService(DevSource())
	ctx := context.Background()

	regions, err := svc.Regions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Place{{Code: "R03", Name: "Central Luzon"}}, regions)

	barangays, err := svc.BarangaysOf(ctx, "C031403")
	require.NoError(t, err)
	assert.Len(t, barangays, 2)

	_, err = svc.CitiesOf(ctx, "")
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
}

func TestSourceFailureIsUnavailable(t *testing.T) {
	_, err := NewService(failingSource{}).Regions(context.Background())
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnavailable))
}

func TestResolveNamesScenario(t *testing.T) {
	testutil.Given(t, "the built-in Bulacan hierarchy", func(t *testing.T) {
		svc := NewService(DevSource())

		testutil.When(t, "a stored head address is resolved", func(t *testing.T) {
			got, err := svc.ResolveNames(context.Background(), models.Address{
				Region: "R03", Province: "P0314", City: "C031403", Barangay: "B0314030",
			})

			testutil.Then(t, "every tier carries its display name", func(t *testing.T) {
				require.NoError(t, err)
				assert.Equal(t, "Central Luzon", got.Region.Name)
				assert.Equal(t, "Bulacan", got.Province.Name)
				assert.Equal(t, "City of Malolos", got.City.Name)
				assert.Equal(t, "Bulihan", got.Barangay.Name)
			})
		})
	})
}
