package listings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubo/internal/domain/listings"
)

func TestNewCarValidation(t *testing.T) {
	params := listings.CreateParams{
		ID:             "car-1",
		HostID:         "host-1",
		Make:           "Toyota",
		Model:          "Avanza",
		Year:           2023,
		PricePerDayIDR: 350_000,
		Location:       "Seminyak, Bali",
		Features:       []string{"AC", "Bluetooth"},
	}

	car, err := listings.NewCar(params)
	require.NoError(t, err)
	assert.True(t, car.Available)
	assert.Len(t, car.Features, 2)

	noHost := params
	noHost.HostID = ""
	_, err = listings.NewCar(noHost)
	assert.ErrorIs(t, err, listings.ErrHostRequired)

	freeCar := params
	freeCar.PricePerDayIDR = 0
	_, err = listings.NewCar(freeCar)
	assert.ErrorIs(t, err, listings.ErrRateRequired)

	noModel := params
	noModel.Model = "  "
	_, err = listings.NewCar(noModel)
	assert.Error(t, err)
}

func TestMatchesLocation(t *testing.T) {
	car := &listings.Car{Location: "Seminyak, Bali"}

	assert.True(t, car.MatchesLocation(""))
	assert.True(t, car.MatchesLocation("  "))
	assert.True(t, car.MatchesLocation("bali"))
	assert.True(t, car.MatchesLocation("SEMINYAK"))
	assert.False(t, car.MatchesLocation("Jakarta"))
}

func TestCategorizeFeature(t *testing.T) {
	cases := map[string]listings.FeatureCategory{
		"AC":                listings.FeatureClimate,
		"Automatic climate": listings.FeatureClimate, // climate keyword wins over auto
		"Apple CarPlay":     listings.FeatureConnectivity,
		"7 Seats":           listings.FeatureSeating,
		"Automatic":         listings.FeatureTransmission,
		"Hybrid engine":     listings.FeatureElectric,
		"Diesel":            listings.FeatureFuel,
		"Premium sound":     listings.FeatureAudio,
		"Sunroof":           listings.FeatureGeneric,
	}
	for name, want := range cases {
		assert.Equal(t, want, listings.CategorizeFeature(name), name)
	}
}
