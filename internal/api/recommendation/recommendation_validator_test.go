package recommendation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RezenkovD/TravelAiApi/internal/types"
)

const twoPlaces = `[
	{"name": "Colosseum", "description": "Ancient amphitheatre", "coords": {"lat": 41.8902, "lng": 12.4922}},
	{"name": "Pantheon", "description": "Roman temple", "coords": {"lat": 41.8986, "lng": 12.4769}}
]`

func TestValidatePlaces(t *testing.T) {
	t.Run("valid array of expected length", func(t *testing.T) {
		places, err := ValidatePlaces(twoPlaces, 2, "OpenAI")
		require.NoError(t, err)
		require.Len(t, places, 2)
		assert.Equal(t, "Colosseum", places[0].Name)
		assert.InDelta(t, 12.4769, places[1].Coords.Lng, 1e-9)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ValidatePlaces("Sure! Here are some places:", 2, "OpenAI")
		var malformed *types.MalformedResponseError
		require.True(t, errors.As(err, &malformed))
		assert.EqualError(t, err, "OpenAI returned invalid JSON.")
	})

	t.Run("not an array", func(t *testing.T) {
		_, err := ValidatePlaces(`{"places": []}`, 2, "OpenAI")
		var shape *types.ShapeError
		require.True(t, errors.As(err, &shape))
		assert.EqualError(t, err, "Invalid response from OpenAI: number of places does not match.")
	})

	t.Run("count mismatch", func(t *testing.T) {
		_, err := ValidatePlaces(twoPlaces, 3, "OpenAI")
		var shape *types.ShapeError
		require.True(t, errors.As(err, &shape))
		assert.Equal(t, 3, shape.Expected)
		assert.Equal(t, 2, shape.Got)
	})

	t.Run("missing fields are tolerated", func(t *testing.T) {
		places, err := ValidatePlaces(`[{"name": "Somewhere"}]`, 1, "OpenAI")
		require.NoError(t, err)
		assert.Equal(t, "Somewhere", places[0].Name)
		assert.Zero(t, places[0].Coords)
	})

	t.Run("elements that are not objects", func(t *testing.T) {
		_, err := ValidatePlaces(`[1, 2]`, 2, "OpenAI")
		var shape *types.ShapeError
		assert.True(t, errors.As(err, &shape))
	})
}
