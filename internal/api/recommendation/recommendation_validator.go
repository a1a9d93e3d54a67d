package recommendation

import (
	"encoding/json"

	"github.com/RezenkovD/TravelAiApi/internal/types"
)

// ValidatePlaces parses the raw model output and checks that it is a JSON
// array of exactly expected elements. Fields inside each element are not
// checked; missing ones decode to zero values.
func ValidatePlaces(raw string, expected int, provider string) ([]types.Place, error) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &types.MalformedResponseError{Provider: provider, Err: err}
	}

	items, ok := parsed.([]any)
	if !ok {
		return nil, &types.ShapeError{Provider: provider, Expected: expected, Got: -1}
	}
	if len(items) != expected {
		return nil, &types.ShapeError{Provider: provider, Expected: expected, Got: len(items)}
	}

	places := make([]types.Place, 0, len(items))
	if err := json.Unmarshal([]byte(raw), &places); err != nil {
		// valid JSON array whose elements are not place objects
		return nil, &types.ShapeError{Provider: provider, Expected: expected, Got: len(items)}
	}
	return places, nil
}
