package types

import "time"

// Coords is a WGS84 point as returned by the model.
type Coords struct {
	Lat float64 `json:"lat" example:"48.8584"`
	Lng float64 `json:"lng" example:"2.2945"`
}

// Place is one recommended destination. Places are stored as part of their
// TravelRequest and never on their own.
type Place struct {
	Name        string `json:"name" example:"Eiffel Tower"`
	Description string `json:"description" example:"Iron lattice tower on the Champ de Mars."`
	Coords      Coords `json:"coords"`
}

// TravelRequest is a persisted recommendation. Rows are immutable once saved;
// refinement produces a new row.
type TravelRequest struct {
	ID        int64     `json:"id" example:"1"`
	Text      string    `json:"text" example:"I like history and good food"`
	NumPlaces int       `json:"num_places" example:"4"`
	Exclude   *string   `json:"exclude" example:"beaches"`
	Places    []Place   `json:"response_json"`
	CreatedAt time.Time `json:"created_at"`
}

// ExcludeValue returns the exclusion string, or "" when none was stored.
func (t *TravelRequest) ExcludeValue() string {
	if t == nil || t.Exclude == nil {
		return ""
	}
	return *t.Exclude
}

// CreateRecommendationRequest is the body of POST /recommendations/.
type CreateRecommendationRequest struct {
	Text      *string `json:"text" example:"I like history and good food"`
	NumPlaces *int    `json:"num_places,omitempty" example:"4"`
	Exclude   *string `json:"exclude,omitempty" example:"beaches"`
}

// ExcludeRecommendationRequest is the body of POST /recommendations/{id}/exclude.
type ExcludeRecommendationRequest struct {
	Exclude *string `json:"exclude" example:"museums"`
}

// ErrorDetail is the error body returned by every endpoint.
type ErrorDetail struct {
	Detail string `json:"detail" example:"Request not found"`
}
