package recommendation

import (
	"fmt"
	"strings"
)

const placesResponseFormat = `[{ "name": string, "description": string, "coords": {"lat": float, "lng": float} }]`

// BuildPrompt renders the tourist prompt. The text is deterministic for a
// given input so identical requests send identical prompts.
func BuildPrompt(text string, numPlaces int, exclude string) string {
	excludeClause := ""
	if exclude != "" {
		excludeClause = fmt.Sprintf("(Without %s)", exclude)
	}
	return fmt.Sprintf("I am a tourist. %s.\n", text) +
		fmt.Sprintf("Generate exactly %d places to visit %s. ", numPlaces, excludeClause) +
		"The response format must be a JSON array of objects: " +
		placesResponseFormat
}

// MergeExclude appends addendum to the previous exclusion string. Previous
// terms are always kept.
func MergeExclude(previous, addendum string) string {
	return strings.TrimSpace(previous + " " + strings.TrimSpace(addendum))
}
