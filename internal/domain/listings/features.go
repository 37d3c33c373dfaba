package listings

import "strings"

// FeatureCategory groups a free-text feature name under a known icon bucket.
type FeatureCategory string

const (
	FeatureClimate      FeatureCategory = "climate"
	FeatureConnectivity FeatureCategory = "connectivity"
	FeatureSeating      FeatureCategory = "seating"
	FeatureTransmission FeatureCategory = "transmission"
	FeatureElectric     FeatureCategory = "electric"
	FeatureFuel         FeatureCategory = "fuel"
	FeatureAudio        FeatureCategory = "audio"
	FeatureGeneric      FeatureCategory = "generic"
)

// featureKeywords is evaluated in order; the first matching keyword wins, so
// "automatic climate" still classifies as climate.
var featureKeywords = []struct {
	category FeatureCategory
	keywords []string
}{
	{FeatureClimate, []string{"ac", "climate"}},
	{FeatureConnectivity, []string{"bluetooth", "carplay", "android"}},
	{FeatureSeating, []string{"seat", "family"}},
	{FeatureTransmission, []string{"auto", "manual"}},
	{FeatureElectric, []string{"electric", "hybrid"}},
	{FeatureFuel, []string{"diesel", "petrol"}},
	{FeatureAudio, []string{"audio", "sound"}},
}

// CategorizeFeature maps a feature name to its icon category by substring
// match, falling back to the generic bucket.
func CategorizeFeature(name string) FeatureCategory {
	lower := strings.ToLower(name)
	for _, entry := range featureKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return FeatureGeneric
}
