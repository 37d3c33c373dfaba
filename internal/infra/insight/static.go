package insight

import (
	"context"
	"fmt"

	"tubo/internal/domain/listings"
)

// Static serves the fallback copy without any model call; used when no API
// key is configured.
type Static struct{}

func (Static) CarHighlights(ctx context.Context, car *listings.Car) []string {
	return []string{"Perfect for city driving", "Fuel efficient", "Host recommended"}
}

func (Static) ListingDescription(ctx context.Context, car *listings.Car) string {
	return fmt.Sprintf("Experience the comfort of this %d %s %s in %s. Perfect for your trip!",
		car.Year, car.Make, car.Model, car.Location)
}

func (Static) NearbyDestinations(ctx context.Context, location string) string {
	return "Explore the city with your car!"
}

func (Static) ParseSearchLocation(ctx context.Context, query string) string {
	return query
}
