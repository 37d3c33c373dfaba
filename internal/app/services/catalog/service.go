package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"tubo/internal/domain/availability"
	"tubo/internal/domain/listings"
	"tubo/internal/domain/pricing"
)

// InsightProvider produces the generated marketplace texts. Implementations
// must be best-effort: they return usable fallback copy instead of errors.
type InsightProvider interface {
	CarHighlights(ctx context.Context, car *listings.Car) []string
	NearbyDestinations(ctx context.Context, location string) string
	ListingDescription(ctx context.Context, car *listings.Car) string
	ParseSearchLocation(ctx context.Context, query string) string
}

// Service serves the browse side of the marketplace: catalog search, listing
// overviews, and the minimal host listing flow.
type Service struct {
	Cars         listings.Repository
	Availability availability.Source
	Insight      InsightProvider
	Logger       *slog.Logger
}

// CarSummary is one catalog search row with the display-currency price.
type CarSummary struct {
	ID          string  `json:"id"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        int     `json:"year"`
	Location    string  `json:"location"`
	ImageURL    string  `json:"image_url"`
	Sponsored   bool    `json:"sponsored"`
	Rating      float64 `json:"rating"`
	Trips       int     `json:"trips"`
	PricePerDay int64   `json:"price_per_day"`
	Currency    string  `json:"currency"`
}

// Feature pairs a raw feature name with its icon category.
type Feature struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Overview is the full details-view payload for one listing.
type Overview struct {
	CarSummary
	Description     string    `json:"description"`
	Features        []Feature `json:"features"`
	Highlights      []string  `json:"highlights"`
	Nearby          string    `json:"nearby"`
	UnavailableDays []string  `json:"unavailable_days"`
}

// Search filters the catalog by location substring, sponsored listings first.
// A free-text query goes through the insight parser so "beach trip in bali"
// still matches Bali listings.
func (s *Service) Search(ctx context.Context, query, currency string) ([]CarSummary, error) {
	if s.Cars == nil {
		return nil, errors.New("catalog: car repository required")
	}
	location := strings.TrimSpace(query)
	if location != "" && s.Insight != nil {
		location = s.Insight.ParseSearchLocation(ctx, location)
	}
	cars, err := s.Cars.Search(ctx, location)
	if err != nil {
		return nil, err
	}
	// sponsored first, stable within each group
	sort.SliceStable(cars, func(i, j int) bool {
		return cars[i].Sponsored && !cars[j].Sponsored
	})
	out := make([]CarSummary, 0, len(cars))
	for _, car := range cars {
		out = append(out, summarize(car, currency))
	}
	return out, nil
}

// Overview assembles the details view for one car.
func (s *Service) Overview(ctx context.Context, id listings.CarID, currency string) (*Overview, error) {
	if s.Cars == nil || s.Availability == nil {
		return nil, errors.New("catalog: repository and availability source required")
	}
	car, err := s.Cars.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	unavailable, err := s.Availability.UnavailableDates(ctx, string(id))
	if err != nil {
		return nil, err
	}
	days := unavailable.Strings()
	sort.Strings(days)

	features := make([]Feature, 0, len(car.Features))
	for _, name := range car.Features {
		features = append(features, Feature{
			Name:     name,
			Category: string(listings.CategorizeFeature(name)),
		})
	}

	view := &Overview{
		CarSummary:      summarize(car, currency),
		Description:     car.Description,
		Features:        features,
		UnavailableDays: days,
	}
	if s.Insight != nil {
		view.Highlights = s.Insight.CarHighlights(ctx, car)
		view.Nearby = s.Insight.NearbyDestinations(ctx, car.Location)
	}
	return view, nil
}

// CreateListingParams is the host flow input. An empty description gets the
// generated fallback.
type CreateListingParams struct {
	HostID         string
	Make           string
	Model          string
	Year           int
	PricePerDayIDR int64
	Location       string
	Description    string
	ImageURL       string
	Features       []string
}

// CreateListing adds a host car to the catalog.
func (s *Service) CreateListing(ctx context.Context, params CreateListingParams) (*listings.Car, error) {
	if s.Cars == nil {
		return nil, errors.New("catalog: car repository required")
	}
	car, err := listings.NewCar(listings.CreateParams{
		ID:             listings.CarID(uuid.NewString()),
		HostID:         params.HostID,
		Make:           params.Make,
		Model:          params.Model,
		Year:           params.Year,
		PricePerDayIDR: params.PricePerDayIDR,
		Location:       params.Location,
		Description:    params.Description,
		ImageURL:       params.ImageURL,
		Features:       params.Features,
	})
	if err != nil {
		return nil, err
	}
	if car.Description == "" && s.Insight != nil {
		car.Description = s.Insight.ListingDescription(ctx, car)
	}
	if err := s.Cars.Save(ctx, car); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("listing created", "car_id", car.ID, "host_id", car.HostID)
	}
	return car, nil
}

// HostListings returns the host dashboard rows.
func (s *Service) HostListings(ctx context.Context, hostID, currency string) ([]CarSummary, error) {
	if s.Cars == nil {
		return nil, errors.New("catalog: car repository required")
	}
	cars, err := s.Cars.ByHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	out := make([]CarSummary, 0, len(cars))
	for _, car := range cars {
		out = append(out, summarize(car, currency))
	}
	return out, nil
}

func summarize(car *listings.Car, currency string) CarSummary {
	if currency == "" {
		currency = pricing.BaseCurrency
	}
	return CarSummary{
		ID:          string(car.ID),
		Make:        car.Make,
		Model:       car.Model,
		Year:        car.Year,
		Location:    car.Location,
		ImageURL:    car.ImageURL,
		Sponsored:   car.Sponsored,
		Rating:      car.Rating,
		Trips:       car.Trips,
		PricePerDay: pricing.Convert(car.PricePerDayIDR, currency),
		Currency:    currency,
	}
}
