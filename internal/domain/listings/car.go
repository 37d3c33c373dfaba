package listings

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrCarNotFound  = errors.New("listings: car not found")
	ErrHostRequired = errors.New("listings: host id required")
	ErrRateRequired = errors.New("listings: daily rate must be positive")
)

// CarID identifies one listed car.
type CarID string

// Car is a marketplace listing. Prices are stored in IDR, the reference
// currency; display conversion happens at the edge.
type Car struct {
	ID             CarID
	HostID         string
	Make           string
	Model          string
	Year           int
	PricePerDayIDR int64
	Location       string
	Description    string
	ImageURL       string
	Sponsored      bool
	Available      bool
	Rating         float64
	Trips          int
	Features       []string
}

// CreateParams collects everything needed to list a car.
type CreateParams struct {
	ID             CarID
	HostID         string
	Make           string
	Model          string
	Year           int
	PricePerDayIDR int64
	Location       string
	Description    string
	ImageURL       string
	Sponsored      bool
	Features       []string
}

// NewCar validates and builds a listing. New listings start available.
func NewCar(params CreateParams) (*Car, error) {
	if params.HostID == "" {
		return nil, ErrHostRequired
	}
	if params.PricePerDayIDR <= 0 {
		return nil, ErrRateRequired
	}
	if strings.TrimSpace(params.Make) == "" || strings.TrimSpace(params.Model) == "" {
		return nil, errors.New("listings: make and model required")
	}
	return &Car{
		ID:             params.ID,
		HostID:         params.HostID,
		Make:           params.Make,
		Model:          params.Model,
		Year:           params.Year,
		PricePerDayIDR: params.PricePerDayIDR,
		Location:       params.Location,
		Description:    params.Description,
		ImageURL:       params.ImageURL,
		Sponsored:      params.Sponsored,
		Available:      true,
		Features:       append([]string(nil), params.Features...),
	}, nil
}

// MatchesLocation is the catalog filter: case-insensitive substring match on
// the listing location. An empty query matches everything.
func (c *Car) MatchesLocation(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Location), strings.ToLower(query))
}

// Repository is the listing store contract.
type Repository interface {
	ByID(ctx context.Context, id CarID) (*Car, error)
	Save(ctx context.Context, car *Car) error
	Search(ctx context.Context, locationQuery string) ([]*Car, error)
	ByHost(ctx context.Context, hostID string) ([]*Car, error)
}
