package catalog

import (
	"context"

	"tubo/internal/app/queries"
	"tubo/internal/domain/listings"
)

const (
	SearchQueryKey   = "catalog.search"
	OverviewQueryKey = "catalog.overview"
)

// SearchQuery asks for catalog rows matching a location query.
type SearchQuery struct {
	Location string
	Currency string
}

func (SearchQuery) Key() string { return SearchQueryKey }

// OverviewQuery asks for one listing's details payload.
type OverviewQuery struct {
	CarID    listings.CarID
	Currency string
}

func (OverviewQuery) Key() string { return OverviewQueryKey }

type searchHandler struct{ svc *Service }

func (h searchHandler) Handle(ctx context.Context, q SearchQuery) ([]CarSummary, error) {
	return h.svc.Search(ctx, q.Location, q.Currency)
}

type overviewHandler struct{ svc *Service }

func (h overviewHandler) Handle(ctx context.Context, q OverviewQuery) (*Overview, error) {
	return h.svc.Overview(ctx, q.CarID, q.Currency)
}

// RegisterQueries wires the catalog reads into a query bus.
func RegisterQueries(bus *queries.InMemoryBus, svc *Service) {
	queries.RegisterHandler[SearchQuery, []CarSummary](bus, SearchQueryKey, searchHandler{svc: svc})
	queries.RegisterHandler[OverviewQuery, *Overview](bus, OverviewQueryKey, overviewHandler{svc: svc})
}
