package memory

import (
	"context"
	"sync"

	"tubo/internal/domain/availability"
	domainbooking "tubo/internal/domain/booking"
	domainlistings "tubo/internal/domain/listings"
)

// CarRepository keeps the catalog in memory, seeded from fixtures at startup.
type CarRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.CarID]*domainlistings.Car
	order []domainlistings.CarID
}

func NewCarRepository() *CarRepository {
	return &CarRepository{items: make(map[domainlistings.CarID]*domainlistings.Car)}
}

func (r *CarRepository) ByID(ctx context.Context, id domainlistings.CarID) (*domainlistings.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	car, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrCarNotFound
	}
	return cloneCar(car), nil
}

func (r *CarRepository) Save(ctx context.Context, car *domainlistings.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[car.ID]; !ok {
		r.order = append(r.order, car.ID)
	}
	r.items[car.ID] = cloneCar(car)
	return nil
}

// Search returns available cars matching the location query in insertion
// order; ranking (sponsored first) is the catalog service's concern.
func (r *CarRepository) Search(ctx context.Context, locationQuery string) ([]*domainlistings.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainlistings.Car, 0, len(r.order))
	for _, id := range r.order {
		car := r.items[id]
		if !car.Available {
			continue
		}
		if !car.MatchesLocation(locationQuery) {
			continue
		}
		out = append(out, cloneCar(car))
	}
	return out, nil
}

func (r *CarRepository) ByHost(ctx context.Context, hostID string) ([]*domainlistings.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainlistings.Car, 0, 4)
	for _, id := range r.order {
		if car := r.items[id]; car.HostID == hostID {
			out = append(out, cloneCar(car))
		}
	}
	return out, nil
}

func cloneCar(car *domainlistings.Car) *domainlistings.Car {
	cp := *car
	cp.Features = append([]string(nil), car.Features...)
	return &cp
}

// AvailabilityStore maps car ids to their blocked-day sets.
type AvailabilityStore struct {
	mu   sync.RWMutex
	sets map[string]availability.Set
}

func NewAvailabilityStore() *AvailabilityStore {
	return &AvailabilityStore{sets: make(map[string]availability.Set)}
}

func (s *AvailabilityStore) UnavailableDates(ctx context.Context, carID string) (availability.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[carID]
	if !ok {
		return availability.Set{}, nil
	}
	// callers treat the set as immutable per details view
	return set.Clone(), nil
}

// SetUnavailable replaces a car's blocked-day set.
func (s *AvailabilityStore) SetUnavailable(carID string, set availability.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[carID] = set.Clone()
}

// BookingHistory is the in-memory append-only history, newest first per
// guest.
type BookingHistory struct {
	mu      sync.RWMutex
	byGuest map[string][]*domainbooking.Booking
}

func NewBookingHistory() *BookingHistory {
	return &BookingHistory{byGuest: make(map[string][]*domainbooking.Booking)}
}

func (h *BookingHistory) Append(ctx context.Context, b *domainbooking.Booking) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	cp := *b
	h.byGuest[b.GuestID] = append([]*domainbooking.Booking{&cp}, h.byGuest[b.GuestID]...)
	return nil
}

func (h *BookingHistory) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	list := h.byGuest[guestID]
	out := make([]*domainbooking.Booking, len(list))
	for i, b := range list {
		cp := *b
		out[i] = &cp
	}
	return out, nil
}

// SessionRepository keeps active booking sessions.
type SessionRepository struct {
	mu    sync.RWMutex
	items map[string]*domainbooking.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{items: make(map[string]*domainbooking.Session)}
}

// ByID returns a clone; callers mutate their copy and persist it with Save,
// so concurrent readers and the payment-completion task never share state.
func (r *SessionRepository) ByID(ctx context.Context, id string) (*domainbooking.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrSessionNotFound
	}
	return sess.Clone(), nil
}

func (r *SessionRepository) Save(ctx context.Context, sess *domainbooking.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[sess.ID] = sess.Clone()
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}
