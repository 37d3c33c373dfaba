package ginserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubo/internal/app/commands"
	"tubo/internal/app/middleware"
	"tubo/internal/app/queries"
	"tubo/internal/app/schedule"
	authsvc "tubo/internal/app/services/auth"
	"tubo/internal/app/services/bookingflow"
	"tubo/internal/app/services/catalog"
	"tubo/internal/domain/availability"
	"tubo/internal/domain/listings"
	"tubo/internal/domain/shared/dates"
	"tubo/internal/infra/config"
	ginserver "tubo/internal/infra/http/gin"
	"tubo/internal/infra/insight"
	"tubo/internal/infra/obs"
	"tubo/internal/infra/security"
	"tubo/internal/infra/storage/memory"
)

type stubScheduler struct {
	mu    sync.Mutex
	tasks []schedule.Task
}

type stubHandle struct{}

func (stubHandle) Cancel() bool { return true }

func (s *stubScheduler) Schedule(_ time.Duration, task schedule.Task) schedule.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
	return stubHandle{}
}

func (s *stubScheduler) fire() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()
	for _, task := range tasks {
		task()
	}
}

type testServer struct {
	handler   http.Handler
	scheduler *stubScheduler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	cars := memory.NewCarRepository()
	car, err := listings.NewCar(listings.CreateParams{
		ID: "car-1", HostID: "host-1", Make: "Toyota", Model: "Avanza",
		Year: 2022, PricePerDayIDR: 500_000, Location: "Jakarta",
		Features: []string{"AC", "7 Seats"},
	})
	require.NoError(t, err)
	require.NoError(t, cars.Save(ctx, car))

	avail := memory.NewAvailabilityStore()
	avail.SetUnavailable("car-1", availability.NewSet(dates.MustParse("2025-11-20")))

	gateway := &authsvc.Gateway{
		Users:     memory.NewUserStore(),
		Sessions:  memory.NewAuthSessionStore(),
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens:    security.RandomTokenGenerator{},
	}

	sched := &stubScheduler{}
	history := memory.NewBookingHistory()
	flow := &bookingflow.Service{
		Sessions:     memory.NewSessionRepository(),
		Cars:         cars,
		Availability: avail,
		History:      history,
		Outbox:       memory.NewOutboxStore(),
		Scheduler:    sched,
		Now:          func() time.Time { return time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC) },
	}
	catalogSvc := &catalog.Service{Cars: cars, Availability: avail, Insight: insight.Static{}}

	commandBus := commands.NewInMemoryBus()
	bookingflow.RegisterSubmit(commandBus, flow)
	chained := middleware.ChainCommands(
		commandBus,
		middleware.Authorization(bookingflow.RequireGuest()),
		middleware.Idempotency(memory.NewIdempotencyStore(time.Minute), nil),
	)
	queryBus := queries.NewInMemoryBus()
	catalog.RegisterQueries(queryBus, catalogSvc)

	authMW := ginserver.AuthMiddleware{Gateway: gateway}
	srv := ginserver.NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, ginserver.Handlers{
		Auth:           ginserver.AuthHandler{Gateway: gateway},
		Listing:        ginserver.ListingHandler{Queries: queryBus, Availability: avail},
		HostListing:    ginserver.HostListingHandler{Catalog: catalogSvc},
		Session:        ginserver.SessionHandler{Flow: flow, Commands: chained},
		Me:             ginserver.MeHandler{History: history},
		AuthMiddleware: authMW.Handle,
	})
	return &testServer{handler: srv.Handler, scheduler: sched}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func registerGuest(t *testing.T, ts *testServer, email string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":        email,
		"display_name": "Guest",
		"password":     "longenough",
		"currency":     "IDR",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/livez", "", nil, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/readyz", "", nil, nil).Code)
}

func TestCatalogIsPublic(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/v1/cars?location=jakarta&currency=USD", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Cars []map[string]any `json:"cars"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Cars, 1)
	assert.Equal(t, "car-1", resp.Cars[0]["id"])
	assert.Equal(t, "USD", resp.Cars[0]["currency"])
}

func TestSessionsRequireAuth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/v1/sessions", "", map[string]string{"car_id": "car-1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHostRoutesRequireHostRole(t *testing.T) {
	ts := newTestServer(t)
	token := registerGuest(t, ts, "guest@example.com")
	rec := ts.do(t, http.MethodGet, "/api/v1/host/cars", token, nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookingFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := registerGuest(t, ts, "guest@example.com")

	rec := ts.do(t, http.MethodPost, "/api/v1/sessions", token, map[string]string{"car_id": "car-1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sess struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	decode(t, rec, &sess)
	assert.Equal(t, "DETAILS_OPEN", sess.State)
	base := "/api/v1/sessions/" + sess.ID

	rec = ts.do(t, http.MethodPost, base+"/click", token, map[string]string{"date": "2025-11-24"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPost, base+"/click", token, map[string]string{"date": "2025-11-27"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var selecting struct {
		State      string `json:"state"`
		RangeStart string `json:"range_start"`
		RangeEnd   string `json:"range_end"`
	}
	decode(t, rec, &selecting)
	assert.Equal(t, "2025-11-24", selecting.RangeStart)
	assert.Equal(t, "2025-11-27", selecting.RangeEnd)

	rec = ts.do(t, http.MethodPost, base+"/proceed", token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	fields := map[string]string{
		"mobile":     "+62 812 3456 789",
		"email":      "guest@example.com",
		"firstName":  "Putri",
		"lastName":   "Wijaya",
		"age":        "25-34",
		"cardNumber": "4242424242424242",
		"expiry":     "12/27",
		"cvc":        "123",
	}
	for field, value := range fields {
		rec = ts.do(t, http.MethodPut, base+"/form", token, map[string]string{"field": field, "value": value}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, base+"/quote?currency=USD", token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var quote struct {
		Currency  string `json:"currency"`
		Converted int64  `json:"converted_total"`
	}
	decode(t, rec, &quote)
	assert.Equal(t, "USD", quote.Currency)
	assert.Equal(t, int64(103), quote.Converted)

	submit := func() *httptest.ResponseRecorder {
		return ts.do(t, http.MethodPost, base+"/submit", token, nil, map[string]string{"Idempotency-Key": "sub-1"})
	}
	rec = submit()
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	// A retried submit with the same key replays the recorded outcome even
	// though the session is already processing.
	rec = submit()
	assert.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	ts.scheduler.fire()

	rec = ts.do(t, http.MethodGet, base, token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var confirmed struct {
		State     string `json:"state"`
		BookingID string `json:"booking_id"`
	}
	decode(t, rec, &confirmed)
	assert.Equal(t, "CONFIRMED", confirmed.State)
	assert.NotEmpty(t, confirmed.BookingID)

	rec = ts.do(t, http.MethodGet, "/api/v1/me/bookings", token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Bookings []map[string]any `json:"bookings"`
	}
	decode(t, rec, &history)
	require.Len(t, history.Bookings, 1)
	assert.Equal(t, "car-1", history.Bookings[0]["car_id"])
}

func TestSubmitWithDirtyFormReturns422(t *testing.T) {
	ts := newTestServer(t)
	token := registerGuest(t, ts, "guest@example.com")

	rec := ts.do(t, http.MethodPost, "/api/v1/sessions", token, map[string]string{"car_id": "car-1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess struct {
		ID string `json:"id"`
	}
	decode(t, rec, &sess)
	base := "/api/v1/sessions/" + sess.ID

	for _, day := range []string{"2025-11-24", "2025-11-27"} {
		rec = ts.do(t, http.MethodPost, base+"/click", token, map[string]string{"date": day}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec = ts.do(t, http.MethodPost, base+"/proceed", token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, base+"/submit", token, nil, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var result struct {
		FieldErrors map[string]string `json:"field_errors"`
	}
	decode(t, rec, &result)
	assert.Equal(t, "Mobile number is required", result.FieldErrors["mobile"])
}

func TestOverviewEndpoint(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/v1/cars/car-1/overview", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view struct {
		ID              string   `json:"id"`
		UnavailableDays []string `json:"unavailable_days"`
		Highlights      []string `json:"highlights"`
	}
	decode(t, rec, &view)
	assert.Equal(t, "car-1", view.ID)
	assert.Equal(t, []string{"2025-11-20"}, view.UnavailableDays)
	assert.NotEmpty(t, view.Highlights)
}

func TestUnknownSessionIs404(t *testing.T) {
	ts := newTestServer(t)
	token := registerGuest(t, ts, "guest@example.com")
	rec := ts.do(t, http.MethodGet, "/api/v1/sessions/nope", token, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
