package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"tubo/internal/app/commands"
	"tubo/internal/app/services/bookingflow"
	"tubo/internal/domain/booking"
	"tubo/internal/domain/calendar"
	"tubo/internal/domain/checkout"
	"tubo/internal/domain/listings"
	"tubo/internal/domain/pricing"
	"tubo/internal/domain/shared/dates"
)

type SessionHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	Click(c *gin.Context)
	Cursor(c *gin.Context)
	Proceed(c *gin.Context)
	Back(c *gin.Context)
	SelectPlan(c *gin.Context)
	SelectPayment(c *gin.Context)
	SetField(c *gin.Context)
	Quote(c *gin.Context)
	Submit(c *gin.Context)
	Close(c *gin.Context)
	Navigate(c *gin.Context)
}

// SessionHandler maps the booking-flow interactions onto HTTP. Everything but
// submit talks to the flow service directly; submit goes through the command
// bus for idempotent retries.
type SessionHandler struct {
	Flow     *bookingflow.Service
	Commands commands.Bus
}

type sessionResponse struct {
	ID          string            `json:"id"`
	CarID       string            `json:"car_id"`
	State       string            `json:"state"`
	RangeStart  string            `json:"range_start,omitempty"`
	RangeEnd    string            `json:"range_end,omitempty"`
	Plan        string            `json:"plan"`
	Payment     string            `json:"payment_method"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Processing  bool              `json:"processing"`
	BookingID   string            `json:"booking_id,omitempty"`
	Grid        gridResponse      `json:"grid"`
}

type gridResponse struct {
	Year    int        `json:"year"`
	Month   string     `json:"month"`
	Leading int        `json:"leading"`
	Days    []gridCell `json:"days"`
}

type gridCell struct {
	Date         string `json:"date"`
	Status       string `json:"status"`
	ConnectLeft  bool   `json:"connect_left"`
	ConnectRight bool   `json:"connect_right"`
}

func newGridResponse(grid calendar.MonthGrid) gridResponse {
	out := gridResponse{
		Year:    grid.Year,
		Month:   grid.Month,
		Leading: grid.Leading,
		Days:    make([]gridCell, 0, len(grid.Days)),
	}
	for _, cell := range grid.Days {
		out.Days = append(out.Days, gridCell{
			Date:         cell.Date.String(),
			Status:       string(cell.Status),
			ConnectLeft:  cell.ConnectLeft,
			ConnectRight: cell.ConnectRight,
		})
	}
	return out
}

func newSessionResponse(view *bookingflow.View) sessionResponse {
	sess := view.Session
	resp := sessionResponse{
		ID:          sess.ID,
		CarID:       sess.CarID,
		State:       string(sess.State),
		Plan:        string(sess.Plan),
		Payment:     string(sess.Payment),
		FieldErrors: sess.FieldErrors,
		Processing:  sess.Processing,
		BookingID:   string(sess.BookingID),
		Grid:        newGridResponse(view.Grid),
	}
	if sess.Range.Start != nil {
		resp.RangeStart = sess.Range.Start.String()
	}
	if sess.Range.End != nil {
		resp.RangeEnd = sess.Range.End.String()
	}
	return resp
}

type createSessionRequest struct {
	CarID string `json:"car_id"`
}

func (h SessionHandler) Create(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CarID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "car_id required"})
		return
	}
	view, err := h.Flow.Open(c.Request.Context(), p.UID, listings.CarID(req.CarID))
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSessionResponse(view))
}

func (h SessionHandler) Get(c *gin.Context) {
	h.respond(c, func(p principal) (*bookingflow.View, error) {
		return h.Flow.Get(c.Request.Context(), p.UID, c.Param("id"))
	})
}

type clickRequest struct {
	Date string `json:"date"`
}

func (h SessionHandler) Click(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	day, err := dates.Parse(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	h.respond(c, func(p principal) (*bookingflow.View, error) {
		return h.Flow.Click(c.Request.Context(), p.UID, c.Param("id"), day)
	})
}

// Cursor flips the month grid; direction is the :dir path segment.
func (h SessionHandler) Cursor(c *gin.Context) {
	dir := c.Param("dir")
	h.respond(c, func(p principal) (*bookingflow.View, error) {
		switch dir {
		case "prev":
			return h.Flow.PrevMonth(c.Request.Context(), p.UID, c.Param("id"))
		case "next":
			return h.Flow.NextMonth(c.Request.Context(), p.UID, c.Param("id"))
		default:
			return nil, booking.ErrUnknownField
		}
	})
}

func (h SessionHandler) Proceed(c *gin.Context) {
	h.respond(c, func(p principal) (*bookingflow.View, error) {
		return h.Flow.Proceed(c.Request.Context(), p.UID, c.Param("id"))
	})
}

func (h SessionHandler) Back(c *gin.Context) {
	h.respond(c, func(p principal) (*bookingflow.View, error) {
		return h.Flow.Back(c.Request.Context(), p.UID, c.Param("id"))
	})
}

type planRequest struct {
	Plan string `json:"plan"`
}

func (h SessionHandler) SelectPlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.respond(c, func(p principal) (*bookingflow.View, error) {
		return h.Flow.SelectPlan(c.Request.Context(), p.UID, c.Param("id"), pricing.RatePlan(req.Plan))
	})
}

type paymentRequest struct {
	Method string `json:"method"`
}

func (h SessionHandler) SelectPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.respond(c, func(p principal) (*bookingflow.View, error) {
		return h.Flow.SelectPayment(c.Request.Context(), p.UID, c.Param("id"), checkout.PaymentMethod(req.Method))
	})
}

type fieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h SessionHandler) SetField(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.respond(c, func(p principal) (*bookingflow.View, error) {
		return h.Flow.SetField(c.Request.Context(), p.UID, c.Param("id"), req.Field, req.Value)
	})
}

func (h SessionHandler) Quote(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	quote, err := h.Flow.PriceQuote(c.Request.Context(), p.UID, c.Param("id"), displayCurrency(c))
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h SessionHandler) Submit(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	cmd := bookingflow.SubmitCommand{
		SessionID:   c.Param("id"),
		GuestID:     p.UID,
		Idempotency: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingflow.SubmitCommand, *bookingflow.SubmitResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	if len(result.FieldErrors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

func (h SessionHandler) Close(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if err := h.Flow.Close(c.Request.Context(), p.UID, c.Param("id")); err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h SessionHandler) Navigate(c *gin.Context) {
	h.respond(c, func(p principal) (*bookingflow.View, error) {
		return h.Flow.Navigate(c.Request.Context(), p.UID, c.Param("id"))
	})
}

func (h SessionHandler) respond(c *gin.Context, op func(principal) (*bookingflow.View, error)) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	view, err := op(p)
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(view))
}

func (h SessionHandler) respondFlowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrSessionNotFound),
		errors.Is(err, bookingflow.ErrNotSessionOwner),
		errors.Is(err, listings.ErrCarNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, booking.ErrProcessing):
		c.JSON(http.StatusConflict, gin.H{"error": "payment processing in progress"})
	case errors.Is(err, booking.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid session state"})
	case errors.Is(err, booking.ErrRangeIncomplete),
		errors.Is(err, booking.ErrRangeUnavailable),
		errors.Is(err, booking.ErrUnknownField),
		errors.Is(err, pricing.ErrUnknownPlan):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ SessionHTTP = SessionHandler{}
