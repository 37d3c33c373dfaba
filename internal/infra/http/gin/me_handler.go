package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"tubo/internal/domain/booking"
	"tubo/internal/domain/pricing"
)

type MeHTTP interface {
	ListBookings(c *gin.Context)
}

type MeHandler struct {
	History booking.History
}

type bookingResponse struct {
	ID            string    `json:"id"`
	ReferenceCode string    `json:"reference_code"`
	CarID         string    `json:"car_id"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	Total         int64     `json:"total"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	BookedAt      time.Time `json:"booked_at"`
}

// ListBookings returns the guest's trips, newest first, with totals converted
// to the display currency.
func (h MeHandler) ListBookings(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	list, err := h.History.ListByGuest(c.Request.Context(), p.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
		return
	}
	currency := displayCurrency(c)
	if currency == "" {
		currency = pricing.BaseCurrency
	}
	out := make([]bookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, bookingResponse{
			ID:            string(b.ID),
			ReferenceCode: b.ReferenceCode,
			CarID:         b.CarID,
			StartDate:     b.StartDate.String(),
			EndDate:       b.EndDate.String(),
			Total:         pricing.Convert(b.TotalPrice.Amount, currency),
			Currency:      currency,
			Status:        string(b.Status),
			BookedAt:      b.BookedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

var _ MeHTTP = MeHandler{}
