package ginserver

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"tubo/internal/app/queries"
	"tubo/internal/app/services/catalog"
	"tubo/internal/domain/availability"
	"tubo/internal/domain/calendar"
	"tubo/internal/domain/listings"
	"tubo/internal/domain/shared/daterange"
	"tubo/internal/domain/shared/dates"
)

type ListingHTTP interface {
	Catalog(c *gin.Context)
	Overview(c *gin.Context)
	Calendar(c *gin.Context)
}

type ListingHandler struct {
	Queries      queries.Bus
	Availability availability.Source
}

func (h ListingHandler) Catalog(c *gin.Context) {
	result, err := queries.Ask[catalog.SearchQuery, []catalog.CarSummary](c.Request.Context(), h.Queries, catalog.SearchQuery{
		Location: c.Query("location"),
		Currency: displayCurrency(c),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cars": result})
}

func (h ListingHandler) Overview(c *gin.Context) {
	result, err := queries.Ask[catalog.OverviewQuery, *catalog.Overview](c.Request.Context(), h.Queries, catalog.OverviewQuery{
		CarID:    listings.CarID(c.Param("id")),
		Currency: displayCurrency(c),
	})
	if err != nil {
		if errors.Is(err, listings.ErrCarNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "overview unavailable"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Calendar renders one month of a car's availability with no selection; the
// details view uses it before a booking session exists.
func (h ListingHandler) Calendar(c *gin.Context) {
	carID := c.Param("id")
	unavailable, err := h.Availability.UnavailableDates(c.Request.Context(), carID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "calendar unavailable"})
		return
	}
	cursor := dates.CursorFor(dates.FromTime(time.Now()))
	if y, err := strconv.Atoi(c.Query("year")); err == nil {
		if m, err := strconv.Atoi(c.Query("month")); err == nil && m >= 1 && m <= 12 {
			cursor = dates.MonthCursor{Year: y, Month: time.Month(m)}
		}
	}
	days := unavailable.Strings()
	sort.Strings(days)
	c.JSON(http.StatusOK, gin.H{
		"grid":             newGridResponse(calendar.BuildMonth(cursor, daterange.DateRange{}, unavailable)),
		"unavailable_days": days,
	})
}

var _ ListingHTTP = ListingHandler{}
