package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"tubo/internal/app/services/catalog"
	"tubo/internal/domain/listings"
)

type HostListingHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
}

type HostListingHandler struct {
	Catalog *catalog.Service
}

func (h HostListingHandler) List(c *gin.Context) {
	p, ok := requireHost(c)
	if !ok {
		return
	}
	cars, err := h.Catalog.HostListings(c.Request.Context(), p.UID, displayCurrency(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listings unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cars": cars})
}

type createListingRequest struct {
	Make           string   `json:"make"`
	Model          string   `json:"model"`
	Year           int      `json:"year"`
	PricePerDayIDR int64    `json:"price_per_day_idr"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	ImageURL       string   `json:"image_url"`
	Features       []string `json:"features"`
}

func (h HostListingHandler) Create(c *gin.Context) {
	p, ok := requireHost(c)
	if !ok {
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	car, err := h.Catalog.CreateListing(c.Request.Context(), catalog.CreateListingParams{
		HostID:         p.UID,
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		PricePerDayIDR: req.PricePerDayIDR,
		Location:       req.Location,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		Features:       req.Features,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, listings.ErrHostRequired) || errors.Is(err, listings.ErrRateRequired) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": string(car.ID)})
}

var _ HostListingHTTP = HostListingHandler{}
