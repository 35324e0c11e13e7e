package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/petcare-scheduler/internal/geocoding"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
)

// ReverseGeocoder resolves coordinates into a postal address.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*geocoding.Place, error)
}

type GeolocationHandler struct {
	geo ReverseGeocoder
}

func NewGeolocationHandler(geo ReverseGeocoder) *GeolocationHandler {
	return &GeolocationHandler{geo: geo}
}

func (h *GeolocationHandler) Reverse(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		respondError(c, httperr.Field(httperr.CodeValidation, "lat", "The lat must be a number."))
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		respondError(c, httperr.Field(httperr.CodeValidation, "lon", "The lon must be a number."))
		return
	}

	place, err := h.geo.Reverse(c.Request.Context(), lat, lon)
	switch {
	case errors.Is(err, geocoding.ErrInvalidCoordinates):
		httperr.Unprocessable(c, httperr.CodeValidation, err.Error())
		return
	case errors.Is(err, geocoding.ErrNotFound):
		httperr.NotFound(c, httperr.CodeNotFound, err.Error())
		return
	case errors.Is(err, geocoding.ErrUpstream):
		httperr.Write(c, http.StatusBadGateway, "geocoding_unavailable", err.Error())
		return
	case err != nil:
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"address": place})
}
