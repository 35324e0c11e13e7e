package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
)

var (
	ErrInvalidCoordinates = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")
	ErrNotFound           = errors.New("no address found for these coordinates")
	ErrUpstream           = errors.New("geocoding service unavailable")
)

type Place struct {
	FormattedAddress string  `json:"formatted_address"`
	Road             string  `json:"road,omitempty"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	PostalCode       string  `json:"postal_code,omitempty"`
	Country          string  `json:"country,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

type Config struct {
	BaseURL   string
	UserAgent string
	CacheTTL  time.Duration
}

// Client reverse-geocodes through a Nominatim compatible endpoint and caches
// answers by coordinates rounded to five decimals.
type Client struct {
	cfg   Config
	http  *http.Client
	cache cache.Store
	log   *slog.Logger
}

func NewClient(cfg Config, store cache.Store, log *slog.Logger) *Client {
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: 10 * time.Second},
		cache: store,
		log:   log,
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Address     struct {
		Road     string `json:"road"`
		City     string `json:"city"`
		Town     string `json:"town"`
		Village  string `json:"village"`
		State    string `json:"state"`
		Postcode string `json:"postcode"`
		Country  string `json:"country"`
	} `json:"address"`
}

func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("geo:%.5f,%.5f", lat, lon)
}

func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, ErrInvalidCoordinates
	}

	key := CacheKey(lat, lon)
	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn("geocode cache read failed", slog.Any("err", err))
	} else if ok {
		var p Place
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return &p, nil
		}
	}

	place, err := c.fetch(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(place); err == nil {
		if err := c.cache.Set(ctx, key, string(raw), c.cfg.CacheTTL); err != nil {
			c.log.Warn("geocode cache write failed", slog.Any("err", err))
		}
	}
	return place, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (*Place, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if body.Error != "" || body.DisplayName == "" {
		return nil, ErrNotFound
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	if city == "" {
		city = body.Address.Village
	}

	return &Place{
		FormattedAddress: body.DisplayName,
		Road:             body.Address.Road,
		City:             city,
		State:            body.Address.State,
		PostalCode:       body.Address.Postcode,
		Country:          body.Address.Country,
		Latitude:         lat,
		Longitude:        lon,
	}, nil
}
