package data

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethan-geography-nea/price-paid/internal/model"
)

// LandRegistryClient downloads price-paid extracts from the HM Land Registry
// open data service.
type LandRegistryClient struct {
	BaseURL string
	Client  *http.Client
	Logger  *logrus.Logger
}

// NewLandRegistryClient creates a client. If baseURL is empty, defaults to
// "https://landregistry.data.gov.uk".
func NewLandRegistryClient(baseURL string, logger *logrus.Logger) *LandRegistryClient {
	if baseURL == "" {
		baseURL = "https://landregistry.data.gov.uk"
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &LandRegistryClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
		Logger: logger,
	}
}

// QueryEstateParams defines parameters for downloading a postcode's sales.
type QueryEstateParams struct {
	Postcode string    // e.g. "EC2Y 8DD"
	MinDate  time.Time // optional lower bound on deed_date
	MaxDate  time.Time // optional upper bound on deed_date
}

// LandRegistryError represents an error response from the open data service.
type LandRegistryError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *LandRegistryError) Error() string {
	return e.Message
}

// QueryEstate fetches the price-paid CSV extract for a postcode.
//
// Responses may be cached in memory when ENABLE_PPD_CACHE=true; the cache is
// for local development and is disabled when API_ENV=production.
func (c *LandRegistryClient) QueryEstate(params QueryEstateParams) ([]model.SaleRecord, error) {
	if params.Postcode == "" {
		return nil, fmt.Errorf("postcode is required")
	}
	if !params.MinDate.IsZero() && !params.MaxDate.IsZero() && params.MinDate.After(params.MaxDate) {
		return nil, fmt.Errorf("min_date must be before max_date")
	}

	if cache := GetCache(); cache != nil {
		key := GenerateCacheKey(params)
		if cached, found := cache.Get(key); found {
			c.Logger.WithFields(logrus.Fields{
				"postcode": params.Postcode,
				"records":  len(cached),
			}).Info("cache hit: using cached price-paid extract")
			return cached, nil
		}
	}

	u, err := url.Parse(c.BaseURL + "/app/ppd/ppd_data.csv")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Add("et[]", "lrcommon:freehold")
	q.Add("et[]", "lrcommon:leasehold")
	q.Set("limit", "all")
	q.Set("postcode", params.Postcode)
	if !params.MinDate.IsZero() {
		q.Set("min_date", params.MinDate.Format(DateFormat))
	}
	if !params.MaxDate.IsZero() {
		q.Set("max_date", params.MaxDate.Format(DateFormat))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.Logger.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"postcode": params.Postcode,
		"duration": time.Since(start).String(),
	}).Info("price-paid download response")

	switch resp.StatusCode {
	case http.StatusOK:
		// Success, continue.
	case http.StatusTooManyRequests:
		return nil, &LandRegistryError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("rate limit exceeded. Retry after: %s", resp.Header.Get("Retry-After")),
		}
	default:
		return nil, &LandRegistryError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("service returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	records, err := ReadSaleRecords(resp.Body, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if cache := GetCache(); cache != nil {
		cache.Set(GenerateCacheKey(params), records)
	}

	return records, nil
}
