package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fwowebserver/internal/models"
)

// maxBodyBytes caps upstream responses
const maxBodyBytes = 8 << 20

// Client talks to the forecasting service over HTTP. It never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	observer   RequestObserver
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithObserver reports request outcomes to o
func WithObserver(o RequestObserver) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// NewClient creates a client for the service rooted at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		observer:   nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// mealQuery encodes the five counts and the restaurant
func mealQuery(in models.MealPlanInput) url.Values {
	in = in.Normalize()
	q := url.Values{}
	q.Set("restaurant", string(in.Location))
	q.Set("num_fish", strconv.Itoa(in.Fish))
	q.Set("num_chicken", strconv.Itoa(in.Chicken))
	q.Set("num_vegetarian", strconv.Itoa(in.Vegetarian))
	q.Set("num_meat", strconv.Itoa(in.Meat))
	q.Set("num_vegan", strconv.Itoa(in.Vegan))
	return q
}

// BiowasteFromMeals predicts waste and receipts for the planned meals
func (c *Client) BiowasteFromMeals(ctx context.Context, in models.MealPlanInput) (*models.BiowastePrediction, error) {
	q := mealQuery(in)
	q.Set("return_type", "numeric")
	if in.HasDate() {
		q.Set("date", models.FormatDate(in.Date))
	}

	var out models.BiowastePrediction
	if err := c.getJSON(ctx, EndpointBiowaste, "/forecast/biowaste_from_meals", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CO2FromMeals predicts emissions for the planned meals
func (c *Client) CO2FromMeals(ctx context.Context, in models.MealPlanInput) (*models.CO2Prediction, error) {
	var out models.CO2Prediction
	if err := c.getJSON(ctx, EndpointCO2, "/forecast/co2_from_meals", mealQuery(in), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Recommendation fetches the ranked menus and candidate dishes for a day
func (c *Client) Recommendation(ctx context.Context, loc models.Location, date time.Time) (*models.Recommendation, error) {
	q := url.Values{}
	q.Set("restaurant", string(loc))
	q.Set("date", models.FormatDate(date))

	var out models.Recommendation
	if err := c.getJSON(ctx, EndpointRecommendation, "/recommendation", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Occupancy fetches the average hourly occupancy of every restaurant
func (c *Client) Occupancy(ctx context.Context) (models.Occupancy, error) {
	var out models.Occupancy
	err := c.do(ctx, EndpointOccupancy, "/data/occupancy", nil, func(body io.Reader) error {
		occ, err := decodeOccupancy(body)
		if err != nil {
			return err
		}
		out = occ
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, q url.Values, dst interface{}) error {
	return c.do(ctx, endpoint, path, q, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(dst)
	})
}

func (c *Client) do(ctx context.Context, endpoint, path string, q url.Values, decode func(io.Reader) error) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observer.ObserveRequest(endpoint, 0, time.Since(start))
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	c.observer.ObserveRequest(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := decode(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
