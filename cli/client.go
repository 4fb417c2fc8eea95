package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

// ApiClient handles requests to the fwowebserver API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	Token      string
}

// NewApiClient creates a new API client from FWO_SERVER_URL and
// FWO_TOKEN
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("FWO_SERVER_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &ApiClient{
		httpClient: &http.Client{
			// weekly plans make one upstream request per day
			Timeout: 2 * time.Minute,
		},
		BaseURL: baseURL,
		Token:   os.Getenv("FWO_TOKEN"),
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}
	return true, nil
}

// MealCounts are the planned portions per category
type MealCounts struct {
	Chicken    int
	Fish       int
	Meat       int
	Vegan      int
	Vegetarian int
}

// Forecast is the merged daily prediction
type Forecast struct {
	WasteFromCustomer float64 `json:"waste_from_customer"`
	WasteFromKitchen  float64 `json:"waste_from_kitchen"`
	WastePerCustomer  float64 `json:"waste_per_customer"`
	Receipts          float64 `json:"receipts"`
	CO2               float64 `json:"co2"`
}

// ChartSpec is the part of a server chart the terminal can draw
type ChartSpec struct {
	Title    string   `json:"title"`
	Labels   []string `json:"labels"`
	Datasets []struct {
		Label  string    `json:"label"`
		Values []float64 `json:"values"`
	} `json:"datasets"`
	YAxis struct {
		Max float64 `json:"max"`
	} `json:"y_axis"`
}

// DailyPrediction is the response of the daily prediction endpoint
type DailyPrediction struct {
	Forecast Forecast `json:"forecast"`
	Charts   struct {
		Input      ChartSpec   `json:"input"`
		Prediction []ChartSpec `json:"prediction"`
	} `json:"charts"`
}

// Dish is one recommended dish
type Dish struct {
	MealID   string `json:"meal_id"`
	Name     string `json:"dish"`
	Category string `json:"category"`
}

// Menu is a ranked menu with its metrics
type Menu struct {
	Rank    int      `json:"rank"`
	Slots   [4]*Dish `json:"slots"`
	Metrics struct {
		TotalPieces      float64 `json:"total_pieces"`
		CO2PerCustomer   float64 `json:"co2_per_customer"`
		WastePerCustomer float64 `json:"waste_per_customer"`
	} `json:"metrics"`
}

// DailyRecommendation is the response of the recommendation endpoint
type DailyRecommendation struct {
	Location string `json:"location"`
	Date     string `json:"date"`
	Menus    []Menu `json:"menus"`
}

// Occupancy is the hourly estimate of one restaurant and weekday
type Occupancy struct {
	Chart ChartSpec `json:"chart"`
}

// WeeklyPlanRequest asks for a weekly plan document
type WeeklyPlanRequest struct {
	StartDate string `json:"start_date"`
	Location  string `json:"location"`
	Weeks     int    `json:"weeks"`
}

// GetDailyPrediction requests the waste and CO2 prediction of the counts
func (c *ApiClient) GetDailyPrediction(location string, counts MealCounts) (*DailyPrediction, error) {
	q := url.Values{}
	q.Set("location", location)
	q.Set("chicken", strconv.Itoa(counts.Chicken))
	q.Set("fish", strconv.Itoa(counts.Fish))
	q.Set("meat", strconv.Itoa(counts.Meat))
	q.Set("vegan", strconv.Itoa(counts.Vegan))
	q.Set("vegetarian", strconv.Itoa(counts.Vegetarian))

	var out DailyPrediction
	if err := c.getJSON("/api/v1/predictions/daily", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDailyRecommendation requests the ranked menus of a day
func (c *ApiClient) GetDailyRecommendation(location, date string) (*DailyRecommendation, error) {
	q := url.Values{}
	q.Set("location", location)
	q.Set("date", date)

	var out DailyRecommendation
	if err := c.getJSON("/api/v1/recommendations/daily", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOccupancy requests the occupancy of a restaurant on a weekday
func (c *ApiClient) GetOccupancy(location, day string) (*Occupancy, error) {
	q := url.Values{}
	q.Set("location", location)
	q.Set("day", day)

	var out Occupancy
	if err := c.getJSON("/api/v1/occupancy", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadWeeklyPlan saves the weekly plan document to path. The file is
// only created once the whole document arrived.
func (c *ApiClient) DownloadWeeklyPlan(req WeeklyPlanRequest, path string) (int, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return 0, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.BaseURL+"/api/v1/plans/weekly", bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, apiError(resp.StatusCode, body)
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		return 0, err
	}
	return len(body), nil
}

func (c *ApiClient) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

func (c *ApiClient) getJSON(path string, q url.Values, dst interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return apiError(resp.StatusCode, body)
	}
	return json.Unmarshal(body, dst)
}

// apiError extracts the server's error message
func apiError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("%s (status %d)", payload.Error, status)
	}
	return fmt.Errorf("unexpected status code: %d", status)
}
