package playground

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fwowebserver/internal/forecast"
	"fwowebserver/internal/models"
	"fwowebserver/internal/planning"
)

// Event types sent to the client
const (
	EventWeekCompleted = "week_completed"
	EventPlanCompleted = "plan_completed"
	EventError         = "error"
)

// PlanRequest asks for a weekly plan
type PlanRequest struct {
	StartDate string `json:"start_date"`
	Location  string `json:"location"`
	Weeks     int    `json:"weeks"`
}

// Event is one message on the progress stream
type Event struct {
	Type   string                 `json:"type"`
	Week   *planning.WeekProgress `json:"week,omitempty"`
	Plan   *models.WeeklyPlan     `json:"plan,omitempty"`
	Series *models.Series         `json:"series,omitempty"`
	Error  string                 `json:"error,omitempty"`
	// Kind is validation, upstream or internal on error events
	Kind string `json:"kind,omitempty"`
}

// handleMessage starts a plan run. A connection runs one plan at a time.
func (c *WSConnection) handleMessage(message []byte) {
	var req PlanRequest
	if err := json.Unmarshal(message, &req); err != nil {
		c.sendEvent(Event{Type: EventError, Error: "invalid request: " + err.Error(), Kind: "validation"})
		return
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		c.sendEvent(Event{Type: EventError, Error: "a plan is already running", Kind: "validation"})
		return
	}
	c.running = true
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
		}()
		c.runPlan(req)
	}()
}

// runPlan builds the plan and streams its progress
func (c *WSConnection) runPlan(req PlanRequest) {
	s := c.stream

	weeklyReq, err := s.weeklyRequest(req)
	if err != nil {
		c.sendError(err)
		return
	}
	weeklyReq.Progress = func(p planning.WeekProgress) {
		c.sendEvent(Event{Type: EventWeekCompleted, Week: &p})
	}

	began := time.Now()
	result, err := planning.BuildWeeklyPlan(c.ctx, s.svc, weeklyReq)
	if err != nil {
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) {
			outcome := "failed"
			if errors.Is(err, context.Canceled) {
				outcome = "cancelled"
			}
			s.metrics.RecordWeeklyPlan(outcome, req.Weeks, 0, time.Since(began))
		}
		if c.ctx.Err() == nil {
			c.sendError(err)
		}
		return
	}

	s.metrics.RecordWeeklyPlan("success", len(result.Plan.Weeks), result.Series.Len(), time.Since(began))
	c.sendEvent(Event{Type: EventPlanCompleted, Plan: result.Plan, Series: &result.Series})
}

func (s *PlanStream) weeklyRequest(req PlanRequest) (planning.WeeklyRequest, error) {
	loc, err := s.locations.Parse(req.Location)
	if err != nil {
		return planning.WeeklyRequest{}, err
	}
	start, err := models.ParseDate("start_date", req.StartDate)
	if err != nil {
		return planning.WeeklyRequest{}, err
	}
	return planning.WeeklyRequest{
		StartDate: start,
		Location:  loc,
		Weeks:     req.Weeks,
		Now:       s.now(),
		Policy:    s.policy,
	}, nil
}

func (c *WSConnection) sendError(err error) {
	var vErr *models.ValidationError
	var fErr *forecast.FetchError

	kind := "internal"
	switch {
	case errors.As(err, &vErr):
		kind = "validation"
	case errors.As(err, &fErr):
		kind = "upstream"
	}
	c.sendEvent(Event{Type: EventError, Error: err.Error(), Kind: kind})
}
