package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fitweek/fitweek/internal/plan"
)

// Remote delegates generation to an HTTP endpoint.
//
// The request is a JSON POST of the profile and derived BMI; the response
// body is a plan.WeekPlan. Any transport error, non-2xx status or
// malformed body is a generation failure - the engine treats them all the
// same way.
type Remote struct {
	url    string
	client *http.Client
}

// remoteRequest is the wire format sent to the endpoint.
type remoteRequest struct {
	UserData plan.Profile `json:"user_data"`
	BMI      float64      `json:"bmi"`
}

// NewRemote creates a remote generator for the given endpoint URL.
// A nil client falls back to a default with a 60-second timeout
// (generation sits on a model call; it is slow but not unbounded).
func NewRemote(url string, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Remote{url: url, client: client}
}

// Generate POSTs the profile to the endpoint and decodes the plan.
func (r *Remote) Generate(ctx context.Context, profile plan.Profile, bmi float64) (*plan.WeekPlan, error) {
	body, err := json.Marshal(remoteRequest{UserData: profile, BMI: bmi})
	if err != nil {
		return nil, fmt.Errorf("encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call plan generator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a little of the body for the log line; the engine only
		// surfaces a generic message either way.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("plan generator returned %s: %s", resp.Status, snippet)
	}

	var week plan.WeekPlan
	if err := json.NewDecoder(resp.Body).Decode(&week); err != nil {
		return nil, fmt.Errorf("decode generated plan: %w", err)
	}
	if len(week.Days) == 0 {
		return nil, fmt.Errorf("plan generator returned an empty plan")
	}

	return &week, nil
}
