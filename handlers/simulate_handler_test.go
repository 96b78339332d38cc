package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gridblitz/interfaces"
	"gridblitz/middleware"
)

type fakeSeasonService struct {
	report *interfaces.TickReport
	err    error
	calls  int
}

func (f *fakeSeasonService) Tick(context.Context) (*interfaces.TickReport, error) {
	f.calls++
	return f.report, f.err
}

func simulateEndpoint(svc interfaces.SeasonService, secret string) http.Handler {
	h := NewSimulateHandler(svc)
	return middleware.CronAuth(secret)(http.HandlerFunc(h.Simulate))
}

func TestSimulateRejectsBadCredentials(t *testing.T) {
	svc := &fakeSeasonService{report: &interfaces.TickReport{Action: interfaces.TickIdle}}
	endpoint := simulateEndpoint(svc, "topsecret")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong secret", "Bearer nope"},
		{"no bearer prefix", "topsecret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/simulate", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			endpoint.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
	if svc.calls != 0 {
		t.Errorf("tick ran %d times behind failed auth", svc.calls)
	}
}

func TestSimulateEmptySecretFailsClosed(t *testing.T) {
	svc := &fakeSeasonService{report: &interfaces.TickReport{Action: interfaces.TickIdle}}
	endpoint := simulateEndpoint(svc, "")

	req := httptest.NewRequest("POST", "/api/simulate", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	endpoint.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 when no secret is configured", rec.Code)
	}
}

func TestSimulateReturnsTickReport(t *testing.T) {
	svc := &fakeSeasonService{report: &interfaces.TickReport{
		Action:       interfaces.TickStartGame,
		SeasonNumber: 1,
		Week:         3,
		GameID:       "g42",
		ElapsedMS:    1200,
	}}
	endpoint := simulateEndpoint(svc, "topsecret")

	req := httptest.NewRequest("POST", "/api/simulate", nil)
	req.Header.Set("Authorization", "Bearer topsecret")
	rec := httptest.NewRecorder()
	endpoint.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body interfaces.TickReport
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if body.Action != interfaces.TickStartGame || body.GameID != "g42" {
		t.Errorf("report = %+v", body)
	}
	if svc.calls != 1 {
		t.Errorf("tick ran %d times, want 1", svc.calls)
	}
}
