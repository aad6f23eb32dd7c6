package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teleop_console/internal/models"
	"teleop_console/internal/service"
)

func newLinkRouter(h *mockHealth) http.Handler {
	return newTestRouter(&service.Service{
		Authorization: &mockAuth{parseID: 1},
		Health:        h,
	})
}

func TestLinkHandlers_HealthAndActivity(t *testing.T) {
	health := &mockHealth{
		state:  models.HealthState{Level: models.HealthLost, Mode: models.ModeLive, ElapsedMs: 12000},
		accept: true,
	}
	r := newLinkRouter(health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/link/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d, body=%s", w.Code, w.Body.String())
	}
	var st struct {
		Level string `json:"level"`
		Mode  string `json:"mode"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if st.Level != "LOST" || st.Mode != "live" {
		t.Fatalf("unexpected health body: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPost, "/api/v1/link/activity", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("activity status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Accepted bool `json:"accepted"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Accepted || health.activityHits != 1 {
		t.Fatalf("activity not recorded: accepted=%v hits=%d", resp.Accepted, health.activityHits)
	}
}

func TestLinkHandlers_Config(t *testing.T) {
	health := &mockHealth{cfg: service.HealthConfig{DemoPeriod: 2 * time.Second}}
	r := newLinkRouter(health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/link/config", nil))
	var cfg LinkConfig
	_ = json.Unmarshal(w.Body.Bytes(), &cfg)
	if w.Code != http.StatusOK || cfg.DemoMode || cfg.DemoPeriodMs != 2000 {
		t.Fatalf("get config: status=%d body=%s", w.Code, w.Body.String())
	}

	// period omitted keeps the current one
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPut, "/api/v1/link/config", []byte(`{"demo_mode":true}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("put config status=%d, body=%s", w.Code, w.Body.String())
	}
	if got := health.setCalls[0]; !got.DemoMode || got.DemoPeriod != 2*time.Second {
		t.Fatalf("SetConfig got %+v", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPut, "/api/v1/link/config", []byte(`{"demo_mode":true,"demo_period_ms":6000}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("put config status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Config LinkConfig `json:"config"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if !out.Config.DemoMode || out.Config.DemoPeriodMs != 6000 {
		t.Fatalf("unexpected config in response: %+v", out.Config)
	}
}

func TestLinkHandlers_ConfigRejected(t *testing.T) {
	health := &mockHealth{
		cfg:    service.HealthConfig{DemoPeriod: 2 * time.Second},
		setErr: service.ErrInvalidDemoPeriod,
	}
	r := newLinkRouter(health)

	for _, body := range []string{
		`{"demo_mode":true,"demo_period_ms":0}`,
		`{"demo_period_ms":1000}`,
		`[]`,
		`{"demo_mode":true,"demo_period_ms":3600001}`,
		`{"demo_mode":true,"demo_period_ms":18446744073710}`,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, authedRequest(http.MethodPut, "/api/v1/link/config", []byte(body)))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, w.Code)
		}
	}
	// only the first body reaches the service; the others fail binding or the
	// period bound, which is checked before the millisecond conversion
	if len(health.setCalls) != 1 {
		t.Fatalf("SetConfig calls = %d; want 1", len(health.setCalls))
	}
}
