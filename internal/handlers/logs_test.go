package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"teleop_console/internal/models"
	"teleop_console/internal/service"
)

func requestLogs(t *testing.T, logs *mockEventLog, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	s := &service.Service{Authorization: &mockAuth{parseID: 99}, EventLog: logs}
	w := httptest.NewRecorder()
	newTestRouter(s).ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/logs/?"+query.Encode(), nil))
	return w
}

func TestGetLogs_ListsAndForwardsFilter(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	logs := &mockEventLog{resp: []models.ConsoleEvent{
		{EventID: "e1", OccurredAt: now, Type: models.EventAttach, Description: "controller 0 attached as drive"},
		{EventID: "e2", OccurredAt: now.Add(time.Second), Type: models.EventModeChange, Description: "activity source live -> demo"},
	}}

	w := requestLogs(t, logs, url.Values{
		"from":  {now.Format(time.RFC3339)},
		"to":    {now.Add(2 * time.Second).Format(time.RFC3339)},
		"type":  {" mode_change "},
		"limit": {"50"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}

	var out struct {
		Count  int                   `json:"count"`
		Events []models.ConsoleEvent `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 || len(out.Events) != 2 || out.Events[1].Type != models.EventModeChange {
		t.Fatalf("unexpected response: %+v", out)
	}
	if f := logs.last; f.Type != models.EventModeChange || f.Limit != 50 || !f.From.Equal(now) {
		t.Fatalf("service got filter %+v", f)
	}
}

func TestGetLogs_DateOnlyToCoversDay(t *testing.T) {
	logs := &mockEventLog{}
	w := requestLogs(t, logs, url.Values{"from": {"2025-08-01"}, "to": {"2025-08-01"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	wantTo := time.Date(2025, 8, 1, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if !logs.last.To.Equal(wantTo) {
		t.Fatalf("to = %v; want %v", logs.last.To, wantTo)
	}
}

func TestGetLogs_BadQuery(t *testing.T) {
	cases := []struct {
		name  string
		query url.Values
	}{
		{"bad from", url.Values{"from": {"notatime"}}},
		{"bad to", url.Values{"to": {"31/08/2025"}}},
		{"reversed range", url.Values{"from": {"2025-08-02"}, "to": {"2025-08-01T00:00:00Z"}}},
		{"negative limit", url.Values{"limit": {"-1"}}},
		{"non-numeric limit", url.Values{"limit": {"ten"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs := &mockEventLog{}
			w := requestLogs(t, logs, tc.query)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d; want 400 (body=%s)", w.Code, w.Body.String())
			}
			if logs.calls != 0 {
				t.Fatalf("service called for a rejected query")
			}
		})
	}
}

func TestGetLogs_ServiceErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: %q", service.ErrUnknownEventType, "TELEMETRY"), http.StatusBadRequest},
		{service.ErrInvalidLimit, http.StatusBadRequest},
		{errors.New("disk I/O error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := requestLogs(t, &mockEventLog{err: tc.err}, url.Values{})
		if w.Code != tc.want {
			t.Errorf("err %v: status=%d; want %d", tc.err, w.Code, tc.want)
		}
	}
}
