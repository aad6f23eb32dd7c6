package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"teleop_console/internal/models"
	"teleop_console/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// mockControllers applies bus events with the real pure transitions so
// handler tests can observe registry changes.
type mockControllers struct {
	mu         sync.Mutex
	regs       service.Registries
	classifier service.Classifier
}

func newMockControllers() *mockControllers {
	return &mockControllers{regs: service.NewRegistries(), classifier: service.DefaultClassifier()}
}

func (m *mockControllers) Registries() service.Registries {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs
}
func (m *mockControllers) Activate() error { return nil }
func (m *mockControllers) Deactivate()     {}

// mockDevices stands in for the device bus.
type mockDevices struct {
	mu       sync.Mutex
	attached []models.AttachEvent
	detached []models.DetachEvent
	target   *mockControllers
}

func (m *mockDevices) PublishAttach(ev models.AttachEvent) {
	m.mu.Lock()
	m.attached = append(m.attached, ev)
	m.mu.Unlock()
	if m.target != nil {
		m.target.mu.Lock()
		m.target.regs = service.ApplyAttach(m.target.regs, m.target.classifier.Device(ev, time.Now()))
		m.target.mu.Unlock()
	}
}

func (m *mockDevices) PublishDetach(ev models.DetachEvent) {
	m.mu.Lock()
	m.detached = append(m.detached, ev)
	m.mu.Unlock()
	if m.target != nil {
		m.target.mu.Lock()
		m.target.regs = service.ApplyDetach(m.target.regs, ev)
		m.target.mu.Unlock()
	}
}

func (m *mockDevices) detachedIndexes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, 0, len(m.detached))
	for _, ev := range m.detached {
		out = append(out, ev.Index)
	}
	return out
}

func (m *mockDevices) attachCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.attached)
}

type mockHealth struct {
	state        models.HealthState
	cfg          service.HealthConfig
	setErr       error
	accept       bool
	activityHits int
	setCalls     []service.HealthConfig
}

func (m *mockHealth) State() models.HealthState { return m.state }
func (m *mockHealth) RecordActivity() bool {
	m.activityHits++
	return m.accept
}
func (m *mockHealth) Config() service.HealthConfig { return m.cfg }
func (m *mockHealth) SetConfig(cfg service.HealthConfig) error {
	m.setCalls = append(m.setCalls, cfg)
	if m.setErr != nil {
		return m.setErr
	}
	m.cfg = cfg
	return nil
}
func (m *mockHealth) Run(ctx context.Context, tick time.Duration) error { return nil }

type mockEventLog struct {
	resp  []models.ConsoleEvent
	err   error
	calls int
	last  service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ConsoleEvent, error) {
	m.calls++
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func authedRequest(method, target string, body []byte) *http.Request {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
