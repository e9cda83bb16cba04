package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appointmenth "github.com/salonkit/scheduler-api/internal/handler/appointment"
	audith "github.com/salonkit/scheduler-api/internal/handler/audit"
	authh "github.com/salonkit/scheduler-api/internal/handler/auth"
	catalogh "github.com/salonkit/scheduler-api/internal/handler/catalog"
	customerh "github.com/salonkit/scheduler-api/internal/handler/customer"
	healthh "github.com/salonkit/scheduler-api/internal/handler/health"
	locationh "github.com/salonkit/scheduler-api/internal/handler/location"
	"github.com/salonkit/scheduler-api/internal/middleware"
	"github.com/salonkit/scheduler-api/internal/repository/memory"
	"github.com/salonkit/scheduler-api/internal/router"
	"github.com/salonkit/scheduler-api/internal/service/audit"
	authsvc "github.com/salonkit/scheduler-api/internal/service/auth"
	"github.com/salonkit/scheduler-api/internal/service/catalog"
	"github.com/salonkit/scheduler-api/internal/service/customer"
	"github.com/salonkit/scheduler-api/internal/service/location"
	"github.com/salonkit/scheduler-api/internal/service/scheduler"
	pkgauth "github.com/salonkit/scheduler-api/pkg/auth"
	"github.com/salonkit/scheduler-api/pkg/logger"
	"github.com/salonkit/scheduler-api/pkg/metrics"
	"github.com/salonkit/scheduler-api/pkg/validator"
)

// One shared registration; promauto panics on duplicate collectors.
var testMetrics = metrics.NewMetrics("router_test")

type testServer struct {
	server   *httptest.Server
	tenantID string
	token    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	appointmentRepo := memory.NewAppointmentRepository(store)
	locationRepo := memory.NewLocationRepository(store)
	serviceRepo := memory.NewServiceRepository(store)
	customerRepo := memory.NewCustomerRepository(store)
	auditRepo := memory.NewAuditRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)
	userRepo := memory.NewUserRepository(store)

	auditor := audit.NewService(auditRepo)
	locationSvc := location.NewService(locationRepo, auditor, store)
	schedulerSvc := scheduler.NewService(appointmentRepo, customerRepo, serviceRepo,
		locationSvc, locationRepo, auditor, outboxRepo, store, nil)
	catalogSvc := catalog.NewService(serviceRepo, auditor, store)
	customerSvc := customer.NewService(customerRepo, auditor, store)

	jwtSvc := pkgauth.NewJWTService("test-secret", time.Hour)
	authSvc := authsvc.NewService(userRepo, jwtSvc, store)

	va := validator.New()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})

	r := router.NewRouter(router.Handlers{
		Appointment: appointmenth.NewHandler(schedulerSvc, va),
		Location:    locationh.NewHandler(locationSvc, va),
		Catalog:     catalogh.NewHandler(catalogSvc, va),
		Customer:    customerh.NewHandler(customerSvc, va),
		Audit:       audith.NewHandler(auditor),
		Auth:        authh.NewHandler(authSvc, va),
		Health:      healthh.NewHandler(nil),
	}, middleware.NewAuthMiddleware(jwtSvc), testMetrics, log, router.Config{
		RequestsPerSecond: 1000,
		Burst:             1000,
	})

	ts := &testServer{
		server:   httptest.NewServer(r.Engine()),
		tenantID: uuid.NewString(),
	}
	t.Cleanup(ts.server.Close)

	// Register a staff user and capture an access token for protected routes.
	resp := ts.do(t, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"email":    "staff@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	resp = ts.do(t, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"email":    "staff@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()
	require.NotEmpty(t, login.Data.Token)
	ts.token = login.Data.Token

	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", ts.tenantID)
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (ts *testServer) createCustomer(t *testing.T) string {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/api/v1/customers", map[string]interface{}{
		"name": "Ada Lovelace",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	return body["data"].(map[string]interface{})["id"].(string)
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestMissingTenantHeader(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.server.URL+"/api/v1/appointments", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "MISSING_TENANT_CONTEXT", body["code"])
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.server.URL+"/api/v1/appointments", nil)
	require.NoError(t, err)
	req.Header.Set("X-Tenant-ID", ts.tenantID)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestTokenTenantMismatch(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.server.URL+"/api/v1/appointments", nil)
	require.NoError(t, err)
	req.Header.Set("X-Tenant-ID", uuid.NewString())
	req.Header.Set("Authorization", "Bearer "+ts.token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestBookingFlow(t *testing.T) {
	ts := newTestServer(t)
	customerID := ts.createCustomer(t)

	resp := ts.do(t, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"customer_id": customerID,
		"starts_at":   "2026-03-02T10:00:00Z",
		"ends_at":     "2026-03-02T11:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "booked", data["status"])
	appointmentID := data["id"].(string)

	// The same slot again conflicts.
	resp = ts.do(t, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"customer_id": customerID,
		"starts_at":   "2026-03-02T10:30:00Z",
		"ends_at":     "2026-03-02T11:30:00Z",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body = decode(t, resp)
	assert.Equal(t, "APPOINTMENT_OVERLAP", body["code"])
	conflicts := body["conflicts"].([]interface{})
	require.Len(t, conflicts, 1)
	assert.Equal(t, appointmentID, conflicts[0].(map[string]interface{})["id"])

	// Cancel, then the slot frees up.
	resp = ts.do(t, http.MethodPatch, "/api/v1/appointments/"+appointmentID, map[string]interface{}{
		"status":           "cancelled",
		"cancelled_reason": "customer called",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode(t, resp)
	assert.Equal(t, "cancelled", body["data"].(map[string]interface{})["status"])

	resp = ts.do(t, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"customer_id": customerID,
		"starts_at":   "2026-03-02T10:30:00Z",
		"ends_at":     "2026-03-02T11:30:00Z",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteAndRestoreOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	customerID := ts.createCustomer(t)

	resp := ts.do(t, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"customer_id": customerID,
		"starts_at":   "2026-03-02T10:00:00Z",
		"ends_at":     "2026-03-02T11:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode(t, resp)["data"].(map[string]interface{})["id"].(string)

	resp = ts.do(t, http.MethodDelete, "/api/v1/appointments/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(t, http.MethodGet, "/api/v1/appointments/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/appointments/%s/restore", id), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(t, http.MethodGet, "/api/v1/appointments/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestValidationErrorsReturn400(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/api/v1/customers", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(t, http.MethodGet, "/api/v1/appointments?sort=notes", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "INVALID_SORT_FIELD", body["code"])
}

func TestDefaultLocationEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/v1/locations/default", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Main Location", body["data"].(map[string]interface{})["name"])
}

func TestAuditTrailEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.createCustomer(t)

	resp := ts.do(t, http.MethodGet, "/api/v1/audit-logs?entity_type=customer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	items := body["data"].(map[string]interface{})["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "created", items[0].(map[string]interface{})["action"])
}
