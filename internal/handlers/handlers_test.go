package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hourglass/internal/config"
	"hourglass/internal/ids"
	"hourglass/internal/models"
	"hourglass/internal/notify"
	"hourglass/internal/repository/memory"
	"hourglass/internal/security"
	"hourglass/internal/service"
)

type testAPI struct {
	t        *testing.T
	engine   *gin.Engine
	store    *memory.Store
	cfg      *config.AppConfig
	admin    models.User
	employee models.User
	project  models.Project
	task     models.Task
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	cfg := &config.AppConfig{
		Environment: "test",
		Security:    config.SecurityConfig{JWTSecret: "handler-secret", JWTTTL: time.Hour},
		App:         config.AppSettings{Timezone: "UTC", ListLimit: 1000, NotificationDefaultLimit: 50},
	}
	log := zerolog.Nop()
	dispatcher := notify.NewDispatcher(store, nil, log)

	services := Services{
		Auth:          service.NewAuthService(store, cfg, log),
		Users:         service.NewUserService(store, cfg, log),
		Catalog:       service.NewCatalogService(store, cfg, log),
		Timer:         service.NewTimerService(store, cfg, log),
		Entries:       service.NewEntryService(store, cfg, log),
		Timesheets:    service.NewTimesheetService(store, dispatcher, cfg, log),
		Notifications: service.NewNotificationService(store, cfg, log),
		Reports:       service.NewReportService(store, nil, cfg, log),
		Dashboard:     service.NewDashboardService(store, cfg, log),
	}

	engine := gin.New()
	NewHandlerSet(log, cfg, store, nil, services).Register(&engine.RouterGroup)

	api := &testAPI{t: t, engine: engine, store: store, cfg: cfg}
	api.admin = api.addUser("admin@example.com", "Ada Admin", models.UserRoleAdmin, models.UserStatusActive)
	api.employee = api.addUser("eve@example.com", "Eve Employee", models.UserRoleEmployee, models.UserStatusActive)

	ctx := context.Background()
	var err error
	api.project, err = store.Projects().Create(ctx, models.Project{ID: ids.New(), Name: "Apollo", CreatedBy: api.admin.ID, Status: models.CatalogStatusActive})
	require.NoError(t, err)
	api.task, err = store.Tasks().Create(ctx, models.Task{ID: ids.New(), Name: "Design", ProjectID: api.project.ID, Status: models.CatalogStatusActive})
	require.NoError(t, err)
	return api
}

func (a *testAPI) addUser(email, name string, role models.UserRole, status models.UserStatus) models.User {
	a.t.Helper()
	digest, err := security.HashPasswordWithParams("secret-pass", security.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	require.NoError(a.t, err)
	user, err := a.store.Users().Create(context.Background(), models.User{
		ID: ids.New(), Email: email, Name: name, PasswordHash: digest, Role: role, Status: status,
	})
	require.NoError(a.t, err)
	return user
}

func (a *testAPI) token(user models.User) string {
	a.t.Helper()
	token, err := security.GenerateAccessToken(a.cfg.Security.JWTSecret, user.ID, string(user.Role), time.Hour)
	require.NoError(a.t, err)
	return token
}

func (a *testAPI) do(method, path string, user *models.User, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+a.token(*user))
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["database"])
	assert.Equal(t, "disabled", body["cache"])
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/auth/login", nil, map[string]string{"email": "eve@example.com", "password": "secret-pass"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, api.employee.ID, user["id"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(http.MethodPost, "/api/auth/login", nil, map[string]string{"email": "eve@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodPost, "/api/auth/login", nil, map[string]string{"email": "not-an-email", "password": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Field 'email' must be a valid email")

	api.addUser("ivan@example.com", "Ivan", models.UserRoleEmployee, models.UserStatusInactive)
	rec = api.do(http.MethodPost, "/api/auth/login", nil, map[string]string{"email": "ivan@example.com", "password": "secret-pass"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	api := newTestAPI(t)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/timer/active", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/auth/me", nil, nil).Code)

	inactive := api.addUser("ivan@example.com", "Ivan", models.UserRoleEmployee, models.UserStatusInactive)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/auth/me", &inactive, nil).Code)

	rec := api.do(http.MethodGet, "/api/auth/me", &api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.employee.Email, decode[map[string]any](t, rec)["email"])
}

func TestAdminRoutesRejectEmployees(t *testing.T) {
	api := newTestAPI(t)

	routes := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/admin/employees", nil},
		{http.MethodPost, "/api/admin/employees", map[string]string{"email": "n@example.com", "name": "N", "password": "pw"}},
		{http.MethodPut, "/api/admin/employees/" + api.admin.ID, map[string]string{"name": "X"}},
		{http.MethodPut, "/api/timesheets/any/review", map[string]string{"status": "approved"}},
		{http.MethodPost, "/api/projects", map[string]string{"name": "P"}},
		{http.MethodPost, "/api/tasks", map[string]string{"name": "T", "project_id": "p"}},
	}
	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			rec := api.do(r.method, r.path, &api.employee, r.body)
			assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
		})
	}

	rec := api.do(http.MethodGet, "/api/admin/employees", &api.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)
}

func TestTimerFlow(t *testing.T) {
	api := newTestAPI(t)
	start := map[string]string{"project_id": api.project.ID, "task_id": api.task.ID}

	rec := api.do(http.MethodPost, "/api/timer/start", &api.employee, start)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, rec)["success"])

	rec = api.do(http.MethodPost, "/api/timer/start", &api.employee, start)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "conflict", decode[map[string]any](t, rec)["error"])

	rec = api.do(http.MethodGet, "/api/timer/active", &api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["active"])

	rec = api.do(http.MethodPost, "/api/timer/heartbeat", &api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[map[string]any](t, rec)["last_heartbeat"])

	rec = api.do(http.MethodPost, "/api/timer/stop", &api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entry := decode[map[string]any](t, rec)["time_entry"].(map[string]any)
	assert.Equal(t, "timer", entry["entry_type"])

	rec = api.do(http.MethodPost, "/api/timer/stop", &api.employee, map[string]string{"notes": "again"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodGet, "/api/timer/active", &api.employee, nil)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, false, body["active"])
	assert.Nil(t, body["timer"])
}

func TestStartTimerBindingError(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodPost, "/api/timer/start", &api.employee, map[string]string{"task_id": api.task.ID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Field 'project_id' is required")
}

func TestEntriesAndTimesheetReview(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/time-entries/manual", &api.employee, map[string]any{
		"project_id": api.project.ID,
		"task_id":    api.task.ID,
		"start_time": "2024-03-12T09:00:00Z",
		"end_time":   "2024-03-12T10:30:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entry := decode[map[string]any](t, rec)
	assert.Equal(t, float64(5400), entry["duration"])

	rec = api.do(http.MethodGet, "/api/time-entries?start_date=2024-03-11&end_date=2024-03-17", &api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = api.do(http.MethodPost, "/api/timesheets/submit", &api.employee, map[string]string{"week_start": "2024-03-11", "week_end": "2024-03-17"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sheetID := decode[map[string]any](t, rec)["timesheet_id"].(string)

	rec = api.do(http.MethodPost, "/api/timesheets/submit", &api.employee, map[string]string{"week_start": "2024-03-11", "week_end": "2024-03-17"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/notifications/unread-count", &api.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode[map[string]any](t, rec)["count"])

	rec = api.do(http.MethodPut, "/api/timesheets/"+sheetID+"/review", &api.admin, map[string]string{"status": "denied"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", decode[map[string]any](t, rec)["error"])

	rec = api.do(http.MethodPut, "/api/timesheets/"+sheetID+"/review", &api.admin, map[string]string{"status": "denied", "admin_comment": "add notes"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/notifications/unread", &api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decode[[]map[string]any](t, rec)
	require.Len(t, notes, 1)
	assert.Equal(t, "timesheet_denied", notes[0]["type"])

	rec = api.do(http.MethodPut, "/api/notifications/"+notes[0]["id"].(string)+"/read", &api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(http.MethodPut, "/api/notifications/"+notes[0]["id"].(string)+"/read", &api.admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPut, "/api/notifications/mark-all-read", &api.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["success"])

	rec = api.do(http.MethodDelete, "/api/time-entries/"+entry["id"].(string), &api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(http.MethodDelete, "/api/time-entries/"+entry["id"].(string), &api.employee, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewUnknownTimesheetIsNotFoundBeforeBodyChecks(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPut, "/api/timesheets/missing/review", &api.admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPut, "/api/timesheets/missing/review", &api.admin, map[string]string{"status": "maybe"})
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/timesheets/submit", &api.employee, map[string]string{"week_start": "2024-03-11", "week_end": "2024-03-17"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sheetID := decode[map[string]any](t, rec)["timesheet_id"].(string)

	rec = api.do(http.MethodPut, "/api/timesheets/"+sheetID+"/review", &api.admin, map[string]string{"status": "maybe"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", decode[map[string]any](t, rec)["error"])
}

func TestReportsAndExports(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodPost, "/api/time-entries/manual", &api.employee, map[string]any{
		"project_id": api.project.ID,
		"task_id":    api.task.ID,
		"start_time": "2024-03-12T09:00:00Z",
		"end_time":   "2024-03-12T10:00:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/reports/time?start_date=2024-03-11&end_date=2024-03-17&group_by=project", &api.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["total_hours"])
	assert.Equal(t, float64(1), summary["total_entries"])

	rec = api.do(http.MethodGet, "/api/reports/time?start_date=2024-03-11", &api.admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/reports/export/csv?start_date=2024-03-11&end_date=2024-03-17", &api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=time_report_2024-03-11_2024-03-17.csv", rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, rec.Body.String(), "2024-03-12,Eve Employee,Apollo,Design,1.0")

	rec = api.do(http.MethodGet, "/api/reports/export/pdf?start_date=2024-03-11&end_date=2024-03-17", &api.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = api.do(http.MethodGet, "/api/reports/export/docx?start_date=2024-03-11&end_date=2024-03-17", &api.admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardShapes(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/dashboard/stats", &api.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	admin := decode[map[string]any](t, rec)
	assert.Equal(t, float64(1), admin["total_employees"])
	assert.Contains(t, admin, "active_timers")

	rec = api.do(http.MethodGet, "/api/dashboard/stats", &api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	employee := decode[map[string]any](t, rec)
	assert.Contains(t, employee, "today_hours")
	assert.Contains(t, employee, "week_hours")
	assert.Equal(t, float64(0), employee["total_entries"])
}

func TestCatalogRoutes(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/projects", &api.admin, map[string]string{"name": "Gemini"})
	require.Equal(t, http.StatusOK, rec.Code)
	projectID := decode[map[string]any](t, rec)["id"].(string)

	rec = api.do(http.MethodPost, "/api/tasks", &api.admin, map[string]string{"name": "Build", "project_id": projectID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/tasks?project_id="+projectID, &api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = api.do(http.MethodGet, "/api/projects", &api.employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = api.do(http.MethodPut, "/api/projects/missing", &api.admin, map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
