// ABOUTME: HTTP handler tests using httptest against the full router.
// ABOUTME: Covers OAuth callback, sync triggers, cron auth, and plan reads.
package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/harperreed/trainer/internal/strava"
	"github.com/harperreed/trainer/internal/syncer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		StravaClientID:     "client-id",
		StravaClientSecret: "client-secret",
		HTTPAddr:           ":0",
		AppBaseURL:         "http://localhost:8080",
		CronSecret:         "topsecret",
		Environment:        config.EnvDevelopment,
		RaceDate:           time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC),
	}
}

func newTestServer(t *testing.T, cfg *config.Config, stravaURL string) (*Server, *storage.DB) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "trainer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client := strava.NewClient(cfg.StravaClientID, cfg.StravaClientSecret)
	if stravaURL != "" {
		client = client.WithBaseURL(stravaURL)
	}

	logger := zap.NewNop()
	sync := syncer.New(db, client, logger)
	rollup := syncer.NewRollup(db, logger)
	cache := NewCache("", logger)

	return New(cfg, db, client, sync, rollup, nil, cache, logger), db
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")
	w := doRequest(s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")
	w := doRequest(s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStravaConnectRedirects(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")
	w := doRequest(s, http.MethodGet, "/api/strava", "")

	require.Equal(t, http.StatusFound, w.Code)
	loc := w.Header().Get("Location")
	assert.Contains(t, loc, "/oauth/authorize")
	assert.Contains(t, loc, "client_id=client-id")
	assert.Contains(t, loc, url.QueryEscape("http://localhost:8080/api/strava/callback"))
}

func TestStravaConnectWithoutCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.StravaClientID = ""
	s, _ := newTestServer(t, cfg, "")

	w := doRequest(s, http.MethodGet, "/api/strava", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "STRAVA_CLIENT_ID")
}

func TestStravaCallbackStoresCredential(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/token", r.URL.Path)
		var params map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, "authorization_code", params["grant_type"])
		assert.Equal(t, "the-code", params["code"])
		json.NewEncoder(w).Encode(strava.TokenResponse{
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresAt:    time.Now().Add(6 * time.Hour).Unix(),
			Athlete:      &strava.Athlete{ID: 42, FirstName: "Harper"},
		})
	}))
	defer upstream.Close()

	s, db := newTestServer(t, testConfig(), upstream.URL)
	w := doRequest(s, http.MethodGet, "/api/strava/callback?code=the-code", "")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "success=strava_connected")
	assert.Contains(t, w.Header().Get("Location"), "athlete=Harper")

	cred, err := db.GetCredential(42)
	require.NoError(t, err)
	assert.Equal(t, "access", cred.AccessToken)
	assert.Contains(t, string(cred.AthleteData), "Harper")
}

func TestStravaCallbackErrors(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")

	w := doRequest(s, http.MethodGet, "/api/strava/callback?error=access_denied", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "error=access_denied")

	w = doRequest(s, http.MethodGet, "/api/strava/callback", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "error=no_code")
}

func TestSyncWithoutConnectedAccount(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")
	w := doRequest(s, http.MethodPost, "/api/strava/sync", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSyncRunsRollupForNewActivities(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]strava.Activity{{
			ID:         900,
			StartDate:  "2026-01-06T07:00:00Z",
			Name:       "Morning Run",
			Type:       "Run",
			Distance:   10000,
			MovingTime: 3600,
		}})
	}))
	defer upstream.Close()

	s, db := newTestServer(t, testConfig(), upstream.URL)
	seedCredential(t, db)
	week := seedWeek(t, db)

	w := doRequest(s, http.MethodPost, "/api/strava/sync?full=true", "")
	require.Equal(t, http.StatusOK, w.Code)

	var res map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, float64(1), res["synced"])
	assert.Equal(t, false, res["truncated"])

	summary, err := db.GetWeeklySummary(week.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, summary.ActualKm)
}

func TestCronSyncAuth(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]strava.Activity{})
	}))
	defer upstream.Close()

	cfg := testConfig()
	cfg.Environment = config.EnvProduction
	s, db := newTestServer(t, cfg, upstream.URL)
	seedCredential(t, db)

	w := doRequest(s, http.MethodPost, "/api/cron/sync", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/cron/sync", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/cron/sync", nil)
	req.Header.Set("Authorization", "Bearer topsecret")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCronSyncOpenInDevelopment(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]strava.Activity{})
	}))
	defer upstream.Close()

	s, db := newTestServer(t, testConfig(), upstream.URL)
	seedCredential(t, db)

	w := doRequest(s, http.MethodPost, "/api/cron/sync", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListWeeksAttachesSummaries(t *testing.T) {
	s, db := newTestServer(t, testConfig(), "")
	week := seedWeek(t, db)

	summary := models.NewWeeklySummary(week.ID)
	summary.ActualKm = 27.3
	summary.ActualActivities = 3
	summary.SetCompletion(week.TargetKm)
	require.NoError(t, db.UpsertWeeklySummary(summary))

	w := doRequest(s, http.MethodGet, "/api/weeks", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	sum, ok := out[0]["summary"].(map[string]interface{})
	require.True(t, ok, "week should carry its summary")
	assert.Equal(t, 27.3, sum["actual_km"])
}

func TestCurrentWeekDetail(t *testing.T) {
	s, db := newTestServer(t, testConfig(), "")
	week := seedWeek(t, db)
	s.now = func() time.Time { return time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC) }

	w := doRequest(s, http.MethodGet, "/api/weeks/current", "")
	require.Equal(t, http.StatusOK, w.Code)

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	wk := detail["week"].(map[string]interface{})
	assert.Equal(t, week.ID.String(), wk["id"])
	assert.Equal(t, "Base", detail["phase"].(map[string]interface{})["name"])
	assert.NotNil(t, detail["workouts"])
	assert.NotNil(t, detail["activities"])
}

func TestCurrentWeekNotFound(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")
	s.now = func() time.Time { return time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC) }

	w := doRequest(s, http.MethodGet, "/api/weeks/current", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetWeekInvalidID(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")
	w := doRequest(s, http.MethodGet, "/api/weeks/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProgressWithoutTargets(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")
	s.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	w := doRequest(s, http.MethodGet, "/api/progress", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	_, hasCompletion := out["completion_percentage"]
	assert.False(t, hasCompletion, "no targets means no percentage")
	assert.Equal(t, float64(184), out["days_until_race"])
}

func TestProgressTotals(t *testing.T) {
	s, db := newTestServer(t, testConfig(), "")
	week := seedWeek(t, db)

	summary := models.NewWeeklySummary(week.ID)
	summary.ActualKm = 20.0
	require.NoError(t, db.UpsertWeeklySummary(summary))

	w := doRequest(s, http.MethodGet, "/api/progress", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 40.0, out["total_target_km"])
	assert.Equal(t, 20.0, out["total_actual_km"])
	assert.Equal(t, float64(50), out["completion_percentage"])
}

func TestListActivitiesLimit(t *testing.T) {
	s, db := newTestServer(t, testConfig(), "")
	for i := 0; i < 3; i++ {
		a := models.NewActivity(int64(i+1), time.Date(2026, 1, 5+i, 7, 0, 0, 0, time.UTC))
		require.NoError(t, db.UpsertActivity(a))
	}

	w := doRequest(s, http.MethodGet, "/api/activities?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out, 2)

	w = doRequest(s, http.MethodGet, "/api/activities?limit=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkoutsToday(t *testing.T) {
	s, db := newTestServer(t, testConfig(), "")
	week := seedWeek(t, db)
	pw := models.NewPlannedWorkout(week.ID, time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), models.WorkoutRun)
	require.NoError(t, db.CreatePlannedWorkout(pw))

	s.now = func() time.Time { return time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC) }
	w := doRequest(s, http.MethodGet, "/api/workouts/today", "")
	require.Equal(t, http.StatusOK, w.Code)
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out, 1)
}

func TestCreateLifestyleLog(t *testing.T) {
	s, db := newTestServer(t, testConfig(), "")

	w := doRequest(s, http.MethodPost, "/api/lifestyle",
		`{"date":"2026-01-06","sleep_hours":7.5,"no_sugar":true}`)
	require.Equal(t, http.StatusCreated, w.Code)

	logs, err := db.ListLifestyleLogs(0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 7.5, *logs[0].SleepHours)

	w = doRequest(s, http.MethodPost, "/api/lifestyle", `{"date":"06.01.2026"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(s, http.MethodPost, "/api/lifestyle", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAndListGoals(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")

	w := doRequest(s, http.MethodPost, "/api/goals",
		`{"title":"Finish the race","target_date":"2026-07-04"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(s, http.MethodGet, "/api/goals", "")
	require.Equal(t, http.StatusOK, w.Code)
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Finish the race", out[0]["title"])
}

func TestAuthorPlanOverHTTP(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")

	// Phase first, with one nested week created in the same request.
	w := doRequest(s, http.MethodPost, "/api/phases", `{
		"name": "Base",
		"start_date": "2026-01-05",
		"end_date": "2026-01-18",
		"weeks": [{"week_number": 1, "start_date": "2026-01-05", "end_date": "2026-01-11", "target_km": 40}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Phase struct {
			ID string `json:"id"`
		} `json:"phase"`
		Weeks int `json:"weeks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 1, created.Weeks)

	// A second week against the returned phase id.
	w = doRequest(s, http.MethodPost, "/api/weeks",
		`{"phase_id":"`+created.Phase.ID+`","week_number":2,"start_date":"2026-01-12","end_date":"2026-01-18","target_km":45}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var week struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &week))

	w = doRequest(s, http.MethodPost, "/api/workouts",
		`{"week_id":"`+week.ID+`","date":"2026-01-13","workout_type":"run","target_km":12}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// The reads now see the authored plan.
	w = doRequest(s, http.MethodGet, "/api/weeks", "")
	require.Equal(t, http.StatusOK, w.Code)
	var weeks []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &weeks))
	assert.Len(t, weeks, 2)

	w = doRequest(s, http.MethodGet, "/api/weeks/"+week.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	var workouts []map[string]interface{}
	require.NoError(t, json.Unmarshal(detail["workouts"], &workouts))
	require.Len(t, workouts, 1)
	assert.Equal(t, "run", workouts[0]["workout_type"])
}

func TestCreatePhaseValidation(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")

	w := doRequest(s, http.MethodPost, "/api/phases", `{"start_date":"2026-01-05"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(s, http.MethodPost, "/api/phases",
		`{"name":"Base","start_date":"Jan 5","end_date":"2026-01-18"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "start_date")
}

func TestCreateWeekUnknownPhase(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")

	w := doRequest(s, http.MethodPost, "/api/weeks",
		`{"phase_id":"5cbb0ad6-6a13-4668-a496-b3ad0326b786","week_number":1,"start_date":"2026-01-05","end_date":"2026-01-11"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown phase_id")
}

func TestCreateWorkoutUnknownWeek(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")

	w := doRequest(s, http.MethodPost, "/api/workouts",
		`{"week_id":"5cbb0ad6-6a13-4668-a496-b3ad0326b786","date":"2026-01-06","workout_type":"run"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown week_id")
}

func TestAIAnalyzeUnavailableWithoutKey(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), "")
	w := doRequest(s, http.MethodPost, "/api/ai/analyze",
		`{"week_id":"5cbb0ad6-6a13-4668-a496-b3ad0326b786"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func seedCredential(t *testing.T, db *storage.DB) {
	t.Helper()
	require.NoError(t, db.UpsertCredential(&models.Credential{
		AthleteID:    42,
		AccessToken:  "token",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		UpdatedAt:    time.Now().UTC(),
	}))
}

func seedWeek(t *testing.T, db *storage.DB) *models.Week {
	t.Helper()
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)

	phase := models.NewPhase("Base", start, end)
	require.NoError(t, db.CreatePhase(phase))

	week := models.NewWeek(phase.ID, 1, start, end).WithTargetKm(40)
	require.NoError(t, db.CreateWeek(week))
	return week
}
