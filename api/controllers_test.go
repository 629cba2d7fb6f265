package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"trendcast/auth"
	"trendcast/config"
	"trendcast/services"
	"trendcast/store"
	"trendcast/types"
	"trendcast/workflow"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errQuota = errors.New("upload quota exceeded")

// fakeChannels stands in for the YouTube channel lookup, failing the first
// failCalls invocations.
type fakeChannels struct {
	calls     int
	failCalls int
	channel   types.Channel
}

func (f *fakeChannels) ChannelInfo(_ context.Context, _ *http.Client) (types.Channel, error) {
	f.calls++
	if f.calls <= f.failCalls {
		return types.Channel{}, errors.New("oauth2: token expired")
	}
	return f.channel, nil
}

// fakeUploader stands in for the YouTube upload step.
type fakeUploader struct {
	url string
	err error
}

func (f fakeUploader) Upload(_ context.Context, _ *http.Client, _ types.GenerationResult) (string, error) {
	return f.url, f.err
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	cfg := config.Config{GoogleClientID: "id", GoogleClientSecret: "secret"}
	sessions := store.NewMemorySessionStore()
	trends := store.NewTrendStore()
	return Deps{
		Config:    cfg,
		Auth:      auth.NewManager(cfg, sessions),
		Schedules: store.NewScheduleStore(),
		Trends:    trends,
		Refresher: services.NewTrendRefresher(nil, "", trends),
		YouTube:   services.NewYouTubeClient(),
		Runner:    workflow.NewRunner(trends, nil, nil, fakeUploader{url: "https://www.youtube.com/watch?v=abc123"}),
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	r := NewRouter(testDeps(t))
	w := doJSON(t, r, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestScheduleLifecycle(t *testing.T) {
	r := NewRouter(testDeps(t))

	// Empty registry to start.
	var list struct {
		Schedules []types.Schedule `json:"schedules"`
	}
	w := doJSON(t, r, http.MethodGet, "/api/schedules", nil)
	decode(t, w, &list)
	if len(list.Schedules) != 0 {
		t.Fatalf("fresh registry has %d schedules", len(list.Schedules))
	}

	// Add.
	var added struct {
		Schedules []types.Schedule `json:"schedules"`
		Schedule  types.Schedule   `json:"schedule"`
	}
	w = doJSON(t, r, http.MethodPost, "/api/schedules", gin.H{"time": "14:30"})
	if w.Code != http.StatusOK {
		t.Fatalf("add status = %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &added)
	if added.Schedule.Time != "14:30" || !added.Schedule.Enabled {
		t.Errorf("added schedule = %+v", added.Schedule)
	}
	if added.Schedule.NextRun == nil {
		t.Errorf("added schedule has no next run")
	}
	if len(added.Schedules) != 1 {
		t.Errorf("registry has %d schedules after add", len(added.Schedules))
	}
	id := added.Schedule.ID

	// Disable clears the next run.
	var updated struct {
		Schedule types.Schedule `json:"schedule"`
	}
	disabled := false
	w = doJSON(t, r, http.MethodPut, "/api/schedules/"+id, types.ScheduleUpdate{Enabled: &disabled})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &updated)
	if updated.Schedule.Enabled {
		t.Errorf("schedule still enabled after update")
	}
	if updated.Schedule.NextRun != nil {
		t.Errorf("disabled schedule kept nextRun %v", updated.Schedule.NextRun)
	}

	// Delete.
	w = doJSON(t, r, http.MethodDelete, "/api/schedules/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/schedules", nil)
	decode(t, w, &list)
	if len(list.Schedules) != 0 {
		t.Errorf("registry has %d schedules after delete", len(list.Schedules))
	}
}

func TestAddScheduleRequiresTime(t *testing.T) {
	r := NewRouter(testDeps(t))
	for _, body := range []any{gin.H{}, gin.H{"time": ""}} {
		w := doJSON(t, r, http.MethodPost, "/api/schedules", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d for body %v", w.Code, body)
		}
		var resp map[string]string
		decode(t, w, &resp)
		if resp["error"] != "Time is required" {
			t.Errorf("error = %q", resp["error"])
		}
	}
}

func TestUpdateScheduleOverridesCallerNextRun(t *testing.T) {
	r := NewRouter(testDeps(t))

	var added struct {
		Schedule types.Schedule `json:"schedule"`
	}
	w := doJSON(t, r, http.MethodPost, "/api/schedules", gin.H{"time": "14:30"})
	decode(t, w, &added)

	// A caller-supplied nextRun is ignored; re-enabling recomputes it.
	var updated struct {
		Schedule types.Schedule `json:"schedule"`
	}
	w = doJSON(t, r, http.MethodPut, "/api/schedules/"+added.Schedule.ID,
		gin.H{"enabled": true, "nextRun": "1999-01-01T00:00:00Z"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &updated)
	if updated.Schedule.NextRun == nil {
		t.Fatalf("enabled schedule has no next run")
	}
	if !updated.Schedule.NextRun.After(time.Now()) {
		t.Errorf("nextRun = %v, want a recomputed future time", updated.Schedule.NextRun)
	}
}

func TestScheduleUnknownID(t *testing.T) {
	r := NewRouter(testDeps(t))

	enabled := true
	w := doJSON(t, r, http.MethodPut, "/api/schedules/nope", types.ScheduleUpdate{Enabled: &enabled})
	if w.Code != http.StatusNotFound {
		t.Errorf("update status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, "/api/schedules/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete status = %d", w.Code)
	}
}

func TestListTrends(t *testing.T) {
	r := NewRouter(testDeps(t))
	w := doJSON(t, r, http.MethodGet, "/api/trends", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Trends []types.Trend `json:"trends"`
	}
	decode(t, w, &body)
	if len(body.Trends) != 5 {
		t.Errorf("got %d seeded trends, want 5", len(body.Trends))
	}
}

func TestRefreshTrendsWithoutSourcesReturnsExisting(t *testing.T) {
	r := NewRouter(testDeps(t))
	w := doJSON(t, r, http.MethodPost, "/api/trends/refresh", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Trends []types.Trend `json:"trends"`
	}
	decode(t, w, &body)
	if len(body.Trends) != 5 {
		t.Errorf("got %d trends, want the existing 5", len(body.Trends))
	}
}

func TestCronNoTasksDue(t *testing.T) {
	r := NewRouter(testDeps(t))
	w := doJSON(t, r, http.MethodGet, "/api/cron", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Message string          `json:"message"`
		Tasks   []types.DueTask `json:"tasks"`
	}
	decode(t, w, &body)
	if body.Message != "No tasks due" {
		t.Errorf("message = %q", body.Message)
	}
	if body.Tasks == nil || len(body.Tasks) != 0 {
		t.Errorf("tasks = %v, want empty array", body.Tasks)
	}
}

func TestLoginUnconfigured(t *testing.T) {
	deps := testDeps(t)
	deps.Config = config.Config{}
	deps.Auth = auth.NewManager(deps.Config, store.NewMemorySessionStore())
	r := NewRouter(deps)

	w := doJSON(t, r, http.MethodGet, "/api/auth/login", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["error"] != "Failed to initiate login" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestLoginRedirectsToConsent(t *testing.T) {
	r := NewRouter(testDeps(t))
	w := doJSON(t, r, http.MethodGet, "/api/auth/login", nil)
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, "access_type=offline") || !strings.Contains(loc, "client_id=id") {
		t.Errorf("redirect = %q", loc)
	}
}

func TestCallbackWithoutCode(t *testing.T) {
	r := NewRouter(testDeps(t))
	w := doJSON(t, r, http.MethodGet, "/api/auth/callback", nil)
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/?error=no_code" {
		t.Errorf("redirect = %q", loc)
	}
}

func TestStatusWithoutSession(t *testing.T) {
	r := NewRouter(testDeps(t))
	w := doJSON(t, r, http.MethodGet, "/api/auth/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Authenticated bool `json:"authenticated"`
	}
	decode(t, w, &body)
	if body.Authenticated {
		t.Errorf("unauthenticated request reported as authenticated")
	}
}

// statusTestDeps builds deps with a saved session, a scripted channel
// lookup, and a local token endpoint that counts refresh grants.
func statusTestDeps(t *testing.T, channels *fakeChannels, refreshToken string, refreshes *int) Deps {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.PostFormValue("grant_type") != "refresh_token" {
			http.Error(w, "unsupported grant", http.StatusBadRequest)
			return
		}
		*refreshes++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"access-2","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)

	deps := testDeps(t)
	sessions := store.NewMemorySessionStore()
	deps.Auth = auth.NewManager(deps.Config, sessions)
	deps.Auth.SetEndpoint(oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"})
	deps.YouTube = channels

	if err := sessions.Save(context.Background(), types.Session{
		ID:               "sess-status",
		AccessToken:      "access-1",
		RefreshToken:     refreshToken,
		RefreshExpiresAt: time.Now().Add(24 * time.Hour),
	}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	return deps
}

func TestStatusRefreshesOnceAndRetries(t *testing.T) {
	var refreshes int
	channels := &fakeChannels{failCalls: 1, channel: types.Channel{ID: "UC1", Title: "Trendcast"}}
	r := NewRouter(statusTestDeps(t, channels, "refresh-1", &refreshes))

	cookie := &http.Cookie{Name: config.SessionCookie, Value: "sess-status"}
	w := doJSON(t, r, http.MethodGet, "/api/auth/status", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Authenticated bool           `json:"authenticated"`
		Channel       *types.Channel `json:"channel"`
	}
	decode(t, w, &body)
	if !body.Authenticated {
		t.Errorf("authenticated = false after successful retry")
	}
	if body.Channel == nil || body.Channel.ID != "UC1" {
		t.Errorf("channel = %+v, want the retried lookup result", body.Channel)
	}

	if refreshes != 1 {
		t.Errorf("token endpoint saw %d refresh grants, want exactly 1", refreshes)
	}
	if channels.calls != 2 {
		t.Errorf("channel lookup called %d times, want exactly 2", channels.calls)
	}
}

func TestStatusRefreshFailureReportsUnauthenticated(t *testing.T) {
	var refreshes int
	channels := &fakeChannels{failCalls: 1}
	// No refresh token: the single refresh attempt fails without a retry.
	r := NewRouter(statusTestDeps(t, channels, "", &refreshes))

	cookie := &http.Cookie{Name: config.SessionCookie, Value: "sess-status"}
	w := doJSON(t, r, http.MethodGet, "/api/auth/status", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Authenticated bool `json:"authenticated"`
	}
	decode(t, w, &body)
	if body.Authenticated {
		t.Errorf("authenticated = true despite failed refresh")
	}
	if refreshes != 0 {
		t.Errorf("token endpoint saw %d refresh grants, want 0", refreshes)
	}
	if channels.calls != 1 {
		t.Errorf("channel lookup called %d times, want 1 (no retry)", channels.calls)
	}
}

func TestStatusRetryFailureStillAuthenticated(t *testing.T) {
	var refreshes int
	channels := &fakeChannels{failCalls: 2}
	r := NewRouter(statusTestDeps(t, channels, "refresh-1", &refreshes))

	cookie := &http.Cookie{Name: config.SessionCookie, Value: "sess-status"}
	w := doJSON(t, r, http.MethodGet, "/api/auth/status", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Authenticated bool           `json:"authenticated"`
		Channel       *types.Channel `json:"channel"`
	}
	decode(t, w, &body)
	if !body.Authenticated {
		t.Errorf("authenticated = false; the refreshed session is still good")
	}
	if body.Channel != nil {
		t.Errorf("channel = %+v, want omitted after failed retry", body.Channel)
	}
	if refreshes != 1 {
		t.Errorf("token endpoint saw %d refresh grants, want exactly 1", refreshes)
	}
	if channels.calls != 2 {
		t.Errorf("channel lookup called %d times, want exactly 2", channels.calls)
	}
}

func TestGenerateVideoUnauthenticated(t *testing.T) {
	r := NewRouter(testDeps(t))
	w := doJSON(t, r, http.MethodPost, "/api/generate-video", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Error string   `json:"error"`
		Logs  []string `json:"logs"`
	}
	decode(t, w, &body)
	if body.Error != "Not authenticated" {
		t.Errorf("error = %q", body.Error)
	}
	if len(body.Logs) != 1 || body.Logs[0] != "Starting video generation process..." {
		t.Errorf("logs = %v", body.Logs)
	}
}

func TestGenerateVideoSuccess(t *testing.T) {
	deps := testDeps(t)
	sessions := store.NewMemorySessionStore()
	deps.Auth = auth.NewManager(deps.Config, sessions)
	if err := sessions.Save(context.Background(), types.Session{
		ID:               "sess-1",
		AccessToken:      "at",
		RefreshToken:     "rt",
		AccessExpiresAt:  time.Now().Add(time.Hour),
		RefreshExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt:        time.Now(),
	}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	r := NewRouter(deps)

	cookie := &http.Cookie{Name: config.SessionCookie, Value: "sess-1"}
	w := doJSON(t, r, http.MethodPost, "/api/generate-video", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Success  bool     `json:"success"`
		VideoURL string   `json:"videoUrl"`
		Logs     []string `json:"logs"`
	}
	decode(t, w, &body)
	if !body.Success {
		t.Errorf("success = false")
	}
	if body.VideoURL != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("videoUrl = %q", body.VideoURL)
	}
	if len(body.Logs) < 2 || body.Logs[0] != "Starting video generation process..." {
		t.Fatalf("logs = %v", body.Logs)
	}
	last := body.Logs[len(body.Logs)-1]
	if !strings.HasPrefix(last, "Success! Video available at:") {
		t.Errorf("final log = %q", last)
	}
}

func TestGenerateVideoUploadFailure(t *testing.T) {
	deps := testDeps(t)
	sessions := store.NewMemorySessionStore()
	deps.Auth = auth.NewManager(deps.Config, sessions)
	deps.Runner = workflow.NewRunner(deps.Trends, nil, nil, fakeUploader{err: errQuota})
	if err := sessions.Save(context.Background(), types.Session{
		ID:               "sess-2",
		AccessToken:      "at",
		RefreshExpiresAt: time.Now().Add(24 * time.Hour),
	}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	r := NewRouter(deps)

	cookie := &http.Cookie{Name: config.SessionCookie, Value: "sess-2"}
	w := doJSON(t, r, http.MethodPost, "/api/generate-video", nil, cookie)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Error string   `json:"error"`
		Logs  []string `json:"logs"`
	}
	decode(t, w, &body)
	if body.Error != errQuota.Error() {
		t.Errorf("error = %q", body.Error)
	}
	// The audit trail survives the failure.
	if len(body.Logs) < 2 {
		t.Errorf("logs = %v", body.Logs)
	}
}
