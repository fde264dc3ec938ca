package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/gamify"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/storage"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	logs     map[string]models.WorkoutLog
	tribes   map[string]string // log id -> tribe
	profiles map[string]models.UserProfile
	states   map[string]*models.UserGamificationState
	nudges   map[string]int
	xpAudit  []int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		logs:     make(map[string]models.WorkoutLog),
		tribes:   make(map[string]string),
		profiles: make(map[string]models.UserProfile),
		states:   make(map[string]*models.UserGamificationState),
		nudges:   make(map[string]int),
	}
}

func (f *fakeStore) UpsertLog(_ context.Context, tribeID string, log models.WorkoutLog) error {
	f.logs[log.ID] = log
	f.tribes[log.ID] = tribeID
	return nil
}

func (f *fakeStore) GetUserLogs(_ context.Context, user string) ([]models.WorkoutLog, error) {
	var out []models.WorkoutLog
	for _, l := range f.logs {
		if l.User == user {
			out = append(out, l)
		}
	}
	return models.SortLogsDescending(out), nil
}

func (f *fakeStore) GetTribeLogs(_ context.Context, tribeID string) ([]models.WorkoutLog, error) {
	var out []models.WorkoutLog
	for id, l := range f.logs {
		if f.tribes[id] == tribeID {
			out = append(out, l)
		}
	}
	return models.SortLogsDescending(out), nil
}

func (f *fakeStore) GetLogByID(_ context.Context, id string) (*models.WorkoutLog, error) {
	l, ok := f.logs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &l, nil
}

func (f *fakeStore) DeleteLog(_ context.Context, id string) error {
	if _, ok := f.logs[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.logs, id)
	return nil
}

func (f *fakeStore) GetProfile(_ context.Context, id string) (*models.UserProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, p models.UserProfile) error {
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeStore) TribeProfiles(_ context.Context, tribeID string) ([]models.UserProfile, error) {
	var out []models.UserProfile
	for _, p := range f.profiles {
		if p.TribeID == tribeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) TribeUsers(_ context.Context, tribeID string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for id, l := range f.logs {
		if f.tribes[id] == tribeID && !seen[l.User] {
			seen[l.User] = true
			out = append(out, l.User)
		}
	}
	return out, nil
}

func (f *fakeStore) GetGamificationState(_ context.Context, user string) (*models.UserGamificationState, error) {
	if s, ok := f.states[user]; ok {
		return s, nil
	}
	return models.NewGamificationState(), nil
}

func (f *fakeStore) AllGamificationStates(_ context.Context) (map[string]*models.UserGamificationState, error) {
	return f.states, nil
}

func (f *fakeStore) SaveGamificationState(_ context.Context, user string, state *models.UserGamificationState) error {
	f.states[user] = state
	return nil
}

func (f *fakeStore) AddXPLog(_ context.Context, _, _ string, amount int, _ string) error {
	f.xpAudit = append(f.xpAudit, amount)
	return nil
}

func (f *fakeStore) AddPointLog(_ context.Context, _, _ string, _ int, _ string) error {
	return nil
}

func (f *fakeStore) AddNudge(_ context.Context, sender, _ string) error {
	f.nudges[sender]++
	return nil
}

func (f *fakeStore) CountNudgesSent(_ context.Context, sender string) (int, error) {
	return f.nudges[sender], nil
}

func newTestServer(store Store) *Server {
	engine := gamify.New(gamify.DefaultRules())
	engine.Now = func() time.Time { return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC) }
	engine.Rand = rand.New(rand.NewSource(1))
	return New(store, engine, "secret", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestCompleteLogAwards verifies the scoring round trip: a plan workout
// earns XP, points, the first badge, and the state is persisted.
func TestCompleteLogAwards(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	rec := postJSON(t, s, "/api/v1/logs", map[string]any{
		"id":              "log-1",
		"user":            "kai",
		"type":            "A",
		"durationMinutes": 45,
		"date":            time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var award gamify.Award
	if err := json.NewDecoder(rec.Body).Decode(&award); err != nil {
		t.Fatalf("decode award: %v", err)
	}
	if award.XP != 100 || award.Points != 10 {
		t.Errorf("award = %d xp / %d points, want 100/10", award.XP, award.Points)
	}
	if len(award.NewBadges) == 0 {
		t.Error("first workout should unlock a badge")
	}

	state := store.states["kai"]
	if state == nil {
		t.Fatal("state not persisted")
	}
	if state.EffectiveXP() <= 100 {
		t.Errorf("persisted XP = %d, want base plus badge bonus", state.EffectiveXP())
	}
}

// TestCompleteLogRequiresAuth verifies the write endpoint rejects missing
// and wrong keys.
func TestCompleteLogRequiresAuth(t *testing.T) {
	s := newTestServer(newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/logs", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/logs", bytes.NewReader([]byte("{}")))
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", rec.Code)
	}
}

// TestCompleteLogReplacesCommitment verifies POSTing a real workout with a
// pledge's ID replaces it in place.
func TestCompleteLogReplacesCommitment(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	pledge := models.WorkoutLog{
		ID: "log-1", User: "kai", Type: models.WorkoutCommitment,
		Date: time.Date(2026, 8, 27, 6, 0, 0, 0, time.UTC),
	}
	store.logs[pledge.ID] = pledge

	rec := postJSON(t, s, "/api/v1/logs", map[string]any{
		"id":              "log-1",
		"user":            "kai",
		"type":            "A",
		"durationMinutes": 45,
		"date":            time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if len(store.logs) != 1 {
		t.Fatalf("log count = %d, want 1 (replaced, not duplicated)", len(store.logs))
	}
	if got := store.logs["log-1"].Type; got != models.WorkoutA {
		t.Errorf("replaced type = %q, want A", got)
	}
}

// TestDeleteLogReverts verifies deletion subtracts the award and drops
// unsupported badges.
func TestDeleteLogReverts(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	rec := postJSON(t, s, "/api/v1/logs", map[string]any{
		"id": "log-1", "user": "kai", "type": "A", "durationMinutes": 45,
		"date": time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("setup status = %d: %s", rec.Code, rec.Body)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/logs/log-1", nil)
	req.Header.Set("X-API-Key", "secret")
	del := httptest.NewRecorder()
	s.ServeHTTP(del, req)
	if del.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", del.Code, del.Body)
	}

	state := store.states["kai"]
	if state.EffectiveXP() != 0 || state.Points != 0 {
		t.Errorf("state after revert = %d xp / %d points, want 0/0",
			state.EffectiveXP(), state.Points)
	}
	if len(state.Badges) != 0 {
		t.Errorf("badges after revert = %v, want none", state.Badges)
	}
}

// TestDeleteLogNotFound verifies a 404 for unknown IDs.
func TestDeleteLogNotFound(t *testing.T) {
	s := newTestServer(newFakeStore())
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/logs/nope", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestStreakEndpoint verifies the streak read model.
func TestStreakEndpoint(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("log-%d", i)
		store.logs[id] = models.WorkoutLog{
			ID: id, User: "kai", Type: models.WorkoutA, DurationMinutes: 45,
			Date: time.Date(2026, 8, 27-i, 9, 0, 0, 0, time.UTC),
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/kai/streak", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Streak int    `json:"streak"`
		AtRisk bool   `json:"atRisk"`
		Mood   string `json:"mood"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Streak != 3 || resp.AtRisk || resp.Mood != "fire" {
		t.Errorf("got %+v, want streak 3, not at risk, fire", resp)
	}
}

// TestSuggestionEndpoint verifies the progression read model, including the
// null contract for a first-time exercise.
func TestSuggestionEndpoint(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)
	store.logs["log-1"] = models.WorkoutLog{
		ID: "log-1", User: "kai", Type: models.WorkoutA,
		Date: time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC),
		Exercises: []models.ExerciseRecord{{Name: "Squat", Sets: []models.ExerciseSet{
			{Reps: 10, Weight: 60, Completed: true},
		}}},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/kai/suggestion?exercise=Squat&reps=8-10", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var sug struct {
		Type            string  `json:"type"`
		SuggestedWeight float64 `json:"suggestedWeight"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&sug); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sug.Type != "increase_weight" || sug.SuggestedWeight != 62.5 {
		t.Errorf("got %+v, want increase_weight 62.5", sug)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/kai/suggestion?exercise=Bench&reps=8-10", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if body := rec.Body.String(); body != "null\n" {
		t.Errorf("first-time exercise body = %q, want null", body)
	}
}

// TestLeaderboardOrdering verifies descending XP with a stable name
// tie-break.
func TestLeaderboardOrdering(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)
	for user, xp := range map[string]int{"kai": 700, "ravi": 1500, "mira": 700} {
		state := models.NewGamificationState()
		state.AddXP(xp)
		store.states[user] = state
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?window=lifetime", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Entries []leaderboardEntry `json:"entries"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(resp.Entries))
	}
	if resp.Entries[0].User != "ravi" || resp.Entries[1].User != "kai" || resp.Entries[2].User != "mira" {
		t.Errorf("order = %v", resp.Entries)
	}
	if resp.Entries[0].Level != 4 || resp.Entries[0].Rank != "Novice" {
		t.Errorf("ravi = level %d rank %s, want 4 Novice", resp.Entries[0].Level, resp.Entries[0].Rank)
	}
}

// TestTeamStatsEndpoint verifies the tribe aggregate read model.
func TestTeamStatsEndpoint(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)
	store.logs["log-1"] = models.WorkoutLog{
		ID: "log-1", User: "kai", Type: models.WorkoutA, DurationMinutes: 45,
		Date: time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC),
	}
	store.tribes["log-1"] = "alpha"

	req := httptest.NewRequest(http.MethodGet, "/api/v1/team/stats?tribe=alpha", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats gamify.TeamStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.WeeklyCount != 1 || stats.WeeklyTarget != 9 {
		t.Errorf("weekly = %d/%d, want 1/9", stats.WeeklyCount, stats.WeeklyTarget)
	}

	missing := httptest.NewRequest(http.MethodGet, "/api/v1/team/stats", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, missing)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing tribe: status = %d, want 400", rec.Code)
	}
}

// TestTeamMembersEndpoint verifies the roster merges profiles with bare
// loggers.
func TestTeamMembersEndpoint(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)
	store.profiles["kai"] = models.UserProfile{ID: "kai", TribeID: "alpha", DisplayName: "Kai"}
	store.logs["log-1"] = models.WorkoutLog{
		ID: "log-1", User: "ravi", Type: models.WorkoutA, DurationMinutes: 45,
		Date: time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC),
	}
	store.tribes["log-1"] = "alpha"

	req := httptest.NewRequest(http.MethodGet, "/api/v1/team/members?tribe=alpha", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var members []teamMember
	if err := json.NewDecoder(rec.Body).Decode(&members); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}
	if members[0].User != "kai" || !members[0].HasProfile || members[0].DisplayName != "Kai" {
		t.Errorf("first member = %+v, want kai with profile", members[0])
	}
	if members[1].User != "ravi" || members[1].HasProfile {
		t.Errorf("second member = %+v, want bare ravi", members[1])
	}
}

// TestFillCalories verifies a fitness-mode custom log arriving without
// calories gets them derived from the MET table and profile.
func TestFillCalories(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	rec := postJSON(t, s, "/api/v1/logs", map[string]any{
		"id": "log-1", "user": "kai", "type": "Custom",
		"customActivity": "Running", "durationMinutes": 60,
		"date": time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	saved := store.logs["log-1"]
	if saved.Calories == nil {
		t.Fatal("calories not derived")
	}
	// Fallback formula: 9.8 MET * 70 kg * 1 h.
	if *saved.Calories != 686 {
		t.Errorf("calories = %d, want 686", *saved.Calories)
	}
}

// TestNudgeEndpoint verifies the social counter increments.
func TestNudgeEndpoint(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	rec := postJSON(t, s, "/api/v1/nudges", map[string]string{
		"sender": "kai", "recipient": "ravi",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["sent"] != 1 {
		t.Errorf("sent = %d, want 1", resp["sent"])
	}
}

// TestPersonalRecordsEndpoint verifies PR extraction over history.
func TestPersonalRecordsEndpoint(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)
	store.logs["log-1"] = models.WorkoutLog{
		ID: "log-1", User: "kai", Type: models.WorkoutA,
		Date: time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC),
		Exercises: []models.ExerciseRecord{{Name: "Squat", Sets: []models.ExerciseSet{
			{Reps: 5, Weight: 100, Completed: true},
			{Reps: 8, Weight: 80, Completed: true},
			{Reps: 12, Weight: 120, Completed: false},
		}}},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/kai/prs", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var prs map[string]struct {
		MaxWeight float64 `json:"maxWeight"`
		MaxReps   int     `json:"maxReps"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&prs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	squat, ok := prs["Squat"]
	if !ok {
		t.Fatal("no Squat PR")
	}
	if squat.MaxWeight != 100 || squat.MaxReps != 8 {
		t.Errorf("PR = %+v, want 100kg / 8 reps (incomplete set ignored)", squat)
	}
}

// TestShopPurchaseAndActivate verifies the points-spending round trip.
func TestShopPurchaseAndActivate(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)
	state := models.NewGamificationState()
	state.Points = 250
	store.states["kai"] = state

	rec := postJSON(t, s, "/api/v1/users/kai/shop/purchase", map[string]string{"themeId": "deep_forest"})
	if rec.Code != http.StatusOK {
		t.Fatalf("purchase status = %d: %s", rec.Code, rec.Body)
	}
	if store.states["kai"].Points != 50 {
		t.Errorf("points = %d, want 50", store.states["kai"].Points)
	}

	rec = postJSON(t, s, "/api/v1/users/kai/shop/purchase", map[string]string{"themeId": "deep_forest"})
	if rec.Code != http.StatusConflict {
		t.Errorf("double purchase status = %d, want 409", rec.Code)
	}
	rec = postJSON(t, s, "/api/v1/users/kai/shop/purchase", map[string]string{"themeId": "volcano"})
	if rec.Code != http.StatusConflict {
		t.Errorf("insufficient points status = %d, want 409", rec.Code)
	}
	rec = postJSON(t, s, "/api/v1/users/kai/shop/purchase", map[string]string{"themeId": "nope"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown theme status = %d, want 404", rec.Code)
	}

	rec = postJSON(t, s, "/api/v1/users/kai/theme", map[string]string{"themeId": "deep_forest"})
	if rec.Code != http.StatusOK {
		t.Fatalf("activate status = %d: %s", rec.Code, rec.Body)
	}
	if got := store.states["kai"].ActiveTheme; got != "deep_forest" {
		t.Errorf("active theme = %q, want deep_forest", got)
	}
}

// TestActivitiesCatalog verifies the MET catalog endpoint.
func TestActivitiesCatalog(t *testing.T) {
	s := newTestServer(newFakeStore())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Fitness   []activityEntry `json:"fitness"`
		Wellbeing []activityEntry `json:"wellbeing"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Fitness) != 14 || len(resp.Wellbeing) != 8 {
		t.Errorf("catalog sizes = %d/%d, want 14/8", len(resp.Fitness), len(resp.Wellbeing))
	}
}
