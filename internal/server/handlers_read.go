package server

import (
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/gamify"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/metrics"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/progression"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/storage"
)

func (s *Server) handleUserLogs(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	history, err := s.store.GetUserLogs(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if history == nil {
		history = []models.WorkoutLog{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleTeamLogs(w http.ResponseWriter, r *http.Request) {
	tribeID := r.URL.Query().Get("tribe")
	if tribeID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tribe parameter required"})
		return
	}
	logs, err := s.store.GetTribeLogs(r.Context(), tribeID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if logs == nil {
		logs = []models.WorkoutLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleAllStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.store.AllGamificationStates(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	history, err := s.store.GetUserLogs(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"streak": s.engine.Streak(history),
		"atRisk": s.engine.StreakAtRisk(history),
		"mood":   s.engine.Mood(history),
	})
}

func (s *Server) handleXP(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	window := gamify.ParseWindow(r.URL.Query().Get("window"))

	history, err := s.store.GetUserLogs(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	state, err := s.store.GetGamificationState(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	xp := s.engine.AggregateXP(history, window, state)
	progress := s.engine.Progress(state.EffectiveXP())
	writeJSON(w, http.StatusOK, map[string]any{
		"window":   string(window),
		"xp":       xp,
		"level":    progress.Level,
		"rank":     gamify.Rank(progress.Level),
		"progress": progress,
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	state, err := s.store.GetGamificationState(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleUserBadges(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	state, err := s.store.GetGamificationState(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var unlocked []models.Badge
	for _, id := range state.Badges {
		if badge, ok := gamify.BadgeByID(id); ok {
			unlocked = append(unlocked, badge)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"unlocked": unlocked,
		"total":    len(gamify.Catalog),
	})
}

func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	repRange := r.URL.Query().Get("reps")

	history, err := s.store.GetUserLogs(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var lastSets []models.ExerciseSet
	if typ, ok := models.ParseWorkoutType(r.URL.Query().Get("type")); ok {
		lastSets = progression.LastSetsForExerciseByType(history, exercise, typ)
	} else {
		lastSets = progression.LastSetsForExercise(history, exercise)
	}

	// A first-time exercise yields null, by contract.
	writeJSON(w, http.StatusOK, progression.Suggest(lastSets, repRange))
}

func (s *Server) handlePersonalRecords(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	history, err := s.store.GetUserLogs(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, metrics.PRStats(history))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	profile, err := s.store.GetProfile(r.Context(), user)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// leaderboardEntry is one row of the ranking.
type leaderboardEntry struct {
	User  string `json:"user"`
	XP    int    `json:"xp"`
	Level int    `json:"level"`
	Rank  string `json:"rank"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	window := gamify.ParseWindow(r.URL.Query().Get("window"))
	ctx := r.Context()

	states, err := s.store.AllGamificationStates(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var entries []leaderboardEntry
	for user, state := range states {
		xp := state.EffectiveXP()
		if window != gamify.WindowLifetime {
			history, err := s.store.GetUserLogs(ctx, user)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			xp = s.engine.AggregateXP(history, window, state)
		}
		level := s.engine.Level(state.EffectiveXP())
		entries = append(entries, leaderboardEntry{
			User:  user,
			XP:    xp,
			Level: level,
			Rank:  gamify.Rank(level),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		return entries[i].User < entries[j].User
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"window":  string(window),
		"entries": entries,
	})
}

func (s *Server) handleBadgeCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gamify.Catalog)
}

func (s *Server) handleShopCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gamify.ShopThemes)
}

func (s *Server) handleTeamStats(w http.ResponseWriter, r *http.Request) {
	tribeID := r.URL.Query().Get("tribe")
	if tribeID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tribe parameter required"})
		return
	}
	logs, err := s.store.GetTribeLogs(r.Context(), tribeID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.engine.TeamStatsFor(logs))
}

// teamMember is one roster row. Users appear once they have either a profile
// or a logged workout; the display name comes from the profile when one exists.
type teamMember struct {
	User        string `json:"user"`
	DisplayName string `json:"displayName,omitempty"`
	HasProfile  bool   `json:"hasProfile"`
}

func (s *Server) handleTeamMembers(w http.ResponseWriter, r *http.Request) {
	tribeID := r.URL.Query().Get("tribe")
	if tribeID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tribe parameter required"})
		return
	}
	ctx := r.Context()

	profiles, err := s.store.TribeProfiles(ctx, tribeID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	users, err := s.store.TribeUsers(ctx, tribeID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	seen := make(map[string]bool, len(profiles))
	members := make([]teamMember, 0, len(profiles)+len(users))
	for _, p := range profiles {
		members = append(members, teamMember{User: p.ID, DisplayName: p.DisplayName, HasProfile: true})
		seen[p.ID] = true
	}
	for _, u := range users {
		if !seen[u] {
			members = append(members, teamMember{User: u})
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].User < members[j].User })

	writeJSON(w, http.StatusOK, members)
}

// activityEntry describes one selectable custom activity.
type activityEntry struct {
	Name string  `json:"name"`
	MET  float64 `json:"met,omitempty"`
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	fitness := make([]activityEntry, 0, len(metrics.METValues))
	for name, met := range metrics.METValues {
		fitness = append(fitness, activityEntry{Name: name, MET: met})
	}
	sort.Slice(fitness, func(i, j int) bool { return fitness[i].Name < fitness[j].Name })

	wellbeing := make([]activityEntry, 0, len(metrics.WellbeingActivities))
	for _, name := range metrics.WellbeingActivities {
		wellbeing = append(wellbeing, activityEntry{Name: name})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fitness":   fitness,
		"wellbeing": wellbeing,
	})
}
