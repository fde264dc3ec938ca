package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/gamify"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/metrics"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/storage"
)

// completeLogRequest is a workout log plus its tribe association. An existing
// ID replaces that log in place, which is how a commitment placeholder turns
// into the real workout.
type completeLogRequest struct {
	TribeID string `json:"tribeId"`
	models.WorkoutLog
}

func (s *Server) handleCompleteLog(w http.ResponseWriter, r *http.Request) {
	var req completeLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.User == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user required"})
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	log := req.WorkoutLog
	s.fillCalories(r, &log)

	ctx := r.Context()
	if err := s.store.UpsertLog(ctx, req.TribeID, log); err != nil {
		s.log.Error("upserting log", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	in, err := s.buildEvalInput(r, log.User, req.TribeID)
	if err != nil {
		s.log.Error("loading scoring input", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	award := s.engine.ApplyLog(log, in)
	if err := s.store.SaveGamificationState(ctx, log.User, in.State); err != nil {
		s.log.Error("saving gamification state", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.audit(r, log.User, log.ID, award)

	writeJSON(w, http.StatusOK, award)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	log, err := s.store.GetLogByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "log not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if err := s.store.DeleteLog(ctx, id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	in, err := s.buildEvalInput(r, log.User, "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.engine.RevertLog(*log, in)
	if err := s.store.SaveGamificationState(ctx, log.User, in.State); err != nil {
		s.log.Error("saving gamification state", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if xp := s.engine.LogXP(*log); xp > 0 {
		if err := s.store.AddXPLog(ctx, log.User, log.ID, -xp, "log deleted"); err != nil {
			s.log.Error("writing xp audit", "error", err)
		}
	}
	if pts := s.engine.Points(*log); pts > 0 {
		if err := s.store.AddPointLog(ctx, log.User, log.ID, -pts, "log deleted"); err != nil {
			s.log.Error("writing point audit", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	var p models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if p.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id required"})
		return
	}
	if err := s.store.UpsertProfile(r.Context(), p); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleNudge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sender    string `json:"sender"`
		Recipient string `json:"recipient"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Sender == "" || req.Recipient == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sender and recipient required"})
		return
	}
	if err := s.store.AddNudge(r.Context(), req.Sender, req.Recipient); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	sent, err := s.store.CountNudgesSent(r.Context(), req.Sender)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"sent": sent})
}

func (s *Server) handleSetCommitment(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	var req struct {
		Date time.Time `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Date.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date required"})
		return
	}

	state, err := s.store.GetGamificationState(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	state.Commitment = &req.Date
	if err := s.store.SaveGamificationState(r.Context(), user, state); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleClearCommitment(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	state, err := s.store.GetGamificationState(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	state.Commitment = nil
	if err := s.store.SaveGamificationState(r.Context(), user, state); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePurchaseTheme(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	var req struct {
		ThemeID string `json:"themeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	state, err := s.store.GetGamificationState(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	theme, err := s.engine.PurchaseTheme(state, req.ThemeID)
	switch {
	case errors.Is(err, gamify.ErrUnknownTheme):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, gamify.ErrAlreadyUnlocked), errors.Is(err, gamify.ErrInsufficientPoints):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if err := s.store.SaveGamificationState(r.Context(), user, state); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := s.store.AddPointLog(r.Context(), user, "", -theme.Price, "theme "+theme.ID); err != nil {
		s.log.Error("writing point audit", "error", err)
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	var req struct {
		ThemeID string `json:"themeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	state, err := s.store.GetGamificationState(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := s.engine.SetActiveTheme(state, req.ThemeID); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if err := s.store.SaveGamificationState(r.Context(), user, state); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// fillCalories derives calories for fitness-mode custom activities that
// arrive without a precomputed value. Wellbeing logs keep vibes untouched.
func (s *Server) fillCalories(r *http.Request, log *models.WorkoutLog) {
	if log.Type != models.WorkoutCustom || log.Calories != nil || log.Vibes != nil {
		return
	}
	if log.CustomActivity == "" || log.DurationMinutes <= 0 {
		return
	}
	profile, err := s.store.GetProfile(r.Context(), log.User)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Error("loading profile", "error", err)
	}
	met := metrics.ActivityMET(log.CustomActivity) * metrics.IntensityFactor(log.Intensity)
	cal := metrics.CalculateCalories(profile, met, log.DurationMinutes)
	log.Calories = &cal
}

// buildEvalInput assembles the scoring snapshot: full history, state, social
// counter, and optionally the tribe's logs for team badges.
func (s *Server) buildEvalInput(r *http.Request, user, tribeID string) (gamify.EvalInput, error) {
	ctx := r.Context()

	history, err := s.store.GetUserLogs(ctx, user)
	if err != nil {
		return gamify.EvalInput{}, err
	}
	state, err := s.store.GetGamificationState(ctx, user)
	if err != nil {
		return gamify.EvalInput{}, err
	}
	nudges, err := s.store.CountNudgesSent(ctx, user)
	if err != nil {
		return gamify.EvalInput{}, err
	}

	in := gamify.EvalInput{History: history, State: state, NudgesSent: nudges}
	if tribeID != "" {
		tribeLogs, err := s.store.GetTribeLogs(ctx, tribeID)
		if err != nil {
			return gamify.EvalInput{}, err
		}
		in.TribeLogs = tribeLogs
	}
	if profile, err := s.store.GetProfile(ctx, user); err == nil {
		in.Profile = profile
	}
	return in, nil
}

// audit writes the award trail; failures are logged, not fatal, because the
// state document is already saved.
func (s *Server) audit(r *http.Request, user, logID string, award gamify.Award) {
	ctx := r.Context()
	if total := award.XP + award.StreakBonus; total > 0 {
		if err := s.store.AddXPLog(ctx, user, logID, total, "workout completed"); err != nil {
			s.log.Error("writing xp audit", "error", err)
		}
	}
	if award.Points > 0 {
		if err := s.store.AddPointLog(ctx, user, logID, award.Points, "workout completed"); err != nil {
			s.log.Error("writing point audit", "error", err)
		}
	}
	for _, badge := range award.NewBadges {
		if err := s.store.AddXPLog(ctx, user, logID, s.engine.Rules.BadgeBonus, "badge "+badge.ID); err != nil {
			s.log.Error("writing xp audit", "error", err)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
