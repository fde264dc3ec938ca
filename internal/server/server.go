package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/gamify"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/storage"
)

// Store is the persistence surface the handlers depend on.
type Store interface {
	UpsertLog(ctx context.Context, tribeID string, log models.WorkoutLog) error
	GetUserLogs(ctx context.Context, user string) ([]models.WorkoutLog, error)
	GetTribeLogs(ctx context.Context, tribeID string) ([]models.WorkoutLog, error)
	GetLogByID(ctx context.Context, id string) (*models.WorkoutLog, error)
	DeleteLog(ctx context.Context, id string) error

	GetProfile(ctx context.Context, id string) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, p models.UserProfile) error
	TribeProfiles(ctx context.Context, tribeID string) ([]models.UserProfile, error)
	TribeUsers(ctx context.Context, tribeID string) ([]string, error)

	GetGamificationState(ctx context.Context, user string) (*models.UserGamificationState, error)
	AllGamificationStates(ctx context.Context) (map[string]*models.UserGamificationState, error)
	SaveGamificationState(ctx context.Context, user string, state *models.UserGamificationState) error

	AddXPLog(ctx context.Context, user, logID string, amount int, reason string) error
	AddPointLog(ctx context.Context, user, logID string, amount int, reason string) error
	AddNudge(ctx context.Context, sender, recipient string) error
	CountNudgesSent(ctx context.Context, sender string) (int, error)
}

var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  Store
	engine *gamify.Engine
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, engine *gamify.Engine, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		engine: engine,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/logs", s.handleCompleteLog)
		r.Delete("/api/v1/logs/{id}", s.handleDeleteLog)
		r.Post("/api/v1/profiles", s.handleUpsertProfile)
		r.Post("/api/v1/nudges", s.handleNudge)
		r.Post("/api/v1/users/{user}/commitment", s.handleSetCommitment)
		r.Delete("/api/v1/users/{user}/commitment", s.handleClearCommitment)
		r.Post("/api/v1/users/{user}/shop/purchase", s.handlePurchaseTheme)
		r.Post("/api/v1/users/{user}/theme", s.handleSetTheme)
	})

	// Read endpoints (no auth; deployment fronts these with tsnet)
	s.router.Get("/api/v1/users/{user}/logs", s.handleUserLogs)
	s.router.Get("/api/v1/users/{user}/streak", s.handleStreak)
	s.router.Get("/api/v1/users/{user}/xp", s.handleXP)
	s.router.Get("/api/v1/users/{user}/state", s.handleState)
	s.router.Get("/api/v1/users/{user}/badges", s.handleUserBadges)
	s.router.Get("/api/v1/users/{user}/suggestion", s.handleSuggestion)
	s.router.Get("/api/v1/users/{user}/profile", s.handleGetProfile)
	s.router.Get("/api/v1/users/{user}/prs", s.handlePersonalRecords)
	s.router.Get("/api/v1/leaderboard", s.handleLeaderboard)
	s.router.Get("/api/v1/badges", s.handleBadgeCatalog)
	s.router.Get("/api/v1/shop", s.handleShopCatalog)
	s.router.Get("/api/v1/team/stats", s.handleTeamStats)
	s.router.Get("/api/v1/team/logs", s.handleTeamLogs)
	s.router.Get("/api/v1/team/members", s.handleTeamMembers)
	s.router.Get("/api/v1/states", s.handleAllStates)
	s.router.Get("/api/v1/activities", s.handleActivities)
}
