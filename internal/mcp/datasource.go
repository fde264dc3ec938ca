package mcp

import (
	"context"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface. Tools receive
// raw history and state and run the scoring engine locally, so local and
// remote mode always agree on derived numbers.
type DataSource interface {
	GetUserLogs(ctx context.Context, user string) ([]models.WorkoutLog, error)
	GetTribeLogs(ctx context.Context, tribeID string) ([]models.WorkoutLog, error)
	GetGamificationState(ctx context.Context, user string) (*models.UserGamificationState, error)
	AllGamificationStates(ctx context.Context) (map[string]*models.UserGamificationState, error)
	GetProfile(ctx context.Context, id string) (*models.UserProfile, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
