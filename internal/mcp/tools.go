package mcp

import (
	"context"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/gamify"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/progression"
)

// --- Tool definitions ---

var toolGetStreak = mcp.NewTool("get_streak",
	mcp.WithDescription("Get a user's current consecutive-day workout streak, whether it is at risk of being lost today, and the mascot mood signal."),
	mcp.WithString("user", mcp.Required(), mcp.Description("User identifier")),
)

var toolGetXP = mcp.NewTool("get_xp",
	mcp.WithDescription("Get a user's XP for a time window plus level, rank, and progress toward the next level."),
	mcp.WithString("user", mcp.Required(), mcp.Description("User identifier")),
	mcp.WithString("window", mcp.Description("Aggregation window. Defaults to weekly."), mcp.Enum("weekly", "monthly", "lifetime")),
)

var toolGetLeaderboard = mcp.NewTool("get_leaderboard",
	mcp.WithDescription("Rank all users by XP over a time window. Lifetime reads the persisted XP counters; weekly/monthly replay log history."),
	mcp.WithString("window", mcp.Description("Aggregation window. Defaults to weekly."), mcp.Enum("weekly", "monthly", "lifetime")),
)

var toolGetBadges = mcp.NewTool("get_badges",
	mcp.WithDescription("List a user's unlocked achievement badges with titles, descriptions, and rarities."),
	mcp.WithString("user", mcp.Required(), mcp.Description("User identifier")),
)

var toolGetTeamStats = mcp.NewTool("get_team_stats",
	mcp.WithDescription("Get a tribe's weekly/monthly/yearly workout counts against their goals, per-member weekly contributions, and the team streak."),
	mcp.WithString("tribe", mcp.Required(), mcp.Description("Tribe identifier")),
)

var toolGetSuggestion = mcp.NewTool("get_progression_suggestion",
	mcp.WithDescription("Get the progressive-overload suggestion for an exercise: next session's weight and rep targets based on the last completed sets."),
	mcp.WithString("user", mcp.Required(), mcp.Description("User identifier")),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (e.g. 'Squat')")),
	mcp.WithString("reps", mcp.Description("Target rep range from the plan (e.g. '8-10' or '5')")),
	mcp.WithString("type", mcp.Description("Restrict history to one plan day (A or B)")),
)

var toolGetRecentLogs = mcp.NewTool("get_recent_logs",
	mcp.WithDescription("List a user's most recent workout logs, newest first."),
	mcp.WithString("user", mcp.Required(), mcp.Description("User identifier")),
	mcp.WithNumber("limit", mcp.Description("Maximum logs to return. Defaults to 10.")),
)

// --- Tool handlers ---

func (h *handlers) getStreak(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := req.RequireString("user")
	if err != nil {
		return mcp.NewToolResultError("user parameter is required"), nil
	}

	history, err := h.ds.GetUserLogs(ctx, user)
	if err != nil {
		h.log.Error("mcp get_streak", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"streak": h.engine.Streak(history),
		"atRisk": h.engine.StreakAtRisk(history),
		"mood":   h.engine.Mood(history),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getXP(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := req.RequireString("user")
	if err != nil {
		return mcp.NewToolResultError("user parameter is required"), nil
	}
	window := gamify.ParseWindow(req.GetString("window", ""))

	history, err := h.ds.GetUserLogs(ctx, user)
	if err != nil {
		h.log.Error("mcp get_xp logs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	state, err := h.ds.GetGamificationState(ctx, user)
	if err != nil {
		h.log.Error("mcp get_xp state", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	progress := h.engine.Progress(state.EffectiveXP())
	result, err := mcp.NewToolResultJSON(map[string]any{
		"window":   string(window),
		"xp":       h.engine.AggregateXP(history, window, state),
		"level":    progress.Level,
		"rank":     gamify.Rank(progress.Level),
		"progress": progress,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLeaderboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	window := gamify.ParseWindow(req.GetString("window", ""))

	states, err := h.ds.AllGamificationStates(ctx)
	if err != nil {
		h.log.Error("mcp get_leaderboard", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	type entry struct {
		User  string `json:"user"`
		XP    int    `json:"xp"`
		Level int    `json:"level"`
		Rank  string `json:"rank"`
	}
	var entries []entry
	for user, state := range states {
		xp := state.EffectiveXP()
		if window != gamify.WindowLifetime {
			history, err := h.ds.GetUserLogs(ctx, user)
			if err != nil {
				h.log.Error("mcp get_leaderboard logs", "user", user, "error", err)
				return mcp.NewToolResultError("query failed: " + err.Error()), nil
			}
			xp = h.engine.AggregateXP(history, window, state)
		}
		level := h.engine.Level(state.EffectiveXP())
		entries = append(entries, entry{User: user, XP: xp, Level: level, Rank: gamify.Rank(level)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		return entries[i].User < entries[j].User
	})

	result, err := mcp.NewToolResultJSON(map[string]any{
		"window":  string(window),
		"entries": entries,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getBadges(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := req.RequireString("user")
	if err != nil {
		return mcp.NewToolResultError("user parameter is required"), nil
	}

	state, err := h.ds.GetGamificationState(ctx, user)
	if err != nil {
		h.log.Error("mcp get_badges", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	var unlocked []models.Badge
	for _, id := range state.Badges {
		if badge, ok := gamify.BadgeByID(id); ok {
			unlocked = append(unlocked, badge)
		}
	}
	result, err := mcp.NewToolResultJSON(map[string]any{
		"unlocked": unlocked,
		"total":    len(gamify.Catalog),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTeamStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tribe, err := req.RequireString("tribe")
	if err != nil {
		return mcp.NewToolResultError("tribe parameter is required"), nil
	}

	logs, err := h.ds.GetTribeLogs(ctx, tribe)
	if err != nil {
		h.log.Error("mcp get_team_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(h.engine.TeamStatsFor(logs))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSuggestion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := req.RequireString("user")
	if err != nil {
		return mcp.NewToolResultError("user parameter is required"), nil
	}
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	history, err := h.ds.GetUserLogs(ctx, user)
	if err != nil {
		h.log.Error("mcp get_progression_suggestion", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	var lastSets []models.ExerciseSet
	if typ, ok := models.ParseWorkoutType(req.GetString("type", "")); ok {
		lastSets = progression.LastSetsForExerciseByType(history, exercise, typ)
	} else {
		lastSets = progression.LastSetsForExercise(history, exercise)
	}

	suggestion := progression.Suggest(lastSets, req.GetString("reps", ""))
	if suggestion == nil {
		return mcp.NewToolResultText("no suggestion: no completed history for this exercise"), nil
	}
	result, err := mcp.NewToolResultJSON(suggestion)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecentLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := req.RequireString("user")
	if err != nil {
		return mcp.NewToolResultError("user parameter is required"), nil
	}
	limit := req.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	history, err := h.ds.GetUserLogs(ctx, user)
	if err != nil {
		h.log.Error("mcp get_recent_logs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	logs := models.SortLogsDescending(history)
	if len(logs) > limit {
		logs = logs[:limit]
	}
	result, err := mcp.NewToolResultJSON(logs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
