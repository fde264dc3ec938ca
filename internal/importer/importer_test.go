package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/gamify"
	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

type fakeStore struct {
	logs     map[string]models.WorkoutLog
	profiles map[string]models.UserProfile
	states   map[string]*models.UserGamificationState
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		logs:     make(map[string]models.WorkoutLog),
		profiles: make(map[string]models.UserProfile),
		states:   make(map[string]*models.UserGamificationState),
	}
}

func (f *fakeStore) UpsertLog(_ context.Context, _ string, log models.WorkoutLog) error {
	f.logs[log.ID] = log
	return nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, p models.UserProfile) error {
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeStore) SaveGamificationState(_ context.Context, user string, state *models.UserGamificationState) error {
	f.states[user] = state
	return nil
}

func testImporter(store Store, dryRun bool) *Importer {
	engine := gamify.New(gamify.DefaultRules())
	engine.Now = func() time.Time { return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC) }
	return New(store, engine, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), dryRun)
}

func writeExport(t *testing.T, dir, name string, export Export) {
	t.Helper()
	data, err := json.Marshal(export)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func sampleExport() Export {
	return Export{
		TribeID: "alpha",
		Profiles: []models.UserProfile{
			{ID: "kai", DisplayName: "Kai"},
		},
		WorkoutLogs: []models.WorkoutLog{
			{ID: "l1", User: "kai", Type: models.WorkoutA, DurationMinutes: 45,
				Date: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)},
			{ID: "l2", User: "kai", Type: models.WorkoutB, DurationMinutes: 45,
				Date: time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC)},
		},
	}
}

// TestImportRebuildsState verifies an old export without gamification data
// gets its state rebuilt by replaying history.
func TestImportRebuildsState(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "backup.json", sampleExport())

	store := newFakeStore()
	imp := testImporter(store, false)

	stats, err := imp.Import(context.Background(), dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesProcessed != 1 || stats.LogsImported != 2 || stats.ProfilesImported != 1 {
		t.Errorf("stats = %+v, want 1 file / 2 logs / 1 profile", stats)
	}
	if stats.StatesRebuilt != 1 {
		t.Errorf("states rebuilt = %d, want 1", stats.StatesRebuilt)
	}

	state := store.states["kai"]
	if state == nil {
		t.Fatal("state not saved")
	}
	// Two plan workouts plus the first_step badge bonus.
	if got := state.EffectiveXP(); got != 250 {
		t.Errorf("replayed XP = %d, want 250", got)
	}
	if !state.HasBadge("first_step") {
		t.Error("replay should unlock first_step")
	}
}

// TestImportCarriedState verifies a newer export's state document wins over
// a replay.
func TestImportCarriedState(t *testing.T) {
	dir := t.TempDir()
	export := sampleExport()
	carried := models.NewGamificationState()
	carried.AddXP(9000)
	carried.Points = 77
	export.Gamification = map[string]*models.UserGamificationState{"kai": carried}
	writeExport(t, dir, "backup.json", export)

	store := newFakeStore()
	imp := testImporter(store, false)

	stats, err := imp.Import(context.Background(), dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.StatesImported != 1 || stats.StatesRebuilt != 0 {
		t.Errorf("stats = %+v, want carried state, no rebuild", stats)
	}
	if got := store.states["kai"].EffectiveXP(); got != 9000 {
		t.Errorf("XP = %d, want carried 9000", got)
	}
}

// TestImportDryRun verifies nothing is written in dry-run mode.
func TestImportDryRun(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "backup.json", sampleExport())

	store := newFakeStore()
	imp := testImporter(store, true)

	stats, err := imp.Import(context.Background(), dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.LogsImported != 2 {
		t.Errorf("logs counted = %d, want 2", stats.LogsImported)
	}
	if len(store.logs) != 0 || len(store.states) != 0 {
		t.Error("dry run must not write")
	}
}

// TestImportSkipsMalformed verifies junk logs and files are counted, not
// fatal.
func TestImportSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	export := sampleExport()
	export.WorkoutLogs = append(export.WorkoutLogs, models.WorkoutLog{ID: "no-user"})
	writeExport(t, dir, "backup.json", export)
	if err := os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := newFakeStore()
	imp := testImporter(store, false)

	stats, err := imp.Import(context.Background(), dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesErrored != 1 {
		t.Errorf("files errored = %d, want 1", stats.FilesErrored)
	}
	if stats.LogsSkipped != 1 {
		t.Errorf("logs skipped = %d, want 1", stats.LogsSkipped)
	}
}

// TestStateDBDedup verifies a re-run over an unchanged directory is a no-op.
func TestStateDBDedup(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "backup.json", sampleExport())

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	store := newFakeStore()
	imp := testImporter(store, false)
	if _, err := imp.Import(context.Background(), dir, state); err != nil {
		t.Fatal(err)
	}

	again := testImporter(newFakeStore(), false)
	stats, err := again.Import(context.Background(), dir, state)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesProcessed != 0 || stats.FilesSkipped != 1 {
		t.Errorf("re-run stats = %+v, want all files skipped", stats)
	}
}
