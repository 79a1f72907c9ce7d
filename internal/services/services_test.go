package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/habitflow/habitflow-backend/internal/db"
	"github.com/habitflow/habitflow-backend/internal/logger"
	"github.com/habitflow/habitflow-backend/internal/repos"
	"github.com/habitflow/habitflow-backend/internal/requestdata"
	"github.com/habitflow/habitflow-backend/internal/types"
)

// testEnv wires the service stack against a throwaway sqlite database.
type testEnv struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	categoryRepo repos.CategoryRepo
	habitRepo    repos.HabitRepo
	logRepo      repos.CompletionLogRepo
	streakRepo   repos.StreakRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
	sqlite, err := db.NewSQLiteService(filepath.Join(t.TempDir(), "test.db"), log)
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := sqlite.AutoMigrateAll(); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	gdb := sqlite.DB()
	return &testEnv{
		db:           gdb,
		log:          log,
		userRepo:     repos.NewUserRepo(gdb, log),
		categoryRepo: repos.NewCategoryRepo(gdb, log),
		habitRepo:    repos.NewHabitRepo(gdb, log),
		logRepo:      repos.NewCompletionLogRepo(gdb, log),
		streakRepo:   repos.NewStreakRepo(gdb, log),
	}
}

func (e *testEnv) streakService() StreakService {
	return NewStreakService(e.db, e.log, e.habitRepo, e.logRepo, e.streakRepo)
}

func (e *testEnv) seedUser(t *testing.T) *types.User {
	t.Helper()
	user := &types.User{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@example.com",
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
	}
	if _, err := e.userRepo.Create(context.Background(), nil, []*types.User{user}); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return user
}

func (e *testEnv) seedHabit(t *testing.T, userID uuid.UUID, name, frequency, start string) *types.Habit {
	t.Helper()
	habit := &types.Habit{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Frequency:   frequency,
		TargetCount: 1,
		StartDate:   date(t, start),
		IsActive:    true,
	}
	if _, err := e.habitRepo.Create(context.Background(), nil, []*types.Habit{habit}); err != nil {
		t.Fatalf("seeding habit %s: %v", name, err)
	}
	return habit
}

func (e *testEnv) seedLog(t *testing.T, habitID uuid.UUID, day string, count int) {
	t.Helper()
	row := &types.CompletionLog{
		ID:             uuid.New(),
		HabitID:        habitID,
		LogDate:        date(t, day),
		CompletedCount: count,
	}
	if _, err := e.logRepo.Create(context.Background(), nil, []*types.CompletionLog{row}); err != nil {
		t.Fatalf("seeding log on %s: %v", day, err)
	}
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return parsed
}

func authedCtx(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
}
