package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	rediscache "github.com/habitflow/habitflow-backend/internal/clients/redis"
	"github.com/habitflow/habitflow-backend/internal/logger"
	"github.com/habitflow/habitflow-backend/internal/pkg/apperr"
	"github.com/habitflow/habitflow-backend/internal/repos"
	"github.com/habitflow/habitflow-backend/internal/requestdata"
	"github.com/habitflow/habitflow-backend/internal/stats"
	"github.com/habitflow/habitflow-backend/internal/types"
)

type Report struct {
	Habits         []stats.HabitReportRow `json:"habits"`
	Summary        stats.ReportSummary    `json:"summary"`
	RecalcFailures []RecalcFailure        `json:"recalc_failures,omitempty"`
}

type ReportService interface {
	// GenerateReport recalculates streaks for every habit in scope and
	// aggregates rows and summary inside one transaction, so the numbers
	// never reflect a completion logged between the two steps.
	GenerateReport(ctx context.Context, start, end string, categoryID *uuid.UUID) (*Report, error)
}

type reportService struct {
	db            *gorm.DB
	log           *logger.Logger
	habitRepo     repos.HabitRepo
	categoryRepo  repos.CategoryRepo
	logRepo       repos.CompletionLogRepo
	streakRepo    repos.StreakRepo
	streakService StreakService
	reportCache   *rediscache.ReportCache
	now           func() time.Time
}

func NewReportService(
	db *gorm.DB,
	log *logger.Logger,
	habitRepo repos.HabitRepo,
	categoryRepo repos.CategoryRepo,
	logRepo repos.CompletionLogRepo,
	streakRepo repos.StreakRepo,
	streakService StreakService,
	reportCache *rediscache.ReportCache,
) ReportService {
	return &reportService{
		db:            db,
		log:           log.With("service", "ReportService"),
		habitRepo:     habitRepo,
		categoryRepo:  categoryRepo,
		logRepo:       logRepo,
		streakRepo:    streakRepo,
		streakService: streakService,
		reportCache:   reportCache,
		now:           time.Now,
	}
}

func (rs *reportService) GenerateReport(ctx context.Context, start, end string, categoryID *uuid.UUID) (*Report, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apperr.Validationf("no authenticated user in context")
	}

	startDate, err := stats.ParseDate(start)
	if err != nil {
		return nil, err
	}
	endDate, err := stats.ParseDate(end)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, apperr.Validationf("end date precedes start date")
	}

	if categoryID != nil {
		category, cErr := rs.categoryRepo.GetByUserAndID(ctx, nil, userID, *categoryID)
		if cErr != nil {
			return nil, fmt.Errorf("failed to load category: %w", cErr)
		}
		if category == nil {
			return nil, apperr.NotFoundf("category not found")
		}
	}

	cacheKey := rediscache.ReportKey(userID, start, end, categoryID)
	if raw, ok := rs.reportCache.Get(ctx, cacheKey); ok {
		var cached Report
		if jErr := json.Unmarshal(raw, &cached); jErr == nil {
			return &cached, nil
		}
	}

	today := stats.Day(rs.now())
	var report *Report
	txErr := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		habits, hErr := rs.habitRepo.GetByUserID(ctx, tx, userID, repos.HabitFilter{CategoryID: categoryID})
		if hErr != nil {
			return fmt.Errorf("failed to enumerate habits: %w", hErr)
		}

		habitIDs := make([]uuid.UUID, 0, len(habits))
		for _, h := range habits {
			habitIDs = append(habitIDs, h.ID)
		}

		// Mandatory freshness pass. Savepoints keep one bad habit from
		// aborting both the remaining recalculations and the read below;
		// failed habits fall back to their last persisted streak.
		failures := rs.streakService.RecalculateBatchTx(ctx, tx, habitIDs)

		streaks, sErr := rs.streakRepo.GetByHabitIDs(ctx, tx, habitIDs)
		if sErr != nil {
			return fmt.Errorf("failed to load streaks: %w", sErr)
		}
		streakByHabit := make(map[uuid.UUID]*types.Streak, len(streaks))
		for _, s := range streaks {
			streakByHabit[s.HabitID] = s
		}

		rangeLogs, lErr := rs.logRepo.GetByHabitIDsInRange(ctx, tx, habitIDs, startDate, stats.EndOfDay(endDate))
		if lErr != nil {
			return fmt.Errorf("failed to load completion logs: %w", lErr)
		}
		logsByHabit := make(map[uuid.UUID][]stats.LogPoint, len(habits))
		for _, l := range rangeLogs {
			logsByHabit[l.HabitID] = append(logsByHabit[l.HabitID], stats.LogPoint{Date: l.LogDate, Count: l.CompletedCount})
		}

		// Trend windows anchor to today regardless of the report range.
		trendFrom := today.AddDate(0, 0, -13)
		trendLogs, tErr := rs.logRepo.GetByHabitIDsInRange(ctx, tx, habitIDs, trendFrom, stats.EndOfDay(today))
		if tErr != nil {
			return fmt.Errorf("failed to load trend logs: %w", tErr)
		}
		recentByHabit := map[uuid.UUID]int{}
		priorByHabit := map[uuid.UUID]int{}
		recentFrom := today.AddDate(0, 0, -6)
		for _, l := range trendLogs {
			d := stats.Day(l.LogDate)
			switch {
			case !d.Before(recentFrom):
				recentByHabit[l.HabitID]++
			case !d.Before(trendFrom):
				priorByHabit[l.HabitID]++
			}
		}

		categoryByID, cErr := rs.loadCategories(ctx, tx, habits)
		if cErr != nil {
			return cErr
		}

		inputs := make([]stats.HabitInput, 0, len(habits))
		for _, h := range habits {
			in := stats.HabitInput{
				HabitID:     h.ID,
				Name:        h.Name,
				Description: h.Description,
				Frequency:   h.Frequency,
				TargetCount: h.TargetCount,
				StartDate:   h.StartDate,
				EndDate:     h.EndDate,
				Logs:        logsByHabit[h.ID],
				TrendRecent: recentByHabit[h.ID],
				TrendPrior:  priorByHabit[h.ID],
			}
			if s := streakByHabit[h.ID]; s != nil {
				in.CurrentStreak = s.CurrentStreak
				in.LongestStreak = s.LongestStreak
			}
			if h.CategoryID != nil {
				if c := categoryByID[*h.CategoryID]; c != nil {
					in.CategoryName = c.Name
					in.CategoryColor = c.Color
				}
			}
			inputs = append(inputs, in)
		}

		rows, summary := stats.BuildReport(inputs, startDate, endDate, today)
		report = &Report{Habits: rows, Summary: summary, RecalcFailures: failures}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if payload, jErr := json.Marshal(report); jErr == nil {
		rs.reportCache.Set(ctx, cacheKey, payload)
	}
	return report, nil
}

func (rs *reportService) loadCategories(ctx context.Context, tx *gorm.DB, habits []*types.Habit) (map[uuid.UUID]*types.Category, error) {
	idSet := map[uuid.UUID]struct{}{}
	var ids []uuid.UUID
	for _, h := range habits {
		if h.CategoryID == nil {
			continue
		}
		if _, ok := idSet[*h.CategoryID]; ok {
			continue
		}
		idSet[*h.CategoryID] = struct{}{}
		ids = append(ids, *h.CategoryID)
	}
	categories, err := rs.categoryRepo.GetByIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	byID := make(map[uuid.UUID]*types.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return byID, nil
}
