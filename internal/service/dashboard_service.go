package service

import (
	"context"
	"strconv"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/model"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/repository"

	"github.com/go-redis/redis/v8"
)

type DashboardService struct {
	UserRepo     *repository.UserRepository
	ProgressRepo *repository.ProgressRepository
	Redis        *redis.Client
}

func NewDashboardService(userRepo *repository.UserRepository, progressRepo *repository.ProgressRepository, rdb *redis.Client) *DashboardService {
	return &DashboardService{UserRepo: userRepo, ProgressRepo: progressRepo, Redis: rdb}
}

type DashboardOverview struct {
	TotalXP          int64 `json:"totalXP"`
	ModulesInFlight  int   `json:"modulesInFlight"`
	ModulesCompleted int   `json:"modulesCompleted"`
	BestStreak       int   `json:"bestStreak"`
	Badges           int   `json:"badges"`
}

func (s *DashboardService) Overview(studentID uint) (*DashboardOverview, error) {
	rows, err := s.ProgressRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{}
	for _, row := range rows {
		snap := row.Snapshot()
		overview.TotalXP += int64(snap.TotalXP)
		overview.Badges += len(snap.Badges)
		if snap.Streak > overview.BestStreak {
			overview.BestStreak = snap.Streak
		}
		if row.CompletedAt != nil {
			overview.ModulesCompleted++
		} else {
			overview.ModulesInFlight++
		}
	}
	return overview, nil
}

type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  uint   `json:"userId"`
	Name    string `json:"name"`
	TotalXP int64  `json:"totalXP"`
}

// Leaderboard reads the redis XP ranking maintained by the session service
// and resolves names from storage.
func (s *DashboardService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	scores, err := s.Redis.ZRevRangeWithScores(context.Background(), leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(scores))
	for _, z := range scores {
		if id, err := strconv.ParseUint(z.Member.(string), 10, 64); err == nil {
			ids = append(ids, uint(id))
		}
	}
	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	entries := make([]LeaderboardEntry, 0, len(scores))
	for i, z := range scores {
		id, err := strconv.ParseUint(z.Member.(string), 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Rank:    i + 1,
			UserID:  uint(id),
			Name:    names[uint(id)],
			TotalXP: int64(z.Score),
		})
	}
	return entries, nil
}

// RebuildLeaderboard reseeds redis from storage, used after a cache loss.
func (s *DashboardService) RebuildLeaderboard() error {
	students, err := s.UserRepo.ListByRole(model.Student)
	if err != nil {
		return err
	}
	ctx := context.Background()
	for _, st := range students {
		total, err := s.ProgressRepo.TotalXPByStudent(st.ID)
		if err != nil {
			return err
		}
		if total > 0 {
			s.Redis.ZAdd(ctx, leaderboardKey, &redis.Z{Score: float64(total), Member: strconv.FormatUint(uint64(st.ID), 10)})
		}
	}
	return nil
}
