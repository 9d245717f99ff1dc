package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gyandeep/internal/config"
	"gyandeep/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const monthLayout = "2006-01"

// LeaderboardService ranks users by accumulated score in Redis sorted sets.
type LeaderboardService interface {
	Record(ctx context.Context, result *domain.QuizResult, user *domain.UserProfile) error
	Top(ctx context.Context, scope domain.LeaderboardScope, category string, limit int) (*domain.Leaderboard, error)
	// SeedMock fills an empty global board with the showcase leaders.
	SeedMock(ctx context.Context) error
}

type leaderMeta struct {
	Name     string `json:"name"`
	Accuracy int    `json:"accuracy"`
}

type mockLeader struct {
	id    string
	name  string
	score int64
	acc   int
}

var mockLeaders = []mockLeader{
	{id: "mock-1", name: "Suman Paudel", score: 14500, acc: 98},
	{id: "mock-2", name: "Anjali Sharma", score: 14220, acc: 96},
	{id: "mock-3", name: "Bikesh Shrestha", score: 13900, acc: 95},
	{id: "mock-4", name: "Kiran Gurung", score: 12100, acc: 92},
	{id: "mock-5", name: "Priya Thapa", score: 11850, acc: 94},
	{id: "mock-6", name: "Roshan Karki", score: 11200, acc: 89},
}

type leaderboardService struct {
	rdb    redis.Cmdable
	cfg    config.LeaderboardConfig
	logger *zap.Logger
	now    func() time.Time
}

func NewLeaderboardService(rdb redis.Cmdable, cfg config.LeaderboardConfig, logger *zap.Logger) LeaderboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "gyandeep:leaderboard"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 50
	}
	return &leaderboardService{rdb: rdb, cfg: cfg, logger: logger, now: time.Now}
}

func (s *leaderboardService) globalKey() string {
	return s.cfg.Prefix + ":global"
}

func (s *leaderboardService) monthlyKey(t time.Time) string {
	return fmt.Sprintf("%s:monthly:%s", s.cfg.Prefix, t.UTC().Format(monthLayout))
}

func (s *leaderboardService) categoryKey(category string) string {
	return fmt.Sprintf("%s:category:%s", s.cfg.Prefix, category)
}

func (s *leaderboardService) usersKey() string {
	return s.cfg.Prefix + ":users"
}

func (s *leaderboardService) Record(ctx context.Context, result *domain.QuizResult, user *domain.UserProfile) error {
	if result == nil || result.UserID == "" {
		return nil
	}
	meta := leaderMeta{Accuracy: result.Accuracy()}
	if user != nil {
		meta.Name = user.Name
		meta.Accuracy = user.Accuracy
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return domain.NewInternalError("failed to encode leaderboard entry", err)
	}

	score := float64(result.Score)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, s.globalKey(), score, result.UserID)
		pipe.ZIncrBy(ctx, s.monthlyKey(result.Date), score, result.UserID)
		if result.Category != "" && result.Category != domain.AllCategories {
			pipe.ZIncrBy(ctx, s.categoryKey(result.Category), score, result.UserID)
		}
		pipe.HSet(ctx, s.usersKey(), result.UserID, string(data))
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to update leaderboard", zap.String("userID", result.UserID), zap.Error(err))
		return domain.NewInternalError("failed to update leaderboard", err)
	}
	return nil
}

func (s *leaderboardService) Top(ctx context.Context, scope domain.LeaderboardScope, category string, limit int) (*domain.Leaderboard, error) {
	if limit <= 0 || limit > s.cfg.Limit {
		limit = s.cfg.Limit
	}

	board := &domain.Leaderboard{Scope: scope, Entries: []domain.LeaderboardEntry{}}
	var key string
	switch scope {
	case domain.ScopeGlobal:
		key = s.globalKey()
	case domain.ScopeMonthly:
		board.Period = s.now().UTC().Format(monthLayout)
		key = s.monthlyKey(s.now())
	case domain.ScopeCategory:
		category = strings.ToLower(strings.TrimSpace(category))
		if category == "" {
			return nil, domain.ValidationErrors{domain.NewMissingFieldError("category")}
		}
		board.Category = category
		key = s.categoryKey(category)
	default:
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown leaderboard scope: %s", scope))
	}

	members, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, domain.NewInternalError("failed to read leaderboard", err)
	}
	if len(members) == 0 {
		return board, nil
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i], _ = m.Member.(string)
	}
	metas, err := s.rdb.HMGet(ctx, s.usersKey(), ids...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, domain.NewInternalError("failed to read leaderboard users", err)
	}

	for i, m := range members {
		entry := domain.LeaderboardEntry{Rank: i + 1, UserID: ids[i], Score: int64(m.Score)}
		if i < len(metas) {
			if raw, ok := metas[i].(string); ok {
				var meta leaderMeta
				if err := json.Unmarshal([]byte(raw), &meta); err == nil {
					entry.Name = meta.Name
					entry.Accuracy = meta.Accuracy
				}
			}
		}
		board.Entries = append(board.Entries, entry)
	}
	return board, nil
}

func (s *leaderboardService) SeedMock(ctx context.Context) error {
	n, err := s.rdb.ZCard(ctx, s.globalKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to inspect leaderboard: %w", err)
	}
	if n > 0 {
		return nil
	}

	members := make([]redis.Z, 0, len(mockLeaders))
	fields := make([]interface{}, 0, 2*len(mockLeaders))
	for _, l := range mockLeaders {
		members = append(members, redis.Z{Score: float64(l.score), Member: l.id})
		data, _ := json.Marshal(leaderMeta{Name: l.name, Accuracy: l.acc})
		fields = append(fields, l.id, string(data))
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, s.globalKey(), members...)
		pipe.HSet(ctx, s.usersKey(), fields...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed leaderboard: %w", err)
	}
	s.logger.Info("Seeded leaderboard with mock leaders", zap.Int("count", len(mockLeaders)))
	return nil
}
