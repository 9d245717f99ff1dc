package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gyandeep/internal/cache"
	"gyandeep/internal/config"
	"gyandeep/internal/domain"
	"gyandeep/internal/dto"
	"gyandeep/internal/logger"

	"go.uber.org/zap"
)

// ErrNotCached is returned when a cached result or report is not found.
var ErrNotCached = errors.New("entry not found in cache")

// ResultCacheService keeps finished results and AI reports close to the API.
type ResultCacheService interface {
	PutResult(ctx context.Context, result *domain.QuizResult) error
	GetResult(ctx context.Context, resultID string) (*domain.QuizResult, error)
	PutAnalysis(ctx context.Context, analysis *dto.AnalysisResponse) error
	GetAnalysis(ctx context.Context, resultID string) (*dto.AnalysisResponse, error)
}

type resultCacheServiceImpl struct {
	cache domain.Cache
	ttls  config.CacheTTLConfig
}

// NewResultCacheService creates a new instance of resultCacheServiceImpl.
func NewResultCacheService(c domain.Cache, ttls config.CacheTTLConfig) ResultCacheService {
	if c == nil {
		logger.Get().Warn("ResultCacheService initialized with nil cache. Service will be no-op.")
		return &noopResultCacheService{}
	}
	return &resultCacheServiceImpl{cache: c, ttls: ttls}
}

func (s *resultCacheServiceImpl) PutResult(ctx context.Context, result *domain.QuizResult) error {
	if result == nil {
		return domain.NewInvalidInputError("cannot cache nil result")
	}
	return s.put(ctx, cache.ResultKey(result.ID), result, s.ttls.Result)
}

func (s *resultCacheServiceImpl) GetResult(ctx context.Context, resultID string) (*domain.QuizResult, error) {
	var result domain.QuizResult
	if err := s.get(ctx, cache.ResultKey(resultID), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *resultCacheServiceImpl) PutAnalysis(ctx context.Context, analysis *dto.AnalysisResponse) error {
	if analysis == nil || analysis.Report == nil {
		return domain.NewInvalidInputError("cannot cache empty analysis")
	}
	return s.put(ctx, cache.AnalysisKey(analysis.ResultID), analysis, s.ttls.Analysis)
}

func (s *resultCacheServiceImpl) GetAnalysis(ctx context.Context, resultID string) (*dto.AnalysisResponse, error) {
	var analysis dto.AnalysisResponse
	if err := s.get(ctx, cache.AnalysisKey(resultID), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (s *resultCacheServiceImpl) put(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Get().Error("Failed to marshal value for caching", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError("failed to marshal value for caching", err)
	}
	if err := s.cache.Set(ctx, key, string(data), ttl); err != nil {
		logger.Get().Error("Failed to write cache entry", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to set cache entry for key %s", key), err)
	}
	logger.Get().Debug("Cached value", zap.String("key", key))
	return nil
}

func (s *resultCacheServiceImpl) get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Debug("Cache miss", zap.String("key", key))
			return ErrNotCached
		}
		logger.Get().Error("Failed to read cache entry", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to get cache entry for key %s", key), err)
	}
	if data == "" {
		return ErrNotCached
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		logger.Get().Error("Failed to unmarshal cache entry", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to unmarshal cache entry for key %s", key), err)
	}
	return nil
}

// noopResultCacheService is used when caching is disabled.
type noopResultCacheService struct{}

func (noopResultCacheService) PutResult(context.Context, *domain.QuizResult) error { return nil }

func (noopResultCacheService) GetResult(context.Context, string) (*domain.QuizResult, error) {
	return nil, ErrNotCached
}

func (noopResultCacheService) PutAnalysis(context.Context, *dto.AnalysisResponse) error { return nil }

func (noopResultCacheService) GetAnalysis(context.Context, string) (*dto.AnalysisResponse, error) {
	return nil, ErrNotCached
}
