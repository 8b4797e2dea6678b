package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prepmind-dev/prepmind-api/internal/dto"
	"github.com/prepmind-dev/prepmind-api/internal/models"
	"github.com/prepmind-dev/prepmind-api/internal/repository"
)

const historyListLimit = 50

// HistoryService lists a user's past interview sessions with aggregate
// stats. Results are cached in Redis and invalidated whenever a session
// changes.
type HistoryService interface {
	History(ctx context.Context, userID string) (dto.HistoryResponse, error)
	Invalidate(ctx context.Context, userID string)
}

type historyService struct {
	sessions repository.InterviewSessionRepository
	cache    *redis.Client
	ttl      time.Duration
	logger   zerolog.Logger
}

func NewHistoryService(sessions repository.InterviewSessionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) HistoryService {
	return &historyService{
		sessions: sessions,
		cache:    cache,
		ttl:      ttl,
		logger:   logger.With().Str("component", "history_service").Logger(),
	}
}

func historyKey(userID string) string {
	return fmt.Sprintf("history:user:%s", userID)
}

func (s *historyService) History(ctx context.Context, userID string) (dto.HistoryResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, historyKey(userID)).Result()
		if err == nil {
			var response dto.HistoryResponse
			if json.Unmarshal([]byte(cached), &response) == nil {
				return response, nil
			}
			// Corrupt entry, fall through to the database.
			s.cache.Del(ctx, historyKey(userID))
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("history cache read failed")
		}
	}

	sessions, err := s.sessions.ListByUser(ctx, userID, historyListLimit)
	if err != nil {
		return dto.HistoryResponse{}, fmt.Errorf("list sessions: %w", err)
	}

	response := dto.HistoryResponse{
		Sessions: make([]dto.SessionSummary, 0, len(sessions)),
	}
	for _, session := range sessions {
		response.Sessions = append(response.Sessions, dto.NewSessionSummary(session))
	}
	response.Stats = computeStats(response.Sessions)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, historyKey(userID), payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("history cache write failed")
			}
		}
	}

	return response, nil
}

func (s *historyService) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, historyKey(userID)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("history cache invalidation failed")
	}
}

func computeStats(summaries []dto.SessionSummary) dto.HistoryStats {
	stats := dto.HistoryStats{TotalSessions: len(summaries)}

	var sum float64
	var scored int
	for _, s := range summaries {
		if s.Status == models.SessionStatusCompleted {
			stats.CompletedSessions++
		}
		if s.OverallScore == nil {
			continue
		}
		scored++
		sum += *s.OverallScore
		if *s.OverallScore > stats.BestScore {
			stats.BestScore = *s.OverallScore
		}
	}
	if scored > 0 {
		stats.AverageScore = sum / float64(scored)
	}
	return stats
}
