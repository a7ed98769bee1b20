package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/voice-tictactoe/internal/entity"
)

const scoreBucketsKey = "scores"

type ScoreRepository interface {
	Increment(ctx context.Context, bucket, field string) error
	GetAll(ctx context.Context) ([]*entity.Score, error)
}

type dbScore struct {
	client *redis.Client
}

// NewScoreRepository - keeps one hash per bucket ("score:<bucket>") and the set of known buckets.
func NewScoreRepository(client *redis.Client) ScoreRepository {
	return &dbScore{
		client: client,
	}
}

func (that *dbScore) Increment(ctx context.Context, bucket, field string) error {
	scoreKey := "score:" + bucket

	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, scoreKey, field, 1)
		pipe.SAdd(ctx, scoreBucketsKey, bucket)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to increment score: %w", err)
	}

	return nil
}

func (that *dbScore) GetAll(ctx context.Context) ([]*entity.Score, error) {
	buckets, err := that.client.SMembers(ctx, scoreBucketsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get score buckets: %w", err)
	}

	sort.Strings(buckets)

	scores := make([]*entity.Score, 0, len(buckets))
	for _, bucket := range buckets {
		values, err := that.client.HGetAll(ctx, "score:"+bucket).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to get score %s: %w", bucket, err)
		}

		score := &entity.Score{Bucket: bucket, Counts: make(map[string]int64, len(values))}
		for field, value := range values {
			count, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse score %s.%s: %w", bucket, field, err)
			}
			score.Counts[field] = count
		}

		scores = append(scores, score)
	}

	return scores, nil
}

type memoryScore struct {
	mu     sync.Mutex
	scores map[string]map[string]int64
}

// NewMemoryScoreRepository - scoreboard for runs without Redis; lost on exit.
func NewMemoryScoreRepository() ScoreRepository {
	return &memoryScore{
		scores: make(map[string]map[string]int64),
	}
}

func (that *memoryScore) Increment(_ context.Context, bucket, field string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	counts, ok := that.scores[bucket]
	if !ok {
		counts = make(map[string]int64)
		that.scores[bucket] = counts
	}
	counts[field]++

	return nil
}

func (that *memoryScore) GetAll(_ context.Context) ([]*entity.Score, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	scores := make([]*entity.Score, 0, len(that.scores))
	for bucket, counts := range that.scores {
		score := &entity.Score{Bucket: bucket, Counts: make(map[string]int64, len(counts))}
		for field, count := range counts {
			score.Counts[field] = count
		}
		scores = append(scores, score)
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].Bucket < scores[j].Bucket })

	return scores, nil
}
