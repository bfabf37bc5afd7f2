package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/go-redis/redis/v8"
)

const (
	progressKeyPrefix = "job:progress:"
	stateExpiry       = 24 * time.Hour
)

type jobRedisRepo struct {
	redisClient *redis.Client
}

func NewJobRedisRepo(redisClient *redis.Client) jobs.RedisRepository {
	return &jobRedisRepo{
		redisClient: redisClient,
	}
}

func (r *jobRedisRepo) SetProgress(ctx context.Context, jobID string, progress int) error {
	key := progressKeyPrefix + jobID
	pipe := r.redisClient.Pipeline()
	pipe.HSet(ctx, key, "progress", progress)
	pipe.Expire(ctx, key, stateExpiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set progress: %w", err)
	}
	return nil
}

func (r *jobRedisRepo) SetStatus(ctx context.Context, jobID string, status models.JobStatus, progress int) error {
	key := progressKeyPrefix + jobID
	pipe := r.redisClient.Pipeline()
	pipe.HSet(ctx, key, "status", string(status))
	pipe.HSet(ctx, key, "progress", progress)
	pipe.Expire(ctx, key, stateExpiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	return nil
}

func (r *jobRedisRepo) GetState(ctx context.Context, jobID string) (*jobs.CachedState, error) {
	res, err := r.redisClient.HGetAll(ctx, progressKeyPrefix+jobID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get job state: %w", err)
	}
	if len(res) == 0 {
		return nil, redis.Nil
	}
	state := &jobs.CachedState{Status: models.JobStatus(res["status"])}
	if progress, err := strconv.Atoi(res["progress"]); err == nil {
		state.Progress = progress
	}
	return state, nil
}
