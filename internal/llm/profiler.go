// In file: internal/llm/profiler.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Status is the health of a model as last observed by the profiler.
type Status string

const (
	StatusOnline   Status = "online"
	StatusDegraded Status = "degraded"
	StatusOffline  Status = "offline"
)

// ModelProfile tracks performance and reliability metrics for a model.
type ModelProfile struct {
	ModelID           string    `json:"model_id" redis:"model_id"`
	AvgLatencyMS      int64     `json:"avg_latency_ms" redis:"avg_latency_ms"`
	Status            Status    `json:"status" redis:"status"`
	ErrorRate         float64   `json:"error_rate" redis:"error_rate"`
	TotalSuccesses    int64     `json:"total_successes" redis:"total_successes"`
	TotalFailures     int64     `json:"total_failures" redis:"total_failures"`
	TotalInputTokens  int64     `json:"total_input_tokens" redis:"total_input_tokens"`
	TotalOutputTokens int64     `json:"total_output_tokens" redis:"total_output_tokens"`
	LastFailureReason string    `json:"last_failure_reason,omitempty" redis:"last_failure_reason"`
	LastHealthCheck   time.Time `json:"last_health_check" redis:"last_health_check"`
}

// Profiler persists model profiles as Redis hashes so every gateway replica
// shares one view of model health.
type Profiler struct {
	rdb    redis.UniversalClient
	logger *zap.Logger
}

const (
	profileKeyPrefix    = "profile:"
	latencyAlpha        = 0.1
	initialAvgLatencyMS = 2000
)

func NewProfiler(rdb redis.UniversalClient, logger *zap.Logger) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profiler{rdb: rdb, logger: logger}
}

func (p *Profiler) profileKey(modelID string) string {
	return profileKeyPrefix + modelID
}

// GetProfile retrieves a model's profile, creating a default one if it doesn't exist.
func (p *Profiler) GetProfile(ctx context.Context, modelID string) (*ModelProfile, error) {
	data, err := p.rdb.HGetAll(ctx, p.profileKey(modelID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read profile for %s: %w", modelID, err)
	}
	if len(data) == 0 {
		return p.createDefaultProfile(ctx, modelID)
	}
	return parseProfile(modelID, data), nil
}

// GetProfiles returns the profiles of the given models in order.
func (p *Profiler) GetProfiles(ctx context.Context, models []string) ([]*ModelProfile, error) {
	profiles := make([]*ModelProfile, 0, len(models))
	for _, modelID := range models {
		profile, err := p.GetProfile(ctx, modelID)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func parseProfile(modelID string, data map[string]string) *ModelProfile {
	profile := &ModelProfile{ModelID: modelID, Status: Status(data["status"])}
	profile.AvgLatencyMS, _ = strconv.ParseInt(data["avg_latency_ms"], 10, 64)
	profile.ErrorRate, _ = strconv.ParseFloat(data["error_rate"], 64)
	profile.TotalSuccesses, _ = strconv.ParseInt(data["total_successes"], 10, 64)
	profile.TotalFailures, _ = strconv.ParseInt(data["total_failures"], 10, 64)
	profile.TotalInputTokens, _ = strconv.ParseInt(data["total_input_tokens"], 10, 64)
	profile.TotalOutputTokens, _ = strconv.ParseInt(data["total_output_tokens"], 10, 64)
	profile.LastFailureReason = data["last_failure_reason"]
	profile.LastHealthCheck, _ = time.Parse(time.RFC3339Nano, data["last_health_check"])
	return profile
}

func (p *Profiler) createDefaultProfile(ctx context.Context, modelID string) (*ModelProfile, error) {
	profile := &ModelProfile{
		ModelID:         modelID,
		AvgLatencyMS:    initialAvgLatencyMS,
		Status:          StatusOnline,
		LastHealthCheck: time.Now().UTC(),
	}

	key := p.profileKey(modelID)
	pipe := p.rdb.Pipeline()
	pipe.HSet(ctx, key,
		"model_id", profile.ModelID,
		"avg_latency_ms", profile.AvgLatencyMS,
		"status", string(profile.Status),
		"total_successes", 0,
		"total_failures", 0,
		"total_input_tokens", 0,
		"total_output_tokens", 0,
		"error_rate", 0.0,
		"last_health_check", profile.LastHealthCheck.Format(time.RFC3339Nano),
	)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create profile for %s: %w", modelID, err)
	}

	p.logger.Info("✅ Created model profile", zap.String("model", modelID))
	return profile, nil
}

// RecordSuccess folds a successful call into the latency average and token
// totals and marks the model online.
func (p *Profiler) RecordSuccess(ctx context.Context, modelID string, latency time.Duration, usage Usage) {
	key := p.profileKey(modelID)

	err := p.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, "avg_latency_ms").Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if errors.Is(err, redis.Nil) {
			current = latency.Milliseconds()
		}
		next := int64(latencyAlpha*float64(latency.Milliseconds()) + (1.0-latencyAlpha)*float64(current))
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "avg_latency_ms", next)
			return nil
		})
		return err
	}, key)
	if err != nil {
		p.logger.Warn("⚠️ Failed to update model latency", zap.String("model", modelID), zap.Error(err))
	}

	pipe := p.rdb.Pipeline()
	pipe.HSet(ctx, key, "model_id", modelID, "status", string(StatusOnline))
	successes := pipe.HIncrBy(ctx, key, "total_successes", 1)
	failures := pipe.HGet(ctx, key, "total_failures")
	pipe.HIncrBy(ctx, key, "total_input_tokens", int64(usage.PromptTokens))
	pipe.HIncrBy(ctx, key, "total_output_tokens", int64(usage.CompletionTokens))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		p.logger.Warn("⚠️ Failed to record model success", zap.String("model", modelID), zap.Error(err))
		return
	}

	totalFailures, _ := strconv.ParseInt(failures.Val(), 10, 64)
	p.updateErrorRate(ctx, key, successes.Val(), totalFailures)
}

// RecordFailure counts a failed attempt and marks the model degraded.
func (p *Profiler) RecordFailure(ctx context.Context, modelID, reason string) {
	key := p.profileKey(modelID)

	pipe := p.rdb.Pipeline()
	pipe.HSet(ctx, key, "model_id", modelID, "status", string(StatusDegraded), "last_failure_reason", reason)
	failures := pipe.HIncrBy(ctx, key, "total_failures", 1)
	successes := pipe.HGet(ctx, key, "total_successes")
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		p.logger.Warn("⚠️ Failed to record model failure", zap.String("model", modelID), zap.Error(err))
		return
	}

	totalSuccesses, _ := strconv.ParseInt(successes.Val(), 10, 64)
	p.updateErrorRate(ctx, key, totalSuccesses, failures.Val())
}

func (p *Profiler) updateErrorRate(ctx context.Context, key string, successes, failures int64) {
	total := successes + failures
	if total == 0 {
		return
	}
	if err := p.rdb.HSet(ctx, key, "error_rate", float64(failures)/float64(total)).Err(); err != nil {
		p.logger.Warn("⚠️ Failed to update error rate", zap.String("key", key), zap.Error(err))
	}
}

// RecordHealthCheck stores the result of a proactive health check. The full profile
// is created first so a health check never leaves a partial hash behind.
func (p *Profiler) RecordHealthCheck(ctx context.Context, modelID string, healthy bool) {
	if _, err := p.GetProfile(ctx, modelID); err != nil {
		p.logger.Warn("⚠️ Could not ensure profile before health check", zap.String("model", modelID), zap.Error(err))
	}

	status := StatusOffline
	if healthy {
		status = StatusOnline
	}

	err := p.rdb.HSet(ctx, p.profileKey(modelID),
		"status", string(status),
		"last_health_check", time.Now().UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		p.logger.Warn("⚠️ Failed to record health check", zap.String("model", modelID), zap.Error(err))
	}
}
