// In file: internal/llm/health.go
package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// HealthRecorder receives the result of a proactive health check.
type HealthRecorder interface {
	RecordHealthCheck(ctx context.Context, modelID string, healthy bool)
}

// Ping sends a tiny prompt to the model and reports whether it answered.
func Ping(ctx context.Context, client LLMClient, modelID string) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	config := &GenerationConfig{Model: modelID, MaxTokens: pingMaxTokens}
	_, err := client.Generate(ctx, []Message{{Role: RoleUser, Content: pingPrompt}}, config)
	return err
}

// HealthChecker pings every configured model on a fixed interval.
type HealthChecker struct {
	client   LLMClient
	models   []string
	recorder HealthRecorder
	interval time.Duration
	logger   *zap.Logger
}

func NewHealthChecker(client LLMClient, models []string, recorder HealthRecorder, interval time.Duration, logger *zap.Logger) *HealthChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = defaultPingInterval
	}
	return &HealthChecker{client: client, models: models, recorder: recorder, interval: interval, logger: logger}
}

// Run checks immediately and then on every tick until ctx is cancelled.
func (h *HealthChecker) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.logger.Info("🩺 Health checker started", zap.Duration("interval", h.interval), zap.Strings("models", h.models))
	h.CheckAll(ctx)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("🩺 Health checker stopped")
			return
		case <-ticker.C:
			h.CheckAll(ctx)
		}
	}
}

// CheckAll pings each model once, sequentially.
func (h *HealthChecker) CheckAll(ctx context.Context) {
	h.logger.Debug("🩺 Running proactive health checks...")
	for _, modelID := range h.models {
		if ctx.Err() != nil {
			return
		}
		err := Ping(ctx, h.client, modelID)
		healthy := err == nil
		h.recorder.RecordHealthCheck(ctx, modelID, healthy)
		if healthy {
			h.logger.Info("🩺 Health check passed", zap.String("model", modelID))
		} else {
			h.logger.Warn("🩺 Health check failed", zap.String("model", modelID), zap.Error(err))
		}
	}
}
