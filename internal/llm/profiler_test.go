package llm

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestProfiler(t *testing.T) (*Profiler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewProfiler(rdb, zaptest.NewLogger(t)), mr
}

func TestProfiler_DefaultProfile(t *testing.T) {
	p, mr := newTestProfiler(t)
	ctx := context.Background()

	profile, err := p.GetProfile(ctx, "gemini-1.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-flash", profile.ModelID)
	assert.Equal(t, StatusOnline, profile.Status)
	assert.EqualValues(t, initialAvgLatencyMS, profile.AvgLatencyMS)
	assert.True(t, mr.Exists("profile:gemini-1.5-flash"))

	again, err := p.GetProfile(ctx, "gemini-1.5-flash")
	require.NoError(t, err)
	assert.Equal(t, profile.AvgLatencyMS, again.AvgLatencyMS)
	assert.Zero(t, again.TotalSuccesses)
}

func TestProfiler_SuccessAndFailure(t *testing.T) {
	p, _ := newTestProfiler(t)
	ctx := context.Background()
	const model = "gemini-1.5-pro"

	_, err := p.GetProfile(ctx, model)
	require.NoError(t, err)

	p.RecordSuccess(ctx, model, time.Second, Usage{PromptTokens: 120, CompletionTokens: 80, TotalTokens: 200})
	profile, err := p.GetProfile(ctx, model)
	require.NoError(t, err)
	assert.InDelta(t, 1900, profile.AvgLatencyMS, 1)
	assert.EqualValues(t, 1, profile.TotalSuccesses)
	assert.EqualValues(t, 120, profile.TotalInputTokens)
	assert.EqualValues(t, 80, profile.TotalOutputTokens)
	assert.Zero(t, profile.ErrorRate)

	p.RecordFailure(ctx, model, "transport")
	profile, err = p.GetProfile(ctx, model)
	require.NoError(t, err)
	assert.Equal(t, StatusDegraded, profile.Status)
	assert.EqualValues(t, 1, profile.TotalFailures)
	assert.InDelta(t, 0.5, profile.ErrorRate, 1e-9)
	assert.Equal(t, "transport", profile.LastFailureReason)

	p.RecordSuccess(ctx, model, time.Second, Usage{})
	profile, err = p.GetProfile(ctx, model)
	require.NoError(t, err)
	assert.Equal(t, StatusOnline, profile.Status)
}

func TestProfiler_SuccessWithoutProfileUsesObservedLatency(t *testing.T) {
	p, _ := newTestProfiler(t)
	ctx := context.Background()

	p.RecordSuccess(ctx, "gemini-1.0-pro", 500*time.Millisecond, Usage{})
	profile, err := p.GetProfile(ctx, "gemini-1.0-pro")
	require.NoError(t, err)
	assert.EqualValues(t, 500, profile.AvgLatencyMS)
	assert.EqualValues(t, 1, profile.TotalSuccesses)
}

func TestProfiler_HealthCheck(t *testing.T) {
	p, _ := newTestProfiler(t)
	ctx := context.Background()

	p.RecordHealthCheck(ctx, "gemini-1.5-flash", false)
	profile, err := p.GetProfile(ctx, "gemini-1.5-flash")
	require.NoError(t, err)
	assert.Equal(t, StatusOffline, profile.Status)
	assert.EqualValues(t, initialAvgLatencyMS, profile.AvgLatencyMS)
	assert.WithinDuration(t, time.Now(), profile.LastHealthCheck, time.Minute)

	p.RecordHealthCheck(ctx, "gemini-1.5-flash", true)
	profile, err = p.GetProfile(ctx, "gemini-1.5-flash")
	require.NoError(t, err)
	assert.Equal(t, StatusOnline, profile.Status)
}

func TestProfiler_GetProfilesKeepsOrder(t *testing.T) {
	p, _ := newTestProfiler(t)
	profiles, err := p.GetProfiles(context.Background(), []string{"b", "a"})
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "b", profiles[0].ModelID)
	assert.Equal(t, "a", profiles[1].ModelID)
}

func TestProfiler_RedisDown(t *testing.T) {
	p, mr := newTestProfiler(t)
	mr.Close()
	_, err := p.GetProfile(context.Background(), "gemini-1.5-flash")
	assert.Error(t, err)
}
