// In file: cmd/gateway/handler.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dileep-u-k/decision-gateway/internal/api"
	"github.com/dileep-u-k/decision-gateway/internal/cache"
	"github.com/dileep-u-k/decision-gateway/internal/decision"
	"github.com/dileep-u-k/decision-gateway/internal/llm"
	"github.com/dileep-u-k/decision-gateway/internal/logging"
	"github.com/dileep-u-k/decision-gateway/internal/metrics"
	"github.com/dileep-u-k/decision-gateway/internal/orchestrator"
	cacheversion "github.com/dileep-u-k/decision-gateway/internal/version"
)

// =================================================================================
// Gateway Handler
// =================================================================================
// Every analyze request is validated, looked up in the response cache and, on
// a miss, handed to the orchestrator. Identical concurrent misses share one
// orchestrator run. The orchestrator never caches; this handler owns the cache.
// =================================================================================

const cacheKeyPrefix = "decision"

// Analyzer produces an analysis for a sanitized request.
type Analyzer interface {
	Analyze(ctx context.Context, req decision.Request) (*orchestrator.Result, error)
}

// ProfileReader lists model profiles.
type ProfileReader interface {
	GetProfiles(ctx context.Context, models []string) ([]*llm.ModelProfile, error)
}

type GatewayHandler struct {
	analyzer    Analyzer
	cache       cache.Cache
	profiles    ProfileReader
	models      []string
	metrics     *metrics.Metrics
	logger      *zap.Logger
	development bool

	group singleflight.Group
}

// NewGatewayHandler wires the handler. profiles may be nil when Redis is not configured.
func NewGatewayHandler(analyzer Analyzer, responses cache.Cache, profiles ProfileReader, models []string, m *metrics.Metrics, logger *zap.Logger, development bool) *GatewayHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GatewayHandler{
		analyzer:    analyzer,
		cache:       responses,
		profiles:    profiles,
		models:      models,
		metrics:     m,
		logger:      logger,
		development: development,
	}
}

func (h *GatewayHandler) HandleAnalyze(c *gin.Context) {
	start := time.Now()
	defer h.metrics.TrackInFlight()()
	log := requestLog(c, h.logger)
	ctx := c.Request.Context()

	var body api.AnalyzeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Warn("⚠️ Invalid JSON in request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid JSON in request body"})
		return
	}

	req, err := body.Validate()
	h.metrics.ObservePhase("validate", time.Since(start))
	if err != nil {
		var ve *api.ValidationError
		if errors.As(err, &ve) {
			log.Warn("⚠️ Request rejected", zap.String("reason", ve.Message))
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: ve.Message})
			return
		}
		h.internalError(c, log, err)
		return
	}

	log.Info("🔍 Analyze request",
		zap.String("mode", string(req.Mode)),
		zap.String("locale", string(req.Locale)),
		zap.Bool("personalized", req.Personalization != nil),
		zap.String("question", logging.Preview(req.Question)),
	)

	key := cacheversion.GenerateVersionedCacheKey(cacheKeyPrefix, req.Question, req.Mode, req.Locale, req.Personalization)
	if entry, ok := h.lookup(ctx, log, key); ok {
		c.Header("X-Cache", "HIT")
		c.Header("X-Cache-TTL", strconv.Itoa(int(entry.TTL.Seconds())))
		c.Header("X-Response-Time", formatMS(time.Since(start)))
		c.JSON(http.StatusOK, entry.Analysis)
		return
	}

	apiStart := time.Now()
	v, err, shared := h.group.Do(key, func() (any, error) {
		// Waiters share this run, so it must outlive the caller that started it.
		res, err := h.analyzer.Analyze(context.WithoutCancel(ctx), req)
		if err != nil {
			return nil, err
		}
		compactAnalysis(res.Analysis)
		if res.Cancelled {
			log.Warn("🛑 Analysis cut short by cancellation, not caching")
			return res, nil
		}
		h.store(ctx, log, key, res.Analysis)
		return res, nil
	})
	apiTime := time.Since(apiStart)
	h.metrics.ObservePhase("analyze", apiTime)

	if err != nil {
		if errors.Is(err, orchestrator.ErrMissingCredentials) {
			c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "Gemini API key is required but not configured"})
			return
		}
		h.internalError(c, log, err)
		return
	}

	res := v.(*orchestrator.Result)
	log.Info("✅ Analysis served",
		zap.String("source", string(res.Source)),
		zap.String("model", res.Model),
		zap.Bool("shared", shared),
		zap.Duration("api_time", apiTime),
	)

	c.Header("X-Cache", "MISS")
	c.Header("X-Response-Time", formatMS(time.Since(start)))
	c.Header("X-API-Time", formatMS(apiTime))
	c.JSON(http.StatusOK, res.Analysis)
}

// HandleMethodNotAllowed answers every non-POST method on the analyze route.
func (h *GatewayHandler) HandleMethodNotAllowed(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	c.JSON(http.StatusMethodNotAllowed, api.ErrorResponse{Error: "Method not allowed. Use POST to analyze decisions."})
}

func (h *GatewayHandler) HandleCategories(c *gin.Context) {
	loc := decision.LocaleEN
	if raw := c.Query("locale"); raw != "" {
		parsed, err := api.ParseLocale(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		loc = parsed
	}

	infos := decision.Categories()
	views := make([]api.CategoryView, 0, len(infos))
	for _, info := range infos {
		views = append(views, api.CategoryView{
			Key:         info.Key,
			Name:        decision.LocalizedName(info.Key, loc),
			Description: decision.LocalizedDescription(info.Key, loc),
		})
	}
	c.JSON(http.StatusOK, api.CategoriesResponse{Locale: loc, Categories: views})
}

func (h *GatewayHandler) HandleModels(c *gin.Context) {
	if h.profiles == nil {
		c.JSON(http.StatusOK, api.ModelsResponse{Models: []*llm.ModelProfile{}})
		return
	}
	profiles, err := h.profiles.GetProfiles(c.Request.Context(), h.models)
	if err != nil {
		h.internalError(c, requestLog(c, h.logger), fmt.Errorf("failed to read model profiles: %w", err))
		return
	}
	c.JSON(http.StatusOK, api.ModelsResponse{Models: profiles})
}

func (h *GatewayHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok", Version: GetBuildInfo().Version})
}

func (h *GatewayHandler) HandleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, GetBuildInfo())
}

// --- HELPER FUNCTIONS ---

// lookup treats a failing cache as a miss so the request still gets an answer.
func (h *GatewayHandler) lookup(ctx context.Context, log *zap.Logger, key string) (*cache.Entry, bool) {
	start := time.Now()
	entry, ok, err := h.cache.Get(ctx, key)
	h.metrics.ObservePhase("cache_lookup", time.Since(start))
	switch {
	case err != nil:
		h.metrics.ObserveCache(metrics.CacheError)
		log.Warn("⚠️ Cache lookup failed", zap.Error(err))
		return nil, false
	case !ok:
		h.metrics.ObserveCache(metrics.CacheMiss)
		log.Debug("⚠️ Cache MISS")
		return nil, false
	}
	h.metrics.ObserveCache(metrics.CacheHit)
	log.Info("✅ Cache HIT", zap.Duration("ttl", entry.TTL))
	return entry, true
}

func (h *GatewayHandler) store(ctx context.Context, log *zap.Logger, key string, a *decision.Analysis) {
	if err := h.cache.Set(context.WithoutCancel(ctx), key, a); err != nil {
		log.Warn("⚠️ Failed to cache analysis", zap.Error(err))
		return
	}
	log.Debug("✅ Response CACHED")
}

func (h *GatewayHandler) internalError(c *gin.Context, log *zap.Logger, err error) {
	log.Error("❌ Analysis failed", zap.Error(err))
	resp := api.ErrorResponse{Error: "Internal server error during analysis"}
	if h.development {
		resp.Details = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}

// compactAnalysis trims every string of a before it is cached and served.
func compactAnalysis(a *decision.Analysis) {
	a.EmotionalReasoning = strings.TrimSpace(a.EmotionalReasoning)
	a.LogicalReasoning = strings.TrimSpace(a.LogicalReasoning)
	a.Suggestion = strings.TrimSpace(a.Suggestion)
	a.Summary = strings.TrimSpace(a.Summary)
	for _, list := range [][]string{a.Pros, a.Cons, a.FollowUpQuestions} {
		for i := range list {
			list[i] = strings.TrimSpace(list[i])
		}
	}
}

func formatMS(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}
