// In file: internal/orchestrator/orchestrator.go

// Package orchestrator turns a sanitized request into an analysis. It tries
// the primary model, then the alternates in order, and ends in a synthetic
// answer when no model produces a usable one. It never caches.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dileep-u-k/decision-gateway/internal/decision"
	"github.com/dileep-u-k/decision-gateway/internal/fallback"
	"github.com/dileep-u-k/decision-gateway/internal/llm"
	"github.com/dileep-u-k/decision-gateway/internal/logging"
)

// ErrMissingCredentials is returned when no model client is configured.
var ErrMissingCredentials = errors.New("gemini API key is required but not configured")

// Source names what produced an analysis.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceAlternate Source = "alternate"
	SourceSynthetic Source = "synthetic"
)

// Result is a finished analysis together with how it was produced.
type Result struct {
	Analysis *decision.Analysis
	Source   Source
	Model    string // empty for synthetic answers
	Language decision.Locale
	Category decision.Category

	// Cancelled marks a synthetic answer produced because ctx ended before
	// every model was tried. It reflects the caller, not the models.
	Cancelled bool
}

// Orchestrator is safe for concurrent use; every call to Analyze is independent.
type Orchestrator struct {
	client    llm.LLMClient
	fallbacks *fallback.Generator
	cfg       Config
	observer  Observer
	logger    *zap.Logger
	now       func() time.Time
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

func WithObserver(o Observer) Option {
	return func(orch *Orchestrator) {
		if o != nil {
			orch.observer = o
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(orch *Orchestrator) {
		if l != nil {
			orch.logger = l
		}
	}
}

// WithClock replaces the clock used for prompt markers.
func WithClock(now func() time.Time) Option {
	return func(orch *Orchestrator) {
		if now != nil {
			orch.now = now
		}
	}
}

// New builds an orchestrator. A nil client is allowed: Analyze then fails with
// ErrMissingCredentials while Synthesize keeps working.
func New(client llm.LLMClient, fallbacks *fallback.Generator, cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:    client,
		fallbacks: fallbacks,
		cfg:       cfg.withDefaults(),
		observer:  nopObserver{},
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Analyze produces an analysis for req. The language of the question, not the
// declared locale, decides the language every field must be written in.
func (o *Orchestrator) Analyze(ctx context.Context, req decision.Request) (*Result, error) {
	lang := decision.DetectLanguage(req.Question)
	category := decision.DetectCategory(req.Question, lang)
	log := o.logger.With(zap.String("language", string(lang)), zap.String("category", string(category)))
	log.Info("🌍 Question language detected", zap.String("declared_locale", string(req.Locale)))
	log.Info("🎯 Decision category detected", zap.String("category_name", decision.LocalizedName(category, lang)))

	if o.client == nil {
		log.Error("❌ No Gemini API key configured")
		return nil, ErrMissingCredentials
	}
	req.Personalization = o.completeProfile(log, req.Personalization, lang)

	in := fallback.Input{
		Question:        req.Question,
		Mode:            req.Mode,
		Locale:          lang,
		Category:        category,
		Personalization: req.Personalization,
	}

	prompt, err := decision.BuildPrompt(req.Question, req.Mode, lang, o.now(), req.Personalization)
	if err != nil {
		log.Error("❌ Failed to build prompt", zap.Error(err))
		return o.synthesize(ctx, log, in, req.Personalization, true)
	}
	log.Debug("🚀 Prompt built",
		zap.Int("length", len(prompt.Text)),
		zap.String("preview", logging.Preview(prompt.Text)),
	)

	a, reason := o.attempt(ctx, log, o.cfg.PrimaryModel, prompt.Text, lang)
	if a != nil {
		return o.finish(ctx, log, a, SourcePrimary, o.cfg.PrimaryModel, lang, category, req.Personalization), nil
	}
	if reason.IsQuality() {
		// Drift from a healthy model is not retried with the same prompt.
		log.Warn("🔄 Primary answer rejected, using fallback response", zap.String("reason", string(reason)))
		return o.synthesize(ctx, log, in, req.Personalization, false)
	}

	log.Info("📝 Trying alternate models...", zap.Strings("models", o.cfg.AlternateModels))
	for _, model := range o.cfg.AlternateModels {
		if ctx.Err() != nil {
			log.Warn("🛑 Request cancelled, skipping remaining models", zap.Error(ctx.Err()))
			break
		}
		a, _ = o.attempt(ctx, log, model, prompt.Text, lang)
		if a != nil {
			return o.finish(ctx, log, a, SourceAlternate, model, lang, category, req.Personalization), nil
		}
	}

	log.Warn("⚠️ All models failed, using premium fallback response")
	res, err := o.synthesize(ctx, log, in, req.Personalization, true)
	if res != nil {
		res.Cancelled = ctx.Err() != nil
	}
	return res, err
}

// Synthesize returns the synthetic answer for req without calling any model.
func (o *Orchestrator) Synthesize(ctx context.Context, req decision.Request) (*Result, error) {
	lang := decision.DetectLanguage(req.Question)
	category := decision.DetectCategory(req.Question, lang)
	log := o.logger.With(zap.String("language", string(lang)), zap.String("category", string(category)))
	req.Personalization = o.completeProfile(log, req.Personalization, lang)
	in := fallback.Input{
		Question:        req.Question,
		Mode:            req.Mode,
		Locale:          lang,
		Category:        category,
		Personalization: req.Personalization,
	}
	return o.synthesize(ctx, log, in, req.Personalization, true)
}

// completeProfile fills blank profile fields from the decision history when
// InferProfile is enabled.
func (o *Orchestrator) completeProfile(log *zap.Logger, p *decision.PersonalizationContext, lang decision.Locale) *decision.PersonalizationContext {
	if !o.cfg.InferProfile || p == nil {
		return p
	}
	completed := decision.CompleteProfile(p, lang, o.now())
	if completed != p {
		log.Info("🧠 Profile completed from decision history",
			zap.String("profession", completed.UserProfile.Profession),
			zap.String("life_stage", completed.UserProfile.LifeStage),
		)
	}
	return completed
}

// attempt runs one model call through validation and parsing. It returns the
// analysis on success, or nil and the reason it was rejected.
func (o *Orchestrator) attempt(ctx context.Context, log *zap.Logger, model, prompt string, lang decision.Locale) (*decision.Analysis, Reason) {
	log = log.With(zap.String("model", model))
	log.Info("🤖 Model attempt started")

	attemptCtx, cancel := context.WithTimeout(ctx, o.cfg.AttemptTimeout)
	defer cancel()

	start := time.Now()
	result, err := o.client.Generate(attemptCtx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, o.cfg.generation(model))
	report := AttemptReport{Model: model, Duration: time.Since(start)}
	if result != nil {
		report.Usage = result.Usage
	}

	a, reason, err := o.evaluate(ctx, log, result, err, lang)
	report.Success = a != nil
	report.Reason = reason
	report.Err = err
	o.observer.AttemptFinished(ctx, report)

	if a == nil {
		log.Warn("❌ Model attempt failed",
			zap.String("reason", string(reason)),
			zap.Duration("duration", report.Duration),
			zap.Error(err),
		)
		return nil, reason
	}
	log.Info("✅ Model attempt succeeded", zap.Duration("duration", report.Duration), zap.Int("total_tokens", report.Usage.TotalTokens))
	return a, ""
}

func (o *Orchestrator) evaluate(ctx context.Context, log *zap.Logger, result *llm.GenerationResult, err error, lang decision.Locale) (*decision.Analysis, Reason, error) {
	if err != nil {
		return nil, classifyTransport(ctx, err), err
	}
	log.Debug("📄 Response received",
		zap.Int("length", len(result.Content)),
		zap.String("preview", logging.Preview(result.Content)),
	)

	if !decision.ValidateResponseLanguage(result.Content, lang) {
		return nil, ReasonLanguage, fmt.Errorf("response is not in %s", lang)
	}

	a, err := decision.ParseAnalysis(result.Content, o.cfg.RepairMalformedJSON)
	if err != nil {
		return nil, ReasonParse, err
	}

	if failed := decision.ValidateFields(a, lang); len(failed) > 0 {
		return nil, ReasonFieldLanguage, fmt.Errorf("fields %v are not in %s", failed, lang)
	}

	if err := decision.ValidateSchema(a); err != nil {
		return nil, ReasonSchema, err
	}
	return a, "", nil
}

func classifyTransport(ctx context.Context, err error) Reason {
	switch {
	case ctx.Err() != nil:
		return ReasonCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, llm.ErrEmptyResponse):
		return ReasonEmpty
	default:
		return ReasonTransport
	}
}

// synthesize walks the synthetic generators. premium selects the
// topic tables; otherwise the showcase or generic answer is used. A failing
// generator falls through to the next one, generic last.
func (o *Orchestrator) synthesize(ctx context.Context, log *zap.Logger, in fallback.Input, p *decision.PersonalizationContext, premium bool) (*Result, error) {
	var (
		a   *decision.Analysis
		err error
	)
	if premium {
		a, err = o.fallbacks.Premium(in)
	} else {
		var ok bool
		a, ok, err = o.fallbacks.Showcase(in)
		if !ok && err == nil {
			a, err = o.fallbacks.Generic(in)
		}
	}
	if err != nil {
		log.Error("❌ Synthetic generator failed, using generic response", zap.Error(err))
		if a, err = o.fallbacks.Generic(in); err != nil {
			return nil, fmt.Errorf("synthetic fallback failed: %w", err)
		}
	}
	if err := decision.ValidateSchema(a); err != nil {
		log.Error("❌ Synthetic analysis does not match the schema", zap.Error(err))
	}
	return o.finish(ctx, log, a, SourceSynthetic, "", in.Locale, in.Category, p), nil
}

// finish stamps the category and fills the scores a model may have omitted.
func (o *Orchestrator) finish(ctx context.Context, log *zap.Logger, a *decision.Analysis, src Source, model string, lang decision.Locale, category decision.Category, p *decision.PersonalizationContext) *Result {
	a.DetectedCategory = category
	score := decision.Score(p)
	if a.PersonalizationScore == nil {
		a.PersonalizationScore = &score
	}
	if a.ConfidenceLevel == nil {
		confidence := decision.ConfidenceFor(score)
		a.ConfidenceLevel = &confidence
	}

	o.observer.AnalysisFinished(ctx, src)
	log.Info("🎉 Analysis ready",
		zap.String("source", string(src)),
		zap.String("model", model),
		zap.Int("pros", len(a.Pros)),
		zap.Int("cons", len(a.Cons)),
	)
	return &Result{Analysis: a, Source: src, Model: model, Language: lang, Category: category}
}
