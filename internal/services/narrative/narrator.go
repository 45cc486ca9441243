// Package narrative produces the natural-language summaries around a recommendation set.
//
// A Narrator prefers an external chat-completion service and falls back to the
// deterministic Fallback whenever the service is not configured or fails. The
// first failed request to the service disables it for the rest of the Narrator's life.
package narrative

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"insurance-recommendation-engine/internal/config"
	"insurance-recommendation-engine/internal/metrics"
	"insurance-recommendation-engine/internal/models"
	"insurance-recommendation-engine/internal/utils"
)

// Narrative modes reported by Mode.
const (
	ModeExternal = "external"
	ModeFallback = "fallback"
)

// Agent is implemented by both the Narrator and the deterministic Fallback.
type Agent interface {
	EnhanceQueryUnderstanding(ctx context.Context, query string) models.QueryUnderstanding
	GeneratePersonalizedExplanation(ctx context.Context, recs []models.Recommendation, query string) string
	GenerateComparativeAnalysis(ctx context.Context, recs []models.Recommendation) string
}

// Completer sends one chat completion request.
type Completer interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Narrator routes narrative operations to the external service or the fallback.
type Narrator struct {
	llm      Completer
	fallback *Fallback
	usable   atomic.Bool
	cache    Cache
	cacheTTL time.Duration
	timeout  time.Duration
}

// Option configures a Narrator.
type Option func(*Narrator)

// WithCache caches successful external texts for ttl.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(n *Narrator) {
		n.cache = c
		n.cacheTTL = ttl
	}
}

// WithTimeout bounds each external call.
func WithTimeout(d time.Duration) Option {
	return func(n *Narrator) {
		n.timeout = d
	}
}

// NewNarrator creates a narrator. A nil llm selects the fallback permanently.
func NewNarrator(llm Completer, opts ...Option) *Narrator {
	n := &Narrator{
		llm:      llm,
		fallback: NewFallback(),
	}
	for _, opt := range opts {
		opt(n)
	}

	n.usable.Store(llm != nil)
	if llm != nil {
		metrics.NarrativeExternalUsable.Set(1)
	} else {
		metrics.NarrativeExternalUsable.Set(0)
	}

	return n
}

// NewFromConfig builds a narrator from configuration. A missing or placeholder
// API key selects the fallback without error. A Redis cache is attached when
// REDIS_URL is set and reachable. The returned func releases the cache.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Narrator, func()) {
	closer := func() {}

	if !cfg.HasUsableAPIKey() {
		utils.Logger.Info("No usable OpenAI API key configured, using fallback narrative")
		return NewNarrator(nil), closer
	}

	opts := []Option{WithTimeout(cfg.NarrativeTimeout)}

	if cfg.RedisURL != "" {
		cache, err := NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			utils.Logger.Warn("Narrative cache unavailable, continuing without it", zap.Error(err))
		} else {
			opts = append(opts, WithCache(cache, cfg.CacheTTL))
			closer = func() { _ = cache.Close() }
		}
	}

	client := NewLLMClient(cfg)
	utils.Logger.Info("External narrative service configured", zap.String("model", client.Model()))

	return NewNarrator(client, opts...), closer
}

// Mode reports whether external generation is still in use.
func (n *Narrator) Mode() string {
	if n.usable.Load() {
		return ModeExternal
	}
	return ModeFallback
}

// Usable reports whether the external service is still in use.
func (n *Narrator) Usable() bool {
	return n.usable.Load()
}

// EnhanceQueryUnderstanding summarizes what the query asks for.
func (n *Narrator) EnhanceQueryUnderstanding(ctx context.Context, query string) models.QueryUnderstanding {
	if text, ok := n.external(ctx, OpUnderstanding, understandingRequest(query)); ok {
		return models.QueryUnderstanding{Summary: text}
	}
	return n.fallback.EnhanceQueryUnderstanding(ctx, query)
}

// GeneratePersonalizedExplanation describes the result set for the user.
func (n *Narrator) GeneratePersonalizedExplanation(ctx context.Context, recs []models.Recommendation, query string) string {
	if len(recs) == 0 {
		return noResultsExplanation
	}
	if text, ok := n.external(ctx, OpExplanation, explanationRequest(recs, query)); ok {
		return text
	}
	return n.fallback.GeneratePersonalizedExplanation(ctx, recs, query)
}

// GenerateComparativeAnalysis compares the results. Fewer than two results yield "".
func (n *Narrator) GenerateComparativeAnalysis(ctx context.Context, recs []models.Recommendation) string {
	if len(recs) < 2 {
		return ""
	}
	if text, ok := n.external(ctx, OpComparison, comparisonRequest(recs)); ok {
		return text
	}
	return n.fallback.GenerateComparativeAnalysis(ctx, recs)
}

// TestConnection makes a minimal external call. It returns false, without a
// call, once the narrator has been downgraded, and downgrades it on failure.
func (n *Narrator) TestConnection(ctx context.Context) bool {
	if !n.usable.Load() {
		return false
	}

	callCtx, cancel := n.callContext(ctx)
	defer cancel()

	_, err := n.llm.Complete(callCtx, connectionRequest())
	switch {
	case err == nil, errors.Is(err, ErrEmptyCompletion):
		return true
	case n.skipped(ctx, OpConnection, err):
		return false
	default:
		n.downgrade(OpConnection, err)
		return false
	}
}

// external returns the external text for req, or false when the fallback must be used.
func (n *Narrator) external(ctx context.Context, op string, req ChatRequest) (string, bool) {
	if !n.usable.Load() {
		metrics.NarrativeCalls.WithLabelValues(op, metrics.PathFallback).Inc()
		return "", false
	}

	key := cacheKey(op, req)
	if n.cache != nil {
		text, err := n.cache.Get(ctx, key)
		switch {
		case err == nil:
			metrics.NarrativeCacheLookups.WithLabelValues("hit").Inc()
			metrics.NarrativeCalls.WithLabelValues(op, metrics.PathCache).Inc()
			return text, true
		case errors.Is(err, ErrCacheMiss):
			metrics.NarrativeCacheLookups.WithLabelValues("miss").Inc()
		default:
			metrics.NarrativeCacheLookups.WithLabelValues("error").Inc()
			utils.Logger.Warn("Narrative cache read failed", zap.String("operation", op), zap.Error(err))
		}
	}

	callCtx, cancel := n.callContext(ctx)
	defer cancel()

	text, err := n.llm.Complete(callCtx, req)
	if err != nil {
		if !n.skipped(ctx, op, err) {
			n.downgrade(op, err)
		}
		metrics.NarrativeCalls.WithLabelValues(op, metrics.PathFallback).Inc()
		return "", false
	}

	if n.cache != nil {
		if err := n.cache.Set(ctx, key, text, n.cacheTTL); err != nil {
			utils.Logger.Warn("Narrative cache write failed", zap.String("operation", op), zap.Error(err))
		}
	}

	metrics.NarrativeCalls.WithLabelValues(op, metrics.PathExternal).Inc()
	return text, true
}

func (n *Narrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if n.timeout > 0 {
		return context.WithTimeout(ctx, n.timeout)
	}
	return context.WithCancel(ctx)
}

// skipped reports whether err came from this call's own circumstances rather
// than the service: the local request budget ran out, or the caller gave up.
// Such calls use the fallback once and leave the narrator usable.
func (n *Narrator) skipped(ctx context.Context, op string, err error) bool {
	if !errors.Is(err, ErrRateLimited) && ctx.Err() == nil {
		return false
	}
	utils.Logger.Debug("External narrative call skipped, using fallback for this call",
		zap.String("operation", op),
		zap.Error(err),
	)
	return true
}

// downgrade switches the narrator to the fallback for good.
func (n *Narrator) downgrade(op string, err error) {
	metrics.NarrativeFailures.WithLabelValues(op).Inc()
	utils.Logger.Warn("External narrative call failed, using fallback",
		zap.String("operation", op),
		zap.Error(err),
	)

	if n.usable.CompareAndSwap(true, false) {
		metrics.NarrativeExternalUsable.Set(0)
		utils.Logger.Warn("External narrative service disabled until restart")
	}
}
