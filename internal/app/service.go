// Package service provides the core business service that implements
// the dependencies required by the HTTP API: the full hybrid evaluation
// pipeline from observation to final verdict.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/somnolab/sleepq/internal/adapters/batch"
	"github.com/somnolab/sleepq/internal/adapters/classifier"
	"github.com/somnolab/sleepq/internal/domain/arbitrate"
	"github.com/somnolab/sleepq/internal/domain/model"
	"github.com/somnolab/sleepq/internal/domain/recommend"
	"github.com/somnolab/sleepq/internal/domain/score"
	"github.com/somnolab/sleepq/internal/domain/types"
	"github.com/somnolab/sleepq/pkg/logger"
	"github.com/somnolab/sleepq/pkg/metrics"
)

// Service owns the evaluation pipeline and the injected classifier. Each
// request is a stateless computation; the classifier is the only shared
// resource and is read-only after Start.
type Service struct {
	mu sync.RWMutex

	// Core components
	scorer      *score.Scorer
	policy      *arbitrate.Policy
	recommender *recommend.Generator
	pool        *batch.Pool
	model       classifier.Model

	// Configuration
	modelPath    string
	stressScale  score.Scale
	bands        score.Bands
	defaults     model.Defaults
	threshold    float64
	legacyRecs   bool
	batchWorkers int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithModelPath sets the classifier artifact path loaded at Start.
func WithModelPath(path string) Option {
	return func(s *Service) {
		s.modelPath = path
	}
}

// WithModel injects an already constructed classifier, bypassing artifact
// loading. Used by tests and embedded deployments.
func WithModel(m classifier.Model) Option {
	return func(s *Service) {
		s.model = m
	}
}

// WithStressScale declares which raw stress scale inbound observations use.
func WithStressScale(scale score.Scale) Option {
	return func(s *Service) {
		if scale.Valid() {
			s.stressScale = scale
		}
	}
}

// WithBands overrides the rule engine banding table.
func WithBands(b score.Bands) Option {
	return func(s *Service) {
		s.bands = b
	}
}

// WithDefaults sets the policy for absent optional fields.
func WithDefaults(d model.Defaults) Option {
	return func(s *Service) {
		s.defaults = d
	}
}

// WithConfidenceThreshold sets the arbitration confidence threshold in percent.
func WithConfidenceThreshold(pct float64) Option {
	return func(s *Service) {
		if pct >= 0 && pct <= 100 {
			s.threshold = pct
		}
	}
}

// WithLegacyRecommendations switches to failure-only advice emission.
func WithLegacyRecommendations(enabled bool) Option {
	return func(s *Service) {
		s.legacyRecs = enabled
	}
}

// WithBatchWorkers sets the number of concurrent batch evaluation workers.
func WithBatchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchWorkers = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		stressScale:  score.ScaleZeroToFour,
		bands:        score.DefaultBands(),
		defaults:     model.DefaultPolicy(),
		threshold:    arbitrate.DefaultThreshold,
		batchWorkers: runtime.NumCPU(),
		logger:       nil, // set at Start when absent
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the pipeline components and loads the classifier artifact.
// A missing or unreadable artifact leaves the service running but not
// ready: evaluation is refused with ErrModelUnavailable instead of
// silently degrading to rule-only results.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting evaluation service...")

	s.scorer = score.New(score.WithBands(s.bands))
	s.policy = arbitrate.New(arbitrate.WithThreshold(s.threshold))
	s.recommender = recommend.New(recommend.WithLegacyMode(s.legacyRecs))
	s.pool = batch.New(batch.WithWorkers(s.batchWorkers))

	if s.model == nil && s.modelPath != "" {
		m, err := classifier.Load(s.modelPath)
		if err != nil {
			s.logger.Error(ctx, "model artifact load failed; evaluation will be refused",
				logger.String("path", s.modelPath),
				logger.Error(err),
			)
			metrics.RecordErrorByComponent("classifier", "load_failed")
		} else {
			s.model = m
		}
	}
	metrics.UpdateModelLoaded(s.model != nil)

	s.started = true
	s.logger.Info(ctx, "evaluation service started",
		logger.String("stressScale", string(s.stressScale)),
		logger.Float64("confidenceThreshold", s.threshold),
		logger.Int("batchWorkers", s.batchWorkers),
		logger.Any("modelLoaded", s.model != nil),
	)

	return nil
}

// Stop shuts the service down. There is no shared mutable state to drain;
// the classifier is simply released.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	metrics.UpdateModelLoaded(false)
	s.logger.Info(context.Background(), "evaluation service stopped")
}

// Ready reports whether the classifier is loaded and evaluation is possible.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started && s.model != nil
}

// Evaluate runs the full pipeline for one observation: resolve defaults,
// normalize stress, band indicators, consult the classifier, arbitrate,
// and generate recommendations. The rule verdict and classifier verdict
// are computed independently from the same resolved observation.
func (s *Service) Evaluate(ctx context.Context, o model.Observation) (types.Result, error) {
	start := time.Now()

	s.mu.RLock()
	m := s.model
	started := s.started
	s.mu.RUnlock()

	if !started || m == nil {
		metrics.RecordErrorByComponent("service", "model_unavailable")
		return types.Result{}, fmt.Errorf("evaluate: %w", classifier.ErrModelUnavailable)
	}

	resolved := model.Resolve(o, s.defaults)

	canonical, err := score.NormalizeStress(resolved.StressLevel, s.stressScale)
	if err != nil {
		metrics.RecordEvaluationError()
		metrics.RecordErrorByComponent("score", "invalid_stress")
		return types.Result{}, fmt.Errorf("evaluate: %w", err)
	}
	resolved.StressLevel = canonical

	ruleStart := time.Now()
	indicators, rule, err := s.scorer.Score(resolved)
	metrics.RecordRuleScoringLatency(float64(time.Since(ruleStart).Milliseconds()))
	if err != nil {
		metrics.RecordEvaluationError()
		metrics.RecordErrorByComponent("score", "invalid_input")
		return types.Result{}, fmt.Errorf("evaluate: %w", err)
	}

	ml := s.classify(ctx, m, resolved)
	decision := s.policy.Decide(rule, ml)

	switch decision.Source {
	case arbitrate.SourceRuleVeto:
		metrics.RecordRuleVeto()
	case arbitrate.SourceRuleFallback:
		metrics.RecordClassifierFallback()
	}
	metrics.RecordEvaluation(string(decision.Category), string(decision.Source))
	metrics.RecordEvaluationLatency(float64(time.Since(start).Milliseconds()))

	result := types.Result{
		Prediction:         string(decision.Category),
		Confidence:         decision.Confidence,
		Score:              decision.Score,
		RuleBased:          string(decision.RuleBased),
		MLBased:            decision.MLBased,
		ClassProbabilities: ml.Probabilities,
		Recommendations:    s.recommender.For(indicators),
	}
	if diag, ok := m.(classifier.Diagnosable); ok {
		if names, importances, ok := diag.FeatureImportances(); ok {
			byFeature := make(map[string]float64, len(names))
			for i, name := range names {
				byFeature[name] = importances[i]
			}
			result.Explanation = map[string]any{"feature_importances": byFeature}
		}
	}
	return result, nil
}

// classify runs the classifier on the resolved observation. Probability
// failures are recovered locally: the verdict simply reports no confidence
// and arbitration falls back to the rule result.
func (s *Service) classify(ctx context.Context, m classifier.Model, resolved model.Resolved) arbitrate.MLVerdict {
	start := time.Now()
	defer func() {
		metrics.RecordClassifierLatency(float64(time.Since(start).Milliseconds()))
	}()

	verdict := arbitrate.MLVerdict{}

	label, err := m.Predict(resolved)
	if err != nil {
		s.logger.Warn(ctx, "classifier predict failed; treating as low confidence", logger.Error(err))
		metrics.RecordErrorByComponent("classifier", "predict_failed")
		return verdict
	}
	verdict.Label = label

	probs, err := m.PredictProba(resolved)
	if err != nil {
		if !errors.Is(err, classifier.ErrNoProbabilities) {
			s.logger.Warn(ctx, "classifier probabilities failed", logger.Error(err))
		}
		metrics.RecordErrorByComponent("classifier", "proba_unavailable")
		return verdict
	}

	verdict.Probabilities = probs
	for _, p := range probs {
		if p > verdict.Confidence {
			verdict.Confidence = p
		}
	}
	verdict.HasConfidence = true
	return verdict
}

// EvaluateBatch evaluates rows as independent applications of the same
// pipeline. Output row i always corresponds to input row i; evaluation
// order carries no meaning.
func (s *Service) EvaluateBatch(ctx context.Context, rows []model.Observation) ([]types.BatchRow, error) {
	if !s.Ready() {
		metrics.RecordErrorByComponent("service", "model_unavailable")
		return nil, fmt.Errorf("evaluate batch: %w", classifier.ErrModelUnavailable)
	}

	evaluated := s.pool.Run(ctx, rows, s.Evaluate)

	out := make([]types.BatchRow, len(evaluated))
	var rowErrors int
	for i, row := range evaluated {
		out[i] = types.BatchRow{Index: row.Index}
		if row.Err != nil {
			rowErrors++
			out[i].Error = row.Err.Error()
			continue
		}
		res := row.Result
		out[i].Result = &res
	}
	metrics.RecordBatch(len(rows), rowErrors)
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":             s.started,
		"modelLoaded":         s.model != nil,
		"stressScale":         string(s.stressScale),
		"confidenceThreshold": s.threshold,
		"batchWorkers":        s.batchWorkers,
		"legacyRecs":          s.legacyRecs,
	}
	if s.model != nil {
		stats["classes"] = s.model.Classes()
	}
	return stats
}
