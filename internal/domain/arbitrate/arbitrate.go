// Package arbitrate reconciles the rule verdict with the classifier verdict
// into one final decision. The policy is a fixed-order procedure: rule veto,
// low-confidence fallback, classifier pass-through.
package arbitrate

import (
	"github.com/somnolab/sleepq/internal/domain/score"
	"github.com/somnolab/sleepq/internal/domain/types"
)

// DefaultThreshold is the classifier confidence (percent) below which the
// deterministic rule result wins.
const DefaultThreshold = 70.0

// fullConfidence is reported for rule-derived outcomes: the rule engine is
// deterministic, not probabilistic.
const fullConfidence = 100.0

// MLVerdict is the classifier output as seen by the policy. HasConfidence
// is false when probability output was unavailable; the policy then treats
// confidence as below any threshold.
type MLVerdict struct {
	Label         string
	Confidence    float64 // percent, max class probability
	Probabilities map[string]float64
	HasConfidence bool
}

// Source identifies which policy rule produced the final decision.
type Source string

// Decision sources, in rule order.
const (
	SourceRuleVeto     Source = "rule_veto"
	SourceRuleFallback Source = "rule_fallback"
	SourceClassifier   Source = "classifier"
)

// Decision is the final reconciled outcome. RuleBased, MLBased and Score
// are always populated for transparency regardless of which side won.
type Decision struct {
	Category   types.Category
	Confidence float64 // percent
	RuleBased  types.Category
	MLBased    string
	Score      float64
	Source     Source
}

// Option applies a configuration option to the Policy.
type Option func(*Policy)

// WithThreshold sets the classifier confidence threshold in percent.
func WithThreshold(pct float64) Option {
	return func(p *Policy) {
		if pct >= 0 && pct <= 100 {
			p.threshold = pct
		}
	}
}

// Policy applies the fixed-order reconciliation rules.
type Policy struct {
	threshold float64
}

// New creates a Policy with the default confidence threshold unless
// overridden.
func New(opts ...Option) *Policy {
	p := &Policy{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Threshold returns the active confidence threshold in percent.
func (p *Policy) Threshold() float64 {
	return p.threshold
}

// Decide evaluates the rules in strict order:
//  1. a rule-detected Poor is absolute and reports full confidence;
//  2. an undefined or sub-threshold classifier confidence falls back to the
//     rule category at full confidence;
//  3. otherwise the classifier label wins at its own confidence.
func (p *Policy) Decide(rule score.Verdict, ml MLVerdict) Decision {
	d := Decision{
		RuleBased: rule.Category,
		MLBased:   ml.Label,
		Score:     rule.Score,
	}
	switch {
	case rule.Category == types.Poor:
		d.Category = types.Poor
		d.Confidence = fullConfidence
		d.Source = SourceRuleVeto
	case !ml.HasConfidence || ml.Confidence < p.threshold:
		d.Category = rule.Category
		d.Confidence = fullConfidence
		d.Source = SourceRuleFallback
	default:
		d.Category = types.Category(ml.Label)
		d.Confidence = ml.Confidence
		d.Source = SourceClassifier
	}
	return d
}
