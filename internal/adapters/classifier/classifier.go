// Package classifier wraps the externally trained model behind a
// predict/predict-proba contract. The engine treats the model as an opaque
// oracle: it is loaded once at startup, read-only afterwards, and never
// observes the rule engine's output.
package classifier

import (
	"fmt"

	"github.com/somnolab/sleepq/internal/domain/model"
)

// percent converts a probability to a percentage.
const percent = 100.0

// Model exposes the trained classifier to the engine.
type Model interface {
	// Predict returns the most likely class label for the observation.
	Predict(o model.Resolved) (string, error)

	// PredictProba returns per-label probabilities as percentages summing
	// to 100. Fails with ErrNoProbabilities when the artifact carries no
	// leaf counts.
	PredictProba(o model.Resolved) (map[string]float64, error)

	// Classes returns the fixed class label ordering.
	Classes() []string
}

// Diagnosable is an optional capability: feature importances pulled from
// model internals, exposed for debugging only.
type Diagnosable interface {
	FeatureImportances() (names []string, importances []float64, ok bool)
}

// TreeModel evaluates a decision-tree artifact. It owns the model-specific
// feature encoding; the rest of the engine never inspects it. Read-only
// after construction and safe for concurrent use.
type TreeModel struct {
	art          *Artifact
	featureNames []string
}

// Load reads an artifact from path and builds a TreeModel from it.
func Load(path string) (*TreeModel, error) {
	art, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	return NewTreeModel(art)
}

// NewTreeModel builds a TreeModel from an already validated artifact,
// rejecting feature names the encoder does not know.
func NewTreeModel(art *Artifact) (*TreeModel, error) {
	for _, name := range art.NumericFeatures {
		if _, err := numericValue(model.Resolved{}, name); err != nil {
			return nil, err
		}
	}
	for _, cf := range art.CategoricalFeatures {
		if _, err := categoricalValue(model.Resolved{}, cf.Name); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, art.featureWidth())
	names = append(names, art.NumericFeatures...)
	for _, cf := range art.CategoricalFeatures {
		for _, cat := range cf.Categories {
			names = append(names, cf.Name+"="+cat)
		}
	}
	return &TreeModel{art: art, featureNames: names}, nil
}

// Classes returns the fixed class label ordering from the artifact.
func (m *TreeModel) Classes() []string {
	return m.art.Classes
}

// Predict returns the label of the leaf the observation lands in.
func (m *TreeModel) Predict(o model.Resolved) (string, error) {
	leaf := m.leaf(m.encode(o))
	return m.art.Classes[leaf.Class], nil
}

// PredictProba returns per-label probabilities as percentages derived from
// the leaf's per-class sample counts.
func (m *TreeModel) PredictProba(o model.Resolved) (map[string]float64, error) {
	leaf := m.leaf(m.encode(o))
	if len(leaf.Value) == 0 {
		return nil, ErrNoProbabilities
	}
	var total float64
	for _, c := range leaf.Value {
		total += c
	}
	if total <= 0 {
		return nil, ErrNoProbabilities
	}
	probs := make(map[string]float64, len(m.art.Classes))
	for i, label := range m.art.Classes {
		probs[label] = leaf.Value[i] / total * percent
	}
	return probs, nil
}

// FeatureImportances returns encoded feature names with their importances
// when the artifact carries them.
func (m *TreeModel) FeatureImportances() ([]string, []float64, bool) {
	if len(m.art.FeatureImportances) == 0 {
		return nil, nil, false
	}
	return m.featureNames, m.art.FeatureImportances, true
}

// encode maps the observation onto the artifact's feature vector:
// standardized numerics first, then one-hot categorical blocks. An unknown
// category encodes as an all-zero block rather than failing.
func (m *TreeModel) encode(o model.Resolved) []float64 {
	x := make([]float64, 0, m.art.featureWidth())
	for i, name := range m.art.NumericFeatures {
		v, _ := numericValue(o, name) // names verified at construction
		x = append(x, (v-m.art.Scaler.Mean[i])/m.art.Scaler.Scale[i])
	}
	for _, cf := range m.art.CategoricalFeatures {
		v, _ := categoricalValue(o, cf.Name)
		for _, cat := range cf.Categories {
			if v == cat {
				x = append(x, 1)
			} else {
				x = append(x, 0)
			}
		}
	}
	return x
}

// leaf walks the tree from the root to the leaf x falls into.
func (m *TreeModel) leaf(x []float64) Node {
	n := m.art.Tree.Nodes[0]
	for !n.Leaf() {
		if x[n.Feature] <= n.Threshold {
			n = m.art.Tree.Nodes[n.Left]
		} else {
			n = m.art.Tree.Nodes[n.Right]
		}
	}
	return n
}

func numericValue(o model.Resolved, name string) (float64, error) {
	switch name {
	case "age":
		return float64(o.Age), nil
	case "daily_steps":
		return o.DailySteps, nil
	case "physical_activity_minutes":
		return o.PhysicalActivityMinutes, nil
	case "sleep_duration":
		return o.SleepDuration, nil
	case "stress_level":
		return o.StressLevel, nil
	case "screen_time_minutes":
		return o.ScreenTimeMinutes, nil
	default:
		return 0, fmt.Errorf("%w: unknown numeric feature %q", ErrBadArtifact, name)
	}
}

func categoricalValue(o model.Resolved, name string) (string, error) {
	switch name {
	case "gender":
		return o.Gender, nil
	case "bmi_category":
		return o.BMICategory, nil
	default:
		return "", fmt.Errorf("%w: unknown categorical feature %q", ErrBadArtifact, name)
	}
}
