package classifier

import (
	"encoding/json"
	"fmt"
	"os"
)

// Artifact is the JSON export of the externally trained decision-tree
// pipeline: feature list, preprocessing parameters, and tree structure.
// The training side owns its production; this side only reads it.
type Artifact struct {
	FormatVersion       int                  `json:"format_version"`
	Classes             []string             `json:"classes"`
	NumericFeatures     []string             `json:"numeric_features"`
	CategoricalFeatures []CategoricalFeature `json:"categorical_features"`
	Scaler              Scaler               `json:"scaler"`
	Tree                Tree                 `json:"tree"`
	// FeatureImportances is optional diagnostic data aligned to the encoded
	// feature vector. Never required for correctness.
	FeatureImportances []float64 `json:"feature_importances,omitempty"`
}

// CategoricalFeature describes one one-hot encoded input column. Category
// order fixes the encoded block layout.
type CategoricalFeature struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Scaler holds standardization parameters aligned to NumericFeatures.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Tree is a flat node array; index 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is one decision-tree node. Feature < 0 marks a leaf. Value carries
// per-class sample counts and may be absent, in which case the model cannot
// report probabilities.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Class     int       `json:"class"`
	Value     []float64 `json:"value,omitempty"`
}

// Leaf reports whether the node is a leaf.
func (n Node) Leaf() bool {
	return n.Feature < 0
}

// LoadArtifact reads and validates a model artifact from path.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w: %v", path, ErrBadArtifact, err)
	}
	if err := art.validate(); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	return &art, nil
}

// featureWidth returns the length of the encoded feature vector.
func (a *Artifact) featureWidth() int {
	w := len(a.NumericFeatures)
	for _, cf := range a.CategoricalFeatures {
		w += len(cf.Categories)
	}
	return w
}

func (a *Artifact) validate() error {
	if len(a.Classes) < 2 {
		return fmt.Errorf("%w: need at least two classes, got %d", ErrBadArtifact, len(a.Classes))
	}
	if len(a.Scaler.Mean) != len(a.NumericFeatures) || len(a.Scaler.Scale) != len(a.NumericFeatures) {
		return fmt.Errorf("%w: scaler parameters misaligned with numeric features", ErrBadArtifact)
	}
	for i, s := range a.Scaler.Scale {
		if s == 0 {
			return fmt.Errorf("%w: zero scale for feature %s", ErrBadArtifact, a.NumericFeatures[i])
		}
	}
	if len(a.Tree.Nodes) == 0 {
		return fmt.Errorf("%w: empty tree", ErrBadArtifact)
	}
	width := a.featureWidth()
	for i, n := range a.Tree.Nodes {
		if n.Leaf() {
			if n.Class < 0 || n.Class >= len(a.Classes) {
				return fmt.Errorf("%w: node %d class index %d out of range", ErrBadArtifact, i, n.Class)
			}
			if len(n.Value) != 0 && len(n.Value) != len(a.Classes) {
				return fmt.Errorf("%w: node %d value length %d does not match class count", ErrBadArtifact, i, len(n.Value))
			}
			continue
		}
		if n.Feature >= width {
			return fmt.Errorf("%w: node %d feature index %d out of range", ErrBadArtifact, i, n.Feature)
		}
		if n.Left < 0 || n.Left >= len(a.Tree.Nodes) || n.Right < 0 || n.Right >= len(a.Tree.Nodes) {
			return fmt.Errorf("%w: node %d child index out of range", ErrBadArtifact, i)
		}
		// The flat export lists children after their parent. A child index
		// at or before the parent forms a cycle and traversal never ends.
		if n.Left <= i || n.Right <= i {
			return fmt.Errorf("%w: node %d child index does not advance", ErrBadArtifact, i)
		}
	}
	if len(a.FeatureImportances) != 0 && len(a.FeatureImportances) != width {
		return fmt.Errorf("%w: feature importances misaligned with encoded features", ErrBadArtifact)
	}
	return nil
}
