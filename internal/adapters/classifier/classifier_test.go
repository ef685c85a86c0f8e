package classifier_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/somnolab/sleepq/internal/adapters/classifier"
	"github.com/somnolab/sleepq/internal/domain/model"
)

// testArtifact builds a tiny stump over standardized sleep_duration plus a
// one-hot gender block: sleep below the mean lands in a Poor-leaning leaf,
// at/above the mean in a Good-leaning leaf.
func testArtifact() *classifier.Artifact {
	return &classifier.Artifact{
		FormatVersion:   1,
		Classes:         []string{"Poor", "Average", "Good"},
		NumericFeatures: []string{"sleep_duration", "stress_level"},
		CategoricalFeatures: []classifier.CategoricalFeature{
			{Name: "gender", Categories: []string{"Female", "Male"}},
		},
		Scaler: classifier.Scaler{
			Mean:  []float64{7, 2},
			Scale: []float64{1, 1},
		},
		Tree: classifier.Tree{Nodes: []classifier.Node{
			{Feature: 0, Threshold: 0, Left: 1, Right: 2},
			{Feature: -1, Class: 0, Value: []float64{80, 15, 5}},
			{Feature: -1, Class: 2, Value: []float64{5, 10, 85}},
		}},
	}
}

func observation(sleep float64) model.Resolved {
	return model.Resolved{
		SleepDuration: sleep,
		StressLevel:   2,
		Gender:        "Female",
		BMICategory:   "Normal",
	}
}

func TestTreeModel_Predict(t *testing.T) {
	Convey("Given a tree model over a sleep stump", t, func() {
		m, err := classifier.NewTreeModel(testArtifact())
		So(err, ShouldBeNil)

		Convey("When sleep is at the scaler mean", func() {
			label, err := m.Predict(observation(7))

			Convey("Then the boundary goes left into the Poor leaf", func() {
				So(err, ShouldBeNil)
				So(label, ShouldEqual, "Poor")
			})
		})

		Convey("When sleep is above the mean", func() {
			label, err := m.Predict(observation(7.5))
			So(err, ShouldBeNil)
			So(label, ShouldEqual, "Good")
		})

		Convey("When sleep is below the mean", func() {
			label, err := m.Predict(observation(5))
			So(err, ShouldBeNil)
			So(label, ShouldEqual, "Poor")
		})

		Convey("Then class ordering comes from the artifact", func() {
			So(m.Classes(), ShouldResemble, []string{"Poor", "Average", "Good"})
		})
	})
}

func TestTreeModel_PredictProba(t *testing.T) {
	Convey("Given a tree model with leaf sample counts", t, func() {
		m, err := classifier.NewTreeModel(testArtifact())
		So(err, ShouldBeNil)

		Convey("When predicting probabilities", func() {
			probs, err := m.PredictProba(observation(7.5))

			Convey("Then counts normalize to percentages summing to 100", func() {
				So(err, ShouldBeNil)
				So(probs["Good"], ShouldEqual, 85.0)
				So(probs["Average"], ShouldEqual, 10.0)
				So(probs["Poor"], ShouldEqual, 5.0)
			})
		})
	})

	Convey("Given an artifact whose leaves carry no counts", t, func() {
		art := testArtifact()
		art.Tree.Nodes[1].Value = nil
		art.Tree.Nodes[2].Value = nil
		m, err := classifier.NewTreeModel(art)
		So(err, ShouldBeNil)

		Convey("When predicting probabilities", func() {
			_, err := m.PredictProba(observation(7.5))

			Convey("Then it fails with the probability sentinel", func() {
				So(err, ShouldEqual, classifier.ErrNoProbabilities)
			})

			Convey("And the plain label is still available", func() {
				label, err := m.Predict(observation(7.5))
				So(err, ShouldBeNil)
				So(label, ShouldEqual, "Good")
			})
		})
	})
}

func TestTreeModel_UnknownCategory(t *testing.T) {
	Convey("Given a tree model splitting on a one-hot gender column", t, func() {
		art := testArtifact()
		// Root splits on gender=Female instead of sleep.
		art.Tree.Nodes[0] = classifier.Node{Feature: 2, Threshold: 0.5, Left: 1, Right: 2}
		m, err := classifier.NewTreeModel(art)
		So(err, ShouldBeNil)

		Convey("When the observation carries an unseen category", func() {
			o := observation(7)
			o.Gender = "Nonbinary"
			label, err := m.Predict(o)

			Convey("Then the block encodes all-zero and prediction proceeds", func() {
				So(err, ShouldBeNil)
				So(label, ShouldEqual, "Poor")
			})
		})

		Convey("When the observation carries a known category", func() {
			o := observation(7)
			o.Gender = "Female"
			label, err := m.Predict(o)
			So(err, ShouldBeNil)
			So(label, ShouldEqual, "Good")
		})
	})
}

func TestTreeModel_FeatureImportances(t *testing.T) {
	Convey("Given an artifact with importances", t, func() {
		art := testArtifact()
		art.FeatureImportances = []float64{0.7, 0.2, 0.05, 0.05}
		m, err := classifier.NewTreeModel(art)
		So(err, ShouldBeNil)

		Convey("When reading importances", func() {
			names, importances, ok := m.FeatureImportances()

			Convey("Then names align with the encoded feature vector", func() {
				So(ok, ShouldBeTrue)
				So(names, ShouldResemble, []string{
					"sleep_duration", "stress_level", "gender=Female", "gender=Male",
				})
				So(importances, ShouldResemble, []float64{0.7, 0.2, 0.05, 0.05})
			})
		})
	})

	Convey("Given an artifact without importances", t, func() {
		m, err := classifier.NewTreeModel(testArtifact())
		So(err, ShouldBeNil)

		_, _, ok := m.FeatureImportances()
		So(ok, ShouldBeFalse)
	})
}

func TestNewTreeModel_UnknownFeatures(t *testing.T) {
	Convey("Given an artifact naming a feature the encoder does not know", t, func() {
		art := testArtifact()
		art.NumericFeatures = []string{"sleep_duration", "heart_rate"}

		Convey("Then construction is rejected", func() {
			_, err := classifier.NewTreeModel(art)
			So(err, ShouldWrap, classifier.ErrBadArtifact)
		})
	})
}

func TestLoadArtifact(t *testing.T) {
	Convey("Given an artifact file on disk", t, func() {
		dir := t.TempDir()

		write := func(name string, art *classifier.Artifact) string {
			path := filepath.Join(dir, name)
			data, err := json.Marshal(art)
			So(err, ShouldBeNil)
			So(os.WriteFile(path, data, 0o600), ShouldBeNil)
			return path
		}

		Convey("When the artifact is well formed", func() {
			path := write("good.json", testArtifact())
			m, err := classifier.Load(path)

			Convey("Then the model loads and predicts", func() {
				So(err, ShouldBeNil)
				label, err := m.Predict(observation(7.5))
				So(err, ShouldBeNil)
				So(label, ShouldEqual, "Good")
			})
		})

		Convey("When the file does not exist", func() {
			_, err := classifier.Load(filepath.Join(dir, "missing.json"))
			So(err, ShouldNotBeNil)
		})

		Convey("When the file is not JSON", func() {
			path := filepath.Join(dir, "garbage.json")
			So(os.WriteFile(path, []byte("not json"), 0o600), ShouldBeNil)
			_, err := classifier.Load(path)
			So(err, ShouldWrap, classifier.ErrBadArtifact)
		})

		Convey("When the scaler is misaligned", func() {
			art := testArtifact()
			art.Scaler.Mean = []float64{7}
			path := write("scaler.json", art)
			_, err := classifier.Load(path)
			So(err, ShouldWrap, classifier.ErrBadArtifact)
		})

		Convey("When a scale parameter is zero", func() {
			art := testArtifact()
			art.Scaler.Scale = []float64{1, 0}
			path := write("zeroscale.json", art)
			_, err := classifier.Load(path)
			So(err, ShouldWrap, classifier.ErrBadArtifact)
		})

		Convey("When the tree is empty", func() {
			art := testArtifact()
			art.Tree.Nodes = nil
			path := write("empty.json", art)
			_, err := classifier.Load(path)
			So(err, ShouldWrap, classifier.ErrBadArtifact)
		})

		Convey("When a split references a feature out of range", func() {
			art := testArtifact()
			art.Tree.Nodes[0].Feature = 9
			path := write("feature.json", art)
			_, err := classifier.Load(path)
			So(err, ShouldWrap, classifier.ErrBadArtifact)
		})

		Convey("When a node references itself", func() {
			art := testArtifact()
			art.Tree.Nodes[0].Left = 0
			path := write("self.json", art)
			_, err := classifier.Load(path)
			So(err, ShouldWrap, classifier.ErrBadArtifact)
		})

		Convey("When two splits reference each other", func() {
			// 0 -> 1 -> 0 never reaches a leaf; traversal must not be
			// allowed to loop on it.
			art := testArtifact()
			art.Tree.Nodes = []classifier.Node{
				{Feature: 0, Threshold: 0, Left: 1, Right: 2},
				{Feature: 1, Threshold: 0, Left: 0, Right: 2},
				{Feature: -1, Class: 2, Value: []float64{5, 10, 85}},
			}
			path := write("cycle.json", art)
			_, err := classifier.Load(path)
			So(err, ShouldWrap, classifier.ErrBadArtifact)
		})

		Convey("When a leaf class index is out of range", func() {
			art := testArtifact()
			art.Tree.Nodes[1].Class = 5
			path := write("class.json", art)
			_, err := classifier.Load(path)
			So(err, ShouldWrap, classifier.ErrBadArtifact)
		})

		Convey("When leaf counts do not match the class count", func() {
			art := testArtifact()
			art.Tree.Nodes[1].Value = []float64{1, 2}
			path := write("counts.json", art)
			_, err := classifier.Load(path)
			So(err, ShouldWrap, classifier.ErrBadArtifact)
		})

		Convey("When fewer than two classes are declared", func() {
			art := testArtifact()
			art.Classes = []string{"Good"}
			path := write("classes.json", art)
			_, err := classifier.Load(path)
			So(err, ShouldWrap, classifier.ErrBadArtifact)
		})
	})
}
