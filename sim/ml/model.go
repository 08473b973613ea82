// Package ml implements the learned flare-index pipeline: synthetic
// dataset generation, a gradient-boosted regression tree learner, and
// schema-checked single and batch prediction.
package ml

import (
	"fmt"
	"math/rand"
)

// Model is a trained flare-index regressor. It is immutable after
// Train and safe to share across any number of concurrent Predict
// calls. It satisfies sim.Predictor.
type Model struct {
	schema []string
	ens    *ensemble
}

// Train fits a gradient-boosted regression tree ensemble on the given
// records. Training consumes rng (for row subsampling) and must finish
// before any Predict call; the returned model is never mutated again.
func Train(records []Record, opts BoostOptions, rng *rand.Rand) (*Model, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("training requires at least one record")
	}
	if opts.Rounds <= 0 || opts.LearningRate <= 0 || opts.MaxDepth <= 0 || opts.MinLeaf <= 0 {
		return nil, fmt.Errorf("invalid boost options: %+v", opts)
	}

	xs := make([][]float64, len(records))
	ys := make([]float64, len(records))
	for i := range records {
		xs[i] = records[i].Features[:]
		ys[i] = records[i].Label
	}

	return &Model{
		schema: FeatureNames(),
		ens:    fitEnsemble(xs, ys, opts, rng),
	}, nil
}

// FeatureNames returns a copy of the training-time schema.
func (m *Model) FeatureNames() []string {
	return append([]string(nil), m.schema...)
}

// Predict scores one feature vector given in schema order. The vector
// must have exactly the training-time dimensionality; anything else is
// a schema mismatch, never a silent misalignment.
func (m *Model) Predict(features []float64) (float64, error) {
	if len(features) != len(m.schema) {
		return 0, &SchemaMismatchError{
			Required: m.FeatureNames(),
			Missing:  m.schema[min(len(features), len(m.schema)):],
		}
	}
	return m.ens.predict(features), nil
}

// PredictBatch scores every row of an externally supplied table. The
// frame must contain all required feature columns; columns are matched
// by name, not position, and extra columns are ignored. On any error no
// partial predictions are returned.
func (m *Model) PredictBatch(f *Frame) ([]float64, error) {
	var missing []string
	for _, name := range m.schema {
		if _, ok := f.ColumnIndex(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaMismatchError{Required: m.FeatureNames(), Missing: missing}
	}

	columns := make([][]float64, len(m.schema))
	for j, name := range m.schema {
		col, err := f.FloatColumn(name)
		if err != nil {
			return nil, err
		}
		columns[j] = col
	}

	preds := make([]float64, len(f.Rows))
	row := make([]float64, len(m.schema))
	for i := range f.Rows {
		for j := range columns {
			row[j] = columns[j][i]
		}
		preds[i] = m.ens.predict(row)
	}
	return preds, nil
}
