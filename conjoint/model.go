package conjoint

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// ProbModel produces predicted choice probabilities for the rows of a
// balanced grid.  The three implementations cover the three ways a fitted
// model reaches this package: an analytic coefficient vector (PointModel), an
// ensemble of coefficient draws (EnsembleModel), and a fit-and-predict
// callable used by the bootstrap (FitPredictFunc, via a fixed dataset).
type ProbModel interface {
	Probs(grid []Alternative) ([]float64, error)
}

// PointModel holds a fitted linear probability model: an intercept, one
// coefficient per coded (non-reference) attribute level, and optionally the
// sampling variance/covariance matrix of the coefficients, vectorized to one
// dimension.
type PointModel struct {
	coding    *Coding
	intercept float64
	params    []float64
	vcov      []float64
}

// NewPointModel creates a PointModel for the given design.  params must have
// one entry per coded column of the design, and vcov, when present, must be
// the flattened p x p covariance matrix of params.
func NewPointModel(d *Design, intercept float64, params, vcov []float64) (*PointModel, error) {

	coding := NewCoding(d)
	p := coding.NumParams()

	if len(params) != p {
		return nil, &ConfigError{Msg: fmt.Sprintf(
			"model has %d coefficients, design codes %d columns", len(params), p)}
	}
	if vcov != nil && len(vcov) != p*p {
		return nil, &ConfigError{Msg: fmt.Sprintf(
			"vcov has %d elements, expected %d", len(vcov), p*p)}
	}

	return &PointModel{
		coding:    coding,
		intercept: intercept,
		params:    params,
		vcov:      vcov,
	}, nil
}

// Coding returns the dummy coding shared by the model and its design.
func (m *PointModel) Coding() *Coding {
	return m.coding
}

// Params returns the model coefficients.
func (m *PointModel) Params() []float64 {
	return m.params
}

// Probs returns the predicted choice probability for every grid row: the
// linear predictor of the dummy-coded row.  Values are returned as the model
// produces them, without clamping.
func (m *PointModel) Probs(grid []Alternative) ([]float64, error) {
	return linpred(m.coding, m.intercept, m.params, grid), nil
}

// Sample simulates n coefficient vectors from the normal sampling
// distribution N(params, vcov) and returns them as an EnsembleModel, so that
// percentile intervals can be attached to estimands from an analytic fit.
// The model must carry a positive definite covariance matrix.
func (m *PointModel) Sample(n int, src rand.Source) (*EnsembleModel, error) {

	if m.vcov == nil {
		return nil, &ConfigError{Msg: "model has no covariance matrix to sample from"}
	}
	if n < 2 {
		return nil, &ConfigError{Msg: fmt.Sprintf("need at least 2 draws, got %d", n)}
	}

	p := m.coding.NumParams()
	sigma := mat.NewSymDense(p, m.vcov)
	dist, ok := distmv.NewNormal(m.params, sigma, src)
	if !ok {
		return nil, &ConfigError{Msg: "covariance matrix is not positive definite"}
	}

	draws := make([][]float64, n)
	for i := range draws {
		draws[i] = dist.Rand(nil)
	}

	return &EnsembleModel{
		coding:    m.coding,
		intercept: m.intercept,
		draws:     draws,
	}, nil
}

// EnsembleModel holds an ensemble of coefficient vectors, one per posterior
// or simulation draw, sharing a single intercept.
type EnsembleModel struct {
	coding    *Coding
	intercept float64
	draws     [][]float64
}

// NewEnsembleModel creates an EnsembleModel for the given design from
// coefficient draws.  Every draw must have one entry per coded column.
func NewEnsembleModel(d *Design, intercept float64, draws [][]float64) (*EnsembleModel, error) {

	coding := NewCoding(d)
	p := coding.NumParams()

	if len(draws) < 2 {
		return nil, &ConfigError{Msg: fmt.Sprintf(
			"ensemble has %d draws, need at least 2", len(draws))}
	}
	for i, dr := range draws {
		if len(dr) != p {
			return nil, &ConfigError{Msg: fmt.Sprintf(
				"draw %d has %d coefficients, design codes %d columns", i, len(dr), p)}
		}
	}

	return &EnsembleModel{coding: coding, intercept: intercept, draws: draws}, nil
}

// NumDraws returns the number of draws in the ensemble.
func (m *EnsembleModel) NumDraws() int {
	return len(m.draws)
}

// ProbDraws returns one probability vector per draw, each aligned to the
// grid rows.  The result feeds MarginalMeansEnsemble and AMCEEnsemble.
func (m *EnsembleModel) ProbDraws(grid []Alternative) ([][]float64, error) {

	pr := make([][]float64, len(m.draws))
	for i, dr := range m.draws {
		pr[i] = linpred(m.coding, m.intercept, dr, grid)
	}

	return pr, nil
}

// Probs returns the ensemble-mean probability for every grid row.
func (m *EnsembleModel) Probs(grid []Alternative) ([]float64, error) {

	pr := make([]float64, len(grid))
	for _, dr := range m.draws {
		v := linpred(m.coding, m.intercept, dr, grid)
		for i := range pr {
			pr[i] += v[i]
		}
	}
	for i := range pr {
		pr[i] /= float64(len(m.draws))
	}

	return pr, nil
}

// FitPredictFunc refits a model on a set of observations and predicts a
// probability for every row of the grid.  It is the collaborator invoked
// once per bootstrap resample.
type FitPredictFunc func(obs []Observation, grid []Alternative) ([]float64, error)

func linpred(c *Coding, intercept float64, params []float64, grid []Alternative) []float64 {

	x := make([]float64, c.NumParams())
	fv := make([]float64, len(grid))
	for i, alt := range grid {
		c.Row(alt, x)
		v := intercept
		for j := range x {
			v += params[j] * x[j]
		}
		fv[i] = v
	}

	return fv
}
