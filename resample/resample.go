/*
Package resample implements a cluster (respondent level) bootstrap for
conjoint choice data.

Each resample draws respondent ids with replacement until it holds as many
clusters as the original data, carries every observation of each drawn
respondent, and refits the model through a caller supplied fit-and-predict
function.  Resamples are independent, so they may run concurrently; the
sub-seed of each resample is fixed by its index, making membership
bit-identical for a given base seed regardless of the concurrency degree.
*/
package resample

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/andrewheiss/golden-gorilla/conjoint"
)

// maxMessages is the number of underlying fit failure messages retained for
// error reporting.
const maxMessages = 5

// Error reports a bootstrap run in which too few resamples produced a fitted
// model, either because the majority of fits failed or because cancellation
// left fewer than half of the requested resamples completed.
type Error struct {

	// The number of resamples whose model fit failed.
	Failed int

	// The number of resamples that ran to a fit attempt.
	Attempted int

	// The number of resamples requested.
	Requested int

	// A sample of the underlying fit failure messages.
	Messages []string
}

func (e *Error) Error() string {
	s := fmt.Sprintf("resample: %d of %d attempted resamples failed (%d requested)",
		e.Failed, e.Attempted, e.Requested)
	if len(e.Messages) > 0 {
		s += "; sampled failures: " + strings.Join(e.Messages, "; ")
	}
	return s
}

// Ensemble is the outcome of a bootstrap run.
type Ensemble struct {

	// One probability vector per successful resample, aligned to the grid
	// rows and ordered by resample index.
	Probs [][]float64

	// The number of resamples whose fit failed.  Failures are counted,
	// never retried.
	Failed int

	// A sample of the fit failure messages, each tagged with its
	// resample index.
	FailureMessages []string

	// The fraction of requested resamples that ran to a fit attempt.
	// Below 1 only when the run was cancelled.
	Completed float64
}

// Bootstrap is a configurable cluster bootstrap.  Configure it with the
// chained setters, then call Run.
type Bootstrap struct {
	obs  []conjoint.Observation
	grid []conjoint.Alternative
	fit  conjoint.FitPredictFunc

	nrep int
	seed uint64
	conc int
	log  *slog.Logger
}

// NewBootstrap creates a bootstrap over the given observations.  fit is
// invoked once per resample with that resample's private observation copy
// and the prediction grid.
func NewBootstrap(obs []conjoint.Observation, grid []conjoint.Alternative, fit conjoint.FitPredictFunc) *Bootstrap {
	return &Bootstrap{
		obs:  obs,
		grid: grid,
		fit:  fit,
		nrep: 100,
		conc: 1,
	}
}

// Resamples sets the number of bootstrap resamples.
func (b *Bootstrap) Resamples(n int) *Bootstrap {
	b.nrep = n
	return b
}

// Seed sets the base seed.  Runs with the same seed and observations yield
// identical resample membership.
func (b *Bootstrap) Seed(seed uint64) *Bootstrap {
	b.seed = seed
	return b
}

// Concurrency sets the number of resamples fit in parallel.
func (b *Bootstrap) Concurrency(n int) *Bootstrap {
	if n < 1 {
		n = 1
	}
	b.conc = n
	return b
}

// Log sets a logger that receives per-resample failure reports.
func (b *Bootstrap) Log(l *slog.Logger) *Bootstrap {
	b.log = l
	return b
}

// subseed derives the fixed sub-seed of resample i from the base seed.
func (b *Bootstrap) subseed(i int) uint64 {
	return b.seed + 0x9e3779b97f4a7c15*uint64(i+1)
}

// resampleObs builds resample i: respondent ids drawn with replacement up to
// the original cluster count, each drawn id contributing its complete task
// set under a fresh synthetic respondent id so that a twice-drawn respondent
// appears as two independent clusters.
func (b *Bootstrap) resampleObs(i int, ids []string, byResp map[string][]conjoint.Observation) []conjoint.Observation {

	rng := rand.New(rand.NewSource(b.subseed(i)))

	var out []conjoint.Observation
	for k := 0; k < len(ids); k++ {
		id := ids[rng.Intn(len(ids))]
		synth := fmt.Sprintf("%s#%d", id, k)
		for _, o := range byResp[id] {
			o.Respondent = synth
			o.Alt = append(conjoint.Alternative(nil), o.Alt...)
			out = append(out, o)
		}
	}

	return out
}

// Run executes the bootstrap.  Fit failures are counted and logged, never
// retried.  Cancellation through ctx stops scheduling further resamples and
// returns the completed subset with its completion fraction.  Run returns a
// *Error when more than half of the attempted fits failed, or when
// cancellation left fewer than half of the requested resamples attempted.
func (b *Bootstrap) Run(ctx context.Context) (*Ensemble, error) {

	if b.nrep < 1 {
		return nil, &conjoint.ConfigError{Msg: fmt.Sprintf("requested %d resamples", b.nrep)}
	}
	if len(b.obs) == 0 {
		return nil, &conjoint.ConfigError{Msg: "no observations to resample"}
	}

	ids := conjoint.RespondentIDs(b.obs)
	byResp := conjoint.ByRespondent(b.obs)

	probs := make([][]float64, b.nrep)
	errs := make([]error, b.nrep)
	attempted := make([]bool, b.nrep)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.conc)

	for i := 0; i < b.nrep; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			attempted[i] = true
			ro := b.resampleObs(i, ids, byResp)
			pr, err := b.fit(ro, b.grid)
			if err != nil {
				errs[i] = err
				if b.log != nil {
					b.log.Warn("resample fit failed",
						slog.Int("resample", i), slog.Any("error", err))
				}
				return nil
			}
			if len(pr) != len(b.grid) {
				errs[i] = &conjoint.ConfigError{Msg: fmt.Sprintf(
					"resample %d: fit returned %d predictions for a %d row grid",
					i, len(pr), len(b.grid))}
				return nil
			}
			probs[i] = pr
			return nil
		})
	}

	// Worker funcs only return nil; Wait is used as a barrier.
	_ = g.Wait()

	ens := &Ensemble{}
	nattempt := 0
	for i := 0; i < b.nrep; i++ {
		if !attempted[i] {
			continue
		}
		nattempt++
		if errs[i] != nil {
			ens.Failed++
			if len(ens.FailureMessages) < maxMessages {
				ens.FailureMessages = append(ens.FailureMessages,
					fmt.Sprintf("resample %d: %v", i, errs[i]))
			}
			continue
		}
		ens.Probs = append(ens.Probs, probs[i])
	}
	ens.Completed = float64(nattempt) / float64(b.nrep)

	if b.log != nil {
		b.log.Info("bootstrap finished",
			slog.Int("requested", b.nrep),
			slog.Int("attempted", nattempt),
			slog.Int("failed", ens.Failed))
	}

	if 2*nattempt < b.nrep || 2*ens.Failed > nattempt {
		return nil, &Error{
			Failed:    ens.Failed,
			Attempted: nattempt,
			Requested: b.nrep,
			Messages:  ens.FailureMessages,
		}
	}

	return ens, nil
}

// Memberships returns, for each resample index, the original respondent ids
// drawn into that resample, in draw order.  It is a diagnostic surface: two
// runs with the same seed and observations return identical memberships.
func (b *Bootstrap) Memberships() [][]string {

	ids := conjoint.RespondentIDs(b.obs)

	out := make([][]string, b.nrep)
	for i := 0; i < b.nrep; i++ {
		rng := rand.New(rand.NewSource(b.subseed(i)))
		mem := make([]string, len(ids))
		for k := range mem {
			mem[k] = ids[rng.Intn(len(ids))]
		}
		out[i] = mem
	}

	return out
}
