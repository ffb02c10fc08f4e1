package conjoint

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestMarginalMeansBalanced(t *testing.T) {

	d := barDesign(t)
	grid := d.Grid()

	// Constant predictions: every level's marginal mean is that constant.
	probs := make([]float64, len(grid))
	for i := range probs {
		probs[i] = 1.0 / 12
	}

	for _, attr := range []string{"price", "packaging", "flavor"} {
		est, err := MarginalMeans(d, grid, probs, attr)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range est {
			if !scalar.EqualWithinAbs(e.Point, 1.0/12, 1e-12) {
				t.Errorf("%s=%s: marginal mean %v, want 1/12", attr, e.Level, e.Point)
			}
		}
	}
}

func TestChoiceShares(t *testing.T) {

	d := barDesign(t)
	grid := d.Grid()

	// All 12 alternatives equally likely: packaging=paper covers 6 of the
	// 12 rows, so its simulated share is 6 x 1/12 = 0.5.
	probs := make([]float64, len(grid))
	for i := range probs {
		probs[i] = 1.0 / 12
	}

	est, err := ChoiceShares(d, grid, probs, "packaging")
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range est {
		if !scalar.EqualWithinAbs(e.Point, 0.5, 1e-12) {
			t.Errorf("share of packaging=%s is %v, want 0.5", e.Level, e.Point)
		}
	}
}

// TestMarginalMeansPermutation checks that marginal means do not depend on
// the row order of the grid.
func TestMarginalMeansPermutation(t *testing.T) {

	d := barDesign(t)
	grid := d.Grid()

	probs := make([]float64, len(grid))
	for i := range probs {
		probs[i] = float64(i) / 100
	}

	base, err := MarginalMeans(d, grid, probs, "price")
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(42))
	for rep := 0; rep < 5; rep++ {
		perm := rng.Perm(len(grid))
		pg := make([]Alternative, len(grid))
		pp := make([]float64, len(grid))
		for i, j := range perm {
			pg[i] = grid[j]
			pp[i] = probs[j]
		}
		est, err := MarginalMeans(d, pg, pp, "price")
		if err != nil {
			t.Fatal(err)
		}
		for k := range est {
			if !scalar.EqualWithinAbs(est[k].Point, base[k].Point, 1e-12) {
				t.Errorf("permutation changed marginal mean of %s", est[k].Level)
			}
		}
	}
}

func TestAMCEReferenceZero(t *testing.T) {

	d := barDesign(t)
	grid := d.Grid()

	rng := rand.New(rand.NewSource(7))
	probs := make([]float64, len(grid))
	for i := range probs {
		probs[i] = rng.Float64()
	}

	for _, attr := range []string{"price", "packaging", "flavor"} {
		est, err := AMCEs(d, grid, probs, attr)
		if err != nil {
			t.Fatal(err)
		}
		ap, _ := d.AttrPos(attr)
		a := d.Attrs()[ap]
		for _, e := range est {
			if e.Reference != a.Ref() {
				t.Errorf("AMCE of %s carries reference %q, want %q", e.Level, e.Reference, a.Ref())
			}
			if e.Level == a.Ref() && e.Point != 0 {
				t.Errorf("AMCE of reference level is %v, want exactly 0", e.Point)
			}
		}
	}
}

func TestAMCEMatchesMeans(t *testing.T) {

	d := barDesign(t)
	grid := d.Grid()

	rng := rand.New(rand.NewSource(11))
	probs := make([]float64, len(grid))
	for i := range probs {
		probs[i] = rng.Float64()
	}

	mm, err := MarginalMeans(d, grid, probs, "price")
	if err != nil {
		t.Fatal(err)
	}
	am, err := AMCEs(d, grid, probs, "price")
	if err != nil {
		t.Fatal(err)
	}

	for k := range am {
		want := mm[k].Point - mm[0].Point
		if !scalar.EqualWithinAbs(am[k].Point, want, 1e-12) {
			t.Errorf("AMCE of %s is %v, want %v", am[k].Level, am[k].Point, want)
		}
	}
}

func TestAggregateErrors(t *testing.T) {

	d := barDesign(t)
	grid := d.Grid()

	_, err := MarginalMeans(d, grid, []float64{1, 2}, "price")
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("length mismatch: got %v, want ConfigError", err)
	}

	probs := make([]float64, len(grid))
	_, err = MarginalMeans(d, grid, probs, "color")
	if !errors.As(err, &ce) {
		t.Errorf("unknown attribute: got %v, want ConfigError", err)
	}

	_, err = ChoiceShares(d, grid, probs, "price")
	var de *DegenerateInputError
	if !errors.As(err, &de) {
		t.Errorf("zero total probability: got %v, want DegenerateInputError", err)
	}
}

func TestEnsembleEstimands(t *testing.T) {

	d := barDesign(t)
	grid := d.Grid()

	// Draws that shift every prediction by a constant: marginal mean draws
	// shift with them, AMCE draws do not.
	ndraw := 200
	draws := make([][]float64, ndraw)
	for r := range draws {
		pr := make([]float64, len(grid))
		for i, alt := range grid {
			pr[i] = 0.4 + 0.05*float64(alt[1]) + 0.001*float64(r)
		}
		draws[r] = pr
	}

	mm, err := MarginalMeansEnsemble(d, grid, draws, "packaging", 0.05)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range mm {
		if e.Lower > e.Point || e.Point > e.Upper {
			t.Errorf("interval [%v, %v] does not contain %v", e.Lower, e.Upper, e.Point)
		}
		if e.Confidence != 0.95 {
			t.Errorf("confidence %v, want 0.95", e.Confidence)
		}
	}

	am, err := AMCEEnsemble(d, grid, draws, "packaging", 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if am[0].Point != 0 || am[0].Lower != 0 || am[0].Upper != 0 {
		t.Errorf("reference AMCE is (%v, %v, %v), want zeros",
			am[0].Point, am[0].Lower, am[0].Upper)
	}
	// The sticker contrast is exactly 0.05 in every draw.
	if math.Abs(am[1].Point-0.05) > 1e-12 ||
		math.Abs(am[1].Lower-0.05) > 1e-12 ||
		math.Abs(am[1].Upper-0.05) > 1e-12 {
		t.Errorf("sticker AMCE (%v, %v, %v), want all 0.05",
			am[1].Point, am[1].Lower, am[1].Upper)
	}
}
