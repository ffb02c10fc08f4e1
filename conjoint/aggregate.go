package conjoint

import "fmt"

// levelMeans averages probs within each level of the attribute at position
// ap, returning one mean per level in level order.  probs must be aligned to
// grid rows.  Because the grid is balanced, every level sees the same number
// of rows, so the unweighted group mean marginalizes the other attributes
// without confounding.
func levelMeans(d *Design, grid []Alternative, probs []float64, ap int) ([]float64, error) {

	if len(grid) != len(probs) {
		return nil, &ConfigError{Msg: fmt.Sprintf("got %d predictions for a %d row grid",
			len(probs), len(grid))}
	}

	nlev := len(d.Attrs()[ap].Levels)
	sum := make([]float64, nlev)
	cnt := make([]int, nlev)
	for i, alt := range grid {
		sum[alt[ap]] += probs[i]
		cnt[alt[ap]]++
	}

	for k := range sum {
		if cnt[k] == 0 {
			return nil, &ConfigError{Attribute: d.Attrs()[ap].Name,
				Level: d.Attrs()[ap].Levels[k],
				Msg:   "level does not appear in the grid"}
		}
		sum[k] /= float64(cnt[k])
	}

	return sum, nil
}

// MarginalMeans computes the marginal mean predicted choice probability of
// every level of the given attribute, averaging the grid predictions over all
// other attributes.  probs[i] is the model's prediction for grid[i]; the grid
// must be the balanced grid from Design.Grid (or any row permutation of it).
func MarginalMeans(d *Design, grid []Alternative, probs []float64, attr string) ([]Estimand, error) {

	ap, err := d.AttrPos(attr)
	if err != nil {
		return nil, err
	}

	mn, err := levelMeans(d, grid, probs, ap)
	if err != nil {
		return nil, err
	}

	a := d.Attrs()[ap]
	est := make([]Estimand, len(mn))
	for k, v := range mn {
		est[k] = Estimand{
			Kind:      MarginalMean,
			Attribute: a.Name,
			Level:     a.Levels[k],
			Point:     v,
		}
	}

	return est, nil
}

// AMCEs computes the average marginal component effect of every level of the
// given attribute: its marginal mean minus the marginal mean of the
// attribute's reference level.  The reference level's AMCE is exactly zero.
func AMCEs(d *Design, grid []Alternative, probs []float64, attr string) ([]Estimand, error) {

	ap, err := d.AttrPos(attr)
	if err != nil {
		return nil, err
	}

	mn, err := levelMeans(d, grid, probs, ap)
	if err != nil {
		return nil, err
	}

	a := d.Attrs()[ap]
	ref := mn[a.RefPos()]
	est := make([]Estimand, len(mn))
	for k, v := range mn {
		est[k] = Estimand{
			Kind:      AMCE,
			Attribute: a.Name,
			Level:     a.Levels[k],
			Reference: a.Ref(),
			Point:     v - ref,
		}
	}
	est[a.RefPos()].Point = 0

	return est, nil
}

// ChoiceShares simulates the market share of each level of the given
// attribute: the summed choice probability of the grid rows carrying the
// level, normalized by the total probability over the grid.  With every one
// of n alternatives assigned probability 1/n, a level held by half the grid
// has share 0.5.
func ChoiceShares(d *Design, grid []Alternative, probs []float64, attr string) ([]Estimand, error) {

	ap, err := d.AttrPos(attr)
	if err != nil {
		return nil, err
	}
	if len(grid) != len(probs) {
		return nil, &ConfigError{Msg: fmt.Sprintf("got %d predictions for a %d row grid",
			len(probs), len(grid))}
	}

	a := d.Attrs()[ap]
	sum := make([]float64, len(a.Levels))
	var tot float64
	for i, alt := range grid {
		sum[alt[ap]] += probs[i]
		tot += probs[i]
	}
	if tot == 0 {
		return nil, &DegenerateInputError{Msg: "total predicted probability is zero"}
	}

	est := make([]Estimand, len(sum))
	for k, v := range sum {
		est[k] = Estimand{
			Kind:      ChoiceShare,
			Attribute: a.Name,
			Level:     a.Levels[k],
			Point:     v / tot,
		}
	}

	return est, nil
}

// drawLevelStats applies levelMeans to every probability draw and returns,
// per level, the sequence of draw values, optionally differenced against the
// reference level within each draw.
func drawLevelStats(d *Design, grid []Alternative, draws [][]float64, ap int, contrast bool) ([][]float64, error) {

	nlev := len(d.Attrs()[ap].Levels)
	ref := d.Attrs()[ap].RefPos()

	byLevel := make([][]float64, nlev)
	for k := range byLevel {
		byLevel[k] = make([]float64, 0, len(draws))
	}

	for _, probs := range draws {
		mn, err := levelMeans(d, grid, probs, ap)
		if err != nil {
			return nil, err
		}
		for k, v := range mn {
			if contrast {
				v -= mn[ref]
			}
			byLevel[k] = append(byLevel[k], v)
		}
	}

	return byLevel, nil
}

// MarginalMeansEnsemble computes marginal means with percentile intervals
// from an ensemble of probability draws (posterior draws, parametric
// simulation, or bootstrap resamples), one probability vector per draw.
// alpha is the total tail mass, e.g. 0.05 for a 95% interval.
func MarginalMeansEnsemble(d *Design, grid []Alternative, draws [][]float64, attr string, alpha float64) ([]Estimand, error) {

	ap, err := d.AttrPos(attr)
	if err != nil {
		return nil, err
	}

	byLevel, err := drawLevelStats(d, grid, draws, ap, false)
	if err != nil {
		return nil, err
	}

	a := d.Attrs()[ap]
	est := make([]Estimand, len(byLevel))
	for k, dv := range byLevel {
		iv, err := PercentileInterval(dv, alpha)
		if err != nil {
			return nil, err
		}
		est[k] = Estimand{
			Kind:       MarginalMean,
			Attribute:  a.Name,
			Level:      a.Levels[k],
			Point:      iv.Point,
			Lower:      iv.Lower,
			Upper:      iv.Upper,
			Confidence: 1 - alpha,
		}
	}

	return est, nil
}

// AMCEEnsemble computes AMCEs with percentile intervals from an ensemble of
// probability draws.  The reference difference is taken within each draw, so
// the interval reflects the sampling distribution of the contrast itself.
func AMCEEnsemble(d *Design, grid []Alternative, draws [][]float64, attr string, alpha float64) ([]Estimand, error) {

	ap, err := d.AttrPos(attr)
	if err != nil {
		return nil, err
	}

	byLevel, err := drawLevelStats(d, grid, draws, ap, true)
	if err != nil {
		return nil, err
	}

	a := d.Attrs()[ap]
	est := make([]Estimand, len(byLevel))
	for k, dv := range byLevel {
		if k == a.RefPos() {
			est[k] = Estimand{
				Kind:       AMCE,
				Attribute:  a.Name,
				Level:      a.Levels[k],
				Reference:  a.Ref(),
				Confidence: 1 - alpha,
			}
			continue
		}
		iv, err := PercentileInterval(dv, alpha)
		if err != nil {
			return nil, err
		}
		est[k] = Estimand{
			Kind:       AMCE,
			Attribute:  a.Name,
			Level:      a.Levels[k],
			Reference:  a.Ref(),
			Point:      iv.Point,
			Lower:      iv.Lower,
			Upper:      iv.Upper,
			Confidence: 1 - alpha,
		}
	}

	return est, nil
}
