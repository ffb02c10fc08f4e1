package conjoint

import (
	"fmt"
	"sort"
)

// PartWorths holds individual part-worth utilities: one utility per
// (respondent, attribute, level), with every attribute's reference level at
// zero unless a draw set it explicitly.  Utilities are stored flat, indexed
// by the design's level offsets.
type PartWorths struct {
	design *Design

	// offset[j] is the position of attribute j's first level in a flat
	// utility vector.
	offset []int

	// Total number of levels across attributes.
	nlev int

	u map[string][]float64
}

func newPartWorths(d *Design) *PartWorths {

	pw := &PartWorths{
		design: d,
		u:      make(map[string][]float64),
	}

	for _, a := range d.Attrs() {
		pw.offset = append(pw.offset, pw.nlev)
		pw.nlev += len(a.Levels)
	}

	return pw
}

func (pw *PartWorths) fill(resp string, draw *UtilityDraw) error {

	x, ok := pw.u[resp]
	if !ok {
		x = make([]float64, pw.nlev)
		pw.u[resp] = x
	}

	for key, v := range draw.U {
		ap, err := pw.design.AttrPos(key.Attribute)
		if err != nil {
			return err
		}
		k := pw.design.Attrs()[ap].level(key.Level)
		if k == -1 {
			return &ConfigError{Attribute: key.Attribute, Level: key.Level,
				Msg: "utility draw names a level not in the design"}
		}
		x[pw.offset[ap]+k] += v
	}

	return nil
}

// BuildPartWorths assembles per-respondent part-worth utilities from a
// population-level draw and per-respondent deviation draws.  Each
// respondent's utility for a level is the population utility plus that
// respondent's deviation; levels absent from both draws, including reference
// levels, are zero.  Population and deviation draws are combined only when
// their Draw indices match -- an index mismatch is reported as an error
// rather than silently assuming positional alignment.
//
// pop may be nil when the deviations already contain total utilities.
func BuildPartWorths(d *Design, pop *UtilityDraw, devs []UtilityDraw) (*PartWorths, error) {

	if pop != nil && pop.Respondent != "" {
		return nil, &ConfigError{Msg: fmt.Sprintf(
			"population draw is tagged with respondent %q", pop.Respondent)}
	}

	pw := newPartWorths(d)

	seen := make(map[string]bool)
	for i := range devs {
		dv := &devs[i]
		if dv.Respondent == "" {
			return nil, &ConfigError{Msg: fmt.Sprintf(
				"deviation draw %d has no respondent id", i)}
		}
		if seen[dv.Respondent] {
			return nil, &ConfigError{Msg: fmt.Sprintf(
				"respondent %q appears in more than one deviation draw", dv.Respondent)}
		}
		seen[dv.Respondent] = true
		if pop != nil && dv.Draw != pop.Draw {
			return nil, &ConfigError{Msg: fmt.Sprintf(
				"deviation draw for respondent %q has draw index %d, population draw has %d",
				dv.Respondent, dv.Draw, pop.Draw)}
		}
		if pop != nil {
			if err := pw.fill(dv.Respondent, pop); err != nil {
				return nil, err
			}
		}
		if err := pw.fill(dv.Respondent, dv); err != nil {
			return nil, err
		}
	}

	return pw, nil
}

// Respondents returns the sorted respondent ids present.
func (pw *PartWorths) Respondents() []string {

	ids := make([]string, 0, len(pw.u))
	for r := range pw.u {
		ids = append(ids, r)
	}
	sort.Strings(ids)

	return ids
}

// Utility returns the part-worth utility of one attribute level for one
// respondent.
func (pw *PartWorths) Utility(resp, attr, level string) (float64, error) {

	x, ok := pw.u[resp]
	if !ok {
		return 0, &ConfigError{Msg: fmt.Sprintf("unknown respondent %q", resp)}
	}

	ap, err := pw.design.AttrPos(attr)
	if err != nil {
		return 0, err
	}
	k := pw.design.Attrs()[ap].level(level)
	if k == -1 {
		return 0, &ConfigError{Attribute: attr, Level: level, Msg: "level not in design"}
	}

	return x[pw.offset[ap]+k], nil
}

// ranges returns the utility range (max minus min over levels) of every
// attribute for one respondent.
func (pw *PartWorths) ranges(x []float64) []float64 {

	rg := make([]float64, len(pw.design.Attrs()))
	for j, a := range pw.design.Attrs() {
		lo := x[pw.offset[j]]
		hi := lo
		for k := 1; k < len(a.Levels); k++ {
			v := x[pw.offset[j]+k]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		rg[j] = hi - lo
	}

	return rg
}

// AttributeImportance computes, for one respondent, the share of total
// utility range attributable to each attribute.  Shares are non-negative and
// sum to one.  A respondent whose ranges are all zero has no defined
// importances and yields a DegenerateInputError.
func (pw *PartWorths) AttributeImportance(resp string) ([]Estimand, error) {

	x, ok := pw.u[resp]
	if !ok {
		return nil, &ConfigError{Msg: fmt.Sprintf("unknown respondent %q", resp)}
	}

	rg := pw.ranges(x)
	var tot float64
	for _, v := range rg {
		tot += v
	}
	if tot == 0 {
		return nil, &DegenerateInputError{Respondent: resp,
			Msg: "all part-worth ranges are zero, importance is undefined"}
	}

	est := make([]Estimand, len(rg))
	for j, a := range pw.design.Attrs() {
		est[j] = Estimand{
			Kind:      Importance,
			Attribute: a.Name,
			Point:     rg[j] / tot,
		}
	}

	return est, nil
}
