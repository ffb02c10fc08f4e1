package conjoint

import "sort"

// Observation is one alternative shown to one respondent in one choice task,
// together with whether the respondent chose it.  Observations are read from
// an external dataset and never mutated.
type Observation struct {

	// The respondent who saw the task.  Respondent is the clustering unit
	// for bootstrap resampling.
	Respondent string

	// The task within the respondent's survey.
	Task string

	// The profile shown, as level indices into the design.
	Alt Alternative

	// Whether this alternative was the one chosen in the task.
	Chosen bool
}

// ByRespondent groups observations by respondent id, preserving the relative
// order of each respondent's rows.
func ByRespondent(obs []Observation) map[string][]Observation {

	m := make(map[string][]Observation)
	for _, o := range obs {
		m[o.Respondent] = append(m[o.Respondent], o)
	}

	return m
}

// RespondentIDs returns the sorted distinct respondent ids in obs.
func RespondentIDs(obs []Observation) []string {

	seen := make(map[string]bool)
	var ids []string
	for _, o := range obs {
		if !seen[o.Respondent] {
			seen[o.Respondent] = true
			ids = append(ids, o.Respondent)
		}
	}
	sort.Strings(ids)

	return ids
}

// LevelKey identifies one attribute level, e.g. {price, $3}.
type LevelKey struct {
	Attribute string
	Level     string
}

// UtilityDraw is one draw of attribute-level utilities, either a population
// level draw (Respondent empty) or an individual deviation draw.  Levels
// absent from U, including reference levels, are implicitly zero.
type UtilityDraw struct {

	// The respondent the draw belongs to, or empty for a population draw.
	Respondent string

	// The index of the draw within its ensemble.  Draws from different
	// sources are combined only when their indices match.
	Draw int

	// Utilities by attribute level.
	U map[LevelKey]float64
}

// EstimandKind identifies the type of a computed estimand.
type EstimandKind int

// The estimand types: the marginal mean of a level, the average marginal
// component effect of a level relative to its attribute's reference level,
// the simulated market share of a level, and the importance share of an
// attribute for one respondent.
const (
	MarginalMean EstimandKind = iota
	AMCE
	ChoiceShare
	Importance
)

func (k EstimandKind) String() string {
	switch k {
	case MarginalMean:
		return "marginal mean"
	case AMCE:
		return "AMCE"
	case ChoiceShare:
		return "choice share"
	case Importance:
		return "importance"
	}
	return "unknown"
}

// Estimand is one computed quantity together with its percentile interval
// when the estimate was derived from an ensemble of draws.  Confidence is
// zero when no interval was computed.
type Estimand struct {
	Kind      EstimandKind
	Attribute string

	// The level the estimand describes.  Empty for Importance, which
	// describes a whole attribute.
	Level string

	// The reference level, set for AMCE estimands.
	Reference string

	Point      float64
	Lower      float64
	Upper      float64
	Confidence float64
}
