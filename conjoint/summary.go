package conjoint

import (
	"fmt"
	"strconv"
	"strings"
)

// Summary renders a fixed-width text table of estimands.  ptf and ivf are
// Sprintf format strings for the point estimates and the interval bounds;
// either may be passed as "" to use a default.  Interval columns are shown
// only when at least one estimand carries an interval.
func Summary(estimands []Estimand, ptf, ivf string) string {

	if ptf == "" {
		ptf = "%12.3f"
	}
	if ivf == "" {
		ivf = "%12.3f"
	}

	var labels []string
	mx := len("Level")
	hasIv := false
	for _, e := range estimands {
		a := e.Level
		if e.Kind == Importance {
			a = e.Attribute
		}
		labels = append(labels, a)
		if len(a) > mx {
			mx = len(a)
		}
		if e.Confidence > 0 {
			hasIv = true
		}
	}

	// fw returns the width from a Sprintf format string
	fw := func(x string) int {
		x = x[1:]
		v := strings.Split(x, ".")
		w, err := strconv.Atoi(v[0])
		if err != nil {
			panic(err)
		}
		return w
	}

	ptw := fw(ptf)
	ivw := fw(ivf)

	var s []string
	if hasIv {
		h := fmt.Sprintf(fmt.Sprintf("%%-%ds %%%ds %%%ds %%%ds", mx, ptw, ivw, ivw),
			"Level", "Estimate  ", "Lower  ", "Upper  ")
		s = append(s, h)
		tpx := fmt.Sprintf("%%-%ds %s %s %s", mx, ptf, ivf, ivf)
		for i, e := range estimands {
			s = append(s, fmt.Sprintf(tpx, labels[i], e.Point, e.Lower, e.Upper))
		}
	} else {
		h := fmt.Sprintf(fmt.Sprintf("%%-%ds %%%ds", mx, ptw), "Level", "Estimate  ")
		s = append(s, h)
		tpx := fmt.Sprintf("%%-%ds %s", mx, ptf)
		for i, e := range estimands {
			s = append(s, fmt.Sprintf(tpx, labels[i], e.Point))
		}
	}

	return strings.Join(s, "\n")
}
