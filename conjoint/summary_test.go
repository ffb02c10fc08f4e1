package conjoint

import (
	"strings"
	"testing"
)

func TestSummary(t *testing.T) {

	d := barDesign(t)
	grid := d.Grid()

	probs := make([]float64, len(grid))
	for i := range probs {
		probs[i] = 0.5
	}

	est, err := MarginalMeans(d, grid, probs, "price")
	if err != nil {
		t.Fatal(err)
	}

	s := Summary(est, "%10.3f", "")
	if !strings.Contains(s, "$2") || !strings.Contains(s, "0.500") {
		t.Errorf("summary missing expected cells:\n%s", s)
	}
	if strings.Contains(s, "Lower") {
		t.Errorf("point-only summary should not carry interval columns:\n%s", s)
	}

	// With intervals.
	withIv := []Estimand{
		{Kind: AMCE, Attribute: "price", Level: "$3", Reference: "$2",
			Point: 0.1, Lower: 0.05, Upper: 0.15, Confidence: 0.95},
	}
	s = Summary(withIv, "", "")
	if !strings.Contains(s, "Lower") || !strings.Contains(s, "0.050") {
		t.Errorf("interval summary missing bounds:\n%s", s)
	}
}
