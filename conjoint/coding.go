package conjoint

import "fmt"

// Coding is the dummy coding of a design: one indicator column per
// non-reference level of each attribute, in design order.  It replaces
// name-prefix matching of coefficient labels with an explicit map from
// attribute levels to column positions.
type Coding struct {
	design *Design

	// Column j indicates level cols[j][1] of attribute cols[j][0], both
	// as positions in the design.
	cols [][2]int

	names []string
	index map[LevelKey]int
}

// NewCoding builds the dummy coding of a design.
func NewCoding(d *Design) *Coding {

	c := &Coding{
		design: d,
		index:  make(map[LevelKey]int),
	}

	for j, a := range d.Attrs() {
		for k, v := range a.Levels {
			if k == a.RefPos() {
				continue
			}
			c.index[LevelKey{a.Name, v}] = len(c.cols)
			c.cols = append(c.cols, [2]int{j, k})
			c.names = append(c.names, fmt.Sprintf("%s=%s", a.Name, v))
		}
	}

	return c
}

// NumParams returns the number of coded columns.
func (c *Coding) NumParams() int {
	return len(c.cols)
}

// Names returns the column labels, e.g. "price=$3".
func (c *Coding) Names() []string {
	return c.names
}

// Col returns the column position coding the given attribute level.
// Reference levels are not coded and yield an error.
func (c *Coding) Col(attr, level string) (int, error) {
	j, ok := c.index[LevelKey{attr, level}]
	if !ok {
		return 0, &ConfigError{Attribute: attr, Level: level,
			Msg: "level is not a coded column"}
	}
	return j, nil
}

// UtilityDraw converts a coefficient vector aligned to the coding's columns
// into a UtilityDraw, so coefficient draws can feed BuildPartWorths.  resp
// may be empty for a population-level draw.
func (c *Coding) UtilityDraw(params []float64, resp string, draw int) (*UtilityDraw, error) {

	if len(params) != len(c.cols) {
		return nil, &ConfigError{Msg: fmt.Sprintf(
			"coefficient vector has %d entries, coding has %d columns",
			len(params), len(c.cols))}
	}

	u := make(map[LevelKey]float64, len(params))
	for j, col := range c.cols {
		a := c.design.Attrs()[col[0]]
		u[LevelKey{a.Name, a.Levels[col[1]]}] = params[j]
	}

	return &UtilityDraw{Respondent: resp, Draw: draw, U: u}, nil
}

// Row fills x with the dummy-coded row for alt.  The length of x must equal
// NumParams.
func (c *Coding) Row(alt Alternative, x []float64) {

	for j := range x {
		x[j] = 0
	}
	for j, col := range c.cols {
		if alt[col[0]] == col[1] {
			x[j] = 1
		}
	}
}
