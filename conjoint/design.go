package conjoint

import "fmt"

// Attribute is a named categorical factor in a conjoint design, e.g. price
// with levels $2, $3, $4.  Level order is significant: it controls display
// order, and the level at position ref is the baseline against which AMCEs
// are differenced.
type Attribute struct {

	// The attribute name.
	Name string

	// The ordered, unique levels of the attribute.
	Levels []string

	// Position in Levels of the reference level.
	ref int
}

// Ref returns the reference level of the attribute.
func (a *Attribute) Ref() string {
	return a.Levels[a.ref]
}

// RefPos returns the position in Levels of the reference level.
func (a *Attribute) RefPos() int {
	return a.ref
}

// level returns the position of the named level, or -1.
func (a *Attribute) level(name string) int {
	for j, v := range a.Levels {
		if v == name {
			return j
		}
	}
	return -1
}

// Alternative is one profile in the factorial grid.  Position j holds the
// index into Levels of the level assigned to attribute j of the design, so
// every alternative carries exactly one level per attribute by construction.
type Alternative []int

// Pair is one choice task built from two alternatives presented together.
type Pair struct {
	Left  Alternative
	Right Alternative
}

// LongRow is one row of a long-format prediction frame: one alternative of
// one synthetic choice task.  Pos is 0 for the left alternative of the pair
// and 1 for the right.
type LongRow struct {
	Task int
	Pos  int
	Alt  Alternative
}

// Design is a validated conjoint experimental design: an ordered collection
// of attributes.  A Design is immutable once built and is constructed with
// NewDesign.
type Design struct {
	attrs []Attribute
	pos   map[string]int
}

// DesignBuilder is used to specify a Design.  Configuration errors are
// collected and reported by Done.
type DesignBuilder struct {
	attrs []Attribute
	err   error
}

// NewDesign begins specification of a conjoint design.
func NewDesign() *DesignBuilder {
	return &DesignBuilder{}
}

// Add appends an attribute with the given ordered levels.  The first level
// is the reference unless Ref is called.
func (b *DesignBuilder) Add(name string, levels ...string) *DesignBuilder {

	if b.err != nil {
		return b
	}

	if len(levels) < 2 {
		b.err = &ConfigError{Attribute: name,
			Msg: fmt.Sprintf("attribute has %d levels, need at least 2", len(levels))}
		return b
	}

	for _, a := range b.attrs {
		if a.Name == name {
			b.err = &ConfigError{Attribute: name, Msg: "duplicate attribute name"}
			return b
		}
	}

	seen := make(map[string]bool)
	for _, v := range levels {
		if seen[v] {
			b.err = &ConfigError{Attribute: name, Level: v,
				Msg: "duplicate level within attribute"}
			return b
		}
		seen[v] = true
	}

	lv := make([]string, len(levels))
	copy(lv, levels)
	b.attrs = append(b.attrs, Attribute{Name: name, Levels: lv})

	return b
}

// Ref sets the reference level of a previously added attribute.
func (b *DesignBuilder) Ref(attr, level string) *DesignBuilder {

	if b.err != nil {
		return b
	}

	for i := range b.attrs {
		if b.attrs[i].Name != attr {
			continue
		}
		j := b.attrs[i].level(level)
		if j == -1 {
			b.err = &ConfigError{Attribute: attr, Level: level,
				Msg: "reference level not found"}
			return b
		}
		b.attrs[i].ref = j
		return b
	}

	b.err = &ConfigError{Attribute: attr, Msg: "reference set for unknown attribute"}
	return b
}

// Done completes the design, returning the first configuration error
// encountered, if any.
func (b *DesignBuilder) Done() (*Design, error) {

	if b.err != nil {
		return nil, b.err
	}
	if len(b.attrs) == 0 {
		return nil, &ConfigError{Msg: "design has no attributes"}
	}

	pos := make(map[string]int)
	for j, a := range b.attrs {
		pos[a.Name] = j
	}

	return &Design{attrs: b.attrs, pos: pos}, nil
}

// Attrs returns the attributes of the design in declaration order.
func (d *Design) Attrs() []Attribute {
	return d.attrs
}

// AttrPos returns the position of the named attribute.
func (d *Design) AttrPos(name string) (int, error) {
	j, ok := d.pos[name]
	if !ok {
		return 0, &ConfigError{Attribute: name, Msg: "attribute not in design"}
	}
	return j, nil
}

// Level returns the level name held by alt for the attribute at position j.
func (d *Design) Level(alt Alternative, j int) string {
	return d.attrs[j].Levels[alt[j]]
}

// advance takes a variable base representation of an integer and adds one to
// it.  The arrays ix and nvals have the same length, and the allowed values
// in ix[j] are 0, 1, ..., nvals[j]-1.  Returns true when the counter wraps.
func advance(ix []int, nvals []int) bool {

	for j := range ix {
		if ix[j] < nvals[j]-1 {
			ix[j]++
			return false
		}
		ix[j] = 0
	}
	return true
}

// Grid returns the balanced factorial grid: the Cartesian product of all
// attribute levels, one Alternative per combination.  The number of rows is
// the product of the level counts and every row is distinct.
func (d *Design) Grid() []Alternative {

	p := len(d.attrs)
	nvals := make([]int, p)
	n := 1
	for j, a := range d.attrs {
		nvals[j] = len(a.Levels)
		n *= len(a.Levels)
	}

	grid := make([]Alternative, 0, n)
	ix := make([]int, p)
	for {
		row := make(Alternative, p)
		copy(row, ix)
		grid = append(grid, row)
		if advance(ix, nvals) {
			break
		}
	}

	return grid
}

// PairedGrid returns the self cross-join of the grid with itself, excluding
// pairs whose two alternatives agree on every attribute.  The number of pairs
// is n*n - n for a grid of n rows.  Used when the model predicts from a full
// choice task rather than from a single profile.
func (d *Design) PairedGrid(grid []Alternative) []Pair {

	n := len(grid)
	pairs := make([]Pair, 0, n*n-n)
	for i := range grid {
		for j := range grid {
			if i == j {
				continue
			}
			pairs = append(pairs, Pair{Left: grid[i], Right: grid[j]})
		}
	}

	return pairs
}

// LongRows stacks each pair into two rows sharing a synthetic task id, in
// pair order, for models that require one-row-per-alternative input.
func LongRows(pairs []Pair) []LongRow {

	rows := make([]LongRow, 0, 2*len(pairs))
	for t, p := range pairs {
		rows = append(rows, LongRow{Task: t, Pos: 0, Alt: p.Left})
		rows = append(rows, LongRow{Task: t, Pos: 1, Alt: p.Right})
	}

	return rows
}
