package conjoint

import "fmt"

// ConfigError indicates a malformed attribute or level declaration, or a
// reference to an attribute or level that is not part of the design.  It is a
// caller mistake and is never retried.
type ConfigError struct {

	// The attribute where the problem was found, if known.
	Attribute string

	// The level where the problem was found, if known.
	Level string

	Msg string
}

func (e *ConfigError) Error() string {
	s := "conjoint: " + e.Msg
	if e.Attribute != "" {
		s += fmt.Sprintf(" (attribute %q", e.Attribute)
		if e.Level != "" {
			s += fmt.Sprintf(", level %q", e.Level)
		}
		s += ")"
	}
	return s
}

// DegenerateInputError indicates that an aggregate is mathematically
// undefined for the given input, e.g. an importance share for a respondent
// whose part-worth ranges are all zero.
type DegenerateInputError struct {

	// The respondent whose input is degenerate, if applicable.
	Respondent string

	Msg string
}

func (e *DegenerateInputError) Error() string {
	if e.Respondent != "" {
		return fmt.Sprintf("conjoint: %s (respondent %q)", e.Msg, e.Respondent)
	}
	return "conjoint: " + e.Msg
}

// InsufficientDrawsError indicates that fewer than two usable draws remained
// after dropping non-finite values, so no percentile interval can be formed.
type InsufficientDrawsError struct {

	// The number of usable draws that remained.
	Valid int

	// The number of draws provided.
	Total int
}

func (e *InsufficientDrawsError) Error() string {
	return fmt.Sprintf("conjoint: %d of %d draws usable, need at least 2 for an interval",
		e.Valid, e.Total)
}
