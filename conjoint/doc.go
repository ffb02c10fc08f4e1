/*
Package conjoint implements post-estimation aggregation for conjoint (choice
based) survey experiments in Go (golang).

The package turns the output of an externally fitted choice model (coefficient
vectors, posterior draws, or a fit-and-predict callable) into the standard
conjoint estimands: marginal means, average marginal component effects (AMCE),
individual part-worth utilities, and attribute importance shares.  Percentile
intervals for the estimands can be built from posterior ensembles, from a
cluster bootstrap (see the resample package), or from parametric simulation of
the coefficient sampling distribution.
*/
package conjoint
