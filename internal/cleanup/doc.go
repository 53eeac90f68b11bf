// Package cleanup computes branch removal plans for a repository.
//
// The package resolves the base branch comparisons are judged against,
// classifies every local branch as merged or gone relative to that base, and
// renders the resulting removal plan. Nothing is ever deleted; the plan is the
// only output.
package cleanup
