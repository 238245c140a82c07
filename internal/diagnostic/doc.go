// Package diagnostic provides structured explanations of mapping decisions.
//
// Key capabilities:
//   - Matched member reports with the routine chosen for each member
//   - Dropped source member warnings
//   - Unset destination member notes
//   - Construction errors attached to the failing type pair
package diagnostic
