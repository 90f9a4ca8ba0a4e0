// Package manifestdiff compares two YAML documents structurally and reports
// the differences. Mappings compare by key irrespective of order; sequences
// compare by position.
package manifestdiff
