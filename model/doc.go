// Package model defines the data carried through the record pipeline: records
// with dirty tracking, a typed predicate tree with its visitor, and queries
// that bundle predicates with result formatters and reduction rules.
package model
