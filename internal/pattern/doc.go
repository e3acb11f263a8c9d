// Package pattern holds the already-parsed description of one pattern
// element handed to the leaf planner: the variable, the predicates that
// constrain it and the planner hints attached to it.
//
// Every variant set in this package is closed. Predicates, expressions and
// hints implement an unexported marker method so that consumers can switch
// over them exhaustively.
//
// Predicates are shared by pointer. Candidate plans reference the same
// *HasLabel or *PropertyEquals value the caller supplied, and residual
// computation relies on that identity.
package pattern
