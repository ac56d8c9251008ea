// Package policy holds the dispatch policy of the ready queue: which
// discipline picks the next task and how priorities translate into stride
// passes.
package policy
