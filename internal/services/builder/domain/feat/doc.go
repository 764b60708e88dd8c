// Package feat evaluates trait selections against their prerequisites and
// computes the feat slot budget.
//
// Prerequisites are authored as free text. Each sentence is checked by the
// first rule in an ordered table that recognizes it; a sentence no rule
// recognizes is reported as unknown and never locks a selection.
package feat
