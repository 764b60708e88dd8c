// Package rules models the read-only rules dataset a build draws from.
//
// A dataset holds six collections: classes, ancestries, backgrounds, traits
// (feats), items and allies (companions). Every entry shares the Entry
// identity fields; the remaining fields are type-specific and loosely typed
// because datasets are authored by hand and arrive as JSON or YAML packs.
// Heterogeneous values such as ability bonuses are kept as decoded trees and
// interpreted by the packages that consume them.
//
// Datasets are values: hydration returns a new Dataset and callers replace
// the one they hold wholesale instead of mutating it.
package rules
