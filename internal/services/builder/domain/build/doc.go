// Package build defines the canonical build data model and the normalizer
// that produces it from loosely typed form input.
//
// Form input arrives as a RawInput map whose values may be strings, numbers,
// lists, records or JSON text, depending on which UI control produced them.
// A field name ending in "[]" marks a list-valued field and is read
// interchangeably with the plain name. Normalize never fails: fragments it
// cannot interpret become inert custom literals so no user input is lost.
//
// Normalization is idempotent. Data.Raw projects canonical data back into
// RawInput, and normalizing that projection yields the same Data.
package build
