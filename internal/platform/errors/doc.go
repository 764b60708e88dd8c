// Package errors defines the structured error type shared by questkit
// packages.
//
// Every failure a caller may want to present to a user carries a Code. The
// Message is for logs; user-facing text is rendered from the code and its
// Metadata by the i18n subpackage, so wording can change without touching
// the code paths that raise the error.
package errors
