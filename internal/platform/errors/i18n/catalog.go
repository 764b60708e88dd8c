// Package i18n renders user-facing text for error codes and builder
// warnings.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	apperrors "github.com/louisbranch/questkit/internal/platform/errors"
	i18ncatalog "github.com/louisbranch/questkit/internal/platform/i18n/catalog"
)

// Code is a machine-readable message key.
type Code = string

// Namespaces served by this package.
const (
	NamespaceErrors  = "errors"
	NamespaceBuilder = "builder"
)

// Catalog holds the message templates of one namespace in one locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

// catalogs caches built catalogs by namespace and negotiated locale.
var catalogs sync.Map

// GetCatalog returns the errors catalog for locale.
func GetCatalog(locale string) *Catalog {
	return GetNamespaceCatalog(NamespaceErrors, locale)
}

// GetNamespaceCatalog negotiates locale against the embedded bundle and
// returns that namespace. Keys the locale does not translate keep their
// en-US text.
func GetNamespaceCatalog(namespace, locale string) *Catalog {
	bundle := i18ncatalog.Default()
	resolved := bundle.Match(strings.TrimSpace(locale))
	key := namespace + "/" + resolved
	if cached, ok := catalogs.Load(key); ok {
		return cached.(*Catalog)
	}
	messages := bundle.NamespaceMessages(i18ncatalog.BaseLocale, namespace)
	for code, text := range bundle.NamespaceMessages(resolved, namespace) {
		messages[code] = text
	}
	built, _ := catalogs.LoadOrStore(key, NewCatalog(resolved, messages))
	return built.(*Catalog)
}

// NewCatalog returns a catalog over a copy of messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for code, text := range messages {
		cloned[code] = text
	}
	return &Catalog{locale: locale, messages: cloned}
}

// Locale returns the locale the catalog was built for.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the template for code with metadata as its data. Unknown
// codes render as the code itself, and a template that fails to parse or
// execute renders as its raw text.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	text, ok := c.messages[code]
	if !ok {
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	tmpl, err := template.New(code).Parse(text)
	if err != nil {
		return text
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, metadata); err != nil {
		return text
	}
	return b.String()
}

// UserMessage renders err for presentation. Errors without a code render the
// UNKNOWN message so internal details never reach the user.
func UserMessage(err error, locale string) string {
	if err == nil {
		return ""
	}
	cat := GetCatalog(locale)
	if appErr, ok := apperrors.As(err); ok {
		return cat.Format(string(appErr.Code), appErr.Metadata)
	}
	return cat.Format(string(apperrors.CodeUnknown), nil)
}
