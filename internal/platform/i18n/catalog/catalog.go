// Package catalog loads the localized message bundle embedded in the binary.
//
// Messages live in YAML files at locales/<locale>/<namespace>.yaml. Loading
// registers every key with golang.org/x/text/message so a Printer can format
// keys such as "builder.cli.summary" directly. Keys must be unique across the
// namespaces of a locale.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the source locale every other locale falls back to.
const BaseLocale = "en-US"

const filePattern = "locales/*/*.yaml"

//go:embed locales/*/*.yaml
var embedded embed.FS

var defaultBundle = mustRegister(LoadEmbedded())

// file is one namespace of one locale as written on disk.
type file struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle holds messages by locale, then namespace, then key.
type Bundle struct {
	messages map[string]map[string]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
}

// Default returns the embedded bundle, already registered.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded parses the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embedded)
}

// LoadFromFS parses every locales/<locale>/<namespace>.yaml in fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, filePattern)
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files under %s", filePattern)
	}
	sort.Strings(paths)

	b := &Bundle{messages: map[string]map[string]map[string]string{}}
	for _, p := range paths {
		f, err := readFile(fsys, p)
		if err != nil {
			return nil, err
		}
		if err := b.add(p, f); err != nil {
			return nil, err
		}
	}
	if _, ok := b.messages[BaseLocale]; !ok {
		return nil, fmt.Errorf("catalogs do not define base locale %s", BaseLocale)
	}
	if err := b.index(); err != nil {
		return nil, err
	}
	return b, nil
}

// readFile decodes p and checks its header against the path it came from.
func readFile(fsys fs.FS, p string) (file, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return file{}, fmt.Errorf("read catalog %s: %w", p, err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return file{}, fmt.Errorf("parse catalog %s: %w", p, err)
	}
	f.Locale = strings.TrimSpace(f.Locale)
	f.Namespace = strings.TrimSpace(f.Namespace)

	wantLocale := path.Base(path.Dir(p))
	wantNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))
	switch {
	case f.Locale != wantLocale:
		return file{}, fmt.Errorf("catalog %s: locale %q does not match directory %q", p, f.Locale, wantLocale)
	case f.Namespace != wantNamespace:
		return file{}, fmt.Errorf("catalog %s: namespace %q does not match file name %q", p, f.Namespace, wantNamespace)
	case len(f.Messages) == 0:
		return file{}, fmt.Errorf("catalog %s: no messages", p)
	}
	return f, nil
}

func (b *Bundle) add(p string, f file) error {
	namespaces, ok := b.messages[f.Locale]
	if !ok {
		namespaces = map[string]map[string]string{}
		b.messages[f.Locale] = namespaces
	}
	if _, exists := namespaces[f.Namespace]; exists {
		return fmt.Errorf("catalog %s: namespace %q defined twice for %s", p, f.Namespace, f.Locale)
	}
	messages := make(map[string]string, len(f.Messages))
	for key, text := range f.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: blank message key", p)
		}
		for other, existing := range namespaces {
			if _, dup := existing[key]; dup {
				return fmt.Errorf("catalog %s: key %q already defined in namespace %q", p, key, other)
			}
		}
		messages[key] = text
	}
	namespaces[f.Namespace] = messages
	return nil
}

// index builds the locale matcher. The base locale is listed first so it
// wins when nothing else matches.
func (b *Bundle) index() error {
	locales := b.Locales()
	b.tags = make([]language.Tag, 0, len(locales))
	for _, locale := range append([]string{BaseLocale}, locales...) {
		if locale == BaseLocale && len(b.tags) > 0 {
			continue
		}
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale %q: %w", locale, err)
		}
		b.tags = append(b.tags, tag)
	}
	b.matcher = language.NewMatcher(b.tags)
	return nil
}

// Register publishes every message to x/text/message under its locale tag
// and, when different, the bare language tag.
func (b *Bundle) Register() error {
	if b == nil {
		return nil
	}
	for _, tag := range b.tags {
		targets := []language.Tag{tag}
		if base, confidence := tag.Base(); confidence != language.No {
			if baseTag, err := language.Parse(base.String()); err == nil && baseTag.String() != tag.String() {
				targets = append(targets, baseTag)
			}
		}
		for _, namespace := range sortedKeys(b.messages[tag.String()]) {
			messages := b.messages[tag.String()][namespace]
			for _, key := range sortedKeys(messages) {
				for _, target := range targets {
					if err := message.SetString(target, key, messages[key]); err != nil {
						return fmt.Errorf("register %s %s: %w", tag, key, err)
					}
				}
			}
		}
	}
	return nil
}

// Match returns the closest available locale, so "pt" or "pt-PT" resolve to
// "pt-BR". Requests that match nothing yield BaseLocale.
func (b *Bundle) Match(requested string) string {
	requested = strings.TrimSpace(requested)
	if b == nil || b.matcher == nil || requested == "" {
		return BaseLocale
	}
	if b.HasLocale(requested) {
		return requested
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return BaseLocale
	}
	_, index, confidence := b.matcher.Match(tag)
	if confidence == language.No || index < 0 || index >= len(b.tags) {
		return BaseLocale
	}
	return b.tags[index].String()
}

// Printer returns an x/text printer for the negotiated locale.
func (b *Bundle) Printer(locale string) *message.Printer {
	return message.NewPrinter(language.MustParse(b.Match(locale)))
}

// HasLocale reports whether locale has any catalog.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.messages[strings.TrimSpace(locale)]
	return ok
}

// Locales lists the loaded locales in sorted order.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	return sortedKeys(b.messages)
}

// NamespaceMessages returns a copy of one namespace for an exact locale.
func (b *Bundle) NamespaceMessages(locale, namespace string) map[string]string {
	out := map[string]string{}
	if b == nil {
		return out
	}
	for key, text := range b.messages[strings.TrimSpace(locale)][strings.TrimSpace(namespace)] {
		out[key] = text
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func mustRegister(b *Bundle, err error) *Bundle {
	if err == nil {
		err = b.Register()
	}
	if err != nil {
		panic(fmt.Sprintf("load message catalogs: %v", err))
	}
	return b
}
