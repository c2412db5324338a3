// Package category turns category keys into human-readable labels using
// locale bundles. A bundle is a flat YAML map from message key to text,
// named messages.yaml for the default language or messages_<locale>.yaml.
package category

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var bundled embed.FS

// DefaultLocale is the language of messages.yaml.
var DefaultLocale = language.English

type bundle struct {
	tag      language.Tag
	messages map[string]string
}

// Resolver looks up category labels for one locale, falling back to the
// default bundle for keys the locale does not translate.
type Resolver struct {
	tag   language.Tag
	chain []map[string]string
}

// Option configures New.
type Option func(*options)

type options struct {
	dir    string
	logger *zap.Logger
}

// WithDir adds the bundles found in dir. They take precedence over the
// bundled ones for the same locale.
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithLogger sets the logger used to report unreadable bundles.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New returns a Resolver for the closest available match of locale.
func New(locale string, opts ...Option) (*Resolver, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	want, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}

	bundles, err := loadFS(bundled, "messages")
	if err != nil {
		return nil, fmt.Errorf("loading bundled messages: %w", err)
	}
	if o.dir != "" {
		extra, err := loadFS(os.DirFS(o.dir), ".")
		if err != nil {
			return nil, fmt.Errorf("loading bundles from %s: %w", o.dir, err)
		}
		for _, b := range extra {
			o.logger.Debug("loaded category bundle",
				zap.String("dir", o.dir), zap.Stringer("locale", b.tag), zap.Int("messages", len(b.messages)))
		}
		bundles = merge(bundles, extra)
	}

	return newResolver(want, bundles), nil
}

func newResolver(want language.Tag, bundles []bundle) *Resolver {
	// The default bundle goes first so the matcher falls back to it.
	sort.SliceStable(bundles, func(i, j int) bool {
		return bundles[i].tag == DefaultLocale && bundles[j].tag != DefaultLocale
	})
	tags := make([]language.Tag, len(bundles))
	for i, b := range bundles {
		tags[i] = b.tag
	}

	r := &Resolver{tag: DefaultLocale}
	if len(bundles) == 0 {
		return r
	}
	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No {
		idx = 0
	}
	r.tag = bundles[idx].tag
	r.chain = append(r.chain, bundles[idx].messages)
	if idx != 0 {
		r.chain = append(r.chain, bundles[0].messages)
	}
	return r
}

// Locale returns the locale of the bundle the Resolver reads first.
func (r *Resolver) Locale() language.Tag { return r.tag }

// DisplayName returns the label for key, or key itself when no bundle
// names it.
func (r *Resolver) DisplayName(key string) string {
	if s, ok := r.lookup("Category." + key + ".display"); ok {
		return s
	}
	return key
}

// Description returns the description of key, if any bundle has one.
func (r *Resolver) Description(key string) (string, bool) {
	return r.lookup("Category." + key + ".description")
}

func (r *Resolver) lookup(msg string) (string, bool) {
	for _, m := range r.chain {
		if s, ok := m[msg]; ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// loadFS reads every messages*.yaml file in dir of fsys.
func loadFS(fsys fs.FS, dir string) ([]bundle, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var out []bundle
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		tag, ok := tagOf(e.Name())
		if !ok {
			continue
		}
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(dir, e.Name())))
		if err != nil {
			return nil, err
		}
		messages := make(map[string]string)
		if err := yaml.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		out = append(out, bundle{tag: tag, messages: messages})
	}
	return out, nil
}

// tagOf maps messages.yaml to the default locale and messages_pt_BR.yaml
// to pt-BR. Other names are not bundles.
func tagOf(name string) (language.Tag, bool) {
	base, ok := strings.CutSuffix(name, ".yaml")
	if !ok {
		return language.Und, false
	}
	if base == "messages" {
		return DefaultLocale, true
	}
	locale, ok := strings.CutPrefix(base, "messages_")
	if !ok || locale == "" {
		return language.Und, false
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	return tag, err == nil
}

// merge overlays extra on base. Keys of an extra bundle replace those of
// the base bundle with the same locale.
func merge(base, extra []bundle) []bundle {
	for _, e := range extra {
		found := false
		for i := range base {
			if base[i].tag != e.tag {
				continue
			}
			merged := make(map[string]string, len(base[i].messages)+len(e.messages))
			for k, v := range base[i].messages {
				merged[k] = v
			}
			for k, v := range e.messages {
				merged[k] = v
			}
			base[i].messages = merged
			found = true
			break
		}
		if !found {
			base = append(base, e)
		}
	}
	return base
}
