package yamlfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/policy"
)

// Loader is an engine.Loader over a YAML policy file. The file is parsed
// by Open and Refresh; the Load methods only read the last good parse.
type Loader struct {
	path string
	now  func() time.Time

	mu  sync.RWMutex
	doc *compiled
}

// Open parses the policy file at path. now decides which badges are still
// valid; nil means time.Now.
func Open(path string, now func() time.Time) (*Loader, error) {
	if now == nil {
		now = time.Now
	}
	l := &Loader{path: path, now: now}
	if err := l.Refresh(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Loader) Path() string { return l.path }

// Refresh re-reads the file. On error the previous parse is kept.
func (l *Loader) Refresh() error {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("read policy file: %w", err)
	}
	doc, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", l.path, err)
	}
	c, err := compile(doc, l.now().UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", l.path, err)
	}

	l.mu.Lock()
	l.doc = c
	l.mu.Unlock()
	return nil
}

// Parse decodes a policy document, rejecting unknown keys.
func Parse(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return Document{}, fmt.Errorf("decode policy: %w", err)
	}
	return doc, nil
}

func (l *Loader) current() *compiled {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.doc
}

func (l *Loader) LoadUsersByBadgeCode(context.Context) (map[string]policy.User, error) {
	return maps.Clone(l.current().usersByBadge), nil
}

func (l *Loader) LoadUserProfiles(context.Context) (map[string][]string, error) {
	out := make(map[string][]string, len(l.current().userProfiles))
	for id, names := range l.current().userProfiles {
		out[id] = append([]string(nil), names...)
	}
	return out, nil
}

func (l *Loader) LoadAllResources(context.Context) (map[string]policy.Resource, error) {
	return maps.Clone(l.current().resources), nil
}

func (l *Loader) LoadResourceGroups(context.Context) (map[string]string, error) {
	return maps.Clone(l.current().groupOf), nil
}

// LoadProfile returns nil, nil when the document has no profile named name.
// Compiled profiles are never mutated, so they are shared with callers.
func (l *Loader) LoadProfile(_ context.Context, name string) (*policy.Profile, error) {
	p, ok := l.current().profiles[name]
	if !ok {
		return nil, nil
	}
	return p, nil
}

// Reloader publishes a new snapshot. *engine.Processor satisfies it.
type Reloader interface {
	ReloadData(ctx context.Context) error
}

// Refresher re-reads the file and then reloads next, as one step. Every
// reload of a processor built on a yamlfile Loader should go through it so
// that a build never straddles two parses.
type Refresher struct {
	loader *Loader
	next   Reloader
	mu     sync.Mutex
}

func NewRefresher(l *Loader, next Reloader) *Refresher {
	return &Refresher{loader: l, next: next}
}

func (r *Refresher) ReloadData(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.loader.Refresh(); err != nil {
		return err
	}
	return r.next.ReloadData(ctx)
}
