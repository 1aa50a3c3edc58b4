// Package rendermime maps MIME types to renderers and picks the preferred
// representation of a MIME bundle.
//
// A Registry is assembled once with a Builder and is read-only afterwards,
// so a single Registry may be shared by any number of output areas.
package rendermime

import (
	"errors"
	"fmt"

	"github.com/sonnes/nbout/core"
	"golang.org/x/net/html"
)

// ErrNoRenderer is returned when no MIME type in a bundle has a renderer.
var ErrNoRenderer = errors.New("no renderer for bundle")

// Renderer converts a payload of one of its declared MIME types into a
// detached node. Returning a nil node with a nil error declines the payload.
type Renderer interface {
	MimeTypes() []string
	Render(mimetype, data string) (*html.Node, error)
}

// Registry is an immutable, ordered MIME type to renderer table.
type Registry struct {
	order     []string
	renderers map[string]Renderer
}

// Builder accumulates registrations before a Registry is built.
type Builder struct {
	order     []string
	renderers map[string]Renderer
	excluded  map[string]bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		renderers: make(map[string]Renderer),
		excluded:  make(map[string]bool),
	}
}

// Exclude makes subsequent registrations skip the given MIME types.
func (b *Builder) Exclude(mimetypes ...string) *Builder {
	for _, m := range mimetypes {
		b.excluded[m] = true
	}
	return b
}

// Register binds each MIME type r declares to r, appending it to the
// preference order on first registration. A later registration for the same
// MIME type replaces the earlier binding but keeps its original position.
func (b *Builder) Register(r Renderer) *Builder {
	for _, m := range r.MimeTypes() {
		if b.excluded[m] {
			continue
		}
		if _, ok := b.renderers[m]; !ok {
			b.order = append(b.order, m)
		}
		b.renderers[m] = r
	}
	return b
}

// Build returns a Registry holding a snapshot of the registrations.
func (b *Builder) Build() *Registry {
	reg := &Registry{
		order:     make([]string, len(b.order)),
		renderers: make(map[string]Renderer, len(b.renderers)),
	}
	copy(reg.order, b.order)
	for m, r := range b.renderers {
		reg.renderers[m] = r
	}
	return reg
}

// New builds a Registry from renderers in registration order.
func New(renderers ...Renderer) *Registry {
	b := NewBuilder()
	for _, r := range renderers {
		b.Register(r)
	}
	return b.Build()
}

// Lookup returns the renderer bound to mimetype.
func (r *Registry) Lookup(mimetype string) (Renderer, bool) {
	rnd, ok := r.renderers[mimetype]
	return rnd, ok
}

// Order returns the MIME types in preference order.
func (r *Registry) Order() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// PreferredMimeType returns the first MIME type in preference order that is
// present in bundle. Bundle key order plays no part.
func (r *Registry) PreferredMimeType(bundle core.Bundle) (string, bool) {
	for _, m := range r.order {
		if _, ok := bundle[m]; ok {
			return m, true
		}
	}
	return "", false
}

// Render renders the preferred representation of bundle. It returns the
// node and the MIME type that was chosen. A nil node with a nil error means
// the chosen renderer declined the payload.
func (r *Registry) Render(bundle core.Bundle) (*html.Node, string, error) {
	m, ok := r.PreferredMimeType(bundle)
	if !ok {
		return nil, "", ErrNoRenderer
	}
	node, err := r.renderers[m].Render(m, bundle[m])
	if err != nil {
		return nil, m, fmt.Errorf("render %s: %w", m, err)
	}
	return node, m, nil
}
