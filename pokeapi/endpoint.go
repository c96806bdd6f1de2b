package pokeapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	castkit "github.com/reoring/castkit"
)

// DefaultPageLimit is the number of entries listed per page.
const DefaultPageLimit = 50

// Page selects a window of a list endpoint.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) path() string {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	return fmt.Sprintf("pokemon?offset=%d&limit=%d", p.Offset, p.Limit)
}

// resourcePath builds "<resource>/<id-or-name>" paths.
func resourcePath(resource string) func(string) string {
	return func(id string) string {
		return resource + "/" + url.PathEscape(strings.ToLower(strings.TrimSpace(id)))
	}
}

// Endpoint fetches one kind of resource: P selects the resource and T is the
// typed result.
type Endpoint[P any, T any] struct {
	client   *Client
	name     string
	typeName string
	path     func(P) string
}

// NewEndpoint creates an endpoint decoding responses against typeName.
func NewEndpoint[P any, T any](c *Client, name, typeName string, path func(P) string) *Endpoint[P, T] {
	return &Endpoint[P, T]{client: c, name: name, typeName: typeName, path: path}
}

// Name returns the endpoint name used in logs and metrics.
func (e *Endpoint[P, T]) Name() string { return e.name }

// Path returns the request path for p.
func (e *Endpoint[P, T]) Path(p P) string { return e.path(p) }

// FetchRaw returns the decoded (logical) tree for p.
func (e *Endpoint[P, T]) FetchRaw(ctx context.Context, p P) (any, error) {
	path := e.path(p)
	body, err := e.client.get(ctx, e.name, path)
	if err != nil {
		return nil, err
	}
	v, err := e.client.decode(ctx, e.typeName, body)
	if err != nil {
		// drop a cached body that no longer decodes
		if derr := e.client.store.Delete(ctx, path); derr != nil {
			e.client.logger.Warnf("cache delete %s: %v", path, derr)
		}
		return nil, err
	}
	return v, nil
}

// Fetch returns the typed resource for p.
func (e *Endpoint[P, T]) Fetch(ctx context.Context, p P) (T, error) {
	var zero T
	v, err := e.FetchRaw(ctx, p)
	if err != nil {
		return zero, err
	}
	return castkit.Bind[T](v)
}

// Invalidate drops the cached response for p.
func (e *Endpoint[P, T]) Invalidate(ctx context.Context, p P) error {
	return e.client.store.Delete(ctx, e.path(p))
}
