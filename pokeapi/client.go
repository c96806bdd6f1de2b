// Package pokeapi fetches PokeAPI resources and casts them through their
// registered schemas. Responses are cached by request path and concurrent
// requests for the same path share one upstream call.
package pokeapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	castkit "github.com/reoring/castkit"
	"github.com/reoring/castkit/internal/cache"
	"github.com/reoring/castkit/internal/logging"
	"github.com/reoring/castkit/internal/metrics"
)

const (
	// DefaultBaseURL is the public PokeAPI root.
	DefaultBaseURL = "https://pokeapi.co/api/v2/"

	DefaultRequestTimeout  = 30 * time.Second
	DefaultMaxRetries      = 3
	DefaultMaxWaitInterval = 3 * time.Second
	DefaultMaxBodyBytes    = 8 << 20
	DefaultMaxSpriteBytes  = 4 << 20
	DefaultCacheSize       = 512
)

var (
	// ErrUnexpectedStatus is returned when the upstream answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrNotFound is returned when the upstream answers 404.
	ErrNotFound = errors.New("resource not found")

	// ErrUpstreamUnavailable is returned when retries are exhausted.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// StatusError carries a non-2xx upstream status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d: %s", e.URL, e.StatusCode, ErrUnexpectedStatus)
}

// Is matches ErrUnexpectedStatus, and ErrNotFound for 404.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus || (target == ErrNotFound && e.StatusCode == http.StatusNotFound)
}

// Options are the options for the client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Store      cache.Store
	Logger     logging.Logger
	Metrics    *metrics.Metrics

	RequestTimeout  time.Duration
	MaxRetries      uint64
	MaxWaitInterval time.Duration
	MaxBodyBytes    int64

	// StrictUnknown rejects undeclared keys in responses instead of dropping them.
	StrictUnknown bool
	// MaxDepth bounds response nesting for both parsing and casting; zero
	// keeps castkit.DefaultMaxDepth.
	MaxDepth int
}

// Client fetches PokeAPI resources.
type Client struct {
	base    *url.URL
	http    *http.Client
	store   cache.Store
	logger  logging.Logger
	metrics *metrics.Metrics
	caster  *castkit.Caster
	group   singleflight.Group
	options Options

	Pokemons       *Endpoint[Page, PokemonList]
	Pokemon        *Endpoint[string, Pokemon]
	PokemonSpecies *Endpoint[string, PokemonSpecies]
}

// NewClient creates a new instance of Client.
func NewClient(options Options) (*Client, error) {
	if options.BaseURL == "" {
		options.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(options.BaseURL, "/") {
		options.BaseURL += "/"
	}
	base, err := url.Parse(options.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", base.Scheme)
	}
	if options.HTTPClient == nil {
		options.HTTPClient = http.DefaultClient
	}
	if options.Store == nil {
		options.Store = cache.NewLRUStore(DefaultCacheSize, 0)
	}
	if options.Logger == nil {
		options.Logger = logging.New("pokeapi")
	}
	if options.RequestTimeout <= 0 {
		options.RequestTimeout = DefaultRequestTimeout
	}
	if options.MaxWaitInterval <= 0 {
		options.MaxWaitInterval = DefaultMaxWaitInterval
	}
	if options.MaxBodyBytes <= 0 {
		options.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if options.MaxDepth <= 0 {
		options.MaxDepth = castkit.DefaultMaxDepth
	}

	reg, err := NewRegistry()
	if err != nil {
		return nil, err
	}

	c := &Client{
		base:    base,
		http:    options.HTTPClient,
		store:   options.Store,
		logger:  options.Logger,
		metrics: options.Metrics,
		caster:  castkit.NewCaster(reg, castkit.WithStrictUnknown(options.StrictUnknown), castkit.WithMaxDepth(options.MaxDepth)),
		options: options,
	}
	c.Pokemons = NewEndpoint[Page, PokemonList](c, "pokemons", TypePokemonList, Page.path)
	c.Pokemon = NewEndpoint[string, Pokemon](c, "pokemon", TypePokemon, resourcePath("pokemon"))
	c.PokemonSpecies = NewEndpoint[string, PokemonSpecies](c, "pokemon-species", TypePokemonSpecies, resourcePath("pokemon-species"))
	return c, nil
}

// Caster returns the caster holding the PokeAPI registry.
func (c *Client) Caster() *castkit.Caster {
	return c.caster
}

// get returns the body stored under path, fetching it when missing.
// Concurrent callers for one path share a single upstream call, which runs
// detached from any one caller's cancellation.
func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	if body, ok, err := c.store.Get(ctx, path); err != nil {
		c.logger.Warnf("cache get %s: %v", path, err)
	} else if ok {
		c.metrics.ObserveCache(endpoint, true)
		return body, nil
	}
	c.metrics.ObserveCache(endpoint, false)

	ch := c.group.DoChan(path, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.options.RequestTimeout)
		defer cancel()

		start := time.Now()
		body, err := c.fetch(shared, endpoint, path)
		c.metrics.ObserveFetch(endpoint, err, time.Since(start))
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(shared, path, body); err != nil {
			c.logger.Warnf("cache set %s: %v", path, err)
		}
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// resolve turns a relative path or an absolute URL into an absolute URL.
func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", path, err)
	}
	return c.base.ResolveReference(ref).String(), nil
}

func (c *Client) fetch(ctx context.Context, endpoint, path string) ([]byte, error) {
	u, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	var body []byte
	_, err = c.withExponentialBackoff(ctx, endpoint, func() (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return 0, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return 0, fmt.Errorf("get %s: %w", u, err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				c.logger.Error(err)
			}
		}()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return resp.StatusCode, &StatusError{URL: u, StatusCode: resp.StatusCode}
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, c.options.MaxBodyBytes+1))
		if err != nil {
			return resp.StatusCode, fmt.Errorf("read %s: %w", u, err)
		}
		if int64(len(body)) > c.options.MaxBodyBytes {
			body = nil
			return resp.StatusCode, &castkit.ValidationError{
				Code:  castkit.CodeTruncated,
				Path:  "/",
				Cause: fmt.Errorf("%s: body exceeds %d bytes", u, c.options.MaxBodyBytes),
			}
		}
		return resp.StatusCode, nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// decode parses body and casts it against the registered type.
func (c *Client) decode(ctx context.Context, typeName string, body []byte) (any, error) {
	var v any
	raw, err := castkit.ParseJSON(body, castkit.ParseOpt{MaxDepth: c.options.MaxDepth})
	if err == nil {
		v, err = c.caster.DecodeType(raw, typeName)
	}
	if err == nil {
		return v, nil
	}
	code := castkit.CodeParseError
	if ve, ok := castkit.AsValidationError(err); ok {
		code = ve.Code
	}
	c.metrics.AddDecodeFailure(typeName, code)
	c.logger.Errorf("decode %s: %v", typeName, err)
	return nil, fmt.Errorf("decode %s: %w", typeName, err)
}

// FetchSprite downloads an image in one shot, bypassing the cache.
func (c *Client) FetchSprite(ctx context.Context, spriteURL string) (*Sprite, error) {
	u, err := c.resolve(spriteURL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveFetch("sprite", err, time.Since(start))
		return nil, fmt.Errorf("get %s: %w", u, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error(err)
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &StatusError{URL: u, StatusCode: resp.StatusCode}
		c.metrics.ObserveFetch("sprite", err, time.Since(start))
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, DefaultMaxSpriteBytes+1))
	if err == nil && len(data) > DefaultMaxSpriteBytes {
		err = fmt.Errorf("sprite exceeds %d bytes", DefaultMaxSpriteBytes)
	}
	c.metrics.ObserveFetch("sprite", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &Sprite{URL: u, ContentType: contentType, Data: data}, nil
}
