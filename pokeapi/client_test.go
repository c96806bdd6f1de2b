package pokeapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	castkit "github.com/reoring/castkit"
	"github.com/reoring/castkit/internal/cache"
	"github.com/reoring/castkit/internal/logging"
	"github.com/reoring/castkit/pokeapi/pokeapitest"
)

func newTestClient(t *testing.T, srv *pokeapitest.Server, opts Options) (*Client, *cache.LRUStore) {
	t.Helper()
	store := cache.NewLRUStore(16, 0)
	opts.BaseURL = srv.BaseURL()
	opts.Store = store
	opts.Logger = logging.NewNop()
	if opts.MaxWaitInterval == 0 {
		opts.MaxWaitInterval = time.Millisecond
	}
	c, err := NewClient(opts)
	require.NoError(t, err)
	return c, store
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	assert.Len(t, reg.Names(), len(Definitions()))
}

func TestClient_Fetch(t *testing.T) {
	srv := pokeapitest.NewServer()
	defer srv.Close()
	c, store := newTestClient(t, srv, Options{})
	ctx := context.Background()

	t.Run("list test", func(t *testing.T) {
		list, err := c.Pokemons.Fetch(ctx, Page{Offset: 0, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, 1302, list.Count)
		assert.Nil(t, list.Previous)
		require.Len(t, list.Results, 3)
		assert.Equal(t, "bulbasaur", list.Results[0].Name)
		assert.Equal(t, "pokemon?offset=0&limit=3", c.Pokemons.Path(Page{Limit: 3}))
	})

	t.Run("pokemon test", func(t *testing.T) {
		p, err := c.Pokemon.Fetch(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "bulbasaur", p.Name)
		assert.Equal(t, 69, p.Weight)
		require.NotNil(t, p.BaseExperience)
		assert.Equal(t, 64, *p.BaseExperience)
		require.Len(t, p.Abilities, 2)
		assert.True(t, p.Abilities[1].IsHidden)
		assert.Equal(t, 65, p.Stats[2].BaseStat)
		require.NotNil(t, p.Sprites.Other)
		require.NotNil(t, p.Sprites.Other.Home)
		assert.Equal(t, srv.URL+"/sprites/pokemon/other/home/1.png", *p.Sprites.Other.Home.FrontDefault)
	})

	t.Run("species test", func(t *testing.T) {
		s, err := c.PokemonSpecies.Fetch(ctx, "Bulbasaur")
		require.NoError(t, err)
		assert.Nil(t, s.EvolvesFromSpecies)
		require.NotNil(t, s.Habitat)
		assert.Equal(t, "grassland", s.Habitat.Name)
		assert.Equal(t, "en", s.FlavorTextEntries[1].Language.Name)
		assert.True(t, s.Varieties[0].IsDefault)
		assert.Equal(t, 1, srv.Hits("/api/v2/pokemon-species/bulbasaur"))
	})

	t.Run("cache test", func(t *testing.T) {
		_, err := c.Pokemon.Fetch(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, 1, srv.Hits("/api/v2/pokemon/1"))
		assert.GreaterOrEqual(t, store.Stats().Hits(), int64(1))

		require.NoError(t, c.Pokemon.Invalidate(ctx, "1"))
		_, err = c.Pokemon.Fetch(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, 2, srv.Hits("/api/v2/pokemon/1"))
	})
}

func TestClient_DeduplicatesConcurrentFetches(t *testing.T) {
	srv := pokeapitest.NewServer()
	defer srv.Close()
	c, _ := newTestClient(t, srv, Options{})

	release := make(chan struct{})
	srv.Handle("/api/v2/pokemon/2", func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"id":2,"name":"ivysaur","height":10,"weight":130,"order":2,"is_default":true,
			"abilities":[],"stats":[],"types":[],"sprites":{"front_default":null},
			"species":{"name":"ivysaur","url":"u"}}`))
	})

	const n = 8
	var wg sync.WaitGroup
	results := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := c.Pokemon.Fetch(context.Background(), "2")
			if err == nil && p.Name != "ivysaur" {
				err = errors.New("unexpected name " + p.Name)
			}
			results[i] = err
		}(i)
	}

	// a waiter giving up must not cancel the shared call
	ctx, cancel := context.WithCancel(context.Background())
	canceled := make(chan error, 1)
	go func() {
		_, err := c.Pokemon.Fetch(ctx, "2")
		canceled <- err
	}()
	assert.Eventually(t, func() bool { return srv.Hits("/api/v2/pokemon/2") == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-canceled, context.Canceled)

	close(release)
	wg.Wait()
	for _, err := range results {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, srv.Hits("/api/v2/pokemon/2"))
}

func TestClient_Errors(t *testing.T) {
	srv := pokeapitest.NewServer()
	defer srv.Close()
	ctx := context.Background()

	t.Run("not found test", func(t *testing.T) {
		c, _ := newTestClient(t, srv, Options{MaxRetries: 3})
		_, err := c.Pokemon.Fetch(ctx, "missingno")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusNotFound, se.StatusCode)
		assert.Equal(t, 1, srv.Hits("/api/v2/pokemon/missingno"))
	})

	t.Run("retry test", func(t *testing.T) {
		c, _ := newTestClient(t, srv, Options{MaxRetries: 3})
		var mu sync.Mutex
		calls := 0
		srv.Handle("/api/v2/pokemon/3", func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			calls++
			first := calls == 1
			mu.Unlock()
			if first {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"id":3,"name":"venusaur","height":20,"weight":1000,"order":3,"is_default":true,
				"abilities":[],"stats":[],"types":[],"sprites":{"front_default":null},
				"species":{"name":"venusaur","url":"u"}}`))
		})
		p, err := c.Pokemon.Fetch(ctx, "3")
		require.NoError(t, err)
		assert.Equal(t, "venusaur", p.Name)
		assert.Equal(t, 2, srv.Hits("/api/v2/pokemon/3"))
	})

	t.Run("retries exhausted test", func(t *testing.T) {
		c, _ := newTestClient(t, srv, Options{MaxRetries: 2})
		srv.Handle("/api/v2/pokemon/4", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		_, err := c.Pokemon.Fetch(ctx, "4")
		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Equal(t, 3, srv.Hits("/api/v2/pokemon/4"))
	})

	t.Run("schema mismatch test", func(t *testing.T) {
		c, store := newTestClient(t, srv, Options{})
		srv.Handle("/api/v2/pokemon/5", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":5,"name":"charmeleon"}`))
		})
		_, err := c.Pokemon.Fetch(ctx, "5")
		ve, ok := castkit.AsValidationError(err)
		require.True(t, ok, "expected validation error, got %v", err)
		assert.Equal(t, "height", ve.Key)
		assert.Equal(t, TypePokemon, ve.Parent)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("deep body test", func(t *testing.T) {
		deep := strings.Repeat("[", 1<<16) + strings.Repeat("]", 1<<16)
		srv.Handle("/api/v2/pokemon/6", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(deep))
		})
		for _, opts := range []Options{{MaxDepth: 64}, {}} {
			c, store := newTestClient(t, srv, opts)
			_, err := c.Pokemon.Fetch(ctx, "6")
			ve, ok := castkit.AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, castkit.CodeTooDeep, ve.Code)
			assert.Equal(t, 0, store.Len())
		}
	})

	t.Run("oversized body test", func(t *testing.T) {
		c, store := newTestClient(t, srv, Options{MaxBodyBytes: 16})
		srv.Handle("/api/v2/pokemon/7", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":7,"name":"squirtle"}`))
		})
		_, err := c.Pokemon.Fetch(ctx, "7")
		ve, ok := castkit.AsValidationError(err)
		require.True(t, ok, "expected validation error, got %v", err)
		assert.Equal(t, castkit.CodeTruncated, ve.Code)
		assert.Equal(t, 0, store.Len())
		assert.Equal(t, 1, srv.Hits("/api/v2/pokemon/7"))
	})

	t.Run("strict unknown test", func(t *testing.T) {
		c, _ := newTestClient(t, srv, Options{StrictUnknown: true})
		_, err := c.Pokemons.Fetch(ctx, Page{Limit: 3})
		assert.NoError(t, err)
		_, err = c.Pokemon.Fetch(ctx, "1")
		ve, ok := castkit.AsValidationError(err)
		require.True(t, ok, "expected validation error, got %v", err)
		assert.Equal(t, castkit.CodeUnknownKey, ve.Code)
	})
}

func TestClient_FetchSprite(t *testing.T) {
	srv := pokeapitest.NewServer()
	defer srv.Close()
	c, store := newTestClient(t, srv, Options{})

	sprite, err := c.FetchSprite(context.Background(), srv.URL+"/sprites/pokemon/1.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", sprite.ContentType)
	assert.Equal(t, pokeapitest.PNG, sprite.Data)
	assert.Equal(t, 0, store.Len())

	_, err = c.FetchSprite(context.Background(), srv.URL+"/missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWaitInterval(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, waitInterval(0, time.Second))
	assert.Equal(t, 400*time.Millisecond, waitInterval(2, time.Second))
	assert.Equal(t, time.Second, waitInterval(5, time.Second))
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
}
