package viewer

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/reoring/castkit/internal/logging"
	"github.com/reoring/castkit/pokeapi"
)

// ErrNoSprite is returned when a pokemon has no sprite to show.
var ErrNoSprite = errors.New("pokemon has no sprite")

// Viewer composes the PokeAPI endpoints into displayable values.
type Viewer struct {
	client *pokeapi.Client
	lang   string
}

// New creates a Viewer. An empty lang selects DefaultLanguage.
func New(client *pokeapi.Client, lang string) *Viewer {
	if lang == "" {
		lang = DefaultLanguage
	}
	return &Viewer{client: client, lang: lang}
}

// Client returns the underlying PokeAPI client.
func (v *Viewer) Client() *pokeapi.Client { return v.client }

// List returns one page of the index.
func (v *Viewer) List(ctx context.Context, page pokeapi.Page) ([]Entry, error) {
	list, err := v.client.Pokemons.Fetch(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list pokemon: %w", err)
	}
	return Entries(&list), nil
}

// Profile fetches a pokemon and its species concurrently. A species failure
// is logged and the profile is built without flavor text and genus.
func (v *Viewer) Profile(ctx context.Context, id string) (*Profile, error) {
	var (
		p          pokeapi.Pokemon
		s          pokeapi.PokemonSpecies
		speciesErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if p, err = v.client.Pokemon.Fetch(gctx, id); err != nil {
			return fmt.Errorf("fetch pokemon %s: %w", id, err)
		}
		return nil
	})
	g.Go(func() error {
		s, speciesErr = v.client.PokemonSpecies.Fetch(gctx, id)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if speciesErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logging.From(ctx).Warnf("fetch species %s: %v", id, speciesErr)
		return BuildProfile(&p, nil, v.lang), nil
	}
	return BuildProfile(&p, &s, v.lang), nil
}

// Sprite downloads the sprite shown for a pokemon.
func (v *Viewer) Sprite(ctx context.Context, id string) (*pokeapi.Sprite, error) {
	p, err := v.client.Pokemon.Fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch pokemon %s: %w", id, err)
	}
	u := SpriteURL(&p)
	if u == "" {
		return nil, ErrNoSprite
	}
	return v.client.FetchSprite(ctx, u)
}
