// Package viewer derives what the pokeview surfaces display from PokeAPI
// resources.
package viewer

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/reoring/castkit/pokeapi"
)

// DefaultLanguage selects flavor text and genus entries.
const DefaultLanguage = "en"

// Stat is one base stat.
type Stat struct {
	Name string `json:"name"`
	Base int    `json:"base"`
}

// Profile is the derived view of one pokemon.
type Profile struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	SpriteURL   string   `json:"spriteUrl,omitempty"`
	Height      int      `json:"height"`
	Weight      int      `json:"weight"`
	Types       []string `json:"types"`
	Abilities   []string `json:"abilities"`
	Stats       []Stat   `json:"stats"`
	FlavorText  string   `json:"flavorText,omitempty"`
	Genus       string   `json:"genus,omitempty"`
	Varieties   []string `json:"varieties,omitempty"`
}

// BuildProfile combines a pokemon with its species. s may be nil.
func BuildProfile(p *pokeapi.Pokemon, s *pokeapi.PokemonSpecies, lang string) *Profile {
	if lang == "" {
		lang = DefaultLanguage
	}
	prof := &Profile{
		ID:          p.ID,
		Name:        p.Name,
		DisplayName: Capitalize(p.Name),
		SpriteURL:   SpriteURL(p),
		Height:      p.Height,
		Weight:      p.Weight,
		Types:       make([]string, 0, len(p.Types)),
		Abilities:   make([]string, 0, len(p.Abilities)),
		Stats:       make([]Stat, 0, len(p.Stats)),
	}
	for _, t := range p.Types {
		prof.Types = append(prof.Types, t.Type.Name)
	}
	for _, a := range p.Abilities {
		prof.Abilities = append(prof.Abilities, a.Ability.Name)
	}
	for _, st := range p.Stats {
		prof.Stats = append(prof.Stats, Stat{Name: st.Stat.Name, Base: st.BaseStat})
	}
	if s != nil {
		prof.FlavorText = FlavorText(s, lang)
		for _, g := range s.Genera {
			if g.Language.Name == lang {
				prof.Genus = g.Genus
				break
			}
		}
		for _, v := range s.Varieties {
			prof.Varieties = append(prof.Varieties, v.Pokemon.Name)
		}
	}
	return prof
}

// SpriteURL prefers the home artwork over the default front sprite.
func SpriteURL(p *pokeapi.Pokemon) string {
	if o := p.Sprites.Other; o != nil && o.Home != nil && o.Home.FrontDefault != nil && *o.Home.FrontDefault != "" {
		return *o.Home.FrontDefault
	}
	if p.Sprites.FrontDefault != nil {
		return *p.Sprites.FrontDefault
	}
	return ""
}

// FlavorText returns the first entry written in lang, with line and page
// breaks folded into single spaces.
func FlavorText(s *pokeapi.PokemonSpecies, lang string) string {
	for _, e := range s.FlavorTextEntries {
		if e.Language.Name == lang {
			return strings.Join(strings.Fields(e.FlavorText), " ")
		}
	}
	return ""
}

// Capitalize upper-cases the first letter.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// IDFromURL returns the second-to-last path segment of a resource URL,
// e.g. "1" for "https://pokeapi.co/api/v2/pokemon/1/".
func IDFromURL(raw string) string {
	path := raw
	if u, err := url.Parse(raw); err == nil {
		path = u.Path
	}
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// Entry is one row of the pokemon index.
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Entries lists the page results with their ids.
func Entries(list *pokeapi.PokemonList) []Entry {
	out := make([]Entry, 0, len(list.Results))
	for _, r := range list.Results {
		out = append(out, Entry{ID: IDFromURL(r.URL), Name: r.Name, URL: r.URL})
	}
	return out
}
