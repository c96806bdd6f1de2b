package pokeapi

// NamedAPIResource links to another resource by name.
type NamedAPIResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// APIResource links to another resource.
type APIResource struct {
	URL string `json:"url"`
}

// PokemonList is one page of the pokemon index.
type PokemonList struct {
	Count    int                `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []NamedAPIResource `json:"results"`
}

type Pokemon struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	BaseExperience *int             `json:"baseExperience,omitempty"`
	Height         int              `json:"height"`
	Weight         int              `json:"weight"`
	Order          int              `json:"order"`
	IsDefault      bool             `json:"isDefault"`
	Abilities      []PokemonAbility `json:"abilities"`
	Stats          []PokemonStat    `json:"stats"`
	Types          []PokemonType    `json:"types"`
	Sprites        PokemonSprites   `json:"sprites"`
	Species        NamedAPIResource `json:"species"`
}

type PokemonAbility struct {
	Ability  NamedAPIResource `json:"ability"`
	IsHidden bool             `json:"isHidden"`
	Slot     int              `json:"slot"`
}

type PokemonStat struct {
	BaseStat int              `json:"baseStat"`
	Effort   int              `json:"effort"`
	Stat     NamedAPIResource `json:"stat"`
}

type PokemonType struct {
	Slot int              `json:"slot"`
	Type NamedAPIResource `json:"type"`
}

type PokemonSprites struct {
	FrontDefault *string       `json:"frontDefault"`
	FrontShiny   *string       `json:"frontShiny,omitempty"`
	BackDefault  *string       `json:"backDefault,omitempty"`
	Other        *OtherSprites `json:"other,omitempty"`
}

type OtherSprites struct {
	Home            *SpriteSet `json:"home,omitempty"`
	OfficialArtwork *SpriteSet `json:"officialArtwork,omitempty"`
}

type SpriteSet struct {
	FrontDefault *string `json:"frontDefault"`
	FrontShiny   *string `json:"frontShiny,omitempty"`
}

type PokemonSpecies struct {
	BaseHappiness        *int               `json:"baseHappiness"`
	CaptureRate          int                `json:"captureRate"`
	Color                NamedAPIResource   `json:"color"`
	EggGroups            []NamedAPIResource `json:"eggGroups"`
	EvolutionChain       *APIResource       `json:"evolutionChain"`
	EvolvesFromSpecies   *NamedAPIResource  `json:"evolvesFromSpecies"`
	FlavorTextEntries    []FlavorTextEntry  `json:"flavorTextEntries"`
	FormDescriptions     []any              `json:"formDescriptions"`
	FormsSwitchable      bool               `json:"formsSwitchable"`
	GenderRate           int                `json:"genderRate"`
	Genera               []Genus            `json:"genera"`
	Generation           NamedAPIResource   `json:"generation"`
	GrowthRate           NamedAPIResource   `json:"growthRate"`
	Habitat              *NamedAPIResource  `json:"habitat"`
	HasGenderDifferences bool               `json:"hasGenderDifferences"`
	HatchCounter         *int               `json:"hatchCounter"`
	ID                   int                `json:"id"`
	IsBaby               bool               `json:"isBaby"`
	IsLegendary          bool               `json:"isLegendary"`
	IsMythical           bool               `json:"isMythical"`
	Name                 string             `json:"name"`
	Names                []Name             `json:"names"`
	Order                int                `json:"order"`
	PalParkEncounters    []PalParkEncounter `json:"palParkEncounters"`
	PokedexNumbers       []PokedexNumber    `json:"pokedexNumbers"`
	Shape                *NamedAPIResource  `json:"shape"`
	Varieties            []Variety          `json:"varieties"`
}

type FlavorTextEntry struct {
	FlavorText string            `json:"flavorText"`
	Language   NamedAPIResource  `json:"language"`
	Version    *NamedAPIResource `json:"version,omitempty"`
}

type Genus struct {
	Genus    string           `json:"genus"`
	Language NamedAPIResource `json:"language"`
}

type Name struct {
	Language NamedAPIResource `json:"language"`
	Name     string           `json:"name"`
}

type PalParkEncounter struct {
	Area      NamedAPIResource `json:"area"`
	BaseScore int              `json:"baseScore"`
	Rate      int              `json:"rate"`
}

type PokedexNumber struct {
	EntryNumber int              `json:"entryNumber"`
	Pokedex     NamedAPIResource `json:"pokedex"`
}

type Variety struct {
	IsDefault bool             `json:"isDefault"`
	Pokemon   NamedAPIResource `json:"pokemon"`
}

// Sprite is a fetched image.
type Sprite struct {
	URL         string
	ContentType string
	Data        []byte
}
