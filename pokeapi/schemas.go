package pokeapi

import (
	c "github.com/reoring/castkit"
)

// Registered schema names.
const (
	TypeNamedAPIResource = "NamedAPIResource"
	TypeAPIResource      = "APIResource"
	TypePokemonList      = "PokemonList"
	TypePokemon          = "Pokemon"
	TypePokemonAbility   = "PokemonAbility"
	TypePokemonStat      = "PokemonStat"
	TypePokemonType      = "PokemonType"
	TypePokemonSprites   = "PokemonSprites"
	TypeOtherSprites     = "OtherSprites"
	TypeSpriteSet        = "SpriteSet"
	TypePokemonSpecies   = "PokemonSpecies"
	TypeFlavorTextEntry  = "FlavorTextEntry"
	TypeGenus            = "Genus"
	TypeName             = "Name"
	TypePalParkEncounter = "PalParkEncounter"
	TypePokedexNumber    = "PokedexNumber"
	TypeVariety          = "Variety"
)

func ref(name string) c.Node { return c.Ref(name) }

// Definitions returns the schema definitions of the PokeAPI resources in use.
// Wire keys are snake_case and logical keys camelCase.
func Definitions() map[string]c.Node {
	named := ref(TypeNamedAPIResource)
	return map[string]c.Node{
		TypeNamedAPIResource: c.Object(
			c.Field("name", c.String()),
			c.Field("url", c.String()),
		),
		TypeAPIResource: c.Object(
			c.Field("url", c.String()),
		),
		TypePokemonList: c.Object(
			c.Field("count", c.Number()),
			c.Field("next", c.Nullable(c.String())),
			c.Field("previous", c.Nullable(c.String())),
			c.Field("results", c.Array(named)),
		),
		TypePokemon: c.Object(
			c.Field("id", c.Number()),
			c.Field("name", c.String()),
			c.Rename("base_experience", "baseExperience", c.Optional(c.Nullable(c.Number()))),
			c.Field("height", c.Number()),
			c.Field("weight", c.Number()),
			c.Field("order", c.Number()),
			c.Rename("is_default", "isDefault", c.Bool()),
			c.Field("abilities", c.Array(ref(TypePokemonAbility))),
			c.Field("stats", c.Array(ref(TypePokemonStat))),
			c.Field("types", c.Array(ref(TypePokemonType))),
			c.Field("sprites", ref(TypePokemonSprites)),
			c.Field("species", named),
		),
		TypePokemonAbility: c.Object(
			c.Field("ability", named),
			c.Rename("is_hidden", "isHidden", c.Bool()),
			c.Field("slot", c.Number()),
		),
		TypePokemonStat: c.Object(
			c.Rename("base_stat", "baseStat", c.Number()),
			c.Field("effort", c.Number()),
			c.Field("stat", named),
		),
		TypePokemonType: c.Object(
			c.Field("slot", c.Number()),
			c.Field("type", named),
		),
		TypePokemonSprites: c.Object(
			c.Rename("front_default", "frontDefault", c.Nullable(c.String())),
			c.Rename("front_shiny", "frontShiny", c.Optional(c.Nullable(c.String()))),
			c.Rename("back_default", "backDefault", c.Optional(c.Nullable(c.String()))),
			c.Field("other", c.Optional(c.Nullable(ref(TypeOtherSprites)))),
		),
		TypeOtherSprites: c.Object(
			c.Field("home", c.Optional(ref(TypeSpriteSet))),
			c.Rename("official-artwork", "officialArtwork", c.Optional(ref(TypeSpriteSet))),
		),
		TypeSpriteSet: c.Object(
			c.Rename("front_default", "frontDefault", c.Nullable(c.String())),
			c.Rename("front_shiny", "frontShiny", c.Optional(c.Nullable(c.String()))),
		),
		TypePokemonSpecies: c.Object(
			c.Rename("base_happiness", "baseHappiness", c.Nullable(c.Number())),
			c.Rename("capture_rate", "captureRate", c.Number()),
			c.Field("color", named),
			c.Rename("egg_groups", "eggGroups", c.Array(named)),
			c.Rename("evolution_chain", "evolutionChain", c.Nullable(ref(TypeAPIResource))),
			c.Rename("evolves_from_species", "evolvesFromSpecies", c.Nullable(named)),
			c.Rename("flavor_text_entries", "flavorTextEntries", c.Array(ref(TypeFlavorTextEntry))),
			c.Rename("form_descriptions", "formDescriptions", c.Array(c.Any())),
			c.Rename("forms_switchable", "formsSwitchable", c.Bool()),
			c.Rename("gender_rate", "genderRate", c.Number()),
			c.Field("genera", c.Array(ref(TypeGenus))),
			c.Field("generation", named),
			c.Rename("growth_rate", "growthRate", named),
			c.Field("habitat", c.Nullable(named)),
			c.Rename("has_gender_differences", "hasGenderDifferences", c.Bool()),
			c.Rename("hatch_counter", "hatchCounter", c.Nullable(c.Number())),
			c.Field("id", c.Number()),
			c.Rename("is_baby", "isBaby", c.Bool()),
			c.Rename("is_legendary", "isLegendary", c.Bool()),
			c.Rename("is_mythical", "isMythical", c.Bool()),
			c.Field("name", c.String()),
			c.Field("names", c.Array(ref(TypeName))),
			c.Field("order", c.Number()),
			c.Rename("pal_park_encounters", "palParkEncounters", c.Array(ref(TypePalParkEncounter))),
			c.Rename("pokedex_numbers", "pokedexNumbers", c.Array(ref(TypePokedexNumber))),
			c.Field("shape", c.Nullable(named)),
			c.Field("varieties", c.Array(ref(TypeVariety))),
		),
		TypeFlavorTextEntry: c.Object(
			c.Rename("flavor_text", "flavorText", c.String()),
			c.Field("language", named),
			c.Field("version", c.Optional(named)),
		),
		TypeGenus: c.Object(
			c.Field("genus", c.String()),
			c.Field("language", named),
		),
		TypeName: c.Object(
			c.Field("language", named),
			c.Field("name", c.String()),
		),
		TypePalParkEncounter: c.Object(
			c.Field("area", named),
			c.Rename("base_score", "baseScore", c.Number()),
			c.Field("rate", c.Number()),
		),
		TypePokedexNumber: c.Object(
			c.Rename("entry_number", "entryNumber", c.Number()),
			c.Field("pokedex", named),
		),
		TypeVariety: c.Object(
			c.Rename("is_default", "isDefault", c.Bool()),
			c.Field("pokemon", named),
		),
	}
}

// NewRegistry returns the validated registry of PokeAPI schemas.
func NewRegistry() (*c.Registry, error) {
	return c.NewRegistry(Definitions())
}
