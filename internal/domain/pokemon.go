package domain

type PokemonSummary struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Image string   `json:"image"`
	Types []string `json:"types"`
}

type PokemonAbility struct {
	Name     string `json:"name"`
	IsHidden bool   `json:"is_hidden"`
}

type PokemonStat struct {
	Name     string `json:"name"`
	BaseStat int    `json:"base_stat"`
	Effort   int    `json:"effort"`
}

type PokemonImages struct {
	FrontDefault    string `json:"front_default"`
	FrontShiny      string `json:"front_shiny"`
	BackDefault     string `json:"back_default"`
	BackShiny       string `json:"back_shiny"`
	OfficialArtwork string `json:"official_artwork"`
	DreamWorld      string `json:"dream_world"`
}

type GenderRate struct {
	FemalePercent *float64 `json:"female_percent"`
	MalePercent   *float64 `json:"male_percent"`
	Genderless    bool     `json:"genderless"`
}

// NewGenderRate converts the upstream eighths-female rate; -1 means genderless.
func NewGenderRate(rate int) GenderRate {
	if rate < 0 {
		return GenderRate{Genderless: true}
	}
	female := float64(rate) / 8 * 100
	male := 100 - female
	return GenderRate{FemalePercent: &female, MalePercent: &male}
}

type PokemonSpecies struct {
	Name        string     `json:"name"`
	IsLegendary bool       `json:"is_legendary"`
	IsMythical  bool       `json:"is_mythical"`
	Habitat     *string    `json:"habitat"`
	FlavorText  string     `json:"flavor_text"`
	GenderRate  GenderRate `json:"gender_rate"`
}

type PokemonDetails struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Height         float64          `json:"height"` // metres
	Weight         float64          `json:"weight"` // kilograms
	BaseExperience int              `json:"base_experience"`
	Types          []string         `json:"types"`
	Abilities      []PokemonAbility `json:"abilities"`
	Stats          []PokemonStat    `json:"stats"`
	Moves          []string         `json:"moves"`
	Images         PokemonImages    `json:"images"`
	Species        PokemonSpecies   `json:"species"`
}

// Summary reduces the details to the list representation.
func (d *PokemonDetails) Summary() PokemonSummary {
	image := d.Images.OfficialArtwork
	if image == "" {
		image = d.Images.FrontDefault
	}
	return PokemonSummary{
		ID:    d.ID,
		Name:  d.Name,
		Image: image,
		Types: d.Types,
	}
}
