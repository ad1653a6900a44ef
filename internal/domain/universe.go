package domain

type Universe string

func (u Universe) String() string {
	return string(u)
}

const (
	UniversePokemon      Universe = "pokemon"
	UniverseMarvel       Universe = "marvel"
	UniverseRickAndMorty Universe = "rickandmorty"
)

var Universes = []Universe{
	UniversePokemon,
	UniverseMarvel,
	UniverseRickAndMorty,
}

func (u Universe) GetUniverseName() string {
	switch u {
	case UniversePokemon:
		return "Pokémon"
	case UniverseMarvel:
		return "Marvel"
	case UniverseRickAndMorty:
		return "Rick and Morty"
	default:
		return "Unknown"
	}
}

// Resource is a browsable entity type inside a universe.
type Resource struct {
	Universe Universe `json:"universe"`
	Name     string   `json:"name"`
	// PageNumbered resources paginate with ?page= instead of limit/offset.
	PageNumbered bool `json:"page_numbered"`
	Searchable   bool `json:"searchable"`
}

// Path returns the route prefix, e.g. "marvel/comics".
func (r Resource) Path() string {
	if r.Name == "" {
		return r.Universe.String()
	}
	return r.Universe.String() + "/" + r.Name
}

var (
	ResourcePokemon         = Resource{Universe: UniversePokemon, Searchable: true}
	ResourceMarvelCharacter = Resource{Universe: UniverseMarvel, Name: "characters", Searchable: true}
	ResourceMarvelComic     = Resource{Universe: UniverseMarvel, Name: "comics", Searchable: true}
	ResourceMarvelEvent     = Resource{Universe: UniverseMarvel, Name: "events"}
	ResourceRMCharacter     = Resource{Universe: UniverseRickAndMorty, Name: "characters", PageNumbered: true, Searchable: true}
	ResourceRMLocation      = Resource{Universe: UniverseRickAndMorty, Name: "locations", PageNumbered: true, Searchable: true}
	ResourceRMEpisode       = Resource{Universe: UniverseRickAndMorty, Name: "episodes", PageNumbered: true, Searchable: true}
)

var Resources = []Resource{
	ResourcePokemon,
	ResourceMarvelCharacter,
	ResourceMarvelComic,
	ResourceMarvelEvent,
	ResourceRMCharacter,
	ResourceRMLocation,
	ResourceRMEpisode,
}

// LookupResource finds a resource by its route prefix.
func LookupResource(path string) (Resource, bool) {
	for _, r := range Resources {
		if r.Path() == path {
			return r, true
		}
	}
	return Resource{}, false
}
