package domain

type RMPlace struct {
	ID   *int   `json:"id"`
	Name string `json:"name"`
}

type RMCharacter struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Species    string  `json:"species"`
	Type       string  `json:"type"`
	Gender     string  `json:"gender"`
	Origin     RMPlace `json:"origin"`
	Location   RMPlace `json:"location"`
	Image      string  `json:"image"`
	EpisodeIDs []int   `json:"episode_ids"`
}

type RMLocation struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Dimension   string `json:"dimension"`
	ResidentIDs []int  `json:"resident_ids"`
}

type RMEpisode struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	AirDate      string `json:"air_date"`
	Code         string `json:"episode"`
	CharacterIDs []int  `json:"character_ids"`
}
