package core

// LikedSongsID identifies the virtual playlist backed by the saved-tracks library.
const LikedSongsID = "liked-songs"

// Playlist is a user playlist, or the virtual Liked Songs playlist.
type Playlist struct {
	ID          string `json:"id"`
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner"`
	ImageURL    string `json:"image_url,omitempty"`
	TrackCount  int    `json:"track_count"`
}

// LikedSongs returns the virtual playlist for the saved-tracks library.
func LikedSongs(total int) Playlist {
	return Playlist{
		ID:          LikedSongsID,
		Name:        "Liked Songs",
		Description: "Your saved tracks",
		Owner:       "You",
		TrackCount:  total,
	}
}

// IsLikedSongs reports whether p is the virtual Liked Songs playlist.
func (p Playlist) IsLikedSongs() bool {
	return p.ID == LikedSongsID
}

// Artist is a catalogue artist.
type Artist struct {
	ID         string   `json:"id"`
	URI        string   `json:"uri"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres,omitempty"`
	Popularity int      `json:"popularity"`
	Followers  int      `json:"followers"`
	ImageURL   string   `json:"image_url,omitempty"`
}

// Album is a catalogue album.
type Album struct {
	ID          string   `json:"id"`
	URI         string   `json:"uri"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	ReleaseDate string   `json:"release_date,omitempty"`
	TotalTracks int      `json:"total_tracks"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// User is the authenticated account.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Country     string `json:"country,omitempty"`
	Product     string `json:"product,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}
