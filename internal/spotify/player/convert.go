package player

import (
	"strings"
	"time"

	"github.com/tessro/tempo/internal/core"
	"github.com/tessro/tempo/internal/spotify/client"
)

// ConvertTrack converts a Spotify track to a core track.
func ConvertTrack(t *client.Track, source core.Source) *core.Track {
	if t == nil {
		return nil
	}

	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	return &core.Track{
		ID:          t.ID,
		URI:         t.URI,
		Title:       t.Name,
		Artist:      strings.Join(artists, ", "),
		Artists:     artists,
		Album:       t.Album.Name,
		AlbumArtURL: client.FirstImage(t.Album.Images),
		Duration:    time.Duration(t.DurationMS) * time.Millisecond,
		Source:      source,
	}
}

// ConvertDevice converts a Spotify device to a core device.
func ConvertDevice(d *client.Device) *core.Device {
	if d == nil {
		return nil
	}

	dt := core.DeviceType(strings.ToLower(d.Type))
	switch dt {
	case core.DeviceTypeComputer, core.DeviceTypeSmartphone, core.DeviceTypeSpeaker,
		core.DeviceTypeTV, core.DeviceTypeCastAudio:
	default:
		dt = core.DeviceTypeUnknown
	}

	dev := &core.Device{
		ID:           d.ID,
		Name:         d.Name,
		Type:         dt,
		IsActive:     d.IsActive,
		IsRestricted: d.IsRestricted,
	}
	if d.VolumePercent != nil {
		dev.Volume = *d.VolumePercent
	}
	return dev
}

// ConvertState converts /me/player to a core state. A nil state is idle.
func ConvertState(s *client.PlaybackState) *core.PlaybackState {
	if s == nil {
		return &core.PlaybackState{Repeat: core.RepeatOff, Timestamp: time.Now()}
	}

	repeat, ok := core.ParseRepeatMode(s.RepeatState)
	if !ok {
		repeat = core.RepeatOff
	}
	out := &core.PlaybackState{
		IsPlaying: s.IsPlaying,
		Progress:  time.Duration(s.ProgressMS) * time.Millisecond,
		Shuffle:   s.ShuffleState,
		Repeat:    repeat,
		Timestamp: time.Now(),
	}
	if s.Device.VolumePercent != nil {
		out.Volume = *s.Device.VolumePercent
	}
	if s.Device.ID != "" {
		out.Device = ConvertDevice(&s.Device)
	}
	if s.Item != nil {
		out.Track = ConvertTrack(s.Item, core.SourcePlayer)
	}
	if s.Context != nil {
		out.ContextURI = s.Context.URI
	}
	return out
}

// ConvertPlaylist converts a Spotify playlist to a core playlist.
func ConvertPlaylist(p *client.Playlist) core.Playlist {
	owner := p.Owner.DisplayName
	if owner == "" {
		owner = p.Owner.ID
	}
	return core.Playlist{
		ID:          p.ID,
		URI:         p.URI,
		Name:        p.Name,
		Description: p.Description,
		Owner:       owner,
		ImageURL:    client.FirstImage(p.Images),
		TrackCount:  p.Tracks.Total,
	}
}

// ConvertArtist converts a Spotify artist to a core artist.
func ConvertArtist(a *client.Artist) core.Artist {
	return core.Artist{
		ID:         a.ID,
		URI:        a.URI,
		Name:       a.Name,
		Genres:     append([]string(nil), a.Genres...),
		Popularity: a.Popularity,
		Followers:  a.Followers.Total,
		ImageURL:   client.FirstImage(a.Images),
	}
}

// ConvertAlbum converts a Spotify album to a core album.
func ConvertAlbum(a *client.Album) core.Album {
	artists := make([]string, len(a.Artists))
	for i, ar := range a.Artists {
		artists[i] = ar.Name
	}
	return core.Album{
		ID:          a.ID,
		URI:         a.URI,
		Name:        a.Name,
		Artists:     artists,
		ReleaseDate: a.ReleaseDate,
		TotalTracks: a.TotalTracks,
		ImageURL:    client.FirstImage(a.Images),
	}
}

// ConvertUser converts a Spotify profile to a core user.
func ConvertUser(u *client.User) *core.User {
	return &core.User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Country:     u.Country,
		Product:     u.Product,
		ImageURL:    client.FirstImage(u.Images),
	}
}
