package catalog

import (
	"cmp"
	"fmt"
	"slices"

	tempoerrors "github.com/tessro/tempo/internal/errors"
)

const (
	watchURL     = "https://www.youtube.com/watch?v="
	thumbnailURL = "https://img.youtube.com/vi/%s/hqdefault.jpg"
)

// Video is a YouTube link from either catalogue. Category is the genre for
// track links and the type for live videos.
type Video struct {
	TrackID   string `json:"track_id,omitempty"`
	YouTubeID string `json:"youtube_id" validate:"required"`
	Title     string `json:"title"`
	Category  string `json:"category,omitempty"`
	Format    string `json:"format,omitempty"`
	Language  string `json:"language,omitempty"`
	Lyrics    string `json:"lyrics,omitempty"`
}

// WatchURL links to the video at its best known quality.
func (v Video) WatchURL() string {
	return WatchURL(v.YouTubeID, v.Format)
}

// Thumbnail links to the video's preview image.
func (v Video) Thumbnail() string {
	return fmt.Sprintf(thumbnailURL, v.YouTubeID)
}

// QualityParam maps a format like "1080p" to YouTube's vq parameter.
func QualityParam(format string) string {
	switch format {
	case "4320p":
		return "hd4320"
	case "2160p":
		return "hd2160"
	case "1440p":
		return "hd1440"
	case "1080p":
		return "hd1080"
	case "720p":
		return "hd720"
	case "480p":
		return "large"
	case "360p":
		return "medium"
	case "240p":
		return "small"
	case "144p":
		return "tiny"
	}
	return ""
}

// WatchURL builds a watch link, adding the quality hint when known.
func WatchURL(id, format string) string {
	u := watchURL + id
	if q := QualityParam(format); q != "" {
		u += "&vq=" + q
	}
	return u
}

// YouTube maps Spotify track ids to videos.
type YouTube struct {
	byTrack map[string]Video
}

// LoadYouTube reads a YouTube catalogue. Entries that cannot be understood
// are reported in the result's errors and skipped.
func LoadYouTube(path string) (*tempoerrors.PartialResult[*YouTube], error) {
	var raw map[string]any
	if err := Load(path, &raw); err != nil {
		return nil, err
	}
	return ParseYouTube(raw), nil
}

// ParseYouTube normalizes raw catalogue entries keyed by track id.
func ParseYouTube(raw map[string]any) *tempoerrors.PartialResult[*YouTube] {
	yt := &YouTube{byTrack: make(map[string]Video, len(raw))}
	res := &tempoerrors.PartialResult[*YouTube]{Data: yt}
	for id, entry := range raw {
		v, err := normalize(id, entry)
		if err != nil {
			res.AddError(fmt.Errorf("entry %s: %w", id, err))
			continue
		}
		yt.byTrack[id] = v
	}
	return res
}

// Lookup returns the video for a track.
func (y *YouTube) Lookup(trackID string) (Video, bool) {
	if y == nil {
		return Video{}, false
	}
	v, ok := y.byTrack[trackID]
	return v, ok
}

// Len returns the number of videos.
func (y *YouTube) Len() int {
	if y == nil {
		return 0
	}
	return len(y.byTrack)
}

// Videos returns every video ordered by title, then track id.
func (y *YouTube) Videos() []Video {
	if y == nil {
		return nil
	}
	out := make([]Video, 0, len(y.byTrack))
	for _, v := range y.byTrack {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b Video) int {
		if c := cmp.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return cmp.Compare(a.TrackID, b.TrackID)
	})
	return out
}

// normalize accepts the compact array form
// [youtubeId, format, language, genre, name, lyrics] and the object form
// with long or short keys.
func normalize(trackID string, entry any) (Video, error) {
	v := Video{TrackID: trackID}
	switch e := entry.(type) {
	case []any:
		at := func(i int) string {
			if i < len(e) {
				s, _ := e[i].(string)
				return s
			}
			return ""
		}
		v.YouTubeID = at(0)
		v.Format = at(1)
		v.Language = at(2)
		v.Category = at(3)
		v.Title = at(4)
		if len(e) > 5 {
			v.Lyrics = lyricsFile(trackID, e[5])
		}
	case map[string]any:
		pick := func(keys ...string) string {
			for _, k := range keys {
				if s, ok := e[k].(string); ok && s != "" {
					return s
				}
			}
			return ""
		}
		v.YouTubeID = pick("id", "youtubelinkID")
		v.Format = pick("f", "format")
		v.Language = pick("l", "language")
		v.Category = pick("g", "genre")
		v.Title = pick("n", "name")
		if ly, ok := e["ly"]; ok {
			v.Lyrics = lyricsFile(trackID, ly)
		} else {
			v.Lyrics = pick("lyrics")
		}
	default:
		return Video{}, fmt.Errorf("unexpected entry type %T", entry)
	}

	if err := Validate(v); err != nil {
		return Video{}, err
	}
	return v, nil
}

// lyricsFile resolves the lyrics marker: 1 means "<trackID>.lrc", a string is
// the file name.
func lyricsFile(trackID string, v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == 1 {
			return trackID + ".lrc"
		}
	case int:
		if x == 1 {
			return trackID + ".lrc"
		}
	case int64:
		if x == 1 {
			return trackID + ".lrc"
		}
	case uint64:
		if x == 1 {
			return trackID + ".lrc"
		}
	}
	return ""
}
