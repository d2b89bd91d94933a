package catalog

type liveFile struct {
	Live []liveVideo `json:"live" yaml:"live" toml:"live" validate:"dive"`
}

type liveVideo struct {
	YouTubeID string `json:"youtubeLinkID" yaml:"youtubeLinkID" toml:"youtubeLinkID" validate:"required"`
	Title     string `json:"title" yaml:"title" toml:"title"`
	Type      string `json:"type" yaml:"type" toml:"type"`
	Language  string `json:"language" yaml:"language" toml:"language"`
	Format    string `json:"format" yaml:"format" toml:"format"`
}

// LoadLive reads the live performance catalogue in file order.
func LoadLive(path string) ([]Video, error) {
	var f liveFile
	if err := Load(path, &f); err != nil {
		return nil, err
	}
	videos := make([]Video, len(f.Live))
	for i, l := range f.Live {
		videos[i] = Video{
			YouTubeID: l.YouTubeID,
			Title:     l.Title,
			Category:  l.Type,
			Language:  l.Language,
			Format:    l.Format,
		}
	}
	return videos, nil
}
