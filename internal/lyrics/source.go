package lyrics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/logging"
)

const (
	userAgent = "tempo/1.0 (+https://github.com/tessro/tempo)"
	maxSize   = 1 << 20
)

// Source fetches lyric files from a base URL and caches them on disk.
type Source struct {
	baseURL    string
	cacheDir   string
	httpClient *http.Client
	log        *log.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) { s.httpClient = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Source) { s.log = l }
}

// NewSource creates a source. An empty cacheDir disables caching.
func NewSource(baseURL, cacheDir string, opts ...Option) *Source {
	s := &Source{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cacheDir:   cacheDir,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the lyrics in file, from the cache when present.
func (s *Source) Fetch(ctx context.Context, file string) (*Lyrics, error) {
	name := filepath.Base(file)
	if file == "" || name == "." || name == "/" {
		return nil, tempoerrors.ErrNoLyrics
	}

	if data, err := os.ReadFile(s.cachePath(name)); err == nil {
		s.log.Debug("lyrics cache hit", "file", name)
		return ParseLRC(bytes.NewReader(data))
	}

	data, err := s.download(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.save(name, data); err != nil {
		s.log.Warn("cache lyrics", "file", name, "err", err)
	}
	return ParseLRC(bytes.NewReader(data))
}

func (s *Source) download(ctx context.Context, name string) ([]byte, error) {
	url := s.baseURL + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tempoerrors.ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, tempoerrors.ErrNoLyrics
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch lyrics: unexpected status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize))
	if err != nil {
		return nil, fmt.Errorf("read lyrics: %w", err)
	}
	return data, nil
}

func (s *Source) cachePath(name string) string {
	if s.cacheDir == "" {
		return ""
	}
	return filepath.Join(s.cacheDir, name)
}

func (s *Source) save(name string, data []byte) error {
	path := s.cachePath(name)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// IsMissing reports whether err means there are no lyrics for a track.
func IsMissing(err error) bool {
	return errors.Is(err, tempoerrors.ErrNoLyrics)
}
