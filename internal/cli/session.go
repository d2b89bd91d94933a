package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/tessro/tempo/internal/catalog"
	"github.com/tessro/tempo/internal/config"
	"github.com/tessro/tempo/internal/core"
	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/library"
	"github.com/tessro/tempo/internal/playback"
	"github.com/tessro/tempo/internal/spotify/auth"
	"github.com/tessro/tempo/internal/spotify/client"
	"github.com/tessro/tempo/internal/spotify/player"
	"github.com/tessro/tempo/internal/zen"
)

// session bundles the authenticated client with the layers built on it.
type session struct {
	client  *client.Client
	player  *player.Player
	catalog *player.Library
}

func newClient() (*client.Client, error) {
	if cfg.Spotify.ClientID == "" {
		return nil, tempoerrors.WithSuggestion(
			fmt.Errorf("spotify.client_id not configured"),
			"Set spotify.client_id in your config or export TEMPO_SPOTIFY_CLIENT_ID",
		)
	}

	storage, err := auth.NewTokenStorage("")
	if err != nil {
		return nil, fmt.Errorf("initialize token storage: %w", err)
	}

	return client.New(cfg.Spotify.ClientID, storage,
		client.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		client.WithLogger(logger),
	), nil
}

// newSession returns a session with a stored token, or ErrNotAuthenticated.
func newSession() (*session, error) {
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	if err := c.LoadToken(); err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if !c.HasToken() {
		return nil, tempoerrors.ErrNotAuthenticated
	}

	return &session{
		client:  c,
		player:  player.New(c),
		catalog: player.NewLibrary(c, cfg.Library.PageSize, cfg.Spotify.Market),
	}, nil
}

// engine returns a playback engine over the session's player, synced once
// with the remote state.
func (s *session) engine(ctx context.Context) *playback.Engine {
	e := playback.New(s.player, engineOptions(cfg))
	if err := e.Poll(ctx); err != nil {
		logger.Debug("initial poll failed", "err", err)
	}
	return e
}

func engineOptions(c *config.Config) playback.Options {
	return playback.Options{
		PollInterval:   c.Playback.Poll(),
		SettleTimeout:  c.Playback.Settle(),
		RepeatOffDelay: c.Playback.RepeatOff(),
		Logger:         logger,
	}
}

func (s *session) library() *library.Library {
	return library.New(s.catalog, logger)
}

// target points the player at the named device. With no name the configured
// default is used when it is available.
func (s *session) target(ctx context.Context, name string) (*core.Device, error) {
	explicit := name != ""
	if !explicit {
		name = cfg.Defaults.Device
	}
	if name == "" {
		return nil, nil
	}

	devices, err := s.player.GetDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("get devices: %w", err)
	}
	d, err := resolveDevice(devices, name)
	if err != nil {
		if !explicit {
			logger.Debug("default device unavailable", "device", name)
			return nil, nil
		}
		return nil, err
	}
	s.player.SetDevice(d.ID)
	return d, nil
}

// resolveDevice finds a device by exact ID, then by case-insensitive name,
// then by partial name.
func resolveDevice(devices []core.Device, nameOrID string) (*core.Device, error) {
	for i := range devices {
		if devices[i].ID == nameOrID {
			return &devices[i], nil
		}
	}

	lower := strings.ToLower(nameOrID)
	for i := range devices {
		if strings.ToLower(devices[i].Name) == lower {
			return &devices[i], nil
		}
	}
	for i := range devices {
		if strings.Contains(strings.ToLower(devices[i].Name), lower) {
			return &devices[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %q", tempoerrors.ErrDeviceNotFound, nameOrID)
}

// loadYouTube loads the YouTube catalogue, logging entries that were skipped.
// A missing catalogue yields nil.
func loadYouTube() (*catalog.YouTube, error) {
	path := catalog.Resolve(cfg.Catalog.YouTube, config.Dir(), "youtube")
	if path == "" {
		return nil, nil
	}
	res, err := catalog.LoadYouTube(path)
	if err != nil {
		return nil, err
	}
	if res.HasErrors() {
		logger.Warn("skipped catalogue entries", "file", path, "errors", res.ErrorSummary())
	}
	return res.Data, nil
}

func loadLive() ([]catalog.Video, error) {
	path := catalog.Resolve(cfg.Catalog.Live, config.Dir(), "live")
	if path == "" {
		return nil, nil
	}
	return catalog.LoadLive(path)
}

func loadZen() (*zen.Catalogue, error) {
	path := catalog.Resolve(cfg.Catalog.Zen, config.Dir(), "zen")
	if path == "" {
		return nil, nil
	}
	return zen.Load(path)
}
