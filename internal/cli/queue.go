package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/core"
	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/playback"
)

var (
	queueLimit  int
	queueAddURI string
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the playback queue",
	Long:  `Show the current track and the tracks queued after it.`,
	RunE:  runQueueList,
}

var queueAddCmd = &cobra.Command{
	Use:   "add [query]",
	Short: "Add a track to the queue",
	Long: `Search for a track and add it to the queue.

Examples:
  tempo queue add "bohemian rhapsody"
  tempo queue add --uri spotify:track:xxx`,
	RunE: runQueueAdd,
}

var queuePlayCmd = &cobra.Command{
	Use:   "play <position>",
	Short: "Play a queued track",
	Long: `Jump to a track in the queue. Playback continues in the context the
queue came from, and repeat is switched off shortly after.`,
	Args: cobra.ExactArgs(1),
	RunE: runQueuePlay,
}

func init() {
	queueCmd.Flags().IntVarP(&queueLimit, "limit", "l", 20, "Maximum number of tracks to show")
	queueAddCmd.Flags().StringVar(&queueAddURI, "uri", "", "Add specific Spotify URI to queue")

	queueCmd.AddCommand(queueAddCmd)
	queueCmd.AddCommand(queuePlayCmd)
	rootCmd.AddCommand(queueCmd)
}

func runQueueList(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	queue, err := s.player.GetQueue(cmd.Context())
	if err != nil {
		return fmt.Errorf("get queue: %w", err)
	}

	if queue.IsEmpty() {
		if JSONOutput() {
			return printJSON(map[string]any{
				"queue":   []any{},
				"message": "Queue is empty",
			})
		}
		fmt.Println("Queue is empty")
		return nil
	}

	upcoming := queue.Upcoming()
	shown := upcoming
	if queueLimit > 0 && len(shown) > queueLimit {
		shown = shown[:queueLimit]
	}

	if JSONOutput() {
		return printJSON(map[string]any{
			"current": trackJSON(queue.Current()),
			"queue":   tracksJSON(shown),
			"total":   len(upcoming),
		})
	}

	if cur := queue.Current(); cur != nil {
		fmt.Printf("▶ %s - %s (%s)\n\n", cur.Title, cur.Artist, core.FormatDuration(cur.Duration))
	}
	fmt.Printf("Up next (%s):\n", core.FormatDuration(queue.Remaining()))
	for i, t := range shown {
		fmt.Printf("  %d. %s - %s (%s)\n", i+1, t.Title, t.Artist, core.FormatDuration(t.Duration))
	}
	if len(upcoming) > len(shown) {
		fmt.Printf("\n... and %d more tracks\n", len(upcoming)-len(shown))
	}
	return nil
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if queueAddURI == "" && len(args) == 0 {
		return fmt.Errorf("give a search query or --uri")
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	e := s.engine(ctx)

	uri, name := queueAddURI, queueAddURI
	if uri == "" {
		query := args[0]
		tracks, err := s.catalog.SearchTracks(ctx, query, 1)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if len(tracks) == 0 {
			return fmt.Errorf("%w: no tracks for %q", tempoerrors.ErrTrackNotFound, query)
		}
		uri = tracks[0].URI
		name = fmt.Sprintf("%s by %s", tracks[0].Title, tracks[0].Artist)
	}

	if err := e.AddToQueue(ctx, uri); err != nil {
		return fmt.Errorf("add to queue: %w", err)
	}

	return report("added", "Added to queue: "+name, map[string]any{"uri": uri, "name": name})
}

func runQueuePlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pos, err := strconv.Atoi(args[0])
	if err != nil || pos < 1 {
		return fmt.Errorf("invalid position %q", args[0])
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	e := s.engine(ctx)

	queue, err := e.Queue(ctx)
	if err != nil {
		return fmt.Errorf("get queue: %w", err)
	}
	t, ok := queue.Next(pos)
	if !ok {
		return fmt.Errorf("queue has %d tracks", len(queue.Upcoming()))
	}

	// A fresh engine has no queue context; fall back to what is playing.
	if st := e.State(); st != nil && st.ContextURI != "" {
		e.SaveContext(playback.QueueContext{ContextURI: st.ContextURI})
	}

	if err := e.PlayFromQueue(ctx, t.URI); err != nil {
		return fmt.Errorf("play from queue: %w", err)
	}

	// The engine's repeat-off timer dies with the process; wait it out here.
	e.Close()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(cfg.Playback.RepeatOff()):
	}
	if err := s.player.Repeat(ctx, core.RepeatOff); err != nil {
		logger.Warn("repeat off failed", "err", err)
	}

	return report("playing", fmt.Sprintf("▶ Playing %s - %s", t.Title, t.Artist),
		map[string]any{"track": trackJSON(&t)})
}
