package playback

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/tessro/tempo/internal/core"
	tempoerrors "github.com/tessro/tempo/internal/errors"
	"github.com/tessro/tempo/internal/logging"
)

const (
	DefaultPollInterval   = time.Second
	DefaultTickInterval   = time.Second
	DefaultSettleTimeout  = 1500 * time.Millisecond
	DefaultRepeatOffDelay = time.Second

	commandTimeout = 10 * time.Second
)

// ErrNothingToPlay is returned when a play request has no tracks or context.
var ErrNothingToPlay = errors.New("nothing to play")

// Options configures an Engine. Zero values use the defaults.
type Options struct {
	PollInterval   time.Duration
	TickInterval   time.Duration
	SettleTimeout  time.Duration
	RepeatOffDelay time.Duration
	Logger         *log.Logger
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.SettleTimeout <= 0 {
		o.SettleTimeout = DefaultSettleTimeout
	}
	if o.RepeatOffDelay <= 0 {
		o.RepeatOffDelay = DefaultRepeatOffDelay
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	return o
}

// Engine merges polled remote state with optimistic local changes.
//
// Every command patches the local state immediately and records what it
// expects the remote to report. Polled snapshots that contradict a pending
// expectation are overridden until the remote confirms it or the settle
// timeout passes. A failed command restores the fields it touched.
type Engine struct {
	player core.Player
	opts   Options
	log    *log.Logger

	mu          sync.Mutex
	state       *core.PlaybackState
	heard       *core.PlaybackState
	hash        uint64
	lastAdvance time.Time
	pending     []expectation
	queueCtx    QueueContext
	savedCtx    QueueContext
	devices     []core.Device
	repeatOff   *time.Timer

	subsMu sync.RWMutex
	subs   []*Subscription
	closed bool

	nudge chan struct{}
}

// New creates an engine for player.
func New(player core.Player, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		player: player,
		opts:   opts,
		log:    opts.Logger,
		nudge:  make(chan struct{}, 1),
	}
}

// Run polls the player and advances the position until ctx is done.
// Subscriptions are closed when it returns.
func (e *Engine) Run(ctx context.Context) error {
	defer e.Close()

	poll := time.NewTicker(e.opts.PollInterval)
	defer poll.Stop()
	tick := time.NewTicker(e.opts.TickInterval)
	defer tick.Stop()

	_ = e.Poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-poll.C:
			_ = e.Poll(ctx)
		case <-e.nudge:
			_ = e.Poll(ctx)
		case <-tick.C:
			e.Tick()
		}
	}
}

// Refresh asks the run loop to poll as soon as possible.
func (e *Engine) Refresh() {
	select {
	case e.nudge <- struct{}{}:
	default:
	}
}

// Poll fetches the remote state once and reconciles it.
func (e *Engine) Poll(ctx context.Context) error {
	remote, err := e.player.GetState(ctx)
	if err != nil {
		if ctx.Err() == nil {
			e.publishError("poll", err)
		}
		return err
	}
	e.Reconcile(remote)
	return nil
}

// Reconcile merges a remote snapshot into the local state.
func (e *Engine) Reconcile(remote *core.PlaybackState) {
	if remote == nil {
		return
	}
	now := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	merged := remote.Clone()
	kept := e.pending[:0]
	for _, x := range e.pending {
		if x.confirmedBy(remote, now) {
			e.log.Debug("confirmed", "op", x.cmd, "rid", x.id)
			continue
		}
		if now.After(x.deadline) {
			e.log.Debug("expired", "op", x.cmd, "rid", x.id)
			continue
		}
		x.apply(merged, now)
		kept = append(kept, x)
	}
	e.pending = kept
	merged.Timestamp = now
	e.setLocked(merged, now)
}

// Tick advances the local position of a playing track.
func (e *Engine) Tick() {
	now := time.Now()

	e.mu.Lock()
	s := e.state
	elapsed := now.Sub(e.lastAdvance)
	e.lastAdvance = now
	if !s.HasTrack() || !s.IsPlaying {
		e.mu.Unlock()
		return
	}
	next := s.Clone()
	next.Progress += elapsed
	d := next.Duration()
	ended := d > 0 && next.Progress >= d
	if ended {
		next.Progress = d
	}
	e.state = next
	if trackURI(e.heard) == trackURI(next) {
		e.heard.Progress = next.Progress
	}
	e.mu.Unlock()

	e.publishPosition(PositionChange{Position: next.Progress, Duration: d})
	if ended {
		e.Refresh()
	}
}

// setLocked replaces the local state and publishes what changed.
//
// Track events are diffed against heard, the last state whose track was
// settled, and only while no track expectation is pending. Optimistic track
// switches and their reverts publish no track events.
func (e *Engine) setLocked(next *core.PlaybackState, now time.Time) {
	prev := e.state
	e.state = next
	e.lastAdvance = now

	h, err := hashstructure.Hash(next, hashstructure.FormatV2, nil)
	changed := err != nil || prev == nil || h != e.hash
	e.hash = h

	var events []Event
	if !e.trackPendingLocked() {
		for _, ev := range Diff(e.heard.Clone(), next.Clone()) {
			if ev.Type.IsTrack() {
				events = append(events, ev)
			}
		}
		e.heard = next.Clone()
	}
	for _, ev := range Diff(prev.Clone(), next.Clone()) {
		if !ev.Type.IsTrack() {
			events = append(events, ev)
		}
	}
	for _, ev := range events {
		e.publishEvent(ev)
	}
	if changed {
		e.publishState(next.Clone())
	}
	e.publishPosition(PositionChange{Position: next.Progress, Duration: next.Duration()})
}

func (e *Engine) trackPendingLocked() bool {
	return slices.ContainsFunc(e.pending, func(x expectation) bool {
		return x.field == fieldTrack || x.field == fieldLeaveTrack
	})
}

// State returns a copy of the local state, or nil before the first poll.
func (e *Engine) State() *core.PlaybackState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Pending returns the number of unconfirmed expectations.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// do applies exps locally, runs call and reverts on failure.
func (e *Engine) do(ctx context.Context, op string, exps []expectation, call func(context.Context) error) error {
	id := uuid.NewString()
	now := time.Now()

	e.mu.Lock()
	before := e.state.Clone()
	var next *core.PlaybackState
	if e.state != nil {
		next = e.state.Clone()
	}
	for i := range exps {
		x := &exps[i]
		x.id, x.cmd = id, op
		x.issued = now
		x.deadline = now.Add(e.opts.SettleTimeout)
		e.pending = slices.DeleteFunc(e.pending, x.supersedes)
		e.pending = append(e.pending, *x)
		if next != nil {
			x.apply(next, now)
		}
	}
	if next != nil {
		e.setLocked(next, now)
	}
	e.mu.Unlock()

	e.log.Debug("command", "op", op, "rid", id)
	if err := call(ctx); err != nil {
		e.revert(id, before)
		e.publishError(op, err)
		return err
	}
	e.Refresh()
	return nil
}

// revert undoes the fields of command id that are still pending. Fields a
// newer command has since taken over, or that the remote already settled,
// are left alone.
func (e *Engine) revert(id string, before *core.PlaybackState) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var live []expectation
	for _, x := range e.pending {
		if x.id == id {
			live = append(live, x)
		}
	}
	e.pending = slices.DeleteFunc(e.pending, func(x expectation) bool { return x.id == id })
	if len(live) == 0 || e.state == nil || before == nil {
		return
	}
	next := e.state.Clone()
	for _, x := range live {
		x.restore(next, before)
	}
	e.setLocked(next, time.Now())
}

func (e *Engine) currentURI() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return trackURI(e.state)
}

// Play resumes playback.
func (e *Engine) Play(ctx context.Context) error {
	return e.do(ctx, "play", []expectation{expectPlaying(true)}, e.player.Play)
}

// Pause pauses playback.
func (e *Engine) Pause(ctx context.Context) error {
	return e.do(ctx, "pause", []expectation{expectPlaying(false)}, e.player.Pause)
}

// Toggle pauses when playing and resumes otherwise.
func (e *Engine) Toggle(ctx context.Context) error {
	if s := e.State(); s != nil && s.IsPlaying {
		return e.Pause(ctx)
	}
	return e.Play(ctx)
}

// Next skips to the next track.
func (e *Engine) Next(ctx context.Context) error {
	return e.do(ctx, "next", e.leave(), e.player.Next)
}

// Prev goes back to the previous track.
func (e *Engine) Prev(ctx context.Context) error {
	return e.do(ctx, "prev", e.leave(), e.player.Prev)
}

func (e *Engine) leave() []expectation {
	if uri := e.currentURI(); uri != "" {
		return []expectation{expectLeave(uri)}
	}
	return nil
}

// Seek moves to pos within the current track.
func (e *Engine) Seek(ctx context.Context, pos time.Duration) error {
	if pos < 0 {
		pos = 0
	}
	if s := e.State(); s.Duration() > 0 && pos > s.Duration() {
		pos = s.Duration()
	}
	return e.do(ctx, "seek", []expectation{expectProgress(pos)}, func(ctx context.Context) error {
		return e.player.Seek(ctx, int(pos.Milliseconds()))
	})
}

// SeekBy moves the position by delta.
func (e *Engine) SeekBy(ctx context.Context, delta time.Duration) error {
	var pos time.Duration
	if s := e.State(); s != nil {
		pos = s.Progress
	}
	return e.Seek(ctx, pos+delta)
}

// SetVolume sets the volume, clamped to 0-100.
func (e *Engine) SetVolume(ctx context.Context, percent int) error {
	percent = max(0, min(100, percent))
	return e.do(ctx, "volume", []expectation{expectVolume(percent)}, func(ctx context.Context) error {
		return e.player.Volume(ctx, percent)
	})
}

// AdjustVolume changes the volume by delta.
func (e *Engine) AdjustVolume(ctx context.Context, delta int) error {
	var v int
	if s := e.State(); s != nil {
		v = s.Volume
	}
	return e.SetVolume(ctx, v+delta)
}

// SetShuffle turns shuffle on or off.
func (e *Engine) SetShuffle(ctx context.Context, on bool) error {
	return e.do(ctx, "shuffle", []expectation{expectShuffle(on)}, func(ctx context.Context) error {
		return e.player.Shuffle(ctx, on)
	})
}

// ToggleShuffle flips shuffle.
func (e *Engine) ToggleShuffle(ctx context.Context) error {
	s := e.State()
	return e.SetShuffle(ctx, s == nil || !s.Shuffle)
}

// SetRepeat sets the repeat mode.
func (e *Engine) SetRepeat(ctx context.Context, mode core.RepeatMode) error {
	return e.do(ctx, "repeat", []expectation{expectRepeat(mode)}, func(ctx context.Context) error {
		return e.player.Repeat(ctx, mode)
	})
}

// CycleRepeat moves through off, context and track.
func (e *Engine) CycleRepeat(ctx context.Context) error {
	next := core.RepeatContext
	if s := e.State(); s != nil {
		switch s.Repeat {
		case core.RepeatContext:
			next = core.RepeatTrack
		case core.RepeatTrack:
			next = core.RepeatOff
		}
	}
	return e.SetRepeat(ctx, next)
}

// Devices lists the available devices and remembers them for transfers.
func (e *Engine) Devices(ctx context.Context) ([]core.Device, error) {
	devices, err := e.player.GetDevices(ctx)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.devices = devices
	e.mu.Unlock()
	return devices, nil
}

// Transfer moves playback to deviceID.
func (e *Engine) Transfer(ctx context.Context, deviceID string, play bool) error {
	d := core.Device{ID: deviceID, Type: core.DeviceTypeUnknown}
	e.mu.Lock()
	for _, known := range e.devices {
		if known.ID == deviceID {
			d = known
			break
		}
	}
	e.mu.Unlock()

	exps := []expectation{expectDevice(d)}
	if play {
		exps = append(exps, expectPlaying(true))
	}
	return e.do(ctx, "transfer", exps, func(ctx context.Context) error {
		return e.player.TransferPlayback(ctx, deviceID, play)
	})
}

// Queue returns the player's upcoming tracks.
func (e *Engine) Queue(ctx context.Context) (*core.Queue, error) {
	return e.player.GetQueue(ctx)
}

// AddToQueue appends a track to the player's queue.
func (e *Engine) AddToQueue(ctx context.Context, uri string) error {
	if err := e.player.AddToQueue(ctx, uri); err != nil {
		e.publishError("queue", err)
		return err
	}
	e.Refresh()
	return nil
}

// Start begins playback of req and makes it the queue context.
func (e *Engine) Start(ctx context.Context, req core.PlayRequest) error {
	return e.start(ctx, req, nil, true)
}

func (e *Engine) start(ctx context.Context, req core.PlayRequest, track *core.Track, setContext bool) error {
	if len(req.URIs) == 0 && req.ContextURI == "" {
		return ErrNothingToPlay
	}
	exps := []expectation{expectPlaying(true)}
	if uri := req.FirstURI(); uri != "" {
		x := expectTrack(uri)
		x.track = track
		exps = append(exps, x)
	}
	err := e.do(ctx, "start", exps, func(ctx context.Context) error {
		return e.player.Start(ctx, req)
	})
	if err == nil && setContext {
		e.SetQueueContext(contextOf(req))
	}
	return err
}

// PlayList starts playback from a list view. A Spotify context URI is played
// at the selected track. Anything else plays tracks as a URI list, starting
// at trackURI when present and at offset otherwise.
func (e *Engine) PlayList(ctx context.Context, contextURI string, tracks []core.Track, trackURI string, offset int) error {
	var req core.PlayRequest
	switch {
	case core.IsContextURI(contextURI) && trackURI != "":
		req = core.PlayContextAt(contextURI, trackURI)
	case core.IsContextURI(contextURI):
		req = core.PlayContext(contextURI, offset)
	default:
		uris := core.URIs(tracks)
		if i := slices.Index(uris, trackURI); i >= 0 {
			offset = i
		}
		req = core.PlayTracks(uris, offset)
	}

	deviceID, err := e.targetDevice(ctx)
	if err != nil {
		e.publishError("play", err)
		return err
	}

	var track *core.Track
	if i := core.IndexOf(tracks, req.FirstURI()); i >= 0 {
		track = &tracks[i]
	}
	return e.start(ctx, req.OnDevice(deviceID), track, true)
}

// PlayFromQueue plays trackURI inside the current queue context, falling
// back to the saved context. Repeat is switched off shortly after so the
// queue keeps moving.
func (e *Engine) PlayFromQueue(ctx context.Context, trackURI string) error {
	e.mu.Lock()
	qc := e.queueCtx
	if qc.IsZero() {
		qc = e.savedCtx
	}
	e.mu.Unlock()

	deviceID, err := e.targetDevice(ctx)
	if err != nil {
		e.publishError("play_from_queue", err)
		return err
	}
	if err := e.start(ctx, qc.Resolve(trackURI).OnDevice(deviceID), nil, false); err != nil {
		return err
	}
	e.scheduleRepeatOff()
	return nil
}

// targetDevice returns the device playback is on, or the best available one.
func (e *Engine) targetDevice(ctx context.Context) (string, error) {
	e.mu.Lock()
	id := e.state.DeviceID()
	e.mu.Unlock()
	if id != "" {
		return id, nil
	}

	devices, err := e.Devices(ctx)
	if err != nil {
		return "", err
	}
	d := core.PickDevice(devices)
	if d == nil {
		return "", tempoerrors.ErrNoActiveDevice
	}
	return d.ID, nil
}

func (e *Engine) scheduleRepeatOff() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.repeatOff != nil {
		e.repeatOff.Stop()
	}
	e.repeatOff = time.AfterFunc(e.opts.RepeatOffDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		if err := e.SetRepeat(ctx, core.RepeatOff); err != nil {
			e.log.Warn("repeat off failed", "err", err)
		}
	})
}

// SetQueueContext records what the current queue was started from.
func (e *Engine) SetQueueContext(q QueueContext) {
	e.mu.Lock()
	e.queueCtx = q
	e.mu.Unlock()
}

// SaveContext records a fallback context used when no queue is active.
func (e *Engine) SaveContext(q QueueContext) {
	e.mu.Lock()
	e.savedCtx = q
	e.mu.Unlock()
}

// QueueContext returns the active queue context.
func (e *Engine) QueueContext() QueueContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queueCtx
}

// Subscribe returns a new subscription to engine output.
func (e *Engine) Subscribe() *Subscription {
	s := newSubscription()

	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	if e.closed {
		s.close()
		return s
	}
	e.subs = append(e.subs, s)
	return s
}

// Close stops pending timers and closes all subscriptions.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.repeatOff != nil {
		e.repeatOff.Stop()
	}
	e.mu.Unlock()

	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for _, s := range e.subs {
		s.close()
	}
	e.subs = nil
}

func (e *Engine) publishEvent(ev Event) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, s := range e.subs {
		s.sendEvent(ev)
	}
}

func (e *Engine) publishState(st *core.PlaybackState) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, s := range e.subs {
		s.sendState(st)
	}
}

func (e *Engine) publishPosition(p PositionChange) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, s := range e.subs {
		s.sendPosition(p)
	}
}

func (e *Engine) publishError(op string, err error) {
	e.log.Warn("playback error", "op", op, "err", err)
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, s := range e.subs {
		s.sendError(ErrorEvent{Op: op, Err: err})
	}
}

// PlayTracks plays uris starting at offset.
func (e *Engine) PlayTracks(ctx context.Context, uris []string, offset int) error {
	return e.Start(ctx, core.PlayTracks(uris, offset))
}

// PlayContext plays a Spotify context starting at offset.
func (e *Engine) PlayContext(ctx context.Context, contextURI string, offset int) error {
	return e.Start(ctx, core.PlayContext(contextURI, offset))
}
