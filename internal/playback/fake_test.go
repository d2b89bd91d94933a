package playback

import (
	"context"
	"sync"

	"github.com/tessro/tempo/internal/core"
)

// fakePlayer records commands and reports a state that tests set directly.
type fakePlayer struct {
	mu      sync.Mutex
	state   *core.PlaybackState
	devices []core.Device
	fail    map[string]error

	// onVolume runs before a volume call is recorded; its error wins.
	onVolume func(percent int) error

	calls   []string
	starts  []core.PlayRequest
	repeats []core.RepeatMode
	volumes []int
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{fail: map[string]error{}}
}

func (f *fakePlayer) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.fail[op]
}

func (f *fakePlayer) setState(s *core.PlaybackState) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

func (f *fakePlayer) failOn(op string, err error) {
	f.mu.Lock()
	f.fail[op] = err
	f.mu.Unlock()
}

func (f *fakePlayer) Play(context.Context) error  { return f.record("play") }
func (f *fakePlayer) Pause(context.Context) error { return f.record("pause") }
func (f *fakePlayer) Next(context.Context) error  { return f.record("next") }
func (f *fakePlayer) Prev(context.Context) error  { return f.record("prev") }

func (f *fakePlayer) Seek(context.Context, int) error { return f.record("seek") }

func (f *fakePlayer) Start(_ context.Context, req core.PlayRequest) error {
	f.mu.Lock()
	f.starts = append(f.starts, req)
	f.mu.Unlock()
	return f.record("start")
}

func (f *fakePlayer) Volume(_ context.Context, percent int) error {
	f.mu.Lock()
	f.volumes = append(f.volumes, percent)
	hook := f.onVolume
	f.mu.Unlock()
	if hook != nil {
		if err := hook(percent); err != nil {
			return err
		}
	}
	return f.record("volume")
}

func (f *fakePlayer) Shuffle(context.Context, bool) error { return f.record("shuffle") }

func (f *fakePlayer) Repeat(_ context.Context, mode core.RepeatMode) error {
	f.mu.Lock()
	f.repeats = append(f.repeats, mode)
	f.mu.Unlock()
	return f.record("repeat")
}

func (f *fakePlayer) GetDevices(context.Context) ([]core.Device, error) {
	if err := f.record("devices"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.devices, nil
}

func (f *fakePlayer) TransferPlayback(context.Context, string, bool) error {
	return f.record("transfer")
}

func (f *fakePlayer) GetState(context.Context) (*core.PlaybackState, error) {
	if err := f.record("state"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Clone(), nil
}

func (f *fakePlayer) GetQueue(context.Context) (*core.Queue, error) {
	return &core.Queue{CurrentIndex: -1}, f.record("queue")
}

func (f *fakePlayer) GetRecentlyPlayed(context.Context, int) ([]core.HistoryEntry, error) {
	return nil, f.record("recent")
}

func (f *fakePlayer) AddToQueue(context.Context, string) error { return f.record("add") }

func (f *fakePlayer) startRequests() []core.PlayRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.PlayRequest(nil), f.starts...)
}

func (f *fakePlayer) repeatModes() []core.RepeatMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.RepeatMode(nil), f.repeats...)
}
