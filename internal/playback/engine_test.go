package playback

import (
	"context"
	"errors"
	"slices"
	"testing"
	"testing/synctest"
	"time"

	"github.com/tessro/tempo/internal/core"
	tempoerrors "github.com/tessro/tempo/internal/errors"
)

func playing(uri string) *core.PlaybackState {
	return stateWith(uri, true, 10*time.Second, 3*time.Minute)
}

func TestEngine_RunPublishesFirstTrack(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fp := newFakePlayer()
		fp.setState(playing("spotify:track:a"))
		e := New(fp, Options{})
		sub := e.Subscribe()

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan struct{})
		go func() {
			_ = e.Run(ctx)
			close(done)
		}()
		synctest.Wait()

		ev := <-sub.Events
		if ev.Type != EventTrackChange || ev.Current.Track.URI != "spotify:track:a" {
			t.Errorf("event = %v %+v", ev.Type, ev.Current)
		}
		st := <-sub.State
		if !st.IsPlaying {
			t.Error("state not playing")
		}

		cancel()
		<-done
		<-sub.Done
	})
}

func TestEngine_RunPollsOnInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fp := newFakePlayer()
		fp.setState(playing("spotify:track:a"))
		e := New(fp, Options{PollInterval: time.Second})
		sub := e.Subscribe()

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()
		go func() { _ = e.Run(ctx) }()
		synctest.Wait()
		<-sub.Events

		fp.setState(playing("spotify:track:b"))
		time.Sleep(time.Second)
		synctest.Wait()

		ev := <-sub.Events
		if ev.Type != EventTrackSkip {
			t.Errorf("event = %v, want track_skip", ev.Type)
		}
		if got := e.State().Track.URI; got != "spotify:track:b" {
			t.Errorf("track = %q", got)
		}
	})
}

func TestEngine_PauseIsOptimistic(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fp := newFakePlayer()
		e := New(fp, Options{SettleTimeout: 1500 * time.Millisecond})
		e.Reconcile(playing("spotify:track:a"))

		if err := e.Pause(t.Context()); err != nil {
			t.Fatal(err)
		}
		if e.State().IsPlaying {
			t.Fatal("state still playing after pause")
		}

		// The remote has not caught up yet.
		time.Sleep(500 * time.Millisecond)
		e.Reconcile(playing("spotify:track:a"))
		if e.State().IsPlaying {
			t.Error("stale poll overrode pending pause")
		}
		if e.Pending() != 1 {
			t.Errorf("pending = %d, want 1", e.Pending())
		}

		// Past the settle timeout the remote wins.
		time.Sleep(2 * time.Second)
		e.Reconcile(playing("spotify:track:a"))
		if !e.State().IsPlaying {
			t.Error("expired expectation still applied")
		}
		if e.Pending() != 0 {
			t.Errorf("pending = %d, want 0", e.Pending())
		}
	})
}

func TestEngine_ConfirmationClearsPending(t *testing.T) {
	fp := newFakePlayer()
	e := New(fp, Options{})
	e.Reconcile(playing("spotify:track:a"))

	if err := e.Pause(t.Context()); err != nil {
		t.Fatal(err)
	}
	paused := playing("spotify:track:a")
	paused.IsPlaying = false
	e.Reconcile(paused)

	if e.Pending() != 0 {
		t.Errorf("pending = %d, want 0", e.Pending())
	}
}

func TestEngine_FailedCommandReverts(t *testing.T) {
	fp := newFakePlayer()
	fp.failOn("volume", tempoerrors.ErrPremiumRequired)
	e := New(fp, Options{})
	sub := e.Subscribe()
	e.Reconcile(playing("spotify:track:a"))

	err := e.SetVolume(t.Context(), 80)
	if !errors.Is(err, tempoerrors.ErrPremiumRequired) {
		t.Fatalf("SetVolume() error = %v", err)
	}
	if got := e.State().Volume; got != 50 {
		t.Errorf("volume = %d, want 50", got)
	}
	if e.Pending() != 0 {
		t.Errorf("pending = %d, want 0", e.Pending())
	}

	ev := <-sub.Errors
	if ev.Op != "volume" {
		t.Errorf("error op = %q", ev.Op)
	}
}

// drain returns the events already buffered on sub.
func drain(sub *Subscription) []Event {
	var out []Event
	for {
		select {
		case ev := <-sub.Events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func trackEvents(events []Event) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Type.IsTrack() {
			out = append(out, ev)
		}
	}
	return out
}

func TestEngine_FailedStartPublishesNoTrackEvents(t *testing.T) {
	fp := newFakePlayer()
	fp.failOn("start", tempoerrors.ErrPremiumRequired)
	e := New(fp, Options{})
	sub := e.Subscribe()
	e.Reconcile(playing("spotify:track:a"))
	drain(sub)

	err := e.PlayTracks(t.Context(), []string{"spotify:track:b"}, 0)
	if !errors.Is(err, tempoerrors.ErrPremiumRequired) {
		t.Fatalf("PlayTracks() error = %v", err)
	}
	if got := trackEvents(drain(sub)); len(got) != 0 {
		t.Errorf("track events = %v, want none", types(got))
	}
	if got := e.State().Track.URI; got != "spotify:track:a" {
		t.Errorf("track = %q, want spotify:track:a", got)
	}
	if e.Pending() != 0 {
		t.Errorf("pending = %d, want 0", e.Pending())
	}
}

func TestEngine_TrackEventWaitsForConfirmation(t *testing.T) {
	fp := newFakePlayer()
	e := New(fp, Options{})
	sub := e.Subscribe()
	e.Reconcile(playing("spotify:track:a"))
	drain(sub)

	if err := e.PlayTracks(t.Context(), []string{"spotify:track:b"}, 0); err != nil {
		t.Fatal(err)
	}
	if got := e.State().Track.URI; got != "spotify:track:b" {
		t.Errorf("optimistic track = %q", got)
	}
	if got := trackEvents(drain(sub)); len(got) != 0 {
		t.Errorf("track events before confirmation = %v", types(got))
	}

	// A stale poll still reports the old track.
	e.Reconcile(playing("spotify:track:a"))
	if got := trackEvents(drain(sub)); len(got) != 0 {
		t.Errorf("track events on stale poll = %v", types(got))
	}

	e.Reconcile(playing("spotify:track:b"))
	got := trackEvents(drain(sub))
	if len(got) != 1 {
		t.Fatalf("track events = %v, want one skip", types(got))
	}
	ev := got[0]
	if ev.Type != EventTrackSkip || ev.Previous.Track.URI != "spotify:track:a" || ev.Current.Track.URI != "spotify:track:b" {
		t.Errorf("event = %v %s -> %s", ev.Type, ev.Previous.Track.URI, ev.Current.Track.URI)
	}
}

func TestEngine_FailedCommandKeepsNewerValue(t *testing.T) {
	fp := newFakePlayer()
	e := New(fp, Options{})
	e.Reconcile(playing("spotify:track:a"))

	fp.onVolume = func(percent int) error {
		if percent != 30 {
			return nil
		}
		if err := e.SetVolume(t.Context(), 60); err != nil {
			t.Errorf("SetVolume(60) error = %v", err)
		}
		return errors.New("timeout")
	}

	if err := e.SetVolume(t.Context(), 30); err == nil {
		t.Fatal("SetVolume(30) succeeded, want error")
	}
	if got := e.State().Volume; got != 60 {
		t.Errorf("volume = %d, want 60", got)
	}
	if e.Pending() != 1 {
		t.Errorf("pending = %d, want 1", e.Pending())
	}
}

func TestEngine_NewerCommandSupersedes(t *testing.T) {
	fp := newFakePlayer()
	e := New(fp, Options{})
	e.Reconcile(playing("spotify:track:a"))

	_ = e.SetVolume(t.Context(), 60)
	_ = e.SetVolume(t.Context(), 70)
	if e.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", e.Pending())
	}

	remote := playing("spotify:track:a")
	remote.Volume = 70
	e.Reconcile(remote)
	if got := e.State().Volume; got != 70 {
		t.Errorf("volume = %d, want 70", got)
	}
	if e.Pending() != 0 {
		t.Errorf("pending = %d, want 0", e.Pending())
	}
}

func TestEngine_VolumeClamped(t *testing.T) {
	fp := newFakePlayer()
	e := New(fp, Options{})
	e.Reconcile(playing("spotify:track:a"))

	_ = e.AdjustVolume(t.Context(), 500)
	_ = e.SetVolume(t.Context(), -3)
	if !slices.Equal(fp.volumes, []int{100, 0}) {
		t.Errorf("volumes = %v", fp.volumes)
	}
}

func TestEngine_NextResetsProgress(t *testing.T) {
	fp := newFakePlayer()
	e := New(fp, Options{})
	e.Reconcile(playing("spotify:track:a"))

	if err := e.Next(t.Context()); err != nil {
		t.Fatal(err)
	}
	if got := e.State().Progress; got != 0 {
		t.Errorf("progress = %v, want 0", got)
	}

	e.Reconcile(playing("spotify:track:b"))
	if e.Pending() != 0 {
		t.Errorf("pending = %d, want 0", e.Pending())
	}
}

func TestEngine_TickAdvancesPosition(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := New(newFakePlayer(), Options{})
		e.Reconcile(playing("spotify:track:a"))

		time.Sleep(time.Second)
		e.Tick()
		if got := e.State().Progress; got != 11*time.Second {
			t.Errorf("progress = %v, want 11s", got)
		}

		paused := playing("spotify:track:a")
		paused.IsPlaying = false
		e.Reconcile(paused)
		time.Sleep(time.Second)
		e.Tick()
		if got := e.State().Progress; got != 10*time.Second {
			t.Errorf("paused progress = %v, want 10s", got)
		}
	})
}

func TestEngine_TickStopsAtEnd(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e := New(newFakePlayer(), Options{})
		e.Reconcile(stateWith("spotify:track:a", true, 179*time.Second, 3*time.Minute))

		time.Sleep(5 * time.Second)
		e.Tick()
		if got := e.State().Progress; got != 3*time.Minute {
			t.Errorf("progress = %v, want 3m", got)
		}
	})
}

func TestEngine_SeekClamps(t *testing.T) {
	fp := newFakePlayer()
	e := New(fp, Options{})
	e.Reconcile(playing("spotify:track:a"))

	if err := e.Seek(t.Context(), 10*time.Minute); err != nil {
		t.Fatal(err)
	}
	if got := e.State().Progress; got != 3*time.Minute {
		t.Errorf("progress = %v, want 3m", got)
	}
}

func TestEngine_PlayFromQueue(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fp := newFakePlayer()
		fp.devices = []core.Device{{ID: "phone"}, {ID: "desk", IsActive: true}}
		e := New(fp, Options{RepeatOffDelay: time.Second})
		uris := []string{"spotify:track:a", "spotify:track:b", "spotify:track:c"}
		e.SetQueueContext(QueueContext{URIs: uris})

		if err := e.PlayFromQueue(t.Context(), "spotify:track:b"); err != nil {
			t.Fatal(err)
		}
		reqs := fp.startRequests()
		if len(reqs) != 1 {
			t.Fatalf("starts = %d, want 1", len(reqs))
		}
		if reqs[0].DeviceID != "desk" || reqs[0].Offset != 1 || !slices.Equal(reqs[0].URIs, uris) {
			t.Errorf("request = %+v", reqs[0])
		}
		if len(fp.repeatModes()) != 0 {
			t.Error("repeat changed before delay")
		}

		time.Sleep(1100 * time.Millisecond)
		synctest.Wait()
		if got := fp.repeatModes(); !slices.Equal(got, []core.RepeatMode{core.RepeatOff}) {
			t.Errorf("repeats = %v, want [off]", got)
		}
		if !slices.Equal(e.QueueContext().URIs, uris) {
			t.Error("queue context replaced")
		}
	})
}

func TestEngine_PlayFromQueueUsesSavedContext(t *testing.T) {
	fp := newFakePlayer()
	e := New(fp, Options{})
	defer e.Close()
	e.Reconcile(playing("spotify:track:a"))
	e.SaveContext(QueueContext{ContextURI: "spotify:album:x"})

	if err := e.PlayFromQueue(t.Context(), "spotify:track:b"); err != nil {
		t.Fatal(err)
	}
	req := fp.startRequests()[0]
	if req.ContextURI != "spotify:album:x" || req.OffsetURI != "spotify:track:b" || req.DeviceID != "dev1" {
		t.Errorf("request = %+v", req)
	}
}

func TestEngine_PlayFromQueueNoDevice(t *testing.T) {
	fp := newFakePlayer()
	e := New(fp, Options{})
	err := e.PlayFromQueue(t.Context(), "spotify:track:b")
	if !errors.Is(err, tempoerrors.ErrNoActiveDevice) {
		t.Errorf("error = %v, want ErrNoActiveDevice", err)
	}
}

func TestEngine_PlayList(t *testing.T) {
	tracks := []core.Track{
		{URI: "spotify:track:a", Title: "A"},
		{URI: "spotify:track:b", Title: "B"},
	}

	t.Run("context", func(t *testing.T) {
		fp := newFakePlayer()
		e := New(fp, Options{})
		e.Reconcile(playing("spotify:track:z"))

		if err := e.PlayList(t.Context(), "spotify:playlist:p", tracks, "spotify:track:b", 1); err != nil {
			t.Fatal(err)
		}
		req := fp.startRequests()[0]
		if req.ContextURI != "spotify:playlist:p" || req.OffsetURI != "spotify:track:b" {
			t.Errorf("request = %+v", req)
		}
		if got := e.State().Track.Title; got != "B" {
			t.Errorf("optimistic track = %q, want B", got)
		}
		if got := e.QueueContext().ContextURI; got != "spotify:playlist:p" {
			t.Errorf("queue context = %q", got)
		}
	})

	t.Run("liked songs list", func(t *testing.T) {
		fp := newFakePlayer()
		e := New(fp, Options{})
		e.Reconcile(playing("spotify:track:z"))

		if err := e.PlayList(t.Context(), core.LikedSongsID, tracks, "spotify:track:b", 0); err != nil {
			t.Fatal(err)
		}
		req := fp.startRequests()[0]
		if req.ContextURI != "" || req.Offset != 1 || len(req.URIs) != 2 {
			t.Errorf("request = %+v", req)
		}
	})

	t.Run("empty", func(t *testing.T) {
		e := New(newFakePlayer(), Options{})
		e.Reconcile(playing("spotify:track:z"))
		if err := e.PlayList(t.Context(), "", nil, "", 0); !errors.Is(err, ErrNothingToPlay) {
			t.Errorf("error = %v, want ErrNothingToPlay", err)
		}
	})
}

func TestEngine_TransferUsesKnownDevice(t *testing.T) {
	fp := newFakePlayer()
	fp.devices = []core.Device{{ID: "kitchen", Name: "Kitchen", Type: core.DeviceTypeSpeaker}}
	e := New(fp, Options{})
	e.Reconcile(playing("spotify:track:a"))

	if _, err := e.Devices(t.Context()); err != nil {
		t.Fatal(err)
	}
	if err := e.Transfer(t.Context(), "kitchen", true); err != nil {
		t.Fatal(err)
	}
	d := e.State().Device
	if d.ID != "kitchen" || d.Name != "Kitchen" || !d.IsActive {
		t.Errorf("device = %+v", d)
	}
}

func TestEngine_CycleRepeat(t *testing.T) {
	fp := newFakePlayer()
	e := New(fp, Options{})
	e.Reconcile(playing("spotify:track:a"))

	for range 3 {
		_ = e.CycleRepeat(t.Context())
	}
	want := []core.RepeatMode{core.RepeatContext, core.RepeatTrack, core.RepeatOff}
	if got := fp.repeatModes(); !slices.Equal(got, want) {
		t.Errorf("repeats = %v, want %v", got, want)
	}
}

func TestEngine_PollErrorPublished(t *testing.T) {
	fp := newFakePlayer()
	fp.failOn("state", tempoerrors.ErrNetworkError)
	e := New(fp, Options{})
	sub := e.Subscribe()

	if err := e.Poll(t.Context()); err == nil {
		t.Fatal("expected error")
	}
	ev := <-sub.Errors
	if ev.Op != "poll" {
		t.Errorf("op = %q", ev.Op)
	}
}

func TestEngine_SubscribeAfterClose(t *testing.T) {
	e := New(newFakePlayer(), Options{})
	e.Close()
	sub := e.Subscribe()
	select {
	case <-sub.Done:
	default:
		t.Error("subscription not closed")
	}
}
