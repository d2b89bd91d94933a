package playback

import "github.com/tessro/tempo/internal/core"

const eventBufferSize = 16

// Subscription delivers engine output. Sends never block: a subscriber that
// falls behind loses events.
type Subscription struct {
	Events   <-chan Event
	State    <-chan *core.PlaybackState
	Position <-chan PositionChange
	Errors   <-chan ErrorEvent
	Done     <-chan struct{}

	eventCh    chan Event
	stateCh    chan *core.PlaybackState
	positionCh chan PositionChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		eventCh:    make(chan Event, eventBufferSize),
		stateCh:    make(chan *core.PlaybackState, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.Events = s.eventCh
	s.State = s.stateCh
	s.Position = s.positionCh
	s.Errors = s.errorCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

func (s *Subscription) sendEvent(e Event) {
	select {
	case s.eventCh <- e:
	default:
	}
}

func (s *Subscription) sendState(st *core.PlaybackState) {
	select {
	case s.stateCh <- st:
	default:
	}
}

func (s *Subscription) sendPosition(p PositionChange) {
	select {
	case s.positionCh <- p:
	default:
	}
}

func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
