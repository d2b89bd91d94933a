package playback

import (
	"slices"

	"github.com/tessro/tempo/internal/core"
)

// QueueContext is what a queue was started from: an explicit track list or a
// Spotify context such as a playlist or album.
type QueueContext struct {
	URIs       []string
	ContextURI string
}

// IsZero reports whether q carries nothing to play from.
func (q QueueContext) IsZero() bool {
	return len(q.URIs) == 0 && q.ContextURI == ""
}

// Resolve builds the request that plays trackURI inside q. A track outside
// the list, or an empty context, plays on its own.
func (q QueueContext) Resolve(trackURI string) core.PlayRequest {
	if len(q.URIs) > 0 {
		if i := slices.Index(q.URIs, trackURI); i >= 0 {
			return core.PlayTracks(q.URIs, i)
		}
		return core.PlaySingle(trackURI)
	}
	if q.ContextURI != "" {
		return core.PlayContextAt(q.ContextURI, trackURI)
	}
	return core.PlaySingle(trackURI)
}

// contextOf returns the queue context a request starts.
func contextOf(req core.PlayRequest) QueueContext {
	if req.ContextURI != "" {
		return QueueContext{ContextURI: req.ContextURI}
	}
	return QueueContext{URIs: slices.Clone(req.URIs)}
}
