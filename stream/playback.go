package stream

import (
	"errors"
	"sync/atomic"

	"github.com/cwbudde/algo-live/dsp/effects"
	"github.com/cwbudde/algo-live/dsp/queue"
)

// PlaybackSource fills playback blocks from the queue through the filter.
//
// It owns the filter exclusively: no other component may touch it once
// streaming starts. Process must be called from exactly one goroutine (the
// playback context).
type PlaybackSource struct {
	q         *queue.Queue
	filter    effects.Filter
	underruns atomic.Uint64
}

// NewPlaybackSource creates a source draining q through filter.
func NewPlaybackSource(q *queue.Queue, filter effects.Filter) (*PlaybackSource, error) {
	if q == nil {
		return nil, errors.New("playback source requires a queue")
	}
	if filter == nil {
		return nil, errors.New("playback source requires a filter")
	}
	return &PlaybackSource{q: q, filter: filter}, nil
}

// Process fills every slot of out. Slots with no captured sample available
// get silence; the filter is not advanced for those slots, so an underrun
// never disturbs echo tails or the flange LFO clock.
func (p *PlaybackSource) Process(out []float32) {
	var underruns uint64
	for i := range out {
		s, ok := p.q.TryPop()
		if !ok {
			out[i] = 0
			underruns++
			continue
		}
		out[i] = p.filter.ProcessSample(s)
	}
	if underruns > 0 {
		p.underruns.Add(underruns)
	}
}

// Underruns returns the total number of slots filled with silence.
// Safe from any goroutine.
func (p *PlaybackSource) Underruns() uint64 {
	return p.underruns.Load()
}
