package filtergraph

import "github.com/rmahabir1973/artivio-render/internal/timeline"

// TransitionBuilder is the cross-layer transition collaborator: an external
// module that may supply a complete pre-built graph for multi-track
// timelines with transitions. Implementations return (nil, false) when they
// cannot handle the request; the standard synthesis always remains the
// fallback.
type TransitionBuilder interface {
	Build(req *timeline.Request, clips []*timeline.Clip, layout Inputs) (*Result, bool)
}

// tryTransitions consults the collaborator when a multi-track timeline and
// a non-empty transition list are present. A panic inside the collaborator
// is recovered and treated as "not handled"; it is never allowed to fail
// the job. The returned graph must carry a non-empty program and both
// output pads to be used.
func (s *Synthesizer) tryTransitions(req *timeline.Request, clips []*timeline.Clip, layout Inputs) (res *Result, ok bool) {
	if s.transitions == nil {
		return nil, false
	}
	if len(req.MultiTrackTimeline) == 0 || len(req.CrossLayerTransitions) == 0 {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Warn().Interface("panic", r).
				Msg("transition builder panicked, falling back to standard synthesis")
			res, ok = nil, false
		}
	}()

	res, ok = s.transitions.Build(req, clips, layout)
	if !ok || res == nil || res.FilterComplex == "" || res.VideoPad == "" || res.AudioPad == "" {
		return nil, false
	}
	return res, true
}
