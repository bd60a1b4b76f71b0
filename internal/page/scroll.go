package page

import (
	"golang.org/x/net/html"

	"github.com/dgallion1/reportview/internal/dom"
	"github.com/dgallion1/reportview/internal/reveal"
)

// ScrollRequest is one recorded scroll-into-view call.
type ScrollRequest struct {
	TargetID string               `json:"target_id"`
	Options  reveal.ScrollOptions `json:"options"`
}

// ScrollRecorder stands in for the viewport on the server side: it keeps
// the scroll requests so the client can replay them.
type ScrollRecorder struct {
	Requests []ScrollRequest
}

func (s *ScrollRecorder) ScrollIntoView(target *html.Node, opts reveal.ScrollOptions) {
	s.Requests = append(s.Requests, ScrollRequest{TargetID: dom.ID(target), Options: opts})
}

// Drain returns and forgets the pending requests.
func (s *ScrollRecorder) Drain() []ScrollRequest {
	out := s.Requests
	s.Requests = nil
	return out
}
