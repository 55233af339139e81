package ui

import "parasite/internal/session"

// pairLoadedMsg carries the result of opening a transcript/audio pair.
type pairLoadedMsg struct {
	index int
	ctrl  *session.Controller
	err   error
}
