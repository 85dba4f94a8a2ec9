// ABOUTME: Process-wide flag asking the shell to present a login prompt
// ABOUTME: Raised by the guard, polled and reset by whoever renders the prompt

package router

import "sync/atomic"

// Signal is a one-shot boolean safe for concurrent use
type Signal struct {
	raised atomic.Bool
}

// ShowLoginModal is raised when a protected route bounced an anonymous user
var ShowLoginModal Signal

// Raise sets the flag
func (s *Signal) Raise() {
	s.raised.Store(true)
}

// Pending reports the flag without resetting it
func (s *Signal) Pending() bool {
	return s.raised.Load()
}

// Take returns the flag and resets it
func (s *Signal) Take() bool {
	return s.raised.Swap(false)
}
