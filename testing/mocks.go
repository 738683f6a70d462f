package testing

import "sync"

// SpySound records sound cue requests instead of playing them. It
// implements the prompt.SoundPlayer interface.
type SpySound struct {
	mu     sync.Mutex
	Played []string
}

// Play records a synchronous play request
func (s *SpySound) Play(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Played = append(s.Played, name)
}

// PlayAsync records an asynchronous play request
func (s *SpySound) PlayAsync(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Played = append(s.Played, name)
}
