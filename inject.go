package pinview

// injectedPointer is a queued pointer sample. held reports whether the
// button in ev is down for that frame.
type injectedPointer struct {
	ev   PointerEvent
	held bool
}

func (s *Scene) inject(x, y float64, held bool) {
	s.injectQueue = append(s.injectQueue, injectedPointer{
		ev:   PointerEvent{ClientX: x, ClientY: y, Button: MouseButtonLeft},
		held: held,
	})
}

// InjectHover queues a pointer move with no button down. Each queued sample
// is consumed by one Update and replaces the real mouse for that frame.
func (s *Scene) InjectHover(x, y float64) { s.inject(x, y, false) }

// InjectPress queues a left-button press at (x, y).
func (s *Scene) InjectPress(x, y float64) { s.inject(x, y, true) }

// InjectMove queues a move with the left button still held, for drags
// between InjectPress and InjectRelease.
func (s *Scene) InjectMove(x, y float64) { s.inject(x, y, true) }

// InjectRelease queues the button coming up at (x, y).
func (s *Scene) InjectRelease(x, y float64) { s.inject(x, y, false) }

// InjectClick queues a press and a release at the same point; it takes two
// frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), evenly spaced held moves and
// a release at (toX, toY), one sample per frame over frames frames
// (at least 2).
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	frames = max(frames, 2)
	s.InjectPress(fromX, fromY)
	for i := 1; i < frames-1; i++ {
		f := float64(i) / float64(frames-1)
		s.InjectMove(fromX+(toX-fromX)*f, fromY+(toY-fromY)*f)
	}
	s.InjectRelease(toX, toY)
}

// processInjectedInput feeds the oldest queued sample to the pointer state
// machine and reports whether there was one.
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	next := s.injectQueue[0]
	s.injectQueue = append(s.injectQueue[:0], s.injectQueue[1:]...)
	s.processPointer(next.ev, next.held)
	return true
}
