package gfx

// EventsConsumerStrategy decides how many pending events one pass of the
// window loop handles before the next frame is considered.
type EventsConsumerStrategy interface {
	Consume(poll func(timeoutMs int) (Event, bool), handle func(Event), timeoutMs int) int
}

// drain waits up to timeoutMs for a first event, then handles whatever is
// already queued. limit caps the events handled in one pass; zero means no
// cap.
func drain(poll func(timeoutMs int) (Event, bool), handle func(Event), timeoutMs, limit int) int {
	count := 0
	for wait := timeoutMs; limit == 0 || count < limit; wait = 0 {
		event, ok := poll(wait)
		if !ok {
			break
		}
		handle(event)
		count++
	}
	return count
}

// DrainAllStrategy empties the queue before each frame.
type DrainAllStrategy struct{}

func (DrainAllStrategy) Consume(poll func(timeoutMs int) (Event, bool), handle func(Event), timeoutMs int) int {
	return drain(poll, handle, timeoutMs, 0)
}

// DrainMaxStrategy handles at most Max events per pass and leaves the rest
// for after the next frame, so a flood of input cannot starve rendering.
type DrainMaxStrategy struct {
	Max int
}

func (s DrainMaxStrategy) Consume(poll func(timeoutMs int) (Event, bool), handle func(Event), timeoutMs int) int {
	return drain(poll, handle, timeoutMs, max(s.Max, 1))
}

// CoalesceMotionStrategy drains like its inner strategy but delivers only the
// last of a run of consecutive MotionNotify events. A drag across many pixels
// then pans once per pass.
type CoalesceMotionStrategy struct {
	Inner EventsConsumerStrategy
}

func (s CoalesceMotionStrategy) Consume(poll func(timeoutMs int) (Event, bool), handle func(Event), timeoutMs int) int {
	inner := s.Inner
	if inner == nil {
		inner = DrainAllStrategy{}
	}
	var pending *MotionNotify
	flush := func() {
		if pending != nil {
			handle(*pending)
			pending = nil
		}
	}
	count := inner.Consume(poll, func(e Event) {
		if m, ok := e.(MotionNotify); ok {
			pending = &m
			return
		}
		flush()
		handle(e)
	}, timeoutMs)
	flush()
	return count
}

func DrainAll() EventsConsumerStrategy {
	return DrainAllStrategy{}
}

// DrainMax caps each pass at n events; n < 1 handles one event per pass.
func DrainMax(n int) EventsConsumerStrategy {
	return DrainMaxStrategy{Max: n}
}

func CoalesceMotion(inner EventsConsumerStrategy) EventsConsumerStrategy {
	return CoalesceMotionStrategy{Inner: inner}
}
