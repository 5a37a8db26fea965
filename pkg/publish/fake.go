package publish

import "github.com/roomlens/roomlens/pkg/frame"

// FakePublisher is a test double that records everything it is asked to
// publish instead of talking to a broker.
type FakePublisher struct {
	Frames []frame.Frame
	Boots  []string
	Closed bool

	// EmitErr, if set, is returned by Emit and Boot.
	EmitErr error
}

// Boot records the device announcement.
func (f *FakePublisher) Boot(device string) error {
	if f.EmitErr != nil {
		return f.EmitErr
	}
	f.Boots = append(f.Boots, device)
	return nil
}

// Emit records the frame.
func (f *FakePublisher) Emit(fr frame.Frame) error {
	if f.EmitErr != nil {
		return f.EmitErr
	}
	f.Frames = append(f.Frames, fr)
	return nil
}

// Close marks the publisher closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

var _ frame.Sink = (*FakePublisher)(nil)
