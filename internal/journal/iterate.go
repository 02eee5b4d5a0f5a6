package journal

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/vcaputo/jio/internal/jioerr"
)

// ObjectIterState is the small consumer-owned struct threaded through
// repeated IterNextObject calls (spec §3 "IterState", sequential case).
// Offset == 0 means "before start" on entry to IterNextObject and "past
// end" once it returns.
type ObjectIterState struct {
	Offset uint64
	Header ObjectHeader

	warned bool
}

// IterNextObject advances state by one object, matching spec §4.5's
// iter_next_object state machine exactly: the zero-sized-object,
// past-tail, and corrupt-header (short read, unknown type, or any
// other Format error) cases all end iteration without returning an
// error, logging once per file (spec §4.5/§7 group these together —
// "log once per file, mark the remainder unreachable").
func IterNextObject(ctx context.Context, j *Journal, h Header, state *ObjectIterState) (bool, error) {
	switch {
	case state.Offset == 0:
		state.Offset = h.HeaderSize
	case state.Header.Size == 0:
		state.warnOnce(j, state.Offset, "zero-sized object encountered, ending iteration")
		state.Offset = h.TailObjectOffset + 1
	default:
		state.Offset += alignUp8(state.Header.Size)
	}

	if state.Offset > h.TailObjectOffset {
		state.Offset = 0
		state.Header = ObjectHeader{}
		return false, nil
	}

	oh, err := GetObjectHeader(ctx, j, state.Offset)
	if err != nil {
		if errors.Is(err, jioerr.ErrFormat) {
			state.warnOnce(j, state.Offset, "corrupt object header, ending iteration: %v", err)
			state.Offset = 0
			state.Header = ObjectHeader{}
			return false, nil
		}
		return false, err
	}
	if oh.Type >= typeMax {
		state.warnOnce(j, state.Offset, "unknown object type %d, ending iteration", uint8(oh.Type))
		state.Offset = 0
		state.Header = ObjectHeader{}
		return false, nil
	}
	state.Header = oh
	return true, nil
}

func (state *ObjectIterState) warnOnce(j *Journal, offset uint64, format string, args ...any) {
	if state.warned {
		return
	}
	logrus.WithFields(logrus.Fields{"journal": j.Name, "offset": offset}).Warnf(format, args...)
	state.warned = true
}

// IterObjects drives IterNextObject to completion, invoking visit for
// every object and returning when the end marker is reached (spec §4.5
// "iter_objects"). A non-nil error from visit halts iteration and is
// returned (mirroring the source's negative-result propagation, §5).
func IterObjects(ctx context.Context, j *Journal, h Header, visit func(offset uint64, oh ObjectHeader) error) error {
	var state ObjectIterState
	for {
		more, err := IterNextObject(ctx, j, h, &state)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		if err := visit(state.Offset, state.Header); err != nil {
			return err
		}
	}
}
