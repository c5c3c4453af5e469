package midi

import "github.com/jsphweid/midicritic/model"

type trackStep int

const (
	stepReadDelta trackStep = iota
	stepReadStatus
	stepDispatch
	stepDone
)

// trackState lives for the walk of one MTrk body.
type trackState struct {
	start int
	end   int

	step          trackStep
	tick          uint64
	runningStatus byte
	status        byte

	notes []model.NoteEvent
}

func newTrackState(start, end int) *trackState {
	return &trackState{start: start, end: end, step: stepReadDelta}
}

// walk runs the state machine until the track end is reached or a read
// would cross it. Notes collected before a truncation are kept.
func (t *trackState) walk(c *Cursor) ([]model.NoteEvent, error) {
	var err error
	for t.step != stepDone {
		switch t.step {
		case stepReadDelta:
			err = t.readDelta(c)
		case stepReadStatus:
			err = t.readStatus(c)
		case stepDispatch:
			err = t.dispatch(c)
		}
		if err != nil {
			t.step = stepDone
		}
	}
	return t.notes, err
}

func (t *trackState) readDelta(c *Cursor) error {
	if c.Pos() >= t.end {
		t.step = stepDone
		return nil
	}
	delta, err := c.ReadVLQ(t.end)
	if err != nil {
		return err
	}
	t.tick += delta
	if c.Pos() >= t.end {
		t.step = stepDone
		return nil
	}
	t.step = stepReadStatus
	return nil
}

func (t *trackState) readStatus(c *Cursor) error {
	b, ok := c.Peek()
	if !ok {
		return errTruncated
	}
	if b&0x80 != 0 {
		c.Seek(c.Pos() + 1)
		t.runningStatus = b
	}
	// otherwise b is the first data byte under running status
	t.status = t.runningStatus
	t.step = stepDispatch
	return nil
}

func (t *trackState) dispatch(c *Cursor) error {
	t.step = stepReadDelta

	switch t.status {
	case statusMeta:
		if _, err := c.Next(t.end); err != nil {
			return err
		}
		return t.skipSized(c)
	case statusSysEx, statusSysExEscape:
		return t.skipSized(c)
	}

	switch t.status & 0xF0 {
	case statusNoteOn:
		data, err := t.readData(c, 2)
		if err != nil {
			return err
		}
		// velocity 0 is the note-off idiom
		if velocity := data[1] & 0x7F; velocity > 0 {
			t.notes = append(t.notes, model.NoteEvent{
				Pitch:    data[0] & 0x7F,
				Velocity: velocity,
				Channel:  t.status & 0x0F,
				Tick:     t.tick,
			})
		}
		return nil
	case statusNoteOff, statusPolyPressure, statusControlChange, statusPitchBend:
		_, err := t.readData(c, 2)
		return err
	case statusProgramChange, statusChannelPressure:
		_, err := t.readData(c, 1)
		return err
	}

	// unknown or missing status: guarantee forward progress
	return c.Skip(1, t.end)
}

func (t *trackState) readData(c *Cursor, n int) ([2]byte, error) {
	var data [2]byte
	for i := 0; i < n; i++ {
		b, err := c.Next(t.end)
		if err != nil {
			return data, err
		}
		data[i] = b
	}
	return data, nil
}

func (t *trackState) skipSized(c *Cursor) error {
	length, err := c.ReadVLQ(t.end)
	if err != nil {
		return err
	}
	return c.Skip(length, t.end)
}
