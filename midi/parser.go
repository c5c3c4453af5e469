package midi

import (
	"github.com/jsphweid/midicritic/model"
	"github.com/pkg/errors"
)

var ErrUnreadable = errors.New("could not parse MIDI structure")

const (
	tagHeader = "MThd"
	tagTrack  = "MTrk"

	chunkHeaderSize = 8
)

const (
	statusNoteOff         = 0x80
	statusNoteOn          = 0x90
	statusPolyPressure    = 0xA0
	statusControlChange   = 0xB0
	statusProgramChange   = 0xC0
	statusChannelPressure = 0xD0
	statusPitchBend       = 0xE0
	statusSysEx           = 0xF0
	statusSysExEscape     = 0xF7
	statusMeta            = 0xFF
)

type Result struct {
	Notes   []model.NoteEvent
	MaxTick uint64

	// Tracks counts MTrk chunks seen, Truncated those whose walk stopped
	// before reaching the declared end.
	Tracks    int
	Truncated int
}

// Parse extracts note-on events from a Standard MIDI File. Damage inside a
// track only costs the rest of that track; ErrUnreadable is returned only
// when no track chunk can be found at all.
func Parse(buf []byte) (Result, error) {
	var res Result

	if len(buf) < chunkHeaderSize {
		return res, errors.Wrapf(ErrUnreadable, "buffer of %d bytes holds no chunk", len(buf))
	}

	c := NewCursor(buf)
	if c.HasTag(tagHeader) {
		c.Seek(4)
		headerLen, _ := c.ReadUint32()
		c.Seek(chunkHeaderSize + int(headerLen))
	}

	for c.Remaining() >= chunkHeaderSize {
		if !c.HasTag(tagTrack) {
			c.Seek(c.Pos() + 1)
			continue
		}

		chunkStart := c.Pos()
		c.Seek(chunkStart + len(tagTrack))
		trackLen, _ := c.ReadUint32()
		trackEnd := clampedEnd(chunkStart, trackLen, len(buf))

		t := newTrackState(c.Pos(), trackEnd)
		notes, err := t.walk(c)
		res.Notes = append(res.Notes, notes...)
		if err != nil {
			res.Truncated++
		}
		if t.tick > res.MaxTick {
			res.MaxTick = t.tick
		}
		res.Tracks++

		c.Seek(trackEnd)
	}

	if res.Tracks == 0 {
		return res, errors.Wrap(ErrUnreadable, "no track chunk found")
	}
	return res, nil
}

// clampedEnd is chunkStart + 8 + declared, or the buffer end when the
// declared length points beyond it.
func clampedEnd(chunkStart int, declared uint32, bufLen int) int {
	end := uint64(chunkStart) + chunkHeaderSize + uint64(declared)
	if end > uint64(bufLen) {
		return bufLen
	}
	return int(end)
}
