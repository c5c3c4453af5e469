package sample

import (
	"bytes"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const TicksPerQuarter = 480

var majorSteps = []uint8{0, 2, 4, 5, 7, 9, 11}

// Part is one track's worth of quarter notes.
type Part struct {
	Name     string
	Channel  uint8
	Program  uint8
	Velocity uint8
	Pitches  []uint8
}

// MajorScale returns count ascending pitches of the major scale on root.
func MajorScale(root uint8, count int) []uint8 {
	var res []uint8
	for i := 0; i < count; i++ {
		octave := uint8(i / len(majorSteps))
		p := int(root) + int(octave)*12 + int(majorSteps[i%len(majorSteps)])
		if p > 127 {
			break
		}
		res = append(res, uint8(p))
	}
	return res
}

func track(p Part) smf.Track {
	var t smf.Track
	if p.Name != "" {
		t.Add(0, smf.MetaTrackSequenceName(p.Name))
	}
	t.Add(0, smf.MetaTempo(120))
	t.Add(0, midi.ProgramChange(p.Channel, p.Program))
	for _, pitch := range p.Pitches {
		t.Add(0, midi.NoteOn(p.Channel, pitch, p.Velocity))
		t.Add(TicksPerQuarter, midi.NoteOff(p.Channel, pitch))
	}
	t.Close(0)
	return t
}

// Create builds a format 1 file with one track per part.
func Create(parts ...Part) (*smf.SMF, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)
	for _, p := range parts {
		if err := s.Add(track(p)); err != nil {
			return nil, errors.Wrap(err, "could not add track")
		}
	}
	return s, nil
}

func Bytes(s *smf.SMF) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "could not write smf")
	}
	return buf.Bytes(), nil
}
