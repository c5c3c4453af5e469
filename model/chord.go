package model

type Notes = []uint8

// Chord is the set of pitches whose note-ons share a tick.
type Chord struct {
	Tick     uint64
	Notes    Notes
	Channels []uint8
}
