package model

// NoteEvent is one sounding note-on. Note-offs and velocity 0 note-ons are
// never represented.
type NoteEvent struct {
	Pitch    uint8
	Velocity uint8
	Channel  uint8
	Tick     uint64
}
