package chord

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jsphweid/midicritic/model"
	"github.com/jsphweid/midicritic/summary"
	"golang.org/x/exp/slices"
)

func CreateChordKey(notes []uint8) string {
	sorted := slices.Clone(notes)
	slices.Sort(sorted)
	parts := make([]string, 0, len(sorted))
	for _, note := range sorted {
		parts = append(parts, strconv.Itoa(int(note)))
	}
	return strings.Join(parts, "-")
}

// Name renders the chord in scientific pitch notation, lowest first.
func Name(c model.Chord) string {
	names := make([]string, 0, len(c.Notes))
	for _, note := range c.Notes {
		names = append(names, summary.PitchName(note))
	}
	return strings.Join(names, " ")
}

// GroupByTick merges note-ons starting on the same tick, across tracks.
// Pitches repeated at one tick are kept once.
func GroupByTick(notes []model.NoteEvent) []model.Chord {
	byTick := make(map[uint64]*model.Chord)
	for _, n := range notes {
		c, ok := byTick[n.Tick]
		if !ok {
			c = &model.Chord{Tick: n.Tick}
			byTick[n.Tick] = c
		}
		if !slices.Contains(c.Notes, n.Pitch) {
			c.Notes = append(c.Notes, n.Pitch)
		}
		if !slices.Contains(c.Channels, n.Channel) {
			c.Channels = append(c.Channels, n.Channel)
		}
	}

	chords := make([]model.Chord, 0, len(byTick))
	for _, c := range byTick {
		slices.Sort(c.Notes)
		slices.Sort(c.Channels)
		chords = append(chords, *c)
	}
	sort.Slice(chords, func(i, j int) bool {
		return chords[i].Tick < chords[j].Tick
	})
	return chords
}

// CountKeys tallies how often each chord key occurs, ignoring single notes.
func CountKeys(chords []model.Chord) map[string]int {
	res := make(map[string]int)
	for _, c := range chords {
		if len(c.Notes) < 2 {
			continue
		}
		res[CreateChordKey(c.Notes)]++
	}
	return res
}
