package summary

import (
	"fmt"
	"sort"

	"github.com/jsphweid/midicritic/constants"
	"github.com/jsphweid/midicritic/midi"
	"github.com/jsphweid/midicritic/model"
)

// PitchName renders scientific pitch notation, e.g. 60 -> "C4".
func PitchName(pitch uint8) string {
	return fmt.Sprintf("%v%v", constants.PitchClassNames[pitch%12], int(pitch/12)-1)
}

func PitchClassHistogram(notes []model.NoteEvent) [12]int {
	var hist [12]int
	for _, n := range notes {
		hist[n.Pitch%12]++
	}
	return hist
}

// TopPitchClasses orders the non-empty classes by count, ties going to the
// lower pitch class.
func TopPitchClasses(hist [12]int, limit int) []string {
	var classes []int
	for pc, count := range hist {
		if count > 0 {
			classes = append(classes, pc)
		}
	}
	sort.SliceStable(classes, func(i, j int) bool {
		return hist[classes[i]] > hist[classes[j]]
	})

	res := make([]string, 0, limit)
	for _, pc := range classes {
		if len(res) == limit {
			break
		}
		res = append(res, constants.PitchClassNames[pc])
	}
	return res
}

func noteRange(notes []model.NoteEvent) model.NoteRange {
	var lowest, highest uint8
	for i, n := range notes {
		if i == 0 || n.Pitch < lowest {
			lowest = n.Pitch
		}
		if i == 0 || n.Pitch > highest {
			highest = n.Pitch
		}
	}
	return model.NoteRange{Lowest: PitchName(lowest), Highest: PitchName(highest)}
}

func channelCount(notes []model.NoteEvent) int {
	var seen [16]bool
	var count int
	for _, n := range notes {
		ch := n.Channel & 0x0F
		if !seen[ch] {
			seen[ch] = true
			count++
		}
	}
	return count
}

// EstimateBars assumes 1920 ticks per bar whatever the file's division.
func EstimateBars(maxTick uint64) int {
	return int((maxTick + constants.TicksPerBar - 1) / constants.TicksPerBar)
}

func averageVelocity(notes []model.NoteEvent) int {
	if len(notes) == 0 {
		return 0
	}
	var sum uint64
	for _, n := range notes {
		sum += uint64(n.Velocity)
	}
	count := uint64(len(notes))
	// round half up
	return int((2*sum + count) / (2 * count))
}

func Summarize(notes []model.NoteEvent, maxTick uint64) model.Summary {
	hist := PitchClassHistogram(notes)

	var unique int
	for _, count := range hist {
		if count > 0 {
			unique++
		}
	}

	return model.Summary{
		TotalNotes:         len(notes),
		UniquePitchClasses: unique,
		TopPitchClasses:    TopPitchClasses(hist, constants.TopPitchClassLimit),
		NoteRange:          noteRange(notes),
		ChannelCount:       channelCount(notes),
		EstimatedBars:      EstimateBars(maxTick),
		AverageVelocity:    averageVelocity(notes),
	}
}

// Degraded stands in for a summary when the buffer could not be read.
func Degraded() model.Summary {
	s := Summarize(nil, 0)
	s.Error = constants.UnparseableMessage
	return s
}

// Analyze parses buf and summarizes it. On error the degraded summary is
// returned alongside the error.
func Analyze(buf []byte) (model.Summary, error) {
	res, err := midi.Parse(buf)
	if err != nil {
		return Degraded(), err
	}
	return Summarize(res.Notes, res.MaxTick), nil
}
