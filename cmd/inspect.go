package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/jsphweid/midicritic/chord"
	"github.com/jsphweid/midicritic/model"
	"github.com/jsphweid/midicritic/util"
	"github.com/spf13/cobra"
)

var topChords int

func init() {
	inspectCmd.Flags().IntVar(&topChords, "top", 10, "number of most common chords to list")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Lists note onsets of a MIDI file",
	Long:  `Lists note onsets of a MIDI file grouped by tick, then the most common chords.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := readNotes(args[0])
		if err != nil {
			return err
		}
		inspect(cmd.OutOrStdout(), res.Notes, res.Tracks, res.Truncated)
		return nil
	},
}

func inspect(w io.Writer, notes []model.NoteEvent, tracks int, truncated int) {
	fmt.Fprintf(w, "tracks: %v (truncated: %v)\n", tracks, truncated)
	chords := chord.GroupByTick(notes)
	for _, c := range chords {
		fmt.Fprintf(w, "%8d  %-24s ch %v\n", c.Tick, chord.Name(c), c.Channels)
	}

	counts := chord.CountKeys(chords)
	keys := util.GetKeys(counts)
	sort.SliceStable(keys, func(i, j int) bool {
		return counts[keys[i]] > counts[keys[j]]
	})
	if topChords >= 0 && len(keys) > topChords {
		keys = keys[:topChords]
	}
	fmt.Fprintf(w, "most common chords:\n")
	for _, key := range keys {
		fmt.Fprintf(w, "%6d  %v\n", counts[key], key)
	}
}
