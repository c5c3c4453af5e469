package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jsphweid/midicritic/constants"
	"github.com/jsphweid/midicritic/summary"
	"github.com/jsphweid/midicritic/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <dir> [maxFiles]",
	Short: "Creates a report",
	Long:  `Summarizes every .mid/.midi file under dir and prints totals.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var maxNum int
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			maxNum = n
		}

		paths, err := util.GatherAllMidiPaths(args[0], maxNum)
		if err != nil {
			return err
		}
		report(cmd.OutOrStdout(), paths)
		return nil
	},
}

type filesReport struct {
	numFiles      int
	numUnreadable int
	numTruncated  int
	notes         []int
	bars          []int
	pitchClasses  [12]int
	channelCounts []int
}

func analyzeFiles(paths []string) filesReport {
	var r filesReport
	for i, path := range paths {
		log.Debugf("Processing %v of %v midi files", i+1, len(paths))
		r.numFiles++

		res, err := readNotes(path)
		if err != nil {
			log.Warn(err)
			r.numUnreadable++
			continue
		}
		r.numTruncated += res.Truncated

		s := summary.Summarize(res.Notes, res.MaxTick)
		r.notes = append(r.notes, s.TotalNotes)
		r.bars = append(r.bars, s.EstimatedBars)
		r.channelCounts = append(r.channelCounts, s.ChannelCount)
		hist := summary.PitchClassHistogram(res.Notes)
		for pc, count := range hist {
			r.pitchClasses[pc] += count
		}
	}
	return r
}

func report(w io.Writer, paths []string) {
	r := analyzeFiles(paths)
	fmt.Fprintf(w, "files: %v\n", r.numFiles)
	fmt.Fprintf(w, "unreadable files: %v\n", r.numUnreadable)
	fmt.Fprintf(w, "truncated tracks: %v\n", r.numTruncated)
	fmt.Fprintf(w, "total notes: %v\n", util.Sum(r.notes))
	fmt.Fprintf(w, "total estimated bars: %v\n", util.Sum(r.bars))
	fmt.Fprintf(w, "most channels in one file: %v\n", util.Max(r.channelCounts...))
	fmt.Fprintf(w, "top pitch classes: %v\n", summary.TopPitchClasses(r.pitchClasses, constants.TopPitchClassLimit))
}
