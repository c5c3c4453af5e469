package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jsphweid/midicritic/feedback"
	"github.com/jsphweid/midicritic/midi"
	"github.com/jsphweid/midicritic/summary"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	instruments  []string
	showPrompt   bool
	wantFeedback bool
)

func init() {
	analyzeCmd.Flags().StringSliceVarP(&instruments, "instrument", "i", nil, "instrument the score is written for (repeatable)")
	analyzeCmd.Flags().BoolVar(&showPrompt, "prompt", false, "print the feedback prompt instead of the summary")
	analyzeCmd.Flags().BoolVar(&wantFeedback, "feedback", false, "ask the model for feedback (needs FEEDBACK_API_KEY)")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Summarizes MIDI files",
	Long:  `Parses each MIDI file and prints its summary as JSON.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var generator feedback.Generator
		if wantFeedback {
			client, err := feedback.NewClientFromEnv()
			if err != nil {
				return err
			}
			generator = client
		}

		for _, path := range args {
			out, err := analyzeFile(cmd.Context(), path, generator)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

func analyzeFile(ctx context.Context, path string, generator feedback.Generator) (string, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "could not read %s", path)
	}

	s, err := summary.Analyze(dat)
	if err != nil {
		log.WithField("file", path).Warnf("Using degraded summary because: %v", err)
	}

	if !showPrompt && generator == nil {
		res, err := json.MarshalIndent(s, "", "  ")
		return string(res), err
	}

	req := feedback.Request{FileName: filepath.Base(path), FileSize: int64(len(dat)), Instruments: instruments}
	prompt, err := feedback.BuildPrompt(req, s)
	if err != nil || generator == nil {
		return prompt, err
	}
	return generator.Generate(ctx, prompt)
}

// readNotes is shared by the commands that only need the parse result.
func readNotes(path string) (midi.Result, error) {
	res, err := midi.ReadFile(path)
	if err != nil {
		return res, errors.Wrapf(err, "skipping %s", path)
	}
	return res, nil
}
