package cmd

import (
	"os"

	"github.com/jsphweid/midicritic/sample"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	root  uint8
	count int
)

func init() {
	generateCmd.Flags().Uint8Var(&root, "root", 60, "lowest pitch of the scale")
	generateCmd.Flags().IntVar(&count, "count", 8, "number of scale notes")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <out.mid>",
	Short: "Writes a sample MIDI file",
	Long:  `Writes a two track sample file: a major scale over a bass line on the root.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return generate(args[0])
	},
}

func generate(path string) error {
	bass := root % 12
	for bass+12 < root && bass < 36 {
		bass += 12
	}

	s, err := sample.Create(
		sample.Part{Name: "Melody", Channel: 0, Velocity: 96, Pitches: sample.MajorScale(root, count)},
		sample.Part{Name: "Bass", Channel: 1, Program: 32, Velocity: 80, Pitches: []uint8{bass, bass + 7, bass, bass + 7}},
	)
	if err != nil {
		return err
	}
	dat, err := sample.Bytes(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, dat, 0666); err != nil {
		return errors.Wrapf(err, "could not write %s", path)
	}
	log.Infof("Wrote %v bytes to %v", len(dat), path)
	return nil
}
