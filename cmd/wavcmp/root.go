package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/wavcmp"
)

var (
	errTracksDiffer      = errors.New("tracks differ")
	errUnknownOutput     = errors.New("unknown output format")
	errNegativeTolerance = errors.New("tolerance must not be negative")
)

type options struct {
	output            string
	verbose           bool
	skipUnknownChunks bool
	noExtensible      bool
	tolerance         time.Duration
	failOnDiff        bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "wavcmp [flags] <a.wav> <b.wav>",
		Short: "Compare two wav files sample by sample",
		Long: `wavcmp decodes two PCM wav files and reports whether they can be compared
(same format, channel count, sample rate and bit depth), whether their
durations match and the window of frames where samples differ.

Examples:
  # Compare two renders
  wavcmp before.wav after.wav

  # Machine readable report, non-zero exit when anything differs
  wavcmp --output yaml --fail-on-diff before.wav after.wav
`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogger(cmd.ErrOrStderr(), opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(out, opts, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "text", "report format: text or yaml")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&opts.skipUnknownChunks, "skip-unknown-chunks", false, "skip chunks other than fmt/fact/data instead of failing")
	flags.BoolVar(&opts.noExtensible, "no-extensible", false, "don't parse WAVE_FORMAT_EXTENSIBLE fields")
	flags.DurationVar(&opts.tolerance, "tolerance", wavcmp.DefaultDurationTolerance, "largest duration difference reported as equal length")
	flags.BoolVar(&opts.failOnDiff, "fail-on-diff", false, "exit with an error when the tracks are incompatible or differ")

	return cmd
}

func initLogger(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})))
}

func runCompare(out io.Writer, opts *options, pathA, pathB string) error {
	if opts.output != "text" && opts.output != "yaml" {
		return fmt.Errorf("%w: %q", errUnknownOutput, opts.output)
	}

	if opts.tolerance < 0 {
		return errNegativeTolerance
	}

	dec := wavcmp.NewDecoder()
	dec.SkipUnknownChunks = opts.skipUnknownChunks
	dec.Extensible = !opts.noExtensible

	a, err := decodeFile(dec, pathA)
	if err != nil {
		return err
	}

	b, err := decodeFile(dec, pathB)
	if err != nil {
		return err
	}

	cmp := &wavcmp.Comparator{DurationTolerance: opts.tolerance}

	started := time.Now()
	report := cmp.Compare(a, b)
	slog.Debug("compared tracks", "elapsed", time.Since(started), "differing_frames", report.DifferingFrames)

	doc := newReportDoc(pathA, a, pathB, b, report)

	switch opts.output {
	case "yaml":
		err = writeYAML(out, doc)
	default:
		err = writeText(out, doc)
	}

	if err != nil {
		return err
	}

	if opts.failOnDiff {
		if err := report.Err(); err != nil {
			return err
		}

		if report.Differences != nil || !report.LengthsEqual {
			return errTracksDiffer
		}
	}

	return nil
}

func decodeFile(dec *wavcmp.Decoder, path string) (*wavcmp.Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	started := time.Now()

	track, err := dec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	slog.Debug("decoded track",
		"path", path,
		"bytes", len(data),
		"frames", track.SampleFrames,
		"elapsed", time.Since(started))

	return track, nil
}
