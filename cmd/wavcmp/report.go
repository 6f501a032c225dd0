package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/wavcmp"
)

type trackDoc struct {
	Path          string `yaml:"path"`
	AudioFormat   uint16 `yaml:"audio_format"`
	Channels      uint16 `yaml:"channels"`
	SampleRate    uint32 `yaml:"sample_rate"`
	BitsPerSample uint16 `yaml:"bits_per_sample"`
	Frames        uint32 `yaml:"frames"`
	Duration      string `yaml:"duration"`
}

type differenceDoc struct {
	FirstFrame uint32 `yaml:"first_frame"`
	LastFrame  uint32 `yaml:"last_frame"`
	Start      string `yaml:"start"`
	End        string `yaml:"end"`
	Frames     uint32 `yaml:"frames"`
}

type reportDoc struct {
	A                     trackDoc       `yaml:"a"`
	B                     trackDoc       `yaml:"b"`
	Compatible            bool           `yaml:"compatible"`
	IncompatibilityReason string         `yaml:"incompatibility_reason,omitempty"`
	LengthsEqual          bool           `yaml:"lengths_equal"`
	Differences           *differenceDoc `yaml:"differences,omitempty"`
}

func newTrackDoc(path string, track *wavcmp.Track) trackDoc {
	return trackDoc{
		Path:          path,
		AudioFormat:   track.Fmt.FormatTag,
		Channels:      track.Fmt.NumChannels,
		SampleRate:    track.Fmt.SampleRate,
		BitsPerSample: track.Fmt.BitsPerSample,
		Frames:        track.SampleFrames,
		Duration:      track.Duration().String(),
	}
}

func newReportDoc(pathA string, a *wavcmp.Track, pathB string, b *wavcmp.Track, report *wavcmp.Report) *reportDoc {
	doc := &reportDoc{
		A:            newTrackDoc(pathA, a),
		B:            newTrackDoc(pathB, b),
		Compatible:   report.Compatible,
		LengthsEqual: report.LengthsEqual,
	}

	if reason, ok := report.IncompatibilityReason(); ok {
		doc.IncompatibilityReason = reason
	}

	if start, end, ok := report.DifferenceWindow(); ok {
		doc.Differences = &differenceDoc{
			FirstFrame: report.Differences.First,
			LastFrame:  report.Differences.Last,
			Start:      start.String(),
			End:        end.String(),
			Frames:     report.DifferingFrames,
		}
	}

	return doc
}

func writeYAML(out io.Writer, doc *reportDoc) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = out.Write(data)

	return err
}

func writeText(out io.Writer, doc *reportDoc) error {
	for _, track := range []trackDoc{doc.A, doc.B} {
		fmt.Fprintf(out, "%s: format 0x%04X, %d ch, %d Hz, %d bits, %d frames (%s)\n",
			track.Path, track.AudioFormat, track.Channels, track.SampleRate, track.BitsPerSample,
			track.Frames, track.Duration)
	}

	if !doc.Compatible {
		_, err := fmt.Fprintf(out, "Incompatible: %s\n", doc.IncompatibilityReason)
		return err
	}

	fmt.Fprintf(out, "Lengths equal: %t\n", doc.LengthsEqual)

	if doc.Differences == nil {
		_, err := fmt.Fprintln(out, "No differences")
		return err
	}

	_, err := fmt.Fprintf(out, "Differences: frames %d..%d (%s - %s), %d differing frames\n",
		doc.Differences.FirstFrame, doc.Differences.LastFrame,
		doc.Differences.Start, doc.Differences.End, doc.Differences.Frames)

	return err
}
