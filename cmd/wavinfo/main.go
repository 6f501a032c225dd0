// This tool prints the decoded chunk headers of one wav file, or of every wav
// file in a folder.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/wavcmp"
)

const missingPathMessage = "You must pass the path of the file to decode or -dir"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

func run(args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("wavinfo", flag.ContinueOnError)
	flagSet.SetOutput(out)

	dir := flagSet.String("dir", "", "Directory containing the wav files to describe")
	skipUnknown := flagSet.Bool("skip-unknown", false, "Skip chunks other than fmt/fact/data instead of failing")
	noExtensible := flagSet.Bool("no-extensible", false, "Don't parse WAVE_FORMAT_EXTENSIBLE fields")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	dec := wavcmp.NewDecoder()
	dec.SkipUnknownChunks = *skipUnknown
	dec.Extensible = !*noExtensible

	if *dir != "" {
		return describeDir(dec, *dir, out)
	}

	if flagSet.NArg() < 1 {
		return errMissingPath
	}

	return describeFile(dec, flagSet.Arg(0), out)
}

func describeDir(dec *wavcmp.Decoder, dir string, out io.Writer) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(strings.ToLower(filepath.Ext(entry.Name())), ".wav") {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		err := describeFile(dec, path, out)
		if err != nil {
			// keep going, one broken file shouldn't hide the others
			log.Printf("Something went wrong decoding %s - %v", path, err)
		}

		fmt.Fprintln(out)
	}

	return nil
}

func describeFile(dec *wavcmp.Decoder, path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	track, err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	fmt.Fprintf(out, "File: %s\n", path)
	fmt.Fprintf(out, "RIFF size: %d\n", track.Riff.DeclaredSize)
	fmt.Fprintf(out, "Audio format: 0x%04X\n", track.Fmt.FormatTag)
	fmt.Fprintf(out, "Channels: %d\n", track.Fmt.NumChannels)
	fmt.Fprintf(out, "Sample rate: %d\n", track.Fmt.SampleRate)
	fmt.Fprintf(out, "Byte rate: %d\n", track.Fmt.AvgBytesPerSec)
	fmt.Fprintf(out, "Block align: %d\n", track.Fmt.BlockAlign)
	fmt.Fprintf(out, "Bits per sample: %d\n", track.Fmt.BitsPerSample)

	if ext := track.Fmt.Extensible; ext != nil {
		fmt.Fprintf(out, "Valid bits per sample: %d\n", ext.ValidBitsPerSample)
		fmt.Fprintf(out, "Channel mask: 0x%08X\n", ext.ChannelMask)
		fmt.Fprintf(out, "Sub format: 0x%08X\n", ext.SubFormatTag)
	}

	if track.Fact != nil {
		fmt.Fprintf(out, "Fact sample frames: %d\n", track.Fact.SampleFrames)
	}

	fmt.Fprintf(out, "Data size: %d\n", track.Data.Size)
	fmt.Fprintf(out, "Sample frames: %d\n", track.SampleFrames)
	fmt.Fprintf(out, "Duration: %s\n", track.Duration())

	for i, c := range track.ExtraChunks {
		fmt.Fprintf(out, "\tchunk [%d]:\t%q, %d bytes, before data: %t\n", i, c.IDString(), c.Size, c.BeforeData)
	}

	return nil
}
