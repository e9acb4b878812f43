package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aspect-build/sndfile-go"
)

// convertBlockFrames is the number of frames copied per read.
const convertBlockFrames = 4096

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input_file> <output_file>",
		Short: "Re-encode an audio file",
		Long: `Re-encode an audio file. The output container is chosen from the output
file extension; the encoding defaults to the container's customary one.

Examples:
  # WAV to FLAC with 16-bit samples
  sfinfo convert input.wav output.flac

  # AIFF to 32-bit float WAV
  sfinfo convert input.aiff output.wav --subtype FLOAT`,
		Args: cobra.ExactArgs(2),
		RunE: runConvert,
	}
	cmd.Flags().String("subtype", "", "Output encoding, e.g. PCM_16, PCM_24, FLOAT, VORBIS")
	cmd.Flags().String("endian", "file", "Output byte order: file, little, big or cpu")
	return cmd
}

// outputOptions derives write options for dst from the flags and the input file.
func outputOptions(cmd *cobra.Command, dst string, src *sndfile.File) (sndfile.WriteOptions, error) {
	ext := filepath.Ext(dst)
	major, ok := sndfile.MajorFormatFromExtension(ext)
	if !ok {
		return sndfile.WriteOptions{}, fmt.Errorf("no container for extension %q", ext)
	}

	subtypeName, err := cmd.Flags().GetString("subtype")
	if err != nil {
		return sndfile.WriteOptions{}, err
	}
	subtype, ok := sndfile.DefaultSubtype(major)
	if subtypeName != "" {
		subtype, ok = sndfile.ParseSubtypeFormat(subtypeName)
		if !ok {
			return sndfile.WriteOptions{}, fmt.Errorf("unknown subtype %q", subtypeName)
		}
	}
	if !ok {
		return sndfile.WriteOptions{}, fmt.Errorf("%s has no default subtype, pass --subtype", major)
	}

	endianName, err := cmd.Flags().GetString("endian")
	if err != nil {
		return sndfile.WriteOptions{}, err
	}
	endian, ok := sndfile.ParseEndian(endianName)
	if !ok {
		return sndfile.WriteOptions{}, fmt.Errorf("unknown endian %q", endianName)
	}

	return sndfile.NewWriteOptions(major, subtype, endian, src.SampleRate(), src.Channels()), nil
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
	inFileName, outFileName := args[0], args[1]

	src, err := sndfile.ReadOnly(sndfile.Auto).OpenPath(inFileName)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer src.Close()

	wopts, err := outputOptions(cmd, outFileName, src)
	if err != nil {
		return err
	}

	dst, err := sndfile.WriteOnly(wopts).OpenPath(outFileName)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	slog.Info("Conversion starting",
		"input_file", inFileName,
		"input_format", src.Format(),
		"output_file", outFileName,
		"output_format", wopts.Format,
		"sample_rate", src.SampleRate(),
		"channels", src.Channels())

	for t, v := range src.Tags() {
		if err := dst.SetTag(t, v); err != nil {
			slog.Warn("Tag not copied", "tag", t, "error", err)
		}
	}

	total, err := copyFrames(dst.Float64(), src.Float64())
	if err != nil {
		return err
	}

	slog.Info("Conversion complete", "frames", total)
	return nil
}

// copyFrames streams every remaining frame from r to w.
func copyFrames(w, r sndfile.FrameIO[float64]) (int64, error) {
	buf := make([]float64, convertBlockFrames*r.Channels())
	var total int64
	for {
		n, err := r.ReadFrames(buf)
		if err != nil {
			return total, fmt.Errorf("failed to read frames: %w", err)
		}
		if n == 0 {
			return total, nil
		}
		if _, err := w.WriteFrames(buf[:n*r.Channels()]); err != nil {
			return total, fmt.Errorf("failed to write frames: %w", err)
		}
		total += int64(n)
	}
}
