package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aspect-build/sndfile-go"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>...",
		Short: "Show format, length and tags of audio files",
		Long: `Open each file read-only and print its container, encoding, sample rate,
channel count, length and every tag that is present.

Files are opened concurrently; --jobs limits how many are open at once.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInfo,
	}
	cmd.Flags().Int("jobs", 4, "Maximum number of files opened at once")
	return cmd
}

// fileInfo is what info reports for one file.
type fileInfo struct {
	path       string
	format     sndfile.Format
	samplerate int
	channels   int
	frames     int64
	seekable   bool
	tags       map[sndfile.TagType]string
	err        error
}

func inspect(path string) fileInfo {
	fi := fileInfo{path: path}
	f, err := sndfile.ReadOnly(sndfile.Auto).OpenPath(path)
	if err != nil {
		fi.err = err
		return fi
	}
	defer f.Close()

	fi.format = f.Format()
	fi.samplerate = f.SampleRate()
	fi.channels = f.Channels()
	fi.frames = f.Frames()
	fi.seekable = f.Seekable()
	fi.tags = f.Tags()
	return fi
}

func runInfo(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	if jobs <= 0 {
		return fmt.Errorf("--jobs must be positive, got %d", jobs)
	}

	results := make([]fileInfo, len(args))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range args {
		g.Go(func() error {
			results[i] = inspect(path)
			return nil
		})
	}
	g.Wait()

	var failed int
	for _, fi := range results {
		if fi.err != nil {
			slog.Error("Failed to open file", "path", fi.path, "error", fi.err)
			failed++
			continue
		}
		printInfo(cmd.OutOrStdout(), fi)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be opened", failed, len(args))
	}
	return nil
}

func printInfo(out io.Writer, fi fileInfo) {
	fmt.Fprintf(out, "%s\n", fi.path)
	fmt.Fprintf(out, "  Format:      %s\n", fi.format)
	fmt.Fprintf(out, "  Sample rate: %d Hz\n", fi.samplerate)
	fmt.Fprintf(out, "  Channels:    %d\n", fi.channels)
	fmt.Fprintf(out, "  Frames:      %d\n", fi.frames)
	if fi.samplerate > 0 {
		fmt.Fprintf(out, "  Length:      %.2f seconds\n", float64(fi.frames)/float64(fi.samplerate))
	}
	fmt.Fprintf(out, "  Seekable:    %t\n", fi.seekable)
	for _, t := range sndfile.TagTypes() {
		if v, ok := fi.tags[t]; ok {
			fmt.Fprintf(out, "  %-12s %s\n", t.String()+":", v)
		}
	}
}
