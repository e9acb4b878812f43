package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/aspect-build/sndfile-go"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported containers and encodings",
		Args:  cobra.NoArgs,
		RunE:  runFormats,
	}
}

func runFormats(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\nContainers:\n", sndfile.Version())

	majors := sndfile.MajorFormats()
	keys := make([]sndfile.MajorFormat, 0, len(majors))
	for k := range majors {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		info := majors[k]
		def := "-"
		if s, ok := sndfile.DefaultSubtype(k); ok {
			def = s.String()
		}
		fmt.Fprintf(out, "  %-8s %-6s %-10s %s\n", k, info.Extension, def, info.Name)
	}

	fmt.Fprintf(out, "\nEncodings:\n")
	subtypes := sndfile.SubtypeFormats()
	skeys := make([]sndfile.SubtypeFormat, 0, len(subtypes))
	for k := range subtypes {
		skeys = append(skeys, k)
	}
	slices.Sort(skeys)
	for _, k := range skeys {
		fmt.Fprintf(out, "  %-10s %s\n", k, subtypes[k].Name)
	}
	return nil
}
