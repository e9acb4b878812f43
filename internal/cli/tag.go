package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aspect-build/sndfile-go"
)

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Read or set string tags",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <file> <tag>",
		Short: "Print one tag, failing if it is absent",
		Args:  cobra.ExactArgs(2),
		RunE:  runTagGet,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <file> <tag> <value>",
		Short: "Set one tag in place",
		Long: `Set one tag in place. Tag names: title, copyright, software, artist,
comment, date, album, license, tracknumber, genre.`,
		Args: cobra.ExactArgs(3),
		RunE: runTagSet,
	})
	return cmd
}

func parseTag(name string) (sndfile.TagType, error) {
	t, ok := sndfile.ParseTagType(name)
	if !ok {
		return 0, fmt.Errorf("unknown tag %q", name)
	}
	return t, nil
}

func runTagGet(cmd *cobra.Command, args []string) error {
	t, err := parseTag(args[1])
	if err != nil {
		return err
	}
	f, err := sndfile.ReadOnly(sndfile.Auto).OpenPath(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	v, ok := f.Tag(t)
	if !ok {
		return fmt.Errorf("%s has no %s tag", args[0], t)
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func runTagSet(cmd *cobra.Command, args []string) (err error) {
	t, err := parseTag(args[1])
	if err != nil {
		return err
	}
	f, err := sndfile.ReadWrite(sndfile.Auto).OpenPath(args[0])
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return f.SetTag(t, args[2])
}
