package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autobrr/otherfile/pkg/related"
)

type lookupFn func(f *related.Finder, file string) (*related.Match, error)

func ExtCommand() *cobra.Command {
	return lookupCommand("ext FILE...",
		"Find files with the same name and a related extension",
		`Find files sharing the base name of FILE with one of the extensions mapped to its extension,
for example foo.c -> foo.h.`,
		`  otherfile ext src/foo.c
  otherfile ext include/foo.h src/bar.cpp`,
		func(f *related.Finder, file string) (*related.Match, error) {
			return f.ByExtension(file)
		})
}

func PatternCommand() *cobra.Command {
	return lookupCommand("pattern FILE...",
		"Find files with the same extension and a related prefix/suffix",
		`Find files with the extension of FILE whose base name differs by a configured prefix or suffix,
for example foo.go -> foo_test.go.`,
		`  otherfile pattern pkg/foo.go
  otherfile pattern pkg/foo_test.go`,
		func(f *related.Finder, file string) (*related.Match, error) {
			return f.ByPattern(file)
		})
}

func lookupCommand(use, short, long, example string, fn lookupFn) *cobra.Command {
	command := &cobra.Command{
		Use:          use,
		Short:        short,
		Long:         long,
		Example:      example,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
	}

	command.RunE = func(cmd *cobra.Command, args []string) error {
		finder, err := initCore()
		if err != nil {
			return err
		}

		failed := 0
		for _, file := range args {
			m, err := fn(finder, file)
			if !describe(cmd.OutOrStdout(), file, m, err) {
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("no related files for %d of %d file(s)", failed, len(args))
		}
		return nil
	}

	return command
}
