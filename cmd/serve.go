package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/autobrr/otherfile/pkg/config"
	"github.com/autobrr/otherfile/pkg/lookupcache"
	"github.com/autobrr/otherfile/pkg/pathops"
	"github.com/autobrr/otherfile/pkg/related"
)

const defaultStatsLimit = 5

var (
	flagServeWatch bool
)

func ServeCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "serve",
		Short: "Answer lookups read line by line from stdin",
		Long: `Keep the lookup caches warm across requests. Each input line is one request:

  ext PATH       files with the same name and a related extension
  pattern PATH   files with the same extension and a related prefix/suffix
  stats [N]      cache sizes and the N most recent entries
  clear          drop the caches
  quit           stop

Every response ends with a line holding a single dot.`,
		Example: `  printf 'ext src/foo.c\nstats\n' | otherfile serve`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	command.Flags().BoolVar(&flagServeWatch, "watch", true, "Reload the config file when it changes")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		finder, err := initCore()
		if err != nil {
			return err
		}

		if flagServeWatch {
			path := configFilePath()
			if err := config.Watch(path, func(cfg *config.Configuration) {
				if FlagNoCache {
					cfg.CacheEnabled = false
				}
				if err := finder.Reload(cfg); err != nil {
					log.WithError(err).Error("Failed applying reloaded config")
				}
			}); err != nil {
				log.WithError(err).Debug("Config watch disabled")
			}
		}

		return serve(finder, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	return command
}

func serve(finder *related.Finder, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		verb, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		start := time.Now()

		switch verb {
		case "quit", "exit":
			return nil
		case "ext", "pattern":
			if arg == "" {
				fmt.Fprintf(out, "error: %s needs a path\n", verb)
				break
			}

			var (
				m   *related.Match
				err error
			)
			if verb == "ext" {
				m, err = finder.ByExtension(arg)
			} else {
				m, err = finder.ByPattern(arg)
			}
			writeLookup(out, m, err)
			log.Tracef("Handled %q in %s", line, time.Since(start))
		case "stats":
			limit := defaultStatsLimit
			if arg != "" {
				n, err := strconv.Atoi(arg)
				if err != nil {
					fmt.Fprintf(out, "error: invalid limit %q\n", arg)
					break
				}
				limit = n
			}
			writeStats(out, finder.CacheStats(limit))
		case "clear":
			finder.ClearCache()
			fmt.Fprintln(out, "cleared")
		default:
			fmt.Fprintf(out, "error: unknown request %q\n", verb)
		}

		fmt.Fprintln(out, ".")
	}

	return scanner.Err()
}

func writeLookup(out io.Writer, m *related.Match, err error) {
	var nf *related.NotFoundError

	switch {
	case err == nil:
		for _, p := range m.Paths {
			fmt.Fprintln(out, p)
		}
	case errors.As(err, &nf):
		fmt.Fprintf(out, "not found: %s\n", strings.Join(nf.Attempted, " "))
	default:
		fmt.Fprintf(out, "error: %v\n", err)
	}
}

func writeStats(out io.Writer, stats lookupcache.Stats) {
	state := "enabled"
	if !stats.Enabled {
		state = "disabled"
	}

	fmt.Fprintf(out, "cache %s, capacity %s per map\n", state, humanize.Comma(int64(stats.Capacity)))
	fmt.Fprintf(out, "files: %s\n", humanize.Comma(int64(stats.Files)))
	for _, e := range stats.RecentFiles {
		fmt.Fprintf(out, "  %s -> %s\n", pathops.FileName(e.Key.BaseName, e.Key.Extension), e.Path)
	}

	fmt.Fprintf(out, "directories: %s\n", humanize.Comma(int64(stats.Directories)))
	for _, e := range stats.RecentDirectories {
		fmt.Fprintf(out, "  %s [%s -> %s] -> %s\n", e.Key.SourceDir, e.Key.Source, e.Key.Target, e.Dir)
	}
}
