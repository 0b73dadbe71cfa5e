package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/autobrr/otherfile/pkg/config"
	"github.com/autobrr/otherfile/pkg/logger"
	"github.com/autobrr/otherfile/pkg/related"
	"github.com/autobrr/otherfile/pkg/runtime"
)

var (
	// Global flags
	FlagLogLevel     = 0
	FlagConfigFile   = "config.yml"
	FlagConfigFolder = config.DefaultConfigDirectory("otherfile", FlagConfigFile)
	FlagLogFile      = ""
	FlagNoCache      bool

	// Global vars
	log = logger.GetLogger("app")
)

func configFilePath() string {
	if filepath.IsAbs(FlagConfigFile) {
		return FlagConfigFile
	}
	return filepath.Join(FlagConfigFolder, FlagConfigFile)
}

func initCore() (*related.Finder, error) {
	logFile := FlagLogFile
	if logFile != "" && !filepath.IsAbs(logFile) {
		logFile = filepath.Join(FlagConfigFolder, logFile)
	}

	if err := logger.Init(logger.Config{
		Verbosity: FlagLogLevel,
		File:      logFile,
	}); err != nil {
		return nil, fmt.Errorf("initialise logging: %w", err)
	}

	log.Debugf("otherfile %s (%s)", runtime.Version, runtime.GitCommit)

	if err := config.Init(configFilePath()); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if FlagNoCache {
		config.Config.CacheEnabled = false
	}

	return related.New(config.Config)
}

// describe turns a lookup outcome into the lines shown to the user.
func describe(w io.Writer, file string, m *related.Match, err error) bool {
	var nf *related.NotFoundError

	switch {
	case err == nil:
		for _, p := range m.Paths {
			fmt.Fprintln(w, p)
		}
		log.Debugf("Resolved %s via %s tier", file, m.Tier)
		return true
	case errors.As(err, &nf):
		log.Warnf("Nothing matched for %s, tried: %v", file, nf.Attempted)
	default:
		log.WithError(err).Warnf("Lookup failed for %s", file)
	}

	return false
}
