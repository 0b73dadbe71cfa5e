package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Config controls where and how verbosely the process logs.
type Config struct {
	// Verbosity is the -v count: 0 info, 1 debug, 2+ trace
	Verbosity int
	// File, when set, receives a rotated copy of every entry
	File string
}

var (
	rootLogger = logrus.New()
)

func init() {
	rootLogger.SetFormatter(&prefixed.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceFormatting: true,
	})
	rootLogger.SetOutput(os.Stderr)
	rootLogger.SetLevel(logrus.InfoLevel)
}

/* Public */

func Init(cfg Config) error {
	switch {
	case cfg.Verbosity >= 2:
		rootLogger.SetLevel(logrus.TraceLevel)
	case cfg.Verbosity == 1:
		rootLogger.SetLevel(logrus.DebugLevel)
	default:
		rootLogger.SetLevel(logrus.InfoLevel)
	}

	if cfg.File == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return err
	}

	rootLogger.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    5,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}))

	return nil
}

func GetLogger(prefix string) *logrus.Entry {
	return rootLogger.WithField("prefix", prefix)
}

func SetOutput(w io.Writer) {
	rootLogger.SetOutput(w)
}
