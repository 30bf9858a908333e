package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// TimeFormat is the timestamp layout used on every log line.
const TimeFormat = "2006-01-02 15:04:05"

var (
	L    = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: TimeFormat}).With().Timestamp().Logger()
	file *os.File
)

// Init sends log output to stdout and, when path is set, appends plain
// timestamped lines to the file at path. A file opened by an earlier Init
// is closed.
func Init(path, level string) error {
	_ = Close()
	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: TimeFormat}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		file = f
		w = zerolog.MultiLevelWriter(w, zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: TimeFormat})
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	L = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return nil
}

// Close releases the log file, if one is open.
func Close() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

func Info(v ...interface{})             { L.Info().Msg(fmt.Sprint(v...)) }
func Warn(v ...interface{})             { L.Warn().Msg(fmt.Sprint(v...)) }
func Error(v ...interface{})            { L.Error().Msg(fmt.Sprint(v...)) }
func Debugf(f string, v ...interface{}) { L.Debug().Msgf(f, v...) }
func Infof(f string, v ...interface{})  { L.Info().Msgf(f, v...) }
func Warnf(f string, v ...interface{})  { L.Warn().Msgf(f, v...) }
func Errorf(f string, v ...interface{}) { L.Error().Msgf(f, v...) }
