package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var L = zerolog.Nop()

// Init points the logger at path. The terminal belongs to the UI, so an empty path discards logs.
func Init(path string) error {
	var w io.Writer = io.Discard
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		w = file
	}
	L = log.Output(zerolog.ConsoleWriter{Out: w, NoColor: true})
	return nil
}

func Info(v ...interface{})             { L.Info().Msg(fmt.Sprint(v...)) }
func Warn(v ...interface{})             { L.Warn().Msg(fmt.Sprint(v...)) }
func Error(v ...interface{})            { L.Error().Msg(fmt.Sprint(v...)) }
func Infof(f string, v ...interface{})  { L.Info().Msgf(f, v...) }
func Warnf(f string, v ...interface{})  { L.Warn().Msgf(f, v...) }
func Errorf(f string, v ...interface{}) { L.Error().Msgf(f, v...) }
