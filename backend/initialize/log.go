package initialize

import (
	"os"
	"time"

	"banglaixanh/backend/global"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
	global.Logger = log.Output(cw)
}
