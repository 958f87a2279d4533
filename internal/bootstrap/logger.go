package bootstrap

import (
	"os"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/sirupsen/logrus"
)

// ConfigureLogger applies the configured level and format to the standard
// logrus logger and returns it. Unknown levels fall back to info.
func ConfigureLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)

	if cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(new(logrus.JSONFormatter))
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
