package publishclient

import (
	"bytes"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

type ActionsFormatter struct{}

func SetupLogging(cfg Config) error {
	log.SetOutput(os.Stderr)

	switch {
	case cfg.Actions:
		log.SetFormatter(&ActionsFormatter{})
	case cfg.LogFormat == LogFormatJSON:
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	case cfg.LogFormat == LogFormatText, len(cfg.LogFormat) == 0:
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:          true,
			TimestampFormat:        time.RFC3339Nano,
			DisableLevelTruncation: true,
		})
	default:
		return Errorf(ExitInvocationFailure, "log format '%s' is not recognized", cfg.LogFormat)
	}

	if len(cfg.LogLevel) > 0 {
		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return Errorf(ExitInvocationFailure, "%s", err)
		}
		log.SetLevel(level)
	}

	if cfg.Quiet {
		log.SetLevel(log.ErrorLevel)
	}

	return nil
}

func (a *ActionsFormatter) Format(e *log.Entry) ([]byte, error) {
	buf := &bytes.Buffer{}
	switch e.Level {
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		buf.WriteString("::error::")
	case log.WarnLevel:
		buf.WriteString("::warning::")
	default:
		buf.WriteString("[")
		buf.WriteString(e.Time.Format(time.RFC3339Nano))
		buf.WriteString("] ")
	}
	buf.WriteString(e.Message)
	buf.WriteRune('\n')
	return buf.Bytes(), nil
}
