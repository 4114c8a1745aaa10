package observe

import (
	"encoding/json"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

const (
	_sentryMaxErrorDepth        int           = 9
	_sentryFlushTimeout         time.Duration = 5 * time.Second
	_sentryServerRequestTimeout time.Duration = 5 * time.Second
)

// SentryWriter is an extra log sink: it parses the zap JSON entries written
// through it and forwards error-and-above entries to Sentry. Attach it as an
// additional writer on the logger.
type SentryWriter struct {
	appEnv  string
	appName string
}

func NewSentryWriter(appEnv, appName, dsn string, isDebug bool) (*SentryWriter, error) {
	if dsn == "" {
		return nil, errors.New("sentry init: no DSN")
	}

	transport := sentry.NewHTTPTransport()
	transport.Timeout = _sentryServerRequestTimeout

	if err := sentry.Init(sentry.ClientOptions{
		AttachStacktrace: true,
		Debug:            isDebug,
		Dsn:              dsn,
		Environment:      appEnv,
		MaxErrorDepth:    _sentryMaxErrorDepth,
		ServerName:       appName,
		Transport:        transport,
	}); err != nil {
		return nil, errors.Wrap(err, "sentry init")
	}

	return &SentryWriter{
		appEnv:  appEnv,
		appName: appName,
	}, nil
}

type logEntry struct {
	Level      string `json:"level"`
	AppName    string `json:"app_name"`
	CallerFile string `json:"caller_file"`
	CallerLine int    `json:"caller_line"`
	CallerFunc string `json:"caller_func"`
	Stack      string `json:"stack"`
	Message    string `json:"msg"`
	Error      string `json:"error"`
}

func (w *SentryWriter) Write(p []byte) (n int, err error) {
	var entry logEntry
	if err := json.Unmarshal(p, &entry); err != nil {
		log.Println("[SentryWriter] json.Unmarshal log entry:", err)
		return len(p), nil
	}

	level, err := zapcore.ParseLevel(entry.Level)
	if err != nil || entry.Message == "" {
		return len(p), nil
	}

	switch level {
	case zapcore.ErrorLevel, zapcore.FatalLevel, zapcore.PanicLevel:
		event := sentry.NewEvent()
		event.Environment = w.appEnv
		event.Level = mapLevel(level)
		event.Message = entry.Message
		event.Extra["AppName"] = w.appName
		event.Extra["Error"] = entry.Error
		event.Extra["CallerFile"] = entry.CallerFile
		event.Extra["CallerLine"] = entry.CallerLine
		event.Extra["CallerFunc"] = entry.CallerFunc
		event.Extra["Stack"] = entry.Stack
		event.Exception = append(event.Exception, sentry.Exception{
			Type:       entry.Message,
			Value:      entry.Error,
			Stacktrace: sentry.NewStacktrace(),
		})
		sentry.CaptureEvent(event)
	}

	return len(p), nil
}

// Flush drains buffered events; call it on shutdown.
func (w *SentryWriter) Flush() {
	sentry.Flush(_sentryFlushTimeout)
}

func mapLevel(zl zapcore.Level) sentry.Level {
	switch zl {
	case zapcore.DebugLevel, zapcore.InvalidLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.FatalLevel, zapcore.PanicLevel:
		return sentry.LevelFatal
	}
	return sentry.LevelDebug
}
