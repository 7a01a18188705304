package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Level is the log level of logger (wrapper for logrus)
type Level logrus.Level

// Fields is a set of structured fields attached to one entry
type Fields = logrus.Fields

func init() {
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableColors: false,
		FullTimestamp: true,
	})
}

// SetOutput sets the logger output.
func SetOutput(out io.Writer) {
	logrus.SetOutput(out)
}

// SetLevel sets the logger level.
func SetLevel(level Level) {
	logrus.SetLevel(logrus.Level(level))
}

var (
	PanicLevel = Level(logrus.PanicLevel)
	FatalLevel = Level(logrus.FatalLevel)
	ErrorLevel = Level(logrus.ErrorLevel)
	WarnLevel  = Level(logrus.WarnLevel)
	InfoLevel  = Level(logrus.InfoLevel)
	DebugLevel = Level(logrus.DebugLevel)

	WithError  = logrus.WithError
	WithField  = logrus.WithField
	WithFields = logrus.WithFields

	Debug = logrus.Debug
	Info  = logrus.Info
	Warn  = logrus.Warn
	Error = logrus.Error
	Fatal = logrus.Fatal

	Debugf = logrus.Debugf
	Infof  = logrus.Infof
	Warnf  = logrus.Warnf
	Errorf = logrus.Errorf
	Fatalf = logrus.Fatalf
)
