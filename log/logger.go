package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is the sink the RPC transport writes through. A *logrus.Logger
// satisfies it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Errorln(args ...interface{})
	Writer() *io.PipeWriter
}

func DefaultLogger() Logger {
	logrus.SetLevel(logrus.InfoLevel)
	return logrus.StandardLogger()
}
