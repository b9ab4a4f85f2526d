package algocpuid

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

type loggerHolder struct {
	l logrus.FieldLogger
}

var logger atomic.Pointer[loggerHolder]

func init() {
	SetLogger(nil)
}

// SetLogger routes the package's diagnostics to l. Pinned queries log at
// debug level and a failed affinity restore at warn level. A nil l discards
// everything, which is the default.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		l = discard
	}

	logger.Store(&loggerHolder{l: l})
}

func log() logrus.FieldLogger {
	return logger.Load().l
}
