package observers

import "github.com/sirupsen/logrus"

// NewDefaultLoggingObserver creates a logging observer on the "signal" module logging transitions at debug
func NewDefaultLoggingObserver() *LoggingObserver {
	return NewLoggingObserver(logrus.WithField("module", "signal"), logrus.DebugLevel)
}
