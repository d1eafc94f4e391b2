package plinth

import "github.com/sirupsen/logrus"

// newLogger builds the framework logger from the configured level.
// Unknown or empty levels fall back to info rather than failing startup.
func newLogger(level string) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return log
}
