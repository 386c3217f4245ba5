package logging

import (
	"strings"

	logger "github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger. Unknown levels fall back to info,
// any format other than "json" selects the text formatter.
func Setup(level, format string) {
	lvl, err := logger.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logger.InfoLevel
	}
	logger.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logger.JSONFormatter{})
		return
	}
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}
