package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init пишет в stderr с настройками logrus по умолчанию.
var Log = logrus.New()

// Init настраивает глобальный логгер из окружения:
// LOG_LEVEL (по умолчанию "info") и LOG_FORMAT ("json" или "text").
func Init() {
	level, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		level = "info"
	}
	Configure(level, os.Getenv("LOG_FORMAT"), os.Stdout)
}

// Configure задает уровень, формат и вывод явно (удобно в тестах)
func Configure(level, format string, out io.Writer) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(out)
}

// Component возвращает логгер с полем component
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
