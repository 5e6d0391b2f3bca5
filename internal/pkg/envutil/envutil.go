package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

func String(key, def string, log *logger.Logger) string {
	val, ok := lookup(key)
	if !ok {
		debugDefault(log, key, def)
		return def
	}
	return val
}

func Int(key string, def int, log *logger.Logger) int {
	val, ok := lookup(key)
	if !ok {
		debugDefault(log, key, def)
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		warnUnparsable(log, key, val, def, err)
		return def
	}
	return i
}

func Float(key string, def float64, log *logger.Logger) float64 {
	val, ok := lookup(key)
	if !ok {
		debugDefault(log, key, def)
		return def
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		warnUnparsable(log, key, val, def, err)
		return def
	}
	return f
}

func Bool(key string, def bool, log *logger.Logger) bool {
	val, ok := lookup(key)
	if !ok {
		debugDefault(log, key, def)
		return def
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	warnUnparsable(log, key, val, def, nil)
	return def
}

// Seconds reads an integer number of seconds.
func Seconds(key string, def time.Duration, log *logger.Logger) time.Duration {
	n := Int(key, int(def/time.Second), log)
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

func lookup(key string) (string, bool) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false
	}
	return val, true
}

func debugDefault(log *logger.Logger, key string, def interface{}) {
	if log != nil {
		log.Debug("Environment variable not found, using default", "env_var", key, "default", def)
	}
}

func warnUnparsable(log *logger.Logger, key, raw string, def interface{}, err error) {
	if log != nil {
		log.Warn("Environment variable could not be parsed, using default", "env_var", key, "providedVal", raw, "defaultVal", def, "error", err)
	}
}
