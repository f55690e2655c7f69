package logging

import (
	"fmt"
	"strings"

	logging "github.com/textileio/go-log/v2"
	"go.uber.org/zap/zapcore"
)

// SetLogLevels sets levels for the given systems. The "*" system applies the
// level to every registered logger.
func SetLogLevels(systems map[string]logging.LogLevel) error {
	for sys, level := range systems {
		name := zapcore.Level(level).CapitalString()
		if sys == "*" {
			for _, s := range logging.GetSubsystems() {
				if err := logging.SetLogLevel(s, name); err != nil {
					return err
				}
			}
			continue
		}
		if err := logging.SetLogLevel(sys, name); err != nil {
			return fmt.Errorf("setting level of %s: %s", sys, err)
		}
	}
	return nil
}

// ParseLogLevels parses a comma separated list of system=level pairs, e.g.
// "settler/queue=debug,stripegw=warn". An empty string yields no levels.
func ParseLogLevels(s string) (map[string]logging.LogLevel, error) {
	levels := map[string]logging.LogLevel{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		sys, lvl, ok := strings.Cut(pair, "=")
		if !ok || sys == "" {
			return nil, fmt.Errorf("invalid log level %q, expected system=level", pair)
		}
		level, err := logging.LevelFromString(lvl)
		if err != nil {
			return nil, fmt.Errorf("parsing level of %s: %s", sys, err)
		}
		levels[sys] = level
	}
	return levels, nil
}

// ApplyLogLevels parses and applies system=level overrides, see ParseLogLevels.
func ApplyLogLevels(s string) error {
	levels, err := ParseLogLevels(s)
	if err != nil {
		return err
	}
	return SetLogLevels(levels)
}
