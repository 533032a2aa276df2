package log

import (
	"bytes"
	"log/slog"
	"strconv"
	"strings"
)

// A Level is the importance or severity of a log event.
// The higher the level, the more important or severe the event.
type Level slog.Level

// Names for common levels. The numbering follows [log/slog], with
// LevelDisabled high enough that no event reaches it.
const (
	LevelDebug    = Level(slog.LevelDebug)
	LevelInfo     = Level(slog.LevelInfo)
	LevelWarn     = Level(slog.LevelWarn)
	LevelError    = Level(slog.LevelError)
	LevelDisabled = Level(1<<31 - 1)
)

// String returns a name for the level. Levels between named values
// have an integer appended to the uppercased name, as in [slog.Level].
func (l Level) String() string {
	if l >= LevelDisabled {
		return "DISABLED"
	}

	return slog.Level(l).String()
}

// MarshalJSON implements [encoding/json.Marshaler]
// by quoting the output of [Level.String].
func (l Level) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, l.String()), nil
}

// UnmarshalJSON implements [encoding/json.Unmarshaler].
// It accepts any string produced by [Level.MarshalJSON], ignoring case,
// as well as "disable", "disabled", or "false" for [LevelDisabled].
func (l *Level) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}

	switch strings.ToLower(s) {
	case "disable", "disabled", "false":
		*l = LevelDisabled
	default:
		return (*slog.Level)(l).UnmarshalJSON(data)
	}

	return nil
}

// AppendText implements [encoding.TextAppender]
// by calling [Level.String].
func (l Level) AppendText(b []byte) ([]byte, error) {
	return append(b, l.String()...), nil
}

// MarshalText implements [encoding.TextMarshaler]
// by calling [Level.AppendText].
func (l Level) MarshalText() ([]byte, error) {
	return l.AppendText(nil)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// It accepts any string produced by [Level.MarshalText], ignoring case,
// as well as "disable", "disabled", or "false" for [LevelDisabled].
func (l *Level) UnmarshalText(data []byte) (err error) {
	switch string(bytes.ToLower(data)) {
	case "disable", "disabled", "false":
		*l = LevelDisabled
	default:
		err = (*slog.Level)(l).UnmarshalText(data)
	}

	return
}

// UnmarshalYAML implements [gopkg.in/yaml.v3.Unmarshaler] in terms of
// [Level.UnmarshalText].
func (l *Level) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	return l.UnmarshalText([]byte(s))
}

// Level returns the receiver.
// It implements [slog.Leveler].
func (l Level) Level() Level { return l }
