package logging

// Level is the process-wide log verbosity, ordered by severity.
// Records at a severity above the current level are dropped at emit time.
type Level int32

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// LevelDefault is the system default verbosity, equivalent to LevelInfo.
const LevelDefault = LevelInfo

// levelTokens is the closed set of accepted verbosity tokens.
// Matching is case-sensitive and exact.
var levelTokens = map[string]Level{
	"error":   LevelError,
	"warn":    LevelWarn,
	"info":    LevelInfo,
	"default": LevelDefault,
	"debug":   LevelDebug,
	"trace":   LevelTrace,
}

// ParseLevel maps a verbosity token to a Level.
// Returns false for any token outside the fixed set, including the empty string.
func ParseLevel(token string) (Level, bool) {
	level, ok := levelTokens[token]
	return level, ok
}

// String returns the canonical token for the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}

// tag returns the single-letter marker used in emitted records.
func (l Level) tag() byte {
	switch l {
	case LevelError:
		return 'E'
	case LevelWarn:
		return 'W'
	case LevelInfo:
		return 'I'
	case LevelDebug:
		return 'D'
	case LevelTrace:
		return 'T'
	default:
		return '?'
	}
}
