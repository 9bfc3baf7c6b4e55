package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/neuronlabs/uni-logger"

	"github.com/neuronlabs/neuron-odata/errors"
)

// Level defines a logging level.
type Level int

// Supported logging levels.
const (
	LevelDebug3 Level = iota
	LevelDebug2
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
	LevelUnknown
)

var levelNames = map[Level]string{
	LevelDebug3:   "debug3",
	LevelDebug2:   "debug2",
	LevelDebug:    "debug",
	LevelInfo:     "info",
	LevelWarning:  "warning",
	LevelError:    "error",
	LevelCritical: "critical",
}

// IsAllowed checks if the 'other' Level is allowed to be used in compare with 'l' Level.
func (l Level) IsAllowed(other Level) bool {
	return other >= l
}

// String implements fmt.Stringer interface.
func (l Level) String() string {
	name, ok := levelNames[l]
	if !ok {
		return "unknown"
	}
	return name
}

// ParseLevel parses level from string.
func ParseLevel(level string) Level {
	level = strings.ToLower(level)
	for l, name := range levelNames {
		if name == level {
			return l
		}
	}
	return LevelUnknown
}

func (l Level) unilogger() unilogger.Level {
	switch l {
	case LevelDebug3:
		return unilogger.DEBUG3
	case LevelDebug2:
		return unilogger.DEBUG2
	case LevelDebug:
		return unilogger.DEBUG
	case LevelInfo:
		return unilogger.INFO
	case LevelWarning:
		return unilogger.WARNING
	case LevelError:
		return unilogger.ERROR
	case LevelCritical:
		return unilogger.CRITICAL
	}
	return unilogger.UNKNOWN
}

var (
	// ErrLogger is the root error classification for the logger.
	ErrLogger = errors.New("logger")
	// ErrUnknownLevel is the error classification for the unknown logger level.
	ErrUnknownLevel = errors.Wrap(ErrLogger, "unknown level")
	// ErrNotLevelSetter is the error classification when the logger doesn't allow setting level.
	ErrNotLevelSetter = errors.Wrap(ErrLogger, "not a level setter")
)

// SubLogger is the logger that creates sub loggers sharing its output. Module loggers
// are created as the sub loggers of the default logger if it implements this interface.
type SubLogger interface {
	SubLogger() unilogger.LeveledLogger
}

var (
	logger         unilogger.LeveledLogger
	currentLevel   = LevelInfo
	debugLeveled   unilogger.DebugLeveledLogger
	isDebugLeveled bool
)

// Default creates and sets new unilogger.BasicLogger with writer to 'os.Stderr'.
func Default() {
	New(os.Stderr, "", log.Ldate|log.Ltime|log.Lshortfile)
}

// New creates new unilogger.BasicLogger that writes to provided 'out' io.Writer
// with specific 'prefix' and provided 'flags'.
func New(out io.Writer, prefix string, flags int) {
	basic := unilogger.NewBasicLogger(out, prefix, flags)
	basic.SetOutputDepth(4)
	SetLogger(basic)
}

// CurrentLevel returns current logger level.
func CurrentLevel() Level {
	return currentLevel
}

// Logger returns default logger.
func Logger() unilogger.LeveledLogger {
	return logger
}

// SetLogger sets the 'log' as the current logger.
func SetLogger(log unilogger.LeveledLogger) {
	logger = log
	if lvlSetter, ok := log.(unilogger.LevelSetter); ok {
		lvlSetter.SetLevel(currentLevel.unilogger())
	}
	debugLeveled, isDebugLeveled = log.(unilogger.DebugLeveledLogger)

	subLogger, isSubLogger := log.(SubLogger)
	for _, m := range modules {
		if m.logger == nil && isSubLogger {
			m.logger = subLogger.SubLogger()
			m.initializeLogger()
		}
		m.SetLevel(currentLevel)
	}
}

// SetLevel sets the level if possible for the logger file.
func SetLevel(level Level) error {
	if level == LevelUnknown {
		return errors.NewDet(ErrUnknownLevel, "can't set unknown logger level")
	}
	if level == currentLevel {
		return nil
	}
	currentLevel = level
	if logger == nil {
		return nil
	}
	lvl, ok := logger.(unilogger.LevelSetter)
	if !ok {
		return errors.NewDet(ErrNotLevelSetter, "logger doesn't implement LevelSetter interface")
	}
	lvl.SetLevel(currentLevel.unilogger())
	return nil
}

// Debug3f writes the formatted debug3 level log.
func Debug3f(format string, args ...interface{}) {
	if !currentLevel.IsAllowed(LevelDebug3) || logger == nil {
		return
	}
	if isDebugLeveled {
		debugLeveled.Debug3f(format, args...)
		return
	}
	logger.Debugf(format, args...)
}

// Debug2f writes the formatted debug2 level log.
func Debug2f(format string, args ...interface{}) {
	if !currentLevel.IsAllowed(LevelDebug2) || logger == nil {
		return
	}
	if isDebugLeveled {
		debugLeveled.Debug2f(format, args...)
		return
	}
	logger.Debugf(format, args...)
}

// Debug writes the debug level log.
func Debug(args ...interface{}) {
	if logger != nil {
		logger.Debug(args...)
	}
}

// Debugf writes the formatted debug level log.
func Debugf(format string, args ...interface{}) {
	if logger != nil {
		logger.Debugf(format, args...)
	}
}

// Info writes the info level log.
func Info(args ...interface{}) {
	if logger != nil {
		logger.Info(args...)
	}
}

// Infof writes the formatted info level log.
func Infof(format string, args ...interface{}) {
	if logger != nil {
		logger.Infof(format, args...)
	}
}

// Warningf writes the formatted warning level log.
func Warningf(format string, args ...interface{}) {
	if logger != nil {
		logger.Warningf(format, args...)
	}
}

// Errorf writes the formatted error level log.
func Errorf(format string, args ...interface{}) {
	if logger != nil {
		logger.Errorf(format, args...)
	}
}

// Panicf writes and panics formatted log.
func Panicf(format string, args ...interface{}) {
	if logger != nil {
		logger.Panicf(format, args...)
	}
	panic(fmt.Sprintf(format, args...))
}
