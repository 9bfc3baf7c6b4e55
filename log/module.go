package log

import (
	"github.com/neuronlabs/uni-logger"
)

var modules = []*ModuleLogger{}

// ModuleLogger is the logger used for the specific modules. If no logger is provided
// for the module it becomes a sub logger of the default logger or a wrapper over it.
type ModuleLogger struct {
	Name           string
	logger         unilogger.LeveledLogger
	isDebugLeveled bool
	isLevelSetter  bool

	levelSetter  unilogger.LevelSetter
	debugLeveled unilogger.DebugLeveledLogger

	currentLevel Level
}

// NewModuleLogger creates new module logger for given 'name' of the module and an optional 'logger'.
func NewModuleLogger(name string, moduleLogger ...unilogger.LeveledLogger) *ModuleLogger {
	mLogger := &ModuleLogger{Name: name, currentLevel: currentLevel}
	modules = append(modules, mLogger)

	switch {
	case len(moduleLogger) > 0:
		mLogger.logger = moduleLogger[0]
		mLogger.initializeLogger()
	default:
		if sub, ok := logger.(SubLogger); ok {
			mLogger.logger = sub.SubLogger()
			mLogger.initializeLogger()
		}
	}
	return mLogger
}

func (m *ModuleLogger) initializeLogger() {
	if m.logger == nil {
		return
	}
	m.debugLeveled, m.isDebugLeveled = m.logger.(unilogger.DebugLeveledLogger)
	m.levelSetter, m.isLevelSetter = m.logger.(unilogger.LevelSetter)
	if m.isLevelSetter {
		m.levelSetter.SetLevel(m.currentLevel.unilogger())
	}
}

// Level gets the module logger level.
func (m *ModuleLogger) Level() Level {
	return m.currentLevel
}

// SetLevel sets the moduleLogger level.
func (m *ModuleLogger) SetLevel(level Level) {
	m.currentLevel = level
	if m.isLevelSetter {
		m.levelSetter.SetLevel(level.unilogger())
	}
}

// IsAllowed checks if the module logger would write logs with given 'level'.
func (m *ModuleLogger) IsAllowed(level Level) bool {
	return m.currentLevel.IsAllowed(level)
}

// Debug3f writes the formatted debug3 log.
func (m *ModuleLogger) Debug3f(format string, args ...interface{}) {
	if !m.IsAllowed(LevelDebug3) {
		return
	}
	format = m.name() + format
	switch {
	case m.logger == nil:
		Debug3f(format, args...)
	case m.isDebugLeveled:
		m.debugLeveled.Debug3f(format, args...)
	default:
		m.logger.Debugf(format, args...)
	}
}

// Debug2f writes the formatted debug2 log.
func (m *ModuleLogger) Debug2f(format string, args ...interface{}) {
	if !m.IsAllowed(LevelDebug2) {
		return
	}
	format = m.name() + format
	switch {
	case m.logger == nil:
		Debug2f(format, args...)
	case m.isDebugLeveled:
		m.debugLeveled.Debug2f(format, args...)
	default:
		m.logger.Debugf(format, args...)
	}
}

// Debugf writes the formatted debug log.
func (m *ModuleLogger) Debugf(format string, args ...interface{}) {
	if !m.IsAllowed(LevelDebug) {
		return
	}
	format = m.name() + format
	if m.logger != nil {
		m.logger.Debugf(format, args...)
	} else {
		Debugf(format, args...)
	}
}

// Infof writes the formatted info log.
func (m *ModuleLogger) Infof(format string, args ...interface{}) {
	if !m.IsAllowed(LevelInfo) {
		return
	}
	format = m.name() + format
	if m.logger != nil {
		m.logger.Infof(format, args...)
	} else {
		Infof(format, args...)
	}
}

// Warningf writes the formatted warning log.
func (m *ModuleLogger) Warningf(format string, args ...interface{}) {
	if !m.IsAllowed(LevelWarning) {
		return
	}
	format = m.name() + format
	if m.logger != nil {
		m.logger.Warningf(format, args...)
	} else {
		Warningf(format, args...)
	}
}

// Errorf writes the formatted error log.
func (m *ModuleLogger) Errorf(format string, args ...interface{}) {
	if !m.IsAllowed(LevelError) {
		return
	}
	format = m.name() + format
	if m.logger != nil {
		m.logger.Errorf(format, args...)
	} else {
		Errorf(format, args...)
	}
}

func (m *ModuleLogger) name() string {
	return "[" + m.Name + "] "
}
