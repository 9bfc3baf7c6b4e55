package log

import (
	"bytes"
	"testing"

	"github.com/neuronlabs/uni-logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/neuron-odata/errors"
)

// TestLevel tests the Level methods.
func TestLevel(t *testing.T) {
	t.Run("Parse", func(t *testing.T) {
		assert.Equal(t, LevelDebug2, ParseLevel("DEBUG2"))
		assert.Equal(t, LevelWarning, ParseLevel("warning"))
		assert.Equal(t, LevelUnknown, ParseLevel("verbose"))
	})

	t.Run("IsAllowed", func(t *testing.T) {
		assert.True(t, LevelInfo.IsAllowed(LevelError))
		assert.False(t, LevelInfo.IsAllowed(LevelDebug))
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "debug3", LevelDebug3.String())
		assert.Equal(t, "unknown", LevelUnknown.String())
	})
}

// TestLogger tests setting the logger and it's level.
func TestLogger(t *testing.T) {
	defer func() {
		logger = nil
		currentLevel = LevelInfo
	}()
	buf := &bytes.Buffer{}
	New(buf, "", 0)
	require.NotNil(t, Logger())

	err := SetLevel(LevelUnknown)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLevel))

	require.NoError(t, SetLevel(LevelDebug))
	assert.Equal(t, LevelDebug, CurrentLevel())

	Infof("written %d", 1)
	assert.Contains(t, buf.String(), "written 1")

	t.Run("Module", func(t *testing.T) {
		m := NewModuleLogger("odata")
		m.SetLevel(LevelWarning)
		buf.Reset()

		m.Infof("skipped")
		assert.NotContains(t, buf.String(), "skipped")

		m.Errorf("failure: %s", "x")
		assert.Contains(t, buf.String(), "[odata] failure: x")
	})
}

type subLoggerMock struct {
	unilogger.LeveledLogger
	created int
}

func (s *subLoggerMock) SubLogger() unilogger.LeveledLogger {
	s.created++
	return s.LeveledLogger
}

// TestModuleSubLogger tests that the module loggers are created as sub loggers of the default logger.
func TestModuleSubLogger(t *testing.T) {
	defer func(registered int) {
		logger = nil
		currentLevel = LevelInfo
		modules = modules[:registered]
	}(len(modules))

	buf := &bytes.Buffer{}
	mock := &subLoggerMock{LeveledLogger: unilogger.NewBasicLogger(buf, "", 0)}
	SetLogger(mock)

	created := mock.created
	m := NewModuleLogger("writer")
	require.NotNil(t, m.logger)
	assert.Equal(t, created+1, mock.created)

	m.Errorf("failure: %d", 2)
	assert.Contains(t, buf.String(), "[writer] failure: 2")
}
