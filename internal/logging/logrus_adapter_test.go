package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{
			name:        "debug level with text format",
			level:       "debug",
			format:      "text",
			expectLevel: logrus.DebugLevel,
		},
		{
			name:        "info level with json format",
			level:       "info",
			format:      "json",
			expectLevel: logrus.InfoLevel,
		},
		{
			name:        "warn level with text format",
			level:       "warn",
			format:      "text",
			expectLevel: logrus.WarnLevel,
		},
		{
			name:        "error level with json format",
			level:       "error",
			format:      "json",
			expectLevel: logrus.ErrorLevel,
		},
		{
			name:        "invalid level defaults to info",
			level:       "invalid",
			format:      "text",
			expectLevel: logrus.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			require.NotNil(t, logger)

			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			// Check formatter type
			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestNewLogrusAdapterFromLogger(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		existingLogger := logrus.New()
		existingLogger.SetLevel(logrus.DebugLevel)

		logger := NewLogrusAdapterFromLogger(existingLogger)
		require.NotNil(t, logger)

		adapter, ok := logger.(*LogrusAdapter)
		require.True(t, ok)
		assert.Equal(t, existingLogger, adapter.logger)
	})

	t.Run("with nil logger creates new one", func(t *testing.T) {
		logger := NewLogrusAdapterFromLogger(nil)
		require.NotNil(t, logger)

		adapter, ok := logger.(*LogrusAdapter)
		require.True(t, ok)
		assert.NotNil(t, adapter.logger)
	})
}

func TestLogrusAdapter_LoggingMethods(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...Field)
		level    logrus.Level
		message  string
		fields   []Field
	}{
		{
			name:    "Debug with fields",
			logFunc: func(l Logger, msg string, fields ...Field) { l.Debug(msg, fields...) },
			level:   logrus.DebugLevel,
			message: "debug message",
			fields:  []Field{{Key: "key1", Value: "value1"}},
		},
		{
			name:    "Info with fields",
			logFunc: func(l Logger, msg string, fields ...Field) { l.Info(msg, fields...) },
			level:   logrus.InfoLevel,
			message: "info message",
			fields:  []Field{{Key: "key2", Value: "value2"}},
		},
		{
			name:    "Warn with fields",
			logFunc: func(l Logger, msg string, fields ...Field) { l.Warn(msg, fields...) },
			level:   logrus.WarnLevel,
			message: "warn message",
			fields:  []Field{{Key: "key3", Value: "value3"}},
		},
		{
			name:    "Error with fields",
			logFunc: func(l Logger, msg string, fields ...Field) { l.Error(msg, fields...) },
			level:   logrus.ErrorLevel,
			message: "error message",
			fields:  []Field{{Key: "key4", Value: "value4"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create logger with buffer to capture output
			logrusLogger := logrus.New()
			var buf bytes.Buffer
			logrusLogger.SetOutput(&buf)
			logrusLogger.SetLevel(logrus.DebugLevel)
			logrusLogger.SetFormatter(&logrus.TextFormatter{
				DisableTimestamp: true,
			})

			logger := NewLogrusAdapterFromLogger(logrusLogger)

			// Call the logging method
			tt.logFunc(logger, tt.message, tt.fields...)

			// Verify output contains message
			output := buf.String()
			assert.Contains(t, output, tt.message)

			// Verify output contains field key and value
			if len(tt.fields) > 0 {
				assert.Contains(t, output, tt.fields[0].Key)
			}
		})
	}
}

func TestLogrusAdapter_WithError(t *testing.T) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(logrus.ErrorLevel)
	logrusLogger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	logger := NewLogrusAdapterFromLogger(logrusLogger)
	testErr := errors.New("no amount found")

	loggerWithError := logger.WithError(testErr)
	loggerWithError.Error("adapter call failed")

	output := buf.String()
	assert.Contains(t, output, "adapter call failed")
	assert.Contains(t, output, "no amount found")
}

func TestLogrusAdapter_WithField(t *testing.T) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(logrus.InfoLevel)
	logrusLogger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	logger := NewLogrusAdapterFromLogger(logrusLogger)

	loggerWithField := logger.WithField("currency", "RUB")
	loggerWithField.Info("transaction processed")

	output := buf.String()
	assert.Contains(t, output, "transaction processed")
	assert.Contains(t, output, "currency")
	assert.Contains(t, output, "RUB")
}

func TestLogrusAdapter_WithFields(t *testing.T) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(logrus.InfoLevel)
	logrusLogger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	logger := NewLogrusAdapterFromLogger(logrusLogger)

	fields := []Field{
		{Key: "currency", Value: "RUB"},
		{Key: "method", Value: "pattern"},
		{Key: "outcome", Value: "timeout"},
	}

	loggerWithFields := logger.WithFields(fields...)
	loggerWithFields.Info("batch finished")

	output := buf.String()
	assert.Contains(t, output, "batch finished")
	assert.Contains(t, output, "currency")
	assert.Contains(t, output, "RUB")
	assert.Contains(t, output, "method")
	assert.Contains(t, output, "pattern")
}

func TestConvertFields(t *testing.T) {
	fields := []Field{
		{Key: "key1", Value: "value1"},
		{Key: "key2", Value: 42},
		{Key: "key3", Value: true},
	}

	logrusFields := convertFields(fields)

	assert.Len(t, logrusFields, 3)
	assert.Equal(t, "value1", logrusFields["key1"])
	assert.Equal(t, 42, logrusFields["key2"])
	assert.Equal(t, true, logrusFields["key3"])
}

func TestConvertFields_Empty(t *testing.T) {
	fields := []Field{}
	logrusFields := convertFields(fields)
	assert.Len(t, logrusFields, 0)
}

func TestLogrusAdapter_ChainedCalls(t *testing.T) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(logrus.InfoLevel)
	logrusLogger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	logger := NewLogrusAdapterFromLogger(logrusLogger)
	testErr := errors.New("no amount found")

	// Chain multiple WithField calls
	logger.
		WithField("currency", "EUR").
		WithField("method", "generated").
		WithError(testErr).
		Error("extraction failed")

	output := buf.String()
	assert.Contains(t, output, "extraction failed")
	assert.Contains(t, output, "currency")
	assert.Contains(t, output, "EUR")
	assert.Contains(t, output, "method")
	assert.Contains(t, output, "generated")
	assert.Contains(t, output, "no amount found")
}

func TestNewLogrusAdapterWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithWriter("info", "json", &buf)

	logger.Info("transaction processed",
		F(FieldMethod, "pattern"),
		F(FieldCurrency, "RUB"))

	output := buf.String()
	assert.Contains(t, output, `"msg":"transaction processed"`)
	assert.Contains(t, output, `"method":"pattern"`)
	assert.Contains(t, output, `"currency":"RUB"`)
}

func TestNewLogrusAdapterWithWriter_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithWriter("warn", "text", &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))

	mock := &MockLogger{}
	assert.Same(t, mock, OrDiscard(mock))

	// Discard must be safe to use without output.
	Discard().WithField("k", "v").Info("dropped")
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
}
