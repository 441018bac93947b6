package utils_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sammy/internal/utils"
)

const testLogMessageConstant = "logger_factory_test_message"

func TestLoggerFactoryCreateLoggerForWriter(testInstance *testing.T) {
	testCases := []struct {
		name               string
		requestedLogLevel  utils.LogLevel
		requestedLogFormat utils.LogFormat
		expectError        bool
		expectStructured   bool
		expectMessage      bool
	}{
		{name: "structured_info", requestedLogLevel: utils.LogLevelInfo, requestedLogFormat: utils.LogFormatStructured, expectStructured: true, expectMessage: true},
		{name: "console_debug", requestedLogLevel: utils.LogLevelDebug, requestedLogFormat: utils.LogFormatConsole, expectMessage: true},
		{name: "warn_filters_info", requestedLogLevel: utils.LogLevelWarn, requestedLogFormat: utils.LogFormatConsole},
		{name: "unsupported_level", requestedLogLevel: utils.LogLevel("verbose"), requestedLogFormat: utils.LogFormatConsole, expectError: true},
		{name: "unsupported_format", requestedLogLevel: utils.LogLevelInfo, requestedLogFormat: utils.LogFormat("xml"), expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			logger, creationError := utils.NewLoggerFactory().CreateLoggerForWriter(testCase.requestedLogLevel, testCase.requestedLogFormat, outputBuffer)
			if testCase.expectError {
				require.Error(testInstance, creationError)
				return
			}
			require.NoError(testInstance, creationError)

			logger.Info(testLogMessageConstant)
			require.NoError(testInstance, logger.Sync())

			if !testCase.expectMessage {
				require.Empty(testInstance, outputBuffer.String())
				return
			}
			require.Contains(testInstance, outputBuffer.String(), testLogMessageConstant)

			decoded := map[string]any{}
			decodeError := json.Unmarshal(outputBuffer.Bytes(), &decoded)
			if testCase.expectStructured {
				require.NoError(testInstance, decodeError)
				require.Equal(testInstance, testLogMessageConstant, decoded["msg"])
				return
			}
			require.Error(testInstance, decodeError)
		})
	}
}

func TestLogChoicesCoverSupportedValues(testInstance *testing.T) {
	require.Equal(testInstance, []string{"debug", "info", "warn", "error"}, utils.LogLevelChoices())
	require.Equal(testInstance, []string{"structured", "console"}, utils.LogFormatChoices())
}
