// Package prompt reads yes/no confirmations from an interactive stream.
package prompt

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const (
	// MaximumAttemptsConstant bounds how many unrecognized answers are tolerated.
	MaximumAttemptsConstant = 3

	attemptsExhaustedMessageConstant = "confirmation not received"
	readerMissingMessageConstant     = "confirmation input not configured"
)

// ErrConfirmationAttemptsExhausted indicates no recognizable answer was given within the allowed attempts.
var ErrConfirmationAttemptsExhausted = errors.New(attemptsExhaustedMessageConstant)

// ErrInputNotConfigured indicates the prompter was constructed without an input stream.
var ErrInputNotConfigured = errors.New(readerMissingMessageConstant)

var answers = map[string]bool{
	"y":   true,
	"yes": true,
	"n":   false,
	"no":  false,
}

// IOConfirmationPrompter reads confirmation responses from an io.Reader.
type IOConfirmationPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOConfirmationPrompter constructs a prompter from the provided reader and writer.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer) *IOConfirmationPrompter {
	prompter := &IOConfirmationPrompter{writer: output}
	if input != nil {
		prompter.reader = bufio.NewReader(input)
	}
	return prompter
}

// Confirm writes the prompt and waits for y/yes or n/no, case-insensitively.
// Unrecognized answers repeat the prompt; after MaximumAttemptsConstant of them,
// or when the input ends, ErrConfirmationAttemptsExhausted is returned.
func (prompter *IOConfirmationPrompter) Confirm(prompt string) (bool, error) {
	if prompter == nil || prompter.reader == nil {
		return false, ErrInputNotConfigured
	}

	for attempt := 0; attempt < MaximumAttemptsConstant; attempt++ {
		if prompter.writer != nil {
			if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
				return false, writeError
			}
		}

		response, readError := prompter.reader.ReadString('\n')
		if readError != nil && !errors.Is(readError, io.EOF) {
			return false, readError
		}

		if confirmed, recognized := answers[strings.ToLower(strings.TrimSpace(response))]; recognized {
			return confirmed, nil
		}
		if errors.Is(readError, io.EOF) {
			break
		}
	}
	return false, ErrConfirmationAttemptsExhausted
}
