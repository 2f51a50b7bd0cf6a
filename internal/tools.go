package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrTooManyTries is returned when a validated prompt runs out of attempts.
var ErrTooManyTries = errors.New("too many tries")

type promptValidator func(string) (bool, string)

type promptConfig struct {
	tries     int
	validator promptValidator
}

type promptOption func(*promptConfig)

func WithValidator(v promptValidator) promptOption {
	return func(cfg *promptConfig) {
		cfg.validator = v
	}
}

func WithMaxTries(i int) promptOption {
	return func(cfg *promptConfig) {
		cfg.tries = i
	}
}

// Prompt writes prompt to rw and reads one line of input, re-prompting until
// the validator (if any) accepts it.
func Prompt(rw io.ReadWriter, prompt string, opts ...promptOption) (string, error) {
	config := &promptConfig{}
	for _, opt := range opts {
		opt(config)
	}

	tries := 0
	for {
		_, err := io.WriteString(rw, prompt)
		if err != nil {
			return "", err
		}

		input, err := readLine(rw)
		if err != nil {
			return "", err
		}

		if config.validator != nil {
			ok, msg := config.validator(input)
			if !ok {
				if _, err := io.WriteString(rw, msg); err != nil {
					return "", err
				}

				tries++
				if config.tries > 0 && tries >= config.tries {
					return "", ErrTooManyTries
				}
				continue
			}
		}

		return input, nil
	}
}

func PromptYN(rw io.ReadWriter, prompt string) (bool, error) {
	str, err := Prompt(rw, prompt, WithValidator(
		func(str string) (bool, string) {
			switch strings.ToLower(str) {
			case "y", "yes", "n", "no":
				return true, ""
			default:
				return false, "enter 'yes' or 'no'\n"
			}
		},
	))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(str) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readLine reads a single byte at a time so nothing past the newline is
// consumed from the connection.
func readLine(r io.Reader) (string, error) {
	var buf bytes.Buffer
	b := make([]byte, 1)
	for {
		n, err := r.Read(b)
		if n == 1 {
			if b[0] == '\n' {
				return strings.TrimRight(buf.String(), "\r"), nil
			}
			buf.WriteByte(b[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && buf.Len() > 0 {
				return strings.TrimRight(buf.String(), "\r"), nil
			}
			return "", fmt.Errorf("reading input: %w", err)
		}
	}
}
