package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

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

// terminal is a line-oriented view of a connection. Every read goes through
// one buffered reader so input typed ahead of a prompt is never lost.
type terminal struct {
	w  io.Writer
	br *bufio.Reader
}

func newTerminal(rw io.ReadWriter) *terminal {
	return &terminal{w: rw, br: bufio.NewReader(rw)}
}

// ReadLine returns the next line without its line ending. A final line with
// no terminator is returned before io.EOF.
func (t *terminal) ReadLine() (string, error) {
	line, err := t.br.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *terminal) Print(s string) error {
	_, err := io.WriteString(t.w, s)
	return err
}

func (t *terminal) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(t.w, format, args...)
	return err
}

func (t *terminal) Prompt(prompt string, opts ...promptOption) (string, error) {
	config := &promptConfig{}
	for _, opt := range opts {
		opt(config)
	}

	tries := 0
	for {
		if err := t.Print(prompt); err != nil {
			return "", err
		}

		input, err := t.ReadLine()
		if err != nil {
			return "", err
		}
		input = strings.TrimSpace(input)

		if config.validator != nil {
			ok, msg := config.validator(input)
			if !ok {
				if err := t.Print(msg); err != nil {
					return "", err
				}

				tries++
				if config.tries > 0 && tries >= config.tries {
					_ = t.Print("Too many tries.\n")
					return "", ErrTooManyTries
				}
				continue
			}
		}

		return input, nil
	}
}

func (t *terminal) PromptYN(prompt string) (bool, error) {
	str, err := t.Prompt(prompt, WithValidator(
		func(str string) (bool, string) {
			switch strings.ToLower(str) {
			case "y", "yes", "n", "no":
				return true, ""
			default:
				return false, "Enter 'yes' or 'no'.\n"
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
