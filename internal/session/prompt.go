package session

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	appErrors "github.com/scit-dev/registrar/pkg/errors"
)

// Prompter collects line-oriented input for the menus.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter builds a Prompter reading from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Printf writes formatted output.
func (p *Prompter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}

// Line prompts for a trimmed line of text.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Int prompts for an integer.
func (p *Prompter) Int(label string) (int, error) {
	raw, err := p.Line(label)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "expected a number")
	}
	return value, nil
}

// Select prompts for a 1-based choice out of n offered candidates and
// returns the zero-based index. Anything outside the offered range is an
// InvalidSelection.
func (p *Prompter) Select(label string, n int) (int, error) {
	choice, err := p.Int(label)
	if err != nil {
		return 0, err
	}
	if choice < 1 || choice > n {
		return 0, appErrors.ErrInvalidSelection
	}
	return choice - 1, nil
}
