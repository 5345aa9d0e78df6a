package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// errInputClosed ends the shell when the input stream runs out
var errInputClosed = errors.New("input closed")

// prompter reads one answer per line and re-prompts on malformed input
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &prompter{scanner: scanner, out: out}
}

func (p *prompter) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *prompter) println(args ...interface{}) {
	fmt.Fprintln(p.out, args...)
}

// line prints prompt and returns the next input line without its line ending
func (p *prompter) line(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errInputClosed
	}
	return strings.TrimRight(p.scanner.Text(), "\r"), nil
}

// text returns the next line trimmed of surrounding spaces
func (p *prompter) text(prompt string) (string, error) {
	s, err := p.line(prompt)
	return strings.TrimSpace(s), err
}

// required re-prompts until a non-empty line is entered
func (p *prompter) required(prompt, complaint string) (string, error) {
	for {
		s, err := p.text(prompt)
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
		p.println(complaint)
	}
}

// choice re-prompts until a number within [min, max] is entered
func (p *prompter) choice(prompt string, min, max int) (int, error) {
	for {
		s, err := p.text(prompt)
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(s)
		if convErr != nil {
			p.println("Invalid input. Please enter a number.")
			continue
		}
		if n < min || n > max {
			p.printf("Invalid choice. Please enter a number between %d and %d.\n", min, max)
			continue
		}
		return n, nil
	}
}

// confirm re-prompts until yes or no is entered
func (p *prompter) confirm(prompt string) (bool, error) {
	for {
		s, err := p.text(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(s) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		p.println("Invalid input. Please type 'yes' or 'no'.")
	}
}

// pause waits for the user to press enter
func (p *prompter) pause(prompt string) error {
	_, err := p.line(prompt)
	return err
}
