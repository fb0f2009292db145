package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Terminal asks questions on out and reads answers line by line from in.
type Terminal struct {
	out io.Writer

	once  sync.Once
	lines chan lineResult
	in    *bufio.Reader
	// fd is the descriptor of in when it is an interactive terminal, else -1.
	fd int
}

type lineResult struct {
	line string
	err  error
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Terminal{in: bufio.NewReader(in), out: out, lines: make(chan lineResult), fd: fd}
}

// readLine waits for the next line or ctx. A single reader goroutine owns
// the input so an abandoned prompt cannot swallow the next answer.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	t.once.Do(func() {
		go func() {
			for {
				s, err := t.in.ReadString('\n')
				if err != nil && !(err == io.EOF && s != "") {
					t.lines <- lineResult{err: err}
					close(t.lines)
					return
				}
				t.lines <- lineResult{line: strings.TrimRight(s, "\r\n")}
			}
		}()
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		return r.line, r.err
	}
}

// Confirm asks a yes/no question. An empty answer counts as yes.
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	fmt.Fprint(t.out, question)
	line, err := t.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (t *Terminal) WaitContinue(ctx context.Context, message string) error {
	fmt.Fprint(t.out, message)
	_, err := t.readLine(ctx)
	return err
}

// ReadSecret prompts for a value without echoing it when in is a terminal.
// Otherwise it takes the next input line, sharing the reader with the other
// prompts. Call it before any other prompt on an interactive terminal.
func (t *Terminal) ReadSecret(ctx context.Context, label string) (string, error) {
	fmt.Fprint(t.out, label)
	if t.fd >= 0 {
		b, err := term.ReadPassword(t.fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := t.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
