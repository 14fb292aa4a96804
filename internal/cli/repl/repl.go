package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Executor runs one command line.
type Executor func(ctx context.Context, args []string) error

// REPL is the read-eval-print loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    func() string
	exec      Executor
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithPrompt sets a prompt function, evaluated before each line.
func WithPrompt(prompt func() string) Option {
	return func(r *REPL) { r.prompt = prompt }
}

// WithCompleter sets the completer.
func WithCompleter(c *Completer) Option {
	return func(r *REPL) { r.completer = c }
}

// WithHistory sets the history.
func WithHistory(h *History) Option {
	return func(r *REPL) { r.history = h }
}

// New creates a REPL reading stdin.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    func() string { return "hireflow> " },
		exec:      exec,
		completer: NewCompleter(nil),
		history:   NewHistory(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until exit, EOF or ctx cancellation.
func (r *REPL) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(r.input)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		fmt.Fprint(r.output, r.prompt())

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.output)
			return nil
		case err := <-readErr:
			fmt.Fprintln(r.output)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case line = <-lines:
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if done := r.handle(ctx, line); done {
			return nil
		}
	}
}

// handle processes one non-empty line and reports whether to exit.
func (r *REPL) handle(ctx context.Context, line string) bool {
	switch line {
	case "exit", "quit":
		return true
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return false
	}

	if strings.HasSuffix(line, "?") {
		prefix := strings.TrimSpace(strings.TrimSuffix(line, "?"))
		for _, s := range r.completer.Complete(prefix) {
			fmt.Fprintln(r.output, s)
		}
		return false
	}

	r.history.Add(line)

	args, err := SplitArgs(line)
	if err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
		return false
	}
	if err := r.exec(ctx, args); err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
	}
	return false
}

// SplitArgs splits a line into arguments. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   rune
		escaped bool
	)

	for _, ch := range line {
		switch {
		case escaped:
			cur.WriteRune(ch)
			escaped = false
		case ch == '\\' && quote != '\'':
			escaped = true
			inArg = true
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				cur.WriteRune(ch)
			}
		case ch == '"' || ch == '\'':
			quote = ch
			inArg = true
		case ch == ' ' || ch == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(ch)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
