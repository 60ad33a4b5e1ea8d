package simulator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/huynhanx03/token-dispenser/pkg/dispenser"
)

const (
	msgEmptyList  = "Queue is currently empty."
	msgQueueEmpty = "Queue is empty! No customers to serve."
	msgProceed    = "Please proceed to Counter 1"
	noToken       = "--"
	prompt        = "> "
	helpText      = `commands:
  issue [n]  issue n tokens (default 1)
  serve      serve the next waiting token
  next       show the next token to be served
  list       show the waiting list
  stats      show counters
  help       show this help
  quit       leave the simulator`
)

type tokenService interface {
	IssueToken(ctx context.Context) (dispenser.Token, error)
	ServeNext(ctx context.Context) (dispenser.Token, error)
	SnapshotWaiting() []dispenser.Token
	Stats() dispenser.Stats
}

// Console drives a dispenser from line-based commands, printing what the
// counter screen would show.
type Console struct {
	service tokenService
	out     io.Writer
}

func NewConsole(service tokenService, out io.Writer) *Console {
	return &Console{service: service, out: out}
}

// Run reads commands from in until EOF, "quit", or ctx is cancelled.
// Cancellation is honoured while waiting for input.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(in, done)

	c.printf("%s\n%s", helpText, prompt)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return errors.Wrap(<-readErr, "simulator: read input")
			}
			if ctx.Err() != nil {
				return nil
			}

			fields := strings.Fields(line)
			if len(fields) == 0 {
				c.printf(prompt)
				continue
			}
			if fields[0] == "quit" || fields[0] == "exit" {
				return nil
			}

			c.Exec(ctx, fields[0], fields[1:]...)
			c.printf(prompt)
		}
	}
}

// readLines scans in on its own goroutine. lines is closed at EOF, after
// which readErr yields the scanner error. The goroutine stops sending once
// done is closed but stays blocked in Read until in returns.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return lines, readErr
}

// Exec runs a single command.
func (c *Console) Exec(ctx context.Context, cmd string, args ...string) {
	switch cmd {
	case "issue":
		n := 1
		if len(args) > 0 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil || parsed < 1 {
				c.printf("invalid count %q\n", args[0])
				return
			}
			n = parsed
		}
		c.issue(ctx, n)
	case "serve":
		c.serve(ctx)
	case "next":
		c.printf("Next: %s\n", label(c.service.Stats().Next))
	case "list":
		c.list()
	case "stats":
		c.stats()
	case "help":
		c.printf("%s\n", helpText)
	default:
		c.printf("unknown command %q, type help\n", cmd)
	}
}

func (c *Console) issue(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		tok, err := c.service.IssueToken(ctx)
		if errors.Is(err, dispenser.ErrQueueFull) {
			c.printf("Queue is full! Maximum %d customers allowed in waiting list.\n", c.service.Stats().Capacity)
			break
		}
		if err != nil {
			c.printf("issue failed: %v\n", err)
			break
		}
		c.printf("Issued %s\n", tok.Label)
	}
	c.stats()
}

func (c *Console) serve(ctx context.Context) {
	tok, err := c.service.ServeNext(ctx)
	switch {
	case errors.Is(err, dispenser.ErrQueueEmpty):
		c.printf("%s\n", msgQueueEmpty)
		return
	case err != nil:
		c.printf("serve failed: %v\n", err)
		return
	}

	c.printf("Now serving %s. %s\n", tok.Label, msgProceed)
	c.stats()
}

func (c *Console) list() {
	tokens := c.service.SnapshotWaiting()
	if len(tokens) == 0 {
		c.printf("%s\n", msgEmptyList)
		return
	}
	for i, tok := range tokens {
		c.printf("%3d. %-8s Waiting\n", i+1, tok.Label)
	}
}

func (c *Console) stats() {
	s := c.service.Stats()
	c.printf("Waiting: %d/%d | Total issued: %d | Now serving: %s | Next: %s\n",
		s.Waiting, s.Capacity, s.TotalIssued, label(s.NowServing), label(s.Next))
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func label(tok *dispenser.Token) string {
	if tok == nil {
		return noToken
	}
	return tok.Label
}
