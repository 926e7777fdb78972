// Package console is the interactive terminal front-end of the station. It
// keeps the key field, turns typed commands into station operations and
// prints received lines.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bft-labs/lockstation/internal/domain"
	"github.com/bft-labs/lockstation/pkg/log"
)

// Commander is the part of a station the console drives.
type Commander interface {
	SendMessage(slot, key string) error
	SendManual(cmd string) error
	SendRollingCode(deviceID string) (string, error)
	Lines() <-chan domain.Response
	Done() <-chan struct{}
	Slots() []string
}

// Console runs the foreground loop. All display writes happen on the
// goroutine that calls Run.
type Console struct {
	station Commander
	in      io.Reader
	out     io.Writer
	logger  log.Logger

	key string
}

// New creates a console reading commands from in and writing to out.
func New(station Commander, in io.Reader, out io.Writer, logger log.Logger) *Console {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Console{
		station: station,
		in:      in,
		out:     out,
		logger:  logger,
	}
}

// Run processes input until quit, end of input, ctx cancellation or the
// station shutting down.
func (c *Console) Run(ctx context.Context) error {
	inputs := make(chan string)
	inputErr := make(chan error, 1)
	go c.readInput(ctx, inputs, inputErr)

	c.printHelp()
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-c.station.Done():
			c.drain()
			c.logger.Info("station stopped, leaving console")
			return nil

		case r := <-c.station.Lines():
			c.display(r)

		case line, ok := <-inputs:
			if !ok {
				select {
				case err := <-inputErr:
					return err
				default:
					return nil
				}
			}
			if !c.handle(line) {
				return nil
			}
		}
	}
}

// readInput hands stdin lines to Run. It never touches display state.
func (c *Console) readInput(ctx context.Context, inputs chan<- string, errs chan<- error) {
	defer close(inputs)
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		select {
		case inputs <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		errs <- fmt.Errorf("read input: %w", err)
	}
}

// drain prints whatever is still buffered after the station stopped.
func (c *Console) drain() {
	for {
		select {
		case r := <-c.station.Lines():
			c.display(r)
		default:
			return
		}
	}
}

// handle runs one input line. It returns false on quit.
// Lines starting with AT are sent exactly as typed.
func (c *Console) handle(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	if strings.HasPrefix(trimmed, "AT") {
		c.sendManual(line)
		return true
	}

	verb, rest, _ := strings.Cut(trimmed, " ")
	arg := strings.TrimSpace(rest)
	c.logger.Debug("console command", log.String("verb", verb))

	switch strings.ToLower(verb) {
	case "quit", "exit":
		return false

	case "help", "?":
		c.printHelp()

	case "key":
		c.key = arg
		if arg == "" {
			fmt.Fprintln(c.out, "key cleared")
		} else {
			fmt.Fprintf(c.out, "key set to %s\n", arg)
		}

	case "send":
		if arg == "" {
			c.printError(fmt.Errorf("usage: send <%s>", strings.Join(c.station.Slots(), "|")))
			return true
		}
		if err := c.station.SendMessage(arg, c.key); err != nil {
			c.printError(err)
		}

	case "code":
		if arg == "" {
			c.printError(fmt.Errorf("usage: code <device-id>"))
			return true
		}
		cmd, err := c.station.SendRollingCode(arg)
		if err != nil {
			c.printError(err)
			return true
		}
		fmt.Fprintf(c.out, "sent %s\n", cmd)

	case "at", "raw":
		c.sendManual(strings.TrimLeft(rest, " \t"))

	default:
		c.printError(fmt.Errorf("unknown command %q, type help", verb))
	}
	return true
}

func (c *Console) sendManual(cmd string) {
	if err := c.station.SendManual(cmd); err != nil {
		c.printError(err)
	}
}

func (c *Console) display(r domain.Response) {
	fmt.Fprintln(c.out, r.Text)
}

func (c *Console) printError(err error) {
	fmt.Fprintf(c.out, "[ERROR] - %s\n", err)
}

func (c *Console) printHelp() {
	fmt.Fprintf(c.out, `commands:
  key <value>      set the key (no value clears it)
  send <slot>      send the key to a slot (%s)
  code <device>    send the next rolling code
  at <command>     send a raw AT command (lines starting with AT work too)
  help             show this help
  quit             exit
`, strings.Join(c.station.Slots(), ", "))
}
