package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bft-labs/lockstation/internal/atcmd"
	"github.com/bft-labs/lockstation/internal/domain"
	"github.com/bft-labs/lockstation/internal/ports"
	"github.com/bft-labs/lockstation/pkg/log"
)

// Channel defaults.
const (
	DefaultLineBuffer     = 64
	DefaultReadBufferSize = 256
)

// ChannelConfig configures a Channel.
type ChannelConfig struct {
	Port ports.PortConfig

	// LineBuffer is the capacity of the hand-off channel returned by Lines.
	LineBuffer int

	// ReadBufferSize is the size of a single port read.
	ReadBufferSize int

	BackoffInitial  time.Duration
	BackoffMax      time.Duration
	ShutdownTimeout time.Duration
}

func (c *ChannelConfig) setDefaults() {
	if c.LineBuffer <= 0 {
		c.LineBuffer = DefaultLineBuffer
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = DefaultReadBufferSize
	}
	if c.BackoffInitial <= 0 {
		c.BackoffInitial = DefaultBackoffInitial
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = DefaultBackoffMax
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = ShutdownTimeout
	}
}

// Channel owns one serial connection. Send writes CRLF-framed lines from the
// caller's goroutine; a background receive loop splits incoming bytes into
// lines and posts them to Lines. Nothing in the receive loop touches display
// state.
type Channel struct {
	cfg       ChannelConfig
	opener    ports.PortOpener
	logger    log.Logger
	lifecycle *Lifecycle

	// handleMu is held shared by every Read and Write and exclusively while
	// the handle is opened or released.
	handleMu sync.RWMutex
	port     ports.Port

	writeMu sync.Mutex

	lines     chan domain.Response
	done      chan struct{}
	closeOnce sync.Once
}

// NewChannel creates a closed channel.
func NewChannel(cfg ChannelConfig, opener ports.PortOpener, logger log.Logger, emitter EventEmitter) *Channel {
	cfg.setDefaults()
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Channel{
		cfg:       cfg,
		opener:    opener,
		logger:    logger,
		lifecycle: NewLifecycle(logger, emitter),
		lines:     make(chan domain.Response, cfg.LineBuffer),
		done:      make(chan struct{}),
	}
}

// State returns the lifecycle state.
func (c *Channel) State() State {
	return c.lifecycle.State()
}

// Lines is the hand-off channel from the receive loop to the foreground.
// It is never closed; select on Done as well.
func (c *Channel) Lines() <-chan domain.Response {
	return c.lines
}

// Done is closed once the channel has been closed.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Open opens the port and starts the receive loop. It may be called once.
// The receive loop stops when ctx is canceled or Close is called.
func (c *Channel) Open(ctx context.Context) error {
	if !c.lifecycle.CanOpen() {
		return domain.ErrAlreadyOpen
	}
	if err := c.lifecycle.TransitionTo(StateOpening, "Open() called"); err != nil {
		return err
	}

	c.handleMu.Lock()
	port, err := c.opener.Open(c.cfg.Port)
	if err != nil {
		c.handleMu.Unlock()
		_ = c.lifecycle.TransitionTo(StateFailed, err.Error())
		c.markDone()
		return fmt.Errorf("open serial port: %w", err)
	}
	c.port = port
	c.handleMu.Unlock()

	c.logger.Info("serial port open",
		log.Port(c.cfg.Port.Name),
		log.Int("baud", c.cfg.Port.Baud),
	)

	runCtx, cancel := context.WithCancel(ctx)
	c.lifecycle.SetCancel(cancel)

	c.lifecycle.AddWorker()
	go func() {
		defer c.lifecycle.WorkerDone()
		c.receiveLoop(runCtx)
	}()

	return c.lifecycle.TransitionTo(StateOpen, "port opened")
}

// Send frames line with CRLF and writes it. Errors are returned to the
// caller and never retried.
func (c *Channel) Send(line string) error {
	c.handleMu.RLock()
	defer c.handleMu.RUnlock()

	if c.port == nil || c.lifecycle.State() != StateOpen {
		return domain.ErrChannelClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := c.port.Write(atcmd.Frame(line)); err != nil {
		return fmt.Errorf("write %q: %w", line, err)
	}
	c.logger.Info("sent", log.Line(strings.TrimSuffix(line, atcmd.CRLF)))
	return nil
}

// Post queues a status line on Lines as if it had been received. It is
// dropped once the channel is closed.
func (c *Channel) Post(text, source string) {
	select {
	case c.lines <- domain.Response{Text: text, ReceivedAt: time.Now(), Source: source}:
	case <-c.done:
	}
}

// Close stops the receive loop, waits for it, then releases the port. It is
// safe to call more than once.
func (c *Channel) Close() error {
	if !c.lifecycle.CanClose() {
		return nil
	}
	if err := c.lifecycle.TransitionTo(StateClosing, "Close() called"); err != nil {
		return err
	}

	c.lifecycle.Cancel()
	waitErr := c.lifecycle.WaitWithTimeout(c.cfg.ShutdownTimeout)

	// Exclusive: no Read or Write can be in flight past this point.
	c.handleMu.Lock()
	var closeErr error
	if c.port != nil {
		closeErr = c.port.Close()
		c.port = nil
	}
	c.handleMu.Unlock()

	c.markDone()
	_ = c.lifecycle.TransitionTo(StateClosed, "port released")
	c.logger.Info("serial port closed", log.Port(c.cfg.Port.Name))

	if closeErr != nil {
		return fmt.Errorf("close serial port: %w", closeErr)
	}
	return waitErr
}

func (c *Channel) markDone() {
	c.closeOnce.Do(func() { close(c.done) })
}

// read performs one Read under the shared handle lock.
func (c *Channel) read(buf []byte) (int, error) {
	c.handleMu.RLock()
	defer c.handleMu.RUnlock()
	if c.port == nil {
		return 0, ports.ErrPortClosed
	}
	return c.port.Read(buf)
}

// receiveLoop polls the port until ctx is canceled or the port is gone.
// A failed read is logged and retried with backoff; the loop never gives up
// on its own while the port exists.
func (c *Channel) receiveLoop(ctx context.Context) {
	buf := make([]byte, c.cfg.ReadBufferSize)
	var splitter lineSplitter
	bo := newBackoff(c.cfg.BackoffInitial, c.cfg.BackoffMax)

	for {
		if ctx.Err() != nil {
			return
		}

		n, err := c.read(buf)
		if n > 0 {
			for _, raw := range splitter.Feed(buf[:n]) {
				if !c.deliver(ctx, raw) {
					return
				}
			}
		}

		switch {
		case err == nil, errors.Is(err, io.EOF):
			// io.EOF is how some drivers report a read timeout.
			bo.Reset()
		case errors.Is(err, ports.ErrPortClosed):
			c.logger.Debug("receive loop stopped: port closed")
			return
		default:
			c.logger.Warn("serial read failed",
				log.Err(err),
				log.Duration("retry_in", bo.Current()),
			)
			if !bo.Wait(ctx) {
				return
			}
		}
	}
}

// deliver decodes one raw line and hands it to the foreground. Returns false
// when the loop should stop.
func (c *Channel) deliver(ctx context.Context, raw string) bool {
	text := strings.TrimSpace(raw)
	if text == "" {
		return true
	}
	if !utf8.ValidString(text) {
		c.logger.Warn("received invalid UTF-8, replacing bad bytes", log.Int("bytes", len(text)))
		text = strings.ToValidUTF8(text, "\uFFFD")
	}

	c.logger.Info("received", log.Line(text))

	select {
	case c.lines <- domain.Response{Text: text, ReceivedAt: time.Now(), Source: domain.SourceSerial}:
		return true
	case <-ctx.Done():
		return false
	}
}
