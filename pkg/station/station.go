package station

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bft-labs/lockstation/internal/adapters/serialport"
	"github.com/bft-labs/lockstation/internal/app"
	"github.com/bft-labs/lockstation/internal/atcmd"
	"github.com/bft-labs/lockstation/internal/domain"
	"github.com/bft-labs/lockstation/internal/ports"
	"github.com/bft-labs/lockstation/internal/rollingcode"
	"github.com/bft-labs/lockstation/pkg/log"
)

// Station sends commands to a lock station and receives its status lines.
type Station struct {
	config    Config
	channel   *app.Channel
	generator *rollingcode.Generator
	logger    Logger
	emitter   *eventEmitterWrapper
	plugins   []Plugin
	slots     map[string]bool

	mu        sync.Mutex
	sessionID string
	started   []Plugin
	cancel    context.CancelFunc
}

// New creates a Station in StateClosed. Call Start to open the port.
func New(cfg Config, opts ...Option) (*Station, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}

	opener := o.opener
	if opener == nil {
		var err error
		opener, err = serialport.NewOpener(cfg.Driver)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
		}
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}

	channel := app.NewChannel(app.ChannelConfig{
		Port: ports.PortConfig{
			Name:        cfg.Port,
			Baud:        cfg.Baud,
			ReadTimeout: cfg.ReadTimeout,
		},
		LineBuffer:      cfg.LineBuffer,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, opener, o.logger, emitter)

	slots := make(map[string]bool, len(cfg.Slots))
	for _, s := range cfg.Slots {
		slots[normaliseSlot(s)] = true
	}

	return &Station{
		config:  cfg,
		channel: channel,
		generator: rollingcode.NewGenerator(rollingcode.Prefix{
			Channel: cfg.Channel,
			Length:  cfg.CodeLength,
		}),
		logger:  o.logger,
		emitter: emitter,
		plugins: o.plugins,
		slots:   slots,
	}, nil
}

// Start opens the serial port, starts the receive loop and initialises
// plugins. An open failure is returned as-is; the caller is expected to
// treat it as fatal.
func (s *Station) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.channel.State() != app.StateClosed {
		return domain.ErrAlreadyRunning
	}

	s.sessionID = uuid.NewString()
	if err := s.channel.Open(ctx); err != nil {
		s.logger.Error("cannot open serial port",
			log.Port(s.config.Port),
			log.Err(err),
		)
		return err
	}
	s.logger.Info("station started",
		log.Port(s.config.Port),
		log.String("session", s.sessionID),
	)

	pluginCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, p := range s.plugins {
		cfg := PluginConfig{
			Port:      s.config.Port,
			SessionID: s.sessionID,
			Logger:    s.logger,
			Sink:      pluginSink{station: s, name: p.Name()},
		}
		if err := safeInitialize(pluginCtx, p, cfg); err != nil {
			s.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err),
			)
			s.shutdownPlugins()
			_ = s.channel.Close()
			return fmt.Errorf("initialize plugin %s: %w", p.Name(), err)
		}
		s.started = append(s.started, p)
		s.logger.Debug("plugin initialized", log.String("plugin", p.Name()))
	}

	return nil
}

// Stop shuts plugins down, stops the receive loop and releases the port.
func (s *Station) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.channel.State() {
	case app.StateOpen, app.StateOpening:
	default:
		return domain.ErrNotRunning
	}

	s.shutdownPlugins()
	return s.channel.Close()
}

// shutdownPlugins runs in reverse order of initialization.
func (s *Station) shutdownPlugins() {
	ctx := context.Background()
	for i := len(s.started) - 1; i >= 0; i-- {
		p := s.started[i]
		if err := safeShutdown(ctx, p); err != nil {
			s.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(err),
			)
		}
	}
	s.started = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// SendMessage sends AT+SEND=<channel>,<len(key)+4>,<slot>-<key>. An empty
// key or an unknown slot is reported and nothing is written.
func (s *Station) SendMessage(slot, key string) error {
	slot = normaliseSlot(slot)
	if !s.slots[slot] {
		err := fmt.Errorf("%w: %q", domain.ErrUnknownSlot, slot)
		s.logger.Error("slot message rejected", log.Err(err))
		return err
	}
	line, err := atcmd.SlotMessage(s.config.Channel, slot, key)
	if err != nil {
		s.logger.Error("slot message rejected", log.String("slot", slot), log.Err(err))
		return err
	}
	return s.send(line)
}

// SendManual sends cmd verbatim with CRLF appended.
func (s *Station) SendManual(cmd string) error {
	if err := atcmd.ValidateManual(cmd); err != nil {
		s.logger.Error("manual command rejected", log.Err(err))
		return err
	}
	return s.send(cmd)
}

// SendRollingCode advances the counter and sends the rolling-code command
// for deviceID. The formatted line is returned even when the write fails;
// the code is consumed either way.
func (s *Station) SendRollingCode(deviceID string) (string, error) {
	code := s.generator.Advance()
	line := s.generator.Format(deviceID, code)
	s.logger.Debug("rolling code issued",
		log.String("device", deviceID),
		log.Code(code),
	)
	return line, s.send(line)
}

func (s *Station) send(line string) error {
	err := s.channel.Send(line)
	if err != nil {
		s.logger.Error("send failed", log.Line(line), log.Err(err))
	}
	s.emitter.onSend(line, err)
	return err
}

// Lines delivers received lines. It is never closed; select on Done too.
func (s *Station) Lines() <-chan Response {
	return s.channel.Lines()
}

// Done is closed once the station has stopped or failed to start.
func (s *Station) Done() <-chan struct{} {
	return s.channel.Done()
}

// Post queues a status line on Lines.
func (s *Station) Post(text string) {
	s.channel.Post(text, "station")
}

// Status returns the lifecycle state. Safe for concurrent use.
func (s *Station) Status() State {
	return convertState(s.channel.State())
}

// SessionID identifies the current run in logs. Empty before Start.
func (s *Station) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// CurrentCode returns the last issued rolling code.
func (s *Station) CurrentCode() uint32 {
	return s.generator.Current()
}

// Slots returns the accepted slot names in configuration order.
func (s *Station) Slots() []string {
	out := make([]string, 0, len(s.config.Slots))
	for _, slot := range s.config.Slots {
		out = append(out, normaliseSlot(slot))
	}
	return out
}

// HasSlot reports whether slot is accepted by SendMessage.
func (s *Station) HasSlot(slot string) bool {
	return s.slots[normaliseSlot(slot)]
}

func normaliseSlot(slot string) string {
	return strings.ToUpper(strings.TrimSpace(slot))
}
