// Package devicewatch reports when the station's serial device node
// disappears or comes back. It only posts status lines; the station does
// not reconnect.
package devicewatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/lockstation/pkg/log"
	"github.com/bft-labs/lockstation/pkg/station"
)

// PluginName is also the Source of every line the plugin posts.
const PluginName = "devicewatch"

// DefaultDebounceDelay collapses the burst of events udev produces when a
// USB adapter is plugged in.
const DefaultDebounceDelay = 250 * time.Millisecond

// Config holds configuration options for the device watcher.
type Config struct {
	// DebounceDelay is how long the node must be quiet before its presence
	// is checked and reported.
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with the default debounce.
func DefaultConfig() Config {
	return Config{DebounceDelay: DefaultDebounceDelay}
}

// Plugin watches the directory holding the serial device node.
type Plugin struct {
	debounceDelay time.Duration

	mu       sync.Mutex
	device   string
	present  bool
	logger   station.Logger
	sink     station.LineSink
	watcher  *fsnotify.Watcher
	debounce *time.Timer
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a device watcher.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = DefaultDebounceDelay
	}
	return &Plugin{debounceDelay: cfg.DebounceDelay}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return PluginName
}

// Initialize starts watching cfg.Port. Port names that are not filesystem
// paths (COM3 and the like) disable the plugin.
func (p *Plugin) Initialize(ctx context.Context, cfg station.PluginConfig) error {
	p.mu.Lock()
	p.device = filepath.Clean(cfg.Port)
	p.logger = cfg.Logger
	p.sink = cfg.Sink
	p.mu.Unlock()

	if !filepath.IsAbs(cfg.Port) {
		p.logger.Warn("device watch disabled: port is not a device path", log.Port(cfg.Port))
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.device)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(p.device), err)
	}

	p.mu.Lock()
	p.watcher = watcher
	p.present = exists(p.device)
	p.mu.Unlock()

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	p.logger.Info("device watch started", log.Port(p.device))
	return nil
}

// Shutdown stops the watcher and any pending report.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	if p.watcher != nil {
		err := p.watcher.Close()
		p.watcher = nil
		return err
	}
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != p.device {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			p.scheduleCheck(ctx)

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Warn("device watch error", log.Err(err))
		}
	}
}

func (p *Plugin) scheduleCheck(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.check()
	})
}

// check reports the node's presence if it changed since the last report.
func (p *Plugin) check() {
	now := exists(p.device)

	p.mu.Lock()
	if now == p.present {
		p.mu.Unlock()
		return
	}
	p.present = now
	p.mu.Unlock()

	status := "removed"
	if now {
		status = "attached"
	}
	p.logger.Info("serial device "+status, log.Port(p.device))
	p.sink.Post(fmt.Sprintf("[DEVICE] %s %s", p.device, status))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
