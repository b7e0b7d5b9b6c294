package dayengine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/lifeops/internal/constants"
	"github.com/julianstephens/lifeops/internal/logger"
)

// WatcherState is the rollover watcher's lifecycle state.
type WatcherState int

const (
	Idle WatcherState = iota
	Transitioning
)

func (s WatcherState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Transitioning:
		return "transitioning"
	default:
		return fmt.Sprintf("WatcherState(%d)", int(s))
	}
}

// Watcher polls the effective date and materializes the new day's record
// when the key changes. It never runs two ticks at once.
type Watcher struct {
	controller *Controller
	interval   time.Duration

	tickMu sync.Mutex

	mu    sync.RWMutex
	key   string
	state WatcherState
	cron  *cron.Cron
	// stop is closed by Stop; exited closes when the context goroutine returns.
	stop   chan struct{}
	exited chan struct{}

	subMu  sync.Mutex
	subs   map[int]func(string)
	nextID int
}

// NewWatcher creates a watcher that ticks every interval (one minute when
// interval is not positive).
func NewWatcher(controller *Controller, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}
	return &Watcher{
		controller: controller,
		interval:   interval,
		subs:       make(map[int]func(string)),
	}
}

// Start primes the current key with one synchronous tick and then schedules
// ticks until Stop is called or ctx ends.
func (w *Watcher) Start(ctx context.Context) error {
	if _, err := w.Tick(); err != nil {
		return fmt.Errorf("failed to resolve current day: %w", err)
	}

	c := cron.New(
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)
	if _, err := c.AddFunc("@every "+w.interval.String(), func() {
		if _, err := w.Tick(); err != nil {
			logger.Warn("Rollover check failed, will retry", "err", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule rollover check: %w", err)
	}

	w.mu.Lock()
	if w.cron != nil {
		w.mu.Unlock()
		return fmt.Errorf("watcher already started")
	}
	stop := make(chan struct{})
	exited := make(chan struct{})
	w.cron = c
	w.stop = stop
	w.exited = exited
	w.mu.Unlock()

	c.Start()
	logger.Debug("Rollover watcher started", "interval", w.interval, "key", w.Current())

	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			w.Stop()
		case <-stop:
		}
	}()
	return nil
}

// Stop halts scheduled ticks and waits for a running one to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	c, stop := w.cron, w.stop
	w.cron = nil
	w.stop = nil
	w.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if c != nil {
		<-c.Stop().Done()
		logger.Debug("Rollover watcher stopped")
	}
}

// Tick resolves the effective key and, if it changed, creates the new
// day's record before publishing the key. It reports whether the key
// changed. A tick that overlaps another is skipped. If creating the record
// fails the old key is kept so the next tick retries.
func (w *Watcher) Tick() (bool, error) {
	if !w.tickMu.TryLock() {
		logger.Debug("Skipping overlapping rollover tick")
		return false, nil
	}
	defer w.tickMu.Unlock()

	key, err := w.controller.TodayKey()
	if err != nil {
		return false, err
	}
	prev := w.Current()
	if key == prev {
		return false, nil
	}

	w.setState(Transitioning)
	defer w.setState(Idle)

	if _, err := w.controller.GetOrCreate(key); err != nil {
		return false, err
	}

	w.mu.Lock()
	w.key = key
	w.mu.Unlock()

	if prev != "" {
		logger.Info("Day rolled over", "from", prev, "to", key)
	}
	for _, fn := range snapshotListeners(&w.subMu, w.subs) {
		fn(key)
	}
	return true, nil
}

// Current returns the last published effective key, or "" before the
// first tick.
func (w *Watcher) Current() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.key
}

func (w *Watcher) State() WatcherState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Watcher) setState(s WatcherState) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Subscribe registers fn to be called with each newly published key. The
// returned func removes the registration.
func (w *Watcher) Subscribe(fn func(key string)) func() {
	w.subMu.Lock()
	defer w.subMu.Unlock()

	id := w.nextID
	w.nextID++
	w.subs[id] = fn

	return func() {
		w.subMu.Lock()
		defer w.subMu.Unlock()
		delete(w.subs, id)
	}
}

// cronLogger routes cron's own messages into the application log.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
