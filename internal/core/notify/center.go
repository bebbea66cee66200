package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/pulse/pkg/kv"
	"github.com/colonyops/pulse/pkg/randid"
)

const (
	// DefaultTTL is how long a notification stays visible when the
	// caller does not specify a duration.
	DefaultTTL = 3 * time.Second

	// DefaultGrace is the delay between a notification entering the
	// removing state and being detached from the registry. Hosts use
	// the window to run an exit transition.
	DefaultGrace = 300 * time.Millisecond

	defaultIDLength = 8
)

// Transition identifies a lifecycle change reported to subscribers.
type Transition int

const (
	TransitionShown Transition = iota
	TransitionRemoving
	TransitionGone
)

// Event is delivered to subscribers on every lifecycle change.
type Event struct {
	Transition   Transition
	Notification Notification
}

// Subscriber is a callback invoked on every lifecycle event.
type Subscriber func(Event)

// CommandHandler executes a notification action command.
type CommandHandler func(n Notification, a Action)

// Options configures a Center. Zero values fall back to defaults.
type Options struct {
	DefaultTTL time.Duration
	Grace      time.Duration
	IDLength   int
	Store      Store // optional history persistence
	Logger     zerolog.Logger
}

type entry struct {
	n      Notification
	state  State
	expire *time.Timer // armed while TTL > 0 and state is Active
}

// Center is the authoritative registry of live notifications. It owns
// every notification for its lifetime; a notification is created by Show
// and destroyed by TTL expiry, Remove, or Clear.
//
// Center is safe for concurrent use. Auto-dismiss timers race manual
// Remove calls; whichever reaches the Active -> Removing transition
// first wins and the loser is a no-op.
type Center struct {
	mu       sync.Mutex
	reg      *kv.Store[string, *entry]
	commands *kv.Store[string, CommandHandler]

	subMu sync.Mutex
	subs  []Subscriber

	ttl   time.Duration
	grace time.Duration
	idLen int
	store Store
	log   zerolog.Logger
}

// NewCenter creates a notification center.
func NewCenter(opts Options) *Center {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = DefaultTTL
	}
	if opts.Grace <= 0 {
		opts.Grace = DefaultGrace
	}
	if opts.IDLength <= 0 {
		opts.IDLength = defaultIDLength
	}

	return &Center{
		reg:      kv.New[string, *entry](),
		commands: kv.New[string, CommandHandler](),
		ttl:      opts.DefaultTTL,
		grace:    opts.Grace,
		idLen:    opts.IDLength,
		store:    opts.Store,
		log:      opts.Logger,
	}
}

// Subscribe registers a callback invoked on every lifecycle event.
func (c *Center) Subscribe(fn Subscriber) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subs = append(c.subs, fn)
}

// OnCommand registers the handler for an action command identifier.
// Registering the same identifier again replaces the previous handler.
func (c *Center) OnCommand(command string, fn CommandHandler) {
	c.commands.Set(command, fn)
}

// Show creates a notification and appends it to the registry. When ttl is
// positive exactly one auto-dismiss timer is armed; ttl 0 persists the
// notification until it is removed. The id is returned synchronously so
// callers may remove the notification early.
func (c *Center) Show(message string, kind Kind, ttl time.Duration, actions ...Action) string {
	n := Notification{
		Kind:      kind,
		Message:   message,
		TTL:       ttl,
		Actions:   actions,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	id := randid.Generate(c.idLen)
	for {
		if _, exists := c.reg.Get(id); !exists {
			break
		}
		id = randid.Generate(c.idLen)
	}
	n.ID = id

	e := &entry{n: n, state: StateActive}
	c.reg.Set(id, e)
	c.mu.Unlock()

	if c.store != nil {
		if _, err := c.store.Save(context.Background(), n); err != nil {
			c.log.Error().Err(err).Str("message", n.Message).Msg("failed to persist notification")
		}
	}

	c.emit(Event{Transition: TransitionShown, Notification: n})

	// The timer is armed only after the Shown event is out, so a short
	// TTL can never surface Removing to a subscriber first. Skip arming
	// when a manual Remove already moved the entry past Active.
	if ttl > 0 {
		c.mu.Lock()
		if e.state == StateActive {
			e.expire = time.AfterFunc(ttl, func() { c.Remove(id) })
		}
		c.mu.Unlock()
	}
	return id
}

// ShowDefault creates a notification with the center's default TTL.
func (c *Center) ShowDefault(message string, kind Kind) string {
	return c.Show(message, kind, c.ttl)
}

// Successf shows a success notification with the default TTL.
func (c *Center) Successf(format string, args ...any) string {
	return c.ShowDefault(fmt.Sprintf(format, args...), KindSuccess)
}

// Errorf shows an error notification with the default TTL.
func (c *Center) Errorf(format string, args ...any) string {
	return c.ShowDefault(fmt.Sprintf(format, args...), KindError)
}

// Warnf shows a warning notification with the default TTL.
func (c *Center) Warnf(format string, args ...any) string {
	return c.ShowDefault(fmt.Sprintf(format, args...), KindWarning)
}

// Infof shows an info notification with the default TTL.
func (c *Center) Infof(format string, args ...any) string {
	return c.ShowDefault(fmt.Sprintf(format, args...), KindInfo)
}

// Remove transitions a notification from Active to Removing, then
// detaches it from the registry after the grace delay. Removing an
// absent id, or one already past Active, is a no-op, so the auto-dismiss
// timer and manual calls may race freely.
func (c *Center) Remove(id string) {
	c.mu.Lock()
	e, ok := c.reg.Get(id)
	if !ok || e.state != StateActive {
		c.mu.Unlock()
		return
	}

	e.state = StateRemoving
	if e.expire != nil {
		e.expire.Stop()
		e.expire = nil
	}
	n := e.n
	time.AfterFunc(c.grace, func() { c.detach(id) })
	c.mu.Unlock()

	c.emit(Event{Transition: TransitionRemoving, Notification: n})
}

// detach completes the Removing -> Gone transition.
func (c *Center) detach(id string) {
	c.mu.Lock()
	e, ok := c.reg.Get(id)
	if !ok || e.state != StateRemoving {
		c.mu.Unlock()
		return
	}
	e.state = StateGone
	c.reg.Delete(id)
	n := e.n
	c.mu.Unlock()

	c.emit(Event{Transition: TransitionGone, Notification: n})
}

// Clear removes every notification currently in the registry, in
// registration order. Every entry has left the Active state by the time
// Clear returns; registry memory is reclaimed as each grace delay
// elapses.
func (c *Center) Clear() {
	for _, id := range c.reg.Keys() {
		c.Remove(id)
	}
}

// Active returns a snapshot of notifications still in the Active state,
// in registration order.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Notification
	for _, e := range c.reg.Values() {
		if e.state == StateActive {
			out = append(out, e.n)
		}
	}
	return out
}

// State reports the lifecycle state of a notification. Gone
// notifications are no longer in the registry, so ok is false for them
// as well as for ids that never existed.
func (c *Center) State(id string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.reg.Get(id)
	if !ok {
		return StateGone, false
	}
	return e.state, true
}

// Trigger runs the handler bound to an action command of a live
// notification. It returns false when the notification, action, or
// handler does not exist.
func (c *Center) Trigger(id, command string) bool {
	c.mu.Lock()
	e, ok := c.reg.Get(id)
	if !ok {
		c.mu.Unlock()
		return false
	}
	n := e.n
	c.mu.Unlock()

	for _, a := range n.Actions {
		if a.Command != command {
			continue
		}
		fn, ok := c.commands.Get(command)
		if !ok {
			c.log.Warn().Str("command", command).Msg("notification action references unknown command")
			return false
		}
		fn(n, a)
		return true
	}
	return false
}

// History returns persisted notifications, newest first. Returns nil if
// no store is configured.
func (c *Center) History() ([]Notification, error) {
	if c.store == nil {
		return nil, nil
	}
	return c.store.List(context.Background())
}

// ClearHistory deletes the persisted history. No-op without a store.
func (c *Center) ClearHistory(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.Clear(ctx)
}

func (c *Center) emit(ev Event) {
	c.subMu.Lock()
	subs := make([]Subscriber, len(c.subs))
	copy(subs, c.subs)
	c.subMu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
