// notify/engine.go
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/LenoreWoW/Themis-sub003/models"
)

// Config is passed to the engine at construction. There is no module-level
// configuration state.
type Config struct {
	// Interval between evaluation ticks.
	Interval time.Duration
	// UpdateWeekday is the weekly update deadline day.
	UpdateWeekday time.Weekday
	// Deduplicate suppresses repeat emissions of the same
	// (rule, recipient, item, window) inside DedupWindow. Off by default;
	// repeat emission inside a rule window is the documented behavior.
	Deduplicate bool
	// DedupWindow buckets the dedup key; only read when Deduplicate is set.
	DedupWindow time.Duration
}

// DefaultConfig matches the observed production cadence.
func DefaultConfig() Config {
	return Config{
		Interval:      time.Minute,
		UpdateWeekday: time.Thursday,
		DedupWindow:   24 * time.Hour,
	}
}

// Engine drives the rule set on a fixed interval. It has an explicit
// start/stop lifecycle owned by the caller; no timer survives Stop.
type Engine struct {
	cfg    Config
	rules  []Rule
	source Source
	store  *Store
	clock  Clock
	kv     KV
	stop   chan struct{}
	done   chan struct{}
}

// NewEngine wires the engine with the default rule set. The KV is only
// consulted for dedup keys and may be nil when Deduplicate is off.
func NewEngine(cfg Config, source Source, store *Store, clock Clock, kv KV) *Engine {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.DedupWindow <= 0 {
		cfg.DedupWindow = 24 * time.Hour
	}
	return &Engine{
		cfg:    cfg,
		rules:  DefaultRules(cfg.UpdateWeekday),
		source: source,
		store:  store,
		clock:  clock,
		kv:     kv,
	}
}

// SetRules replaces the rule set; used by tests to isolate a single rule.
func (e *Engine) SetRules(rules []Rule) { e.rules = rules }

// Start launches the tick loop. Must be paired with Stop.
func (e *Engine) Start(ctx context.Context) {
	e.stop = make(chan struct{})
	e.done = make(chan struct{})

	go func() {
		defer close(e.done)
		log.Printf("notification engine started (interval %s)", e.cfg.Interval)
		ticker := time.NewTicker(e.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.Tick(ctx)
			case <-e.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the tick loop and waits for the in-flight tick to finish.
func (e *Engine) Stop() {
	if e.stop == nil {
		return
	}
	close(e.stop)
	<-e.done
	e.stop = nil
	log.Println("notification engine stopped")
}

// Tick runs one full evaluation pass. A snapshot fetch problem is logged
// and the rules still run over whatever was gathered; one rule failing
// never stops the others.
func (e *Engine) Tick(ctx context.Context) {
	snap, err := e.source.Snapshot(ctx)
	if err != nil {
		log.Printf("notification engine: partial snapshot: %v", err)
	}
	now := e.clock.Now()

	for _, rule := range e.rules {
		for _, n := range e.evaluate(rule, snap, now) {
			if e.cfg.Deduplicate && e.alreadySent(rule, n, now) {
				continue
			}
			e.store.Append(n)
		}
	}
}

// evaluate isolates one rule: a panic inside a rule is recovered and
// logged so the remaining rules still run this tick.
func (e *Engine) evaluate(rule Rule, snap Snapshot, now time.Time) (out []models.Notification) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("notification engine: rule %s panicked: %v", rule.Name(), r)
			out = nil
		}
	}()
	return rule.Evaluate(snap, now)
}

// alreadySent checks and records the idempotency key for a notification.
func (e *Engine) alreadySent(rule Rule, n models.Notification, now time.Time) bool {
	if e.kv == nil {
		return false
	}
	bucket := now.UTC().Truncate(e.cfg.DedupWindow).Format(time.RFC3339)
	key := fmt.Sprintf("sent:%s:%s:%s:%s", rule.Name(), n.UserID, n.RelatedItemID, bucket)
	if _, ok := e.kv.Get(key); ok {
		return true
	}
	e.kv.Set(key, []byte{1})
	return false
}
