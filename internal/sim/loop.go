package sim

import (
	"context"
	"time"
)

// IntentSender delivers outbound intent messages to the authority.
type IntentSender interface {
	Send(msg any) error
}

// LoopConfig tunes the fixed-timestep frame loop.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
}

// normalized applies defaults to zero fields.
func (cfg LoopConfig) normalized() LoopConfig {
	if cfg.TickRate <= 0 {
		cfg.TickRate = tickRate
	}
	if cfg.CatchupMaxTicks <= 0 {
		cfg.CatchupMaxTicks = 5
	}
	return cfg
}

// Loop drives the world at a fixed timestep. Each frame it drains queued
// authority messages through the reconciler, steps the simulation once per
// elapsed tick (capped), and flushes outbound intents. Everything runs on
// one goroutine: message handlers always finish before the next tick reads
// state.
type Loop struct {
	world      *World
	reconciler *Reconciler
	messages   <-chan any
	sender     IntentSender
	config     LoopConfig

	lastSentInput Input
	lastInputSend time.Time
}

// NewLoop wires a world, its reconciler, the inbound message queue, and the
// outbound sender into a runnable frame loop.
func NewLoop(world *World, reconciler *Reconciler, messages <-chan any, sender IntentSender, cfg LoopConfig) *Loop {
	if world == nil {
		return nil
	}
	return &Loop{
		world:      world,
		reconciler: reconciler,
		messages:   messages,
		sender:     sender,
		config:     cfg.normalized(),
	}
}

// Run ticks until the context is cancelled.
func (l *Loop) Run(ctx context.Context) {
	if l == nil {
		return
	}

	interval := time.Second / time.Duration(l.config.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := 1.0 / float64(l.config.TickRate)
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now

			steps := int(elapsed / interval)
			if steps < 1 {
				steps = 1
			}
			if steps > l.config.CatchupMaxTicks {
				steps = l.config.CatchupMaxTicks
			}

			l.drainMessages()
			for i := 0; i < steps; i++ {
				l.world.Step(dt)
			}
			l.flushIntents(now)
		}
	}
}

// drainMessages applies every queued authority message before the tick.
func (l *Loop) drainMessages() {
	if l.messages == nil || l.reconciler == nil {
		return
	}
	for {
		select {
		case msg, ok := <-l.messages:
			if !ok {
				l.messages = nil
				return
			}
			l.reconciler.Apply(msg)
		default:
			return
		}
	}
}

// flushIntents sends drained world intents plus the local input snapshot
// whenever it changed or the keepalive interval elapsed.
func (l *Loop) flushIntents(now time.Time) {
	if l.sender == nil {
		return
	}

	localID := l.world.LocalID()
	for _, intent := range l.world.DrainIntents() {
		if msg := IntentMessage(localID, intent); msg != nil {
			if err := l.sender.Send(msg); err != nil {
				l.world.deps.Logger.Printf("send intent: %v", err)
			}
		}
	}

	local, ok := l.world.Character(localID)
	if !ok {
		return
	}
	if local.Input == l.lastSentInput && now.Sub(l.lastInputSend) < intentFlushInterval {
		return
	}
	l.lastSentInput = local.Input
	l.lastInputSend = now
	msg := IntentMessage(localID, Intent{Kind: IntentInput, Input: local.Input})
	if err := l.sender.Send(msg); err != nil {
		l.world.deps.Logger.Printf("send input: %v", err)
	}
}
