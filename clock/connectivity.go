package clock

import (
	"context"
	"sync"
	"time"
)

// ConnectivityMonitor reports whether the remote store is reachable and
// notifies subscribers on transitions. Handlers are invoked with the new
// state and must not block.
type ConnectivityMonitor interface {
	Online() bool
	Subscribe(handler func(online bool))
}

// Pinger is the reachability probe a PingMonitor polls.
type Pinger interface {
	Ping() bool
}

// PingMonitor polls a Pinger on a fixed interval and fires subscriptions on
// every online/offline edge.
type PingMonitor struct {
	pinger   Pinger
	interval time.Duration

	mu       sync.Mutex
	online   bool
	handlers []func(online bool)
}

func NewPingMonitor(pinger Pinger, interval time.Duration) *PingMonitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &PingMonitor{pinger: pinger, interval: interval}
}

func (m *PingMonitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *PingMonitor) Subscribe(handler func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handler)
}

// Start polls until ctx is cancelled. The first probe runs immediately so
// callers get an initial state without waiting a full interval.
func (m *PingMonitor) Start(ctx context.Context) {
	m.probe()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe()
		}
	}
}

func (m *PingMonitor) probe() {
	online := m.pinger.Ping()

	m.mu.Lock()
	changed := online != m.online
	m.online = online
	handlers := make([]func(bool), len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	if changed {
		for _, h := range handlers {
			h(online)
		}
	}
}

// ManualMonitor is a connectivity source driven by explicit SetOnline calls.
// Kiosk integrations wire platform callbacks into it; tests drive it directly.
type ManualMonitor struct {
	mu       sync.Mutex
	online   bool
	handlers []func(online bool)
}

func NewManualMonitor(online bool) *ManualMonitor {
	return &ManualMonitor{online: online}
}

func (m *ManualMonitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *ManualMonitor) Subscribe(handler func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handler)
}

func (m *ManualMonitor) SetOnline(online bool) {
	m.mu.Lock()
	changed := online != m.online
	m.online = online
	handlers := make([]func(bool), len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	if changed {
		for _, h := range handlers {
			h(online)
		}
	}
}
