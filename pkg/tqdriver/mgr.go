package tqdriver

import (
	"fmt"
	"sync"
)

// Manager is a simple named registry of open Clients, adapted from the
// teacher's DBMgr minus its embed.FS migration-application logic
// (pkg/cydb/db_mgr.go's NewSqlMgr/MigrateSQLParam), which has no
// counterpart in a query compiler's execute layer.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{clients: map[string]*Client{}}
}

// GetOrConnect returns the client registered under name, opening and
// registering a new one from cfg if none exists yet.
func (m *Manager) GetOrConnect(name string, cfg *ConnConfig) (*Client, error) {
	m.mu.RLock()
	c, ok := m.clients[name]
	m.mu.RUnlock()
	if ok {
		return c, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.clients[name]; ok {
		return c, nil
	}
	c, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	m.clients[name] = c
	return c, nil
}

// Get returns the client registered under name, if any.
func (m *Manager) Get(name string) (*Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[name]
	return c, ok
}

// CloseAll closes every registered client, collecting any errors.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for name, c := range m.clients {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("tqdriver: closing %q: %w", name, err)
		}
	}
	m.clients = map[string]*Client{}
	return firstErr
}
