package connector

import (
	"fmt"
	"sort"
	"sync"
)

var globalManager = &Manager{
	providers: map[string]Provider{
		ProtocolNative: nativeProvider{},
		ProtocolHTTP:   httpProvider{},
	},
}

// Manager maps protocol names to the providers that open them.
type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

// Register installs or replaces the provider for a protocol.
func Register(protocol string, provider Provider) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.providers[protocol] = provider
}

// Protocols lists the registered protocol names.
func Protocols() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	names := make([]string, 0, len(globalManager.providers))
	for name := range globalManager.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(protocol string) (Provider, error) {
	globalManager.mu.RLock()
	provider, ok := globalManager.providers[protocol]
	globalManager.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: provider %s not registered", ErrInvalidConfig, protocol)
	}
	return provider, nil
}
