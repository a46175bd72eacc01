package network

import (
	"io"
	"sync"
)

// Registry хранит открытые соединения, чтобы закрыть их при остановке сервера.
// http.Server.Shutdown не трогает соединения после Upgrade.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]io.Closer
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]io.Closer),
	}
}

// Register добавляет соединение. Старое соединение с тем же ID закрывается.
func (r *Registry) Register(id string, conn io.Closer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.conns[id]; ok && old != conn {
		old.Close()
	}
	r.conns[id] = conn
}

// Unregister удаляет соединение, не закрывая его
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

// Count возвращает количество активных соединений
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// CloseAll закрывает и забывает все соединения. Возвращает сколько закрыто.
func (r *Registry) CloseAll() int {
	r.mu.Lock()
	conns := r.conns
	r.conns = make(map[string]io.Closer)
	r.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
	return len(conns)
}
