// Package keyedmutex serializa operaciones por clave lógica: cada orden (por
// id) y cada par (producto, ubicación) del libro de stock muta bajo su propio
// mutex, de modo que escaneos contra la misma orden se encolan y escaneos
// contra órdenes distintas avanzan en paralelo.
package keyedmutex

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex mantiene un mutex por clave activa. Las claves sin usuarios se
// liberan para que el mapa no crezca con el histórico de órdenes.
type KeyedMutex struct {
	mu   sync.Mutex
	keys map[string]*entry
}

// New construye un KeyedMutex vacío.
func New() *KeyedMutex {
	return &KeyedMutex{keys: make(map[string]*entry)}
}

// Lock adquiere el mutex de la clave, creándolo si no existe.
func (m *KeyedMutex) Lock(key string) {
	m.mu.Lock()
	e, ok := m.keys[key]
	if !ok {
		e = &entry{}
		m.keys[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()
}

// Unlock libera el mutex de la clave y la descarta si nadie más la espera.
func (m *KeyedMutex) Unlock(key string) {
	m.mu.Lock()
	e, ok := m.keys[key]
	if !ok {
		m.mu.Unlock()
		panic("keyedmutex: unlock de clave no bloqueada: " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(m.keys, key)
	}
	m.mu.Unlock()

	e.mu.Unlock()
}
