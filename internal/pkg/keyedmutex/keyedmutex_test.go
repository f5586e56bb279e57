package keyedmutex_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jcastano/Bodega-api/internal/pkg/keyedmutex"
)

// Dos goroutines sobre la misma clave se serializan: el contador nunca ve
// una carrera.
func TestKeyedMutex_SerializaMismaClave(t *testing.T) {
	m := keyedmutex.New()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock("orden-1")
			defer m.Unlock("orden-1")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

// Claves distintas no se bloquean entre sí: con "a" tomado, "b" avanza.
func TestKeyedMutex_ClavesDistintasAvanzanEnParalelo(t *testing.T) {
	m := keyedmutex.New()
	m.Lock("a")
	defer m.Unlock("a")

	done := make(chan struct{})
	go func() {
		m.Lock("b")
		m.Unlock("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("la clave b quedó bloqueada por la clave a")
	}
}

func TestKeyedMutex_UnlockSinLockPanic(t *testing.T) {
	m := keyedmutex.New()
	assert.Panics(t, func() { m.Unlock("nunca-bloqueada") })
}
