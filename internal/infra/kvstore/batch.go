package kvstore

import "sync"

// Batch acumula escritas de uma transação até o commit.
// Backends sem transação nativa (memória, redis) leem primeiro do lote.
type Batch struct {
	mu     sync.Mutex
	writes map[string][]byte
	order  []string
}

func NewBatch() *Batch {
	return &Batch{writes: make(map[string][]byte)}
}

// Lookup informa se a chave foi tocada no lote. value nil significa deletada.
func (b *Batch) Lookup(key string) (value []byte, touched bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.writes[key]
	return v, ok
}

func (b *Batch) Set(key string, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)
	b.put(key, v)
}

func (b *Batch) Delete(key string) {
	b.put(key, nil)
}

func (b *Batch) put(key string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.writes[key]; !ok {
		b.order = append(b.order, key)
	}
	b.writes[key] = value
}

// Each percorre as escritas na ordem em que foram feitas.
func (b *Batch) Each(fn func(key string, value []byte)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range b.order {
		fn(k, b.writes[k])
	}
}

func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.order)
}
