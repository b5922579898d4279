package store

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/sisvam-web/internal/domain/entity"
	"github.com/jhoicas/sisvam-web/internal/domain/repository"
)

var (
	_ repository.SessionRepository   = (*MemorySessionRepo)(nil)
	_ repository.FormTokenRepository = (*MemoryFormTokenRepo)(nil)
)

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// memoryKV mapa con TTL protegido por mutex. Las entradas vencidas se
// descartan al leerlas y en el barrido periódico de set.
type memoryKV struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
	writes  int
}

func newMemoryKV() *memoryKV {
	return &memoryKV{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *memoryKV) get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

func (m *memoryKV) set(key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(key, value, ttl)
}

func (m *memoryKV) setNX(key string, value []byte, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok && (e.expires.IsZero() || !m.now().After(e.expires)) {
		return false
	}
	m.setLocked(key, value, ttl)
	return true
}

func (m *memoryKV) setLocked(key string, value []byte, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = m.now().Add(ttl)
	}
	m.entries[key] = memoryEntry{value: value, expires: exp}
	m.writes++
	if m.writes%256 == 0 {
		now := m.now()
		for k, e := range m.entries {
			if !e.expires.IsZero() && now.After(e.expires) {
				delete(m.entries, k)
			}
		}
	}
}

func (m *memoryKV) del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// MemorySessionRepo almacén de sesiones en memoria (una sola instancia del panel).
type MemorySessionRepo struct {
	kv *memoryKV
}

// NewMemorySessionRepository construye el almacén en memoria.
func NewMemorySessionRepository() *MemorySessionRepo {
	return &MemorySessionRepo{kv: newMemoryKV()}
}

// Get obtiene la sesión; (nil, nil) si no existe o venció.
func (r *MemorySessionRepo) Get(_ context.Context, sid string) (*entity.Session, error) {
	raw, ok := r.kv.get(sid)
	if !ok {
		return nil, nil
	}
	return decodeSession(raw)
}

// Save guarda el registro completo de una vez.
func (r *MemorySessionRepo) Save(_ context.Context, sid string, session *entity.Session, ttl time.Duration) error {
	raw, err := encodeSession(session)
	if err != nil {
		return err
	}
	r.kv.set(sid, raw, ttl)
	return nil
}

// Delete elimina la sesión.
func (r *MemorySessionRepo) Delete(_ context.Context, sid string) error {
	r.kv.del(sid)
	return nil
}

// MemoryFormTokenRepo tokens de formulario en memoria.
type MemoryFormTokenRepo struct {
	kv *memoryKV
}

// NewMemoryFormTokenRepository construye el registro de tokens en memoria.
func NewMemoryFormTokenRepository() *MemoryFormTokenRepo {
	return &MemoryFormTokenRepo{kv: newMemoryKV()}
}

// Claim marca el token como usado; false si ya lo estaba.
func (r *MemoryFormTokenRepo) Claim(_ context.Context, token string, ttl time.Duration) (bool, error) {
	return r.kv.setNX(token, []byte{1}, ttl), nil
}
