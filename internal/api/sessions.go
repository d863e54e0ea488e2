package api

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"vokzal/internal/view"

	"github.com/oklog/ulid/v2"
)

// Инструмент однопользовательский; лимит отсекает клиента, который
// не присылает X-Session-Id и плодит сессию на каждый запрос.
const maxSessions = 64

// SessionRegistry раздаёт сессии просмотра по идентификатору клиента.
// Инструмент однопользовательский, но каждый открытый фронтенд получает
// свою сессию, чтобы состояния таблицы/сортировки не перетирались.
// При переполнении вытесняется самая старая сессия.
type SessionRegistry struct {
	mu       sync.Mutex
	src      view.RowSource
	sessions map[string]*view.Session
	order    []string // идентификаторы в порядке создания
	entropy  io.Reader
}

func NewSessionRegistry(src view.RowSource) *SessionRegistry {
	seed := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &SessionRegistry{
		src:      src,
		sessions: make(map[string]*view.Session),
		entropy:  ulid.Monotonic(seed, 0),
	}
}

// Get возвращает сессию по id; пустой или незнакомый id заводит новую.
// Второе значение — действующий id (клиент хранит его в заголовке).
func (r *SessionRegistry) Get(id string) (*view.Session, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if s, ok := r.sessions[id]; ok {
			return s, id
		}
	}
	id = ulid.MustNew(ulid.Timestamp(time.Now()), r.entropy).String()
	s := view.NewSession(r.src)
	if len(r.sessions) >= maxSessions {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.sessions, oldest)
	}
	r.sessions[id] = s
	r.order = append(r.order, id)
	return s, id
}
