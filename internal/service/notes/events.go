package notes

import (
	"sync"

	"notes-vault/internal/model"
)

// subscriberBuffer размер буфера канала подписчика
const subscriberBuffer = 16

// EventService управляет подписчиками на события заметок; события владельца
// получают только его подписчики
type EventService struct {
	subscribers map[model.Identity]map[chan model.NoteEvent]struct{}
	closed      bool
	mu          sync.RWMutex
}

// NewEventService создает новый экземпляр EventService
func NewEventService() *EventService {
	return &EventService{
		subscribers: make(map[model.Identity]map[chan model.NoteEvent]struct{}),
	}
}

// Subscribe добавляет подписчика owner и возвращает канал для получения событий.
// После Close возвращает уже закрытый канал.
func (s *EventService) Subscribe(owner model.Identity) chan model.NoteEvent {
	ch := make(chan model.NoteEvent, subscriberBuffer) // Буферизованный канал для защиты от backpressure
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	if s.subscribers[owner] == nil {
		s.subscribers[owner] = make(map[chan model.NoteEvent]struct{})
	}
	s.subscribers[owner][ch] = struct{}{}
	return ch
}

// Unsubscribe удаляет подписчика и закрывает его канал
func (s *EventService) Unsubscribe(owner model.Identity, ch chan model.NoteEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.subscribers[owner]
	if _, ok := subs[ch]; ok {
		close(ch)
		delete(subs, ch)
		if len(subs) == 0 {
			delete(s.subscribers, owner)
		}
	}
}

// Publish отправляет событие подписчикам владельца.
// Если канал подписчика переполнен, событие пропускается (защита от backpressure)
func (s *EventService) Publish(event model.NoteEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subscribers[event.Owner] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribers возвращает число подписчиков владельца
func (s *EventService) Subscribers(owner model.Identity) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers[owner])
}

// Close закрывает все каналы подписчиков (при остановке сервера)
func (s *EventService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for owner, subs := range s.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(s.subscribers, owner)
	}
}
