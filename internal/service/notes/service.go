package notes

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"notes-vault/internal/converter"
	"notes-vault/internal/model"
	"notes-vault/internal/repository"
	svc "notes-vault/internal/service"
)

var _ svc.NoteService = (*service)(nil)

type service struct {
	// Один глобальный мьютекс вокруг хранилища и аллокатора: все операции
	// выполняются строго по одной
	mu sync.Mutex

	noteRepository repository.NoteRepository
	allocator      repository.Allocator
	index          *displayIndex
	events         *EventService
	log            zerolog.Logger
}

// Option настраивает сервис
type Option func(*service)

// WithEvents публикует события изменений в es
func WithEvents(es *EventService) Option {
	return func(s *service) {
		s.events = es
	}
}

// WithLogger задает логгер сервиса
func WithLogger(log zerolog.Logger) Option {
	return func(s *service) {
		s.log = log
	}
}

// NewNoteService создает сервис заметок поверх хранилища и аллокатора.
// Индекс (owner, display_id) строится по хранилищу; нарушенная нумерация
// или нечитаемая запись - ошибка запуска.
func NewNoteService(ctx context.Context, noteRepository repository.NoteRepository, allocator repository.Allocator, opts ...Option) (svc.NoteService, error) {
	s := &service{
		noteRepository: noteRepository,
		allocator:      allocator,
		log:            zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.events == nil {
		s.events = NewEventService()
	}

	index, err := buildIndex(ctx, noteRepository)
	if err != nil {
		return nil, err
	}
	s.index = index

	s.log.Info().Int("owners", len(index.keys)).Msg("note index built")

	return s, nil
}

// Create создает новую заметку owner
func (s *service) Create(ctx context.Context, owner model.Identity, title, content string) (model.Note, error) {
	if owner.IsAnonymous() {
		return model.Note{}, model.ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note := model.Note{
		DisplayID: s.index.count(owner) + 1,
		Title:     title,
		Content:   content,
		Owner:     owner,
	}

	// Размер проверяем до обращения к аллокатору: при ошибке ничего не меняется
	if _, err := converter.EncodeRecord(note); err != nil {
		return model.Note{}, err
	}

	key, err := s.allocator.Next(ctx)
	if err != nil {
		return model.Note{}, fmt.Errorf("allocate note key: %w", err)
	}
	note.InternalKey = key

	if err := s.noteRepository.Insert(ctx, note); err != nil {
		return model.Note{}, err
	}
	s.index.add(owner, key)

	s.log.Debug().
		Str("owner", owner.String()).
		Uint64("display_id", note.DisplayID).
		Uint64("key", key).
		Msg("note created")

	s.events.Publish(model.NoteEvent{
		Kind:      model.EventCreated,
		Owner:     owner,
		DisplayID: note.DisplayID,
		Title:     note.Title,
	})

	return note, nil
}

// List возвращает заметки owner по возрастанию display_id
func (s *service) List(ctx context.Context, owner model.Identity) ([]model.Note, error) {
	if owner.IsAnonymous() {
		return []model.Note{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.index.ownerKeys(owner)
	notes := make([]model.Note, 0, len(keys))
	for _, key := range keys {
		note, err := s.noteRepository.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("list notes: %w", err)
		}
		notes = append(notes, note)
	}

	return notes, nil
}

// Edit заменяет title и content заметки, ключ в хранилище не меняется
func (s *service) Edit(ctx context.Context, owner model.Identity, displayID uint64, title, content string) (model.Note, error) {
	if owner.IsAnonymous() {
		return model.Note{}, model.ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note, err := s.find(ctx, owner, displayID)
	if err != nil {
		return model.Note{}, err
	}

	note.Title = title
	note.Content = content

	if err := s.noteRepository.Insert(ctx, note); err != nil {
		return model.Note{}, err
	}

	s.events.Publish(model.NoteEvent{
		Kind:      model.EventUpdated,
		Owner:     owner,
		DisplayID: note.DisplayID,
		Title:     note.Title,
	})

	return note, nil
}

// Delete удаляет заметку и сжимает нумерацию владельца.
// Все заметки owner удаляются и записываются заново с номерами 1..k-1
// одним атомарным Update; ключи и чужие заметки не меняются.
func (s *service) Delete(ctx context.Context, owner model.Identity, displayID uint64) error {
	if owner.IsAnonymous() {
		return model.ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, err := s.find(ctx, owner, displayID)
	if err != nil {
		return err
	}

	// Все заметки владельца по возрастанию display_id
	keys := s.index.ownerKeys(owner)
	ownerNotes := make([]model.Note, 0, len(keys))
	for _, key := range keys {
		note, err := s.noteRepository.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("collect owner notes: %w", err)
		}
		ownerNotes = append(ownerNotes, note)
	}

	var renumbered []model.NoteEvent
	err = s.noteRepository.Update(ctx, func(tx repository.Tx) error {
		for _, note := range ownerNotes {
			tx.Remove(note.InternalKey)
		}

		rank := uint64(0)
		for _, note := range ownerNotes {
			if note.InternalKey == deleted.InternalKey {
				continue
			}
			rank++
			if note.DisplayID != rank {
				renumbered = append(renumbered, model.NoteEvent{
					Kind:      model.EventRenumbered,
					Owner:     owner,
					DisplayID: rank,
					PrevID:    note.DisplayID,
					Title:     note.Title,
				})
			}
			note.DisplayID = rank
			if err := tx.Insert(note); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("compact owner notes: %w", err)
	}
	s.index.remove(owner, displayID)

	s.log.Debug().
		Str("owner", owner.String()).
		Uint64("display_id", displayID).
		Int("renumbered", len(renumbered)).
		Msg("note deleted")

	s.events.Publish(model.NoteEvent{
		Kind:      model.EventDeleted,
		Owner:     owner,
		DisplayID: displayID,
		Title:     deleted.Title,
	})
	for _, event := range renumbered {
		s.events.Publish(event)
	}

	return nil
}

// Watch подписывает на события owner
func (s *service) Watch(owner model.Identity) (<-chan model.NoteEvent, func(), error) {
	if owner.IsAnonymous() {
		return nil, nil, model.ErrUnauthenticated
	}

	ch := s.events.Subscribe(owner)
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.events.Unsubscribe(owner, ch)
		})
	}

	return ch, cancel, nil
}

// find ищет заметку owner по display_id. Поиск ограничен заметками owner,
// поэтому чужая заметка с тем же номером никогда не находится.
func (s *service) find(ctx context.Context, owner model.Identity, displayID uint64) (model.Note, error) {
	key, ok := s.index.lookup(owner, displayID)
	if !ok {
		return model.Note{}, fmt.Errorf("%w: display id %d", model.ErrNotFound, displayID)
	}

	note, err := s.noteRepository.Get(ctx, key)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return model.Note{}, fmt.Errorf("%w: display id %d", model.ErrNotFound, displayID)
	} else if err != nil {
		return model.Note{}, err
	}

	// Индекс разошелся с хранилищем: запись под этим ключом принадлежит другому
	if !note.BelongsTo(owner) {
		return model.Note{}, model.ErrForbidden
	}
	if note.DisplayID != displayID {
		return model.Note{}, fmt.Errorf("%w: key %d holds display id %d, expected %d", ErrInconsistentIndex, key, note.DisplayID, displayID)
	}

	return note, nil
}
