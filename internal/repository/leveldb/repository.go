package leveldb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	goleveldb "github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"notes-vault/internal/converter"
	"notes-vault/internal/model"
	"notes-vault/internal/repository"
)

// префиксы областей базы
const (
	notePrefix    = 'N' // 'N' + be64(internal_key) -> CBOR запись заметки
	counterPrefix = 'C' // следующий невыданный internal_key
)

var counterKey = []byte{counterPrefix}

// первый выдаваемый ключ
const firstKey = 1

var _ repository.Store = (*store)(nil)

type store struct {
	// сериализует read-modify-write операции (Next, Remove)
	mu sync.Mutex
	db *goleveldb.DB
	wo *ldb_opt.WriteOptions
}

func noteKey(key uint64) []byte {
	k := make([]byte, 9)
	k[0] = notePrefix
	binary.BigEndian.PutUint64(k[1:], key)
	return k
}

func noteRange() *ldb_util.Range {
	return &ldb_util.Range{
		Start: []byte{notePrefix},     // начало диапазона, включительно
		Limit: []byte{notePrefix + 1}, // конец диапазона, не включительно
	}
}

func decode(key uint64, value []byte) (model.Note, error) {
	note, err := converter.DecodeRecord(key, value)
	if err != nil {
		return model.Note{}, fmt.Errorf("%w: %w", repository.ErrCorruptRecord, err)
	}
	return note, nil
}

// Get возвращает заметку по ключу
func (s *store) Get(ctx context.Context, key uint64) (model.Note, error) {
	value, err := s.db.Get(noteKey(key), nil)
	if errors.Is(err, goleveldb.ErrNotFound) {
		return model.Note{}, repository.ErrNoteNotFound
	} else if err != nil {
		return model.Note{}, fmt.Errorf("leveldb get %d: %w", key, err)
	}
	return decode(key, value)
}

// Insert сохраняет заметку (upsert)
func (s *store) Insert(ctx context.Context, note model.Note) error {
	value, err := converter.EncodeRecord(note)
	if err != nil {
		return err
	}
	if err := s.db.Put(noteKey(note.InternalKey), value, s.wo); err != nil {
		return fmt.Errorf("leveldb put %d: %w", note.InternalKey, err)
	}
	return nil
}

// Remove удаляет заметку и возвращает ее прежнее значение
func (s *store) Remove(ctx context.Context, key uint64) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, err := s.Get(ctx, key)
	if err != nil {
		return model.Note{}, err
	}
	if err := s.db.Delete(noteKey(key), s.wo); err != nil {
		return model.Note{}, fmt.Errorf("leveldb delete %d: %w", key, err)
	}
	return note, nil
}

// Iterate обходит заметки по возрастанию ключа.
// Ошибка декодирования прерывает обход и возвращается как ErrCorruptRecord.
func (s *store) Iterate(ctx context.Context, fn func(model.Note) bool) error {
	iter := s.db.NewIterator(noteRange(), nil)
	defer iter.Release()

	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		// содержимое Key/Value валидно только до следующего Next
		k := iter.Key()
		if len(k) != 9 {
			return fmt.Errorf("%w: key length %d", repository.ErrCorruptRecord, len(k))
		}
		note, err := decode(binary.BigEndian.Uint64(k[1:]), iter.Value())
		if err != nil {
			return err
		}
		if !fn(note) {
			break
		}
	}

	if err := iter.Error(); err != nil {
		return fmt.Errorf("leveldb iterate: %w", err)
	}
	return nil
}

// Len возвращает количество заметок
func (s *store) Len(ctx context.Context) (uint64, error) {
	iter := s.db.NewIterator(noteRange(), &ldb_opt.ReadOptions{DontFillCache: true})
	defer iter.Release()

	var n uint64
	for iter.Next() {
		n++
	}
	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("leveldb iterate: %w", err)
	}
	return n, nil
}

// Update применяет изменения из fn одним leveldb.Batch
func (s *store) Update(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx := &batchTx{batch: new(goleveldb.Batch)}
	if err := fn(tx); err != nil {
		return err
	}
	if tx.batch.Len() == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Write(tx.batch, s.wo); err != nil {
		return fmt.Errorf("leveldb write batch: %w", err)
	}
	return nil
}

// Next выдает следующий internal_key. Счетчик записывается до возврата значения,
// поэтому после перезапуска ключи не повторяются.
func (s *store) Next(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := uint64(firstKey)
	value, err := s.db.Get(counterKey, nil)
	switch {
	case errors.Is(err, goleveldb.ErrNotFound):
	case err != nil:
		return 0, fmt.Errorf("leveldb read counter: %w", err)
	case len(value) != 8:
		return 0, fmt.Errorf("%w: counter length %d", repository.ErrCorruptRecord, len(value))
	default:
		current = binary.BigEndian.Uint64(value)
	}

	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, current+1)
	if err := s.db.Put(counterKey, next, s.wo); err != nil {
		return 0, fmt.Errorf("leveldb write counter: %w", err)
	}

	return current, nil
}

// Close закрывает базу
func (s *store) Close() error {
	return s.db.Close()
}

type batchTx struct {
	batch *goleveldb.Batch
}

func (t *batchTx) Insert(note model.Note) error {
	value, err := converter.EncodeRecord(note)
	if err != nil {
		return err
	}
	t.batch.Put(noteKey(note.InternalKey), value)
	return nil
}

func (t *batchTx) Remove(key uint64) {
	t.batch.Delete(noteKey(key))
}
