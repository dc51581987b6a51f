package notes

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"notes-vault/internal/model"
	"notes-vault/internal/repository"
)

// ErrInconsistentIndex сохраненные заметки нарушают нумерацию 1..N у владельца
var ErrInconsistentIndex = errors.New("inconsistent display ids")

// displayIndex производный индекс (owner, display_id) -> internal_key.
// keys[owner][i] - ключ заметки с display_id = i+1.
type displayIndex struct {
	keys map[model.Identity][]uint64
}

// buildIndex строит индекс одним проходом по хранилищу и проверяет,
// что у каждого владельца номера образуют 1..N без пропусков и повторов
func buildIndex(ctx context.Context, repo repository.NoteRepository) (*displayIndex, error) {
	type entry struct {
		displayID uint64
		key       uint64
	}
	byOwner := make(map[model.Identity][]entry)

	err := repo.Iterate(ctx, func(note model.Note) bool {
		byOwner[note.Owner] = append(byOwner[note.Owner], entry{displayID: note.DisplayID, key: note.InternalKey})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("build display index: %w", err)
	}

	idx := &displayIndex{keys: make(map[model.Identity][]uint64, len(byOwner))}
	for owner, entries := range byOwner {
		slices.SortFunc(entries, func(a, b entry) int {
			switch {
			case a.displayID < b.displayID:
				return -1
			case a.displayID > b.displayID:
				return 1
			}
			return 0
		})

		keys := make([]uint64, len(entries))
		for i, e := range entries {
			if e.displayID != uint64(i+1) {
				return nil, fmt.Errorf("%w: owner %q has display id %d at position %d", ErrInconsistentIndex, owner, e.displayID, i+1)
			}
			keys[i] = e.key
		}
		idx.keys[owner] = keys
	}

	return idx, nil
}

// count число заметок владельца (и максимальный display_id)
func (idx *displayIndex) count(owner model.Identity) uint64 {
	return uint64(len(idx.keys[owner]))
}

// lookup ищет ключ по (owner, display_id)
func (idx *displayIndex) lookup(owner model.Identity, displayID uint64) (uint64, bool) {
	keys := idx.keys[owner]
	if displayID == 0 || displayID > uint64(len(keys)) {
		return 0, false
	}
	return keys[displayID-1], true
}

// ownerKeys копия ключей владельца по возрастанию display_id
func (idx *displayIndex) ownerKeys(owner model.Identity) []uint64 {
	return slices.Clone(idx.keys[owner])
}

// add добавляет ключ в конец диапазона владельца
func (idx *displayIndex) add(owner model.Identity, key uint64) {
	idx.keys[owner] = append(idx.keys[owner], key)
}

// remove убирает display_id; номера следующих заметок сдвигаются на 1
func (idx *displayIndex) remove(owner model.Identity, displayID uint64) {
	keys := slices.Delete(idx.keys[owner], int(displayID-1), int(displayID))
	if len(keys) == 0 {
		delete(idx.keys, owner)
		return
	}
	idx.keys[owner] = keys
}
