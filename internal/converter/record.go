package converter

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"notes-vault/internal/model"
)

// MaxRecordSize максимальный размер сериализованной заметки в байтах
const MaxRecordSize = 2048

// noteRecord формат записи заметки в хранилище.
// InternalKey не сериализуется: это ключ самой записи.
type noteRecord struct {
	DisplayID uint64 `cbor:"1,keyasint"`
	Title     string `cbor:"2,keyasint"`
	Content   string `cbor:"3,keyasint"`
	Owner     string `cbor:"4,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("failed to initialize cbor encoder: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		MaxNestedLevels:   4,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("failed to initialize cbor decoder: " + err.Error())
	}
}

// EncodeRecord сериализует заметку для хранения.
// Возвращает model.ErrPayloadTooLarge, если запись больше MaxRecordSize.
func EncodeRecord(note model.Note) ([]byte, error) {
	data, err := encMode.Marshal(noteRecord{
		DisplayID: note.DisplayID,
		Title:     note.Title,
		Content:   note.Content,
		Owner:     string(note.Owner),
	})
	if err != nil {
		return nil, fmt.Errorf("encode note record: %w", err)
	}
	if len(data) > MaxRecordSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", model.ErrPayloadTooLarge, len(data), MaxRecordSize)
	}
	return data, nil
}

// DecodeRecord восстанавливает заметку из записи хранилища
func DecodeRecord(key uint64, data []byte) (model.Note, error) {
	var rec noteRecord
	if err := decMode.Unmarshal(data, &rec); err != nil {
		return model.Note{}, fmt.Errorf("decode note record %d: %w", key, err)
	}
	return model.Note{
		InternalKey: key,
		DisplayID:   rec.DisplayID,
		Title:       rec.Title,
		Content:     rec.Content,
		Owner:       model.Identity(rec.Owner),
	}, nil
}
