package notesv1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName имя content-subtype, под которым сообщения NotesService ходят по gRPC
// (application/grpc+json)
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec кодирует сообщения NotesService в JSON
type Codec struct{}

// Marshal кодирует сообщение в JSON
func (Codec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("notesv1: marshal %T: %w", v, err)
	}
	return data, nil
}

// Unmarshal декодирует JSON в сообщение
func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("notesv1: unmarshal %T: %w", v, err)
	}
	return nil
}

// Name возвращает имя кодека
func (Codec) Name() string {
	return CodecName
}
