package swagger

import (
	_ "embed"
	"net/http"

	"github.com/rs/zerolog"
)

// SpecPath путь, по которому отдается OpenAPI описание HTTP API
const SpecPath = "/swagger.json"

//go:embed embed/notes.swagger.json
var notesSpec []byte

// ServeSwagger регистрирует в mux отдачу OpenAPI описания NotesService.
// Документ встраивается в бинарник и не зависит от рабочей директории.
func ServeSwagger(mux *http.ServeMux, log zerolog.Logger) {
	mux.HandleFunc(SpecPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		case http.MethodGet, http.MethodHead:
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write(notesSpec)
		default:
			w.Header().Set("Allow", "GET, HEAD, OPTIONS")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	log.Info().Str("path", SpecPath).Msg("OpenAPI spec enabled")
}
