package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	writeJSON(w, errorResponse{Error: msg, Details: details}, status)
}

// writeInternal logs err and answers with a generic 500.
func writeInternal(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.Error(op,
		slog.Any("err", err),
		slog.String("path", r.URL.Path),
		slog.String("request_id", RequestIDFrom(r.Context())),
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// pathID reads an integer path variable. It writes a 400 for a value that
// is not an id and a 404 for zero, which no row can have, then returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	if id == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}

// Binder decodes request bodies: the raw document is checked against a named
// JSON schema, unmarshalled, then struct tags are checked by the validator.
type Binder struct {
	schemas  *SchemaSet
	validate *validator.Validate
}

func NewBinder() (*Binder, error) {
	schemas, err := LoadSchemas()
	if err != nil {
		return nil, err
	}
	return &Binder{schemas: schemas, validate: validator.New(validator.WithRequiredStructEnabled())}, nil
}

// Bind fills dst from the request body. On failure it has already written a
// 400 response and returns false.
func (b *Binder) Bind(w http.ResponseWriter, r *http.Request, schema string, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}

	if problems, err := b.schemas.Validate(r.Context(), schema, body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	} else if len(problems) > 0 {
		writeError(w, http.StatusBadRequest, "request does not match schema", problems...)
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return false
	}

	if err := b.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, fmt.Sprintf("%s: failed %s", jsonFieldName(fe.Namespace()), fe.Tag()))
			}
			writeError(w, http.StatusBadRequest, "validation failed", details...)
			return false
		}
		// non-struct payloads (a bare status string) carry no tags
		var invalid *validator.InvalidValidationError
		if !errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, "validation failed", err.Error())
			return false
		}
	}
	return true
}

// jsonFieldName turns "CreateUnitRequest.UnitNumber" into "unitNumber".
func jsonFieldName(ns string) string {
	if i := strings.LastIndex(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		return ns
	}
	return strings.ToLower(ns[:1]) + ns[1:]
}
