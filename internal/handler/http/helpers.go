package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/handler/http/response"
)

// maxFormMemory covers a 10MB photo plus the JSON data field.
const maxFormMemory = 11 << 20

// principal returns the authenticated caller or writes 401.
func principal(w http.ResponseWriter, r *http.Request) (middleware.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
	}
	return p, ok
}

// decodeJSON reads the request body into dst or writes 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// decodeAttendanceForm accepts either a JSON body or a multipart form with
// a JSON "data" field and an optional "photo" file. The returned cleanup
// closes the uploaded file.
func decodeAttendanceForm(w http.ResponseWriter, r *http.Request, dst interface{}) (*attendance.Photo, func(), bool) {
	noop := func() {}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, noop, decodeJSON(w, r, dst)
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return nil, noop, false
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return nil, noop, false
	}
	if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return nil, noop, false
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, noop, true
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return nil, noop, false
	}

	photo := &attendance.Photo{File: file, Filename: header.Filename, Size: header.Size}
	return photo, func() { file.Close() }, true
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}
