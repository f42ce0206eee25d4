package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/storekit/ecom-backend/internal/domain/store"
)

// writeJSON encodes a response body with encode and writes it with the given
// status code.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeMessage writes a {"message": ...} acknowledgment body.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("message")
		e.Str(msg)
		e.ObjEnd()
	})
}

// writeError writes a {"code", "message"} error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(msg)
		e.ObjEnd()
	})
}

// writeStoreError logs the underlying store failure and responds with an
// opaque message: 503 for connectivity failures, 500 otherwise. Raw driver
// errors never reach the client.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("store error", zap.Error(err))

	if store.IsUnavailable(err) {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// intQuery parses a non-negative integer query parameter, falling back to
// def when the parameter is absent or malformed.
func intQuery(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

// limitQuery parses the limit parameter. An explicit zero falls back to def
// like a malformed value: a zero page size would always return an empty
// listing.
func limitQuery(r *http.Request, def int) int {
	if v := intQuery(r, "limit", def); v > 0 {
		return v
	}
	return def
}
