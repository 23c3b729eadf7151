package api

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// respond writes an encoded JSON body with the given status code.
func respond(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		zctx.From(r.Context()).Debug("response write failed", zap.Error(err))
	}
}

// respondError writes the {code, message} error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	respond(w, r, status, e.Bytes())
}

// respondNotFoundRedirect is the receipt-lookup miss: alongside the error
// envelope it carries a redirect hint so the screen can send the diner back
// to the start of the flow instead of showing a broken page.
func respondNotFoundRedirect(w http.ResponseWriter, r *http.Request, message, redirect string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(http.StatusNotFound)
	e.FieldStart("message")
	e.Str(message)
	e.FieldStart("redirect")
	e.Str(redirect)
	e.ObjEnd()
	respond(w, r, http.StatusNotFound, e.Bytes())
}

// respondInternal logs the error and answers with an opaque 500.
func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	respondError(w, r, http.StatusInternalServerError, "internal error")
}
