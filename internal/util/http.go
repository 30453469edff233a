package util

import (
	"io"
	"net/http"
	"strings"
)

// SetHTMLHeaders marks a response as an HTML fragment or page. maxAge is in
// seconds; "0" disables caching for per-session widgets.
func SetHTMLHeaders(w http.ResponseWriter, maxAge string) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	if maxAge == "" || maxAge == "0" {
		h.Set("Cache-Control", "no-store")
		return
	}
	h.Set("Cache-Control", "private, max-age="+maxAge)
}

func WriteHTML(w http.ResponseWriter, html string) error {
	_, err := io.WriteString(w, html)
	return err
}

// respond writes a plain-text error. Widgets swap the body into the target,
// so the message is kept to one line.
func respond(w http.ResponseWriter, code int, message string) {
	if message == "" {
		message = http.StatusText(code)
	}
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	http.Error(w, message, code)
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	respond(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	respond(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	respond(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	respond(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter, message string) {
	respond(w, http.StatusInternalServerError, message)
}

func RespondServiceUnavailable(w http.ResponseWriter, message string) {
	respond(w, http.StatusServiceUnavailable, message)
}
