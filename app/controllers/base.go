package controllers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"inkpress/app/repositories"
	"inkpress/app/services"
)

const flashCookie = "flash"

// Flash is a one-shot message shown on the next page view.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// View is the data every page template receives.
type View struct {
	Site  services.SiteInfo
	Flash *Flash
	Data  interface{}
}

// base holds what every controller needs to answer a request.
type base struct {
	views    Renderer
	site     services.SiteInfo
	errorLog *log.Logger
}

// wantsJSON reports whether the client asked for JSON instead of a page.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// render writes page with status, or its data as JSON when the client asked
// for JSON.
func (b *base) render(w http.ResponseWriter, r *http.Request, page string, status int, data interface{}, flash *Flash) {
	if wantsJSON(r) {
		b.sendJSON(w, status, data)
		return
	}

	var buf bytes.Buffer
	view := View{Site: b.site, Flash: flash, Data: data}
	if err := b.views.Render(&buf, page, view); err != nil {
		b.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (b *base) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.errorLog.Printf("failed to encode response: %v", err)
	}
}

// sendError answers with message in the format the client asked for.
func (b *base) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if wantsJSON(r) || strings.HasPrefix(r.URL.Path, "/ajax/") {
		b.sendJSON(w, status, map[string]string{"error": message})
		return
	}

	var buf bytes.Buffer
	view := View{Site: b.site, Data: errorPage{Status: status, Message: message}}
	if err := b.views.Render(&buf, PageError, view); err != nil {
		b.errorLog.Printf("failed to render error page: %v", err)
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

type errorPage struct {
	Status  int
	Message string
}

func (b *base) notFound(w http.ResponseWriter, r *http.Request) {
	b.sendError(w, r, "Page not found", http.StatusNotFound)
}

// serverError logs err and answers 500 without exposing it.
func (b *base) serverError(w http.ResponseWriter, r *http.Request, err error) {
	b.errorLog.Output(2, r.Method+" "+r.URL.RequestURI()+": "+err.Error())
	b.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
}

// fail maps a service error onto a response.
func (b *base) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		b.notFound(w, r)
		return
	}
	b.serverError(w, r, err)
}

// setFlash stores a message for the next page view.
func setFlash(w http.ResponseWriter, level, message string) {
	data, _ := json.Marshal(Flash{Level: level, Message: message})
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending message, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})

	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(data, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}
