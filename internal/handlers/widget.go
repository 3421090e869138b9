package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"tokini/internal/tokini"
	"tokini/views/components"
	"tokini/views/pages"
)

const (
	visitorCookieName = "tokini_visitor"
	prefersColorHint  = "Sec-CH-Prefers-Color-Scheme"
)

type WidgetHandler struct {
	store *tokini.Store
}

func NewWidgetHandler(store *tokini.Store) *WidgetHandler {
	return &WidgetHandler{store: store}
}

// RegisterRoutes mounts the page, the actions and the fragment endpoints.
func (h *WidgetHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.page)
	r.Post("/options", h.addOption)
	r.Post("/options/input", h.inputChanged)
	r.Post("/options/{index}/delete", h.removeOption)
	r.Post("/roll", h.roll)
	r.Post("/result/clear", h.clearResult)
	r.Post("/keys", h.key)
	r.Post("/theme/toggle", h.toggleTheme)
	r.Post("/update-available", h.updateAvailable)
	r.Post("/update/dismiss", h.dismissUpdate)
	r.Get("/fragments/{name}", h.fragment)
}

// RegisterStream mounts the SSE endpoint. It is kept apart from the other
// routes so it can be served without a request timeout.
func (h *WidgetHandler) RegisterStream(r chi.Router) {
	r.Get("/stream", h.stream)
}

func (h *WidgetHandler) page(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	w.Header().Set("Accept-CH", prefersColorHint)
	w.Header().Set("Vary", prefersColorHint)
	render(w, r, pages.WidgetPage(buildPage(session.Snapshot())))
}

func (h *WidgetHandler) addOption(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	session := h.session(w, r)
	_ = session.AddOption(r.FormValue("option"))
	respond(w, r)
}

func (h *WidgetHandler) inputChanged(w http.ResponseWriter, r *http.Request) {
	h.session(w, r).InputChanged()
	respond(w, r)
}

func (h *WidgetHandler) removeOption(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid option index", http.StatusBadRequest)
		return
	}
	_ = h.session(w, r).RemoveOption(index)
	respond(w, r)
}

func (h *WidgetHandler) roll(w http.ResponseWriter, r *http.Request) {
	_ = h.session(w, r).Roll()
	respond(w, r)
}

func (h *WidgetHandler) clearResult(w http.ResponseWriter, r *http.Request) {
	h.session(w, r).ClearResult()
	respond(w, r)
}

func (h *WidgetHandler) key(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	k := tokini.Key{
		Name: r.FormValue("key"),
		Ctrl: parseBool(r.FormValue("ctrl")),
		Meta: parseBool(r.FormValue("meta")),
	}
	if !h.session(w, r).HandleKey(k) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respond(w, r)
}

func (h *WidgetHandler) toggleTheme(w http.ResponseWriter, r *http.Request) {
	h.session(w, r).ToggleTheme(r.Context())
	respond(w, r)
}

func (h *WidgetHandler) updateAvailable(w http.ResponseWriter, r *http.Request) {
	h.session(w, r).UpdateAvailable()
	respond(w, r)
}

func (h *WidgetHandler) dismissUpdate(w http.ResponseWriter, r *http.Request) {
	h.session(w, r).DismissUpdate()
	respond(w, r)
}

func (h *WidgetHandler) fragment(w http.ResponseWriter, r *http.Request) {
	snapshot := h.session(w, r).Snapshot()
	component, ok := fragmentFor(chi.URLParam(r, "name"), snapshot)
	if !ok {
		http.NotFound(w, r)
		return
	}
	render(w, r, component)
}

func (h *WidgetHandler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	id := h.visitorID(w, r)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	session, sub := h.store.Subscribe(r.Context(), id, prefersDark(r))
	defer h.store.Unsubscribe(session, sub)

	send := func(events ...string) {
		snapshot := session.Snapshot()
		for _, event := range events {
			if event == tokini.EventTheme {
				writeSSE(w, event, string(snapshot.Theme))
				continue
			}
			if component, ok := fragmentFor(event, snapshot); ok {
				writeSSE(w, event, renderToString(r, component))
			}
		}
		flusher.Flush()
	}

	send(tokini.EventDice, tokini.EventResult, tokini.EventOptions, tokini.EventNotices, tokini.EventTheme)

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, open := <-sub.Ready():
			if !open {
				return
			}
			send(sub.Take()...)
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

// session resolves the visitor's session.
func (h *WidgetHandler) session(w http.ResponseWriter, r *http.Request) *tokini.Session {
	return h.store.Open(r.Context(), h.visitorID(w, r), prefersDark(r))
}

// visitorID reads the visitor cookie, issuing a new one on first visit.
func (h *WidgetHandler) visitorID(w http.ResponseWriter, r *http.Request) string {
	id := visitorIDFromCookie(r)
	if id == "" {
		id = uuid.NewString()
		setVisitorCookie(w, id)
		log.WithField("session", id).Debug("Issued visitor cookie")
	}
	return id
}

func fragmentFor(name string, snapshot tokini.Snapshot) (templ.Component, bool) {
	switch name {
	case tokini.EventDice:
		return components.DiceFragment(buildDice(snapshot)), true
	case tokini.EventResult:
		return components.ResultFragment(buildResult(snapshot)), true
	case tokini.EventOptions:
		return components.OptionsFragment(buildOptions(snapshot)), true
	case tokini.EventNotices:
		return components.NoticesFragment(buildNotices(snapshot)), true
	default:
		return nil, false
	}
}

// respond finishes an action: fetch-driven requests get 204 and learn about
// changes over the stream, plain form posts are redirected back to the page.
func respond(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Hx-Request") == "true" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func prefersDark(r *http.Request) bool {
	return strings.EqualFold(strings.Trim(r.Header.Get(prefersColorHint), `" `), "dark")
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(value)
	return err == nil && b
}

func visitorIDFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(visitorCookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

func setVisitorCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})
}
