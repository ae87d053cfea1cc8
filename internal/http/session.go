package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"immichart/internal/chart"
	"immichart/internal/core"
	"immichart/internal/render"
)

const sessionCookie = "chart_session"

// session is one page view: its own controller, so legend state and the
// tooltip never leak between tabs and reset on reload.
type session struct {
	id   string
	ctrl *chart.Controller
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// newSession draws a fresh chart with hover wiring on every marker.
func (s *Server) newSession() (*session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}
	opts := s.chartOpts
	opts.Bind = bindHover
	sess := &session{id: id, ctrl: chart.New(s.records, opts)}
	s.sessions.Set(id, sess)
	return sess, nil
}

// lookupSession returns the caller's live session, if any.
func (s *Server) lookupSession(r *http.Request) (*session, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil, false
	}
	return s.sessions.Get(c.Value)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.sessionTTL / time.Second),
	})
}

// bindHover makes a marker fetch the tooltip on enter and hide it on leave.
func bindHover(n *render.Node, d render.PointDatum) {
	n.Set("hx-get", tooltipURL(d.Key)).
		Set("hx-trigger", "mouseenter, mouseleave").
		Set("hx-target", "#tooltip").
		Set("hx-swap", "outerHTML").
		Set("hx-sync", "closest svg:replace").
		Set("hx-vals", "js:{x: event.pageX, y: event.pageY, ev: event.type}")
}

func tooltipURL(k render.PointKey) string {
	u := "/ui/tooltip?key=" + queryEscape(string(k.Category)) + "&month=" + queryEscape(k.Month)
	if k.Seq > 0 {
		u += fmt.Sprintf("&seq=%d", k.Seq)
	}
	return u
}

func categoryNames(cs []core.Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
