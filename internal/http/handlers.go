package http

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"immichart/internal/chart"
	"immichart/internal/core"
	"immichart/internal/events"
	"immichart/internal/export"
	applog "immichart/internal/log"
	"immichart/internal/render"
)

// pageView is the data behind index.html and the chart/legend partials.
type pageView struct {
	Year    string
	SVG     template.HTML
	Legend  []chart.LegendItem
	Tooltip chart.Tooltip
	Ready   bool
	OOB     bool
}

func (s *Server) view(sess *session) pageView {
	if sess == nil {
		// Failed load: an empty surface and no legend entries.
		blank := render.New(s.chartOpts.Layout, s.chartOpts.Palette, nil)
		return pageView{Year: s.chartOpts.YearLabel, SVG: template.HTML(blank.SVG())}
	}
	return pageView{
		Year:    s.chartOpts.YearLabel,
		SVG:     template.HTML(sess.ctrl.SVG()),
		Legend:  sess.ctrl.Legend(),
		Tooltip: sess.ctrl.Tooltip(),
		Ready:   true,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentChart)

	var sess *session
	if s.loadErr == nil {
		var err error
		sess, err = s.newSession()
		if err != nil {
			logger.ErrorContext(ctx, "Session creation failed", applog.FieldError, err)
			InternalServerError("Could not start a chart view").Write(w)
			return
		}
		s.setSessionCookie(w, r, sess.id)
	}

	var buf bytes.Buffer
	if err := s.render(&buf, "index.html", s.view(sess)); err != nil {
		logger.ErrorContext(ctx, "Index render failed", applog.FieldError, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())

	if sess != nil {
		s.publish(ctx, events.NewViewed(sess.id, categoryNames(core.Categories)))
	}
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := s.lookupSession(r)
	if !ok {
		SessionGone().Write(w)
		return
	}

	key, err := parseToggle(w, r)
	if err != nil {
		BadRequestError("Unknown legend entry").Write(w)
		return
	}

	visible, err := sess.ctrl.Toggle(key)
	if err != nil {
		BadRequestError("Unknown legend entry").Write(w)
		return
	}
	active := categoryNames(sess.ctrl.ActiveCategories())
	s.events.LogToggle(ctx, sess.id, string(key), visible, active)

	v := s.view(sess)
	var buf bytes.Buffer
	err = s.render(&buf, "chart", v)
	if err == nil {
		v.OOB = true
		err = s.render(&buf, "legend", v)
	}
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Toggle render failed", applog.FieldError, err)
		InternalServerError("Could not redraw the chart").Write(w)
		return
	}

	NewHTMXResponse().TriggerChartToggled(string(key), visible).BodyHTML(&buf).Write(w)
	s.publish(ctx, events.NewToggled(sess.id, string(key), visible, active))
}

func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := s.lookupSession(r)
	if !ok {
		SessionGone().Write(w)
		return
	}

	req, err := parseHover(r.URL.Query())
	if err != nil {
		BadRequestError("Invalid hover target").Write(w)
		return
	}

	var tip chart.Tooltip
	if req.Leave {
		tip = sess.ctrl.HoverLeave()
	} else {
		tip, err = sess.ctrl.HoverEnter(req.Key, req.X, req.Y)
		if errors.Is(err, chart.ErrUnknownPoint) {
			// Stale marker (e.g. its series was just hidden): hide instead.
			applog.FromContext(ctx).DebugContext(ctx, "Hover on unknown point",
				applog.FieldCategory, req.Key.Category, applog.FieldMonth, req.Key.Month)
			tip = sess.ctrl.HoverLeave()
		}
	}

	var buf bytes.Buffer
	if err := s.render(&buf, "tooltip", tip); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Tooltip render failed", applog.FieldError, err)
		InternalServerError("Tooltip unavailable").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(&buf).Write(w)
}

func (s *Server) handleExportPNG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := s.lookupSession(r)
	if !ok {
		http.Error(w, "chart session expired, reload the page", http.StatusGone)
		return
	}

	snap := sess.ctrl.Snapshot()
	var buf bytes.Buffer
	if err := export.PNG(&buf, snap); err != nil {
		applog.FromContext(ctx).WithComponent(applog.ComponentExport).ErrorContext(ctx, "PNG export failed", applog.FieldError, err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="immigration-`+snap.Year+`.png"`)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.loadErr != nil {
		http.Error(w, "not ready: dataset failed to load", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("ready"))
}
