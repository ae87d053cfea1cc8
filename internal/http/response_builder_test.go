package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().Status(http.StatusAccepted).BodyString("ok").Write(w)

	if w.Code != http.StatusAccepted {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusAccepted)
	}
	if w.Body.String() != "ok" {
		t.Errorf("Body = %q", w.Body.String())
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Error("HX-Trigger should be absent without triggers")
	}
}

func TestHTMXResponseBuilder_ChartToggled(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().TriggerChartToggled("Refugee", false).BodyHTML(bytes.NewBufferString("<svg/>")).Write(w)

	var got map[string]map[string]any
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &got); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	ev, ok := got["chart:toggled"]
	if !ok {
		t.Fatalf("missing chart:toggled in %v", got)
	}
	if ev["key"] != "Refugee" || ev["visible"] != false {
		t.Errorf("payload = %v", ev)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestErrorResponseEscapes(t *testing.T) {
	w := httptest.NewRecorder()
	BadRequestError(`unknown key "<b>"`).Write(w)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
	if want := `<div class="error">unknown key &#34;&lt;b&gt;&#34;</div>`; w.Body.String() != want {
		t.Errorf("body = %q, want %q", w.Body.String(), want)
	}
}

func TestSessionGone(t *testing.T) {
	w := httptest.NewRecorder()
	SessionGone().Write(w)
	if w.Code != http.StatusGone {
		t.Errorf("status = %d, want 410", w.Code)
	}
	if w.Header().Get("HX-Refresh") != "true" {
		t.Error("missing HX-Refresh")
	}
}
