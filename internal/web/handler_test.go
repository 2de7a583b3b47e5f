package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ajanata/ledweb-hardware/internal/ledctl"
	"github.com/ajanata/ledweb-hardware/internal/logger"
)

func newHandler(cfg Config) (*Handler, *ledctl.Controller) {
	led := ledctl.New()
	if cfg.Page.Title == "" {
		cfg.Page = DefaultPage()
	}
	return NewHandler(led, cfg, logger.Nop()), led
}

func post(t *testing.T, h *Handler, body string) {
	t.Helper()
	resp, err := h.ServeRequest(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	if err != nil {
		t.Fatalf("POST %q err=%v", body, err)
	}
	if resp.Status != http.StatusOK || resp.ContentType != "text/html" {
		t.Fatalf("POST %q: status=%d content-type=%q", body, resp.Status, resp.ContentType)
	}
}

func TestPost_Tokens(t *testing.T) {
	cases := []struct {
		name    string
		initial bool
		body    string
		want    bool
	}{
		{"on", false, "LED ON=ON", true},
		{"off", true, "LED OFF=OFF", false},
		{"both, off wins", false, "LED ON=ON&LED OFF=OFF", false},
		{"neither keeps on", true, "nothing=here", true},
		{"neither keeps off", false, "", false},
		{"lowercase ignored", false, "led=on", false},
	}

	for _, c := range cases {
		h, led := newHandler(Config{})
		led.Set(c.initial)
		post(t, h, c.body)
		if led.Value() != c.want {
			t.Fatalf("%s: led=%v want %v", c.name, led.Value(), c.want)
		}
	}
}

func TestPost_InvalidUTF8(t *testing.T) {
	h, led := newHandler(Config{})

	_, err := h.ServeRequest(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("ON\xff\xfe")))
	if !errors.Is(err, ErrBodyEncoding) {
		t.Fatalf("expected ErrBodyEncoding, got %v", err)
	}
	if led.Value() {
		t.Fatalf("LED must not change on a rejected body")
	}
}

func TestPost_BodyLimit(t *testing.T) {
	h, led := newHandler(Config{})

	// exactly at the limit, multibyte rune in the last two bytes
	atLimit := strings.Repeat("x", maxBody-len("ON")-2) + "ON" + "\u00e9"
	if len(atLimit) != maxBody {
		t.Fatalf("test body is %d bytes", len(atLimit))
	}
	post(t, h, atLimit)
	if !led.Value() {
		t.Fatalf("expected LED on for a body at the limit")
	}

	oversized := []string{
		"LED ON=ON&pad=" + strings.Repeat("x", 5000) + "&LED OFF=OFF",
		strings.Repeat("x", maxBody) + "\u00e9",
	}
	for _, body := range oversized {
		resp, err := h.ServeRequest(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		if err != nil {
			t.Fatalf("oversized POST err=%v", err)
		}
		if resp.Status != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", resp.Status)
		}
		if !led.Value() {
			t.Fatalf("LED must not change on an oversized body")
		}
	}
}

func TestGet_IdempotentAndSideEffectFree(t *testing.T) {
	h, led := newHandler(Config{})
	led.Set(true)

	var first string
	for i := 0; i < 3; i++ {
		resp, err := h.ServeRequest(httptest.NewRequest(http.MethodGet, "/", nil))
		if err != nil {
			t.Fatalf("GET err=%v", err)
		}
		if resp.Status != http.StatusOK || resp.ContentType != "text/html" {
			t.Fatalf("GET status=%d content-type=%q", resp.Status, resp.ContentType)
		}
		if i == 0 {
			first = string(resp.Body)
		} else if string(resp.Body) != first {
			t.Fatalf("GET %d returned a different page", i)
		}
	}
	if !led.Value() {
		t.Fatalf("GET changed LED state")
	}
}

func TestPostAndGet_SamePage(t *testing.T) {
	h, _ := newHandler(Config{})

	g, _ := h.ServeRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	p, _ := h.ServeRequest(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("LED ON=ON")))
	if string(g.Body) != string(p.Body) {
		t.Fatalf("POST should redisplay the same page")
	}
}

func TestShowState(t *testing.T) {
	h, _ := newHandler(Config{ShowState: true})

	resp, err := h.ServeRequest(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("LED ON=ON")))
	if err != nil {
		t.Fatalf("POST err=%v", err)
	}
	if !strings.Contains(string(resp.Body), "LED is ON") {
		t.Fatalf("expected page to show LED ON")
	}
}

func TestRoutes_NotFoundAndMethod(t *testing.T) {
	h, _ := newHandler(Config{})

	resp, _ := h.ServeRequest(httptest.NewRequest(http.MethodGet, "/missing", nil))
	if resp.Status != http.StatusNotFound {
		t.Fatalf("expected 404 without static files, got %d", resp.Status)
	}

	resp, _ = h.ServeRequest(httptest.NewRequest(http.MethodDelete, "/", nil))
	if resp.Status != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Status)
	}
}

func TestStatic(t *testing.T) {
	files := FS(fstest.MapFS{
		"style.css":    {Data: []byte("body{}")},
		"img/logo.png": {Data: []byte{0x89, 'P', 'N', 'G'}},
		"notes/readme": {Data: []byte("x")},
	})
	h, _ := newHandler(Config{Static: files})

	resp, err := h.ServeRequest(httptest.NewRequest(http.MethodGet, "/style.css", nil))
	if err != nil {
		t.Fatalf("GET err=%v", err)
	}
	if resp.Status != http.StatusOK || string(resp.Body) != "body{}" || !strings.HasPrefix(resp.ContentType, "text/css") {
		t.Fatalf("unexpected response %d %q %q", resp.Status, resp.ContentType, resp.Body)
	}

	resp, _ = h.ServeRequest(httptest.NewRequest(http.MethodGet, "/img/logo.png", nil))
	if resp.ContentType != "image/png" {
		t.Fatalf("expected image/png, got %q", resp.ContentType)
	}

	resp, _ = h.ServeRequest(httptest.NewRequest(http.MethodGet, "/notes/readme", nil))
	if resp.ContentType != "application/octet-stream" {
		t.Fatalf("expected octet-stream, got %q", resp.ContentType)
	}

	for _, p := range []string{"/nope.js", "/img", "/../etc/passwd"} {
		resp, err = h.ServeRequest(httptest.NewRequest(http.MethodGet, p, nil))
		if err != nil {
			t.Fatalf("GET %s err=%v", p, err)
		}
		if resp.Status != http.StatusNotFound {
			t.Fatalf("GET %s: expected 404, got %d", p, resp.Status)
		}
	}

	resp, _ = h.ServeRequest(httptest.NewRequest(http.MethodPost, "/style.css", strings.NewReader("ON")))
	if resp.Status != http.StatusNotFound {
		t.Fatalf("POST to a static path should 404, got %d", resp.Status)
	}
}
