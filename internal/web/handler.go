// Package web holds the control page and its routes.
package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/ajanata/ledweb-hardware/internal/httpd"
	"github.com/ajanata/ledweb-hardware/internal/ledctl"
	"github.com/ajanata/ledweb-hardware/internal/logger"
)

// ErrBodyEncoding is returned when a POST body is not valid UTF-8.
var ErrBodyEncoding = errors.New("request body is not valid UTF-8")

const (
	contentTypeHTML = "text/html"
	maxBody         = 4096
)

type Config struct {
	Page PageParams

	// ShowState renders the current LED value into the page.
	ShowState bool

	// Static serves GET requests for paths other than "/". Nil disables it.
	Static Files
}

type Handler struct {
	led *ledctl.Controller
	cfg Config
	log logger.Logger
}

func NewHandler(led *ledctl.Controller, cfg Config, log logger.Logger) *Handler {
	return &Handler{led: led, cfg: cfg, log: log}
}

// ServeRequest routes one request.
func (h *Handler) ServeRequest(req *http.Request) (httpd.Response, error) {
	if req.URL.Path != "/" {
		if req.Method == http.MethodGet && h.cfg.Static != nil {
			return serveStatic(h.cfg.Static, req.URL.Path)
		}
		return notFound(), nil
	}

	switch req.Method {
	case http.MethodGet:
		return h.page()
	case http.MethodPost:
		return h.buttonPress(req)
	}
	return httpd.Response{
		Status:      http.StatusMethodNotAllowed,
		ContentType: "text/plain",
		Body:        []byte("405 Method Not Allowed"),
	}, nil
}

func (h *Handler) buttonPress(req *http.Request) (httpd.Response, error) {
	raw, err := io.ReadAll(io.LimitReader(req.Body, maxBody+1))
	if err != nil {
		return httpd.Response{}, fmt.Errorf("read body: %w", err)
	}
	// the tokens are only looked for in a complete body
	if len(raw) > maxBody {
		h.log.Warn("button press body too large", "limit", maxBody)
		return httpd.Response{
			Status:      http.StatusRequestEntityTooLarge,
			ContentType: "text/plain",
			Body:        []byte("413 Request Entity Too Large"),
		}, nil
	}
	if !utf8.Valid(raw) {
		return httpd.Response{}, ErrBodyEncoding
	}
	text := string(raw)
	h.log.Debug("button press", "body", text)

	// both checks run; a body with both tokens ends up OFF
	if strings.Contains(text, "ON") {
		h.led.Set(true)
	}
	if strings.Contains(text, "OFF") {
		h.led.Set(false)
	}

	return h.page()
}

func (h *Handler) page() (httpd.Response, error) {
	p := h.cfg.Page
	if h.cfg.ShowState {
		v := h.led.Value()
		p.LED = &v
	}
	html, err := Render(p)
	if err != nil {
		return httpd.Response{}, fmt.Errorf("render page: %w", err)
	}
	return httpd.Response{
		Status:      http.StatusOK,
		ContentType: contentTypeHTML,
		Body:        []byte(html),
	}, nil
}

func notFound() httpd.Response {
	return httpd.Response{
		Status:      http.StatusNotFound,
		ContentType: "text/plain",
		Body:        []byte("404 Not Found"),
	}
}
