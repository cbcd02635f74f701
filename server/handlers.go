package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"MandelbrotRenderer/imaging"
	"MandelbrotRenderer/legacy"
	"MandelbrotRenderer/mandelbrot"
	"MandelbrotRenderer/palette"
)

// queryError is a malformed query parameter.
type queryError struct {
	name  string
	value string
}

func (e *queryError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.name, e.value)
}

func intParam(query url.Values, name string, fallback int) (int, error) {
	raw := query.Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &queryError{name: name, value: raw}
	}
	return value, nil
}

func floatParam(query url.Values, name string, fallback float64) (float64, error) {
	raw := query.Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &queryError{name: name, value: raw}
	}
	return value, nil
}

// viewportFromQuery reads width, height, center_re, center_im and zoom.
func viewportFromQuery(query url.Values) (mandelbrot.Viewport, error) {
	width, err := intParam(query, "width", mandelbrot.DefaultWidth)
	if err != nil {
		return mandelbrot.Viewport{}, err
	}
	height, err := intParam(query, "height", mandelbrot.DefaultHeight)
	if err != nil {
		return mandelbrot.Viewport{}, err
	}
	centerReal, err := floatParam(query, "center_re", 0)
	if err != nil {
		return mandelbrot.Viewport{}, err
	}
	centerImag, err := floatParam(query, "center_im", 0)
	if err != nil {
		return mandelbrot.Viewport{}, err
	}
	zoom, err := floatParam(query, "zoom", mandelbrot.DefaultZoom)
	if err != nil {
		return mandelbrot.Viewport{}, err
	}
	return mandelbrot.NewViewport(width, height, centerReal, centerImag, zoom)
}

func (s *Server) paletteFromQuery(query url.Values) (palette.Palette, error) {
	name := query.Get("palette")
	if name == "" {
		name = s.settings.Palette
	}
	p, found := s.palettes.Get(name)
	if !found {
		return nil, &queryError{name: "palette", value: name}
	}
	return p, nil
}

// statusFor maps render errors onto HTTP status codes.
func statusFor(err error) int {
	var validationErr *mandelbrot.ValidationError
	var queryErr *queryError
	switch {
	case errors.As(err, &validationErr), errors.As(err, &queryErr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Errorf("%s %s - %s", r.Method, r.URL, err)
	} else {
		s.Logger.Warningf("%s %s - %s", r.Method, r.URL, err)
	}
	http.Error(w, err.Error(), status)
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}

// handleRenderPNG serves /render.png. The iteration budget comes from the settings only.
func (s *Server) handleRenderPNG(w http.ResponseWriter, r *http.Request) {
	s.serveImage(w, r, imaging.PNG)
}

// handleRender serves /render in the configured format, or the one named by ?format=.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := s.service.Format()
	if name := r.URL.Query().Get("format"); name != "" {
		parsed, err := imaging.ParseFormat(name)
		if err != nil {
			s.Logger.Warningf("%s %s - %s", r.Method, r.URL, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = parsed
	}
	s.serveImage(w, r, format)
}

func (s *Server) serveImage(w http.ResponseWriter, r *http.Request, format imaging.Format) {
	if !allowGet(w, r) {
		return
	}
	startTime := time.Now()
	query := r.URL.Query()

	viewport, err := viewportFromQuery(query)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.paletteFromQuery(query)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.renderTimeout())
	defer cancel()
	image, err := s.service.RenderFormat(ctx, viewport, p, s.settings.Mandelbrot.MaxIterations, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(image)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(image)
	}
	s.Logger.Infof("Rendered %s with palette %s as %s in %s [%d LUTs cached]",
		viewport.String(), p.Identity(), format, time.Since(startTime), s.luts.Len())
}

// handleLegacy serves the demo JSON route, which colours without a LUT and lets the
// caller pick max_iter.
func (s *Server) handleLegacy(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	query := r.URL.Query()

	viewport, err := viewportFromQuery(query)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err = mandelbrot.ValidatePixels(viewport.Width(), viewport.Height(), s.settings.MaxPixels); err != nil {
		s.fail(w, r, err)
		return
	}
	maxIter, err := intParam(query, "max_iter", legacy.DefaultMaxIterations)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if maxIter < 1 || maxIter > s.settings.LegacyMaxIterations {
		s.fail(w, r, &mandelbrot.ValidationError{
			Field:  "max_iter",
			Reason: fmt.Sprintf("must be between 1 and %d, got %d", s.settings.LegacyMaxIterations, maxIter),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(legacy.Render(viewport, maxIter)); err != nil {
		s.Logger.Errorf("Writing legacy response - %s", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}
