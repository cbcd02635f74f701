// Package server exposes the render service over HTTP and, unless disabled, net/rpc.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"MandelbrotRenderer/imaging"
	"MandelbrotRenderer/mandelbrot"
	"MandelbrotRenderer/palette"
	"MandelbrotRenderer/render"
	"MandelbrotRenderer/rpc"

	"github.com/BrugadaSyndrome/bslogger"
)

type Server struct {
	address   string
	listener  net.Listener
	mux       *http.ServeMux
	server    *http.Server
	rpcServer *rpc.TcpServer
	remote    *render.Remote

	service  *render.Service
	palettes *palette.Registry
	luts     *palette.LUTCache
	settings Settings

	Logger bslogger.Logger
	WG     *sync.WaitGroup
}

// NewServer wires the renderer, LUT cache and encoder described by settings. logFile may be nil.
func NewServer(settings Settings, logFile *os.File) (*Server, error) {
	palettes, err := settings.Registry()
	if err != nil {
		return nil, err
	}
	compression, err := settings.PNGCompression()
	if err != nil {
		return nil, err
	}

	options := imaging.DefaultOptions()
	options.PNGCompression = compression
	luts := palette.NewLUTCache(settings.CacheCapacity())
	service := render.NewService(
		mandelbrot.NewRenderer(settings.Mandelbrot),
		imaging.NewEncoder(settings.Format, options),
		luts,
		settings.MaxPixels,
	)

	s := &Server{
		address:  settings.Address,
		mux:      http.NewServeMux(),
		service:  service,
		palettes: palettes,
		luts:     luts,
		settings: settings,
		Logger:   bslogger.NewLogger("HttpServer", bslogger.Normal, logFile),
		WG:       &sync.WaitGroup{},
	}
	s.routes()

	s.remote = render.NewRemote(service, palettes, settings.Mandelbrot.MaxIterations, s.renderTimeout())
	if !settings.DisableRPC {
		s.rpcServer = rpc.NewTcpServer(s.remote, settings.RPCAddress, "Renderer")
	}
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("/render.png", s.handleRenderPNG)
	s.mux.HandleFunc("/render", s.handleRender)
	s.mux.HandleFunc("/mandelbrot", s.handleLegacy)
	s.mux.HandleFunc("/healthz", s.handleHealth)
}

// Handler is the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Run() error {
	var err error
	s.listener, err = net.Listen("tcp", s.address)
	if err != nil {
		s.Logger.Errorf("Listening at address %s", s.address)
		return err
	}

	if s.rpcServer != nil {
		if err = s.rpcServer.Run(); err != nil {
			s.listener.Close()
			return err
		}
	}

	s.server = &http.Server{
		Addr:              s.address,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.WG.Add(1)
	go func() {
		defer s.WG.Done()
		if err := s.server.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Errorf("Error serving at address %s - %s", s.address, err)
		}
	}()

	s.Logger.Infof("Running server at address %s", s.Addr())
	return nil
}

// Remote is the net/rpc facade, usable in-process even when the rpc server is disabled.
func (s *Server) Remote() *render.Remote {
	return s.remote
}

// Addr is the bound HTTP address, or the configured one before Run.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.address
}

// RPCAddr is the bound net/rpc address, empty when the rpc server is disabled.
func (s *Server) RPCAddr() string {
	if s.rpcServer == nil {
		return ""
	}
	return s.rpcServer.Addr()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return fmt.Errorf("server at address %s is not running", s.address)
	}
	if err := s.server.Shutdown(ctx); err != nil {
		s.Logger.Errorf("Shutting down server at address %s", s.Addr())
		return err
	}
	if s.rpcServer != nil {
		if err := s.rpcServer.Stop(); err != nil {
			return err
		}
	}
	s.WG.Wait()
	s.Logger.Infof("Shut down server at address %s", s.Addr())
	return nil
}

func (s *Server) renderTimeout() time.Duration {
	return time.Duration(s.settings.RenderTimeout) * time.Second
}
