package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"os"
	"strings"

	"MandelbrotRenderer/imaging"
	"MandelbrotRenderer/mandelbrot"
	"MandelbrotRenderer/misc"
	"MandelbrotRenderer/palette"

	"github.com/BrugadaSyndrome/bslogger"
)

const (
	defaultAddress             = ":8080"
	defaultRPCPort             = "51000"
	defaultRenderTimeout       = 30
	defaultLegacyMaxIterations = 5000
)

type Settings struct {
	logger bslogger.Logger

	Address             string
	CompressionLevel    string
	DisableRPC          bool
	Format              imaging.Format
	LegacyMaxIterations int
	LogFile             string
	LUTCacheCapacity    *int
	Mandelbrot          mandelbrot.Settings
	MaxPixels           int
	Palette             string
	Palettes            []palette.GradientSettings
	RenderTimeout       int
	RPCAddress          string
}

// NewSettings reads settingsFile if one is given, then fills in defaults.
func NewSettings(settingsFile string) (Settings, error) {
	s := Settings{
		logger: bslogger.NewLogger("ServerSettings", bslogger.Normal, nil),
	}
	if settingsFile != "" {
		fileBytes, err := misc.ReadFile(settingsFile)
		if err != nil {
			return s, err
		}
		if err = json.Unmarshal(fileBytes, &s); err != nil {
			return s, fmt.Errorf("parsing %s - %w", settingsFile, err)
		}
	}
	if err := s.Verify(); err != nil {
		return s, err
	}
	s.logger.Debug(s.String())
	return s, nil
}

func (s *Settings) String() string {
	output := "\nServer settings\n"
	output += fmt.Sprintf("Address: %s\n", s.Address)
	output += fmt.Sprintf("Compression Level: %s\n", s.CompressionLevel)
	output += fmt.Sprintf("Disable RPC: %t\n", s.DisableRPC)
	output += fmt.Sprintf("Format: %s\n", s.Format)
	output += fmt.Sprintf("Legacy Max Iterations: %d\n", s.LegacyMaxIterations)
	output += fmt.Sprintf("Log File: %s\n", s.LogFile)
	output += fmt.Sprintf("LUT Cache Capacity: %d\n", s.CacheCapacity())
	output += fmt.Sprintf("Max Pixels: %d\n", s.MaxPixels)
	output += fmt.Sprintf("Palette: %s\n", s.Palette)
	output += fmt.Sprintf("Palettes: %d\n", len(s.Palettes))
	output += fmt.Sprintf("Render Timeout: %ds\n", s.RenderTimeout)
	output += fmt.Sprintf("RPC Address: %s", s.RPCAddress)
	output += s.Mandelbrot.String()
	return output
}

func (s *Settings) Verify() error {
	if err := s.Mandelbrot.Verify(); err != nil {
		return err
	}
	if s.Address == "" {
		s.Address = defaultAddress
	}
	if _, err := s.PNGCompression(); err != nil {
		return err
	}
	// s.DisableRPC defaults to false already
	// s.Format defaults to png already
	if s.LegacyMaxIterations <= 0 {
		s.LegacyMaxIterations = defaultLegacyMaxIterations
	}
	if s.LUTCacheCapacity == nil {
		capacity := palette.DefaultCacheCapacity
		s.LUTCacheCapacity = &capacity
	} else if *s.LUTCacheCapacity < 0 {
		return errors.New("LUTCacheCapacity must be >= 0, 0 keeps every LUT")
	}
	if s.MaxPixels == 0 {
		s.MaxPixels = mandelbrot.DefaultMaxPixels
	} else if s.MaxPixels < 0 {
		return errors.New("MaxPixels must be > 0")
	}
	if s.Palette == "" {
		s.Palette = palette.Base{}.Identity()
	}
	if s.RenderTimeout <= 0 {
		s.RenderTimeout = defaultRenderTimeout
	}
	if s.RPCAddress == "" && !s.DisableRPC {
		localAddress, err := misc.GetLocalAddress()
		if err != nil {
			logger := bslogger.NewLogger("ServerSettings", bslogger.Normal, nil)
			logger.Warningf("Falling back to localhost for the rpc server: %s", err)
			localAddress = "localhost"
		}
		s.RPCAddress = fmt.Sprintf("%s:%s", localAddress, defaultRPCPort)
	}
	return nil
}

// CacheCapacity is the verified LUT cache capacity.
func (s *Settings) CacheCapacity() int {
	if s.LUTCacheCapacity == nil {
		return palette.DefaultCacheCapacity
	}
	return *s.LUTCacheCapacity
}

// PNGCompression maps CompressionLevel onto the png package levels.
func (s *Settings) PNGCompression() (png.CompressionLevel, error) {
	switch strings.ToLower(s.CompressionLevel) {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	}
	return 0, fmt.Errorf("unknown CompressionLevel %q, use default, none, speed or best", s.CompressionLevel)
}

// Registry builds the palette registry with the configured gradients and checks that the
// default palette exists.
func (s *Settings) Registry() (*palette.Registry, error) {
	registry := palette.NewRegistry()
	for _, gradientSettings := range s.Palettes {
		gradient, err := palette.NewGradient(gradientSettings)
		if err != nil {
			return nil, err
		}
		if err = registry.Register(gradient); err != nil {
			return nil, err
		}
	}
	if _, found := registry.Get(s.Palette); !found {
		return nil, fmt.Errorf("default palette %q is not one of %v", s.Palette, registry.Names())
	}
	return registry, nil
}

// OpenLogFile opens LogFile for appending, or returns nil when no log file is configured.
func (s *Settings) OpenLogFile() (*os.File, error) {
	if s.LogFile == "" {
		return nil, nil
	}
	return os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
