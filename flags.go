package main

import (
	"flag"
	glog "log"
)

var (
	centerX, centerY, zoom               float64
	height, maxIterations, width         int
	outFile, paletteName, format, remote string
	settingsFile                         string
	isServer, isRender                   bool
)

func parseArguments() {
	flag.StringVar(&settingsFile, "settings", "", "Json settings file, defaults apply without one")

	// Server values
	flag.BoolVar(&isServer, "serve", false, "Serve renders over http and rpc")

	// Render values
	flag.BoolVar(&isRender, "render", false, "Render one image to a file")
	flag.Float64Var(&centerX, "centerX", 0, "Real part of the image center")
	flag.Float64Var(&centerY, "centerY", 0, "Imaginary part of the image center")
	flag.IntVar(&height, "height", 600, "Height of resulting image")
	flag.IntVar(&maxIterations, "maxIterations", 0, "Iterations to run for each point, 0 uses the settings value")
	flag.StringVar(&outFile, "out", "mandelbrot.png", "File to write the image to")
	flag.StringVar(&paletteName, "palette", "", "Palette name, empty uses the settings value")
	flag.StringVar(&format, "format", "", "Image format (png, webp, tiff), empty guesses from -out")
	flag.StringVar(&remote, "remote", "", "Address of a running rpc server to render on instead of locally")
	flag.IntVar(&width, "width", 800, "Width of resulting image")
	flag.Float64Var(&zoom, "zoom", 1, "Zoom level")

	flag.Parse()

	if isServer == isRender {
		glog.Fatal("Please specify exactly one of -serve or -render")
	}
}
