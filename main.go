package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"MandelbrotRenderer/imaging"
	"MandelbrotRenderer/misc"
	"MandelbrotRenderer/render"
	"MandelbrotRenderer/rpc"
	"MandelbrotRenderer/server"

	"github.com/BrugadaSyndrome/bslogger"
)

func main() {
	parseArguments()

	logger := bslogger.NewLogger("Main", bslogger.Normal, nil)
	settings, err := server.NewSettings(settingsFile)
	misc.CheckError(err, logger, misc.Fatal)

	if isServer {
		startServer(settings, logger)
	}

	if isRender {
		renderToFile(settings, logger)
	}
}

func startServer(settings server.Settings, logger bslogger.Logger) {
	logFile, err := settings.OpenLogFile()
	misc.CheckError(err, logger, misc.Fatal)
	if logFile != nil {
		defer logFile.Close()
	}

	s, err := server.NewServer(settings, logFile)
	misc.CheckError(err, logger, misc.Fatal)
	misc.CheckError(s.Run(), logger, misc.Fatal)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	misc.CheckError(s.Stop(shutdownCtx), logger, misc.Error)
}

func renderToFile(settings server.Settings, logger bslogger.Logger) {
	if format == "" {
		format = filepath.Ext(outFile)
	}
	request := render.Request{
		Width:         width,
		Height:        height,
		CenterReal:    centerX,
		CenterImag:    centerY,
		Zoom:          zoom,
		MaxIterations: maxIterations,
		Palette:       paletteName,
		Format:        format,
	}
	if request.Palette == "" {
		request.Palette = settings.Palette
	}
	if _, err := imaging.ParseFormat(request.Format); err != nil {
		logger.Warningf("Unknown image format %q, writing png", request.Format)
		request.Format = imaging.PNG.String()
	}

	var reply render.Reply
	startTime := time.Now()
	if remote != "" {
		client := rpc.NewTcpClient(remote, "RenderClient")
		misc.CheckError(client.Connect(), logger, misc.Fatal)
		misc.CheckError(client.Call("Renderer.Render", request, &reply), logger, misc.Fatal)
		misc.CheckError(client.Disconnect(), logger, misc.Warning)
	} else {
		settings.DisableRPC = true
		s, err := server.NewServer(settings, nil)
		misc.CheckError(err, logger, misc.Fatal)
		misc.CheckError(s.Remote().Render(request, &reply), logger, misc.Fatal)
	}
	logger.Infof("Rendered %s in %s", request.String(), time.Since(startTime))

	bytesWritten, err := misc.WriteFile(outFile, reply.Image)
	misc.CheckError(err, logger, misc.Fatal)
	logger.Infof("Wrote %d bytes to %s", bytesWritten, outFile)
}
