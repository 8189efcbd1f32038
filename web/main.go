package main

import (
	"flag"
	"os"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/df07/go-layered-materials/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logger := core.NewDefaultLogger("web", *debug)

	webServer := server.NewServer(*port)
	webServer.SetLogger(logger)

	logger.Infof("Layered Materials Web Server")
	logger.Infof("Visit http://localhost:%d to preview materials", *port)

	if err := webServer.Start(); err != nil {
		logger.Errorf("Error starting server: %v", err)
		os.Exit(1)
	}
}
