// Package main is the entry point for the famigen API server
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/james-see/famigen/pkg/api"
	"github.com/spf13/pflag"
)

func main() {
	port := pflag.IntP("port", "p", 8080, "Server port")
	verbose := pflag.BoolP("verbose", "v", false, "verbose output")
	pflag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("starting famigen API server", "port", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	if err := api.StartServer(*port); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
