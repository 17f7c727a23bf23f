// Package app provides the jacbot server application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jac-chandigarh/jacbot/cmd/jacbot/app/options"
	"github.com/jac-chandigarh/jacbot/pkg/app"
)

const (
	// Name is the name of the application.
	Name = "jacbot"

	// commandDesc is the description of the command.
	commandDesc = `JAC Chandigarh Admission Chatbot

A retrieval-augmented chatbot answering questions about Joint Admission
Committee (JAC) Chandigarh engineering admissions.

This server provides:
  - PDF ingestion with table extraction and an OCR fallback
  - Semantic search over the admission documents
  - Session-scoped conversational question answering`
)

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := options.NewServerOptions()
	application := app.NewApp(
		app.WithName(Name),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
	)

	return application
}

// run contains the main logic for initializing and running the server.
func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := setupSignalContext()

		server, err := cfg.NewServer(ctx)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		return server.Run(ctx)
	}
}

// setupSignalContext returns a context that is cancelled on SIGINT or SIGTERM.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
