package main

import (
	"fmt"

	"github.com/fwojciec/locsearch/echo"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Config.Server.Addr
	}

	s := echo.NewServer()
	s.Pipeline = deps.Pipeline
	s.History = deps.History
	s.Metrics = deps.Metrics
	s.Logger = deps.Logger
	s.Limits = deps.Config.Limits.LimiterConfig()

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", addr)
	if err := s.ListenAndServe(deps.Ctx, addr); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

// Run executes the sources command.
func (c *SourcesCmd) Run(deps *Dependencies) error {
	descriptors := deps.Registry.Descriptors()
	if len(descriptors) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources configured.")
		return nil
	}
	for _, d := range descriptors {
		fmt.Fprintln(deps.Stdout, describe(d))
	}
	return nil
}
