package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"xorkevin.dev/kerrors"
	"xorkevin.dev/klayout"
)

type (
	// CLI is the klayout command line
	CLI struct {
		Config     string `help:"YAML logger config file" short:"c" type:"existingfile"`
		NoFileLine bool   `help:"Treat file and line capture as unsupported" name:"no-file-line"`

		Check  checkCmd  `cmd:"" help:"Print the caller capture level required by the configured handler"`
		Render renderCmd `cmd:"" help:"Log one event with the configured layout"`
	}

	checkCmd struct{}

	renderCmd struct {
		Message string `help:"Message to log" default:"hello"`
		Level   string `help:"Level to log at" default:"INFO" enum:"DEBUG,INFO,WARN,ERROR"`
	}
)

func (c *CLI) capabilities() klayout.Capabilities {
	caps := klayout.DefaultCapabilities()
	if c.NoFileLine {
		caps.FileLineCapture = false
	}
	return caps
}

func (c *CLI) loadConfig() (*klayout.Config, error) {
	if c.Config == "" {
		return klayout.DefaultConfig(), nil
	}
	f, err := os.Open(c.Config)
	if err != nil {
		return nil, kerrors.WithMsg(err, "Failed to open config")
	}
	defer f.Close()
	return klayout.LoadConfig(f)
}

func (cmd *checkCmd) Run(c *CLI, stdout io.Writer) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	h, err := cfg.BuildHandler(io.Discard, c.capabilities())
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, h.CaptureLevel())
	return nil
}

func (cmd *renderCmd) Run(c *CLI, stdout io.Writer) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	l, err := cfg.Build(stdout, c.capabilities())
	if err != nil {
		return err
	}
	l.Log(context.Background(), klayout.LevelFromString(cmd.Level), 0, cmd.Message)
	return nil
}

func main() {
	var cli CLI
	ktx := kong.Parse(&cli,
		kong.Name("klayout"),
		kong.Description("Render log lines with klayout layouts"),
		kong.UsageOnError(),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	if err := ktx.Run(&cli); err != nil {
		l := klayout.NewLevelLogger(klayout.New(
			klayout.OptHandler(klayout.NewTextHandler(os.Stderr, klayout.DefaultLayout())),
			klayout.OptPath("klayout"),
		))
		l.Err(context.Background(), err)
		os.Exit(1)
	}
}
