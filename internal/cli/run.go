package cli

import (
	"io"
	"os"
	"time"
)

// ChatOptions contains all the configuration for the chat command.
type ChatOptions struct {
	ConfigPath string
	Mode       string
	Debug      bool
	Quiet      bool // no banner, no logs

	// Flag overrides; zero values leave the config file in charge.
	Host         string
	Port         int
	Timeout      time.Duration
	Retries      int
	HistoryLimit int

	MetricsAddr string
	WatchConfig bool
	SaveDir     string
	// File is attached as editor context from the start (see /file).
	File string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o *ChatOptions) setDefaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.SaveDir == "" {
		o.SaveDir = "."
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
}
