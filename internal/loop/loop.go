// Package loop wires a game session to a terminal client for local play.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/retrodefender/internal/draw"
	"github.com/tomz197/retrodefender/internal/loop/client"
	"github.com/tomz197/retrodefender/internal/loop/config"
	"github.com/tomz197/retrodefender/internal/loop/server"
)

// Options configures Run.
type Options struct {
	Tuning       config.Tuning
	Logger       *log.Logger
	TermSizeFunc draw.TermSizeFunc
}

// Run plays a single-player game on r and w until the player quits, the
// input closes or ctx is cancelled. The session is stopped before Run returns.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	sess := server.NewSession(opts.Tuning, server.Options{Logger: opts.Logger})
	go sess.Run(ctx)
	defer sess.Stop()

	c := client.NewClient(sess, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
	})
	return c.Run()
}
