// Package replay feeds a recorded script of canvas input events, one JSON
// event per line, to a controller or session.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/matsen/blueprint/internal/interact"
	"github.com/matsen/blueprint/internal/storage"
)

// Handler consumes input events. Both *interact.Controller and
// *session.Session satisfy it.
type Handler interface {
	Handle(ev interact.Event) error
}

// Stats summarizes a replay run.
type Stats struct {
	Events  int `json:"events"`
	Skipped int `json:"skipped"`
}

// Player replays event scripts.
type Player struct {
	handler Handler
	limiter *rate.Limiter
	log     zerolog.Logger
	strict  bool
}

// Option configures a Player.
type Option func(*Player)

// WithRate paces playback to perSecond events per second. Zero or less
// plays as fast as possible.
func WithRate(perSecond float64) Option {
	return func(p *Player) {
		if perSecond > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			p.limiter = nil
		}
	}
}

// WithLogger sets the logger for skipped events.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Player) {
		p.log = log
	}
}

// Strict makes an invalid event abort the run instead of being skipped.
func Strict() Option {
	return func(p *Player) {
		p.strict = true
	}
}

// NewPlayer returns a player that delivers events to h.
func NewPlayer(h Handler, opts ...Option) *Player {
	p := &Player{handler: h, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play reads events from r until EOF, the context is done, or the handler
// fails. Events the handler rejects as invalid are logged and counted as
// skipped unless the player is strict.
func (p *Player) Play(ctx context.Context, r io.Reader) (Stats, error) {
	var st Stats
	err := storage.DecodeJSONL(r, func(lineNum int, ev interact.Event) error {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := p.handler.Handle(ev); err != nil {
			if errors.Is(err, interact.ErrInvalidEvent) && !p.strict {
				p.log.Warn().Err(err).Int("line", lineNum).Msg("skipping event")
				st.Skipped++
				return nil
			}
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		st.Events++
		return nil
	})
	return st, err
}

// PlayFile plays the script at path.
func (p *Player) PlayFile(ctx context.Context, path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()
	return p.Play(ctx, f)
}

// Record writes events as a script that Play can read back.
func Record(w io.Writer, events []interact.Event) error {
	return storage.WriteJSONL(w, events)
}
