package server

import (
	"context"
	"image/color"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/trominoes/pkg/errors"
	"github.com/matzehuels/trominoes/pkg/palette"
	"github.com/matzehuels/trominoes/pkg/tiling"
)

// Stream event types, in the order a client sees them: one grid, then
// fills interleaved with presents, then done or error.
const (
	EventGrid    = "grid"
	EventFill    = "fill"
	EventPresent = "present"
	EventDone    = "done"
	EventError   = "error"
)

// Event is one websocket message. Fields are set according to Type.
type Event struct {
	Type string `json:"type"`

	// grid
	Size      int          `json:"size,omitempty"`
	Seed      uint64       `json:"seed,omitempty"`
	Forbidden *tiling.Cell `json:"forbidden,omitempty"`

	// fill
	Row   *int   `json:"row,omitempty"`
	Col   *int   `json:"col,omitempty"`
	Color string `json:"color,omitempty"`

	// done
	Trominoes int `json:"trominoes,omitempty"`
	MaxDepth  int `json:"max_depth,omitempty"`

	// error
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// eventRenderer turns drawing calls into events on a channel. The channel
// is sized for the whole run so the tiler never waits on the socket.
type eventRenderer struct {
	events chan<- Event
}

func (e eventRenderer) DrawGrid(size int) {}

func (e eventRenderer) FillCell(row, col int, c color.RGBA) {
	e.events <- Event{Type: EventFill, Row: &row, Col: &col, Color: palette.Hex(c)}
}

func (e eventRenderer) Present() { e.events <- Event{Type: EventPresent} }

// streamCapacity bounds the events of one run: every cell may be filled
// and presented, plus the terminal event.
func streamCapacity(size int) int {
	return 2*size*size + 1
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	params, err := s.decodeParams(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := params.Options()
	opts.Formats = nil
	opts.PresentEachFill = true
	opts.Logger = s.logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Drain control frames; a read error means the client went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	forbidden := opts.Forbidden()
	if err := conn.WriteJSON(Event{Type: EventGrid, Size: opts.Size, Seed: opts.Seed, Forbidden: &forbidden}); err != nil {
		return
	}

	events := make(chan Event, streamCapacity(opts.Size))
	var g errgroup.Group
	g.Go(func() error {
		defer close(events)
		res, err := s.runner.Tile(ctx, opts, eventRenderer{events: events})
		if err != nil {
			events <- errorEvent(err)
			return err
		}
		events <- Event{Type: EventDone, Trominoes: len(res.Trominoes), MaxDepth: res.MaxDepth}
		return nil
	})

	if err := s.pump(ctx, conn, events, params.Delay(s.cfg.StreamDelay)); err != nil {
		s.logger.Debug("stream ended early", "err", err)
	}
	if err := g.Wait(); err != nil {
		s.logger.Debug("stream tiling failed", "err", err)
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// pump writes events until the channel closes, pausing delay after every
// fill. The channel is always drained so the producer can finish.
func (s *Server) pump(ctx context.Context, conn *websocket.Conn, events <-chan Event, delay time.Duration) error {
	var werr error
	for ev := range events {
		if werr != nil {
			continue
		}
		if werr = ctx.Err(); werr != nil {
			continue
		}
		werr = conn.WriteJSON(ev)
		if ev.Type == EventFill && delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}
	}
	return werr
}

func errorEvent(err error) Event {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return Event{Type: EventError, Code: string(code), Message: errors.UserMessage(err)}
}

var _ tiling.Renderer = eventRenderer{}
