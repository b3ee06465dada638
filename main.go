// Command xaichess replays a recorded game and explains a move: which
// critical squares it newly attacks or defends, which positional motifs it
// shows, and what the opponent is threatening in the position.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"xaichess/annotate"
	"xaichess/board"
	"xaichess/bots"
	"xaichess/config"
	"xaichess/game"
	"xaichess/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		// The first interrupt cancels the run; a second one kills it.
		<-ctx.Done()
		stop()
	}()
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	stop()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "xaichess: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) (err error) {
	cfg, err := config.Parse(args, getenv, stderr)
	if err != nil {
		return err
	}
	lvl, _ := cfg.Level()
	log := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().Logger()

	rec, err := game.LoadFile(cfg.PGNPath)
	if err != nil {
		return err
	}
	event := rec.Title()
	log.Info().Str("game", event).Int("plies", rec.Plies()).Msg("game loaded")

	var archive *store.Archive
	if cfg.Archive || cfg.List {
		archive, err = openArchive(cfg, log)
		if err != nil {
			return err
		}
		defer closeWith(&err, "archive", archive)
	}

	if cfg.List {
		entries, err := archive.List(event)
		if err != nil {
			return err
		}
		return render(stdout, cfg.JSON, event, entries)
	}

	s := &session{
		ann:   annotate.New(log).WithThreatLimit(cfg.ThreatLimit),
		event: event,
		log:   log,
	}
	work := func(bot bots.ChessBot) error {
		s.bot = bot
		if cfg.All {
			return rec.Replay(func(ply int, st *board.State, m *chess.Move) error {
				return s.annotate(ctx, ply, st, m)
			})
		}
		st, err := rec.StateAt(cfg.Ply)
		if err != nil {
			return err
		}
		m, err := resolveMove(rec, st, cfg.Ply, cfg.Move)
		if err != nil {
			return err
		}
		return s.annotate(ctx, cfg.Ply, st, m)
	}

	if cfg.NoThreat {
		err = work(nil)
	} else {
		err = bots.WithBot(bots.Open(cfg.Engine, cfg.EnginePath, log), cfg.Strength(), work)
	}
	if err != nil {
		return err
	}

	if archive != nil {
		for _, e := range s.entries {
			if err := archive.Put(e); err != nil {
				return fmt.Errorf("archive ply %d: %w", e.Ply, err)
			}
		}
		log.Info().Int("entries", len(s.entries)).Msg("commentary archived")
	}
	return render(stdout, cfg.JSON, event, s.entries)
}

// session annotates moves of one game and collects the results.
type session struct {
	ann     *annotate.Annotator
	bot     bots.ChessBot
	event   string
	log     zerolog.Logger
	entries []store.Entry
}

func (s *session) annotate(ctx context.Context, ply int, st *board.State, m *chess.Move) error {
	commentary, err := s.ann.CommentaryStrings(st, m)
	if err != nil {
		return fmt.Errorf("ply %d: %w", ply, err)
	}
	e := store.Entry{
		Event:      s.event,
		Ply:        ply,
		FEN:        st.FEN(),
		Move:       m.String(),
		Commentary: commentary,
	}
	if s.bot != nil {
		threat, err := s.ann.BestThreat(ctx, st, s.bot)
		if err != nil {
			return fmt.Errorf("ply %d: %w", ply, err)
		}
		e.Threat = threat.String()
	}
	s.log.Debug().Int("ply", ply).Str("move", e.Move).Int("tags", len(commentary)).Msg("move annotated")
	s.entries = append(s.entries, e)
	return nil
}

// resolveMove returns the move to annotate at ply: the game move when uci is
// empty, otherwise the legal move uci names.
func resolveMove(rec *game.Record, st *board.State, ply int, uci string) (*chess.Move, error) {
	if uci == "" {
		return rec.MoveAt(ply)
	}
	m, err := st.ParseMove(uci)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", annotate.ErrInvalidMove, err)
	}
	if legal := findMove(st, m); legal != nil {
		return legal, nil
	}
	return nil, fmt.Errorf("%w: %s is not legal after %d plies", annotate.ErrInvalidMove, uci, ply)
}

func findMove(st *board.State, m *chess.Move) *chess.Move {
	for _, v := range st.Position().ValidMoves() {
		if v.S1() == m.S1() && v.S2() == m.S2() && v.Promo() == m.Promo() {
			return v
		}
	}
	return nil
}

// closeWith closes c and joins a failure into *err.
func closeWith(err *error, what string, c io.Closer) {
	if cerr := c.Close(); cerr != nil {
		*err = errors.Join(*err, fmt.Errorf("close %s: %w", what, cerr))
	}
}

func openArchive(cfg config.Config, log zerolog.Logger) (*store.Archive, error) {
	dir := cfg.ArchiveDir
	if dir == "" {
		var err error
		if dir, err = store.DefaultDir(); err != nil {
			return nil, fmt.Errorf("archive directory: %w", err)
		}
	}
	return store.Open(dir, log)
}

func render(w io.Writer, asJSON bool, event string, entries []store.Entry) error {
	if asJSON {
		if entries == nil {
			entries = []store.Entry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	fmt.Fprintln(w, event)
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s\n", moveNumber(e.Ply), e.Move)
		for _, c := range e.Commentary {
			fmt.Fprintf(w, "  %s\n", c)
		}
		if e.Threat != "" {
			fmt.Fprintf(w, "  threat: %s\n", e.Threat)
		}
	}
	return nil
}

// moveNumber renders ply as "1." for White and "1..." for Black.
func moveNumber(ply int) string {
	if ply%2 == 0 {
		return fmt.Sprintf("%d.", ply/2+1)
	}
	return fmt.Sprintf("%d...", ply/2+1)
}
