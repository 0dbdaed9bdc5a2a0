package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"listify/internal/library"
	"listify/internal/logging"
	"listify/internal/metrics"
	"listify/internal/playlist"
)

// Prompt is printed before each interactive command line.
const Prompt = "> "

var (
	// ErrNoSuchCommand is returned by Exec for an unknown command name.
	ErrNoSuchCommand = errors.New("no such command")
	// ErrUsage is returned when a command gets the wrong arguments.
	ErrUsage = errors.New("usage")
)

// Shell runs commands against a logged-in session. It is not safe for
// concurrent use; the session it wraps is single-threaded.
type Shell struct {
	session    *library.Session
	lib        sessionLibrary
	reconciler *playlist.Reconciler

	out    io.Writer
	errOut io.Writer

	containerCallbacks *library.ContainerCallbacks
	playlistCallbacks  *library.PlaylistCallbacks
	watched            map[*library.Playlist]bool

	// hidden keeps playlists removed by hide_list alive until Close.
	hidden []*playlist.Pinned
	done   bool
}

// Option configures a Shell.
type Option func(*Shell)

// WithObserver records resolver and reconciler outcomes in o.
func WithObserver(o playlist.Observer) Option {
	return func(s *Shell) {
		s.reconciler = playlist.NewReconciler(s.lib, o)
	}
}

// WithErrorOutput sends command errors to w instead of the normal output.
func WithErrorOutput(w io.Writer) Option {
	return func(s *Shell) {
		s.errOut = w
	}
}

// New creates a shell over session writing to out, and registers for
// container events.
func New(session *library.Session, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		session: session,
		lib:     sessionLibrary{session: session},
		out:     out,
		errOut:  out,
		watched: make(map[*library.Playlist]bool),
	}
	s.reconciler = playlist.NewReconciler(s.lib, nil)
	for _, opt := range opts {
		opt(s)
	}

	s.containerCallbacks = &library.ContainerCallbacks{
		PlaylistAdded:   s.playlistAdded,
		PlaylistRemoved: s.playlistRemoved,
		ContainerLoaded: s.containerLoaded,
	}
	s.playlistCallbacks = &library.PlaylistCallbacks{
		TracksAdded:     s.tracksAdded,
		TracksRemoved:   s.tracksRemoved,
		PlaylistRenamed: s.playlistRenamed,
	}
	if c := session.Container(); c != nil {
		c.AddCallbacks(s.containerCallbacks)
	}

	return s
}

// Done reports whether a logout command was run.
func (s *Shell) Done() bool { return s.done }

// Exec runs one command line and then delivers pending library events.
// Blank lines only deliver events.
func (s *Shell) Exec(line string) error {
	defer s.session.ProcessEvents()

	args := Tokenize(line)
	if len(args) == 0 {
		return nil
	}

	cmd, ok := lookup(args[0])
	if !ok {
		metrics.ObserveCommand("unknown", 0, ErrNoSuchCommand)
		fmt.Fprintln(s.errOut, "No such command")
		return fmt.Errorf("%s: %w", args[0], ErrNoSuchCommand)
	}

	start := time.Now()
	err := cmd.run(s, args)
	metrics.ObserveCommand(cmd.name, time.Since(start).Seconds(), err)

	if err != nil {
		logging.Debug("command %s failed: %v", cmd.name, err)
		fmt.Fprintf(s.errOut, "%s: %v\n", cmd.name, err)
	}
	return err
}

// Run reads command lines from in until end of input, a logout command or
// ctx is cancelled. When in is a terminal it is switched to raw mode and
// given line editing. Command errors are printed, not returned.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	s.session.ProcessEvents()

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return s.runTerminal(ctx, f)
	}

	scanner := bufio.NewScanner(in)
	return s.loop(ctx, func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return scanner.Text(), nil
	})
}

func (s *Shell) runTerminal(ctx context.Context, f *os.File) error {
	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return fmt.Errorf("failed to set terminal raw mode: %w", err)
	}
	defer func() {
		if err := term.Restore(int(f.Fd()), state); err != nil {
			logging.Warn("failed to restore terminal: %v", err)
		}
	}()

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{f, os.Stdout}, Prompt)

	out, errOut := s.out, s.errOut
	s.out, s.errOut = t, t
	defer func() { s.out, s.errOut = out, errOut }()

	return s.loop(ctx, t.ReadLine)
}

type lineResult struct {
	line string
	err  error
}

// loop feeds lines from read to Exec. read runs on its own goroutine so a
// blocked read does not hold up cancellation.
func (s *Shell) loop(ctx context.Context, read func() (string, error)) error {
	lines := make(chan lineResult)
	next := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		for {
			line, err := read()
			select {
			case lines <- lineResult{line, err}:
			case <-stop:
				return
			}
			if err != nil {
				return
			}
			select {
			case <-next:
			case <-stop:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-lines:
			if errors.Is(r.err, io.EOF) {
				return nil
			}
			if r.err != nil {
				return r.err
			}
			_ = s.Exec(r.line)
			if s.done {
				return nil
			}
			next <- struct{}{}
		}
	}
}

// Close unpins hidden playlists and unregisters from the container. The
// session itself is left to the caller.
func (s *Shell) Close() {
	for _, p := range s.hidden {
		p.Unpin()
	}
	s.hidden = nil

	if c := s.session.Container(); c != nil {
		c.RemoveCallbacks(s.containerCallbacks)
		for pl := range s.watched {
			pl.RemoveCallbacks(s.playlistCallbacks)
		}
	}
	s.watched = make(map[*library.Playlist]bool)
}
