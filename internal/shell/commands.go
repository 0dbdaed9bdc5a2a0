package shell

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"listify/internal/filesystem"
	"listify/internal/library"
	"listify/internal/link"
	"listify/internal/logging"
	"listify/internal/playlist"
)

type command struct {
	name  string
	usage string
	help  string
	run   func(s *Shell, args []string) error
}

// commands is filled in init since help reads it.
var commands []command

func init() {
	commands = []command{
		{"logout", "", "Logout and exit app", (*Shell).cmdLogout},
		{"exit", "", "Logout and exit app", (*Shell).cmdLogout},
		{"new_list", "<name>", "Add a new playlist with a given name.", (*Shell).cmdNewList},
		{"new_hide", "<name>", "Add a new playlist. Then hide it", (*Shell).cmdNewHide},
		{"add_list", "<playlist-uri>", "Given a URI add the playlist to our container.", (*Shell).cmdAddList},
		{"clear_list", "<playlist-uri>", "Clear a playlist, given it's URI", (*Shell).cmdClearList},
		{"add_tracks", "<playlist-uri> <track-uri>...", "Add tracks to a list.", (*Shell).cmdAddTracks},
		{"count_tracks", "<playlist-uri>", "Counts the amount of tracks in a playlist.", (*Shell).cmdCountTracks},
		{"hide_list", "<playlist-uri>", "Hide the given playlist. (Inverse of add)", (*Shell).cmdHideList},
		{"rename_list", "<playlist-uri> <name>", "Give a playlist a new name.", (*Shell).cmdRenameList},
		{"list", "", "List the playlists in our container.", (*Shell).cmdList},
		{"export_list", "<playlist-uri> <file>", "Write a playlist to a WPL file.", (*Shell).cmdExportList},
		{"import_list", "<file>", "Add a new playlist from a WPL file.", (*Shell).cmdImportList},
		{"help", "", "This help", (*Shell).cmdHelp},
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// Names returns the command names in help order.
func Names() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}
	return names
}

func usage(args []string) error {
	c, _ := lookup(args[0])
	if c.usage == "" {
		return fmt.Errorf("%w: %s", ErrUsage, c.name)
	}
	return fmt.Errorf("%w: %s %s", ErrUsage, c.name, c.usage)
}

func (s *Shell) container() (*library.Container, error) {
	c := s.session.Container()
	if c == nil {
		return nil, library.ErrLoggedOut
	}
	return c, nil
}

// resolvePlaylist resolves uri to a playlist borrowed from the session.
func (s *Shell) resolvePlaylist(uri string) (*library.Playlist, error) {
	ref, err := s.reconciler.Resolver().Resolve(uri, link.KindPlaylist)
	if err != nil {
		return nil, err
	}
	return ref.Object.(*library.Playlist), nil
}

func (s *Shell) resolveTracks(uris []string) ([]*library.Track, error) {
	tracks := make([]*library.Track, 0, len(uris))
	for _, uri := range uris {
		ref, err := s.reconciler.Resolver().Resolve(uri, link.KindTrack)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, ref.Object.(*library.Track))
	}
	return tracks, nil
}

func (s *Shell) cmdLogout(args []string) error {
	s.done = true
	return nil
}

func (s *Shell) cmdNewList(args []string) error {
	if len(args) < 2 {
		return usage(args)
	}
	c, err := s.container()
	if err != nil {
		return err
	}

	pl, err := c.AddNewPlaylist(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, pl.URI())
	return nil
}

func (s *Shell) cmdNewHide(args []string) error {
	if len(args) < 2 {
		return usage(args)
	}
	c, err := s.container()
	if err != nil {
		return err
	}

	pl, err := c.AddNewPlaylist(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	return s.hide(c, pl.URI())
}

func (s *Shell) cmdAddList(args []string) error {
	if len(args) != 2 {
		return usage(args)
	}
	c, err := s.container()
	if err != nil {
		return err
	}

	pl, err := s.resolvePlaylist(args[1])
	if err != nil {
		return err
	}
	return c.AddPlaylist(pl)
}

func (s *Shell) cmdHideList(args []string) error {
	if len(args) != 2 {
		return usage(args)
	}
	c, err := s.container()
	if err != nil {
		return err
	}
	return s.hide(c, canonical(args[1]))
}

// hide removes uri from c and keeps the playlist pinned until Close. When
// the container refuses the removal the playlist is still a member, so
// the pin is dropped again.
func (s *Shell) hide(c *library.Container, uri string) error {
	pinned, err := s.reconciler.Hide(containerView{c: c}, uri)
	if err != nil {
		var perr *playlist.Error
		if errors.As(err, &perr) && perr.Pinned != nil {
			perr.Pinned.Unpin()
		}
		return err
	}

	s.hidden = append(s.hidden, pinned)
	fmt.Fprintf(s.out, "hid %s\n", pinned.URI())
	return nil
}

func (s *Shell) cmdClearList(args []string) error {
	if len(args) != 2 {
		return usage(args)
	}
	pl, err := s.resolvePlaylist(args[1])
	if err != nil {
		return err
	}
	return pl.Clear()
}

func (s *Shell) cmdAddTracks(args []string) error {
	if len(args) < 3 {
		return usage(args)
	}
	pl, err := s.resolvePlaylist(args[1])
	if err != nil {
		return err
	}
	tracks, err := s.resolveTracks(args[2:])
	if err != nil {
		return err
	}
	return pl.AddTracks(tracks, pl.NumTracks())
}

func (s *Shell) cmdCountTracks(args []string) error {
	if len(args) != 2 {
		return usage(args)
	}
	pl, err := s.resolvePlaylist(args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, pl.NumTracks())
	return nil
}

func (s *Shell) cmdRenameList(args []string) error {
	if len(args) < 3 {
		return usage(args)
	}
	pl, err := s.resolvePlaylist(args[1])
	if err != nil {
		return err
	}
	return pl.Rename(strings.Join(args[2:], " "))
}

func (s *Shell) cmdList(args []string) error {
	c, err := s.container()
	if err != nil {
		return err
	}

	for i := 0; i < c.NumPlaylists(); i++ {
		pl, err := c.Playlist(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%3d. %-40s %5d  %s\n", i, pl.URI(), pl.NumTracks(), pl.Name())
	}
	return nil
}

func (s *Shell) cmdExportList(args []string) (err error) {
	if len(args) != 3 {
		return usage(args)
	}
	pl, err := s.resolvePlaylist(args[1])
	if err != nil {
		return err
	}

	f, err := filesystem.CreateWithRetry(args[2], filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := playlist.EncodeWPL(f, pl.Name(), pl.TrackURIs()); err != nil {
		return fmt.Errorf("export %s: %w", pl.URI(), err)
	}
	fmt.Fprintf(s.out, "wrote %d tracks to %s\n", pl.NumTracks(), args[2])
	return nil
}

func (s *Shell) cmdImportList(args []string) error {
	if len(args) != 2 {
		return usage(args)
	}
	c, err := s.container()
	if err != nil {
		return err
	}

	f, err := filesystem.OpenWithRetry(args[1], filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	defer f.Close()

	title, uris, err := playlist.DecodeWPL(f)
	if err != nil {
		return fmt.Errorf("import %s: %w", args[1], err)
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(args[1]), filepath.Ext(args[1]))
	}

	// Resolve everything before creating the playlist so a bad entry
	// leaves the container untouched.
	tracks, err := s.resolveTracks(uris)
	if err != nil {
		return err
	}

	pl, err := c.AddNewPlaylist(title)
	if err != nil {
		return err
	}
	if err := pl.AddTracks(tracks, 0); err != nil {
		logging.Warn("playlist %s created but its tracks were not added: %v", pl.URI(), err)
		return err
	}
	fmt.Fprintln(s.out, pl.URI())
	return nil
}

func (s *Shell) cmdHelp(args []string) error {
	for _, c := range commands {
		fmt.Fprintf(s.out, "  %-20s %s\n", c.name, c.help)
	}
	return nil
}
