/*
Package shell implements the interactive command interpreter of listify.

A [Shell] wraps a logged-in [library.Session]. Each input line is split by
[Tokenize] and dispatched to a command by its first token:

	logout, exit     end the session
	new_list         create a playlist and append it to the container
	new_hide         create a playlist and hide it again
	add_list         append an existing playlist to the container
	hide_list        remove a playlist from the container, keeping it alive
	clear_list       remove every track from a playlist
	add_tracks       append tracks to a playlist
	count_tracks     print the number of tracks in a playlist
	rename_list      rename a playlist
	list             print the container
	export_list      write a playlist to a WPL file
	import_list      create a playlist from a WPL file
	help             print the command table

Identifiers are resolved with [playlist.Resolver] and hidden through
[playlist.Reconciler]. Library events queued by a command are delivered
after it returns and printed as diagnostic lines prefixed with "listify:".
*/
package shell
