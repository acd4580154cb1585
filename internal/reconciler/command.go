package reconciler

import "github.com/chikof/momoi/internal/ipc"

// WallpaperCommand is the internal instruction enqueued by the IPC
// handler and applied by the reconciler on its next tick (spec.md 4.9
// step 2), grounded on original_source/daemon/src/ipc_server.rs's
// WallpaperCommand channel: the IPC task validates input synchronously
// and replies Ok/Error immediately, handing mutating work to this
// channel rather than blocking the client on the reconciler's tick.
//
// Query/Ping/ListOutputs/GetResources never produce a WallpaperCommand:
// they read the shared daemon state (internal/state) directly from the
// IPC handler. SetPerformanceMode likewise bypasses this channel,
// touching the resource monitor directly (spec.md 9's design note).
type CommandKind int

const (
	CmdSetWallpaper CommandKind = iota
	CmdSetColor
	CmdSetShader
	CmdSetOverlay
	CmdClearOverlay
	CmdPlaylistNext
	CmdPlaylistPrev
	CmdPlaylistToggleShuffle
	CmdKill
)

// WallpaperCommand carries the decoded, already-validated fields needed
// to apply one mutating request.
type WallpaperCommand struct {
	Kind   CommandKind
	Output string // "" or "all" means every configured output

	Path          string
	Color         string
	Shader        string
	Overlay       string
	Transition    *ipc.TransitionSpec
	Scale         string
	ShaderParams  *ipc.ShaderParams
	OverlayParams *ipc.OverlayParams
}

// Enqueue hands cmd to the reconciler's next tick, non-blocking. Returns
// false if the queue is full, which callers should surface as an IPC
// error rather than stalling the accept loop.
func (r *Reconciler) Enqueue(cmd WallpaperCommand) bool {
	select {
	case r.cmdCh <- cmd:
		return true
	default:
		return false
	}
}
