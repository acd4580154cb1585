package main

import (
	"strings"

	"github.com/chikof/momoi/internal/config"
	"github.com/chikof/momoi/internal/ipc"
	"github.com/chikof/momoi/internal/playlist"
	"github.com/chikof/momoi/internal/reconciler"
	"github.com/chikof/momoi/internal/resource"
	"github.com/chikof/momoi/internal/state"
)

// newIPCServer wires the control socket to the daemon: read-only
// queries (query/list_outputs/ping/get_resources) and
// set_performance_mode answer directly against shared state and the
// resource monitor, while every mutating command is translated into a
// reconciler.WallpaperCommand and handed to the reconciler's queue
// (command.go's documented split, grounded on
// original_source/daemon/src/ipc_server.rs).
func newIPCServer(shared *state.State, rec *reconciler.Reconciler, mon *resource.Monitor, cfg *config.Config, pl *playlist.State) (*ipc.Server, error) {
	handler := func(cmd ipc.Command) ipc.Response {
		switch cmd.Type {
		case ipc.CmdPing:
			return ipc.PongResponse(cmd.RequestID)

		case ipc.CmdQuery:
			return handleQuery(shared, cmd)

		case ipc.CmdListOutputs:
			return handleListOutputs(shared, cmd)

		case ipc.CmdGetResources:
			return handleGetResources(shared, cmd)

		case ipc.CmdSetPerformanceMode:
			return handleSetPerformanceMode(mon, cfg, cmd)

		default:
			return enqueueMutatingCommand(rec, cmd)
		}
	}

	return ipc.Listen(ipc.SocketPath(), handler)
}

func handleQuery(shared *state.State, cmd ipc.Command) ipc.Response {
	wallpapers := shared.Wallpapers()
	statuses := make([]ipc.WallpaperStatus, 0, len(wallpapers))
	for output, kind := range wallpapers {
		if cmd.Output != nil && *cmd.Output != "" && string(output) != *cmd.Output {
			continue
		}
		statuses = append(statuses, ipc.WallpaperStatus{
			Output:    string(output),
			Wallpaper: wallpaperInfoFromKind(kind),
		})
	}
	return ipc.StatusResponse(cmd.RequestID, ipc.DaemonStatus{
		Version:           shared.Version(),
		UptimeSecs:        uint64(shared.UptimeSeconds()),
		CurrentWallpapers: statuses,
	})
}

func wallpaperInfoFromKind(kind state.WallpaperKind) ipc.WallpaperInfo {
	switch kind.Tag {
	case state.WallpaperColor:
		return ipc.WallpaperInfo{Kind: "color", Value: kind.Color}
	case state.WallpaperImage:
		return ipc.WallpaperInfo{Kind: "image", Value: kind.Path}
	case state.WallpaperVideo:
		return ipc.WallpaperInfo{Kind: "video", Value: kind.Path}
	case state.WallpaperShader:
		return ipc.WallpaperInfo{Kind: "shader", Value: kind.Shader}
	default:
		return ipc.WallpaperInfo{Kind: "none"}
	}
}

func handleListOutputs(shared *state.State, cmd ipc.Command) ipc.Response {
	outputs := shared.Outputs()
	infos := make([]ipc.OutputInfo, 0, len(outputs))
	for _, o := range outputs {
		info := ipc.OutputInfo{
			Name:   string(o.Name),
			Width:  uint32(o.Width),
			Height: uint32(o.Height),
			Scale:  o.HiDPIScale,
		}
		if o.HasRefresh {
			hz := uint32(o.RefreshHz * 1000)
			info.RefreshRate = &hz
		}
		infos = append(infos, info)
	}
	return ipc.OutputsResponse(cmd.RequestID, infos)
}

func handleGetResources(shared *state.State, cmd ipc.Command) ipc.Response {
	stats := shared.ResourceStats()
	resp := ipc.ResourceStatus{
		PerformanceMode: stats.PerfMode,
		MemoryMB:        uint64(stats.MemoryMB),
		CPUPercent:      float32(stats.CPUPercent),
		OnBattery:       stats.OnBattery,
	}
	if stats.HasBattery {
		pct := uint8(stats.BatteryPercent)
		resp.BatteryPercent = &pct
	}
	return ipc.ResourcesResponse(cmd.RequestID, resp)
}

// handleSetPerformanceMode mirrors spec.md 9's design note: the request
// only has an observable effect when tiering_enabled is set in
// config.toml, otherwise it answers not_implemented rather than
// silently pinning a mode nothing else consults.
func handleSetPerformanceMode(mon *resource.Monitor, cfg *config.Config, cmd ipc.Command) ipc.Response {
	if !cfg.Advanced.TieringEnabled {
		return ipc.ErrorResponse(cmd.RequestID, ipc.NewError(ipc.ErrNotImplemented, "tiering disabled"))
	}
	if strings.EqualFold(cmd.Mode, "auto") {
		mon.ResumeAutoMode()
		return ipc.OkResponse(cmd.RequestID)
	}
	mode, ok := resource.ParseMode(cmd.Mode)
	if !ok {
		return ipc.ErrorResponse(cmd.RequestID, ipc.NewError(ipc.ErrIO, "unknown performance mode %q", cmd.Mode))
	}
	mon.SetMode(mode)
	return ipc.OkResponse(cmd.RequestID)
}

// enqueueMutatingCommand converts every wallpaper-mutating ipc.Command
// into a reconciler.WallpaperCommand and hands it to the reconciler's
// next tick. Unrecognised kinds answer io errors rather than silently
// dropping the request.
func enqueueMutatingCommand(rec *reconciler.Reconciler, cmd ipc.Command) ipc.Response {
	wc, ok := toWallpaperCommand(cmd)
	if !ok {
		return ipc.ErrorResponse(cmd.RequestID, ipc.NewError(ipc.ErrIO, "unsupported command %q", cmd.Type))
	}
	if !rec.Enqueue(wc) {
		return ipc.ErrorResponse(cmd.RequestID, ipc.NewError(ipc.ErrIO, "command queue full, retry"))
	}
	return ipc.OkResponse(cmd.RequestID)
}

func toWallpaperCommand(cmd ipc.Command) (reconciler.WallpaperCommand, bool) {
	wc := reconciler.WallpaperCommand{
		Path:          cmd.Path,
		Color:         cmd.Color,
		Shader:        cmd.Shader,
		Overlay:       cmd.Overlay,
		Transition:    cmd.Transition,
		ShaderParams:  cmd.Params,
		OverlayParams: cmd.OverlayParams,
	}
	if cmd.Output != nil {
		wc.Output = *cmd.Output
	}
	if cmd.Scale != nil {
		wc.Scale = *cmd.Scale
	}

	switch cmd.Type {
	case ipc.CmdSetWallpaper:
		wc.Kind = reconciler.CmdSetWallpaper
	case ipc.CmdSetColor:
		wc.Kind = reconciler.CmdSetColor
	case ipc.CmdSetShader:
		wc.Kind = reconciler.CmdSetShader
	case ipc.CmdSetOverlay:
		wc.Kind = reconciler.CmdSetOverlay
	case ipc.CmdClearOverlay:
		wc.Kind = reconciler.CmdClearOverlay
	case ipc.CmdPlaylistNext:
		wc.Kind = reconciler.CmdPlaylistNext
	case ipc.CmdPlaylistPrev:
		wc.Kind = reconciler.CmdPlaylistPrev
	case ipc.CmdPlaylistToggleShuffle:
		wc.Kind = reconciler.CmdPlaylistToggleShuffle
	case ipc.CmdKill:
		wc.Kind = reconciler.CmdKill
	default:
		return reconciler.WallpaperCommand{}, false
	}
	return wc, true
}
