// Package reconciler implements the single-threaded tick loop (C9) that
// owns every output's render state and drives all frame production, per
// spec.md 4.9. It is the only place that touches the compositor, the
// shared video decoders, and the per-output buffer pools.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chikof/momoi/internal/buffer"
	"github.com/chikof/momoi/internal/colorhex"
	"github.com/chikof/momoi/internal/compositor"
	"github.com/chikof/momoi/internal/config"
	"github.com/chikof/momoi/internal/frame"
	"github.com/chikof/momoi/internal/gpu"
	"github.com/chikof/momoi/internal/imagesrc"
	"github.com/chikof/momoi/internal/ipc"
	"github.com/chikof/momoi/internal/logging"
	"github.com/chikof/momoi/internal/output"
	"github.com/chikof/momoi/internal/overlay"
	"github.com/chikof/momoi/internal/playlist"
	"github.com/chikof/momoi/internal/resource"
	"github.com/chikof/momoi/internal/scheduler"
	"github.com/chikof/momoi/internal/shader"
	"github.com/chikof/momoi/internal/state"
	"github.com/chikof/momoi/internal/video"
	"github.com/rs/zerolog"
)

const (
	reconnectMaxBackoff = 10 * time.Second
	reconnectMaxAttempt = 10
)

// Reconciler is the single locus of time (spec.md 4.9).
type Reconciler struct {
	mu      sync.Mutex
	comp    compositor.Compositor
	dial    compositor.DialFunc
	outputs map[compositor.OutputID]*output.State

	shared    *state.State
	playlist  *playlist.State
	scheduler *scheduler.State
	resource  *resource.Monitor
	cfg       *config.Config
	gpu       *gpu.Pipelines

	cmdCh chan WallpaperCommand

	videoMu     sync.Mutex
	videoByPath map[string]*video.Source

	log zerolog.Logger
}

// New constructs a reconciler bound to an already-connected compositor.
// playlist/scheduler may be nil when unconfigured.
func New(comp compositor.Compositor, dial compositor.DialFunc, shared *state.State, pl *playlist.State, sc *scheduler.State, mon *resource.Monitor, cfg *config.Config) *Reconciler {
	return &Reconciler{
		comp:        comp,
		dial:        dial,
		outputs:     make(map[compositor.OutputID]*output.State),
		shared:      shared,
		playlist:    pl,
		scheduler:   sc,
		resource:    mon,
		cfg:         cfg,
		cmdCh:       make(chan WallpaperCommand, 64),
		videoByPath: make(map[string]*video.Source),
		log:         logging.For("reconciler"),
	}
}

// SetGPU installs the shared GPU pipeline set, enabling the GPU path for
// scale, shader, overlay and transition blend (spec.md 4.2) on every
// output this reconciler currently owns and every output it creates
// afterward. A nil value disables the GPU path again.
func (r *Reconciler) SetGPU(p *gpu.Pipelines) {
	r.mu.Lock()
	r.gpu = p
	outs := make([]*output.State, 0, len(r.outputs))
	for _, o := range r.outputs {
		outs = append(outs, o)
	}
	r.mu.Unlock()
	for _, o := range outs {
		o.SetGPU(p)
	}
}

// Run drives ticks until ctx is cancelled or the shared exit flag is set,
// reconnecting on compositor disconnect (spec.md 4.9's reconnection
// policy) and giving up after reconnectMaxAttempt failures.
func (r *Reconciler) Run(ctx context.Context) error {
	backoff := time.Second
	attempts := 0

	for {
		if r.shared.ShouldExit() {
			r.teardown()
			return nil
		}

		delay, err := r.Tick(ctx, time.Now())
		if err != nil {
			if errors.Is(err, compositor.ErrDisconnected) {
				if rerr := r.reconnect(ctx, &backoff, &attempts); rerr != nil {
					r.teardown()
					return rerr
				}
				continue
			}
			r.teardown()
			return err
		}
		attempts = 0
		backoff = time.Second

		select {
		case <-ctx.Done():
			r.teardown()
			return nil
		case <-time.After(delay):
		}
	}
}

// Tick executes the ten ordered steps of spec.md 4.9 once and returns the
// next-frame delay. A compositor.ErrDisconnected return means every
// output was already torn down by the caller's reconnect handling.
func (r *Reconciler) Tick(ctx context.Context, now time.Time) (time.Duration, error) {
	if err := r.comp.Dispatch(ctx); err != nil {
		if errors.Is(err, compositor.ErrDisconnected) {
			return 0, err
		}
		r.log.Warn().Err(err).Msg("compositor dispatch error")
	}
	r.drainOutputEvents()

	select {
	case cmd := <-r.cmdCh:
		r.applyCommand(ctx, cmd)
	default:
	}

	r.tickVideo(now)
	r.tickShader(now)
	r.tickTransitions()

	if r.playlist != nil && r.playlist.ShouldRotate() {
		if next := r.playlist.Next(); next != "" {
			r.applyCommand(ctx, WallpaperCommand{
				Kind: CmdSetWallpaper, Output: "all", Path: next,
				Transition: r.playlistTransitionSpec(),
			})
		}
	}

	if r.scheduler != nil && r.scheduler.ShouldCheck(now) {
		if sch := r.scheduler.Check(now); sch != nil {
			name := sch.Transition
			if name == "" {
				name = "fade"
			}
			dur := sch.DurationMS
			if dur == 0 {
				dur = 500
			}
			r.applyCommand(ctx, WallpaperCommand{
				Kind: CmdSetWallpaper, Output: "all", Path: sch.Path,
				Transition: &ipc.TransitionSpec{Kind: name, DurationMS: uint32(dur)},
			})
		}
	}

	if r.resource != nil && r.resource.ShouldCheck(now) {
		if stats, err := r.resource.Update(ctx); err != nil {
			r.log.Warn().Err(err).Msg("resource monitor update failed")
		} else {
			r.shared.SetResourceStats(state.ResourceStats{
				PerfMode:       r.resource.Mode().String(),
				MemoryMB:       float64(stats.MemoryBytes) / (1024 * 1024),
				CPUPercent:     stats.CPUPercent,
				OnBattery:      stats.OnBattery,
				BatteryPercent: stats.BatteryPercent,
				HasBattery:     stats.HasBattery,
			})
		}
	}

	for _, out := range r.outputsSnapshot() {
		for _, warning := range out.DrainPoolWarnings() {
			r.log.Warn().Str("output", string(out.Name())).Msg(warning)
		}
	}

	if err := r.comp.Flush(); err != nil {
		if errors.Is(err, compositor.ErrDisconnected) {
			return 0, err
		}
		r.log.Warn().Err(err).Msg("compositor flush error")
	}

	return r.nextFrameDelay(), nil
}

// tickVideo implements step 3: each shared video decoder is advanced at
// most once per tick, and each of its unique consumer resolutions is
// scaled at most once, regardless of how many outputs share it.
func (r *Reconciler) tickVideo(now time.Time) {
	type cacheEntry struct {
		byRes map[[2]int]frame.ARGB
		ok    bool
	}
	seen := make(map[*video.Source]cacheEntry)

	for _, out := range r.outputsSnapshot() {
		src := out.Source()
		if src.Kind != output.SourceVideo || src.Video == nil {
			continue
		}
		v := src.Video

		entry, visited := seen[v]
		if !visited {
			entry = cacheEntry{}
			if v.HasNewFrame() {
				if cf := v.CurrentFrameBGRA(); cf != nil && v.AcceptForPacing(now) {
					base := frame.ARGB{Pix: cf.BGRA, Width: cf.Width, Height: cf.Height}
					byRes := make(map[[2]int]frame.ARGB)
					for _, res := range v.ConsumerResolutions() {
						if res[0] == cf.Width && res[1] == cf.Height {
							byRes[res] = base
						} else {
							byRes[res] = r.scaleFrame(base, res[0], res[1])
						}
					}
					entry = cacheEntry{byRes: byRes, ok: true}
				}
			}
			seen[v] = entry
		}
		if !entry.ok {
			continue
		}
		scaled, ok := entry.byRes[[2]int{src.VideoW, src.VideoH}]
		if !ok {
			continue
		}
		r.renderToOutput(out, scaled)
	}
}

// tickShader implements step 4.
func (r *Reconciler) tickShader(now time.Time) {
	for _, out := range r.outputsSnapshot() {
		src := out.Source()
		if src.Kind != output.SourceShader || src.Shader == nil {
			continue
		}
		if !src.Shader.ShouldRender(now) {
			continue
		}
		r.renderToOutput(out, r.renderShader(src.Shader, now))
	}
}

// scaleFrame tries the GPU scale pipeline before falling back to the CPU
// scaler (spec.md 4.2/4.4).
func (r *Reconciler) scaleFrame(src frame.ARGB, outW, outH int) frame.ARGB {
	if r.gpu != nil {
		if out, err := r.gpu.Scale(src, outW, outH); err == nil {
			return out
		}
	}
	return imagesrc.Apply(imagesrc.ScaleFill, src, outW, outH)
}

// renderShader tries the GPU shader pipeline before falling back to the
// CPU renderer, keeping the FPS-gate clock (ShouldRender/lastTick)
// consistent between both paths (spec.md 4.2/4.5).
func (r *Reconciler) renderShader(s *shader.Source, now time.Time) frame.ARGB {
	if r.gpu != nil {
		elapsed := s.Elapsed(now)
		if out, err := r.gpu.RenderShader(s.Kind, s.Params, elapsed, s.Width, s.Height); err == nil {
			s.MarkRendered(now)
			return out
		}
	}
	return s.Render(now)
}

// tickTransitions implements step 5.
func (r *Reconciler) tickTransitions() {
	for _, out := range r.outputsSnapshot() {
		if out.HasTransition() {
			if _, err := out.AdvanceTransition(); err != nil {
				r.log.Warn().Err(err).Str("output", string(out.Name())).Msg("transition commit failed")
			}
		}
	}
}

// renderToOutput applies the active overlay (if any) and commits
// directly; used for steady-state video/shader frames, which do not
// themselves go through a transition.
func (r *Reconciler) renderToOutput(out *output.State, f frame.ARGB) {
	if o := out.Overlay(); o != nil {
		f = r.applyOverlay(o, f)
	}
	if err := out.Commit(f); err != nil {
		r.log.Warn().Err(err).Str("output", string(out.Name())).Msg("commit failed")
	}
}

// applyOverlay tries the GPU overlay pipeline before falling back to the
// CPU in-place apply, matching output.State's own transition-path overlay
// dispatch (spec.md 4.2/4.6).
func (r *Reconciler) applyOverlay(o *overlay.Overlay, f frame.ARGB) frame.ARGB {
	if r.gpu != nil {
		if out, err := r.gpu.ApplyOverlay(o.Effect, o.Params, o.Elapsed(), f); err == nil {
			return out
		}
	}
	f = f.Clone()
	o.Apply(f)
	return f
}

// nextFrameDelay returns the minimum of 16ms if any transition is active,
// frame_duration of any active video, and the full frame interval (1/FPS)
// of any active shader, clamped to [1ms, 100ms]. The shader term does not
// subtract the time already elapsed since that shader's last render.
func (r *Reconciler) nextFrameDelay() time.Duration {
	delay := 100 * time.Millisecond
	for _, out := range r.outputsSnapshot() {
		if out.HasTransition() {
			delay = minDuration(delay, 16*time.Millisecond)
		}
		src := out.Source()
		switch {
		case src.Kind == output.SourceVideo && src.Video != nil:
			delay = minDuration(delay, src.Video.FrameDuration())
		case src.Kind == output.SourceShader && src.Shader != nil && src.Shader.FPS > 0:
			delay = minDuration(delay, time.Duration(float64(time.Second)/src.Shader.FPS))
		}
	}
	if delay < time.Millisecond {
		delay = time.Millisecond
	}
	if delay > 100*time.Millisecond {
		delay = 100 * time.Millisecond
	}
	return delay
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func (r *Reconciler) outputsSnapshot() []*output.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*output.State, 0, len(r.outputs))
	for _, o := range r.outputs {
		out = append(out, o)
	}
	return out
}

func (r *Reconciler) targetOutputs(name string) []*output.State {
	if name == "" || name == "all" {
		return r.outputsSnapshot()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.outputs[compositor.OutputID(name)]; ok {
		return []*output.State{o}
	}
	return nil
}

func (r *Reconciler) playlistTransitionSpec() *ipc.TransitionSpec {
	if r.cfg == nil || r.cfg.Playlist == nil {
		return &ipc.TransitionSpec{Kind: "fade", DurationMS: 500}
	}
	return &ipc.TransitionSpec{
		Kind:       r.cfg.Playlist.Transition,
		DurationMS: uint32(r.cfg.Playlist.TransitionDuration),
	}
}

// drainOutputEvents handles compositor output lifecycle events
// (spec.md 4.9 step 1 is Dispatch; delivering these is the effect of
// that dispatch via the events channel).
func (r *Reconciler) drainOutputEvents() {
	for {
		select {
		case ev, ok := <-r.comp.Events():
			if !ok {
				return
			}
			r.handleOutputEvent(ev)
		default:
			return
		}
	}
}

func (r *Reconciler) handleOutputEvent(ev compositor.OutputEvent) {
	switch ev.Kind {
	case compositor.OutputAdded:
		r.shared.SetOutput(ev.Output)
	case compositor.OutputConfigured:
		r.shared.SetOutput(ev.Output)
		r.ensureOutputState(ev.Output)
	case compositor.OutputRemoved:
		r.shared.RemoveOutput(ev.Output.Name)
		r.mu.Lock()
		st, ok := r.outputs[ev.Output.Name]
		delete(r.outputs, ev.Output.Name)
		r.mu.Unlock()
		if ok {
			st.Destroy()
		}
	}
}

func (r *Reconciler) ensureOutputState(info compositor.OutputInfo) {
	r.mu.Lock()
	_, exists := r.outputs[info.Name]
	r.mu.Unlock()
	if exists {
		return
	}

	surface, err := r.comp.NewLayerSurface(info.Name)
	if err != nil {
		r.log.Warn().Err(err).Str("output", string(info.Name)).Msg("create layer surface failed")
		return
	}
	st := output.New(info.Name, surface, buffer.NewPool(r.comp))
	st.SetGPU(r.gpu)
	if err := st.OnConfigure(info.Width, info.Height, info.HiDPIScale); err != nil {
		r.log.Warn().Err(err).Str("output", string(info.Name)).Msg("initial placeholder commit failed")
	}

	r.mu.Lock()
	r.outputs[info.Name] = st
	r.mu.Unlock()
}

// applyCommand dispatches one decoded, pre-validated command (spec.md
// 4.9 step 2).
func (r *Reconciler) applyCommand(ctx context.Context, cmd WallpaperCommand) {
	switch cmd.Kind {
	case CmdKill:
		r.shared.RequestExit()
		return
	case CmdPlaylistNext:
		r.applyPlaylistStep(ctx, playlistNext)
		return
	case CmdPlaylistPrev:
		r.applyPlaylistStep(ctx, playlistPrev)
		return
	case CmdPlaylistToggleShuffle:
		if r.playlist != nil {
			r.playlist.ToggleShuffle()
		}
		return
	}

	for _, out := range r.targetOutputs(cmd.Output) {
		r.applyToOutput(ctx, out, cmd)
	}
}

type playlistDirection int

const (
	playlistNext playlistDirection = iota
	playlistPrev
)

func (r *Reconciler) applyPlaylistStep(ctx context.Context, dir playlistDirection) {
	if r.playlist == nil || r.playlist.IsEmpty() {
		return
	}
	var path string
	if dir == playlistNext {
		path = r.playlist.Next()
	} else {
		path = r.playlist.Prev()
	}
	if path == "" {
		return
	}
	r.applyCommand(ctx, WallpaperCommand{Kind: CmdSetWallpaper, Output: "all", Path: path, Transition: r.playlistTransitionSpec()})
}

func (r *Reconciler) applyToOutput(ctx context.Context, out *output.State, cmd WallpaperCommand) {
	w, h := out.Dimensions()
	if w == 0 || h == 0 {
		return
	}

	var (
		src       output.Source
		newFrame  frame.ARGB
		haveFrame bool
		tag       state.WallpaperTag
		kindVal   state.WallpaperKind
	)

	switch cmd.Kind {
	case CmdSetColor:
		c, ok := colorhex.Parse(cmd.Color)
		if !ok {
			r.log.Warn().Str("color", cmd.Color).Msg("invalid hex color")
			return
		}
		rb, gb, bb, _ := colorhex.ParseBytes(cmd.Color)
		src = output.Source{Kind: output.SourceColor, Color: c}
		newFrame = frame.New(w, h)
		newFrame.FillColor(rb, gb, bb, 255)
		haveFrame = true
		tag = state.WallpaperColor
		kindVal = state.WallpaperKind{Tag: tag, Color: cmd.Color}

	case CmdSetWallpaper:
		animated, _ := imagesrc.IsAnimatedGIF(cmd.Path)
		switch {
		case animated:
			webm, err := imagesrc.ConvertGIFToWebM(ctx, cmd.Path)
			if err != nil {
				r.log.Warn().Err(err).Str("path", cmd.Path).Msg("gif transcode failed")
				return
			}
			v := r.videoSourceFor(webm, w, h)
			if v == nil {
				return
			}
			src = output.Source{Kind: output.SourceVideo, Video: v, VideoW: w, VideoH: h}
			tag = state.WallpaperVideo
			kindVal = state.WallpaperKind{Tag: tag, Path: webm}
		case isVideoPath(cmd.Path):
			v := r.videoSourceFor(cmd.Path, w, h)
			if v == nil {
				return
			}
			src = output.Source{Kind: output.SourceVideo, Video: v, VideoW: w, VideoH: h}
			tag = state.WallpaperVideo
			kindVal = state.WallpaperKind{Tag: tag, Path: cmd.Path}
		default:
			mode := parseScaleMode(cmd.Scale, r.defaultScaleMode())
			imgSrc, err := imagesrc.NewSource(cmd.Path, mode, w, h)
			if err != nil {
				r.log.Warn().Err(err).Str("path", cmd.Path).Msg("image decode failed")
				return
			}
			src = output.Source{Kind: output.SourceImage, Image: imgSrc}
			newFrame = imgSrc.Frame()
			haveFrame = true
			tag = state.WallpaperImage
			kindVal = state.WallpaperKind{Tag: tag, Path: cmd.Path}
		}

	case CmdSetShader:
		k, err := shader.ParseKind(cmd.Shader)
		if err != nil {
			r.log.Warn().Err(err).Str("shader", cmd.Shader).Msg("unknown shader")
			return
		}
		params := applyShaderParams(shader.DefaultParams(), cmd.ShaderParams)
		shaderSrc := shader.New(k, params, w, h)
		src = output.Source{Kind: output.SourceShader, Shader: shaderSrc}
		newFrame = shaderSrc.Render(time.Now())
		haveFrame = true
		tag = state.WallpaperShader
		kindVal = state.WallpaperKind{Tag: tag, Shader: cmd.Shader}

	case CmdSetOverlay:
		eff, ok := parseOverlayEffect(cmd.Overlay)
		if !ok {
			r.log.Warn().Str("overlay", cmd.Overlay).Msg("unknown overlay")
			return
		}
		out.SetOverlay(overlay.New(eff, convertOverlayParams(cmd.OverlayParams)))
		return

	case CmdClearOverlay:
		out.SetOverlay(nil)
		return

	default:
		return
	}

	out.Apply(src)
	if haveFrame {
		r.commitOrTransition(out, cmd.Transition, newFrame)
	}
	r.shared.SetWallpaper(out.Name(), kindVal)
}

func (r *Reconciler) defaultScaleMode() imagesrc.ScaleMode {
	if r.cfg == nil {
		return imagesrc.ScaleFill
	}
	mode, _ := scaleModeFromName(r.cfg.General.DefaultScale)
	return mode
}

// commitOrTransition instant-swaps when duration is zero/absent, else
// starts a transition (spec.md 6: "transition.duration_ms = 0 or absent
// ⇒ instant swap").
func (r *Reconciler) commitOrTransition(out *output.State, spec *ipc.TransitionSpec, newFrame frame.ARGB) {
	ts := spec
	if ts == nil {
		d := ipc.DefaultTransitionSpec()
		ts = &d
	}
	if ts.DurationMS == 0 {
		r.renderToOutput(out, newFrame)
		return
	}
	kind, angle := parseTransitionKind(ts.Kind, float64(ts.AngleDegrees))
	out.StartTransition(kind, angle, time.Duration(ts.DurationMS)*time.Millisecond, newFrame)
}

// videoSourceFor returns the shared decoder for path, loading it at decode
// resolution (w,h) the first time any output requests it.
func (r *Reconciler) videoSourceFor(path string, w, h int) *video.Source {
	r.videoMu.Lock()
	defer r.videoMu.Unlock()
	if v, ok := r.videoByPath[path]; ok {
		return v
	}
	fpsCap := 30.0
	if r.resource != nil {
		fpsCap = float64(r.resource.Mode().VideoFPSLimit())
	}
	v, err := video.Load(path, w, h, fpsCap)
	if err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("video load failed")
		return nil
	}
	if err := v.Play(context.Background()); err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("video play failed")
	}
	r.videoByPath[path] = v
	return v
}

func isVideoPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".webm", ".mkv", ".mov", ".avi":
		return true
	default:
		return false
	}
}

// teardown releases every output and video decoder, run once on a clean
// exit or an unrecoverable reconnect failure.
func (r *Reconciler) teardown() {
	r.mu.Lock()
	outs := r.outputs
	r.outputs = make(map[compositor.OutputID]*output.State)
	r.mu.Unlock()
	for _, o := range outs {
		o.Destroy()
	}

	r.videoMu.Lock()
	vids := r.videoByPath
	r.videoByPath = make(map[string]*video.Source)
	r.videoMu.Unlock()
	for _, v := range vids {
		v.Stop()
	}

	_ = r.comp.Close()
}

// reconnect implements spec.md 4.9's reconnection policy: drop every
// Wayland-held object (outputs and decoder pipelines), back off
// exponentially from 1s to a 10s cap, reconnect, re-enumerate outputs,
// and restore wallpapers from the output->wallpaper-kind map in shared
// state.
func (r *Reconciler) reconnect(ctx context.Context, backoff *time.Duration, attempts *int) error {
	r.log.Warn().Msg("compositor disconnected; reconnecting")
	r.teardown()

	for {
		*attempts++
		if *attempts > reconnectMaxAttempt {
			return fmt.Errorf("reconciler: gave up reconnecting after %d attempts", reconnectMaxAttempt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(*backoff):
		}

		comp, err := r.dial(ctx)
		if err != nil {
			r.log.Warn().Err(err).Int("attempt", *attempts).Msg("reconnect attempt failed")
			*backoff *= 2
			if *backoff > reconnectMaxBackoff {
				*backoff = reconnectMaxBackoff
			}
			continue
		}

		r.comp = comp
		for _, info := range comp.Outputs() {
			r.shared.SetOutput(info)
			r.ensureOutputState(info)
		}
		r.restoreWallpapers(ctx)
		r.log.Info().Msg("reconnected to compositor")
		return nil
	}
}

// restoreWallpapers replays the output->wallpaper-kind map held in
// shared state (spec.md 4.9).
func (r *Reconciler) restoreWallpapers(ctx context.Context) {
	for name, wp := range r.shared.Wallpapers() {
		switch wp.Tag {
		case state.WallpaperColor:
			r.applyCommand(ctx, WallpaperCommand{Kind: CmdSetColor, Output: string(name), Color: wp.Color, Transition: &ipc.TransitionSpec{}})
		case state.WallpaperImage:
			r.applyCommand(ctx, WallpaperCommand{Kind: CmdSetWallpaper, Output: string(name), Path: wp.Path, Transition: &ipc.TransitionSpec{}})
		case state.WallpaperVideo:
			r.applyCommand(ctx, WallpaperCommand{Kind: CmdSetWallpaper, Output: string(name), Path: wp.Path, Transition: &ipc.TransitionSpec{}})
		case state.WallpaperShader:
			r.applyCommand(ctx, WallpaperCommand{Kind: CmdSetShader, Output: string(name), Shader: wp.Shader, Transition: &ipc.TransitionSpec{}})
		}
	}
}
