// Command momoictl is the thin control-socket client for momoid: every
// subcommand builds one ipc.Command, sends it over the Unix socket, and
// prints the resulting ipc.Response.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chikof/momoi/internal/ipc"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "momoictl",
		Short: "control momoid over its Unix socket",
	}

	root.AddCommand(
		newSetWallpaperCmd(),
		newSetColorCmd(),
		newSetShaderCmd(),
		newSetOverlayCmd(),
		newClearOverlayCmd(),
		newQueryCmd(),
		newListOutputsCmd(),
		newPingCmd(),
		newKillCmd(),
		newPlaylistNextCmd(),
		newPlaylistPrevCmd(),
		newPlaylistToggleShuffleCmd(),
		newGetResourcesCmd(),
		newSetPerformanceModeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// send connects, issues cmd, prints the response as JSON, and returns
// an error for RespError responses so cobra reports a non-zero exit.
func send(cmd ipc.Command) error {
	client, err := ipc.Dial(ipc.SocketPath())
	if err != nil {
		return fmt.Errorf("connect to momoid: %w", err)
	}
	defer client.Close()

	resp, err := client.Send(cmd.WithRequestID())
	if err != nil {
		return fmt.Errorf("send command: %w", err)
	}

	out, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Println(string(out))

	if resp.Type == ipc.RespError && resp.Error != nil {
		return fmt.Errorf("%s: %s", resp.Error.Kind, resp.Error.Message)
	}
	return nil
}

func outputFlag(cmd *cobra.Command) *string {
	var output string
	cmd.Flags().StringVar(&output, "output", "", "target output name, or all outputs when omitted")
	return &output
}

func transitionFlags(cmd *cobra.Command) func() *ipc.TransitionSpec {
	var kind string
	var durationMS uint32
	var angle float32
	cmd.Flags().StringVar(&kind, "transition", "", "transition kind (fade, wipe-left, wipe-right, wipe-top, wipe-bottom, wipe-angle, center, outer, random, none)")
	cmd.Flags().Uint32Var(&durationMS, "duration", 0, "transition duration in milliseconds (0 = instant swap)")
	cmd.Flags().Float32Var(&angle, "angle", 0, "wipe angle in degrees, for wipe-angle")
	return func() *ipc.TransitionSpec {
		if kind == "" && durationMS == 0 {
			return nil
		}
		return &ipc.TransitionSpec{Kind: kind, DurationMS: durationMS, AngleDegrees: angle}
	}
}

func newSetWallpaperCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-wallpaper <path>",
		Short: "set an image or video wallpaper",
		Args:  cobra.ExactArgs(1),
	}
	output := outputFlag(cmd)
	transitionOf := transitionFlags(cmd)
	var scale string
	cmd.Flags().StringVar(&scale, "scale", "", "scale mode (center, fill, fit, stretch, tile)")

	cmd.RunE = func(c *cobra.Command, args []string) error {
		return send(ipc.Command{
			Type:       ipc.CmdSetWallpaper,
			Path:       args[0],
			Output:     optionalString(*output),
			Transition: transitionOf(),
			Scale:      optionalString(scale),
		})
	}
	return cmd
}

func newSetColorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-color <hex>",
		Short: "set a solid-color wallpaper, e.g. #112233",
		Args:  cobra.ExactArgs(1),
	}
	output := outputFlag(cmd)
	transitionOf := transitionFlags(cmd)

	cmd.RunE = func(c *cobra.Command, args []string) error {
		return send(ipc.Command{
			Type:       ipc.CmdSetColor,
			Color:      args[0],
			Output:     optionalString(*output),
			Transition: transitionOf(),
		})
	}
	return cmd
}

func newSetShaderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-shader <name>",
		Short: "set a procedural shader wallpaper (plasma, waves, gradient, starfield, matrix)",
		Args:  cobra.ExactArgs(1),
	}
	output := outputFlag(cmd)
	transitionOf := transitionFlags(cmd)

	var speed, scale, intensity float32
	var count uint32
	var color1, color2, color3 string
	cmd.Flags().Float32Var(&speed, "speed", 0, "animation speed multiplier")
	cmd.Flags().StringVar(&color1, "color1", "", "first palette color, hex")
	cmd.Flags().StringVar(&color2, "color2", "", "second palette color, hex")
	cmd.Flags().StringVar(&color3, "color3", "", "third palette color, hex")
	cmd.Flags().Float32Var(&scale, "shader-scale", 0, "pattern scale")
	cmd.Flags().Float32Var(&intensity, "intensity", 0, "effect intensity")
	cmd.Flags().Uint32Var(&count, "count", 0, "feature count (e.g. starfield star count)")

	cmd.RunE = func(c *cobra.Command, args []string) error {
		return send(ipc.Command{
			Type:       ipc.CmdSetShader,
			Shader:     args[0],
			Output:     optionalString(*output),
			Transition: transitionOf(),
			Params: &ipc.ShaderParams{
				Speed:     optionalFloat32(speed),
				Color1:    optionalString(color1),
				Color2:    optionalString(color2),
				Color3:    optionalString(color3),
				Scale:     optionalFloat32(scale),
				Intensity: optionalFloat32(intensity),
				Count:     optionalUint32(count),
			},
		})
	}
	return cmd
}

func newSetOverlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-overlay <name>",
		Short: "apply a post-processing overlay (vignette, scanlines, film-grain, chromatic, crt, pixelate, tint)",
		Args:  cobra.ExactArgs(1),
	}
	output := outputFlag(cmd)

	var strength, intensity, lineWidth, offset, curvature, r, g, b float32
	var pixelSize uint32
	cmd.Flags().Float32Var(&strength, "strength", 0, "overlay strength")
	cmd.Flags().Float32Var(&intensity, "intensity", 0, "overlay intensity")
	cmd.Flags().Float32Var(&lineWidth, "line-width", 0, "scanline width")
	cmd.Flags().Float32Var(&offset, "offset", 0, "chromatic aberration offset")
	cmd.Flags().Float32Var(&curvature, "curvature", 0, "CRT screen curvature")
	cmd.Flags().Uint32Var(&pixelSize, "pixel-size", 0, "pixelate block size")
	cmd.Flags().Float32Var(&r, "r", 0, "tint red, 0-1")
	cmd.Flags().Float32Var(&g, "g", 0, "tint green, 0-1")
	cmd.Flags().Float32Var(&b, "b", 0, "tint blue, 0-1")

	cmd.RunE = func(c *cobra.Command, args []string) error {
		return send(ipc.Command{
			Type:    ipc.CmdSetOverlay,
			Overlay: args[0],
			Output:  optionalString(*output),
			OverlayParams: &ipc.OverlayParams{
				Strength:  optionalFloat32(strength),
				Intensity: optionalFloat32(intensity),
				LineWidth: optionalFloat32(lineWidth),
				Offset:    optionalFloat32(offset),
				Curvature: optionalFloat32(curvature),
				PixelSize: optionalUint32(pixelSize),
				R:         optionalFloat32(r),
				G:         optionalFloat32(g),
				B:         optionalFloat32(b),
			},
		})
	}
	return cmd
}

func newClearOverlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-overlay",
		Short: "remove the active overlay",
	}
	output := outputFlag(cmd)
	cmd.RunE = func(c *cobra.Command, args []string) error {
		return send(ipc.Command{Type: ipc.CmdClearOverlay, Output: optionalString(*output)})
	}
	return cmd
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "print daemon status and the current wallpaper per output",
	}
	output := outputFlag(cmd)
	cmd.RunE = func(c *cobra.Command, args []string) error {
		return send(ipc.Command{Type: ipc.CmdQuery, Output: optionalString(*output)})
	}
	return cmd
}

func newListOutputsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-outputs",
		Short: "list known compositor outputs",
		RunE: func(c *cobra.Command, args []string) error {
			return send(ipc.Command{Type: ipc.CmdListOutputs})
		},
	}
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "check that momoid is reachable",
		RunE: func(c *cobra.Command, args []string) error {
			return send(ipc.Command{Type: ipc.CmdPing})
		},
	}
}

func newKillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kill",
		Short: "ask momoid to exit",
		RunE: func(c *cobra.Command, args []string) error {
			return send(ipc.Command{Type: ipc.CmdKill})
		},
	}
}

func newPlaylistNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "playlist-next",
		Short: "advance the playlist to the next wallpaper",
		RunE: func(c *cobra.Command, args []string) error {
			return send(ipc.Command{Type: ipc.CmdPlaylistNext})
		},
	}
}

func newPlaylistPrevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "playlist-prev",
		Short: "move the playlist back to the previous wallpaper",
		RunE: func(c *cobra.Command, args []string) error {
			return send(ipc.Command{Type: ipc.CmdPlaylistPrev})
		},
	}
}

func newPlaylistToggleShuffleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "playlist-toggle-shuffle",
		Short: "toggle playlist shuffle order",
		RunE: func(c *cobra.Command, args []string) error {
			return send(ipc.Command{Type: ipc.CmdPlaylistToggleShuffle})
		},
	}
}

func newGetResourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-resources",
		Short: "print the daemon's own resource usage",
		RunE: func(c *cobra.Command, args []string) error {
			return send(ipc.Command{Type: ipc.CmdGetResources})
		},
	}
}

func newSetPerformanceModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-performance-mode <mode>",
		Short: "set the performance mode (balanced, performance, powersave, auto); requires tiering_enabled in config.toml",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return send(ipc.Command{Type: ipc.CmdSetPerformanceMode, Mode: args[0]})
		},
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalFloat32(v float32) *float32 {
	if v == 0 {
		return nil
	}
	return &v
}

func optionalUint32(v uint32) *uint32 {
	if v == 0 {
		return nil
	}
	return &v
}
