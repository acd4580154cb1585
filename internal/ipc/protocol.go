// Package ipc implements the daemon's control-plane protocol: tagged
// JSON commands and responses exchanged newline-delimited over a Unix
// domain socket, grounded on original_source/common/src/lib.rs's
// Command/Response enums.
//
// Go has no native tagged union; each Command/Response is encoded as a
// `type` discriminator string plus the variant's own fields flattened
// into the same JSON object (an internally tagged representation).
// No third-party JSON library is used: a single encoding/json
// Marshal/Unmarshal of the flat struct is sufficient for a low-volume,
// human-readable control-plane protocol (see DESIGN.md).
package ipc

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// ErrorKind is the closed set of WallpaperError variants.
type ErrorKind string

const (
	ErrIO       ErrorKind = "io"
	ErrIPC      ErrorKind = "ipc"
	ErrWayland  ErrorKind = "wayland"
	ErrImage    ErrorKind = "image"
	ErrVideo    ErrorKind = "video"
	ErrNotFound ErrorKind = "not_found"

	// ErrNotImplemented is Go-native supplemental surface for
	// SetPerformanceMode's documented stub behavior (spec.md 9).
	ErrNotImplemented ErrorKind = "not_implemented"
)

// WallpaperError is the daemon's serializable error type.
type WallpaperError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *WallpaperError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, format string, args ...any) *WallpaperError {
	return &WallpaperError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// TransitionSpec mirrors the TransitionType enum, carrying the optional
// angle for WipeAngle and a duration shared by every non-None variant.
type TransitionSpec struct {
	Kind         string  `json:"kind"`
	DurationMS   uint32  `json:"duration_ms,omitempty"`
	AngleDegrees float32 `json:"angle_degrees,omitempty"`
}

// DefaultTransitionSpec mirrors TransitionType::default(): Fade{300ms}.
func DefaultTransitionSpec() TransitionSpec {
	return TransitionSpec{Kind: "fade", DurationMS: 300}
}

// ShaderParams mirrors common::ShaderParams exactly, using pointer
// fields for Rust's Option<T> fields.
type ShaderParams struct {
	Speed     *float32 `json:"speed,omitempty"`
	Color1    *string  `json:"color1,omitempty"`
	Color2    *string  `json:"color2,omitempty"`
	Color3    *string  `json:"color3,omitempty"`
	Scale     *float32 `json:"scale,omitempty"`
	Intensity *float32 `json:"intensity,omitempty"`
	Count     *uint32  `json:"count,omitempty"`
}

// OverlayParams mirrors common::OverlayParams.
type OverlayParams struct {
	Strength  *float32 `json:"strength,omitempty"`
	Intensity *float32 `json:"intensity,omitempty"`
	LineWidth *float32 `json:"line_width,omitempty"`
	Offset    *float32 `json:"offset,omitempty"`
	Curvature *float32 `json:"curvature,omitempty"`
	PixelSize *uint32  `json:"pixel_size,omitempty"`
	R         *float32 `json:"r,omitempty"`
	G         *float32 `json:"g,omitempty"`
	B         *float32 `json:"b,omitempty"`
}

// TintColor returns (r,g,b) when all three tint components are set.
func (p OverlayParams) TintColor() (r, g, b float32, ok bool) {
	if p.R == nil || p.G == nil || p.B == nil {
		return 0, 0, 0, false
	}
	return *p.R, *p.G, *p.B, true
}

// CommandKind enumerates the Command discriminator values.
type CommandKind string

const (
	CmdSetWallpaper          CommandKind = "set_wallpaper"
	CmdSetColor              CommandKind = "set_color"
	CmdSetShader             CommandKind = "set_shader"
	CmdSetOverlay            CommandKind = "set_overlay"
	CmdClearOverlay          CommandKind = "clear_overlay"
	CmdQuery                 CommandKind = "query"
	CmdKill                  CommandKind = "kill"
	CmdListOutputs           CommandKind = "list_outputs"
	CmdPing                  CommandKind = "ping"
	CmdPlaylistNext          CommandKind = "playlist_next"
	CmdPlaylistPrev          CommandKind = "playlist_prev"
	CmdPlaylistToggleShuffle CommandKind = "playlist_toggle_shuffle"
	CmdGetResources          CommandKind = "get_resources"
	CmdSetPerformanceMode    CommandKind = "set_performance_mode"
)

// Command is the envelope decoded from the wire: Type discriminates the
// variant, RequestID correlates request/response pairs (a Unix-socket
// request/response pair benefits from one even in a single-client
// session; see DESIGN.md), and the remaining fields are populated
// per-variant.
type Command struct {
	Type       CommandKind `json:"type"`
	RequestID  string      `json:"request_id,omitempty"`

	Path       string          `json:"path,omitempty"`
	Color      string          `json:"color,omitempty"`
	Shader     string          `json:"shader,omitempty"`
	Overlay    string          `json:"overlay,omitempty"`
	Output     *string         `json:"output,omitempty"`
	Transition *TransitionSpec `json:"transition,omitempty"`
	Scale      *string         `json:"scale,omitempty"`
	Params     *ShaderParams   `json:"params,omitempty"`
	OverlayParams *OverlayParams `json:"overlay_params,omitempty"`
	Mode       string          `json:"mode,omitempty"`
}

// WithRequestID stamps a fresh request ID if none is set, for clients
// that don't manage correlation themselves.
func (c Command) WithRequestID() Command {
	if c.RequestID == "" {
		c.RequestID = uuid.NewString()
	}
	return c
}

// ResponseKind enumerates the Response discriminator values.
type ResponseKind string

const (
	RespOk        ResponseKind = "ok"
	RespError     ResponseKind = "error"
	RespStatus    ResponseKind = "status"
	RespOutputs   ResponseKind = "outputs"
	RespPong      ResponseKind = "pong"
	RespResources ResponseKind = "resources"
)

// DaemonStatus mirrors common::DaemonStatus.
type DaemonStatus struct {
	Version            string             `json:"version"`
	UptimeSecs         uint64             `json:"uptime_secs"`
	CurrentWallpapers  []WallpaperStatus  `json:"current_wallpapers"`
}

// WallpaperStatus mirrors common::WallpaperStatus.
type WallpaperStatus struct {
	Output    string        `json:"output"`
	Wallpaper WallpaperInfo `json:"wallpaper"`
}

// WallpaperInfo mirrors the WallpaperType tagged enum.
type WallpaperInfo struct {
	Kind  string `json:"kind"` // "none" | "color" | "image" | "video" | "shader"
	Value string `json:"value,omitempty"`
}

// OutputInfo mirrors common::OutputInfo.
type OutputInfo struct {
	Name        string  `json:"name"`
	Width       uint32  `json:"width"`
	Height      uint32  `json:"height"`
	Scale       float64 `json:"scale"`
	RefreshRate *uint32 `json:"refresh_rate,omitempty"`
}

// ResourceStatus mirrors common::ResourceStatus.
type ResourceStatus struct {
	PerformanceMode string  `json:"performance_mode"`
	MemoryMB        uint64  `json:"memory_mb"`
	CPUPercent      float32 `json:"cpu_percent"`
	OnBattery       bool    `json:"on_battery"`
	BatteryPercent  *uint8  `json:"battery_percent,omitempty"`
}

// Response is the envelope sent back to the client.
type Response struct {
	Type      ResponseKind    `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Error     *WallpaperError `json:"error,omitempty"`
	Status    *DaemonStatus   `json:"status,omitempty"`
	Outputs   []OutputInfo    `json:"outputs,omitempty"`
	Resources *ResourceStatus `json:"resources,omitempty"`
}

func OkResponse(requestID string) Response {
	return Response{Type: RespOk, RequestID: requestID}
}

func ErrorResponse(requestID string, err *WallpaperError) Response {
	return Response{Type: RespError, RequestID: requestID, Error: err}
}

func PongResponse(requestID string) Response {
	return Response{Type: RespPong, RequestID: requestID}
}

func StatusResponse(requestID string, status DaemonStatus) Response {
	return Response{Type: RespStatus, RequestID: requestID, Status: &status}
}

func OutputsResponse(requestID string, outputs []OutputInfo) Response {
	return Response{Type: RespOutputs, RequestID: requestID, Outputs: outputs}
}

func ResourcesResponse(requestID string, resources ResourceStatus) Response {
	return Response{Type: RespResources, RequestID: requestID, Resources: &resources}
}

// Marshal/Unmarshal are thin wrappers kept for symmetry with the
// client/server's newline-delimited framing.
func MarshalCommand(c Command) ([]byte, error) { return json.Marshal(c) }
func UnmarshalCommand(b []byte) (Command, error) {
	var c Command
	err := json.Unmarshal(b, &c)
	return c, err
}
func MarshalResponse(r Response) ([]byte, error) { return json.Marshal(r) }
func UnmarshalResponse(b []byte) (Response, error) {
	var r Response
	err := json.Unmarshal(b, &r)
	return r, err
}

// SocketPath mirrors get_socket_path(): $XDG_RUNTIME_DIR/momoi.sock,
// falling back to /run/user/<uid>/momoi.sock.
func SocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir + "/momoi.sock"
	}
	return fmt.Sprintf("/run/user/%d/momoi.sock", os.Getuid())
}
