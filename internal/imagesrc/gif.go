package imagesrc

import (
	"context"
	"crypto/sha256"
	"fmt"
	"image/gif"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// IsAnimatedGIF checks the extension first for quick rejection, then opens
// the file and checks for more than one frame, matching
// original_source's gif_converter.rs is_animated_gif.
func IsAnimatedGIF(path string) (bool, error) {
	if strings.ToLower(filepath.Ext(path)) != ".gif" {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("imagesrc: open %s: %w", path, err)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return false, fmt.Errorf("imagesrc: decode gif %s: %w", path, err)
	}
	return len(g.Image) > 1, nil
}

// cacheDir returns the content-addressed cache directory for GIF
// transcodes: ${XDG_CACHE_HOME:-$HOME/.cache}/momoi/gif_conversions (spec.md 6).
func cacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("imagesrc: resolve cache dir: %w", err)
	}
	dir := filepath.Join(base, "momoi", "gif_conversions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("imagesrc: create cache dir: %w", err)
	}
	return dir, nil
}

// cacheKey derives a hash from the absolute path and modification time
// (spec.md 6).
func cacheKey(absPath string, modTime time.Time) string {
	h := sha256.New()
	h.Write([]byte(absPath))
	h.Write([]byte(modTime.Format(time.RFC3339Nano)))
	return fmt.Sprintf("%x", h.Sum(nil))[:32]
}

// ConvertGIFToWebM transcodes an animated GIF to VP9/WebM via ffmpeg,
// reusing a cached conversion keyed by (path, modtime) across daemon
// restarts (spec.md 4.3/6). Grounded on original_source's
// gif_converter.rs convert_gif_to_webm.
func ConvertGIFToWebM(ctx context.Context, gifPath string) (string, error) {
	absPath, err := filepath.Abs(gifPath)
	if err != nil {
		return "", fmt.Errorf("imagesrc: resolve path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("imagesrc: gif file does not exist: %w", err)
	}

	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	webmPath := filepath.Join(dir, cacheKey(absPath, info.ModTime())+".webm")

	if _, err := os.Stat(webmPath); err == nil {
		return webmPath, nil
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", absPath,
		"-c:v", "libvpx-vp9",
		"-crf", "30",
		"-b:v", "0",
		"-pix_fmt", "yuva420p",
		"-auto-alt-ref", "0",
		"-an",
		"-loglevel", "error",
		"-y",
		webmPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("imagesrc: ffmpeg conversion failed: %w: %s", err, string(out))
	}
	return webmPath, nil
}

// CleanupCache removes cached WebM files older than maxAge.
func CleanupCache(maxAge time.Duration) error {
	dir, err := cacheDir()
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("imagesrc: read cache dir: %w", err)
	}
	now := time.Now()
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".webm" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			_ = os.Remove(filepath.Join(dir, e.Name()))
		}
	}
	return nil
}
