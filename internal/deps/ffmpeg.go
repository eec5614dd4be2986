package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckFFmpegForYtdlp reports the FFmpeg binary yt-dlp will use to merge
// separate video and audio renditions.
//
// Standalone yt-dlp builds prefer an ffmpeg that sits next to the yt-dlp
// executable and fall back to PATH. FFmpeg is optional: without it yt-dlp can
// still fetch single-file renditions.
func CheckFFmpegForYtdlp(ytdlpCommand string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Used by yt-dlp to merge video and audio streams",
		Optional:    true,
	}

	if binary := strings.TrimSpace(ytdlpCommand); binary != "" {
		if resolved, err := exec.LookPath(binary); err == nil {
			candidate := sidecarCandidate(resolved)
			if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
				result.Command = candidate
				result.Available = true
				return result
			}
		}
	}

	ffmpegName := "ffmpeg"
	if ffmpegPath, err := exec.LookPath(ffmpegName); err == nil {
		result.Command = ffmpegPath
		result.Available = true
		return result
	}

	result.Command = ffmpegName
	result.Detail = fmt.Sprintf("binary %q not found", ffmpegName)
	return result
}

func sidecarCandidate(ytdlpPath string) string {
	name := "ffmpeg"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(ytdlpPath), name)
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
