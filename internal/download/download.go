// Package download fetches source videos with yt-dlp.
package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"
)

// ErrDownloadFailed indicates the source video was unreachable or restricted.
// It is pipeline-fatal and never retried.
var ErrDownloadFailed = errors.New("download: fetching video failed")

// Metadata is the source video metadata reported by yt-dlp.
type Metadata struct {
	// AuthorName is the uploader of the video.
	AuthorName string

	// Title is the title of the video.
	Title string

	// Description is the description of the video.
	Description string
}

// videoInfo is the subset of the yt-dlp info dict we read.
type videoInfo struct {
	Filename    string `json:"_filename"`
	Ext         string `json:"ext"`
	Uploader    string `json:"uploader"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewFetcher returns a Fetcher downloading into dir.
func NewFetcher(dir string) *Fetcher {
	return &Fetcher{
		dir: dir,
	}
}

type Fetcher struct {
	dir string
}

// Fetch downloads the video at url and returns the local file path and the
// video metadata. The caller owns removal of the returned file.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, Metadata, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return "", Metadata{}, fmt.Errorf("download: creating download dir: %w", err)
	}

	// Unique filename to avoid collisions between concurrent downloads.
	fileID := uuid.NewString()
	template := filepath.Join(f.dir, fileID+".%(ext)s")

	res, err := ytdlp.New().
		Format("best").
		NoPlaylist().
		Output(template).
		PrintJSON().
		Run(ctx, url)
	if err != nil {
		return "", Metadata{}, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	var info videoInfo
	if err := json.Unmarshal([]byte(infoLine(res.Stdout)), &info); err != nil {
		return "", Metadata{}, fmt.Errorf("download: parsing yt-dlp output: %w", err)
	}

	path := info.Filename
	if path == "" {
		ext := info.Ext
		if ext == "" {
			ext = "mp4"
		}
		path = strings.Replace(template, "%(ext)s", ext, 1)
	}
	if _, err := os.Stat(path); err != nil {
		return "", Metadata{}, fmt.Errorf("%w: downloaded file missing: %w", ErrDownloadFailed, err)
	}

	return path, Metadata{
		AuthorName:  info.Uploader,
		Title:       info.Title,
		Description: info.Description,
	}, nil
}

// infoLine returns the first JSON object line of yt-dlp stdout, skipping any
// progress output.
func infoLine(stdout string) string {
	for _, line := range strings.Split(stdout, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "{") {
			return line
		}
	}
	return stdout
}
