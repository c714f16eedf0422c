package proxy

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Extractor resolves a source identifier into the renditions the
// upstream origin offers. Implementations query an external service
// and may take seconds; they must honor ctx cancellation.
type Extractor interface {
	Extract(ctx context.Context, videoID string) ([]Format, error)
}

// Resolver picks which upstream renditions the proxy exposes.
type Resolver struct {
	extractor Extractor
	baseURL   string
}

// NewResolver returns a Resolver that wraps selected rendition URLs
// as manifest proxy URLs rooted at baseURL.
func NewResolver(extractor Extractor, baseURL string) *Resolver {
	return &Resolver{extractor: extractor, baseURL: baseURL}
}

// Resolve returns every video-only MP4 rendition ordered by resolution
// descending, plus the highest-bitrate audio-only rendition, each
// wrapped as a manifest proxy URL. Missing height or bitrate sorts
// as zero. Returns ErrNoStreams when either list is empty.
func (r *Resolver) Resolve(ctx context.Context, videoID string) (*StreamOptions, error) {
	formats, err := r.extractor.Extract(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", videoID, err)
	}

	var videos, audios []Format
	for _, f := range formats {
		switch {
		case f.Ext == "mp4" && f.hasVideo() && !f.hasAudio():
			videos = append(videos, f)
		case (f.Ext == "m4a" || f.Ext == "mp4") && !f.hasVideo() && f.hasAudio():
			audios = append(audios, f)
		}
	}
	if len(videos) == 0 || len(audios) == 0 {
		return nil, ErrNoStreams
	}

	sort.SliceStable(videos, func(i, j int) bool { return videos[i].Height > videos[j].Height })
	sort.SliceStable(audios, func(i, j int) bool { return audios[i].ABR > audios[j].ABR })

	opts := &StreamOptions{
		VideoOptions:      make([]VideoOption, 0, len(videos)),
		AudioManifestBase: manifestProxyURL(r.baseURL, audios[0].URL),
	}
	for _, f := range videos {
		opts.VideoOptions = append(opts.VideoOptions, VideoOption{
			Resolution: strconv.Itoa(f.Height),
			URL:        manifestProxyURL(r.baseURL, f.URL),
		})
	}
	return opts, nil
}

// ResolveHLSAudio finds the first audio-only rendition delivered as an
// HLS playlist. Its URL points directly at a segmented manifest, so
// callers can rewrite and serve it without the manifest-proxy
// indirection. Returns ErrNoHLSAudio when no such rendition exists.
func (r *Resolver) ResolveHLSAudio(ctx context.Context, videoID string) (Format, error) {
	formats, err := r.extractor.Extract(ctx, videoID)
	if err != nil {
		return Format{}, fmt.Errorf("extract %s: %w", videoID, err)
	}
	for _, f := range formats {
		if strings.Contains(f.Protocol, "m3u8") && f.hasAudio() && !f.hasVideo() {
			return f, nil
		}
	}
	return Format{}, ErrNoHLSAudio
}
