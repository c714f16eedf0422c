package proxy

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
)

type fakeExtractor struct {
	formats []Format
	err     error
}

func (f *fakeExtractor) Extract(ctx context.Context, videoID string) ([]Format, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.formats, nil
}

func videoOnly(height int, rawURL string) Format {
	return Format{Ext: "mp4", VCodec: "avc1.640028", ACodec: "none", Height: height, URL: rawURL}
}

func audioOnly(abr float64, rawURL string) Format {
	return Format{Ext: "m4a", VCodec: "none", ACodec: "mp4a.40.2", ABR: abr, URL: rawURL}
}

func TestResolve_orders_video_by_height_descending(t *testing.T) {
	ext := &fakeExtractor{formats: []Format{
		videoOnly(360, "https://cdn.example.com/v360"),
		videoOnly(1080, "https://cdn.example.com/v1080"),
		videoOnly(720, "https://cdn.example.com/v720"),
		audioOnly(128, "https://cdn.example.com/a128"),
	}}
	r := NewResolver(ext, testBase)

	opts, err := r.Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"1080", "720", "360"}
	if len(opts.VideoOptions) != len(want) {
		t.Fatalf("expected %d video options, got %d", len(want), len(opts.VideoOptions))
	}
	for i, res := range want {
		if opts.VideoOptions[i].Resolution != res {
			t.Errorf("position %d: expected resolution %s, got %s", i, res, opts.VideoOptions[i].Resolution)
		}
	}
}

func TestResolve_picks_highest_bitrate_audio(t *testing.T) {
	ext := &fakeExtractor{formats: []Format{
		videoOnly(720, "https://cdn.example.com/v720"),
		audioOnly(48, "https://cdn.example.com/a48"),
		audioOnly(128, "https://cdn.example.com/a128"),
		audioOnly(64, "https://cdn.example.com/a64"),
	}}
	r := NewResolver(ext, testBase)

	opts, err := r.Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := manifestProxyURL(testBase, "https://cdn.example.com/a128"); opts.AudioManifestBase != want {
		t.Errorf("expected best audio %s, got %s", want, opts.AudioManifestBase)
	}
}

func TestResolve_wraps_urls_as_manifest_proxy(t *testing.T) {
	ext := &fakeExtractor{formats: []Format{
		videoOnly(1080, "https://cdn.example.com/videoplayback?sig=a%2Fb"),
		audioOnly(128, "https://cdn.example.com/a128"),
	}}
	r := NewResolver(ext, testBase)

	opts, err := r.Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := url.Parse(opts.VideoOptions[0].URL)
	if err != nil {
		t.Fatalf("video option is not a URL: %v", err)
	}
	if u.Path != "/proxy/manifest" {
		t.Errorf("expected manifest proxy path, got %s", u.Path)
	}
	if got := u.Query().Get("url"); got != "https://cdn.example.com/videoplayback?sig=a%2Fb" {
		t.Errorf("decoded origin URL mismatch: %q", got)
	}
}

func TestResolve_missing_height_sorts_last(t *testing.T) {
	ext := &fakeExtractor{formats: []Format{
		videoOnly(0, "https://cdn.example.com/vunknown"),
		videoOnly(480, "https://cdn.example.com/v480"),
		audioOnly(128, "https://cdn.example.com/a128"),
	}}
	r := NewResolver(ext, testBase)

	opts, err := r.Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.VideoOptions[0].Resolution != "480" || opts.VideoOptions[1].Resolution != "0" {
		t.Errorf("expected unknown height last, got %+v", opts.VideoOptions)
	}
}

func TestResolve_no_video_candidates(t *testing.T) {
	ext := &fakeExtractor{formats: []Format{
		audioOnly(128, "https://cdn.example.com/a128"),
		// combined rendition is not video-only
		{Ext: "mp4", VCodec: "avc1", ACodec: "mp4a", Height: 720, URL: "https://cdn.example.com/muxed"},
	}}
	r := NewResolver(ext, testBase)

	if _, err := r.Resolve(context.Background(), "abc123"); !errors.Is(err, ErrNoStreams) {
		t.Errorf("expected ErrNoStreams, got %v", err)
	}
}

func TestResolve_no_audio_candidates(t *testing.T) {
	ext := &fakeExtractor{formats: []Format{
		videoOnly(720, "https://cdn.example.com/v720"),
	}}
	r := NewResolver(ext, testBase)

	if _, err := r.Resolve(context.Background(), "abc123"); !errors.Is(err, ErrNoStreams) {
		t.Errorf("expected ErrNoStreams, got %v", err)
	}
}

func TestResolve_extractor_failure(t *testing.T) {
	ext := &fakeExtractor{err: errors.New("extractor exploded")}
	r := NewResolver(ext, testBase)

	_, err := r.Resolve(context.Background(), "abc123")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNoStreams) {
		t.Error("extractor failure must not be reported as no streams")
	}
	if !strings.Contains(err.Error(), "extractor exploded") {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestResolveHLSAudio_picks_segmented_audio(t *testing.T) {
	ext := &fakeExtractor{formats: []Format{
		{Ext: "mp4", Protocol: "https", VCodec: "avc1", ACodec: "none", URL: "https://cdn.example.com/v"},
		{Ext: "mp4", Protocol: "m3u8_native", VCodec: "avc1", ACodec: "mp4a", URL: "https://cdn.example.com/muxed.m3u8"},
		{Ext: "m4a", Protocol: "m3u8_native", VCodec: "none", ACodec: "mp4a.40.2", URL: "https://cdn.example.com/audio.m3u8"},
	}}
	r := NewResolver(ext, testBase)

	f, err := r.ResolveHLSAudio(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.URL != "https://cdn.example.com/audio.m3u8" {
		t.Errorf("expected audio-only hls rendition, got %s", f.URL)
	}
}

func TestResolveHLSAudio_none_found(t *testing.T) {
	ext := &fakeExtractor{formats: []Format{
		{Ext: "m4a", Protocol: "https", VCodec: "none", ACodec: "mp4a.40.2", URL: "https://cdn.example.com/direct-audio"},
	}}
	r := NewResolver(ext, testBase)

	if _, err := r.ResolveHLSAudio(context.Background(), "abc123"); !errors.Is(err, ErrNoHLSAudio) {
		t.Errorf("expected ErrNoHLSAudio, got %v", err)
	}
}
