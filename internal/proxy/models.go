package proxy

// Format describes one rendition reported by the extraction service.
// Field names and JSON tags mirror the yt-dlp single-JSON dump.
type Format struct {
	FormatID string  `json:"format_id"`
	Ext      string  `json:"ext"`
	Protocol string  `json:"protocol"`
	VCodec   string  `json:"vcodec"`
	ACodec   string  `json:"acodec"`
	Height   int     `json:"height"`
	ABR      float64 `json:"abr"`
	URL      string  `json:"url"`
}

// hasVideo reports whether the rendition carries a video track.
// The extractor reports the literal string "none" for absent codecs.
func (f Format) hasVideo() bool { return f.VCodec != "none" }

// hasAudio reports whether the rendition carries an audio track.
func (f Format) hasAudio() bool { return f.ACodec != "none" }

// VideoOption is one selectable video-only rendition exposed to the
// client, wrapped as a manifest proxy URL.
type VideoOption struct {
	Resolution string `json:"resolution"`
	URL        string `json:"url"`
}

// StreamOptions is the result of resolving a source identifier:
// every eligible video rendition ordered by resolution descending,
// plus the single best audio rendition. Built fresh per request and
// never persisted.
type StreamOptions struct {
	VideoOptions      []VideoOption `json:"videoOptions"`
	AudioManifestBase string        `json:"audioManifestBase"`
}
