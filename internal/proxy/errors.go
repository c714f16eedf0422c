package proxy

import "errors"

var (
	// ErrNoStreams is returned when filtering leaves no eligible
	// video-only or no eligible audio-only rendition.
	ErrNoStreams = errors.New("no streams found")

	// ErrNoHLSAudio is returned when no audio-only rendition is
	// delivered as an HLS playlist.
	ErrNoHLSAudio = errors.New("no hls audio rendition")

	// ErrStreamInterrupted reports a relay failure after response
	// headers were already sent; the status can no longer change and
	// the only remedy is closing the connection.
	ErrStreamInterrupted = errors.New("stream interrupted")
)
