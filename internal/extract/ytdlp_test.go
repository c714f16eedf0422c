package extract

import (
	"testing"
)

const sampleDump = `{
  "id": "abc123",
  "title": "Example Trailer",
  "formats": [
    {
      "format_id": "140",
      "ext": "m4a",
      "protocol": "https",
      "vcodec": "none",
      "acodec": "mp4a.40.2",
      "height": null,
      "abr": 129.478,
      "url": "https://cdn.example.com/a140"
    },
    {
      "format_id": "137",
      "ext": "mp4",
      "protocol": "https",
      "vcodec": "avc1.640028",
      "acodec": "none",
      "height": 1080,
      "abr": null,
      "url": "https://cdn.example.com/v137"
    },
    {
      "format_id": "233",
      "ext": "mp4",
      "protocol": "m3u8_native",
      "vcodec": "none",
      "acodec": "mp4a.40.5",
      "height": null,
      "abr": null,
      "url": "https://cdn.example.com/audio.m3u8"
    }
  ]
}`

func TestParseFormats(t *testing.T) {
	formats, err := parseFormats([]byte(sampleDump))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(formats) != 3 {
		t.Fatalf("expected 3 formats, got %d", len(formats))
	}

	audio := formats[0]
	if audio.Ext != "m4a" || audio.VCodec != "none" || audio.ACodec != "mp4a.40.2" {
		t.Errorf("audio format mapped wrong: %+v", audio)
	}
	if audio.Height != 0 {
		t.Errorf("null height should decode to 0, got %d", audio.Height)
	}
	if audio.ABR != 129.478 {
		t.Errorf("expected abr 129.478, got %v", audio.ABR)
	}

	video := formats[1]
	if video.Height != 1080 || video.Protocol != "https" {
		t.Errorf("video format mapped wrong: %+v", video)
	}
	if video.URL != "https://cdn.example.com/v137" {
		t.Errorf("unexpected url: %s", video.URL)
	}

	hls := formats[2]
	if hls.Protocol != "m3u8_native" {
		t.Errorf("expected m3u8_native protocol, got %s", hls.Protocol)
	}
}

func TestParseFormats_invalid_json(t *testing.T) {
	if _, err := parseFormats([]byte("yt-dlp: error: not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseFormats_missing_formats_key(t *testing.T) {
	formats, err := parseFormats([]byte(`{"id": "abc123"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(formats) != 0 {
		t.Errorf("expected no formats, got %d", len(formats))
	}
}
