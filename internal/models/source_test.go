package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMediaSourceWireForm(t *testing.T) {
	src := NewLocalSource("/data/clip.mp4", 4096)
	data, err := json.Marshal(src)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"type":"local"`) {
		t.Fatalf("expected flat tagged object, got %s", data)
	}

	var back MediaSource
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Type != SourceLocal || back.Local == nil || back.Online != nil {
		t.Fatalf("wrong variant decoded: %+v", back)
	}
	if back.Local.Path != "/data/clip.mp4" || back.Local.FileSize != 4096 {
		t.Fatalf("fields lost in round trip: %+v", back.Local)
	}
}

func TestMediaSourceRejectsUnknownType(t *testing.T) {
	var src MediaSource
	err := src.UnmarshalJSON([]byte(`{"type":"torrent","url":"magnet:x"}`))
	if err == nil || !strings.Contains(err.Error(), "unknown type") {
		t.Fatalf("expected unknown type error, got %v", err)
	}

	bad := MediaSource{Type: "torrent"}
	if _, err := json.Marshal(bad); err == nil {
		t.Fatal("expected marshal of unknown variant to fail")
	}
}

func TestFileSizeFollowsVariant(t *testing.T) {
	local := MediaItem{Source: NewLocalSource("/a", 10)}
	if local.FileSize() != 10 {
		t.Fatalf("local size: got %d", local.FileSize())
	}
	online := MediaItem{Source: NewOnlineSource(PlatformYouTube, "https://youtu.be/x")}
	if online.FileSize() != 0 {
		t.Fatalf("uncached online size: got %d", online.FileSize())
	}
	online.Source.Online.FileSize = 77
	if online.FileSize() != 77 {
		t.Fatalf("cached online size: got %d", online.FileSize())
	}
}
