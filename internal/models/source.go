package models

import (
	"encoding/json"
	"fmt"
)

// SourceType discriminates the media source union.
type SourceType string

const (
	SourceLocal  SourceType = "local"
	SourceOnline SourceType = "online"
)

// Platform names the origin site of an online source.
type Platform string

const (
	PlatformBilibili Platform = "bilibili"
	PlatformYouTube  Platform = "youtube"
	PlatformOther    Platform = "other"
)

// LocalFileSource is a media file on disk.
type LocalFileSource struct {
	Path     string `json:"path"`
	FileSize int64  `json:"fileSize"`
}

// OnlineSource is a media URL, optionally cached to disk once the
// worker has downloaded it.
type OnlineSource struct {
	Platform      Platform `json:"platform"`
	URL           string   `json:"url"`
	OriginalTitle string   `json:"originalTitle,omitempty"`
	Uploader      string   `json:"uploader,omitempty"`
	UploadDate    string   `json:"uploadDate,omitempty"`
	CachedPath    string   `json:"cachedPath,omitempty"`
	FileSize      int64    `json:"fileSize,omitempty"`
}

// MediaSource is a closed sum over local and online origins. Exactly
// one variant pointer is set, matching Type. On the wire it is the
// flat tagged object {"type":"local",...} / {"type":"online",...}.
type MediaSource struct {
	Type   SourceType
	Local  *LocalFileSource
	Online *OnlineSource
}

// NewLocalSource builds a local-file source.
func NewLocalSource(path string, size int64) MediaSource {
	return MediaSource{Type: SourceLocal, Local: &LocalFileSource{Path: path, FileSize: size}}
}

// NewOnlineSource builds an online source.
func NewOnlineSource(platform Platform, url string) MediaSource {
	return MediaSource{Type: SourceOnline, Online: &OnlineSource{Platform: platform, URL: url}}
}

type localSourceWire struct {
	Type SourceType `json:"type"`
	LocalFileSource
}

type onlineSourceWire struct {
	Type SourceType `json:"type"`
	OnlineSource
}

// MarshalJSON flattens the active variant into the tagged wire form.
func (s MediaSource) MarshalJSON() ([]byte, error) {
	switch s.Type {
	case SourceLocal:
		v := localSourceWire{Type: SourceLocal}
		if s.Local != nil {
			v.LocalFileSource = *s.Local
		}
		return json.Marshal(v)
	case SourceOnline:
		v := onlineSourceWire{Type: SourceOnline}
		if s.Online != nil {
			v.OnlineSource = *s.Online
		}
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("media source: unknown type %q", s.Type)
	}
}

// UnmarshalJSON picks the variant by the "type" discriminant.
func (s *MediaSource) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type SourceType `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("media source: %w", err)
	}
	switch tag.Type {
	case SourceLocal:
		var v localSourceWire
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("media source: %w", err)
		}
		*s = MediaSource{Type: SourceLocal, Local: &v.LocalFileSource}
	case SourceOnline:
		var v onlineSourceWire
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("media source: %w", err)
		}
		*s = MediaSource{Type: SourceOnline, Online: &v.OnlineSource}
	default:
		return fmt.Errorf("media source: unknown type %q", tag.Type)
	}
	return nil
}

// MetaKind discriminates video from audio technical metadata.
type MetaKind string

const (
	MetaVideo MetaKind = "video"
	MetaAudio MetaKind = "audio"
)

// MediaMeta carries technical metadata for either kind. Fields not
// matching Kind are zero and omitted on the wire.
type MediaMeta struct {
	Kind MetaKind `json:"kind"`

	// video
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	Framerate float64 `json:"framerate,omitempty"`

	// audio
	SampleRate int `json:"sampleRate,omitempty"`
	Channels   int `json:"channels,omitempty"`

	Codec   string `json:"codec,omitempty"`
	Bitrate int    `json:"bitrate,omitempty"`
}
