package domain

// MediaType identifies the kind of media a track refers to.
type MediaType int32

const (
	MediaUnrecognized MediaType = -1

	MediaSong MediaType = iota - 1
	MediaChapter
	MediaEpisode
	MediaLive
)

// MediaTypeFromWire maps a wire enum value to a MediaType.
// Values outside the known range map to MediaUnrecognized.
func MediaTypeFromWire(v int32) MediaType {
	if v < int32(MediaSong) || v > int32(MediaLive) {
		return MediaUnrecognized
	}
	return MediaType(v)
}

// String returns a human-readable representation of the media type.
func (t MediaType) String() string {
	switch t {
	case MediaSong:
		return "song"
	case MediaChapter:
		return "chapter"
	case MediaEpisode:
		return "episode"
	case MediaLive:
		return "live"
	default:
		return "unrecognized"
	}
}

// Track is one entry of the queue's flat track sequence. ContextIndex is a
// zero-based reference into the owning queue's context sequence, validated at
// queue construction.
type Track struct {
	ID           string
	ContextIndex int
	MediaType    MediaType
}

// PlayedTrack is a track resolved through the effective playback sequence,
// paired with its owning context. This is what navigation queries return to
// the audio pipeline.
type PlayedTrack struct {
	Track          Track
	Context        Context
	EffectiveIndex int
}
