package domain

// ContainerType identifies the kind of container a run of tracks came from.
// The wire protocol reserves -1 for values this build does not know about, so
// future container kinds decode to ContainerUnrecognized instead of failing.
type ContainerType int32

const (
	ContainerUnrecognized ContainerType = -1

	ContainerDefault ContainerType = iota - 1
	ContainerAlbum
	ContainerLive
	ContainerMix
	ContainerPersonal
	ContainerPlaylist
	ContainerPodcast
	ContainerRecommended
	ContainerShuffleMyMusic
	ContainerSmartTracklist
	ContainerTopTracks
)

// ContainerTypeFromWire maps a wire enum value to a ContainerType.
// Values outside the known range map to ContainerUnrecognized.
func ContainerTypeFromWire(v int32) ContainerType {
	if v < int32(ContainerDefault) || v > int32(ContainerTopTracks) {
		return ContainerUnrecognized
	}
	return ContainerType(v)
}

// String returns a human-readable representation of the container type.
func (t ContainerType) String() string {
	switch t {
	case ContainerDefault:
		return "default"
	case ContainerAlbum:
		return "album"
	case ContainerLive:
		return "live"
	case ContainerMix:
		return "mix"
	case ContainerPersonal:
		return "personal"
	case ContainerPlaylist:
		return "playlist"
	case ContainerPodcast:
		return "podcast"
	case ContainerRecommended:
		return "recommended"
	case ContainerShuffleMyMusic:
		return "shuffle_my_music"
	case ContainerSmartTracklist:
		return "smart_tracklist"
	case ContainerTopTracks:
		return "top_tracks"
	default:
		return "unrecognized"
	}
}

// MixType identifies the flavor of a mix container.
type MixType int32

const (
	MixUnrecognized MixType = -1

	MixAlbum MixType = iota - 1
	MixArtist
	MixCharts
	MixFamily
	MixGenre
	MixHistory
	MixPlaylist
	MixSearch
	MixSong
	MixUser
	MixOffline
)

// MixTypeFromWire maps a wire enum value to a MixType.
// Values outside the known range map to MixUnrecognized.
func MixTypeFromWire(v int32) MixType {
	if v < int32(MixAlbum) || v > int32(MixOffline) {
		return MixUnrecognized
	}
	return MixType(v)
}

// String returns a human-readable representation of the mix type.
func (t MixType) String() string {
	switch t {
	case MixAlbum:
		return "album"
	case MixArtist:
		return "artist"
	case MixCharts:
		return "charts"
	case MixFamily:
		return "family"
	case MixGenre:
		return "genre"
	case MixHistory:
		return "history"
	case MixPlaylist:
		return "playlist"
	case MixSearch:
		return "search"
	case MixSong:
		return "song"
	case MixUser:
		return "user"
	case MixOffline:
		return "offline"
	default:
		return "unrecognized"
	}
}

// TopTracksType identifies the flavor of a top-tracks container.
type TopTracksType int32

const (
	TopTracksUnrecognized TopTracksType = -1
	TopTracksArtist       TopTracksType = 0
)

// TopTracksTypeFromWire maps a wire enum value to a TopTracksType.
func TopTracksTypeFromWire(v int32) TopTracksType {
	if v != int32(TopTracksArtist) {
		return TopTracksUnrecognized
	}
	return TopTracksArtist
}

// String returns a human-readable representation of the top-tracks type.
func (t TopTracksType) String() string {
	if t == TopTracksArtist {
		return "artist"
	}
	return "unrecognized"
}

// Container describes where a run of tracks came from.
// Mix, SmartTracklistMethod and TopTracks are only present for the matching
// container types; a nil pointer means the controller did not send the field,
// which is distinct from an explicit zero value.
type Container struct {
	ContextID            string
	Type                 ContainerType
	Mix                  *MixType
	SmartTracklistMethod *string
	TopTracks            *TopTracksType
}
