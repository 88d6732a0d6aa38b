package playback

// Config holds the playback module configuration.
type Config struct {
	// EventBufferSize bounds the module event bus channels.
	EventBufferSize int `env:"RESOUND_PLAYBACK_EVENT_BUFFER" envDefault:"64"`
}
