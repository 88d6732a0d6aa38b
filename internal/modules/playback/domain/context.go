package domain

// ContextLog carries free-form provenance information for telemetry.
// It never affects playback decisions.
type ContextLog struct {
	ContextID        string
	ListeningContext string
}

// Context is the provenance of a run of tracks: the container they were
// queued from plus its telemetry log.
type Context struct {
	Container Container
	Log       ContextLog
}
