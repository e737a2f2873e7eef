package driven

// SourceWatcher notifies about changes to the weight and price inputs so
// watch mode can recalculate. Backed by a filesystem watcher.
type SourceWatcher interface {
	// Changes delivers the path that changed. Bursts of events for the
	// same underlying edit are coalesced by the implementation.
	Changes() <-chan string

	// Close stops watching and closes the Changes channel.
	Close() error
}
