package ports

// LineSink accepts status lines for the foreground display. Post must be
// safe to call from any goroutine and must not touch display state directly.
type LineSink interface {
	Post(text string)
}
