package scraper

// Page is the slice of rendered-browser behavior the watcher needs: drive
// the scroll position, read the document height, and hand back the full HTML
// once lazy loading is exhausted.
type Page interface {
	ScrollToBottom() error
	Height() (int, error)
	Content() (string, error)
	Close() error
}
