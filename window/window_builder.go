package window

// WindowBuilderOption is a functional option used to configure a Window during construction.
type WindowBuilderOption func(*windowImpl)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: a function that sets the title for this window
func WithTitle(title string) WindowBuilderOption {
	return func(w *windowImpl) {
		w.title = title
	}
}

// WithSize sets the initial window size.
//
// Parameters:
//   - width: the initial width in pixels
//   - height: the initial height in pixels
//
// Returns:
//   - WindowBuilderOption: a function that sets the size for this window
func WithSize(width, height int) WindowBuilderOption {
	return func(w *windowImpl) {
		w.width = width
		w.height = height
	}
}
