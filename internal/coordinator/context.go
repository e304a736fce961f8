package coordinator

import "github.com/philipparndt/armeasure/internal/xr"

// Context is the state shared by the frame callback and the input handlers
type Context struct {
	Session xr.Session
	Space   xr.Space

	// Tracking is set while a session is running
	Tracking bool
	// Measuring is set between "begin measuring" and the completing point
	Measuring bool
	// Unsupported is set when AR or hit-testing cannot be offered on this device
	Unsupported bool

	// Err is the last reported failure, if any
	Err error
}

// Readout receives the numeric distance display
type Readout interface {
	SetReadout(text string)
}

// ReadoutFunc adapts a function to Readout
type ReadoutFunc func(text string)

// SetReadout implements Readout
func (f ReadoutFunc) SetReadout(text string) {
	f(text)
}
