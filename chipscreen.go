package chipscreen

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"
	"time"

	"github.com/flavioheleno/chipscreen/image16bit"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/display"
)

// Errors reported by the driver. Transport failures are wrapped with
// their underlying cause.
var (
	// ErrNotConnected is returned when an operation requires a live
	// session, after Halt or Restart and before Startup is called again.
	ErrNotConnected = errors.New("chipscreen: not connected")

	// ErrImageTooLarge is returned when an image placement exceeds the
	// screen bounds in either axis.
	ErrImageTooLarge = errors.New("chipscreen: image exceeds screen bounds")

	// ErrBoundsTooLarge is returned when a set of points spreads over
	// more than a 256x256 window and cannot be offset-encoded.
	ErrBoundsTooLarge = errors.New("chipscreen: point spread exceeds 256x256 window")

	// ErrNoDevice is returned by FindPort when no screen is attached.
	ErrNoDevice = errors.New("chipscreen: no device found")
)

// Orientation selects how the panel maps the frame buffer onto the
// physical screen.
type Orientation byte

// Valid orientations.
const (
	Portrait         Orientation = 0
	ReversePortrait  Orientation = 1
	Landscape        Orientation = 2
	ReverseLandscape Orientation = 3
)

// String implements fmt.Stringer.
func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "Portrait"
	case ReversePortrait:
		return "ReversePortrait"
	case Landscape:
		return "Landscape"
	case ReverseLandscape:
		return "ReverseLandscape"
	default:
		return fmt.Sprintf("Orientation(%d)", byte(o))
	}
}

// Default pacing applied when Opts leaves a delay zero.
const (
	defaultFrameDelay   = 5 * time.Millisecond
	defaultRestartDelay = time.Second
	defaultImageDelay   = 10 * time.Millisecond
	defaultGraphDelay   = 5 * time.Millisecond
)

// Opts is the configuration for the screen.
type Opts struct {
	// Screen dimensions in pixels.
	W int // Width (default: 800, must be between 1 and 1024)
	H int // Height (default: 480, must be between 1 and 1024)

	// Panel placement applied during startup.
	Orientation Orientation // Frame buffer mapping mode
	Mirror      bool        // Horizontal mirroring

	// Pacing between transport writes. The panel has a small receive
	// buffer and no backpressure signal, so frames are spaced out
	// open-loop. Zero values select the defaults; shorter delays risk
	// dropped frames on real hardware.
	FrameDelay   time.Duration // After every frame (default: 5ms)
	RestartDelay time.Duration // After a restart command (default: 1s)
	ImageDelay   time.Duration // After an image raster write (default: 10ms)
	GraphDelay   time.Duration // After a whole bar or line graph (default: 5ms)

	// Logger receives debug and trace events. Nil disables logging.
	Logger *zerolog.Logger
}

// Dev is an open handle to the screen.
type Dev struct {
	mu sync.Mutex

	// Transport to the panel, exclusively owned.
	port io.Writer

	// Screen geometry.
	rect image.Rectangle

	// Placement applied during startup.
	orientation Orientation
	mirror      bool

	// Pacing.
	frameDelay   time.Duration
	restartDelay time.Duration
	imageDelay   time.Duration
	graphDelay   time.Duration

	log zerolog.Logger

	// Session state. Drawing requires a live session; Halt and Restart
	// end it, Startup re-establishes it.
	connected bool
}

var _ display.Drawer = &Dev{}

// New returns a Dev that sends frames over an already-open transport.
// It initializes the screen: the assert-ready command is sent, followed
// by the mirror and orientation frames, leaving the session connected.
//
// The transport must deliver exclusive, ordered, blocking writes to the
// panel. Use NewSerial to open the USB serial port directly.
//
// opts can be nil to use defaults (800x480, reverse landscape).
func New(port io.Writer, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{W: 800, H: 480, Orientation: ReverseLandscape}
	}

	if opts.W <= 0 || opts.W > 1024 {
		return nil, errors.New("chipscreen: width must be between 1 and 1024")
	}
	if opts.H <= 0 || opts.H > 1024 {
		return nil, errors.New("chipscreen: height must be between 1 and 1024")
	}
	if opts.Orientation > ReverseLandscape {
		return nil, errors.New("chipscreen: invalid orientation")
	}

	d := &Dev{
		port:         port,
		rect:         image.Rect(0, 0, opts.W, opts.H),
		orientation:  opts.Orientation,
		mirror:       opts.Mirror,
		frameDelay:   opts.FrameDelay,
		restartDelay: opts.RestartDelay,
		imageDelay:   opts.ImageDelay,
		graphDelay:   opts.GraphDelay,
		log:          zerolog.Nop(),
	}
	if opts.Logger != nil {
		d.log = *opts.Logger
	}
	if d.frameDelay == 0 {
		d.frameDelay = defaultFrameDelay
	}
	if d.restartDelay == 0 {
		d.restartDelay = defaultRestartDelay
	}
	if d.imageDelay == 0 {
		d.imageDelay = defaultImageDelay
	}
	if d.graphDelay == 0 {
		d.graphDelay = defaultGraphDelay
	}

	if err := d.Startup(); err != nil {
		return nil, err
	}
	return d, nil
}

// Startup asserts the panel ready and applies the configured mirror and
// orientation. New calls it automatically; call it again to wake the
// panel after Halt.
func (d *Dev) Startup() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.connected = true
	if err := d.startup(); err != nil {
		d.connected = false
		return err
	}
	return nil
}

func (d *Dev) startup() error {
	if err := d.sendCommand(cmdStartup, 0, 0, 0, 0); err != nil {
		return err
	}
	if err := d.writeFrame(mirrorFrame(d.mirror)); err != nil {
		return err
	}
	if err := d.writeFrame(orientationFrame(d.orientation, d.rect.Dx(), d.rect.Dy())); err != nil {
		return err
	}
	d.log.Debug().
		Int("width", d.rect.Dx()).
		Int("height", d.rect.Dy()).
		Stringer("orientation", d.orientation).
		Bool("mirror", d.mirror).
		Msg("screen ready")
	return nil
}

// Halt turns the panel off and ends the session. Drawing operations
// return ErrNotConnected until Startup is called again.
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.sendCommand(cmdShutdown, 0, 0, 0, 0); err != nil {
		return err
	}
	d.connected = false
	d.log.Debug().Msg("panel halted")
	return nil
}

// Restart reboots the panel firmware and ends the session. The panel
// takes on the order of a second to come back and the USB port may
// re-enumerate, so callers typically reopen the transport afterwards
// rather than reuse this Dev.
func (d *Dev) Restart() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.sendCommand(cmdRestart, 0, 0, 0, 0); err != nil {
		return err
	}
	d.connected = false
	d.pace(d.restartDelay)
	d.log.Debug().Msg("panel restarted")
	return nil
}

// Close ends the session and releases the transport when it implements
// io.Closer. The panel itself is left as-is; call Halt first to turn it
// off.
func (d *Dev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.connected = false
	if c, ok := d.port.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("chipscreen: close: %w", err)
		}
	}
	return nil
}

// SetBrightness sets the backlight level on the panel's raw 0-255
// scale.
func (d *Dev) SetBrightness(level int) error {
	if level < 0 || level > 255 {
		return errors.New("chipscreen: brightness must be between 0 and 255")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.log.Debug().Int("level", level).Msg("set brightness")
	return d.sendCommand(cmdBrightness, level, 0, 0, 0)
}

// SetOrientation switches the frame buffer mapping mode. The command
// carries the configured screen dimensions alongside the mode.
func (d *Dev) SetOrientation(o Orientation) error {
	if o > ReverseLandscape {
		return errors.New("chipscreen: invalid orientation")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.writeFrame(orientationFrame(o, d.rect.Dx(), d.rect.Dy())); err != nil {
		return err
	}
	d.orientation = o
	d.log.Debug().Stringer("orientation", o).Msg("set orientation")
	return nil
}

// SetMirror enables or disables horizontal mirroring.
func (d *Dev) SetMirror(mirror bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.writeFrame(mirrorFrame(mirror)); err != nil {
		return err
	}
	d.mirror = mirror
	d.log.Debug().Bool("mirror", mirror).Msg("set mirror")
	return nil
}

// ColorModel returns the screen's native color model.
// It implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image16bit.RGB565Model
}

// Bounds returns the size of the screen.
// It implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("chipscreen.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// sendCommand packs and sends one compact-header command.
// Callers must hold d.mu.
func (d *Dev) sendCommand(code byte, left, top, right, bottom int) error {
	var frame [compactHeaderLen]byte
	packCompact(frame[:], code, left, top, right, bottom)
	return d.writeFrame(frame[:])
}

// writeFrame writes one frame and waits the per-frame delay.
// Callers must hold d.mu.
func (d *Dev) writeFrame(frame []byte) error {
	if err := d.write(frame); err != nil {
		return err
	}
	d.pace(d.frameDelay)
	return nil
}

// write pushes raw bytes to the transport. Callers must hold d.mu.
func (d *Dev) write(buf []byte) error {
	if !d.connected {
		return ErrNotConnected
	}
	n, err := d.port.Write(buf)
	if err != nil {
		return fmt.Errorf("chipscreen: write: %w", err)
	}
	if n != len(buf) {
		return fmt.Errorf("chipscreen: short write: %d of %d bytes", n, len(buf))
	}
	d.log.Trace().Int("len", n).Msg("wrote")
	return nil
}

// pace sleeps between writes. The panel offers no flow control, so
// pacing is the only guard against overrunning its receive buffer.
func (d *Dev) pace(delay time.Duration) {
	if delay > 0 {
		time.Sleep(delay)
	}
}
