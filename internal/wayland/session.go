package wayland

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strconv"
)

// Anchor is a bit set of surface edges to pin the overlay to.
type Anchor uint32

const (
	AnchorTop    Anchor = anchorTop
	AnchorBottom Anchor = anchorBottom
	AnchorLeft   Anchor = anchorLeft
	AnchorRight  Anchor = anchorRight
)

// Options configures surface negotiation.
type Options struct {
	Logger *slog.Logger

	// WindowMode forces a plain xdg-shell window instead of the overlay
	// layer. The session also falls back to this when the compositor has
	// no layer shell.
	WindowMode bool

	Title     string
	Namespace string

	// Screen selects the output to overlay: an index, an output name or
	// an output description. Empty lets the compositor choose.
	Screen string

	Anchor Anchor

	// Margins are top, right, bottom, left in surface-local pixels.
	Margins [4]int32

	// SurfaceSize maps the chosen screen's dimensions to the desired
	// surface size.
	SurfaceSize func(screenW, screenH int) (uint32, uint32)
}

// Fallback dimensions when no output reports a usable size, and the
// default for an xdg toplevel that leaves sizing to the client.
const (
	fallbackWidth  = 320
	fallbackHeight = 240
)

// Output is one advertised wl_output with whatever identifying
// information the compositor has sent so far.
type Output struct {
	registryName uint32
	id           uint32
	xdg          uint32

	Name        string
	Description string

	logicalW, logicalH int32
	modeW, modeH       int32
}

// dims prefers the xdg-output logical size over the raw mode.
func (o *Output) dims() (int, int) {
	if o.logicalW > 0 && o.logicalH > 0 {
		return int(o.logicalW), int(o.logicalH)
	}
	return int(o.modeW), int(o.modeH)
}

// Update is what one dispatched event meant for the caller.
type Update struct {
	// Configured: the surface finished a configure cycle and may be drawn.
	Configured bool
	// Resized: the configured size changed.
	Resized bool
	// FrameDone: the outstanding frame callback fired.
	FrameDone bool
	// BufferReleased: the server returned a buffer to the pool.
	BufferReleased bool
	// Closed: the compositor dismissed the surface; exit cleanly.
	Closed bool
}

// Session is the negotiated compositor session: bound globals, the
// overlay surface in its chosen role, and the buffer pool. All state is
// mutated from the caller's dispatch loop only.
type Session struct {
	conn   *Conn
	logger *slog.Logger
	opts   Options

	ifaces map[uint32]string

	registry          uint32
	compositor        uint32
	compositorVersion uint32
	shm               uint32
	wmBase            uint32
	layerShell        uint32
	outputMgr         uint32

	outputs []*Output
	target  *Output

	windowMode   bool
	surface      uint32
	layerSurface uint32
	xdgSurface   uint32
	toplevel     uint32

	pool *BufferPool

	width, height      int32
	pendingW, pendingH int32
	sizeSet            bool
	frameCallback      uint32
	pendingSync        uint32
}

// Connect dials the compositor, binds the globals the overlay needs,
// discovers outputs and creates the surface in overlay or window mode.
// On return the surface is committed and awaiting its first configure.
func Connect(opts Options) (*Session, error) {
	conn, err := Dial(opts.Logger)
	if err != nil {
		return nil, err
	}
	s := &Session{
		conn:   conn,
		logger: opts.Logger,
		opts:   opts,
		ifaces: map[uint32]string{displayID: "wl_display"},
	}
	s.pool = newBufferPool(conn, 0, opts.Logger, s.registerObject, s.dropObject)

	if err := s.setup(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) setup() error {
	s.registry = s.newObject(ifaceRegistry)
	if err := s.conn.send(newRequest(displayID, opDisplayGetRegistry).putUint(s.registry)); err != nil {
		return err
	}
	if err := s.roundtrip(); err != nil {
		return err
	}
	if s.compositor == 0 || s.shm == 0 || s.wmBase == 0 {
		return errors.New("compositor is missing a required global (wl_compositor, wl_shm or xdg_wm_base)")
	}
	s.pool.shm = s.shm

	// A second roundtrip drains the initial bursts from the outputs bound
	// above, including xdg-output metadata.
	for _, o := range s.outputs {
		s.bindXdgOutput(o)
	}
	if err := s.roundtrip(); err != nil {
		return err
	}
	s.logger.Info("wayland globals bound", "outputs", len(s.outputs), "layer_shell", s.layerShell != 0)
	for i, o := range s.outputs {
		w, h := o.dims()
		s.logger.Debug("output", "index", i, "name", o.Name, "description", o.Description, "width", w, "height", h)
	}

	s.selectOutput()

	s.surface = s.newObject(ifaceSurface)
	if err := s.conn.send(newRequest(s.compositor, opCompositorCreateSurface).putUint(s.surface)); err != nil {
		return err
	}

	if !s.opts.WindowMode && s.layerShell != 0 {
		if err := s.setupLayerSurface(); err != nil {
			return err
		}
	} else {
		if !s.opts.WindowMode {
			s.logger.Warn("compositor has no layer shell, falling back to a regular window")
		}
		if err := s.setupWindow(); err != nil {
			return err
		}
	}
	if err := s.conn.send(newRequest(s.surface, opSurfaceCommit)); err != nil {
		return err
	}
	if s.layerSurface != 0 {
		s.attemptInitialSize()
	}
	return nil
}

func (s *Session) setupLayerSurface() error {
	s.layerSurface = s.newObject(ifaceLayerSurface)
	req := newRequest(s.layerShell, opLayerShellGetLayerSurface).
		putUint(s.layerSurface).
		putUint(s.surface)
	if s.target != nil {
		req.putUint(s.target.id)
	} else {
		req.putUint(0) // compositor chooses the output
	}
	req.putUint(layerOverlay).putString(s.opts.Namespace)
	if err := s.conn.send(req); err != nil {
		return err
	}

	if err := s.conn.send(newRequest(s.layerSurface, opLayerSurfaceSetAnchor).putUint(uint32(s.opts.Anchor))); err != nil {
		return err
	}
	m := s.opts.Margins
	if err := s.conn.send(newRequest(s.layerSurface, opLayerSurfaceSetMargin).
		putInt(m[0]).putInt(m[1]).putInt(m[2]).putInt(m[3])); err != nil {
		return err
	}
	if err := s.conn.send(newRequest(s.layerSurface, opLayerSurfaceSetKeyboardInteractivity).putUint(keyboardInteractivityNone)); err != nil {
		return err
	}
	if err := s.conn.send(newRequest(s.layerSurface, opLayerSurfaceSetExclusiveZone).putInt(0)); err != nil {
		return err
	}
	// Real dimensions follow once the target screen size is known.
	return s.conn.send(newRequest(s.layerSurface, opLayerSurfaceSetSize).putUint(1).putUint(1))
}

func (s *Session) setupWindow() error {
	s.windowMode = true
	s.xdgSurface = s.newObject(ifaceXdgSurface)
	if err := s.conn.send(newRequest(s.wmBase, opWmBaseGetXdgSurface).
		putUint(s.xdgSurface).
		putUint(s.surface)); err != nil {
		return err
	}
	s.toplevel = s.newObject(ifaceToplevel)
	if err := s.conn.send(newRequest(s.xdgSurface, opXdgSurfaceGetToplevel).putUint(s.toplevel)); err != nil {
		return err
	}
	if err := s.conn.send(newRequest(s.toplevel, opToplevelSetTitle).putString(s.opts.Title)); err != nil {
		return err
	}
	return s.conn.send(newRequest(s.toplevel, opToplevelSetAppID).putString(s.opts.Namespace))
}

// attemptInitialSize sizes the layer surface once screen dimensions are
// known. Called again from output events while the size is still unset.
func (s *Session) attemptInitialSize() {
	if s.sizeSet || s.layerSurface == 0 {
		return
	}
	screenW, screenH := fallbackWidth, fallbackHeight
	if s.target != nil {
		w, h := s.target.dims()
		if w <= 0 || h <= 0 {
			// The targeted output has not reported dimensions yet.
			return
		}
		screenW, screenH = w, h
	} else if o := s.firstSizedOutput(); o != nil {
		screenW, screenH = o.dims()
		s.target = o
	} else if len(s.outputs) > 0 {
		// Outputs exist but none has dimensions yet; wait for their done
		// events instead of committing a fallback size.
		return
	} else {
		s.logger.Warn("no output dimensions available, using fallback size", "width", screenW, "height", screenH)
	}

	w, h := s.opts.SurfaceSize(screenW, screenH)
	s.logger.Info("sizing layer surface", "width", w, "height", h, "screen_width", screenW, "screen_height", screenH)
	if err := s.conn.send(newRequest(s.layerSurface, opLayerSurfaceSetSize).putUint(w).putUint(h)); err != nil {
		return
	}
	if err := s.conn.send(newRequest(s.surface, opSurfaceCommit)); err != nil {
		return
	}
	s.sizeSet = true
}

func (s *Session) firstSizedOutput() *Output {
	for _, o := range s.outputs {
		if w, h := o.dims(); w > 0 && h > 0 {
			return o
		}
	}
	return nil
}

// selectOutput resolves Options.Screen against the discovered outputs by
// index first, then by exact name or description. No match leaves the
// choice to the compositor.
func (s *Session) selectOutput() {
	spec := s.opts.Screen
	if spec == "" {
		return
	}
	if idx, err := strconv.Atoi(spec); err == nil {
		if idx >= 0 && idx < len(s.outputs) {
			s.target = s.outputs[idx]
			s.logger.Info("selected output by index", "index", idx, "name", s.target.Name)
		} else {
			s.logger.Warn("screen index out of range, compositor will choose", "index", idx, "outputs", len(s.outputs))
		}
		return
	}
	for _, o := range s.outputs {
		if o.Name == spec || o.Description == spec {
			s.target = o
			s.logger.Info("selected output", "name", o.Name, "description", o.Description)
			return
		}
	}
	s.logger.Warn("screen not found by name or description, compositor will choose", "screen", spec)
}

// Events exposes the raw message stream; feed each message to Dispatch.
func (s *Session) Events() <-chan message {
	return s.conn.Events()
}

// Err reports why the event stream ended.
func (s *Session) Err() error {
	return s.conn.Err()
}

// WindowMode reports whether the session ended up as a plain window.
func (s *Session) WindowMode() bool {
	return s.windowMode
}

// Size is the current configured surface size.
func (s *Session) Size() (int, int) {
	return int(s.width), int(s.height)
}

// PoolSize is the number of shared memory bytes currently mapped.
func (s *Session) PoolSize() int {
	return s.pool.Size()
}

// roundtrip issues a wl_display.sync and handles events until its
// callback fires.
func (s *Session) roundtrip() error {
	s.pendingSync = s.newObject(ifaceCallback)
	if err := s.conn.send(newRequest(displayID, opDisplaySync).putUint(s.pendingSync)); err != nil {
		return err
	}
	for s.pendingSync != 0 {
		m, ok := <-s.conn.Events()
		if !ok {
			return s.conn.Err()
		}
		if _, err := s.Dispatch(m); err != nil {
			return err
		}
	}
	return nil
}

// Dispatch folds one compositor event into the session state and reports
// what it meant. A non-nil error is a protocol failure and fatal.
func (s *Session) Dispatch(m message) (Update, error) {
	var up Update
	a := argReader{data: m.Data}

	switch s.ifaces[m.Object] {
	case "wl_display":
		switch m.Opcode {
		case evDisplayError:
			object := a.uint()
			code := a.uint()
			text := a.string()
			return up, fmt.Errorf("wayland protocol error on %s (object %d, code %d): %s",
				s.ifaces[object], object, code, text)
		case evDisplayDeleteID:
			id := a.uint()
			delete(s.ifaces, id)
			s.conn.ReleaseID(id)
		}

	case ifaceRegistry:
		switch m.Opcode {
		case evRegistryGlobal:
			name := a.uint()
			iface := a.string()
			version := a.uint()
			if a.err == nil {
				s.handleGlobal(name, iface, version)
			}
		case evRegistryGlobalRemove:
			s.removeGlobal(a.uint())
		}

	case ifaceCallback:
		if m.Opcode == evCallbackDone {
			switch m.Object {
			case s.pendingSync:
				s.pendingSync = 0
			case s.frameCallback:
				s.frameCallback = 0
				up.FrameDone = true
			}
		}

	case ifaceBuffer:
		if m.Opcode == evBufferRelease {
			up.BufferReleased = s.pool.Release(m.Object)
		}

	case ifaceWmBase:
		if m.Opcode == evWmBasePing {
			serial := a.uint()
			if err := s.conn.send(newRequest(s.wmBase, opWmBasePong).putUint(serial)); err != nil {
				return up, err
			}
		}

	case ifaceLayerSurface:
		switch m.Opcode {
		case evLayerSurfaceConfigure:
			serial := a.uint()
			w := int32(a.uint())
			h := int32(a.uint())
			if err := s.conn.send(newRequest(s.layerSurface, opLayerSurfaceAckConfigure).putUint(serial)); err != nil {
				return up, err
			}
			up = s.applyConfigure(w, h)
		case evLayerSurfaceClosed:
			up.Closed = true
		}

	case ifaceXdgSurface:
		if m.Opcode == evXdgSurfaceConfigure {
			serial := a.uint()
			if err := s.conn.send(newRequest(s.xdgSurface, opXdgSurfaceAckConfigure).putUint(serial)); err != nil {
				return up, err
			}
			w, h := s.pendingW, s.pendingH
			if w <= 0 || h <= 0 {
				// The compositor left sizing to us.
				w, h = fallbackWidth, fallbackHeight
				if s.width > 0 && s.height > 0 {
					w, h = s.width, s.height
				}
			}
			up = s.applyConfigure(w, h)
		}

	case ifaceToplevel:
		switch m.Opcode {
		case evToplevelConfigure:
			s.pendingW = a.int()
			s.pendingH = a.int()
		case evToplevelClose:
			up.Closed = true
		}

	case ifaceOutput:
		s.handleOutputEvent(m, &a)

	case ifaceXdgOutput:
		s.handleXdgOutputEvent(m, &a)
	}

	return up, a.err
}

func (s *Session) applyConfigure(w, h int32) Update {
	up := Update{Configured: true}
	if w > 0 && h > 0 && (w != s.width || h != s.height) {
		s.width = w
		s.height = h
		up.Resized = true
	}
	return up
}

func (s *Session) handleGlobal(name uint32, iface string, version uint32) {
	switch iface {
	case ifaceCompositor:
		s.compositorVersion = minVersion(version, 4)
		s.compositor = s.bind(name, iface, s.compositorVersion)
	case ifaceShm:
		s.shm = s.bind(name, iface, 1)
	case ifaceWmBase:
		s.wmBase = s.bind(name, iface, 1)
	case ifaceLayerShell:
		s.layerShell = s.bind(name, iface, 1)
	case ifaceOutputManager:
		s.outputMgr = s.bind(name, iface, minVersion(version, 3))
	case ifaceOutput:
		o := &Output{
			registryName: name,
			id:           s.bind(name, iface, minVersion(version, 4)),
		}
		s.outputs = append(s.outputs, o)
		if s.outputMgr != 0 {
			s.bindXdgOutput(o)
		}
	}
}

func (s *Session) removeGlobal(name uint32) {
	for i, o := range s.outputs {
		if o.registryName == name {
			s.logger.Info("output removed", "name", o.Name)
			s.outputs = append(s.outputs[:i], s.outputs[i+1:]...)
			if s.target == o {
				s.target = nil
			}
			return
		}
	}
}

// bind ties a registry global to a fresh object id.
func (s *Session) bind(name uint32, iface string, version uint32) uint32 {
	id := s.newObject(iface)
	s.conn.send(newRequest(s.registry, opRegistryBind).
		putUint(name).
		putString(iface).
		putUint(version).
		putUint(id))
	return id
}

func minVersion(advertised, want uint32) uint32 {
	if advertised < want {
		return advertised
	}
	return want
}

func (s *Session) bindXdgOutput(o *Output) {
	if s.outputMgr == 0 || o.xdg != 0 {
		return
	}
	o.xdg = s.newObject(ifaceXdgOutput)
	s.conn.send(newRequest(s.outputMgr, opOutputManagerGetXdgOutput).
		putUint(o.xdg).
		putUint(o.id))
}

func (s *Session) handleOutputEvent(m message, a *argReader) {
	o := s.outputByID(m.Object)
	if o == nil {
		return
	}
	switch m.Opcode {
	case evOutputMode:
		flags := a.uint()
		w := a.int()
		h := a.int()
		const modeCurrent = 1
		if flags&modeCurrent != 0 {
			o.modeW, o.modeH = w, h
		}
	case evOutputName:
		o.Name = a.string()
	case evOutputDescription:
		o.Description = a.string()
	case evOutputDone:
		s.attemptInitialSize()
	}
}

func (s *Session) handleXdgOutputEvent(m message, a *argReader) {
	o := s.outputByXdgID(m.Object)
	if o == nil {
		return
	}
	switch m.Opcode {
	case evXdgOutputLogicalSize:
		o.logicalW = a.int()
		o.logicalH = a.int()
	case evXdgOutputName:
		if o.Name == "" {
			o.Name = a.string()
		}
	case evXdgOutputDescription:
		if o.Description == "" {
			o.Description = a.string()
		}
	case evXdgOutputDone:
		s.attemptInitialSize()
	}
}

func (s *Session) outputByID(id uint32) *Output {
	for _, o := range s.outputs {
		if o.id == id {
			return o
		}
	}
	return nil
}

func (s *Session) outputByXdgID(id uint32) *Output {
	for _, o := range s.outputs {
		if o.xdg == id {
			return o
		}
	}
	return nil
}

// Present renders one frame into a free buffer and commits it, together
// with the request for the next frame callback. It refuses quietly (false,
// nil) while the surface is unconfigured, a frame callback is still
// outstanding, or the server owns every buffer; the caller keeps its dirty
// flag and retries on the next FrameDone or BufferReleased.
func (s *Session) Present(render func(*image.RGBA)) (bool, error) {
	if !s.configured() || s.frameCallback != 0 {
		return false, nil
	}
	if err := s.pool.Resize(int(s.width), int(s.height)); err != nil {
		return false, err
	}
	buf, ok := s.pool.Acquire()
	if !ok {
		return false, nil
	}

	render(buf.Image())

	cb := s.newObject(ifaceCallback)
	if err := s.conn.send(newRequest(s.surface, opSurfaceFrame).putUint(cb)); err != nil {
		return false, err
	}
	if err := s.conn.send(newRequest(s.surface, opSurfaceAttach).
		putUint(buf.id).putInt(0).putInt(0)); err != nil {
		return false, err
	}
	if err := s.conn.send(newRequest(s.surface, s.damageOp()).
		putInt(0).putInt(0).putInt(s.width).putInt(s.height)); err != nil {
		return false, err
	}
	if err := s.conn.send(newRequest(s.surface, opSurfaceCommit)); err != nil {
		return false, err
	}
	s.pool.MarkInUse(buf)
	s.frameCallback = cb
	return true, nil
}

func (s *Session) configured() bool {
	return s.width > 0 && s.height > 0
}

// damageOp picks the damage request for the bound compositor version.
// damage_buffer exists from wl_surface version 4; older compositors get
// plain damage, which agrees with buffer coordinates here because the
// surface never sets a buffer scale or transform.
func (s *Session) damageOp() uint16 {
	if s.compositorVersion >= 4 {
		return opSurfaceDamageBuffer
	}
	return opSurfaceDamage
}

// Close tears the surface and pool down and disconnects. Safe to call
// after a connection error.
func (s *Session) Close() {
	if s.layerSurface != 0 {
		s.conn.send(newRequest(s.layerSurface, opLayerSurfaceDestroy))
		s.layerSurface = 0
	}
	if s.toplevel != 0 {
		s.conn.send(newRequest(s.toplevel, opToplevelDestroy))
		s.toplevel = 0
	}
	if s.xdgSurface != 0 {
		s.conn.send(newRequest(s.xdgSurface, opXdgSurfaceDestroy))
		s.xdgSurface = 0
	}
	if s.surface != 0 {
		s.conn.send(newRequest(s.surface, opSurfaceDestroy))
		s.surface = 0
	}
	s.pool.Destroy()
	s.conn.Close()
}

func (s *Session) newObject(iface string) uint32 {
	id := s.conn.NewID()
	s.ifaces[id] = iface
	return id
}

func (s *Session) registerObject(id uint32, iface string) {
	s.ifaces[id] = iface
}

func (s *Session) dropObject(id uint32) {
	delete(s.ifaces, id)
}
