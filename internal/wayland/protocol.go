package wayland

// Object ids, opcodes and enum values for the slice of the protocol the
// overlay speaks: core wayland, xdg-shell, wlr-layer-shell and
// xdg-output.

const displayID uint32 = 1

// wl_display
const (
	opDisplaySync        = 0
	opDisplayGetRegistry = 1

	evDisplayError    = 0
	evDisplayDeleteID = 1
)

// wl_registry
const (
	opRegistryBind = 0

	evRegistryGlobal       = 0
	evRegistryGlobalRemove = 1
)

// wl_callback
const evCallbackDone = 0

// wl_compositor
const opCompositorCreateSurface = 0

// wl_shm
const (
	opShmCreatePool = 0

	evShmFormat = 0

	formatARGB8888 = 0
)

// wl_shm_pool
const (
	opShmPoolCreateBuffer = 0
	opShmPoolDestroy      = 1
)

// wl_buffer
const (
	opBufferDestroy = 0

	evBufferRelease = 0
)

// wl_surface
const (
	opSurfaceDestroy      = 0
	opSurfaceAttach       = 1
	opSurfaceDamage       = 2
	opSurfaceFrame        = 3
	opSurfaceCommit       = 6
	opSurfaceDamageBuffer = 9
)

// wl_output
const (
	evOutputGeometry    = 0
	evOutputMode        = 1
	evOutputDone        = 2
	evOutputScale       = 3
	evOutputName        = 4
	evOutputDescription = 5
)

// xdg_wm_base
const (
	opWmBaseGetXdgSurface = 2
	opWmBasePong          = 3

	evWmBasePing = 0
)

// xdg_surface
const (
	opXdgSurfaceDestroy      = 0
	opXdgSurfaceGetToplevel  = 1
	opXdgSurfaceAckConfigure = 4

	evXdgSurfaceConfigure = 0
)

// xdg_toplevel
const (
	opToplevelDestroy  = 0
	opToplevelSetTitle = 2
	opToplevelSetAppID = 3

	evToplevelConfigure = 0
	evToplevelClose     = 1
)

// zwlr_layer_shell_v1
const (
	opLayerShellGetLayerSurface = 0

	layerOverlay = 3
)

// zwlr_layer_surface_v1
const (
	opLayerSurfaceSetSize                  = 0
	opLayerSurfaceSetAnchor                = 1
	opLayerSurfaceSetExclusiveZone         = 2
	opLayerSurfaceSetMargin                = 3
	opLayerSurfaceSetKeyboardInteractivity = 4
	opLayerSurfaceAckConfigure             = 6
	opLayerSurfaceDestroy                  = 7

	evLayerSurfaceConfigure = 0
	evLayerSurfaceClosed    = 1

	anchorTop    = 1
	anchorBottom = 2
	anchorLeft   = 4
	anchorRight  = 8

	keyboardInteractivityNone = 0
)

// zxdg_output_manager_v1
const opOutputManagerGetXdgOutput = 1

// zxdg_output_v1
const (
	evXdgOutputLogicalPosition = 0
	evXdgOutputLogicalSize     = 1
	evXdgOutputDone            = 2
	evXdgOutputName            = 3
	evXdgOutputDescription     = 4
)

// Interface names as advertised by the registry.
const (
	ifaceCompositor    = "wl_compositor"
	ifaceShm           = "wl_shm"
	ifaceOutput        = "wl_output"
	ifaceWmBase        = "xdg_wm_base"
	ifaceLayerShell    = "zwlr_layer_shell_v1"
	ifaceOutputManager = "zxdg_output_manager_v1"

	ifaceCallback     = "wl_callback"
	ifaceRegistry     = "wl_registry"
	ifaceSurface      = "wl_surface"
	ifaceShmPool      = "wl_shm_pool"
	ifaceBuffer       = "wl_buffer"
	ifaceXdgSurface   = "xdg_surface"
	ifaceToplevel     = "xdg_toplevel"
	ifaceLayerSurface = "zwlr_layer_surface_v1"
	ifaceXdgOutput    = "zxdg_output_v1"
)
