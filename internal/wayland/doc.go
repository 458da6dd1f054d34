// Package wayland is a minimal hand-rolled Wayland client: just enough of
// the wire protocol to present an shm-backed surface either as a
// wlr-layer-shell overlay or as a plain xdg-shell window. It binds only
// the globals the overlay needs and never pulls in a toolkit.
//
// The connection is read by one goroutine that frames complete messages
// onto a channel; all protocol state lives in Session and is mutated only
// by Dispatch, which the caller drives from its own loop.
package wayland
