// Package input reads raw key transitions from evdev devices and maintains
// the authoritative set of currently held keys. Devices that cannot be
// opened are skipped rather than fatal: the overlay still renders with no
// highlights when zero devices are accessible. A removed device forces any
// keys it was holding back to released so the overlay never shows a stuck
// key.
package input
