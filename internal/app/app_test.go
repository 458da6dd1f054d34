package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/keyosd/internal/config"
	"github.com/jmylchreest/keyosd/internal/layout"
	"github.com/jmylchreest/keyosd/internal/wayland"
)

func TestAnchorFor(t *testing.T) {
	tests := []struct {
		position string
		want     wayland.Anchor
	}{
		{config.PositionTop, wayland.AnchorTop | wayland.AnchorLeft | wayland.AnchorRight},
		{config.PositionTopCenter, wayland.AnchorTop | wayland.AnchorLeft | wayland.AnchorRight},
		{config.PositionBottom, wayland.AnchorBottom | wayland.AnchorLeft | wayland.AnchorRight},
		{config.PositionBottomCenter, wayland.AnchorBottom | wayland.AnchorLeft | wayland.AnchorRight},
		{config.PositionTopLeft, wayland.AnchorTop | wayland.AnchorLeft},
		{config.PositionTopRight, wayland.AnchorTop | wayland.AnchorRight},
		{config.PositionBottomLeft, wayland.AnchorBottom | wayland.AnchorLeft},
		{config.PositionBottomRight, wayland.AnchorBottom | wayland.AnchorRight},
		{config.PositionLeft, wayland.AnchorLeft},
		{config.PositionCenterLeft, wayland.AnchorLeft},
		{config.PositionRight, wayland.AnchorRight},
		{config.PositionCenterRight, wayland.AnchorRight},
		{config.PositionCenter, wayland.AnchorTop | wayland.AnchorBottom | wayland.AnchorLeft | wayland.AnchorRight},
		{"", wayland.AnchorBottom | wayland.AnchorLeft | wayland.AnchorRight},
		{"nonsense", wayland.AnchorBottom | wayland.AnchorLeft | wayland.AnchorRight},
	}
	for _, tt := range tests {
		t.Run(tt.position, func(t *testing.T) {
			assert.Equal(t, tt.want, anchorFor(tt.position))
		})
	}
}

func TestMarginsFor(t *testing.T) {
	p := layout.Placement{
		MarginTop:    10,
		MarginRight:  20,
		MarginBottom: 30,
		MarginLeft:   40,
	}
	assert.Equal(t, [4]int32{10, 20, 30, 40}, marginsFor(p))
}
