package entity

import "github.com/Faultbox/rectsync/internal/property"

// Material describes how a filled surface is shaded.
type Material interface {
	IsConstant() bool
}

// ColorMaterial shades a surface with a single color.
type ColorMaterial struct {
	Color property.Property[Color]
}

// NewColorMaterial creates a color material with a constant color.
func NewColorMaterial(c Color) *ColorMaterial {
	return &ColorMaterial{Color: property.NewConstant(c)}
}

// IsConstant reports whether the color is constant.
func (m *ColorMaterial) IsConstant() bool {
	return property.IsConstant(m.Color)
}

// ImageMaterial shades a surface with a texture.
type ImageMaterial struct {
	Image  property.Property[string]
	Repeat property.Property[[2]float64]
	Color  property.Property[Color]
}

// IsConstant reports whether all image parameters are constant.
func (m *ImageMaterial) IsConstant() bool {
	return property.IsConstant(m.Image) &&
		property.IsConstant(m.Repeat) &&
		property.IsConstant(m.Color)
}
