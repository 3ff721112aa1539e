package shaders

import (
	_ "embed"
)

//go:embed shape.wgsl
var ShapeWGSL string
