//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/brush_composite.wgsl
var brushCompositeShaderSource string

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// shaderSource returns SPIR-V for the shader when naga can compile it and
// the WGSL text otherwise, leaving translation to the backend.
func shaderSource(label, wgslSource string) hal.ShaderSource {
	code, err := compileSPIRV(wgslSource)
	if err != nil {
		slogger().Debug("gpu: using WGSL source", "shader", label, "reason", err)
		return hal.ShaderSource{WGSL: wgslSource}
	}
	return hal.ShaderSource{SPIRV: code}
}
