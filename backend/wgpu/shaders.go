//go:build !nogpu

package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/voxelize.wgsl
var voxelizeShaderWGSL string

// Shader entry points.
const (
	entryDeposit = "cs_deposit"
	entrySurface = "cs_surface"
)

// ShaderSource returns the WGSL source of the voxelization shaders.
func ShaderSource() string {
	return voxelizeShaderWGSL
}

// CompileShaders compiles the voxelization shaders to SPIR-V words.
func CompileShaders() ([]uint32, error) {
	spirvBytes, err := naga.Compile(voxelizeShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile voxelize.wgsl: %w", err)
	}

	// Convert bytes to uint32 slice for SPIR-V
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}
