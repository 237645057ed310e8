//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Bindings of group 0 in voxelize.wgsl.
const (
	bindParams    = 0
	bindVolume    = 1
	bindPositions = 2
	bindState     = 3
	bindSprite    = 4
)

// pipelines holds the compiled shader and both compute pipelines.
type pipelines struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	deposit    hal.ComputePipeline
	surface    hal.ComputePipeline
}

func newPipelines(device hal.Device) (*pipelines, error) {
	code, err := CompileShaders()
	if err != nil {
		return nil, err
	}

	p := &pipelines{}
	p.shader, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "billow_voxelize",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create shader module: %w", err)
	}

	storage := func(binding uint32, t gputypes.BufferBindingType) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: t},
		}
	}
	p.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "billow_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    bindParams,
				Visibility: gputypes.ShaderStageCompute,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: paramsSize,
				},
			},
			storage(bindVolume, gputypes.BufferBindingTypeStorage),
			storage(bindPositions, gputypes.BufferBindingTypeStorage),
			storage(bindState, gputypes.BufferBindingTypeStorage),
			storage(bindSprite, gputypes.BufferBindingTypeReadOnlyStorage),
		},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("wgpu: create bind group layout: %w", err)
	}

	p.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "billow_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}

	for _, e := range []struct {
		entry string
		dst   *hal.ComputePipeline
	}{
		{entryDeposit, &p.deposit},
		{entrySurface, &p.surface},
	} {
		*e.dst, err = device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
			Label:  "billow_" + e.entry,
			Layout: p.pipeLayout,
			Compute: hal.ComputeState{
				Module:     p.shader,
				EntryPoint: e.entry,
			},
		})
		if err != nil {
			p.destroy(device)
			return nil, fmt.Errorf("wgpu: create %s pipeline: %w", e.entry, err)
		}
	}
	return p, nil
}

func (p *pipelines) destroy(device hal.Device) {
	if p.deposit != nil {
		device.DestroyComputePipeline(p.deposit)
	}
	if p.surface != nil {
		device.DestroyComputePipeline(p.surface)
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
	}
}
