// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("webgpu: compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// ShaderModule returns the module compiled from source under label,
// compiling and creating it on first use. Modules live until Close.
func (d *Device) ShaderModule(label, source string) (hal.ShaderModule, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if m, ok := d.shaders[label]; ok {
		return m, nil
	}
	words, err := compileSPIRV(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	m, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create shader module %s: %w", label, err)
	}
	d.shaders[label] = m
	d.stats.Shaders++
	return m, nil
}
