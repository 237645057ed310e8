//go:build !nogpu

package main

// Registers the compute-shader device.
import _ "github.com/gogpu/billow/backend/wgpu"
