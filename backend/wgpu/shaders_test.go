//go:build !nogpu

package wgpu

import (
	"strings"
	"testing"
)

func TestShaderSourceEntryPoints(t *testing.T) {
	src := ShaderSource()
	for _, entry := range []string{entryDeposit, entrySurface} {
		if !strings.Contains(src, "fn "+entry+"(") {
			t.Errorf("shader source has no entry point %q", entry)
		}
	}
	if !strings.Contains(src, "array<atomic<u32>>") {
		t.Error("volume binding is not atomic")
	}
}

func TestCompileShaders(t *testing.T) {
	code, err := CompileShaders()
	if err != nil {
		t.Fatalf("CompileShaders() error = %v", err)
	}
	if len(code) == 0 {
		t.Fatal("CompileShaders() returned no words")
	}
	const spirvMagic = 0x07230203
	if code[0] != spirvMagic {
		t.Errorf("first word = %#x, want SPIR-V magic %#x", code[0], spirvMagic)
	}
}
