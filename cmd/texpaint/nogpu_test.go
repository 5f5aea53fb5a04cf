//go:build nogpu

package main

import (
	"testing"

	"github.com/gogpu/texpaint"
)

func TestNoGPUBuildHasNoAccelerator(t *testing.T) {
	if acc := texpaint.Accelerator(); acc != nil {
		t.Errorf("Accelerator() = %q, want nil with -tags nogpu", acc.Name())
	}
}
