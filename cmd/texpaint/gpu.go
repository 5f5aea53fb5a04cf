//go:build !nogpu

package main

import _ "github.com/gogpu/texpaint/gpu" // enable GPU compositing
