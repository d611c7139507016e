// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu exposes the host transpose kernel the layout transforms run on.
//
// # Overview
//
//   - Pure Go implementation (no CGO)
//   - One generic kernel for every supported element type
//   - 4-D permutations split across goroutines over the two leading
//     output axes; other ranks run sequentially
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/layout/backend/cpu"
//	    "github.com/born-ml/layout/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    in, _ := tensor.NewRaw(tensor.Shape{1, 3, 4, 4}, tensor.Float32, tensor.CPUPlace())
//	    out, _ := tensor.NewRaw(tensor.Shape{1, 4, 4, 3}, tensor.Float32, tensor.CPUPlace())
//	    _ = cpu.Transpose[float32](backend, in, out, []int{0, 2, 3, 1})
//	}
package cpu
