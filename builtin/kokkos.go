// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builtin

import (
	"strings"

	"github.com/SCOREC/spack"
)

type variantFlag struct {
	variant string
	flag    string
}

// The cmake flag tables for kokkos, in emission order. Each row appends
// its flag only when the named variant is enabled; a disabled variant
// contributes nothing, since absence means off to the build scripts.
// Some options emit their flag with an OFF value; the flag text is
// exactly what the kokkos 2.x build scripts accept.
var (
	kokkosBackendFlags = []variantFlag{
		{"serial", "-DKOKKOS_ENABLE_SERIAL=ON"},
		{"openmp", "-DKOKKOS_ENABLE_OPENMP=ON"},
		{"qthreads", "-DKOKKOS_ENABLE_QTHREADS=ON"},
		{"pthreads", "-DKOKKOS_ENABLE_PTHREAD=ON"},
		{"cuda", "-DKOKKOS_ENABLE_CUDA=ON"},
		{"pic", "-DBUILD_SHARED_LIBS=ON"},
		{"debug", "-DKOKKOS_ENABLE_DEBUG=ON"},
	}

	kokkosCUDAFlags = []variantFlag{
		{"force_uvm", "-DKOKKOS_ENABLE_CUDA_UVM=ON"},
		{"use_ldg", "-DKOKKOS_ENABLE_CUDA_LDG_INTRINSIC=ON"},
		{"enable_lambda", "-DKOKKOS_ENABLE_CUDA_LAMBDA=ON"},
	}

	kokkosOptionFlags = []variantFlag{
		{"aggressive_vectorization", "-DKOKKOS_ENABLE_AGGRESSIVE_VECTORIZATION=ON"},
		{"disable_profiling", "-DKOKKOS_ENABLE_PROFILING=OFF"},
		{"disable_dualview_modify_check", "-DKOKKOS_ENABLE_DEBUG_DUALVIEW_MODIFY_CHECK=OFF"},
		{"enable_profile_load_print", "-DKOKKOS_ENABLE_PROFILING_LOAD_PRINT=OFF"},
		{"compiler_warnings", "-DKOKKOS_ENABLE_COMPILER_WARNINGS=ON"},
		{"disable_deprecated_code", "-DKOKKOS_ENABLE_DEPRECATED_CODE=OFF"},
		{"enable_eti", "-DKOKKOS_ENABLE_EXPLICIT_INSTANTIATION=ON"},
	}
)

// KokkosCMakeArgs translates a validated kokkos configuration into cmake
// arguments. The backend and compilation flags come first, then the
// combined -DKOKKOS_ARCH flag when either architecture is selected (host
// architecture first, comma-joined), then the CUDA tuning flags, then
// the remaining kokkos options. The rdc variant exists only for conflict
// checking and maps to no flag.
func KokkosCMakeArgs(cfg *spack.Config) []string {
	var args []string
	for _, vf := range kokkosBackendFlags {
		if cfg.Enabled(vf.variant) {
			args = append(args, vf.flag)
		}
	}

	// "none" is the not-selected sentinel, not an architecture.
	var arch []string
	if a := cfg.Value("host_arch"); a != "none" {
		arch = append(arch, a)
	}
	if a := cfg.Value("gpu_arch"); a != "none" {
		arch = append(arch, a)
	}
	if len(arch) > 0 {
		args = append(args, "-DKOKKOS_ARCH="+strings.Join(arch, ","))
	}

	for _, vf := range kokkosCUDAFlags {
		if cfg.Enabled(vf.variant) {
			args = append(args, vf.flag)
		}
	}
	for _, vf := range kokkosOptionFlags {
		if cfg.Enabled(vf.variant) {
			args = append(args, vf.flag)
		}
	}
	return args
}
