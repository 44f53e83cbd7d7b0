// Package profile provides optional runtime profiling for the ftl command.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] with conditional
// compilation. Profiling must be enabled at build time with the "pprof" build
// tag:
//
//	go build -tags pprof .
//
// Without the tag every operation is a no-op and the profiling dependency is
// not linked.
//
// # Modes
//
// The following modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// Use [Modes] to retrieve the list programmatically.
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// Profile files are written to Path with names matching the mode
// (cpu.pprof, mem.pprof, and so on). Analyze them with go tool pprof:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// The ftl command exposes the same settings as --pprof-mode and --pprof-dir.
// Checking a large set of resource files under "cpu" mode is the usual way
// to find parser hot spots.
package profile
