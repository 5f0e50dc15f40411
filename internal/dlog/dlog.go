// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package dlog is the instrumentation logger used by the SFDD and MFDD
// node arenas. Logging calls are cheap no-ops unless the
// binary is built with the `debug` tag, mirroring the teacher's own
// _DEBUG/_LOGLEVEL switches in debug.go.
package dlog

import (
	"fmt"

	"k8s.io/klog/v2"
)

// Enabled reports whether debug instrumentation is compiled in. It is
// a plain constant so that call sites like
//
//	if dlog.Enabled { dlog.V(2).Infof(...) }
//
// are dead-code eliminated in non-debug builds.
const Enabled = enabled

// V forwards to klog's verbosity-gated logger. It is only meaningful
// when Enabled is true; in non-debug builds it is still safe to call
// (klog discards below its configured verbosity) but callers should
// guard hot paths with Enabled to avoid the call overhead entirely.
func V(level klog.Level) klog.Verbose {
	return klog.V(level)
}

// Infof logs unconditionally at the info level.
func Infof(format string, args ...interface{}) {
	klog.InfoDepth(1, sprintf(format, args...))
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
