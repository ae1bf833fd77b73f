// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"io"
	"log"
)

// Loggers holds standard loggers and a verbosity flag. Hosts inject their
// own; nothing in this package writes to a global logger.
type Loggers struct {
	Out, Err *log.Logger
	// Whether verbose logging is enabled.
	Verbose bool
}

// DiscardLoggers returns a Loggers with all logging disabled.
func DiscardLoggers() *Loggers {
	return &Loggers{
		Out: log.New(io.Discard, "", 0),
		Err: log.New(io.Discard, "", 0),
	}
}
