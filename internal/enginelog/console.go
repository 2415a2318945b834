// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package enginelog

import (
	"fmt"
	"io"
)

// Console is a Writer that formats events as
// "2006/01/02-15:04:05.000000:L:name:message" lines onto an io.Writer.
type Console struct {
	out io.Writer
}

// NewConsole creates and returns a pointer to a new Console writer
// over out (typically os.Stderr).
func NewConsole(out io.Writer) *Console {

	return &Console{out: out}
}

// Write formats and writes event to the console.
func (c *Console) Write(event Event) {

	fmt.Fprintf(c.out, "%s:%s:%s:%s\n",
		event.Time.Format("2006/01/02-15:04:05.000000"),
		levelNames[event.Level][:1],
		event.Logger,
		event.Message,
	)
}
