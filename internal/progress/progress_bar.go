// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

type Bar interface {
	Add(int) error
	Add64(int64) error
	Close() error
}

type ProgressBar struct {
	*progressbar.ProgressBar
}

type Option func(*options)

type options struct {
	out io.Writer
}

// WithWriter renders the bar on the writer on input instead of stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// NewRowsBar returns a spinner counting processed rows. The total is unknown
// upfront since sources are streamed.
func NewRowsBar(description string, opts ...Option) *ProgressBar {
	o := &options{out: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	return &ProgressBar{
		ProgressBar: progressbar.NewOptions64(-1,
			progressbar.OptionSetWriter(o.out),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("rows"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintf(o.out, "\n")
			}),
		),
	}
}
