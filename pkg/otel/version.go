// SPDX-License-Identifier: Apache-2.0

package otel

import (
	"runtime/debug"
	"sync"
)

// Version can be set at link time with
// -ldflags "-X github.com/parmahealth/parma/pkg/otel.Version=v1.2.3".
var Version string

var buildVersion = sync.OnceValue(func() string {
	if Version != "" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	for _, v := range info.Settings {
		if v.Key == "vcs.revision" {
			return v.Value
		}
	}
	return "unknown"
})

func version() string {
	return buildVersion()
}

// BuildVersion returns the version the binary reports, for the cli and the
// otel service resource.
func BuildVersion() string {
	return buildVersion()
}
