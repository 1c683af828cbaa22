//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package core

import "net"

// listenConfig uses the platform defaults; reusePort is not supported here
func listenConfig(reusePort bool) *net.ListenConfig {
	return &net.ListenConfig{}
}
