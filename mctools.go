// Package mctools holds build metadata shared by the mctools commands.
package mctools

// Version is set at link time with -ldflags "-X github.com/jasonlovesdoggo/mctools.Version=...".
var Version = "devel"
