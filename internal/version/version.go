package version

import (
	"fmt"
	"runtime"
)

var (
	// Version in string format - set at build time
	Version = "0.1.0"
	// GitCommit is the git commit that was compiled - set at build time
	GitCommit = ""
	// AppName is the name of the binary
	AppName = "httpx-serve"
	// Description of the application
	Description = "A minimal HTTP/1.1 file and echo server on raw sockets"
)

// GetVersionInfo returns a formatted version string with build information
func GetVersionInfo() string {
	s := fmt.Sprintf("%s version %s", AppName, Version)
	if GitCommit != "" {
		s += fmt.Sprintf("\nGit commit: %s", GitCommit)
	}
	s += fmt.Sprintf("\nGo version: %s\nPlatform: %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return s
}
