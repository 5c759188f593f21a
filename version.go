package main

import (
	"fmt"
	"runtime"
)

const appName = "flare-dex-engine"

var (
	GitCommit = "unknown"
	GitBranch = "unknown"
	BuildTime = "unknown"
	Version   = "unknown"
)

type Info struct {
	Name      string
	GitCommit string
	GitBranch string
	BuildTime string
	Version   string
	GoVersion string
}

func GetVersion() Info {
	return Info{
		Name:      appName,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		BuildTime: BuildTime,
		Version:   Version,
		GoVersion: runtime.Version(),
	}
}

func (i Info) String() string {
	return fmt.Sprintf(
		"%s %s\nGit Branch: %s\nGit Commit: %s\nBuild Time: %s\nGo Version: %s",
		i.Name,
		i.Version,
		i.GitBranch,
		i.GitCommit,
		i.BuildTime,
		i.GoVersion,
	)
}
