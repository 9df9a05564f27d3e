// Command wxcompass compares active IBM watsonx.ai foundation models
// across regions.
package main

import "github.com/wxcompass/wxcompass/cmd/wxcompass/cmd"

// Build information set by ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
