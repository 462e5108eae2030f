// main is the entry point for the branchreport CLI.
package main

import (
	"github.com/huangsam/branchreport/cmd"
	"github.com/huangsam/branchreport/internal/contract"
	"github.com/huangsam/branchreport/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	iocache.CloseStores()

	if err != nil {
		contract.LogFatal("Error", err)
	}
}
