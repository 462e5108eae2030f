package cmd

import (
	"github.com/huangsam/branchreport/core"
	"github.com/huangsam/branchreport/internal/contract"
	"github.com/spf13/cobra"
)

// branchesCmd builds the branch report.
var branchesCmd = &cobra.Command{
	Use:   "branches [source]",
	Short: "Report first and last commit activity for every branch",
	Long: `List every branch of a repository with the author and committer of its
earliest commit and the time of its first and last commit.

The source is a local path (default: current directory) or a clone URL.
Remote sources are mirrored into a temporary directory that is removed
afterwards, unless --clone-dir keeps a reusable mirror.

The default output is a pretty JSON array:

  [
    {
      "name": "master",
      "author": "GitHub",
      "committer": "Phodal HUANG",
      "first_commit_str": "2021-01-13 06:36:49",
      "last_commit_str": "2021-01-13 12:38:40",
      "first_commit_date": 1610519809,
      "last_commit_date": 1610541520
    }
  ]

Examples:
  # Report on the current repository
  branchreport branches

  # Report on a remote repository, including remote-tracking branches
  branchreport branches https://github.com/phodal/coco.fixtures --remotes

  # Human-readable table
  branchreport branches --output text`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBranchReport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build branch report", err)
		}
	},
}
