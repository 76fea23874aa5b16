package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
)

var (
	appVersion   = "dev"
	appBuildTime = "unknown"
)

// SetVersion records the build version and time stamped in by the linker
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "transistor %s (built %s)\n", displayVersion(appVersion), appBuildTime)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// displayVersion normalizes release versions to vX.Y.Z and leaves anything else alone
func displayVersion(version string) string {
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return version
	}
	return "v" + v.String()
}
