package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/khanhnv2901/framecheck/internal/shared/constants"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/khanhnv2901/framecheck/cmd.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the framecheck version",
	Long: `Print the framecheck version. With --verbose, also show the build details
and the settings outbound checks use (User-Agent, timeout, redirect limit),
which helps when a target's firewall treats framecheck differently from a browser.`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		out := cmd.OutOrStdout()

		if !verbose {
			fmt.Fprintf(out, "framecheck %s\n", Version)
			return
		}
		printVersionDetails(out)
	},
}

func printVersionDetails(out io.Writer) {
	fmt.Fprintf(out, "framecheck %s\n", Version)
	fmt.Fprintf(out, "  commit:        %s\n", GitCommit)
	fmt.Fprintf(out, "  built:         %s\n", BuildDate)
	fmt.Fprintf(out, "  go:            %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "  user agent:    %s\n", constants.UserAgent)
	fmt.Fprintf(out, "  fetch timeout: %s\n", constants.DefaultTimeout)
	fmt.Fprintf(out, "  max redirects: %d\n", constants.DefaultMaxRedirects)
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "Show build details and outbound request settings")
}
