package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

func (c *CLI) versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the nabdactl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]string{
				"version": Version,
				"go":      runtime.Version(),
				"os":      runtime.GOOS + "/" + runtime.GOARCH,
			}
			return c.emit(info, func(w io.Writer) {
				if !short {
					fmt.Fprint(w, figure.NewFigure("nabdactl", "cybermedium", true).String())
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "nabdactl %s (%s, %s)\n", info["version"], info["go"], info["os"])
			})
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "omit the banner")
	return cmd
}
