package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuzeguitarist/qrgen/internal/app"
	"github.com/yuzeguitarist/qrgen/internal/artifact"
)

func (c *cli) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored QR code images, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := artifact.NewStore(c.cfg.QRDir)
			if err != nil {
				return err
			}
			items, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No QR codes in", store.Dir())
				return nil
			}
			fmt.Fprintln(out, app.Color(fmt.Sprintf("==> %d QR codes in %s", len(items), store.Dir()), app.StyleHeader))
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
			for _, a := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Name, app.HumanSize(a.Size), a.ModTime.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("qr-dir", "", "directory of generated images")
	return cmd
}
