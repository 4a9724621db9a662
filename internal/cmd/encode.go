package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuzeguitarist/qrgen/internal/app"
	"github.com/yuzeguitarist/qrgen/internal/artifact"
	"github.com/yuzeguitarist/qrgen/internal/qr"
)

func (c *cli) encodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <text>",
		Short: "Encode text into a QR code image (PNG, or SVG when --out ends in .svg)",
		Long: `Encode text into a QR code image.

Without --out or --dir the image is stored in the QR folder under the same
name the web form would use. --out writes to an exact path. Both use the
configured qr settings.

--dir writes <sanitized text>.png into another directory using the stock
encoder settings (10 px modules, 4-module border, medium recovery) instead
of the configured ones.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if text == "" {
				return fmt.Errorf("text must not be empty")
			}
			out, _ := cmd.Flags().GetString("out")
			dir, _ := cmd.Flags().GetString("dir")
			if out != "" && dir != "" {
				return fmt.Errorf("--out and --dir are mutually exclusive")
			}
			opts, err := c.cfg.QROptions()
			if err != nil {
				return err
			}

			if out != "" {
				var b []byte
				if strings.HasSuffix(strings.ToLower(out), ".svg") {
					b, err = qr.SVG(text, opts)
				} else {
					b, err = qr.PNG(text, opts)
				}
				if err != nil {
					return err
				}
				if err := app.AtomicWriteFile(out, 0644, b); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), app.Color("Wrote:", app.StyleOK), filepath.Clean(out))
				return nil
			}

			name := c.cfg.Namer().FileName(text)
			if dir == "" {
				dir = c.cfg.QRDir
			} else {
				name = artifact.Sanitize(text) + ".png"
				opts = qr.CompactOptions()
			}
			b, err := qr.PNG(text, opts)
			if err != nil {
				return err
			}
			store, err := artifact.NewStore(dir)
			if err != nil {
				return err
			}
			a, err := store.Save(name, b)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Color("Wrote:", app.StyleOK), a.Path)
			return nil
		},
	}
	cmd.Flags().String("out", "", "output file path (.png or .svg)")
	cmd.Flags().String("dir", "", "write <sanitized text>.png into this directory")
	cmd.Flags().String("qr-dir", "", "QR folder used when neither --out nor --dir is given")
	cmd.Flags().Bool("unique", false, "append a content hash to the stored filename")
	return cmd
}
