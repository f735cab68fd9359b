package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jvs-project/clonekit/pkg/color"
	"github.com/jvs-project/clonekit/pkg/model"
)

var reflinkOrCopy bool

var reflinkCmd = &cobra.Command{
	Use:   "reflink <src> <dst>",
	Short: "Reflink a single file",
	Long: `Create dst as a copy-on-write clone of the regular file src.

dst must not exist. If the reflink fails, dst is removed again. With
--or-copy a failed reflink falls back to a plain copy, unless the failure
(an existing destination, a missing source, a permission error) would
make the copy fail as well.

Examples:
  clonekit reflink base.qcow2 overlay.qcow2
  clonekit reflink --or-copy base.qcow2 /other/fs/overlay.qcow2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, dst := args[0], args[1]
		opts := engineOptions()

		var (
			fr  model.FileResult
			err error
		)
		if reflinkOrCopy {
			fr, err = opts.ReflinkOrCopy(src, dst)
		} else {
			err = opts.ReflinkFile(src, dst)
			fr = model.FileResult{Path: dst, Method: model.MethodReflink}
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(fr)
		}
		fmt.Printf("%s %s -> %s\n", color.Method(string(fr.Method)), color.Path(src), color.Path(dst))
		if fr.Method == model.MethodCopy {
			fmt.Printf("  %d bytes copied\n", fr.Bytes)
		}
		return nil
	},
}

func init() {
	reflinkCmd.Flags().BoolVar(&reflinkOrCopy, "or-copy", false, "fall back to a plain copy when the reflink fails")
	rootCmd.AddCommand(reflinkCmd)
}
