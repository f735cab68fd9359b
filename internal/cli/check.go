package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jvs-project/clonekit/internal/engine"
	"github.com/jvs-project/clonekit/pkg/color"
	"github.com/jvs-project/clonekit/pkg/model"
)

var checkCmd = &cobra.Command{
	Use:   "check <from-dir> [to-dir]",
	Short: "Check whether files can be reflinked between two directories",
	Long: `Write a small probe file in from-dir and try to reflink it into to-dir
(from-dir when omitted). Both probe files are removed afterwards.

Prints "supported", "not-supported", or "unknown". Unknown means the probe
itself failed, for example because a directory is not writable; the command
then exits non-zero.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := args[0], args[0]
		if len(args) == 2 {
			to = args[1]
		}

		support, err := engine.CheckReflinkSupport(from, to)

		if jsonOutput {
			out := map[string]any{
				"from":    from,
				"to":      to,
				"support": support,
			}
			if err != nil {
				out["error"] = err.Error()
			}
			if jerr := outputJSON(out); jerr != nil {
				return jerr
			}
			return err
		}

		switch support {
		case model.SupportYes:
			fmt.Printf("reflink %s -> %s: %s\n", from, to, color.Success(string(support)))
		case model.SupportNo:
			fmt.Printf("reflink %s -> %s: %s\n", from, to, color.Warning(string(support)))
		default:
			fmt.Printf("reflink %s -> %s: %s\n", from, to, color.Error(string(support)))
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
