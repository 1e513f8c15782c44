package cmd

import (
	"github.com/AnyUserName/picpack/internal/api"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var placeholderCmd = &cobra.Command{
	Use:   "placeholder <file>",
	Short: "Print the placeholder record of an image as JSON",
	Long: `Decodes the image, hashes a shrunk copy with ThumbHash and prints
the average colour, the preview data URI and the original metadata.

Exits with status 1 when the record carries an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlaceholder,
}

func init() {
	rootCmd.AddCommand(placeholderCmd)
}

func runPlaceholder(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	logVerbose(cmd, "input: %s (%s)", args[0], formatBytes(int64(len(data))))

	p, err := newGenerator().Placeholder(data)
	if err != nil {
		logger.Debug("placeholder failed", zap.String("file", args[0]), zap.Error(err))
	}
	rec := api.NewPlaceholderRecord(p, err)
	if werr := api.WriteJSON(cmd.OutOrStdout(), rec); werr != nil {
		return werr
	}
	if !rec.OK() {
		return errReported
	}
	return nil
}
