package cmd

import (
	"fmt"
	"os"

	"github.com/AnyUserName/picpack/internal/api"
	"github.com/AnyUserName/picpack/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	resizeWidth   uint32
	resizeHeight  uint32
	resizeFit     string
	resizeOptions string
	resizeOut     string
)

var resizeCmd = &cobra.Command{
	Use:   "resize <file>",
	Short: "Resize an image, keeping its format",
	Long: `Resizes the image to the requested box and writes it in the same
container format (PNG or JPEG).

The box is given either by --width/--height/--fit or as a JSON options
record with --options, e.g. '{"width":320,"fit":"contain"}'.
Fit modes: cover (default when both sides are set), contain, fill, scale-down.`,
	Args: cobra.ExactArgs(1),
	RunE: runResize,
}

func init() {
	resizeCmd.Flags().Uint32VarP(&resizeWidth, "width", "W", 0, "target width")
	resizeCmd.Flags().Uint32VarP(&resizeHeight, "height", "H", 0, "target height")
	resizeCmd.Flags().StringVarP(&resizeFit, "fit", "f", "", "fit mode")
	resizeCmd.Flags().StringVar(&resizeOptions, "options", "", "JSON options record (overrides --width/--height/--fit)")
	resizeCmd.Flags().StringVarP(&resizeOut, "out", "o", "-", "output file (- = stdout)")
	rootCmd.AddCommand(resizeCmd)
}

// resizeOpts builds options from flags; only flags given on the command
// line count as set.
func resizeOpts(cmd *cobra.Command) (pipeline.Options, error) {
	if cmd.Flags().Changed("options") {
		return api.ParseResizeOptions([]byte(resizeOptions))
	}
	var o api.ResizeOptions
	if cmd.Flags().Changed("width") {
		o.Width = &resizeWidth
	}
	if cmd.Flags().Changed("height") {
		o.Height = &resizeHeight
	}
	if cmd.Flags().Changed("fit") {
		o.Fit = &resizeFit
	}
	return o.Options()
}

func runResize(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	opts, err := resizeOpts(cmd)
	if err != nil {
		return reportResize(cmd, err)
	}
	logVerbose(cmd, "request: width=%d height=%d fit=%s", opts.Width, opts.Height, opts.Fit)

	res, err := newGenerator().Resize(data, opts)
	if err != nil {
		logger.Debug("resize failed", zap.String("file", args[0]), zap.Error(err))
		return reportResize(cmd, err)
	}
	logVerbose(cmd, "output: %s %dx%d (%s)", res.MIMEType, res.Width, res.Height, formatBytes(int64(len(res.Data))))

	if resizeOut == "" || resizeOut == "-" {
		_, err := cmd.OutOrStdout().Write(res.Data)
		return err
	}
	if err := os.WriteFile(resizeOut, res.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", resizeOut, err)
	}
	return nil
}

// reportResize prints the error record to stderr so stdout never mixes
// JSON with image bytes.
func reportResize(cmd *cobra.Command, err error) error {
	if werr := api.WriteJSON(cmd.ErrOrStderr(), api.NewResizeRecord(nil, err)); werr != nil {
		return werr
	}
	return errReported
}
