package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/AnyUserName/picpack/internal/config"
	"github.com/AnyUserName/picpack/internal/logging"
	"github.com/AnyUserName/picpack/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "0.1.0"
	verbose bool
	cfgFile string

	appCfg    *config.Config
	logger    *zap.Logger
	logCloser io.Closer
)

// errReported marks a failure whose record has already been printed.
var errReported = errors.New("failure reported")

var rootCmd = &cobra.Command{
	Use:   "picpack",
	Short: "Image placeholders and resizing",
	Long: `picpack turns uploaded images into tiny blurred placeholders
(a ThumbHash preview re-encoded as a data URI plus the average colour)
and resizes images while keeping their original container format.

Configuration comes from picpack.yaml, --config, or PICPACK_* variables.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the CLI and releases the logger, whether or not the
// command failed.  Errors other than already-reported records are printed
// to stderr.
func Execute() error {
	err := rootCmd.Execute()
	teardown()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "picpack: %v\n", err)
	}
	return err
}

func init() {
	logger = zap.NewNop()
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./picpack.yaml)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"picpack %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

func setup(*cobra.Command, []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	l, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	appCfg, logger, logCloser = cfg, l, closer
	return nil
}

func teardown() {
	_ = logger.Sync()
	if logCloser != nil {
		_ = logCloser.Close()
	}
	logger, logCloser = zap.NewNop(), nil
}

func newGenerator() *pipeline.Generator {
	return pipeline.New(pipeline.Config{
		JPEGQuality:     appCfg.Pipeline.JPEGQuality,
		ShrinkWidth:     appCfg.Pipeline.ShrinkWidth,
		ShrinkHeight:    appCfg.Pipeline.ShrinkHeight,
		MaxInputPixels:  appCfg.Pipeline.MaxInputPixels,
		MaxOutputPixels: appCfg.Pipeline.MaxOutputPixels,
		Logger:          logger,
	})
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(cmd *cobra.Command, format string, args ...any) {
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "[picpack] "+format+"\n", args...)
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
