package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/AnyUserName/picpack/internal/hasher"
	"github.com/spf13/cobra"
)

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint <file>...",
	Short: "Print the content fingerprint of each file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFingerprint,
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)
}

func runFingerprint(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		fp, err := fingerprintFile(cmd, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", fp, path)
	}
	return nil
}

func fingerprintFile(cmd *cobra.Command, path string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	fp, err := hasher.FingerprintReader(r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return fp, nil
}
