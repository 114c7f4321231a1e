// Command srecpatch updates the CRC in the Bootloader Configuration Area of
// an S-record firmware image so the KBoot 2.0 bootloader will accept it.
//
// Example:
//
//	srecpatch -b 0x43c0 -o my_image_w_checksum.srec my_image.srec
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/anupcshan/srecpatch/bca"
	"github.com/anupcshan/srecpatch/patch"
)

func newRootCmd(fsys afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "srecpatch [flags] <source.srec>",
		Short: "Update the CRC in the Bootloader Configuration Area of an SREC file",
		Long: `srecpatch computes the CRC of an S-record firmware image so that it will be
honored by the KBoot 2.0 bootloader. It reads the crcStartAddress and
crcByteCount fields of the image's Bootloader Configuration Area (BCA) to
establish the range of the CRC calculation, computes the CRC, updates the
crcExpectedValue field of the BCA, and emits the modified image. Every line
not touched by the update is reproduced byte-for-byte.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(cmd, args[0], fsys, stdout, stderr)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.Flags().StringP("bca-address", "b", fmt.Sprintf("%#x", bca.DefaultBase),
		"address of Bootloader Configuration Area in image")
	rootCmd.Flags().StringP("output", "o", "-", "output file (- for stdout)")
	rootCmd.Flags().Bool("fill-gaps", false, "treat unprogrammed addresses in the CRC scope as 0xFF")
	rootCmd.Flags().BoolP("debug", "d", false, "print debugging info to stderr")

	return rootCmd
}

func runPatch(cmd *cobra.Command, sourceFile string, fsys afero.Fs, stdout, stderr io.Writer) error {
	bcaFlag, _ := cmd.Flags().GetString("bca-address")
	outputFile, _ := cmd.Flags().GetString("output")
	fillGaps, _ := cmd.Flags().GetBool("fill-gaps")
	debug, _ := cmd.Flags().GetBool("debug")

	// Accept both decimal and 0x-prefixed addresses.
	base, err := strconv.ParseUint(bcaFlag, 0, 32)
	if err != nil {
		return fmt.Errorf("invalid BCA address %q: %w", bcaFlag, err)
	}

	opts := []patch.Option{patch.WithBCAAddress(uint32(base))}
	if fillGaps {
		opts = append(opts, patch.WithGapFill(0xFF))
	}
	if debug {
		opts = append(opts, patch.WithLogger(log.New(stderr, "", log.Lmicroseconds|log.Lshortfile)))
	}

	input, err := afero.ReadFile(fsys, sourceFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", sourceFile, err)
	}

	output, err := patch.Patch(input, opts...)
	if err != nil {
		return err
	}

	if outputFile == "-" {
		_, err = stdout.Write(output)
		return err
	}
	return afero.WriteFile(fsys, outputFile, output, 0644)
}

func main() {
	rootCmd := newRootCmd(afero.NewOsFs(), os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
