package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vellum-oss/cfb"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file> <stream-path>",
	Short: "Write one stream's bytes to stdout",
	Args:  cobra.ExactArgs(2),
	RunE:  runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	path, streamPath := args[0], args[1]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := cfb.Open(f)
	if err != nil {
		return fmt.Errorf("opening %s as a CFBF document: %w", path, err)
	}
	defer doc.Close()

	r, err := doc.OpenReadStream(streamPath)
	if err != nil {
		return fmt.Errorf("opening stream %s: %w", streamPath, err)
	}

	_, err = io.Copy(cmd.OutOrStdout(), r)
	return err
}
