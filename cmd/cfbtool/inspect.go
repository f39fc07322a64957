package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vellum-oss/cfb"
)

var inspectStrict bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "List every stream in a document, with its size",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectStrict, "strict", false, "reject documents that deviate from the format's exact structure")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	validation := cfb.Permissive
	if inspectStrict {
		validation = cfb.Strict
	}

	doc, err := cfb.Open(f, cfb.WithValidation(validation))
	if err != nil {
		return fmt.Errorf("opening %s as a CFBF document: %w", path, err)
	}
	defer doc.Close()

	log.Debug("opened document", zap.String("path", path))

	return doc.Walk(func(streamPath string, entry *cfb.DirEntry) error {
		cmd.Printf("%10d  %s\n", entry.Size, streamPath)
		return nil
	})
}
