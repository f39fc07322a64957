// Command cfbtool inspects and extracts streams from Compound File
// Binary Format documents (legacy .xls, .doc, .msi, and similar
// structured-storage files).
package main

import (
	"os"

	"go.uber.org/zap"
)

var log *zap.Logger

func main() {
	var err error
	log, err = zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := rootCmd.Execute(); err != nil {
		log.Error("cfbtool failed", zap.Error(err))
		os.Exit(1)
	}
}
