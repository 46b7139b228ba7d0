// Command skindiff runs 1D transient diffusion simulations for
// multi-compartment skin-permeation systems.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/onwhenrdy/skindiff/internal/version"
)

var log = logrus.New()

var appVersion = version.New("skindiff", 1, 0, 0)

var rootCmd = &cobra.Command{
	Use:   "skindiff",
	Short: "A 1D transient diffusion simulator for skin permeation systems.",
	Long:  appVersion.FullName + "\n" + appVersion.CopyrightNote,
}

func init() {
	appVersion.FullName = "The DSkin Command Line Tool"
	appVersion.CopyrightNote = "Scientific Consilience GmbH"

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(versionCmd)

	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
