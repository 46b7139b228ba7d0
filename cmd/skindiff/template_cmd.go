package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/onwhenrdy/skindiff/internal/config"
)

const templateFilename = "dskin_config.json"

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a config template to " + templateFilename + ".",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.WriteFile(templateFilename, []byte(config.Template()), 0o644); err != nil {
			log.WithError(err).Error("could not write config template")
			return err
		}
		log.WithField("file", templateFilename).Info("wrote config template")
		return nil
	},
}
