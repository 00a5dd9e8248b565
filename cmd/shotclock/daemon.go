package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archerhq/shotclock/pkg/daemon"
	"github.com/archerhq/shotclock/pkg/version"
)

var noAudio = false

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Hidden:  true,
		Short:   "Run the shotclock daemon in the foreground",
		GroupID: gAdvanced,
		RunE: func(_ *cobra.Command, _ []string) error {
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("shotclock daemon starting")
			return daemon.Run(configPath, unixSocketPath, daemon.Options{NoAudio: noAudio})
		},
	}

	f := cmd.Flags()

	f.BoolVar(&noAudio, "no-audio", false,
		"Disable audio cues even if the config assigns music files.")

	return cmd
}
