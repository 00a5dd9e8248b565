package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archerhq/shotclock/pkg/events"
	"github.com/archerhq/shotclock/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "start [left|right]",
		Short:   "Start one lane's timer",
		GroupID: gBasic,
		Long: `Start one lane's timer.

Starting a lane always stops the other one first, exactly like a
physical button press. With button toggle enabled, starting a lane
that is already running stops it instead.`,
		RunE: func(_ *cobra.Command, args []string) error {
			side, err := parseSideArg(args)
			if err != nil {
				return err
			}

			ret, err := apiClient.StartLane(side)
			if err != nil {
				return fmt.Errorf("failed to start %s lane: %v", side, err)
			}

			if ret != "" {
				logrus.Debugf("daemon responded: %s", ret)
			}

			logrus.Infof("%s lane started", side)

			return nil
		},
	}
}

func NewResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "reset",
		Short:   "Reset both lanes",
		GroupID: gBasic,
		Long: `Reset both lanes.

Both timers are cleared to zero and any playing cue is stopped. Same
effect as holding both buttons for the hold window.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ret, err := apiClient.Reset()
			if err != nil {
				return fmt.Errorf("failed to reset lanes: %v", err)
			}

			if ret != "" {
				logrus.Debugf("daemon responded: %s", ret)
			}

			logrus.Infof("lanes reset")

			return nil
		},
	}
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show both lane timers",
		GroupID: gBasic,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := apiClient.GetStatus()
			if err != nil {
				return err
			}

			cmd.Println(formatLaneLine("LEFT ", snap.LeftText, snap.LeftRunning))
			cmd.Println(formatLaneLine("RIGHT", snap.RightText, snap.RightRunning))

			return nil
		},
	}
}

func NewToggleCommand() *cobra.Command {
	return newEnableDisableCommand(
		"toggle",
		"button toggle mode",
		`Enable or disable button toggle mode.

With toggle mode on, pressing the button of the lane that is already
running stops that lane. With it off, the press is ignored and the
lane keeps running.`,
		func() (string, error) { return apiClient.SetButtonToggle(true) },
		func() (string, error) { return apiClient.SetButtonToggle(false) },
	)
}

func formatLaneLine(label, text string, running bool) string {
	state := color.New(color.Faint).Sprint("stopped")
	if running {
		state = color.New(color.FgGreen, color.Bold).Sprint("running")
	}
	return fmt.Sprintf("%s  %s  %s", color.New(color.Bold).Sprint(label), text, state)
}

func decodeSnapshot(data []byte) (events.SnapshotEvent, error) {
	return events.DecodeAs[events.SnapshotEvent](events.Event{Name: events.LanesSnapshot, Data: data})
}
