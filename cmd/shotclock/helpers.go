package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archerhq/shotclock/pkg/lanes"
)

func parseSideArg(args []string) (lanes.Side, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one argument: left or right")
	}
	return lanes.ParseSide(args[0])
}

func newEnableDisableCommand(
	use, short, long string,
	enableFunc func() (string, error),
	disableFunc func() (string, error),
) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use,
		Short:   "Enable or disable " + short,
		Long:    long,
		GroupID: gAdvanced,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Enable " + short,
			RunE: func(_ *cobra.Command, _ []string) error {
				ret, err := enableFunc()
				if err != nil {
					return fmt.Errorf("failed to enable %s: %v", short, err)
				}
				if ret != "" {
					logrus.Debugf("daemon responded: %s", ret)
				}
				logrus.Infof("successfully enabled %s", short)
				return nil
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Disable " + short,
			RunE: func(_ *cobra.Command, _ []string) error {
				ret, err := disableFunc()
				if err != nil {
					return fmt.Errorf("failed to disable %s: %v", short, err)
				}
				if ret != "" {
					logrus.Debugf("daemon responded: %s", ret)
				}
				logrus.Infof("successfully disabled %s", short)
				return nil
			},
		},
	)

	return cmd
}
