package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Follow both lane timers live",
		GroupID: gBasic,
		Long: `Follow both lane timers live.

Subscribes to the daemon's snapshot stream and redraws both lanes on
one line, ten times a second. Ctrl-C to stop.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Flipped lanes swap the display order, so the readout
			// matches how the range is physically laid out.
			flipped := false
			if cfg, err := apiClient.GetConfig(); err == nil &&
				cfg.LeftLane != nil && cfg.LeftLane.Flipped != nil {
				flipped = *cfg.LeftLane.Flipped
			}

			body, err := apiClient.Events()
			if err != nil {
				return err
			}
			defer func() { _ = body.Close() }()

			// Closing the body on SIGINT unblocks the scanner below.
			sigc := make(chan os.Signal, 1)
			signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigc
				_ = body.Close()
			}()

			scanner := bufio.NewScanner(body)
			for scanner.Scan() {
				data, found := strings.CutPrefix(scanner.Text(), "data:")
				if !found {
					continue
				}

				snap, err := decodeSnapshot([]byte(strings.TrimSpace(data)))
				if err != nil {
					continue
				}

				first := formatLaneLine("LEFT ", snap.LeftText, snap.LeftRunning)
				second := formatLaneLine("RIGHT", snap.RightText, snap.RightRunning)
				if flipped {
					first, second = second, first
				}
				fmt.Printf("\r%s   %s", first, second)
			}
			fmt.Println()

			return nil
		},
	}
}
