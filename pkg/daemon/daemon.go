package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/archerhq/shotclock/pkg/audio"
	"github.com/archerhq/shotclock/pkg/config"
	"github.com/archerhq/shotclock/pkg/debounce"
	"github.com/archerhq/shotclock/pkg/events"
	"github.com/archerhq/shotclock/pkg/input"
	"github.com/archerhq/shotclock/pkg/lanes"
)

var (
	conf       config.Config
	controller *lanes.Controller
	hub        *events.Hub
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/status", getStatus)
	router.PUT("/start", putStart)
	router.PUT("/reset", putReset)
	router.GET("/config", getConfig)
	router.PUT("/button-toggle", setButtonToggle)
	router.GET("/events", getEvents)
	router.GET("/version", getVersion)

	return router
}

// Options tweaks daemon startup. Zero value is the production setup.
type Options struct {
	// NoAudio replaces the speaker with a no-op player.
	NoAudio bool
}

func Run(configPath string, unixSocketPath string, opts Options) error {
	router := setupRoutes()

	file, err := config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	conf = file
	logrus.WithFields(file.LogrusFields()).Infof("config loaded")

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			controller.SetButtonToggle(conf.ButtonToggle())
			logrus.Infof("config reloaded")
		}
	}()

	var player audio.Player = audio.Noop{}
	if !opts.NoAudio {
		player = audio.NewSpeaker()
	}

	clock := clockwork.NewRealClock()
	controller = lanes.NewController(lanes.Options{
		Clock:        clock,
		Player:       player,
		ButtonToggle: conf.ButtonToggle(),
		LeftCue:      conf.Lane(lanes.Left).MusicFile,
		RightCue:     conf.Lane(lanes.Right).MusicFile,
	})
	hub = events.NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runRefresher(ctx, clock, controller, hub)

	if gpio := conf.GPIO(); gpio.Enabled {
		pins, err := input.OpenPins(
			conf.Lane(lanes.Left).Pin,
			conf.Lane(lanes.Right).Pin,
			gpio.ActiveLow,
		)
		if err != nil {
			// Hardware trouble is a startup failure; it is never
			// threaded through the timer core.
			logrus.Fatal(err)
		}

		var source input.Source
		switch gpio.Mode {
		case config.GPIOModePoll:
			source = input.NewPollSource(pins, gpio.PollInterval, clock)
		default:
			source = input.NewEdgeSource(pins)
		}

		rawEvents := make(chan input.Event, 16)
		tracker := debounce.NewTracker(controller, debounce.Options{
			Clock:          clock,
			DebounceWindow: conf.DebounceWindow(),
			HoldWindow:     conf.HoldWindow(),
		})

		go func() {
			if err := source.Run(ctx, rawEvents); err != nil && !errors.Is(err, context.Canceled) {
				logrus.Errorf("input source exited: %v", err)
			}
		}()
		go tracker.Run(ctx, rawEvents)

		logrus.WithFields(logrus.Fields{
			"mode": gpio.Mode,
		}).Info("button tracking started")
	} else {
		logrus.Info("gpio disabled, manual input only")
	}

	srv := &http.Server{
		Handler: router,
	}

	// A previous daemon may have left its socket behind.
	if err := os.Remove(unixSocketPath); err != nil && !os.IsNotExist(err) {
		logrus.Fatal(err)
	}

	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("shutting down http server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	shutdownCancel()

	cancel()

	logrus.Info("closing audio output")
	if err := player.Close(); err != nil {
		logrus.Errorf("failed to close audio output: %v", err)
	}

	if err := os.Remove(unixSocketPath); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("failed to remove socket: %v", err)
	}

	logrus.Info("exiting")
	return nil
}
