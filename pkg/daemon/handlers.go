package daemon

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/archerhq/shotclock/pkg/config"
	"github.com/archerhq/shotclock/pkg/lanes"
	"github.com/archerhq/shotclock/pkg/version"
)

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func getStatus(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, snapshotEvent(controller.Snapshot()))
}

// putStart is the trusted manual path (key binding, remote): it goes
// straight to the controller with no debounce.
func putStart(c *gin.Context) {
	var s string
	if err := c.BindJSON(&s); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	side, err := lanes.ParseSide(s)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	controller.StartLane(side)
	logrus.Infof("manual start: %s lane", side)

	c.IndentedJSON(http.StatusCreated, "ok")
}

func putReset(c *gin.Context) {
	controller.ResetAll()
	logrus.Info("manual reset")

	c.IndentedJSON(http.StatusCreated, "ok")
}

func setButtonToggle(c *gin.Context) {
	var b bool
	if err := c.BindJSON(&b); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	conf.SetButtonToggle(b)
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	controller.SetButtonToggle(b)

	logrus.Infof("set button toggle to %t", b)

	c.IndentedJSON(http.StatusCreated, "ok")
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{
		"version":   version.Version,
		"gitCommit": version.GitCommit,
	})
}

// getEvents streams lane snapshots as SSE until the client goes away.
func getEvents(c *gin.Context) {
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
