package telemetry

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// NewServer returns an HTTP handler exposing the metrics of a training run
// for external dashboards: the raw episode records and the rendered plot.
func NewServer(dir string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/metrics", func(c *gin.Context) {
		records, err := ReadRecords(dir)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"episodes": len(records),
			"records":  records,
		})
	})

	router.GET("/plot", func(c *gin.Context) {
		if err := PlotReturns(dir, 0); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.File(filepath.Join(dir, plotFileName))
	})

	return router
}
