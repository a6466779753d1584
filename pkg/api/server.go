// Package api provides the REST API server for famigen
package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/james-see/famigen/pkg/export"
	"github.com/james-see/famigen/pkg/generator"
	"github.com/james-see/famigen/pkg/music"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title famigen API
// @version 1.0
// @description API for generating random chiptune songs for FamiStudio
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	return NewRouter().Run(fmt.Sprintf(":%d", port))
}

// NewRouter builds the gin engine with every route registered
func NewRouter() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/scales", listScales)
		v1.GET("/scales/:name", getScale)
		v1.GET("/config/default", defaultConfig)
		v1.GET("/formats", listFormats)
		v1.POST("/generate", handleGenerate)
		v1.POST("/generate/midi", handleGenerateMIDI)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "famigen",
	})
}

// listScales godoc
// @Summary List available scales
// @Description Returns every scale with its semitone degrees, and the accepted root notes
// @Tags music
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/scales [get]
func listScales(c *gin.Context) {
	scales := []gin.H{}
	for _, s := range music.Scales(false) {
		scales = append(scales, gin.H{"name": s.Name, "degrees": []int(s.Degrees)})
	}
	roots := []string{}
	for _, pc := range music.PitchClasses() {
		roots = append(roots, pc.String())
	}
	c.JSON(http.StatusOK, gin.H{
		"scales": scales,
		"roots":  roots,
	})
}

// getScale godoc
// @Summary Resolve a scale
// @Description Returns the note names of a scale at a root
// @Tags music
// @Produce json
// @Param name path string true "Scale name (e.g. minor-pent)"
// @Param root query string false "Root note (default: C)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /api/v1/scales/{name} [get]
func getScale(c *gin.Context) {
	name := c.Param("name")
	root := c.DefaultQuery("root", "C")

	notes, err := music.Describe(root, name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"root":  root,
		"scale": name,
		"notes": notes,
	})
}

// defaultConfig godoc
// @Summary Default generator configuration
// @Description Returns the configuration used when a generate request has no body
// @Tags generate
// @Produce json
// @Success 200 {object} generator.Config
// @Router /api/v1/config/default [get]
func defaultConfig(c *gin.Context) {
	c.JSON(http.StatusOK, generator.DefaultConfig())
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns a list of supported output formats
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats": export.GetSupportedFormats(),
	})
}

// handleGenerate godoc
// @Summary Generate songs
// @Description Generates songs and returns a FamiStudio text project
// @Tags generate
// @Accept json
// @Produce text/plain
// @Param config body generator.Config false "Generator configuration (defaults apply to omitted fields)"
// @Success 200 {string} string
// @Failure 400 {object} map[string]string
// @Router /api/v1/generate [post]
func handleGenerate(c *gin.Context) {
	songs, ok := composeRequest(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.NewFamiStudio().Export(&buf, export.NewProject(songs)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=famigen.txt")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

// handleGenerateMIDI godoc
// @Summary Generate a song as MIDI
// @Description Generates songs and returns one of them as a Standard MIDI File
// @Tags generate
// @Accept json
// @Produce audio/midi
// @Param config body generator.Config false "Generator configuration"
// @Param song query int false "Index of the song to return (default: 0)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/generate/midi [post]
func handleGenerateMIDI(c *gin.Context) {
	index, err := strconv.Atoi(c.DefaultQuery("song", "0"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid song index"})
		return
	}

	songs, ok := composeRequest(c)
	if !ok {
		return
	}
	if index >= len(songs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("song index %d out of range (%d songs)", index, len(songs))})
		return
	}

	var buf bytes.Buffer
	if err := export.NewMIDI().ExportSong(&buf, songs[index]); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=famigen-%02d.mid", index))
	c.Data(http.StatusOK, "audio/midi", buf.Bytes())
}

// composeRequest binds the optional JSON config and composes the songs.
// It writes the error response itself and reports false on failure.
func composeRequest(c *gin.Context) ([]*generator.Song, bool) {
	cfg := generator.DefaultConfig()
	if err := c.ShouldBindJSON(&cfg); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid config: %v", err)})
		return nil, false
	}

	composer, err := generator.NewComposer(cfg, generator.NewRand(cfg.Seed), slog.Default())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	songs, err := composer.ComposeAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return songs, true
}
