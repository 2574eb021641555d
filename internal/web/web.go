package web

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html static/app.js
var assets embed.FS

// RegisterRoutes serves the single-page form and its script.
func RegisterRoutes(r gin.IRoutes) {
	r.GET("/", serve("static/index.html", "text/html; charset=utf-8"))
	r.GET("/assets/app.js", serve("static/app.js", "application/javascript; charset=utf-8"))
}

func serve(name, contentType string) gin.HandlerFunc {
	body, err := assets.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, contentType, body)
	}
}
