package main

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DilshanHF/portfolio/ui"
)

type server struct {
	cfg     Config
	content *Content
	store   *Store
	mailer  Mailer
	log     *zap.Logger

	// salt for visitor IP hashes and the admin session token; both are
	// regenerated on every start.
	salt       string
	adminToken string
}

func newServer(cfg Config, content *Content, store *Store, log *zap.Logger) *server {
	s := &server{
		cfg:        cfg,
		content:    content,
		store:      store,
		log:        log,
		salt:       generateToken(),
		adminToken: generateToken(),
	}
	if cfg.ContactMode == ContactSMTP {
		s.mailer = newSMTPMailer(cfg.SMTP)
	}
	return s
}

// pageSections are the sections in page order. Each one is a named template
// and can be fetched on its own from /sections/:id.
var pageSections = []string{"hero", "about", "education", "projects", "skills", "contact"}

var templateFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	// staggerMs spaces out card animations by position.
	"staggerMs": func(i int) int { return i * 150 },
}

func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log), s.visitorTracking())
	r.SetFuncMap(templateFuncs)
	r.LoadHTMLGlob(s.cfg.Templates)

	r.Static("/images", s.cfg.ImagesDir)
	r.Static("/static", s.cfg.StaticDir)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", s.handleIndex)
	r.GET("/sections/:id", s.handleSection)
	r.POST("/contact", s.handleContact)

	s.setupAdminRoutes(r)
	return r
}

// pageData is what every page template sees.
func (s *server) pageData() gin.H {
	data := gin.H{
		"p":               s.content.Portfolio(),
		"nav":             ui.NavItems,
		"sections":        pageSections,
		"year":            time.Now().Year(),
		"revealSelector":  strings.TrimPrefix(ui.RevealSelector, "."),
		"revealThreshold": ui.RevealThreshold,
		"minLoadingMs":    s.cfg.MinLoading.Milliseconds(),
		"submitDelayMs":   s.cfg.SubmitDelay.Milliseconds(),
		"resetDelayMs":    s.cfg.ResetDelay.Milliseconds(),
	}
	if s.cfg.ContactMode != ContactSimulate {
		data["contactEndpoint"] = "/contact"
	}
	return data
}

func (s *server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.pageData())
}

func (s *server) handleSection(c *gin.Context) {
	id := c.Param("id")
	for _, name := range pageSections {
		if name == id {
			c.HTML(http.StatusOK, name, s.pageData())
			return
		}
	}
	c.String(http.StatusNotFound, "unknown section %q", id)
}
