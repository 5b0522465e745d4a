// admin.go - privacy-conscious admin area: visitor stats and the contact inbox
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func generateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic("generate token: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address for privacy compliance (consistent per IP within one run)
func hashIP(salt, ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// adminCredentials falls back to development defaults only in debug mode.
func (s *server) adminCredentials() (string, string, bool) {
	user, pass := s.cfg.AdminUsername, s.cfg.AdminPassword
	if user != "" && pass != "" {
		return user, pass, true
	}
	if gin.Mode() != gin.DebugMode {
		return "", "", false
	}
	s.log.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	if user == "" {
		user = "admin"
	}
	if pass == "" {
		pass = "admin123"
	}
	return user, pass, true
}

func (s *server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// visitorTracking records page views with hashed IPs. Static files, admin
// pages, the privacy policy and Do Not Track requests are skipped.
func (s *server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/privacy") ||
			strings.HasPrefix(path, "/favicon") ||
			path == "/healthz" ||
			c.GetHeader("DNT") == "1" ||
			c.Writer.Status() >= 400 {
			return
		}
		err := s.store.RecordVisitor(c.Request.Context(), hashIP(s.salt, c.ClientIP()), c.GetHeader("User-Agent"), path, time.Now())
		if err != nil {
			s.log.Warn("recording visitor", zap.Error(err))
		}
	}
}

func (s *server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"retention": s.cfg.VisitorRetention.String(),
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		user, pass, ok := s.adminCredentials()
		validUser := subtle.ConstantTimeCompare([]byte(c.PostForm("username")), []byte(user)) == 1
		validPass := subtle.ConstantTimeCompare([]byte(c.PostForm("password")), []byte(pass)) == 1
		if !ok || !validUser || !validPass {
			s.log.Warn("failed admin login", zap.String("from", hashIP(s.salt, c.ClientIP())))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{"error": "Invalid credentials"})
			return
		}
		c.SetCookie("admin_token", s.adminToken, 3600*24, "/admin", "", gin.Mode() == gin.ReleaseMode, true)
		s.log.Info("admin login", zap.String("from", hashIP(s.salt, c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			s.log.Error("loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/messages", func(c *gin.Context) {
		messages, err := s.store.Messages(c.Request.Context(), 200)
		if err != nil {
			s.log.Error("loading messages", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load messages"})
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{"messages": messages})
	})

	admin.DELETE("/messages/:id", func(c *gin.Context) {
		id := c.Param("id")
		found, err := s.store.DeleteMessage(c.Request.Context(), id)
		if err != nil {
			s.log.Error("deleting message", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		s.log.Info("message deleted", zap.String("id", id))
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.Visitors(c.Request.Context(), 200)
		if err != nil {
			s.log.Error("loading visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load visitors"})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.store.CleanupVisitors(c.Request.Context(), time.Now().Add(-s.cfg.VisitorRetention))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		c.JSON(http.StatusOK, stats)
	})
}
