package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DilshanHF/portfolio/ui"
)

// Mailer hands a stored message to a person.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type smtpMailer struct {
	cfg      SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func newSMTPMailer(cfg SMTPConfig) *smtpMailer {
	if cfg.ToEmail == "" {
		cfg.ToEmail = cfg.User
	}
	return &smtpMailer{cfg: cfg, sendMail: smtp.SendMail}
}

func (s *smtpMailer) Send(_ context.Context, m Message) error {
	if s.cfg.User == "" || s.cfg.Pass == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}
	return s.sendMail(s.cfg.Host+":"+s.cfg.Port,
		smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host),
		s.cfg.User, []string{s.cfg.ToEmail}, composeMail(s.cfg, m))
}

func composeMail(cfg SMTPConfig, m Message) []byte {
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, m.Name, m.Email, m.Body)

	return []byte("To: " + headerValue(cfg.ToEmail) + "\r\n" +
		"Subject: Portfolio Contact: " + headerValue(m.Name) + "\r\n" +
		"From: " + headerValue(cfg.User) + "\r\n" +
		"Reply-To: " + headerValue(m.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

var headerBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// headerValue keeps visitor input on its own header line.
func headerValue(v string) string {
	return headerBreaks.Replace(v)
}

const (
	msgIncomplete = "Please fill in your name, a valid email and a message."
	msgSendFailed = "Sorry, there was an error sending your message. Please try again later."
	msgLineBreak  = "Name and email must each fit on one line."
)

type contactRequest struct {
	Name    string `form:"name" json:"name" binding:"required"`
	Email   string `form:"email" json:"email" binding:"required,email"`
	Message string `form:"message" json:"message" binding:"required"`
}

// contactResponse answers with JSON for the wasm client and with an HTML
// fragment for plain form posts.
func contactResponse(c *gin.Context, status int, errMsg string) {
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		if errMsg != "" {
			c.JSON(status, gin.H{"error": errMsg})
			return
		}
		c.JSON(status, gin.H{"status": "sent"})
		return
	}
	if errMsg != "" {
		c.HTML(status, "contact-error.html", gin.H{"error": errMsg})
		return
	}
	c.HTML(status, "contact-success.html", gin.H{
		"success": "Thank you for reaching out. I'll get back to you as soon as possible.",
	})
}

func (s *server) handleContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBind(&req); err != nil {
		contactResponse(c, http.StatusUnprocessableEntity, msgIncomplete)
		return
	}
	form := ui.Form{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := form.Validate(); err != nil {
		msg := msgIncomplete
		if errors.Is(err, ui.ErrLineBreak) {
			msg = msgLineBreak
		}
		contactResponse(c, http.StatusUnprocessableEntity, msg)
		return
	}

	if s.cfg.ContactMode == ContactSimulate {
		// Nothing leaves the browser in this mode; plain form posts get the
		// same answer the simulated workflow shows.
		contactResponse(c, http.StatusOK, "")
		return
	}

	ctx := c.Request.Context()
	msg, err := s.store.SaveMessage(ctx, form.Name, form.Email, form.Message, time.Now())
	if err != nil {
		s.log.Error("saving contact message", zap.Error(err))
		contactResponse(c, http.StatusInternalServerError, msgSendFailed)
		return
	}

	if s.mailer != nil {
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.log.Error("sending contact email", zap.String("id", msg.ID), zap.Error(err))
			contactResponse(c, http.StatusBadGateway, msgSendFailed)
			return
		}
		if err := s.store.MarkDelivered(ctx, msg.ID); err != nil {
			s.log.Warn("marking message delivered", zap.String("id", msg.ID), zap.Error(err))
		}
	}

	s.log.Info("contact message received", zap.String("id", msg.ID), zap.String("from", hashIP(s.salt, c.ClientIP())))
	contactResponse(c, http.StatusOK, "")
}
