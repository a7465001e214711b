package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"donna/internal/dispatch"
	"donna/internal/logger"
	"donna/internal/model"
	"donna/internal/whatsapp"
)

// Server exposes the webhook endpoints: the Graph verification handshake and
// the inbound event receiver. Each event is handled synchronously end to
// end: dispatch, then send the single reply.
type Server struct {
	engine      *gin.Engine
	client      *whatsapp.Client
	pipeline    *dispatch.Pipeline
	verifyToken string
	appSecret   string
}

func New(client *whatsapp.Client, pipeline *dispatch.Pipeline, config model.WhatsAppConfig) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:      gin.New(),
		client:      client,
		pipeline:    pipeline,
		verifyToken: config.VerifyToken,
		appSecret:   config.AppSecret,
	}

	s.engine.Use(gin.Recovery())
	s.engine.GET("/webhook", s.handleVerify)
	s.engine.POST("/webhook", s.handleWebhook)

	return s
}

// Run blocks serving on the given port.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("webhook server listening")
	return s.engine.Run(addr)
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// handleVerify answers the hub.challenge subscription handshake.
func (s *Server) handleVerify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == s.verifyToken {
		logger.Info().Msg("webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}

	logger.Warn().Str("mode", mode).Msg("webhook verification failed")
	c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "Verification failed"})
}

func (s *Server) handleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Unreadable body"})
		return
	}

	if s.appSecret != "" {
		signature := c.GetHeader("X-Hub-Signature-256")
		if !whatsapp.ValidSignature(body, signature, s.appSecret) {
			logger.Warn().Msg("webhook signature verification failed")
			c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "Invalid signature"})
			return
		}
	}

	payload, err := whatsapp.ParsePayload(body)
	if err != nil {
		logger.Error().Err(err).Msg("failed to decode webhook body")
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Not a valid JSON payload"})
		return
	}

	if !payload.IsValidMessage() {
		// Status updates and other non-message events land here.
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Not a WhatsApp API event"})
		return
	}

	s.processMessage(c, payload)
}

func (s *Server) processMessage(c *gin.Context, payload *whatsapp.Payload) {
	ctx := c.Request.Context()

	waID, name, message, err := payload.MessageContext()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Not a WhatsApp API event"})
		return
	}

	inbound := model.InboundMessage{
		SenderID:   waID,
		SenderName: name,
		Kind:       model.KindText,
	}

	if message.Document != nil {
		inbound.Kind = model.KindDocument
		inbound.Text = message.Document.Caption

		localPath, err := s.client.DownloadDocument(ctx, message.Document)
		if err != nil {
			// The pipeline still answers; the upload branch reports the
			// missing file to the user.
			logger.Error().Err(err).Str("file", message.Document.Filename).Msg("document download failed")
		} else {
			inbound.Attachment = &model.Attachment{
				Filename:  message.Document.Filename,
				LocalPath: localPath,
				MimeType:  message.Document.MimeType,
			}
		}
	} else if message.Text != nil {
		inbound.Text = message.Text.Body
	}

	logger.Info().Str("user", waID).Str("kind", string(inbound.Kind)).Msg("processing inbound message")

	reply := s.pipeline.Respond(ctx, inbound)

	if err := s.client.SendText(ctx, waID, whatsapp.FormatText(reply)); err != nil {
		logger.Error().Err(err).Str("user", waID).Msg("failed to send reply")
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
