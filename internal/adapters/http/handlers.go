package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dkeye/spotlight/internal/adapters/rtc"
	"github.com/dkeye/spotlight/internal/app/orch"
	"github.com/dkeye/spotlight/internal/config"
	"github.com/dkeye/spotlight/internal/journal"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

const (
	audiencePath   = "/audience"
	qrSize         = 320
	maxJournalRead = 500
)

// JournalReader is the read side of the journal store.
type JournalReader interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

type handlers struct {
	cfg     *config.Config
	orch    *orch.Orchestrator
	journal JournalReader
}

func handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *handlers) rtcConfig(c *gin.Context) {
	c.JSON(http.StatusOK, rtc.NewClientConfig(h.cfg.ICEServers))
}

// joinURL prefers the configured public URL; otherwise it is derived from the
// request, honouring X-Forwarded-Proto.
func (h *handlers) joinURL(r *http.Request) string {
	if h.cfg.PublicURL != "" {
		return strings.TrimRight(h.cfg.PublicURL, "/") + audiencePath
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + audiencePath
}

func (h *handlers) joinQR(c *gin.Context) {
	url := h.joinURL(c.Request)
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("url", url).Msg("qr generation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr generation failed"})
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/png", png)
}

func (h *handlers) state(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.State())
}

func (h *handlers) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.Stats())
}

func (h *handlers) journalEntries(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "journal disabled"})
		return
	}
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = min(n, maxJournalRead)
	}
	entries, err := h.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("read journal")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "journal unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
