// Package handlers exposes the quoting assistant over HTTP.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ArchiTec-IA-Solution/architec-backend/internal/catalog"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/convo"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/glm"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/metrics"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/quote"
)

// Handler holds the services behind the HTTP surface.
type Handler struct {
	engine  *convo.Engine
	catalog *catalog.Service
	intents *glm.Service
	pdfs    *quote.PDFStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New builds the HTTP handler set.
func New(engine *convo.Engine, cat *catalog.Service, intents *glm.Service, pdfs *quote.PDFStore, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		engine:  engine,
		catalog: cat,
		intents: intents,
		pdfs:    pdfs,
		metrics: m,
		logger:  logger.With("component", "http"),
	}
}

// Router assembles the gin engine with all routes and middleware.
func (h *Handler) Router(appEnv string, gatherer prometheus.Gatherer) *gin.Engine {
	if appEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), h.recovery(), cors.Default())

	r.GET("/", h.status)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	chat := r.Group("/chat")
	chat.POST("/chat", h.chat)

	r.GET("/download/pdf/:session_id", h.downloadPDF)

	products := r.Group("/products")
	products.POST("/extract-products", h.extractProducts)
	products.GET("/testar-busca/:nome", h.testSearch)
	products.POST("/debug/busca", h.debugSearch)

	admin := r.Group("/admin")
	admin.GET("/verificar-excel", h.inspectCatalog)
	admin.POST("/recarregar-catalogo", h.reloadCatalog)

	return r
}

// recovery turns panics into a JSON 500 so clients never see a bare reset.
func (h *Handler) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("panic in handler", "path", c.Request.URL.Path, "panic", rec)
				h.metrics.Errors.WithLabelValues("panic").Inc()
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"error": "Ocorreu um erro interno no servidor."})
			}
		}()
		c.Next()
	}
}

func (h *Handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "API de orçamentos online",
		"excel":   h.catalog.Path(),
	})
}

type chatRequest struct {
	Message   string                  `json:"message"`
	SessionID string                  `json:"session_id"`
	Mode      string                  `json:"mode"`
	Products  []convo.IncomingProduct `json:"products"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados JSON inválidos"})
		return
	}
	if req.Message == "" && len(req.Products) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem não pode ser vazia."})
		return
	}

	resp := h.engine.HandleTurn(c.Request.Context(), convo.TurnRequest{
		SessionID: req.SessionID,
		Message:   req.Message,
		Mode:      req.Mode,
		Products:  req.Products,
	})
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) downloadPDF(c *gin.Context) {
	sessionID := c.Param("session_id")
	data, ok := h.pdfs.Get(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "PDF não encontrado"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=orcamento_%s.pdf", sessionID))
	c.Data(http.StatusOK, "application/pdf", data)
}

type extractRequest struct {
	Message string `json:"message"`
}

func (h *Handler) extractProducts(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem não pode ser vazia."})
		return
	}
	items := h.intents.ExtractProducts(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, gin.H{"products": items})
}

func (h *Handler) testSearch(c *gin.Context) {
	name := c.Param("nome")
	results := h.catalog.Search(c.Request.Context(), name)

	serialized := make([]map[string]any, len(results))
	for i, p := range results {
		serialized[i] = p.ToMap()
	}
	c.JSON(http.StatusOK, gin.H{
		"produto_buscado": name,
		"total":           len(results),
		"resultados":      serialized,
	})
}

type debugSearchRequest struct {
	Term string `json:"termo"`
}

func (h *Handler) debugSearch(c *gin.Context) {
	var req debugSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Informe o campo 'termo'."})
		return
	}

	results := h.catalog.Search(c.Request.Context(), req.Term)
	serialized := make([]map[string]any, len(results))
	for i, p := range results {
		serialized[i] = p.ToMap()
	}

	resp := gin.H{
		"termo":    req.Term,
		"total":    len(results),
		"produtos": serialized,
		"intent":   h.intents.ResolveIntent(c.Request.Context(), req.Term, "debug"),
	}
	if len(results) == 0 {
		resp["analise"] = h.catalog.SuggestAlternatives(c.Request.Context(), req.Term)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) inspectCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Inspect(c.Request.Context()))
}

func (h *Handler) reloadCatalog(c *gin.Context) {
	if err := h.catalog.Reload(c.Request.Context()); err != nil {
		h.logger.Error("catalog reload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao recarregar o catálogo."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
