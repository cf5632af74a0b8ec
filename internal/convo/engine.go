package convo

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ArchiTec-IA-Solution/architec-backend/internal/catalog"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/extract"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/glm"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/metrics"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/quote"
)

// QuoteRenderer produces the downloadable quote document.
type QuoteRenderer interface {
	Render(lines []quote.LineItem, clientName string) ([]byte, error)
}

// IncomingProduct is a confirmed product line sent by the client when
// finishing a multi-product quote.
type IncomingProduct struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Dimensions *string `json:"dimensions"`
}

// TurnRequest is one inbound chat message.
type TurnRequest struct {
	SessionID string
	Message   string
	Mode      string
	Products  []IncomingProduct
}

// TurnResponse is the engine's answer to a turn.
type TurnResponse struct {
	Text      string  `json:"response"`
	PDFURL    *string `json:"pdf_url"`
	SessionID string  `json:"session_id"`
}

// Engine routes chat turns through the conversation state machine.
type Engine struct {
	sessions *Store
	intents  *glm.Service
	catalog  *catalog.Service
	renderer QuoteRenderer
	pdfs     *quote.PDFStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewEngine wires the conversation engine.
func NewEngine(sessions *Store, intents *glm.Service, cat *catalog.Service, renderer QuoteRenderer, pdfs *quote.PDFStore, m *metrics.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		sessions: sessions,
		intents:  intents,
		catalog:  cat,
		renderer: renderer,
		pdfs:     pdfs,
		metrics:  m,
		logger:   logger.With("component", "engine"),
	}
}

// HandleTurn processes one chat message and always answers; internal
// failures degrade the response instead of erroring the turn.
func (e *Engine) HandleTurn(ctx context.Context, req TurnRequest) TurnResponse {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conv := e.sessions.Acquire(sessionID)
	conv.mu.Lock()
	defer conv.mu.Unlock()

	message := strings.TrimSpace(req.Message)
	lower := strings.ToLower(message)

	if req.Mode == "multiple" && lower == "generate_multiple_quote" && len(req.Products) > 0 {
		return e.multiQuote(conv, sessionID, req.Products)
	}

	if lower == "reiniciar" || lower == "restart" {
		conv.reset()
		e.metrics.ChatTurns.WithLabelValues("reset").Inc()
		return TurnResponse{
			Text:      "🔄 Conversa reiniciada. O que você gostaria de orçar?",
			SessionID: sessionID,
		}
	}

	switch conv.state {
	case StateMultipleOptions:
		return e.handleOptionChoice(conv, sessionID, message)
	case StateAwaitingDimension:
		return e.handleDimension(conv, sessionID, message)
	default:
		return e.handleRequest(ctx, conv, sessionID, message)
	}
}

// handleRequest starts a new quote from a free-text message.
func (e *Engine) handleRequest(ctx context.Context, conv *Conversation, sessionID, message string) TurnResponse {
	if extract.IsMultiProduct(message) {
		items := e.intents.ExtractProducts(ctx, message)
		if len(items) > 1 {
			return e.multiQuoteItems(conv, sessionID, quote.FromExtracted(items))
		}
	}

	intent := e.intents.ResolveIntent(ctx, message, sessionID)
	if intent.Intent == glm.IntentProvideDimension && conv.selected != nil {
		return e.handleDimension(conv, sessionID, intent.Dimension)
	}

	conv.reset()
	conv.quantity = intent.Quantity
	if conv.quantity < 1 {
		conv.quantity = 1
	}

	results := e.catalog.Search(ctx, intent.Product)
	switch len(results) {
	case 0:
		e.metrics.ChatTurns.WithLabelValues("not_found").Inc()
		e.logger.Info("no catalog match", "session_id", sessionID, "query", intent.Product)
		return TurnResponse{
			Text: fmt.Sprintf("*Produto não encontrado*\n\nNão encontrei \"%s\" no catálogo. "+
				"Tente descrever o produto de outra forma.", intent.Product),
			SessionID: sessionID,
		}
	case 1:
		return e.selectProduct(conv, sessionID, results[0])
	default:
		conv.candidates = results
		conv.setState(StateMultipleOptions)
		e.metrics.ChatTurns.WithLabelValues("options").Inc()
		return TurnResponse{Text: optionsText(results), SessionID: sessionID}
	}
}

// handleOptionChoice resolves a numeric reply to a candidate list. Anything
// that is not a valid option number re-prompts without losing the list.
func (e *Engine) handleOptionChoice(conv *Conversation, sessionID, message string) TurnResponse {
	choice, err := strconv.Atoi(strings.TrimSpace(message))
	if err != nil || choice < 1 || choice > len(conv.candidates) {
		e.metrics.ChatTurns.WithLabelValues("invalid_option").Inc()
		return TurnResponse{
			Text:      fmt.Sprintf("❌ Opção inválida. Por favor, escolha um número entre 1 e %d.", len(conv.candidates)),
			SessionID: sessionID,
		}
	}
	return e.selectProduct(conv, sessionID, conv.candidates[choice-1])
}

// handleDimension records the client's dimension answer verbatim and closes
// the quote.
func (e *Engine) handleDimension(conv *Conversation, sessionID, message string) TurnResponse {
	if conv.selected == nil {
		conv.reset()
		return TurnResponse{
			Text:      "🔄 Conversa reiniciada. O que você gostaria de orçar?",
			SessionID: sessionID,
		}
	}
	product := *conv.selected
	dim := strings.TrimSpace(message)
	product.Dimension = &dim
	conv.selected = &product
	return e.finalize(conv, sessionID)
}

func (e *Engine) selectProduct(conv *Conversation, sessionID string, product catalog.Product) TurnResponse {
	p := product
	conv.selected = &p
	conv.candidates = nil
	conv.setState(StateProductSelected)

	if !p.HasDimension() {
		conv.setState(StateAwaitingDimension)
		e.metrics.ChatTurns.WithLabelValues("dimension_requested").Inc()
		return TurnResponse{
			Text:      fmt.Sprintf("✅ *%s*\n\n*Por favor, informe as dimensões desejadas:*", p.Description),
			SessionID: sessionID,
		}
	}
	return e.finalize(conv, sessionID)
}

func (e *Engine) finalize(conv *Conversation, sessionID string) TurnResponse {
	conv.setState(StateQuoteDone)
	line := quote.FromProduct(*conv.selected, conv.quantity)
	e.metrics.ChatTurns.WithLabelValues("quote").Inc()
	return TurnResponse{
		Text:      quote.Summary(line),
		PDFURL:    e.renderPDF(sessionID, []quote.LineItem{line}),
		SessionID: sessionID,
	}
}

// multiQuote closes a quote from the confirmed product list the client sends
// back after extraction.
func (e *Engine) multiQuote(conv *Conversation, sessionID string, products []IncomingProduct) TurnResponse {
	lines := make([]quote.LineItem, 0, len(products))
	for _, p := range products {
		qty := p.Quantity
		if qty < 1 {
			qty = 1
		}
		price := p.Price
		lines = append(lines, quote.LineItem{
			Name:       p.Name,
			Quantity:   qty,
			UnitPrice:  &price,
			Dimensions: p.Dimensions,
		})
	}
	return e.multiQuoteItems(conv, sessionID, lines)
}

func (e *Engine) multiQuoteItems(conv *Conversation, sessionID string, lines []quote.LineItem) TurnResponse {
	conv.reset()
	conv.setState(StateQuoteDone)
	e.metrics.ChatTurns.WithLabelValues("multi_quote").Inc()
	return TurnResponse{
		Text:      quote.MultiSummary(lines),
		PDFURL:    e.renderPDF(sessionID, lines),
		SessionID: sessionID,
	}
}

// renderPDF stores the rendered document and returns its download path. A
// render failure degrades the turn to text only.
func (e *Engine) renderPDF(sessionID string, lines []quote.LineItem) *string {
	data, err := e.renderer.Render(lines, "Cliente "+sessionID)
	if err != nil {
		e.logger.Warn("quote pdf render failed", "session_id", sessionID, "error", err)
		e.metrics.Errors.WithLabelValues("pdf").Inc()
		return nil
	}
	e.pdfs.Put(sessionID, data)
	url := "/download/pdf/" + sessionID
	return &url
}

func optionsText(results []catalog.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 *Encontrei %d opções:*\n\n", len(results))
	for i, p := range results {
		fmt.Fprintf(&b, "*%d.* %s\n", i+1, p.Description)
		if p.HasDimension() {
			fmt.Fprintf(&b, "   📏 %s\n", *p.Dimension)
		}
		fmt.Fprintf(&b, "   💰 %s\n", p.FormatValue())
	}
	b.WriteString("\n*Digite o número da opção desejada.*")
	return b.String()
}
