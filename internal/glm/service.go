package glm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ArchiTec-IA-Solution/architec-backend/internal/catalog"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/extract"
	"github.com/ArchiTec-IA-Solution/architec-backend/internal/metrics"
)

// Intents the conversation engine understands.
const (
	IntentMakeQuote        = "fazer_orcamento"
	IntentProvideDimension = "fornecer_dimensao"
)

// IntentResult is the interpretation of one user message.
type IntentResult struct {
	Intent    string `json:"intent"`
	Product   string `json:"produto"`
	Quantity  int    `json:"quantidade"`
	Dimension string `json:"dimensao,omitempty"`
}

// SessionGate answers whether a session is waiting for a dimension, letting
// intent resolution short-circuit before any model call.
type SessionGate interface {
	AwaitingDimension(sessionID string) bool
}

// Service resolves user messages into intents and product lists, preferring
// the model and falling back to deterministic extraction.
type Service struct {
	client   *Client
	catalog  *catalog.Service
	sessions SessionGate
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService wires the GLM service. client may be nil, in which case every
// call takes the deterministic path.
func NewService(client *Client, cat *catalog.Service, sessions SessionGate, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		client:   client,
		catalog:  cat,
		sessions: sessions,
		metrics:  m,
		logger:   logger.With("component", "glm"),
	}
}

// Model answers are asked to be bare JSON but routinely arrive wrapped in
// prose or code fences; grab the outermost object.
var (
	jsonObject = regexp.MustCompile(`(?s)\{.*\}`)
	digitRun   = regexp.MustCompile(`\d+`)
)

// ResolveIntent interprets a single chat message. Sessions already waiting
// for a dimension bypass the model entirely; any model failure yields the
// deterministic fallback, never an error.
func (s *Service) ResolveIntent(ctx context.Context, message, sessionID string) IntentResult {
	if s.sessions != nil && s.sessions.AwaitingDimension(sessionID) {
		return IntentResult{Intent: IntentProvideDimension, Dimension: message, Quantity: 1}
	}
	if s.client == nil {
		return s.fallbackIntent(message, "no api key")
	}

	descriptions := s.catalog.Descriptions(ctx, 20)
	if len(descriptions) == 0 {
		return s.fallbackIntent(message, "empty catalog")
	}

	raw, err := s.client.Complete(ctx, intentPrompt(descriptions, message), 100)
	if err != nil {
		return s.fallbackIntent(message, err.Error())
	}

	blob := jsonObject.FindString(raw)
	if blob == "" {
		return s.fallbackIntent(message, "no json in model answer")
	}

	var parsed struct {
		Intent    string          `json:"intent"`
		Product   string          `json:"produto"`
		Quantity  json.RawMessage `json:"quantidade"`
		Dimension string          `json:"dimensao"`
	}
	if err := json.Unmarshal([]byte(blob), &parsed); err != nil {
		return s.fallbackIntent(message, "unparseable model json")
	}
	if parsed.Intent == "" {
		return s.fallbackIntent(message, "model answer missing intent")
	}

	return IntentResult{
		Intent:    parsed.Intent,
		Product:   strings.TrimSpace(parsed.Product),
		Quantity:  normalizeQuantity(parsed.Quantity),
		Dimension: strings.TrimSpace(parsed.Dimension),
	}
}

func (s *Service) fallbackIntent(message, reason string) IntentResult {
	s.logger.Debug("intent fallback", "reason", reason)
	s.metrics.Errors.WithLabelValues("glm_intent_fallback").Inc()
	return IntentResult{
		Intent:   IntentMakeQuote,
		Product:  message,
		Quantity: extract.Quantity(message),
	}
}

// ExtractProducts pulls a list of product requests out of a multi-product
// message. Model names are re-resolved against the catalog so prices and
// dimensions always come from the spreadsheet, never from the model.
func (s *Service) ExtractProducts(ctx context.Context, message string) []extract.Item {
	if s.client == nil {
		return s.fallbackProducts(ctx, message, "no api key")
	}
	descriptions := s.catalog.Descriptions(ctx, 30)
	if len(descriptions) == 0 {
		return s.fallbackProducts(ctx, message, "empty catalog")
	}

	raw, err := s.client.Complete(ctx, productsPrompt(descriptions, message), 400)
	if err != nil {
		return s.fallbackProducts(ctx, message, err.Error())
	}

	blob := jsonObject.FindString(raw)
	if blob == "" {
		return s.fallbackProducts(ctx, message, "no json in model answer")
	}

	var parsed struct {
		Products []struct {
			Name     string          `json:"name"`
			Quantity json.RawMessage `json:"quantity"`
		} `json:"products"`
	}
	if err := json.Unmarshal([]byte(blob), &parsed); err != nil {
		return s.fallbackProducts(ctx, message, "unparseable model json")
	}

	items := make([]extract.Item, 0, len(parsed.Products))
	index := make(map[string]int)
	for _, p := range parsed.Products {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		results := s.catalog.Search(ctx, name)
		if len(results) == 0 {
			s.logger.Debug("model product not in catalog", "name", name)
			continue
		}
		product := results[0]

		key := strings.ToLower(product.Description)
		if i, ok := index[key]; ok {
			items[i].Quantity += normalizeQuantity(p.Quantity)
			continue
		}
		index[key] = len(items)
		items = append(items, extract.Item{
			Name:       product.Description,
			Quantity:   normalizeQuantity(p.Quantity),
			Price:      product.UnitPrice(),
			Dimensions: product.Dimension,
		})
	}

	if len(items) == 0 {
		return s.fallbackProducts(ctx, message, "model found nothing usable")
	}
	return items
}

func (s *Service) fallbackProducts(ctx context.Context, message, reason string) []extract.Item {
	s.logger.Debug("product extraction fallback", "reason", reason)
	s.metrics.Errors.WithLabelValues("glm_extract_fallback").Inc()
	return extract.Manual(ctx, s.catalog, message)
}

// normalizeQuantity accepts the number or string the model produces for a
// quantity field and floors it at one.
func normalizeQuantity(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 1
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		switch {
		case asNumber < 1:
			return 1
		case asNumber > math.MaxInt32:
			// int(overflowing float) is implementation-defined; cap it.
			return math.MaxInt32
		}
		return int(asNumber)
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if m := digitRun.FindString(asString); m != "" {
			if n, convErr := strconv.Atoi(m); convErr == nil && n >= 1 {
				return n
			}
		}
	}
	return 1
}

func intentPrompt(descriptions []string, message string) string {
	var b strings.Builder
	b.WriteString("Você é um assistente de vendas de uma loja de ferragens e acessórios para móveis.\n")
	b.WriteString("Analise a mensagem do cliente e responda APENAS com um JSON válido, sem texto adicional.\n\n")
	b.WriteString("Produtos disponíveis no catálogo:\n")
	for _, d := range descriptions {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	b.WriteString("\nFormato da resposta:\n")
	b.WriteString(`{"intent": "fazer_orcamento" ou "fornecer_dimensao", "produto": "nome do produto", "quantidade": numero, "dimensao": "dimensao se informada"}`)
	b.WriteString("\n\nMensagem do cliente: ")
	b.WriteString(message)
	return b.String()
}

func productsPrompt(descriptions []string, message string) string {
	var b strings.Builder
	b.WriteString("Você é um assistente de vendas. O cliente pediu vários produtos em uma única mensagem.\n")
	b.WriteString("Identifique cada produto e sua quantidade. Responda APENAS com um JSON válido.\n\n")
	b.WriteString("Produtos disponíveis no catálogo:\n")
	for _, d := range descriptions {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	b.WriteString("\nFormato da resposta:\n")
	b.WriteString(`{"products": [{"name": "nome do produto como está no catálogo", "quantity": numero}]}`)
	b.WriteString("\n\nMensagem do cliente: ")
	b.WriteString(message)
	return b.String()
}
