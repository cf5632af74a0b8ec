// Package catalog loads the product spreadsheet and answers free-text
// searches against it.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ArchiTec-IA-Solution/architec-backend/internal/cache"
)

// Service reads the catalog file on demand, with an optional Redis layer in
// front so hot chat paths do not reparse the spreadsheet on every turn.
type Service struct {
	path     string
	cache    *cache.Redis
	cacheTTL time.Duration
	logger   *slog.Logger
}

// Info describes the catalog source, used by the admin inspection endpoint.
type Info struct {
	FileExists   bool              `json:"arquivo_existe"`
	Path         string            `json:"arquivo"`
	TotalRecords int               `json:"total_registros"`
	Columns      []string          `json:"colunas"`
	Identified   map[string]string `json:"colunas_identificadas"`
	Samples      []map[string]any  `json:"amostra"`
}

// NewService builds a catalog service over the given file. cacheClient may be
// nil, disabling the Redis layer.
func NewService(path string, cacheClient *cache.Redis, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		path:     path,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		logger:   logger.With("component", "catalog"),
	}
}

// Path returns the catalog file path.
func (s *Service) Path() string {
	return s.path
}

func (s *Service) cacheKey() string {
	return "catalog:products:" + s.path
}

// Products returns every catalog row in sheet order. A missing or unreadable
// file yields an empty slice, never an error: the chat flow degrades to "not
// found" answers instead of failing the request.
func (s *Service) Products(ctx context.Context) []Product {
	var cached []Product
	hit, err := s.cache.GetJSON(ctx, s.cacheKey(), &cached)
	if err != nil {
		s.logger.Warn("catalog cache read failed", "error", err)
	}
	if hit {
		return cached
	}

	products := s.load()
	if err := s.cache.SetJSON(ctx, s.cacheKey(), products, s.cacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", "error", err)
	}
	return products
}

func (s *Service) load() []Product {
	rows, err := readRows(s.path)
	if err != nil {
		s.logger.Warn("catalog unavailable", "path", s.path, "error", err)
		return []Product{}
	}
	products, cols := buildProducts(rows)
	if _, ok := cols["descricao"]; !ok {
		s.logger.Warn("catalog has no recognizable description column", "path", s.path)
		return []Product{}
	}
	return products
}

// Reload drops the cached snapshot so the next read reparses the file.
func (s *Service) Reload(ctx context.Context) error {
	if err := s.cache.Delete(ctx, s.cacheKey()); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

// searchTerms lowercases the query and keeps tokens longer than two runes, so
// connectives like "de" or "da" never constrain the match.
func searchTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 2 {
			terms = append(terms, f)
		}
	}
	return terms
}

// Search runs the two-pass lookup: first rows whose description contains
// every term, then, if that found nothing and the query had multiple terms,
// rows matching any single term. Sheet order is preserved in both passes.
func (s *Service) Search(ctx context.Context, query string) []Product {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return []Product{}
	}
	products := s.Products(ctx)

	results := make([]Product, 0, 4)
	for _, p := range products {
		desc := strings.ToLower(p.Description)
		all := true
		for _, term := range terms {
			if !strings.Contains(desc, term) {
				all = false
				break
			}
		}
		if all {
			results = append(results, p)
		}
	}

	if len(results) == 0 && len(terms) > 1 {
		seen := make(map[string]bool)
		for _, term := range terms {
			for _, p := range products {
				if !strings.Contains(strings.ToLower(p.Description), term) {
					continue
				}
				if seen[p.Description] {
					continue
				}
				seen[p.Description] = true
				results = append(results, p)
			}
		}
	}

	return results
}

// SuggestAlternatives explains a failed search: which individual terms do
// match something, plus a handful of catalog descriptions containing them.
func (s *Service) SuggestAlternatives(ctx context.Context, query string) string {
	terms := searchTerms(query)
	products := s.Products(ctx)

	var b strings.Builder
	fmt.Fprintf(&b, "Análise da busca por '%s':\n", query)

	if len(products) == 0 {
		b.WriteString("- Catálogo vazio ou indisponível\n")
		return b.String()
	}

	for _, term := range terms {
		matches := make([]string, 0, 3)
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Description), term) {
				matches = append(matches, p.Description)
				if len(matches) == 3 {
					break
				}
			}
		}
		if len(matches) == 0 {
			fmt.Fprintf(&b, "- '%s': nenhum produto contém este termo\n", term)
			continue
		}
		fmt.Fprintf(&b, "- '%s': encontrado em %s\n", term, strings.Join(matches, "; "))
	}
	return b.String()
}

// Descriptions returns up to limit product descriptions in sheet order.
// limit <= 0 means no cap.
func (s *Service) Descriptions(ctx context.Context, limit int) []string {
	products := s.Products(ctx)
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	descs := make([]string, len(products))
	for i, p := range products {
		descs[i] = p.Description
	}
	return descs
}

// Inspect reports the catalog source state for the admin endpoint.
func (s *Service) Inspect(ctx context.Context) Info {
	info := Info{
		Path:       s.path,
		Columns:    []string{},
		Identified: map[string]string{},
		Samples:    []map[string]any{},
	}
	if _, err := os.Stat(s.path); err != nil {
		return info
	}
	info.FileExists = true

	rows, err := readRows(s.path)
	if err != nil {
		s.logger.Warn("catalog inspect failed", "error", err)
		return info
	}
	if len(rows) > 0 {
		info.Columns = rows[0]
		for field, idx := range identifyColumns(rows[0]) {
			info.Identified[field] = rows[0][idx]
		}
	}

	products, _ := buildProducts(rows)
	info.TotalRecords = len(products)
	for i, p := range products {
		if i == 5 {
			break
		}
		info.Samples = append(info.Samples, p.ToMap())
	}
	return info
}
