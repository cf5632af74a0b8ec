package quote

import "sync"

// PDFStore keeps the latest rendered quote per session in memory, keyed for
// the download endpoint. A new quote for the same session overwrites the old
// one.
type PDFStore struct {
	mu   sync.RWMutex
	pdfs map[string][]byte
}

// NewPDFStore returns an empty store.
func NewPDFStore() *PDFStore {
	return &PDFStore{pdfs: make(map[string][]byte)}
}

// Put stores the rendered document for a session.
func (s *PDFStore) Put(sessionID string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pdfs[sessionID] = data
}

// Get returns the stored document and whether one exists.
func (s *PDFStore) Get(sessionID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.pdfs[sessionID]
	return data, ok
}

// Delete drops the stored document for a session.
func (s *PDFStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pdfs, sessionID)
}
