// Package formvalues holds the values of the dynamic report form, keyed by
// field name, shared by every record store of the application.
package formvalues

import (
	"encoding/json"
	"sync"

	"github.com/freedom_case_2/callemail/internal/models"
)

type Store struct {
	mu     sync.RWMutex
	values map[string]models.FormValue
}

func New() *Store {
	return &Store{values: map[string]models.FormValue{}}
}

func (s *Store) SetFormValue(key string, v models.FormValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = map[string]models.FormValue{}
	}
	s.values[key] = v
}

func (s *Store) FormValue(key string) (models.FormValue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// RendererFormData returns a copy of all values for submission with a record.
func (s *Store) RendererFormData() map[string]models.FormValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.FormValue, len(s.values))
	for k, v := range s.values {
		if v.Value != nil {
			v.Value = append(json.RawMessage(nil), v.Value...)
		}
		out[k] = v
	}
	return out
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]models.FormValue{}
}
