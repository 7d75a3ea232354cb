package storage

import (
	"sort"
	"sync"

	"github.com/wildlife-tools/animaldetect/internal/models"
)

// ResultStore keeps the detection history in memory
type ResultStore struct {
	results map[string]*models.ResultRecord
	mu      sync.RWMutex
}

func New() *ResultStore {
	return &ResultStore{
		results: make(map[string]*models.ResultRecord),
	}
}

func (s *ResultStore) Get(id string) (*models.ResultRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, exists := s.results[id]
	return record, exists
}

func (s *ResultStore) Set(id string, record *models.ResultRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[id] = record
}

// List returns all records, oldest first
func (s *ResultStore) List() []*models.ResultRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.ResultRecord, 0, len(s.results))
	for _, v := range s.results {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete removes a record and reports whether it existed
func (s *ResultStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.results[id]
	delete(s.results, id)
	return exists
}
