package storage

import (
	"testing"
	"time"

	"github.com/wildlife-tools/animaldetect/internal/models"
)

func TestResultStore(t *testing.T) {
	s := New()
	now := time.Now()

	s.Set("b", &models.ResultRecord{ID: "b", CreatedAt: now})
	s.Set("a", &models.ResultRecord{ID: "a", CreatedAt: now.Add(-time.Minute)})
	s.Set("c", &models.ResultRecord{ID: "c", CreatedAt: now})

	if _, ok := s.Get("a"); !ok {
		t.Error("Expected record a to exist")
	}

	list := s.List()
	if len(list) != 3 || list[0].ID != "a" || list[1].ID != "b" || list[2].ID != "c" {
		t.Errorf("Expected records ordered by creation, got %v", ids(list))
	}

	if !s.Delete("b") {
		t.Error("Expected delete of existing record to report true")
	}
	if s.Delete("b") {
		t.Error("Expected second delete to report false")
	}
	if _, ok := s.Get("b"); ok {
		t.Error("Expected record b to be gone")
	}
}

func ids(records []*models.ResultRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
