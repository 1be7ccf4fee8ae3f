// Package conversation keeps chat histories in memory, keyed by session.
package conversation

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"news_hub/internal/domain"
)

// Store holds at most size sessions and evicts the least recently used.
type Store struct {
	cache *lru.Cache[string, domain.Conversation]
}

func NewStore(size int) (*Store, error) {
	cache, err := lru.New[string, domain.Conversation](size)
	if err != nil {
		return nil, fmt.Errorf("create conversation cache: %w", err)
	}
	return &Store{cache: cache}, nil
}

// Load returns the history of sessionID, or an empty one.
func (s *Store) Load(sessionID string) domain.Conversation {
	if c, ok := s.cache.Get(sessionID); ok {
		return c
	}
	return domain.Conversation{SessionID: sessionID}
}

func (s *Store) Save(c domain.Conversation) {
	s.cache.Add(c.SessionID, c)
}

func (s *Store) Len() int {
	return s.cache.Len()
}
