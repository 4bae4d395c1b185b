package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/agext/levenshtein"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pemre/couchspinner/internal/core/domain"
	"github.com/pemre/couchspinner/internal/core/ports/driving"
)

// Ensure IdentityService implements the interface.
var _ driving.IdentityService = (*IdentityService)(nil)

const (
	// defaultFindLimit applies when Find is called with a non-positive limit.
	defaultFindLimit = 10

	// minFindScore drops matches that share little more than their length.
	minFindScore = 0.4
)

// IdentityService answers identity questions against the current snapshot.
type IdentityService struct {
	ingestor driving.Ingestor

	mu      sync.Mutex
	memo    *lru.Cache[string, []driving.IdentityMatch]
	memoDoc *domain.Document
}

// NewIdentityService creates an identity service reading snapshots from
// ingestor. memoSize bounds the number of remembered Find results.
func NewIdentityService(ingestor driving.Ingestor, memoSize int) *IdentityService {
	if memoSize <= 0 {
		memoSize = domain.DefaultSettings().Identity.MemoSize
	}
	memo, err := lru.New[string, []driving.IdentityMatch](memoSize)
	if err != nil {
		// Only returned for a non-positive size.
		panic(fmt.Sprintf("identity memo: %v", err))
	}
	return &IdentityService{
		ingestor: ingestor,
		memo:     memo,
	}
}

// Lookup returns the identity for a person id.
func (s *IdentityService) Lookup(personID string) (domain.Identity, error) {
	state, ok := s.ingestor.Snapshot()
	if !ok {
		return domain.Identity{}, domain.ErrNotFound
	}
	identity, ok := state.Identities.Lookup(personID)
	if !ok {
		return domain.Identity{}, fmt.Errorf("person %q: %w", personID, domain.ErrNotFound)
	}
	return identity, nil
}

// List returns every identity of the current snapshot ordered by person id.
func (s *IdentityService) List() []domain.Identity {
	state, ok := s.ingestor.Snapshot()
	if !ok {
		return []domain.Identity{}
	}
	return state.Identities.Sorted()
}

// Find ranks identities by how closely their username or display name
// matches query. Results are remembered until the snapshot changes.
func (s *IdentityService) Find(query string, limit int) []driving.IdentityMatch {
	if limit <= 0 {
		limit = defaultFindLimit
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []driving.IdentityMatch{}
	}

	state, ok := s.ingestor.Snapshot()
	if !ok {
		return []driving.IdentityMatch{}
	}

	key := fmt.Sprintf("%p\x00%d\x00%s", state.Document, limit, query)

	s.mu.Lock()
	if s.memoDoc != state.Document {
		s.memo.Purge()
		s.memoDoc = state.Document
	}
	s.mu.Unlock()

	if matches, ok := s.memo.Get(key); ok {
		return matches
	}

	matches := rankIdentities(state.Identities, query, limit)
	s.memo.Add(key, matches)
	return matches
}

func rankIdentities(index domain.IdentityIndex, query string, limit int) []driving.IdentityMatch {
	queryTokens := tokenize(query)

	var matches []driving.IdentityMatch
	for _, identity := range index {
		score := max(
			matchScore(query, queryTokens, identity.Username),
			matchScore(query, queryTokens, identity.DisplayName),
		)
		if score < minFindScore {
			continue
		}
		matches = append(matches, driving.IdentityMatch{Identity: identity, Score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Identity.PersonID < matches[j].Identity.PersonID
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	if matches == nil {
		matches = []driving.IdentityMatch{}
	}
	return matches
}

// matchScore scores candidate against a lowercase query in [0, 1].
func matchScore(query string, queryTokens []string, candidate string) float64 {
	candidate = strings.ToLower(candidate)
	if candidate == "" {
		return 0
	}

	// 1. Exact and substring matches
	if candidate == query {
		return 1.0
	}
	if strings.Contains(candidate, query) {
		return 0.95
	}

	// 2. Whole-string similarity
	score := similarity(query, candidate)

	// 3. Average of the best per-token similarity
	candidateTokens := tokenize(candidate)
	if len(queryTokens) > 0 && len(candidateTokens) > 0 {
		total := 0.0
		for _, q := range queryTokens {
			best := 0.0
			for _, c := range candidateTokens {
				best = max(best, similarity(q, c))
			}
			total += best
		}
		score = max(score, 0.9*total/float64(len(queryTokens)))
	}

	return score
}

// similarity is the normalised Levenshtein similarity of a and b.
func similarity(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	score := 1.0 - float64(levenshtein.Distance(a, b, nil))/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
