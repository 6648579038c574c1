package services

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
)

// ListService handles listing, filtering and searching catalogued models
type ListService struct {
	catalog *CatalogService
}

// NewListService creates a new list service
func NewListService(catalog *CatalogService) *ListService {
	return &ListService{
		catalog: catalog,
	}
}

// ListRequest represents a request to list models
type ListRequest struct {
	LOD     domain.LOD   // catalog to read (default medium)
	Axis    *domain.Axis // filter by extrusion axis (optional)
	SortBy  string       // "id", "name", "length", "size" (default: id)
	Reverse bool         // Reverse sort order
}

// ListResponse represents the response from listing models
type ListResponse struct {
	Models    []domain.Metadata
	Total     int
	TotalSize int64
}

// Execute lists models with optional filtering and sorting
func (s *ListService) Execute(ctx context.Context, req ListRequest) (*ListResponse, error) {
	models, err := s.load(ctx, req.LOD)
	if err != nil {
		return nil, err
	}

	if req.Axis != nil {
		models = filterByAxis(models, *req.Axis)
	}

	models = sortModels(models, req.SortBy, req.Reverse)

	resp := &ListResponse{Models: models, Total: len(models)}
	for _, m := range models {
		resp.TotalSize += m.FileSize
	}
	return resp, nil
}

func (s *ListService) load(ctx context.Context, lod domain.LOD) ([]domain.Metadata, error) {
	if lod == "" {
		lod = domain.DefaultLOD
	}
	catalog, err := s.catalog.Load(ctx, lod)
	if err != nil {
		return nil, err
	}
	return catalog.Models, nil
}

func filterByAxis(models []domain.Metadata, axis domain.Axis) []domain.Metadata {
	var filtered []domain.Metadata
	for _, m := range models {
		if m.ExtrusionAxis == axis {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func sortModels(models []domain.Metadata, sortBy string, reverse bool) []domain.Metadata {
	sort.SliceStable(models, func(i, j int) bool {
		a, b := models[i], models[j]
		if reverse {
			a, b = b, a
		}
		switch sortBy {
		case "name":
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case "length":
			return a.Dimensions.BaseLength < b.Dimensions.BaseLength
		case "size":
			return a.FileSize < b.FileSize
		default: // "id"
			return a.ID < b.ID
		}
	})
	return models
}

// SearchRequest represents a search query
type SearchRequest struct {
	Query string
	LOD   domain.LOD
}

// SearchResponse represents search results
type SearchResponse struct {
	Models []domain.Metadata
	Total  int
}

// Search performs fuzzy search on model names and ids
func (s *ListService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	models, err := s.load(ctx, req.LOD)
	if err != nil {
		return nil, err
	}

	// If no query, return all
	if strings.TrimSpace(req.Query) == "" {
		return &SearchResponse{
			Models: models,
			Total:  len(models),
		}, nil
	}

	matches := fuzzySearch(models, req.Query)

	return &SearchResponse{
		Models: matches,
		Total:  len(matches),
	}, nil
}

// fuzzyMatch represents a scored match
type fuzzyMatch struct {
	model domain.Metadata
	score int
}

// fuzzySearch matches names, then ids, then profile types, best first
func fuzzySearch(models []domain.Metadata, query string) []domain.Metadata {
	query = strings.TrimSpace(query)
	if query == "" {
		return models
	}

	var matches []fuzzyMatch

	for _, m := range models {
		if score := fuzzyMatchScore(m.Name, query); score > 0 {
			matches = append(matches, fuzzyMatch{model: m, score: score + 1000})
			continue
		}

		if score := fuzzyMatchScore(m.ID, query); score > 0 {
			matches = append(matches, fuzzyMatch{model: m, score: score + 500})
			continue
		}

		if score := fuzzyMatchScore(m.ProfileType, query); score > 0 {
			matches = append(matches, fuzzyMatch{model: m, score: score + 200})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	result := make([]domain.Metadata, len(matches))
	for i, m := range matches {
		result[i] = m.model
	}

	return result
}

// fuzzyMatchScore calculates a score for fuzzy matching query against text
// Returns 0 if no match, higher scores for better matches
func fuzzyMatchScore(text, query string) int {
	if text == "" || query == "" {
		return 0
	}

	textLower := strings.ToLower(text)
	queryLower := strings.ToLower(query)

	// Exact match gets highest score
	if text == query {
		return 10000
	}

	// Case-insensitive exact match
	if textLower == queryLower {
		return 9000
	}

	// Substring match (contains)
	if strings.Contains(textLower, queryLower) {
		score := 5000
		// Bonus for match at start
		if strings.HasPrefix(textLower, queryLower) {
			score += 2000
		}
		return score
	}

	// Fuzzy character-by-character matching
	score := 0
	textRunes := []rune(textLower)
	queryRunes := []rune(queryLower)

	queryIdx := 0
	consecutiveMatches := 0
	lastMatchIdx := -1

	for textIdx := 0; textIdx < len(textRunes) && queryIdx < len(queryRunes); textIdx++ {
		if textRunes[textIdx] == queryRunes[queryIdx] {
			// Base score for each matched character
			score += 100

			// Bonus for consecutive matches
			if textIdx == lastMatchIdx+1 {
				consecutiveMatches++
				score += consecutiveMatches * 50 // Increasing bonus for consecutive chars
			} else {
				consecutiveMatches = 0
			}

			// Bonus for matching at word boundary
			if textIdx == 0 || unicode.IsSpace(textRunes[textIdx-1]) || textRunes[textIdx-1] == '-' || textRunes[textIdx-1] == '_' {
				score += 200
			}

			// Bonus for matching at start of string
			if textIdx == 0 {
				score += 300
			}

			lastMatchIdx = textIdx
			queryIdx++
		}
	}

	// All query characters must be matched
	if queryIdx != len(queryRunes) {
		return 0
	}

	// Penalty for gaps between matches
	if lastMatchIdx >= 0 {
		matchSpan := lastMatchIdx + 1
		penalty := (matchSpan - len(queryRunes)) * 10
		score -= penalty
	}

	return score
}
