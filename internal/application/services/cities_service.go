package services

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/providers"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/clients/searchapi"
)

const (
	citiesCacheKey        = "cities:list"
	citiesCacheTTLSeconds = 3600
)

// FallbackCities is served when the upstream city list is unavailable or
// malformed. The wizard must stay usable without it.
var FallbackCities = []string{"Минск", "Гомель", "Брест", "Гродно", "Витебск", "Могилев"}

// CitiesService serves the city list with a cache in front of the upstream
// and a static fallback behind it.
type CitiesService struct {
	api   searchapi.Client
	cache providers.CacheProvider
}

// NewCitiesService creates a new cities service. cache may be nil.
func NewCitiesService(api searchapi.Client, cache providers.CacheProvider) *CitiesService {
	return &CitiesService{api: api, cache: cache}
}

// List returns the selectable cities. Failures never propagate: the
// fallback list is returned instead so city selection always renders.
func (s *CitiesService) List(ctx context.Context) []string {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, citiesCacheKey); err == nil {
			var cities []string
			if err := json.Unmarshal(data, &cities); err == nil && len(cities) > 0 {
				return cities
			}
		}
	}

	cities, err := s.api.Cities(ctx)
	if err != nil || len(cities) == 0 {
		log.Warn().Err(err).Msg("city list unavailable, serving fallback")
		return FallbackCities
	}

	if s.cache != nil {
		if data, err := json.Marshal(cities); err == nil {
			if err := s.cache.Set(ctx, citiesCacheKey, data, citiesCacheTTLSeconds); err != nil {
				log.Warn().Err(err).Msg("failed to cache city list")
			}
		}
	}

	return cities
}
