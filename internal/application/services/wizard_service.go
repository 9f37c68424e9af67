package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/repositories"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/clients/searchapi"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/observability"
	apperrors "github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/errors"
)

// WizardService drives the three-step search wizard. Sessions are loaded
// and written through the SessionStore on every transition; the service
// itself keeps no wizard state beyond per-session locks, so any instance
// behind a load balancer can serve any session.
type WizardService struct {
	api       searchapi.Client
	store     repositories.SessionStore
	analytics *SearchAnalyticsService
	flags     *FeatureFlags
	metrics   *observability.Metrics

	ttl      time.Duration
	pageSize int

	// One mutex per live session. A transition holds the session's mutex
	// for its whole duration, so at most one transition per session is in
	// flight at a time. ChangePage releases it around the upstream call
	// and relies on sequence numbers instead (see below).
	locks sync.Map
}

// NewWizardService creates a new wizard service. analytics and metrics may
// be nil when the corresponding backends are not configured.
func NewWizardService(
	api searchapi.Client,
	store repositories.SessionStore,
	analytics *SearchAnalyticsService,
	flags *FeatureFlags,
	metrics *observability.Metrics,
	ttl time.Duration,
	pageSize int,
) *WizardService {
	if flags == nil {
		flags = NewFeatureFlags()
	}
	return &WizardService{
		api:       api,
		store:     store,
		analytics: analytics,
		flags:     flags,
		metrics:   metrics,
		ttl:       ttl,
		pageSize:  pageSize,
	}
}

func (s *WizardService) sessionLock(id string) *sync.Mutex {
	m, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// StartSession creates a fresh wizard session.
func (s *WizardService) StartSession(ctx context.Context, userID int64) (*entities.Session, error) {
	session := entities.NewSession(uuid.New().String())
	session.UserID = userID

	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		return nil, apperrors.NewInternalError("failed to create session", err)
	}
	return session, nil
}

// GetSession loads a session by id.
func (s *WizardService) GetSession(ctx context.Context, id string) (*entities.Session, error) {
	session, err := s.store.Get(ctx, id)
	if err == repositories.ErrSessionNotFound {
		return nil, apperrors.NewNotFoundError("сессия не найдена или истекла")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load session", err)
	}
	return session, nil
}

// DeleteSession removes a session and its lock.
func (s *WizardService) DeleteSession(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return apperrors.NewInternalError("failed to delete session", err)
	}
	s.locks.Delete(id)
	return nil
}

// Submit runs the initial search and, on success, moves the wizard to the
// variant-selection step. On failure the session is left untouched so the
// user can retry from the same screen.
func (s *WizardService) Submit(ctx context.Context, sessionID, name, city string) (*entities.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("Введите название препарата")
	}

	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := s.api.TwoStepSearch(ctx, name, city)
	latency := time.Since(started)
	if s.metrics != nil {
		observability.RecordUpstreamMetric(ctx, s.metrics, "two_step_search", latency)
	}
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("initial search failed")
		return nil, apperrors.NewExternalError("Поиск временно недоступен. Попробуйте позже.", err)
	}

	if s.analytics != nil {
		s.analytics.TrackSearch(ctx, &entities.SearchEvent{
			Query:       name,
			City:        city,
			ResultCount: resp.TotalFound,
			LatencyMs:   int(latency.Milliseconds()),
			SessionID:   sessionID,
		})
	}

	variants := entities.BuildVariants(resp.PreviewProducts)
	if resp.TotalFound == 0 || len(variants) == 0 {
		return nil, apperrors.NewNotFoundError("По вашему запросу ничего не найдено")
	}

	session.Search = entities.SearchContext{
		Name:     name,
		City:     city,
		SearchID: resp.SearchID,
	}
	session.Variants = variants
	session.TotalFound = resp.TotalFound
	session.Results = nil
	session.Pagination = entities.PaginationState{Page: 1, TotalPages: 1}
	session.State = entities.StateChoosingVariant

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectVariant pins the chosen combination into the search context and
// fetches the first page of refined results.
func (s *WizardService) SelectVariant(ctx context.Context, sessionID string, key entities.VariantKey) (*entities.Session, error) {
	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != entities.StateChoosingVariant {
		return nil, apperrors.NewConflictError("выбор варианта недоступен на этом шаге")
	}
	if !sessionHasVariant(session, key) {
		return nil, apperrors.NewValidationError("такого варианта нет в списке")
	}

	search := session.Search
	search.Name = key.Name
	search.Form = key.Form
	search.Manufacturer = key.Manufacturer
	search.Country = key.Country

	page, err := s.fetchPage(ctx, search, 1)
	if err != nil {
		return nil, err
	}

	session.Search = search
	s.applyPage(session, page)
	session.State = entities.StateViewingResults

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ChangePage fetches page n of the current refined search. Out-of-range
// requests are rejected before any upstream call. The upstream call runs
// outside the session lock; its response is applied only while its sequence
// number is still the latest issued, so a superseded response is discarded
// instead of clobbering newer state.
func (s *WizardService) ChangePage(ctx context.Context, sessionID string, pageNum int) (*entities.Session, error) {
	mu := s.sessionLock(sessionID)

	mu.Lock()
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		mu.Unlock()
		return nil, err
	}
	if session.State != entities.StateViewingResults {
		mu.Unlock()
		return nil, apperrors.NewConflictError("навигация по страницам недоступна на этом шаге")
	}
	if pageNum < 1 || pageNum > session.Pagination.TotalPages {
		mu.Unlock()
		return nil, apperrors.NewValidationError("такой страницы нет")
	}
	if pageNum == session.Pagination.Page {
		mu.Unlock()
		return session, nil
	}

	session.PageSeq++
	seq := session.PageSeq
	search := session.Search
	if err := s.save(ctx, session); err != nil {
		mu.Unlock()
		return nil, err
	}
	mu.Unlock()

	page, err := s.fetchPage(ctx, search, pageNum)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()

	session, getErr := s.GetSession(ctx, sessionID)
	if getErr != nil {
		return nil, getErr
	}
	if session.PageSeq != seq {
		if s.metrics != nil {
			observability.RecordStaleResponse(ctx, s.metrics, sessionID)
		}
		log.Debug().Str("session_id", sessionID).Int("page", pageNum).Msg("discarding superseded page response")
		return session, nil
	}
	if session.State != entities.StateViewingResults {
		return session, nil
	}

	s.applyPage(session, page)
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Back returns from variant selection to the search screen, keeping the
// entered name and city.
func (s *WizardService) Back(ctx context.Context, sessionID string) (*entities.Session, error) {
	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != entities.StateChoosingVariant {
		return nil, apperrors.NewConflictError("возврат к поиску недоступен на этом шаге")
	}

	session.Search.Form = ""
	session.Search.Manufacturer = ""
	session.Search.Country = ""
	session.Variants = nil
	session.TotalFound = 0
	session.Results = nil
	session.Pagination = entities.PaginationState{Page: 1, TotalPages: 1}
	session.State = entities.StateSearching

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// BackToVariants returns from the results to the variant list. The list
// cached at submit time is redisplayed without a new upstream request.
func (s *WizardService) BackToVariants(ctx context.Context, sessionID string) (*entities.Session, error) {
	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != entities.StateViewingResults {
		return nil, apperrors.NewConflictError("возврат к вариантам недоступен на этом шаге")
	}

	session.Search.Form = ""
	session.Search.Manufacturer = ""
	session.Search.Country = ""
	session.Results = nil
	session.Pagination = entities.PaginationState{Page: 1, TotalPages: 1}
	session.State = entities.StateChoosingVariant

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// NewSearch resets the wizard to a blank search screen.
func (s *WizardService) NewSearch(ctx context.Context, sessionID string) (*entities.Session, error) {
	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Reset()
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// NavigateToStep handles step-indicator clicks. Forward jumps are
// rejected; backward jumps map onto the corresponding back transitions.
func (s *WizardService) NavigateToStep(ctx context.Context, sessionID string, target entities.WizardState) (*entities.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.CanNavigateTo(target) {
		return nil, apperrors.NewValidationError("нельзя перейти вперёд по шагам")
	}
	if target == session.State {
		return session, nil
	}

	switch {
	case target == entities.StateSearching && session.State == entities.StateChoosingVariant:
		return s.Back(ctx, sessionID)
	case target == entities.StateSearching:
		return s.NewSearch(ctx, sessionID)
	default:
		return s.BackToVariants(ctx, sessionID)
	}
}

// PageSize returns the fixed page size used for refined searches.
func (s *WizardService) PageSize() int {
	return s.pageSize
}

func (s *WizardService) save(ctx context.Context, session *entities.Session) error {
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		return apperrors.NewInternalError("failed to save session", err)
	}
	return nil
}

func (s *WizardService) fetchPage(ctx context.Context, search entities.SearchContext, pageNum int) (*searchapi.SearchPage, error) {
	started := time.Now()
	page, err := s.api.Search(ctx, searchapi.SearchRequest{
		Name:         search.Name,
		City:         search.City,
		Form:         search.Form,
		Manufacturer: search.Manufacturer,
		Country:      search.Country,
		SearchID:     search.SearchID,
		Page:         pageNum,
		Size:         s.pageSize,
	})
	if s.metrics != nil {
		observability.RecordUpstreamMetric(ctx, s.metrics, "search", time.Since(started))
	}
	if err != nil {
		log.Warn().Err(err).Int("page", pageNum).Msg("refined search failed")
		return nil, apperrors.NewExternalError("Не удалось загрузить результаты. Попробуйте позже.", err)
	}
	return page, nil
}

// applyPage replaces the result page. Pagination fields come from the
// response, never from local arithmetic.
func (s *WizardService) applyPage(session *entities.Session, page *searchapi.SearchPage) {
	session.Results = entities.GroupStock(page.Items, entities.GroupingPolicy{
		ExcludeOutOfStock: s.flags.ExcludeOutOfStock(),
	})
	session.Pagination = entities.PaginationState{
		Page:       page.Page,
		Size:       page.Size,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}

func sessionHasVariant(session *entities.Session, key entities.VariantKey) bool {
	for i := range session.Variants {
		if session.Variants[i].Key() == key {
			return true
		}
	}
	return false
}
