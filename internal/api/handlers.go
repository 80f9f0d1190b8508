package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/axion-health/axion-api/internal/agent"
	"github.com/axion-health/axion-api/internal/auth"
	"github.com/axion-health/axion-api/internal/core"
	"github.com/axion-health/axion-api/internal/metrics"
	"github.com/axion-health/axion-api/internal/store"
	"github.com/axion-health/axion-api/internal/tools"
)

// Agent is the query-answering surface the handlers call. The concrete
// orchestrator satisfies it; tests substitute a scripted one.
type Agent interface {
	ProcessQuery(ctx context.Context, userID, query string, history []agent.Turn) agent.Response
	GenerateInsights(ctx context.Context, userID string) []agent.Insight
}

// JournalSearcher is the direct search endpoint's backend; the agent's
// toolset satisfies it, so HTTP search and tool search behave identically.
type JournalSearcher interface {
	SearchPrivateJournal(ctx context.Context, userID, query string, nResults int) tools.Outcome
}

type APIHandler struct {
	dbStore       *store.SQLiteStore
	healthService *core.HealthDataService
	journals      *core.JournalService
	searcher      JournalSearcher
	agent         Agent
}

func NewAPIHandler(db *store.SQLiteStore, hs *core.HealthDataService, js *core.JournalService, searcher JournalSearcher, ag Agent) *APIHandler {
	return &APIHandler{
		dbStore:       db,
		healthService: hs,
		journals:      js,
		searcher:      searcher,
		agent:         ag,
	}
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		externalUserID, err := auth.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		user, err := h.dbStore.GetUserByExternalID(externalUserID)
		if err != nil {
			log.Printf("Error in JWTAuthMiddleware for user %s: %v", externalUserID, err)
			http.Error(w, "Failed to process user identity", http.StatusInternalServerError)
			return
		}

		if user == nil {
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), "userID", user.ID)
		ctx = context.WithValue(ctx, "externalUserID", user.ExternalUserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type SignupRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.UserID == "" || req.Password == "" {
		http.Error(w, "User ID and password are required", http.StatusBadRequest)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password for user %s: %v", req.UserID, err)
		http.Error(w, "Failed to process password", http.StatusInternalServerError)
		return
	}

	user, err := h.dbStore.CreateUser(req.UserID, hashedPassword)
	if err != nil {
		log.Printf("Error creating user %s: %v", req.UserID, err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.UserID == "" || req.Password == "" {
		http.Error(w, "User ID and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.dbStore.GetUserByExternalID(req.UserID)
	if err != nil {
		log.Printf("Error getting user %s: %v", req.UserID, err)
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWT(req.UserID)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", req.UserID, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

func (h *APIHandler) SyncHealthDataHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	report, err := h.healthService.Sync(r.Context(), userID)
	if err != nil {
		log.Printf("Error syncing health data for user %s: %v", userID, err)
		http.Error(w, "Failed to sync health data", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(report)
}

func (h *APIHandler) GetHealthDataHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	metricType := r.URL.Query().Get("metric_type")
	if metricType != "" {
		metricType = metrics.Normalize(metricType)
	}
	days := 7
	if d := r.URL.Query().Get("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil {
			http.Error(w, "days must be an integer", http.StatusBadRequest)
			return
		}
		days = n
	}

	samples, err := h.healthService.Metrics(userID, metricType, days)
	if err != nil {
		log.Printf("Error reading health data for user %s: %v", userID, err)
		http.Error(w, "Failed to read health data", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"metrics": samples,
		"count":   len(samples),
	})
}

type CreateJournalRequest struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

func (h *APIHandler) CreateJournalEntryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	var req CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Date == "" || req.Content == "" {
		http.Error(w, "Date and content are required", http.StatusBadRequest)
		return
	}

	entry, err := h.journals.Create(r.Context(), userID, req.Date, req.Content)
	if err != nil {
		log.Printf("Error creating journal entry for user %s: %v", userID, err)
		http.Error(w, "Failed to create journal entry", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

func (h *APIHandler) ListJournalEntriesHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	entries, err := h.journals.List(userID)
	if err != nil {
		log.Printf("Error listing journal entries for user %s: %v", userID, err)
		http.Error(w, "Failed to list journal entries", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

func (h *APIHandler) GetJournalEntryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	entryID := chi.URLParam(r, "entryID")

	entry, err := h.journals.Get(entryID, userID)
	if err != nil {
		log.Printf("Error getting journal entry %s for user %s: %v", entryID, userID, err)
		http.Error(w, "Failed to get journal entry", http.StatusInternalServerError)
		return
	}
	if entry == nil {
		http.Error(w, "Journal entry not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(entry)
}

func (h *APIHandler) DeleteJournalEntryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	entryID := chi.URLParam(r, "entryID")

	deleted, err := h.journals.Delete(r.Context(), entryID, userID)
	if err != nil {
		log.Printf("Error deleting journal entry %s for user %s: %v", entryID, userID, err)
		http.Error(w, "Failed to delete journal entry", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Journal entry not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type SearchJournalRequest struct {
	Query    string `json:"query"`
	NResults int    `json:"n_results"`
}

func (h *APIHandler) SearchJournalHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	var req SearchJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "Query cannot be empty", http.StatusBadRequest)
		return
	}

	outcome := h.searcher.SearchPrivateJournal(r.Context(), userID, req.Query, req.NResults)
	json.NewEncoder(w).Encode(outcome.Payload)
}

type QueryRequest struct {
	Query   string       `json:"query"`
	History []agent.Turn `json:"history,omitempty"`
}

func (h *APIHandler) AgentQueryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "Query cannot be empty", http.StatusBadRequest)
		return
	}

	resp := h.agent.ProcessQuery(r.Context(), userID, req.Query, req.History)
	json.NewEncoder(w).Encode(resp)
}

func (h *APIHandler) AgentInsightsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	insights := h.agent.GenerateInsights(r.Context(), userID)
	json.NewEncoder(w).Encode(map[string]any{
		"insights": insights,
		"count":    len(insights),
	})
}
