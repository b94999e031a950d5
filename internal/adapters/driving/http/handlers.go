package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/refledger/refledger-core/internal/core/domain"
	"github.com/refledger/refledger-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Header carrying the journal sequence the response was computed at.
const versionHeader = "Last-Modified-Version"

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns ready once the index has been loaded and is serving reads
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	version := s.libraryService.Version(r.Context())
	w.Header().Set(versionHeader, strconv.FormatUint(version, 10))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleLogin godoc
// @Summary      Operator login
// @Description  Authenticate with email and password to receive a JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Login credentials"
// @Success      200      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleLogout godoc
// @Summary      Logout
// @Description  Invalidate the current session token
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatusResponse
// @Router       /auth/logout [post]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	_ = s.authService.Logout(r.Context(), token)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Item endpoints

// handleListItems godoc
// @Summary      List items
// @Description  List library items with filtering and pagination
// @Tags         Items
// @Produce      json
// @Param        itemType  query  string   false  "Filter by item type"
// @Param        q         query  string   false  "Case-insensitive title substring"
// @Param        minScore  query  number   false  "Minimum overall score (unscored items excluded)"
// @Param        hasScore  query  boolean  false  "Filter by score presence"
// @Param        hasDOI    query  boolean  false  "Filter by identifier presence"
// @Param        isVariant query  boolean  false  "Filter by variant status"
// @Param        start     query  integer  false  "Pagination offset"
// @Param        limit     query  integer  false  "Page size (max 100)"
// @Success      200  {object}  domain.ItemList
// @Failure      400  {object}  ErrorResponse  "Invalid query parameter"
// @Router       /items [get]
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := s.libraryService.ListItems(r.Context(), opts)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(list.Version, 10))
	writeJSON(w, http.StatusOK, list)
}

// handleGetItem godoc
// @Summary      Get item
// @Description  Get a single library item by key
// @Tags         Items
// @Produce      json
// @Param        key  path  string  true  "Item key"
// @Success      200  {object}  domain.Record
// @Failure      404  {object}  ErrorResponse  "Item not found"
// @Router       /items/{key} [get]
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	record, version, err := s.libraryService.GetItem(r.Context(), key)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(version, 10))
	writeJSON(w, http.StatusOK, record)
}

// handleGetChildren godoc
// @Summary      Get item children
// @Description  List the notes and attachments of an item
// @Tags         Items
// @Produce      json
// @Param        key  path  string  true  "Item key"
// @Success      200  {array}   domain.Record
// @Failure      404  {object}  ErrorResponse  "Item not found"
// @Router       /items/{key}/children [get]
func (s *Server) handleGetChildren(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	children, version, err := s.libraryService.Children(r.Context(), key)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(version, 10))
	writeJSON(w, http.StatusOK, children)
}

// handleDOIStatus godoc
// @Summary      Get DOI status
// @Description  Report an item's mutability classification
// @Tags         Items
// @Produce      json
// @Param        key  path  string  true  "Item key"
// @Success      200  {object}  domain.DOIStatus
// @Failure      404  {object}  ErrorResponse  "Item not found"
// @Router       /items/{key}/doi-status [get]
func (s *Server) handleDOIStatus(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	status, version, err := s.libraryService.DOIStatus(r.Context(), key)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(version, 10))
	writeJSON(w, http.StatusOK, status)
}

// handleGetScores godoc
// @Summary      Get item scores
// @Description  Get an item's single score, its per-scorer scores, and their aggregate
// @Tags         Scores
// @Produce      json
// @Param        key  path  string  true  "Item key"
// @Success      200  {object}  driving.ScoreReport
// @Failure      404  {object}  ErrorResponse  "Item not found"
// @Router       /items/{key}/scores [get]
func (s *Server) handleGetScores(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	report, err := s.libraryService.GetScores(r.Context(), key)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(report.Version, 10))
	writeJSON(w, http.StatusOK, report)
}

// handleCreateItem godoc
// @Summary      Create item
// @Description  Append a new record to the journal
// @Tags         Items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.CreateItemRequest  true  "New record plus provenance"
// @Success      201      {object}  domain.Record
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      409      {object}  ErrorResponse  "Key or identifier already exists"
// @Router       /items [post]
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req driving.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.fillActor(r, &req.Actor)

	record, err := s.libraryService.CreateItem(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(s.libraryService.Version(r.Context()), 10))
	writeJSON(w, http.StatusCreated, record)
}

// handleUpdateItem godoc
// @Summary      Update item
// @Description  Append an edit to an existing record. Canonical records reject edits.
// @Tags         Items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key      path      string                     true  "Item key"
// @Param        request  body      driving.UpdateItemRequest  true  "Edited fields plus provenance"
// @Success      200      {object}  domain.Record
// @Failure      404      {object}  ErrorResponse  "Item not found"
// @Failure      409      {object}  ErrorResponse  "Record is canonical and immutable"
// @Router       /items/{key} [patch]
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req driving.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.fillActor(r, &req.Actor)

	record, err := s.libraryService.UpdateItem(r.Context(), key, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(s.libraryService.Version(r.Context()), 10))
	writeJSON(w, http.StatusOK, record)
}

// handleDeleteItem godoc
// @Summary      Delete item
// @Description  Append a logical deletion for a record
// @Tags         Items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key      path      string                 true  "Item key"
// @Param        request  body      driving.DeleteRequest  true  "Provenance"
// @Success      200      {object}  StatusResponse
// @Failure      404      {object}  ErrorResponse  "Item not found"
// @Failure      409      {object}  ErrorResponse  "Record is canonical and immutable"
// @Router       /items/{key} [delete]
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req driving.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.fillActor(r, &req.Actor)

	if err := s.libraryService.DeleteItem(r.Context(), key, req); err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(s.libraryService.Version(r.Context()), 10))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleCreateVariant godoc
// @Summary      Create variant
// @Description  Create an editable variant of a canonical record
// @Tags         Items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key      path      string                  true  "Canonical item key"
// @Param        request  body      driving.VariantRequest  true  "Variant label plus provenance"
// @Success      201      {object}  domain.Record
// @Failure      404      {object}  ErrorResponse  "Item not found"
// @Failure      409      {object}  ErrorResponse  "Record is already a variant"
// @Router       /items/{key}/variant [post]
func (s *Server) handleCreateVariant(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req driving.VariantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.fillActor(r, &req.Actor)

	record, err := s.libraryService.CreateVariant(r.Context(), key, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(s.libraryService.Version(r.Context()), 10))
	writeJSON(w, http.StatusCreated, record)
}

// handleSetScore godoc
// @Summary      Set item score
// @Description  Set the single-scorer quality score for an item
// @Tags         Scores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key      path      string                true  "Item key"
// @Param        request  body      driving.ScoreRequest  true  "Score dimensions plus provenance"
// @Success      200      {object}  domain.ScoreSet
// @Failure      400      {object}  ErrorResponse  "Unknown dimension or value out of range"
// @Failure      404      {object}  ErrorResponse  "Item not found"
// @Router       /items/{key}/score [put]
func (s *Server) handleSetScore(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req driving.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.fillActor(r, &req.Actor)

	score, err := s.libraryService.SetScore(r.Context(), key, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(s.libraryService.Version(r.Context()), 10))
	writeJSON(w, http.StatusOK, score)
}

// handleAddScorerScore godoc
// @Summary      Add scorer score
// @Description  Add or replace one scorer's contribution to an item's multi-scorer set
// @Tags         Scores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key      path      string                     true  "Item key"
// @Param        request  body      driving.MultiScoreRequest  true  "Scorer, dimensions, provenance"
// @Success      200      {object}  driving.ScoreReport
// @Failure      400      {object}  ErrorResponse  "Unknown dimension or value out of range"
// @Failure      404      {object}  ErrorResponse  "Item not found"
// @Router       /items/{key}/scores [post]
func (s *Server) handleAddScorerScore(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req driving.MultiScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.fillActor(r, &req.Actor)

	report, err := s.libraryService.AddScorerScore(r.Context(), key, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(report.Version, 10))
	writeJSON(w, http.StatusOK, report)
}

// handleSetItemPublisher godoc
// @Summary      Set item publisher
// @Description  Annotate an item with a registered publisher
// @Tags         Publishers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key      path      string                        true  "Item key"
// @Param        request  body      driving.ItemPublisherRequest  true  "Publisher name plus provenance"
// @Success      200      {object}  StatusResponse
// @Failure      404      {object}  ErrorResponse  "Item or publisher not found"
// @Router       /items/{key}/publisher [put]
func (s *Server) handleSetItemPublisher(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req driving.ItemPublisherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.fillActor(r, &req.Actor)

	if err := s.libraryService.SetItemPublisher(r.Context(), key, req); err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(s.libraryService.Version(r.Context()), 10))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSetItemFunding godoc
// @Summary      Set item funding
// @Description  Annotate an item with its funding category
// @Tags         Publishers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key      path      string                      true  "Item key"
// @Param        request  body      driving.ItemFundingRequest  true  "Funding category plus provenance"
// @Success      200      {object}  StatusResponse
// @Failure      400      {object}  ErrorResponse  "Unknown funding category"
// @Failure      404      {object}  ErrorResponse  "Item not found"
// @Router       /items/{key}/funding [put]
func (s *Server) handleSetItemFunding(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req driving.ItemFundingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.fillActor(r, &req.Actor)

	if err := s.libraryService.SetItemFunding(r.Context(), key, req); err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(s.libraryService.Version(r.Context()), 10))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Collection endpoints

// handleListCollections godoc
// @Summary      List collections
// @Tags         Collections
// @Produce      json
// @Success      200  {array}  domain.Collection
// @Router       /collections [get]
func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	collections, version, err := s.libraryService.ListCollections(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(version, 10))
	writeJSON(w, http.StatusOK, collections)
}

// handleGetCollection godoc
// @Summary      Get collection
// @Tags         Collections
// @Produce      json
// @Param        key  path  string  true  "Collection key"
// @Success      200  {object}  domain.Collection
// @Failure      404  {object}  ErrorResponse  "Collection not found"
// @Router       /collections/{key} [get]
func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	collection, version, err := s.libraryService.GetCollection(r.Context(), key)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(version, 10))
	writeJSON(w, http.StatusOK, collection)
}

// handleCollectionItems godoc
// @Summary      List collection items
// @Tags         Collections
// @Produce      json
// @Param        key  path  string  true  "Collection key"
// @Success      200  {array}   domain.Record
// @Failure      404  {object}  ErrorResponse  "Collection not found"
// @Router       /collections/{key}/items [get]
func (s *Server) handleCollectionItems(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	items, version, err := s.libraryService.CollectionItems(r.Context(), key)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(version, 10))
	writeJSON(w, http.StatusOK, items)
}

// Publisher endpoints

// handleListPublishers godoc
// @Summary      List publishers
// @Tags         Publishers
// @Produce      json
// @Success      200  {array}  domain.Publisher
// @Router       /publishers [get]
func (s *Server) handleListPublishers(w http.ResponseWriter, r *http.Request) {
	publishers, version, err := s.libraryService.ListPublishers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(version, 10))
	writeJSON(w, http.StatusOK, publishers)
}

// handleUpsertPublisher godoc
// @Summary      Upsert publisher
// @Description  Create or update a publisher registry entry
// @Tags         Publishers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.PublisherRequest  true  "Publisher plus provenance"
// @Success      200      {object}  domain.Publisher
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Router       /publishers [put]
func (s *Server) handleUpsertPublisher(w http.ResponseWriter, r *http.Request) {
	var req driving.PublisherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.fillActor(r, &req.Actor)

	publisher, err := s.libraryService.UpsertPublisher(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(s.libraryService.Version(r.Context()), 10))
	writeJSON(w, http.StatusOK, publisher)
}

// handleSetPublisherScore godoc
// @Summary      Set publisher score
// @Tags         Publishers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        name     path      string                true  "Publisher name"
// @Param        request  body      driving.ScoreRequest  true  "Score dimensions plus provenance"
// @Success      200      {object}  domain.ScoreSet
// @Failure      400      {object}  ErrorResponse  "Unknown dimension or value out of range"
// @Failure      404      {object}  ErrorResponse  "Publisher not found"
// @Router       /publishers/{name}/score [put]
func (s *Server) handleSetPublisherScore(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req driving.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.fillActor(r, &req.Actor)

	score, err := s.libraryService.SetPublisherScore(r.Context(), name, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(s.libraryService.Version(r.Context()), 10))
	writeJSON(w, http.StatusOK, score)
}

// Blindspot endpoint

// handleBlindspots godoc
// @Summary      Blindspot report
// @Description  Analyze the library for coverage blindspots
// @Tags         Blindspots
// @Produce      json
// @Success      200  {object}  domain.BlindspotReport
// @Router       /blindspots [get]
func (s *Server) handleBlindspots(w http.ResponseWriter, r *http.Request) {
	report, err := s.libraryService.Blindspots(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(report.Version, 10))
	writeJSON(w, http.StatusOK, report)
}

// Admin endpoints

// handleTriggerSync godoc
// @Summary      Trigger sync
// @Description  Run one reconciliation pass against the live source
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.SyncResult
// @Failure      502  {object}  ErrorResponse  "Source unreachable"
// @Failure      503  {object}  ErrorResponse  "No live source configured"
// @Router       /admin/sync [post]
func (s *Server) handleTriggerSync(w http.ResponseWriter, r *http.Request) {
	if s.reconciler == nil {
		writeError(w, http.StatusServiceUnavailable, "no live source configured")
		return
	}

	result, err := s.reconciler.Run(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrSourceUnreachable) {
			writeError(w, http.StatusBadGateway, "source unreachable")
			return
		}
		writeError(w, http.StatusInternalServerError, "sync failed")
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(result.LastVersion, 10))
	writeJSON(w, http.StatusOK, result)
}

// handleVerifyChain godoc
// @Summary      Verify journal chain
// @Description  Re-read the journal and verify its hash chain
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatusResponse
// @Failure      500  {object}  ErrorResponse  "Chain verification failed"
// @Router       /admin/verify [post]
func (s *Server) handleVerifyChain(w http.ResponseWriter, r *http.Request) {
	if err := s.libraryService.VerifyChain(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("chain verification failed: %v", err))
		return
	}

	w.Header().Set(versionHeader, strconv.FormatUint(s.libraryService.Version(r.Context()), 10))
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

// Helpers

// fillActor defaults the journal actor to the authenticated caller when the
// request body does not carry one.
func (s *Server) fillActor(r *http.Request, actor *string) {
	if *actor != "" {
		return
	}
	if authCtx := GetAuthContext(r.Context()); authCtx != nil {
		*actor = authCtx.Email
	}
}

func parseListOptions(r *http.Request) (domain.ListOptions, error) {
	q := r.URL.Query()
	opts := domain.ListOptions{
		ItemType: q.Get("itemType"),
		Query:    q.Get("q"),
	}

	if v := q.Get("minScore"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid minScore: %q", v)
		}
		opts.MinScore = &f
	}

	var err error
	if opts.HasScore, err = parseBoolParam(q.Get("hasScore"), "hasScore"); err != nil {
		return opts, err
	}
	if opts.HasIdentifier, err = parseBoolParam(q.Get("hasDOI"), "hasDOI"); err != nil {
		return opts, err
	}
	if opts.IsVariant, err = parseBoolParam(q.Get("isVariant"), "isVariant"); err != nil {
		return opts, err
	}

	if v := q.Get("start"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid start: %q", v)
		}
		opts.Start = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid limit: %q", v)
		}
		opts.Limit = n
	}

	return opts, nil
}

func parseBoolParam(v, name string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, v)
	}
	return &b, nil
}

// writeDomainError maps domain errors to HTTP status codes
func writeDomainError(w http.ResponseWriter, err error) {
	var immutable *domain.ImmutableError
	var scoreRange *domain.ScoreRangeError

	switch {
	case errors.As(err, &immutable):
		writeError(w, http.StatusConflict, immutable.Error())
	case errors.As(err, &scoreRange):
		writeError(w, http.StatusBadRequest, scoreRange.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrAlreadyVariant):
		writeError(w, http.StatusConflict, "record is already a variant")
	case errors.Is(err, domain.ErrNoIdentifier):
		writeError(w, http.StatusConflict, "record has no identifier to derive a variant from")
	case errors.Is(err, domain.ErrImmutable):
		writeError(w, http.StatusConflict, "record is immutable")
	case errors.Is(err, domain.ErrOutOfRange), errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
