package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/dropbox"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/models"
	"github.com/Vijay-Ashley/sltk-ai-agent/internal/store"
	"github.com/go-chi/chi/v5"
)

// handleHealthCheck is the liveness endpoint. It works even when the data
// store is down.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "running",
		"message":   "SLTK Monitor API is operational",
		"timestamp": time.Now().Format(time.RFC3339),
		"endpoints": []string{
			"/",
			"/api/loads",
			"/upload/excel",
			"/api/status/{groupId}",
			"/api/errors/{groupId}",
			"/api/history",
			"/ws",
		},
	})
}

// handleGetLoads lists available load ids from the SLTKLOD catalog, falling
// back to scanning the dropbox folders when the store yields nothing. The
// fallback keeps load selection working in degraded mode.
func (s *Server) handleGetLoads(w http.ResponseWriter, r *http.Request) {
	loads := []models.LoadInfo{}

	if s.app.StoreAvailable() {
		fromStore, err := s.app.Store().GetAvailableLoads()
		if err != nil {
			log.Printf("Failed to get loads from store: %v", err)
		} else {
			loads = append(loads, fromStore...)
		}
	}

	if len(loads) == 0 {
		folders, err := dropbox.ScanFolders(s.app.Config().Dropbox.Root)
		if err != nil {
			log.Printf("Cannot scan dropbox folders: %v", err)
		}
		for _, f := range folders {
			loads = append(loads, models.LoadInfo{
				LoadID:      f,
				Description: "Dropbox folder: " + f,
			})
		}
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"loads":  loads,
		"count":  len(loads),
	})
}

// handleGetStatus returns the current snapshot for one group.
func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	if !s.app.StoreAvailable() {
		respondStoreUnavailable(w)
		return
	}
	groupID := chi.URLParam(r, "groupID")

	status, err := s.app.Store().GetGroupStatus(groupID)
	if errors.Is(err, store.ErrGroupNotFound) {
		RespondWithError(w, http.StatusNotFound, "Group not found",
			fmt.Sprintf("Group %s does not exist", groupID))
		return
	}
	if err != nil {
		log.Printf("get status for %s failed: %v", groupID, err)
		RespondWithError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    status,
	})
}

// handleGetErrors returns the enriched error list for one group.
func (s *Server) handleGetErrors(w http.ResponseWriter, r *http.Request) {
	if !s.app.StoreAvailable() {
		respondStoreUnavailable(w)
		return
	}
	groupID := chi.URLParam(r, "groupID")

	records, err := s.app.Store().GetErrors(groupID)
	if err != nil {
		log.Printf("get errors for %s failed: %v", groupID, err)
		RespondWithError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	if records == nil {
		records = []models.ErrorRecord{}
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"groupId":    groupID,
			"errorCount": len(records),
			"errors":     records,
		},
	})
}

// handleGetHistory lists group headers filtered by user, status and an
// inclusive integer-encoded date range.
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if !s.app.StoreAvailable() {
		respondStoreUnavailable(w)
		return
	}

	filter := models.HistoryFilter{
		User:   r.URL.Query().Get("user"),
		Status: r.URL.Query().Get("status"),
		Limit:  s.app.Config().History.DefaultLimit,
	}

	if v := r.URL.Query().Get("fromDate"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid request", "fromDate must be an integer date")
			return
		}
		filter.FromDate = &n
	}
	if v := r.URL.Query().Get("toDate"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid request", "toDate must be an integer date")
			return
		}
		filter.ToDate = &n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			RespondWithError(w, http.StatusBadRequest, "Invalid request", "limit must be a positive integer")
			return
		}
		filter.Limit = n
	}

	history, err := s.app.Store().GetHistory(filter)
	if err != nil {
		log.Printf("get history failed: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	if history == nil {
		history = []models.Group{}
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"count":   len(history),
			"history": history,
		},
	})
}
