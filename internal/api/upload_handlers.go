package api

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/dropbox"
)

const maxUploadSize = 32 << 20 // 32 MB

// handleUploadExcel saves an uploaded workbook into the dropbox folder for
// its load. The loader picks files up from there on its own schedule; the
// workbook content is passed through untouched.
func (s *Server) handleUploadExcel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request", "Could not parse multipart form")
		return
	}

	file, header, err := r.FormFile("excel_file")
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request", "No file part found in request")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		RespondWithError(w, http.StatusBadRequest, "Invalid request", "No file selected for uploading")
		return
	}
	// Strip any client-supplied path components.
	filename := filepath.Base(header.Filename)

	loadID := r.FormValue("load_id")
	cfg := s.app.Config()
	folder := dropbox.ResolveFolder(cfg.Dropbox.Root, cfg.Dropbox.Fallback, loadID, filename)

	if err := os.MkdirAll(folder, 0755); err != nil {
		log.Printf("Cannot create folder %s: %v", folder, err)
		RespondWithError(w, http.StatusInternalServerError, "Internal server error",
			fmt.Sprintf("Cannot create folder: %v", err))
		return
	}

	outputPath := filepath.Join(folder, filename)
	out, err := os.Create(outputPath)
	if err != nil {
		log.Printf("Cannot create file %s: %v", outputPath, err)
		RespondWithError(w, http.StatusInternalServerError, "Internal server error",
			fmt.Sprintf("Cannot save file: %v", err))
		return
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		log.Printf("Failed to write %s: %v", outputPath, err)
		RespondWithError(w, http.StatusInternalServerError, "Internal server error",
			fmt.Sprintf("Cannot save file: %v", err))
		return
	}

	log.Printf("File saved to %s; the loader will process it automatically", outputPath)
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"message":     fmt.Sprintf("File '%s' uploaded successfully. The loader will process it automatically.", filename),
		"server_path": outputPath,
		"next_steps":  "Monitor the upload using /api/status/{groupId} endpoint",
	})
}
