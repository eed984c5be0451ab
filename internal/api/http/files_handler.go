package http

import (
	"io"
	"net/http"
	"os"
	"path"

	"campuslink-backend/internal/storage"

	"github.com/gorilla/mux"
)

// DownloadFile handles GET /api/files/{key:.*}. It only serves files when the
// local storage backend is in use; with MinIO, clients follow presigned URLs.
func (h *Handlers) DownloadFile(w http.ResponseWriter, r *http.Request) {
	local, ok := h.storage.(*storage.LocalStorageService)
	if !ok {
		respondError(w, http.StatusNotFound, "file downloads are served by object storage", "NOT_FOUND")
		return
	}

	key := path.Clean(mux.Vars(r)["key"])
	if key == "." || key == ".." || path.IsAbs(key) || key[0] == '.' {
		respondError(w, http.StatusBadRequest, "invalid file key", "BAD_REQUEST")
		return
	}

	f, err := local.Open(key)
	if os.IsNotExist(err) {
		respondError(w, http.StatusNotFound, "file not found", "NOT_FOUND")
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", "attachment; filename="+path.Base(key))
	if _, err := io.Copy(w, f); err != nil {
		// Client disconnects land here; nothing sensible left to send
		return
	}
}
