package app

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints. OPTIONS is accepted so that preflight requests reach the CORS middleware.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Manual values
	r.HandleFunc("/api/manual/value/{date}", deps.ManualValueHandler.GetByDate).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/manual/value/{id}", deps.ManualValueHandler.UpdateRow).Methods(http.MethodPut, http.MethodOptions)
}
