package mux

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

type healthResponse struct {
	Status  string   `json:"status"`
	Version string   `json:"version"`
	Tables  []string `json:"tables"`
}

// getHealth reports unhealthy when the pit boss run loop stops answering
func (m *Mux) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tables, err := m.pitBoss.Tables(r.Context())
		if err != nil {
			logrus.WithError(err).Error("health check could not list tables")
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Version: m.version})
			return
		}

		writeJSON(w, http.StatusOK, healthResponse{
			Status:  "OK",
			Version: m.version,
			Tables:  tables,
		})
	}
}
