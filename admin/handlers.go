// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vechain/rewarder/api/utils"
	"github.com/vechain/rewarder/health"
	"github.com/vechain/rewarder/log"
)

var logger = log.WithContext("pkg", "admin")

var levels = []slog.Level{
	log.LevelTrace,
	log.LevelDebug,
	log.LevelInfo,
	log.LevelWarn,
	log.LevelError,
	log.LevelCrit,
}

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

type errorResponse struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", utils.JSONContentType)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{ErrorCode: code, ErrorMessage: msg})
}

func parseLevel(name string) (slog.Level, bool) {
	for _, l := range levels {
		if log.LevelString(l) == name {
			return l, true
		}
	}
	return 0, false
}

func getLogLevel(logLevel *slog.LevelVar) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, logLevelResponse{CurrentLevel: logLevel.Level().String()})
	}
}

func postLogLevel(logLevel *slog.LevelVar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req logLevelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		level, ok := parseLevel(req.Level)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid verbosity level")
			return
		}
		logLevel.Set(level)
		logger.Info("log level changed", "level", log.LevelString(level))
		utils.WriteJSON(w, logLevelResponse{CurrentLevel: logLevel.Level().String()})
	}
}

func getHealth(h *health.Health) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		status, err := h.Status()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", utils.JSONContentType)
		if !status.Healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	}
}
