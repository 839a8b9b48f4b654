// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// statusError carries the response code for a failed request.
type statusError struct {
	error
	status int
}

func (e *statusError) Unwrap() error { return e.error }

// BadRequest marks cause as the caller's fault.
func BadRequest(cause error) error {
	return &statusError{cause, http.StatusBadRequest}
}

// NotFound marks cause as a missing resource.
func NotFound(cause error) error {
	return &statusError{cause, http.StatusNotFound}
}

// HandlerFunc is an http.HandlerFunc that may fail.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc writes a failed request's error as plain text, with
// status 500 unless the error was built by BadRequest or NotFound.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		var se *statusError
		if errors.As(err, &se) {
			status = se.status
		}
		http.Error(w, err.Error(), status)
	}
}

// JSONContentType is set on every JSON response.
const JSONContentType = "application/json; charset=utf-8"

// WriteJSON encodes obj as the response body.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
