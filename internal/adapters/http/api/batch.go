// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/somnolab/sleepq/internal/domain/model"
	"github.com/somnolab/sleepq/internal/domain/types"
)

// defaultMaxBatchRows caps POST /predict/batch payload size.
const defaultMaxBatchRows = 10000

// batchRequest is an ordered sequence of observations sharing the predict
// schema.
type batchRequest struct {
	Rows []predictRequest `json:"rows"`
}

type batchResponse struct {
	Rows []types.BatchRow `json:"rows"`
}

// BatchHandler handles batch evaluation requests.
type BatchHandler struct {
	deps    Dependencies
	maxRows int
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(deps Dependencies) *BatchHandler {
	return &BatchHandler{deps: deps, maxRows: defaultMaxBatchRows}
}

// HandleBatch handles POST /predict/batch requests. Row order in the
// response matches the request; per-row failures are reported inline so
// one malformed row never fails the whole batch.
func (h *BatchHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if len(req.Rows) > h.maxRows {
		writeError(w, http.StatusRequestEntityTooLarge, "too_many_rows", NewKind(op, ErrTooManyRows))
		return
	}

	rows := make([]model.Observation, len(req.Rows))
	for i, rr := range req.Rows {
		rows[i] = rr.observation()
	}

	evaluated, err := h.deps.EvaluateBatch(r.Context(), rows)
	if err != nil {
		writeEvaluationError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Rows: evaluated})
}
