package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eugenenazirov/carton-fit/internal/catalog"
	"github.com/eugenenazirov/carton-fit/internal/geometry"
	"github.com/eugenenazirov/carton-fit/internal/packer"
	"github.com/eugenenazirov/carton-fit/internal/selector"
	"github.com/eugenenazirov/carton-fit/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// defaultItemName labels ad-hoc items that do not come from a package preset.
const defaultItemName = "item"

// Handler wires the evaluator and catalog storage into HTTP handlers.
type Handler struct {
	evaluator *selector.Evaluator
	storage   storage.Storage

	clock func() time.Time

	mu               sync.RWMutex
	cartonsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(evaluator *selector.Evaluator, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		evaluator: evaluator,
		storage:   store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.cartonsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetCartons(w http.ResponseWriter, r *http.Request) {
	_ = r
	cat, err := h.storage.GetCatalog()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := cartonsResponse{
		Cartons:   cat.Cartons,
		UpdatedAt: h.currentCartonsUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutCartons(w http.ResponseWriter, r *http.Request) {
	var req cartonsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Cartons) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid cartons", "cartons must contain at least one record")
		return
	}

	if err := h.storage.SetCartons(req.Cartons); err != nil {
		if errors.Is(err, storage.ErrInvalidCartons) {
			writeError(w, http.StatusBadRequest, "Invalid cartons", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markCartonsUpdated()

	cat, err := h.storage.GetCatalog()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := cartonsResponse{
		Cartons:   cat.Cartons,
		UpdatedAt: h.currentCartonsUpdatedAt(),
		Message:   "Cartons updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetPackages(w http.ResponseWriter, r *http.Request) {
	_ = r
	cat, err := h.storage.GetCatalog()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, packagesResponse{Packages: cat.Packages})
}

func (h *Handler) handlePutPackages(w http.ResponseWriter, r *http.Request) {
	var req packagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.storage.SetPackages(req.Packages); err != nil {
		if errors.Is(err, storage.ErrInvalidPackages) {
			writeError(w, http.StatusBadRequest, "Invalid packages", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	cat, err := h.storage.GetCatalog()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, packagesResponse{
		Packages: cat.Packages,
		Message:  "Packages updated successfully",
	})
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	cat, err := h.storage.GetCatalog()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	item, err := resolveItem(cat, req.itemRequest)
	if err != nil {
		writeSelectionError(w, err)
		return
	}

	containers, err := cat.Containers()
	if err != nil {
		writeSelectionError(w, err)
		return
	}

	start := time.Now()
	selection, err := h.evaluator.SelectBest(containers, item)
	elapsed := time.Since(start)
	if err != nil {
		writeSelectionError(w, err)
		return
	}

	resp := selectResponse{
		Found:             selection.Found(),
		Message:           selection.Summary(),
		Item:              newItemView(item),
		Evaluations:       make([]evaluationView, 0, len(selection.Evaluations)),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	for _, ev := range selection.Evaluations {
		resp.Evaluations = append(resp.Evaluations, newEvaluationView(ev.Result, req.IncludePlacements))
	}
	if selection.Found() {
		best := resp.Evaluations[selection.BestIndex]
		resp.Best = &best
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if strings.TrimSpace(req.CartonID) == "" {
		writeError(w, http.StatusBadRequest, "Invalid request", "cartonId is required")
		return
	}

	cat, err := h.storage.GetCatalog()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	item, err := resolveItem(cat, req.itemRequest)
	if err != nil {
		writeSelectionError(w, err)
		return
	}

	carton, err := cat.Carton(req.CartonID)
	if err != nil {
		writeSelectionError(w, err)
		return
	}
	container, err := carton.Container()
	if err != nil {
		writeSelectionError(w, err)
		return
	}

	start := time.Now()
	result, err := h.evaluator.Evaluate(container, item)
	elapsed := time.Since(start)
	if err != nil {
		writeSelectionError(w, err)
		return
	}

	resp := evaluateResponse{
		Item:              newItemView(item),
		Evaluation:        newEvaluationView(result, true),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolveItem builds the item from a package preset when packageId is set,
// otherwise from the explicit dimensions.
func resolveItem(cat catalog.Catalog, req itemRequest) (packer.Item, error) {
	if id := strings.TrimSpace(req.PackageID); id != "" {
		pkg, err := cat.Package(id)
		if err != nil {
			return packer.Item{}, err
		}
		return pkg.Item()
	}

	dims := geometry.Dimensions{Length: req.Length, Width: req.Width, Height: req.Height}
	return packer.NewItem(defaultItemName, dims, req.Weight)
}

func writeSelectionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, geometry.ErrInvalidDimension),
		errors.Is(err, packer.ErrInvalidWeight),
		errors.Is(err, packer.ErrInvalidPoolSize):
		writeError(w, http.StatusBadRequest, "Invalid item", err.Error())
	case errors.Is(err, catalog.ErrUnknownPackage):
		writeError(w, http.StatusBadRequest, "Unknown package", err.Error(), "list presets with GET /api/packages")
	case errors.Is(err, catalog.ErrUnknownCarton):
		writeError(w, http.StatusBadRequest, "Unknown carton", err.Error(), "list cartons with GET /api/cartons")
	case errors.Is(err, selector.ErrInvalidCatalog), errors.Is(err, catalog.ErrNoCartons):
		writeError(w, http.StatusUnprocessableEntity, "Empty catalog", err.Error(), "add cartons with PUT /api/cartons")
	case errors.Is(err, selector.ErrPackingInvariant):
		writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
	default:
		writeInternalError(w, err)
	}
}

func (h *Handler) currentCartonsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cartonsUpdatedAt
}

func (h *Handler) markCartonsUpdated() {
	h.mu.Lock()
	h.cartonsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type itemRequest struct {
	PackageID string  `json:"packageId,omitempty"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
}

type selectRequest struct {
	itemRequest
	IncludePlacements bool `json:"includePlacements"`
}

type evaluateRequest struct {
	itemRequest
	CartonID string `json:"cartonId"`
}

type cartonsRequest struct {
	Cartons []catalog.Carton `json:"cartons"`
}

type packagesRequest struct {
	Packages []catalog.Package `json:"packages"`
}

type itemView struct {
	Name       string              `json:"name"`
	Dimensions geometry.Dimensions `json:"dimensions"`
	Volume     float64             `json:"volume"`
	Weight     float64             `json:"weight"`
}

func newItemView(item packer.Item) itemView {
	return itemView{
		Name:       item.Name,
		Dimensions: item.Dimensions,
		Volume:     item.Dimensions.Volume(),
		Weight:     item.Weight,
	}
}

type evaluationView struct {
	Carton      string              `json:"carton"`
	Dimensions  geometry.Dimensions `json:"dimensions"`
	Volume      float64             `json:"volume"`
	Placed      int                 `json:"placed"`
	Unplaced    int                 `json:"unplaced"`
	Attempts    int                 `json:"attempts"`
	Utilization float64             `json:"utilization"`
	Placements  []packer.Placement  `json:"placements,omitempty"`
}

func newEvaluationView(result packer.Result, includePlacements bool) evaluationView {
	view := evaluationView{
		Carton:      result.Container.Label,
		Dimensions:  result.Container.Dimensions,
		Volume:      result.Container.Volume(),
		Placed:      result.Placed(),
		Unplaced:    result.Unplaced,
		Attempts:    result.Attempts,
		Utilization: result.Utilization(),
	}
	if includePlacements {
		view.Placements = result.Placements
	}
	return view
}

type selectResponse struct {
	Found             bool             `json:"found"`
	Message           string           `json:"message"`
	Item              itemView         `json:"item"`
	Best              *evaluationView  `json:"best,omitempty"`
	Evaluations       []evaluationView `json:"evaluations"`
	CalculationTimeMs int64            `json:"calculationTimeMs"`
}

type evaluateResponse struct {
	Item              itemView       `json:"item"`
	Evaluation        evaluationView `json:"evaluation"`
	CalculationTimeMs int64          `json:"calculationTimeMs"`
}

type cartonsResponse struct {
	Cartons   []catalog.Carton `json:"cartons"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Message   string           `json:"message,omitempty"`
}

type packagesResponse struct {
	Packages []catalog.Package `json:"packages"`
	Message  string            `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// writeJSON encodes before writing the header; an unencodable payload becomes a 500.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorResponse{
			Error:   "Internal error",
			Details: "unable to encode response: " + err.Error(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
