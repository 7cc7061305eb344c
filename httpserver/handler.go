package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	jsoniter "github.com/json-iterator/go"
	"github.com/ruteri/shamir-reconstruct/api"
	"github.com/ruteri/shamir-reconstruct/interfaces"
	"github.com/ruteri/shamir-reconstruct/metrics"
	"github.com/ruteri/shamir-reconstruct/reconstruct"
	"github.com/ruteri/shamir-reconstruct/sharefile"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// maxBodySize bounds a posted payload (1MB).
	maxBodySize = 1024 * 1024

	maxDecimalPlaces = 1000

	RequestIDHeader = "X-Request-Id"
)

// ErrTooManyShares is returned for payloads above HandlerConfig.MaxShares.
var ErrTooManyShares = errors.New("too many shares in payload")

// RequestError carries the HTTP status for errors that do not map from a sentinel.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

type HandlerConfig struct {
	Reconstructor *reconstruct.Reconstructor

	// Storage is the payload archive. Without it the archive endpoint
	// answers 503 and nothing is archived.
	Storage interfaces.StorageBackend

	// ArchiveRequests stores posted payloads and every report in Storage.
	ArchiveRequests bool

	// MaxShares rejects larger payloads before any search starts. 0 disables.
	MaxShares int

	// CacheSize is the number of archived-payload results kept. 0 disables the cache.
	CacheSize int

	Metrics *metrics.Recorder
	Log     *slog.Logger
}

type Handler struct {
	cfg   HandlerConfig
	cache *lru.Cache
	log   *slog.Logger
}

func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Reconstructor == nil {
		return nil, errors.New("handler needs a reconstructor")
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	h := &Handler{cfg: cfg, log: cfg.Log}
	if cfg.CacheSize > 0 {
		cache, err := lru.New(cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("could not create result cache: %w", err)
		}
		h.cache = cache
	}
	return h, nil
}

// HandleReconstruct runs a reconstruction on the posted payload document.
//
// URL format: POST /api/reconstruct[?decimal_places=N]
func (h *Handler) HandleReconstruct(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := h.log.With("request_id", requestID)

	places, err := decimalPlaces(r)
	if err != nil {
		h.writeError(w, log, requestID, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = &RequestError{StatusCode: http.StatusRequestEntityTooLarge, Err: err}
		} else {
			err = &RequestError{StatusCode: http.StatusBadRequest, Err: fmt.Errorf("failed to read body: %w", err)}
		}
		h.writeError(w, log, requestID, err)
		return
	}

	resp, err := h.reconstruct(r.Context(), log, data, places)
	if err != nil {
		h.writeError(w, log, requestID, err)
		return
	}

	if h.cfg.ArchiveRequests && h.cfg.Storage != nil {
		id, err := h.cfg.Storage.Store(r.Context(), data, interfaces.PayloadType)
		if err != nil {
			log.Warn("Failed to archive payload", "err", err)
		} else {
			resp.PayloadID = id.String()
		}
	}

	resp.RequestID = requestID
	h.archiveReport(r.Context(), log, resp)
	w.Header().Set(RequestIDHeader, requestID)
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleReconstructArchived reconstructs a payload held in the archive.
//
// URL format: GET /api/reconstruct/{content_id}[?decimal_places=N]
func (h *Handler) HandleReconstructArchived(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := h.log.With("request_id", requestID)

	places, err := decimalPlaces(r)
	if err != nil {
		h.writeError(w, log, requestID, err)
		return
	}

	id, err := interfaces.NewContentIDFromHex(chi.URLParam(r, "content_id"))
	if err != nil {
		h.writeError(w, log, requestID, &RequestError{StatusCode: http.StatusBadRequest, Err: err})
		return
	}
	log = log.With("content_id", id.Short())

	cacheKey := fmt.Sprintf("%s/%d", id, places)
	if h.cache != nil {
		cached, ok := h.cache.Get(cacheKey)
		h.cfg.Metrics.ObserveCacheLookup(ok)
		if ok {
			resp := *cached.(*api.ReconstructResponse)
			resp.RequestID = requestID
			log.Debug("Serving cached reconstruction")
			w.Header().Set(RequestIDHeader, requestID)
			h.writeJSON(w, http.StatusOK, &resp)
			return
		}
	}

	if h.cfg.Storage == nil {
		h.writeError(w, log, requestID, fmt.Errorf("%w: no archive configured", interfaces.ErrBackendUnavailable))
		return
	}

	data, err := h.cfg.Storage.Fetch(r.Context(), id, interfaces.PayloadType)
	if err != nil {
		h.writeError(w, log, requestID, err)
		return
	}

	resp, err := h.reconstruct(r.Context(), log, data, places)
	if err != nil {
		h.writeError(w, log, requestID, err)
		return
	}
	resp.PayloadID = id.String()

	if h.cache != nil {
		cached := *resp
		h.cache.Add(cacheKey, &cached)
	}

	resp.RequestID = requestID
	h.archiveReport(r.Context(), log, resp)
	w.Header().Set(RequestIDHeader, requestID)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) reconstruct(ctx context.Context, log *slog.Logger, data []byte, places int32) (*api.ReconstructResponse, error) {
	start := time.Now()

	payload, err := sharefile.Decode(data)
	if err != nil {
		h.cfg.Metrics.ObserveReconstruction(metrics.OutcomeMalformed, time.Since(start), 0)
		return nil, err
	}

	if h.cfg.MaxShares > 0 && len(payload.Shares) > h.cfg.MaxShares {
		h.cfg.Metrics.ObserveReconstruction(metrics.OutcomeTooLarge, time.Since(start), 0)
		return nil, fmt.Errorf("%w: %d shares, limit is %d", ErrTooManyShares, len(payload.Shares), h.cfg.MaxShares)
	}
	if payload.N != len(payload.Shares) {
		log.Warn("Declared share count differs from payload",
			slog.Int("declared", payload.N),
			slog.Int("actual", len(payload.Shares)))
	}

	res, err := h.cfg.Reconstructor.Reconstruct(ctx, payload.Shares, payload.K)
	if err != nil {
		h.cfg.Metrics.ObserveReconstruction(outcomeFor(err), time.Since(start), 0)
		return nil, err
	}

	outcome := metrics.OutcomeRecovered
	if res.Outlier != nil {
		outcome = metrics.OutcomeOutlier
	}
	h.cfg.Metrics.ObserveReconstruction(outcome, time.Since(start), res.Candidates)

	resp := api.NewReconstructResponse(res, payload.Shares, payload.K, places)
	log.Debug("Reconstruction served",
		slog.String("outlier", resp.Outlier),
		slog.Int("shares", resp.Shares),
		slog.Int("threshold", resp.Threshold),
		slog.Int("candidates", resp.Candidates),
		slog.Duration("duration", time.Since(start)))

	return resp, nil
}

func (h *Handler) archiveReport(ctx context.Context, log *slog.Logger, resp *api.ReconstructResponse) {
	if !h.cfg.ArchiveRequests || h.cfg.Storage == nil {
		return
	}

	report, err := json.Marshal(resp)
	if err != nil {
		log.Error("Failed to encode report", "err", err)
		return
	}
	if _, err := h.cfg.Storage.Store(ctx, report, interfaces.ReportType); err != nil {
		log.Warn("Failed to archive report", "err", err)
	}
}

func decimalPlaces(r *http.Request) (int32, error) {
	raw := r.URL.Query().Get(api.DecimalPlacesParam)
	if raw == "" {
		return api.DefaultDecimalPlaces, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > maxDecimalPlaces {
		return 0, &RequestError{
			StatusCode: http.StatusBadRequest,
			Err:        fmt.Errorf("%s must be an integer in [0, %d]", api.DecimalPlacesParam, maxDecimalPlaces),
		}
	}
	return int32(n), nil
}

// StatusFor maps reconstruction, payload and archive errors to HTTP statuses.
func StatusFor(err error) int {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.StatusCode
	case errors.Is(err, sharefile.ErrMalformedPayload),
		errors.Is(err, sharefile.ErrInvalidBase),
		errors.Is(err, sharefile.ErrInvalidValue):
		return http.StatusBadRequest
	case errors.Is(err, reconstruct.ErrInsufficientShares),
		errors.Is(err, reconstruct.ErrNoConsistentPolynomial),
		errors.Is(err, reconstruct.ErrSearchTooLarge),
		errors.Is(err, reconstruct.ErrInvalidThreshold),
		errors.Is(err, ErrTooManyShares):
		return http.StatusUnprocessableEntity
	case errors.Is(err, interfaces.ErrContentNotFound):
		return http.StatusNotFound
	case errors.Is(err, interfaces.ErrBackendUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, reconstruct.ErrInsufficientShares), errors.Is(err, reconstruct.ErrInvalidThreshold):
		return metrics.OutcomeInsufficient
	case errors.Is(err, reconstruct.ErrNoConsistentPolynomial):
		return metrics.OutcomeNoPolynomial
	case errors.Is(err, reconstruct.ErrSearchTooLarge):
		return metrics.OutcomeTooLarge
	default:
		return metrics.OutcomeError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, log *slog.Logger, requestID string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "err", err, slog.Int("status", status))
	} else {
		log.Debug("Request rejected", "err", err, slog.Int("status", status))
	}

	w.Header().Set(RequestIDHeader, requestID)
	h.writeJSON(w, status, &api.ErrorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		h.log.Error("Failed to encode response", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		h.log.Debug("Failed to write response", "err", err)
	}
}
