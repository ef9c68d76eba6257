package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
)

const defaultHeartbeat = 30 * time.Second

// SSEHandler streams directory events for a hospital as Server-Sent Events
type SSEHandler struct {
	eventBus  providers.EventBus
	hospitals repositories.HospitalRepository
	heartbeat time.Duration
	clients   map[string]map[chan *entities.DirectoryEvent]struct{} // hospital -> clients
	mu        sync.RWMutex
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus, hospitals repositories.HospitalRepository) *SSEHandler {
	return &SSEHandler{
		eventBus:  eventBus,
		hospitals: hospitals,
		heartbeat: defaultHeartbeat,
		clients:   make(map[string]map[chan *entities.DirectoryEvent]struct{}),
	}
}

// WithHeartbeat sets the keep-alive interval
func (h *SSEHandler) WithHeartbeat(d time.Duration) *SSEHandler {
	h.heartbeat = d
	return h
}

// StreamHospitalEvents handles GET /api/hospitals/{id}/events
func (h *SSEHandler) StreamHospitalEvents(w http.ResponseWriter, r *http.Request) {
	hospitalID := chi.URLParam(r, "id")
	if _, err := h.hospitals.GetByID(r.Context(), hospitalID); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx)

	eventChan, err := h.eventBus.Subscribe(ctx, providers.EventChannelDirectoryUpdates)
	if err != nil {
		logger.Error().Err(err).Msg("failed to subscribe to directory events")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	clientChan := make(chan *entities.DirectoryEvent, 10)
	h.registerClient(hospitalID, clientChan)
	defer h.unregisterClient(hospitalID, clientChan)

	go h.forwardEvents(ctx, hospitalID, eventChan, clientChan)

	h.sendEvent(w, "connected", map[string]any{
		"hospital_id": hospitalID,
		"timestamp":   time.Now().UTC(),
	})
	if err := rc.Flush(); err != nil {
		logger.Warn().Err(err).Msg("streaming not supported")
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Str("hospital_id", hospitalID).Msg("client disconnected from event stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]any{"timestamp": time.Now().UTC()})
			_ = rc.Flush()
		case event := <-clientChan:
			h.sendEvent(w, string(event.Type), event)
			_ = rc.Flush()
		}
	}
}

// forwardEvents passes the hospital's events to the client, dropping them
// when the client falls behind.
func (h *SSEHandler) forwardEvents(ctx context.Context, hospitalID string, eventChan <-chan *entities.DirectoryEvent, clientChan chan<- *entities.DirectoryEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil || event.HospitalID != hospitalID {
				continue
			}
			select {
			case clientChan <- event:
			default:
			}
		}
	}
}

func (h *SSEHandler) registerClient(hospitalID string, clientChan chan *entities.DirectoryEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[hospitalID] == nil {
		h.clients[hospitalID] = make(map[chan *entities.DirectoryEvent]struct{})
	}
	h.clients[hospitalID][clientChan] = struct{}{}
}

func (h *SSEHandler) unregisterClient(hospitalID string, clientChan chan *entities.DirectoryEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[hospitalID]; exists {
		delete(clients, clientChan)
		if len(clients) == 0 {
			delete(h.clients, hospitalID)
		}
	}
}

func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		observability.GetLogger().Error().Err(err).Msg("failed to marshal event")
		return
	}
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", payload)
}

// ClientCount returns the number of connected stream clients
func (h *SSEHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}
