package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/openrtx/m17modem/pkg/database"
	"github.com/openrtx/m17modem/pkg/logger"
	"github.com/openrtx/m17modem/pkg/metrics"
)

// API handles REST API endpoints
type API struct {
	logger    *logger.Logger
	callRepo  *database.CallRepository
	stationRepo *database.StationRepository
	collector *metrics.Collector
}

// NewAPI creates a new API instance
func NewAPI(log *logger.Logger) *API {
	return &API{
		logger: log,
	}
}

// SetDeps provides runtime dependencies to the API after construction
func (a *API) SetDeps(callRepo *database.CallRepository, stationRepo *database.StationRepository, collector *metrics.Collector) {
	a.callRepo = callRepo
	a.stationRepo = stationRepo
	a.collector = collector
}

// CallDTO is a lightweight response for a call record
type CallDTO struct {
	ID          uint    `json:"id"`
	SrcCallsign string  `json:"src_callsign"`
	DstCallsign string  `json:"dst_callsign"`
	StartTime   int64   `json:"start_time"`
	EndTime     int64   `json:"end_time"`
	Duration    float64 `json:"duration"`
	FrameCount  int     `json:"frame_count"`
	CTCSSToneHz float64 `json:"ctcss_tone_hz,omitempty"`
}

// StationDTO is a lightweight response for a recently-heard station
type StationDTO struct {
	Callsign  string `json:"callsign"`
	LastHeard int64  `json:"last_heard"`
	CallCount int    `json:"call_count"`
}

// HandleStatus handles the /api/status endpoint
func (a *API) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	version, _, _ := GetVersionInfo()

	response := map[string]interface{}{
		"status":  "running",
		"service": "m17modem",
		"version": version,
	}

	if a.collector != nil {
		response["locked"] = a.collector.GetLocked()
		response["active_calls"] = a.collector.GetActiveCalls()
		response["frames_decoded"] = a.collector.GetFramesDecoded()
		response["crc_failures"] = a.collector.GetCRCFailures()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		a.logger.Error("Failed to encode status response", logger.Error(err))
	}
}

// HandleCalls handles the /api/calls endpoint
func (a *API) HandleCalls(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if a.callRepo == nil {
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"calls":    []CallDTO{},
			"total":    0,
			"page":     1,
			"per_page": 50,
		}); err != nil {
			a.logger.Error("Failed to encode calls response", logger.Error(err))
		}
		return
	}

	page := 1
	perPage := 50
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if perPageStr := r.URL.Query().Get("per_page"); perPageStr != "" {
		if pp, err := strconv.Atoi(perPageStr); err == nil && pp > 0 && pp <= 100 {
			perPage = pp
		}
	}

	calls, total, err := a.callRepo.GetRecentPaginated(page, perPage)
	if err != nil {
		a.logger.Error("Failed to get calls", logger.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	dtos := make([]CallDTO, 0, len(calls))
	for _, c := range calls {
		dtos = append(dtos, CallDTO{
			ID:          c.ID,
			SrcCallsign: c.SrcCallsign,
			DstCallsign: c.DstCallsign,
			StartTime:   c.StartTime.Unix(),
			EndTime:     c.EndTime.Unix(),
			Duration:    c.Duration,
			FrameCount:  c.FrameCount,
			CTCSSToneHz: c.CTCSSToneHz,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"calls":    dtos,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	}); err != nil {
		a.logger.Error("Failed to encode calls response", logger.Error(err))
	}
}

// HandleStations handles the /api/stations endpoint
func (a *API) HandleStations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if a.stationRepo == nil {
		if err := json.NewEncoder(w).Encode([]StationDTO{}); err != nil {
			a.logger.Error("Failed to encode stations response", logger.Error(err))
		}
		return
	}

	stations, err := a.stationRepo.List()
	if err != nil {
		a.logger.Error("Failed to list stations", logger.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	dtos := make([]StationDTO, 0, len(stations))
	for _, s := range stations {
		dtos = append(dtos, StationDTO{
			Callsign:  s.Callsign,
			LastHeard: s.LastHeard.Unix(),
			CallCount: s.CallCount,
		})
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		a.logger.Error("Failed to encode stations response", logger.Error(err))
	}
}

// HandleStationLookup handles /api/stations/{callsign}
func (a *API) HandleStationLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	callsign := strings.TrimPrefix(r.URL.Path, "/api/stations/")
	callsign = strings.ToUpper(strings.TrimSpace(callsign))
	if callsign == "" {
		http.Error(w, "callsign required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if a.stationRepo == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	station, err := a.stationRepo.GetByCallsign(callsign)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(StationDTO{
		Callsign:  station.Callsign,
		LastHeard: station.LastHeard.Unix(),
		CallCount: station.CallCount,
	}); err != nil {
		a.logger.Error("Failed to encode station response", logger.Error(err))
	}
}
