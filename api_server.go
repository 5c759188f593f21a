package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

type APIServer interface {
	Start()
}

type apiServer struct {
	coordinator *AlertCoordinator
	listen      string
}

func NewAPIServer(coordinator *AlertCoordinator, listen string) APIServer {
	return &apiServer{
		coordinator: coordinator,
		listen:      listen,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	jsonData, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("json marshal error"))
		return
	}
	w.Write(jsonData)
}

func alertKindParam(r *http.Request) (string, error) {
	kind := r.URL.Query().Get("kind")
	if kind != AlertKindArbOpportunity && kind != AlertKindPositionUnhealthy {
		return "", fmt.Errorf("unknown alert kind: %q", kind)
	}
	return kind, nil
}

// HandlerOpportunities serves the top-N snapshot of the latest scan, for
// dashboards and bots. Informational only.
func (a *apiServer) HandlerOpportunities(w http.ResponseWriter, r *http.Request) {
	opportunities, err := a.coordinator.Opportunities()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(fmt.Sprintf("read opportunities error: %v", err)))
		return
	}
	writeJSON(w, opportunities)
}

func (a *apiServer) HandlerPendingAlert(w http.ResponseWriter, r *http.Request) {
	kind, err := alertKindParam(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}

	alert, err := a.coordinator.Pending(kind)
	if err != nil {
		if errors.Is(err, ErrAlertNotFound) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("no pending alert"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
		return
	}
	writeJSON(w, alert)
}

// HandlerClaimAlert is the consumer side of the at-most-once protocol: the
// claim is written before the response is sent, so the caller only ever
// executes an alert it durably owns.
func (a *apiServer) HandlerClaimAlert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	kind, err := alertKindParam(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}

	alert, err := a.coordinator.Claim(kind)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlertNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, ErrAlertAlreadyClaimed):
			w.WriteHeader(http.StatusConflict)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		w.Write([]byte(err.Error()))
		return
	}
	writeJSON(w, alert)
}

func (a *apiServer) HandlerResolveAlert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	kind, err := alertKindParam(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}

	ok, err := strconv.ParseBool(r.URL.Query().Get("ok"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("ok must be true or false"))
		return
	}

	if err := a.coordinator.Resolve(kind, ok, r.URL.Query().Get("reason")); err != nil {
		if errors.Is(err, ErrAlertNotFound) {
			w.WriteHeader(http.StatusNotFound)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		w.Write([]byte(err.Error()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlerPositionHealth evaluates an arbitrary range against a current tick,
// for ad-hoc checks from tooling.
func (a *apiServer) HandlerPositionHealth(w http.ResponseWriter, r *http.Request) {
	currentTick, err1 := strconv.ParseInt(r.URL.Query().Get("current_tick"), 10, 32)
	tickLower, err2 := strconv.ParseInt(r.URL.Query().Get("tick_lower"), 10, 32)
	tickUpper, err3 := strconv.ParseInt(r.URL.Query().Get("tick_upper"), 10, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("current_tick, tick_lower and tick_upper are required integers"))
		return
	}

	threshold := DefaultEdgeThresholdPercent
	if raw := r.URL.Query().Get("edge_threshold"); raw != "" {
		threshold, err1 = strconv.ParseFloat(raw, 64)
		if err1 != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("edge_threshold must be a number"))
			return
		}
	}

	health, err := EvaluatePositionHealth(int32(currentTick), int32(tickLower), int32(tickUpper), threshold)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	writeJSON(w, health)
}

func (a *apiServer) Start() {
	go func() {
		http.HandleFunc("/opportunities", a.HandlerOpportunities)
		http.HandleFunc("/alerts", a.HandlerPendingAlert)
		http.HandleFunc("/alerts/claim", a.HandlerClaimAlert)
		http.HandleFunc("/alerts/resolve", a.HandlerResolveAlert)
		http.HandleFunc("/position_health", a.HandlerPositionHealth)
		err := http.ListenAndServe(a.listen, nil)
		if err != nil {
			panic(err)
		}
	}()
}
