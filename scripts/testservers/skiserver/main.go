// Command skiserver is a local target for liftload runs. It accepts lift
// rides on POST /skiers and can inject latency and failures.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/torosent/liftload/internal/payload"
)

type options struct {
	latency  time.Duration
	failRate float64
	failCode int
	seed     int64
}

type server struct {
	opt      options
	mu       sync.Mutex
	rng      *rand.Rand
	accepted atomic.Int64
	rejected atomic.Int64
}

func main() {
	port := flag.Int("port", 8080, "Listening port")
	latency := flag.Duration("latency", 0, "Delay added to every response")
	failRate := flag.Float64("fail-rate", 0, "Fraction of requests answered with -fail-code (0-1)")
	failCode := flag.Int("fail-code", http.StatusServiceUnavailable, "Status code for injected failures")
	seed := flag.Int64("seed", 1, "Seed for failure injection")
	flag.Parse()

	if *port <= 0 {
		log.Fatalf("port must be > 0")
	}

	srv := newServer(options{latency: *latency, failRate: *failRate, failCode: *failCode, seed: *seed})
	addr := fmt.Sprintf(":%d", *port)
	log.Printf("skiserver listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, srv.routes()))
}

func newServer(opt options) *server {
	return &server{opt: opt, rng: rand.New(rand.NewSource(opt.seed))}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/skiers", s.handleSkiers)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

func (s *server) handleSkiers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
		return
	}
	if s.opt.latency > 0 {
		time.Sleep(s.opt.latency)
	}
	if s.shouldFail() {
		s.rejected.Add(1)
		respondJSON(w, s.opt.failCode, map[string]any{"message": "injected failure"})
		return
	}

	var ride payload.LiftRide
	if err := json.NewDecoder(r.Body).Decode(&ride); err != nil {
		s.rejected.Add(1)
		respondJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid lift ride: " + err.Error()})
		return
	}
	if msg := validateRide(ride); msg != "" {
		s.rejected.Add(1)
		respondJSON(w, http.StatusBadRequest, map[string]any{"message": msg})
		return
	}

	s.accepted.Add(1)
	respondJSON(w, http.StatusCreated, map[string]any{"status": "created", "skierID": ride.SkierID})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"accepted": s.accepted.Load(),
		"rejected": s.rejected.Load(),
	})
}

func (s *server) shouldFail() bool {
	if s.opt.failRate <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < s.opt.failRate
}

func validateRide(ride payload.LiftRide) string {
	switch {
	case ride.SkierID == "":
		return "skierID is required"
	case ride.ResortID < 1 || ride.ResortID > payload.MaxResortID:
		return "resortID out of range"
	case ride.LiftID < 1 || ride.LiftID > payload.MaxLiftID:
		return "liftID out of range"
	case ride.Time < 1 || ride.Time > payload.MaxTime:
		return "time out of range"
	default:
		return ""
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
