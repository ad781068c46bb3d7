// Command simulate drives an api-server instance with concurrent booking
// traffic. It registers a fake roster, publishes a bounded grid of
// availability, then lets workers fight over deliberately overlapping slots
// for a while. At the end it cross-checks the server's ledger against the
// remaining availability: every published slot must be either still open or
// booked exactly once.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/medibook/consult/internal/api"
	"github.com/medibook/consult/internal/logging"
)

type SimConfig struct {
	APIBaseURL  string
	Duration    time.Duration
	Workers     int
	Doctors     int
	Patients    int
	Days        int
	SlotsPerDay int
	ReadRatio   float64
}

type slotTarget struct {
	DoctorID  int64
	Timestamp string // "YYYY-MM-DD HH:MM"
}

// DataPool is shared by the workers.
type DataPool struct {
	Patients []int64
	Doctors  []int64
	Targets  []slotTarget

	mu           sync.RWMutex
	appointments []int64
}

func (dp *DataPool) AddAppointment(id int64) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) RandomAppointment() (int64, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return 0, false
	}
	return dp.appointments[rand.Intn(len(dp.appointments))], true
}

type OperationMetrics struct {
	Total    int64
	Success  int64
	Conflict int64
	Error    int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (om *OperationMetrics) Record(latency time.Duration, success, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case success:
		atomic.AddInt64(&om.Success, 1)
	case conflict:
		atomic.AddInt64(&om.Conflict, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.latencies = append(om.latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.latencies))
	copy(latencies, om.latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[len(latencies)*50/100]
	p95 = latencies[min64(len(latencies)*95/100, len(latencies)-1)]
	return avg, min, max, p50, p95
}

func min64(a, b int) int {
	if a < b {
		return a
	}
	return b
}

type Simulator struct {
	config  SimConfig
	log     zerolog.Logger
	pool    *DataPool
	client  *http.Client
	booking OperationMetrics
	reads   OperationMetrics
}

func main() {
	_ = godotenv.Load()
	logger := logging.New("simulate", getEnv("APP_ENV", "dev"), getEnv("LOG_LEVEL", "info"))

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	logger.Info().
		Str("api", cfg.APIBaseURL).
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Int("doctors", cfg.Doctors).
		Int("patients", cfg.Patients).
		Msg("simulator starting")

	sim := &Simulator{
		config: cfg,
		log:    logger,
		client: &http.Client{Timeout: 10 * time.Second},
	}

	gofakeit.Seed(time.Now().UnixNano())

	pool, err := sim.seed()
	if err != nil {
		logger.Fatal().Err(err).Msg("seed roster")
	}
	sim.pool = pool
	logger.Info().
		Int("patients", len(pool.Patients)).
		Int("doctors", len(pool.Doctors)).
		Int("slots", len(pool.Targets)).
		Msg("roster seeded")

	sim.Run()
	sim.PrintReport()

	if err := sim.Verify(); err != nil {
		logger.Fatal().Err(err).Msg("ledger/availability mismatch")
	}
	logger.Info().Msg("verification passed: every slot open or booked exactly once")
}

func loadConfig() SimConfig {
	return SimConfig{
		APIBaseURL:  getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:    getDuration("SIM_DURATION", 15*time.Second),
		Workers:     getInt("SIM_WORKERS", 16),
		Doctors:     getInt("SIM_DOCTORS", 5),
		Patients:    getInt("SIM_PATIENTS", 50),
		Days:        getInt("SIM_DAYS", 3),
		SlotsPerDay: getInt("SIM_SLOTS_PER_DAY", 8),
		ReadRatio:   getFloat("SIM_READ_RATIO", 0.3),
	}
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	if cfg.Doctors <= 0 || cfg.Patients <= 0 {
		return fmt.Errorf("SIM_DOCTORS and SIM_PATIENTS must be > 0")
	}
	if cfg.SlotsPerDay <= 0 || cfg.SlotsPerDay > 16 {
		return fmt.Errorf("SIM_SLOTS_PER_DAY must be in 1..16")
	}
	if cfg.ReadRatio < 0 || cfg.ReadRatio >= 1 {
		return fmt.Errorf("SIM_READ_RATIO must be in [0, 1)")
	}
	return nil
}

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

// seed registers doctors and patients through the API and publishes the slot
// grid every worker will later contend for.
func (s *Simulator) seed() (*DataPool, error) {
	pool := &DataPool{}

	for i := 0; i < s.config.Doctors; i++ {
		var resp api.RegisterDoctorResponse
		err := s.postJSON("/doctors", api.RegisterDoctorRequest{
			Name:           "Dr. " + gofakeit.Name(),
			Specialization: specialties[gofakeit.Number(0, len(specialties)-1)],
			Contact:        gofakeit.Phone(),
			Email:          gofakeit.Email(),
		}, &resp)
		if err != nil {
			return nil, fmt.Errorf("register doctor: %w", err)
		}
		pool.Doctors = append(pool.Doctors, resp.DoctorID)
	}

	for i := 0; i < s.config.Patients; i++ {
		var resp api.RegisterPatientResponse
		err := s.postJSON("/patients", api.RegisterPatientRequest{
			Name:    gofakeit.Name(),
			DOB:     gofakeit.DateRange(time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC)).Format("2006-01-02"),
			Gender:  gofakeit.Gender(),
			Contact: gofakeit.Phone(),
			Email:   gofakeit.Email(),
		}, &resp)
		if err != nil {
			return nil, fmt.Errorf("register patient: %w", err)
		}
		pool.Patients = append(pool.Patients, resp.PatientID)
	}

	// half-hour grid from 09:00
	slots := make([]string, 0, s.config.SlotsPerDay)
	for i := 0; i < s.config.SlotsPerDay; i++ {
		slots = append(slots, fmt.Sprintf("%02d:%02d", 9+i/2, (i%2)*30))
	}

	start := time.Now().AddDate(0, 0, 1)
	for _, doctorID := range pool.Doctors {
		for d := 0; d < s.config.Days; d++ {
			date := start.AddDate(0, 0, d).Format("2006-01-02")
			err := s.postJSON(fmt.Sprintf("/doctors/%d/availability", doctorID), api.AddAvailabilityRequest{
				Date:  date,
				Slots: slots,
			}, nil)
			if err != nil {
				return nil, fmt.Errorf("add availability: %w", err)
			}
			for _, slot := range slots {
				pool.Targets = append(pool.Targets, slotTarget{
					DoctorID:  doctorID,
					Timestamp: date + " " + slot,
				})
			}
		}
	}

	return pool, nil
}

func (s *Simulator) Run() {
	deadline := time.Now().Add(s.config.Duration)

	var wg sync.WaitGroup
	wg.Add(s.config.Workers)
	for i := 0; i < s.config.Workers; i++ {
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for time.Now().Before(deadline) {
				if rng.Float64() < s.config.ReadRatio {
					s.doRead(rng)
				} else {
					s.doBooking(rng)
				}
			}
		}(time.Now().UnixNano() + int64(i))
	}
	wg.Wait()
}

func (s *Simulator) doBooking(rng *rand.Rand) {
	target := s.pool.Targets[rng.Intn(len(s.pool.Targets))]
	patientID := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	start := time.Now()
	var resp api.AppointmentResponse
	status, err := s.do(http.MethodPost, "/appointments", api.BookAppointmentRequest{
		PatientID: patientID,
		DoctorID:  target.DoctorID,
		Time:      target.Timestamp,
		Issue:     gofakeit.Sentence(),
	}, &resp)
	latency := time.Since(start)

	success := err == nil && status == http.StatusCreated
	conflict := err == nil && status == http.StatusConflict
	s.booking.Record(latency, success, conflict)

	if success {
		s.pool.AddAppointment(resp.AppointmentID)
	}
}

func (s *Simulator) doRead(rng *rand.Rand) {
	id, ok := s.pool.RandomAppointment()
	if !ok {
		s.doBooking(rng)
		return
	}

	start := time.Now()
	status, err := s.do(http.MethodGet, fmt.Sprintf("/appointments/%d", id), nil, nil)
	s.reads.Record(time.Since(start), err == nil && status == http.StatusOK, false)
}

func (s *Simulator) PrintReport() {
	report := func(name string, om *OperationMetrics) {
		avg, min, max, p50, p95 := om.Stats()
		s.log.Info().
			Str("op", name).
			Int64("total", atomic.LoadInt64(&om.Total)).
			Int64("success", atomic.LoadInt64(&om.Success)).
			Int64("conflict", atomic.LoadInt64(&om.Conflict)).
			Int64("error", atomic.LoadInt64(&om.Error)).
			Dur("avg", avg).Dur("min", min).Dur("max", max).
			Dur("p50", p50).Dur("p95", p95).
			Msg("operation report")
	}
	report("booking", &s.booking)
	report("read", &s.reads)
}

// Verify re-reads every doctor's ledger and remaining availability and
// checks the books balance: booked + still-open == published.
func (s *Simulator) Verify() error {
	published := make(map[int64]int)
	for _, t := range s.pool.Targets {
		published[t.DoctorID]++
	}

	var totalBooked int64
	for _, doctorID := range s.pool.Doctors {
		var appts []api.AppointmentResponse
		if _, err := s.do(http.MethodGet, fmt.Sprintf("/doctors/%d/appointments", doctorID), nil, &appts); err != nil {
			return fmt.Errorf("read doctor %d appointments: %w", doctorID, err)
		}

		seen := make(map[string]bool, len(appts))
		for _, a := range appts {
			key := a.Date + " " + a.Time
			if seen[key] {
				return fmt.Errorf("doctor %d double-booked at %s", doctorID, key)
			}
			seen[key] = true
		}

		var schedule []api.DayScheduleResponse
		if _, err := s.do(http.MethodGet, fmt.Sprintf("/doctors/%d/availability", doctorID), nil, &schedule); err != nil {
			return fmt.Errorf("read doctor %d availability: %w", doctorID, err)
		}
		open := 0
		for _, day := range schedule {
			open += len(day.Slots)
		}

		if len(appts)+open != published[doctorID] {
			return fmt.Errorf("doctor %d: booked %d + open %d != published %d",
				doctorID, len(appts), open, published[doctorID])
		}
		totalBooked += int64(len(appts))
	}

	if got := atomic.LoadInt64(&s.booking.Success); got != totalBooked {
		return fmt.Errorf("client saw %d successful bookings, server ledger has %d", got, totalBooked)
	}
	return nil
}

func (s *Simulator) postJSON(path string, body, out any) error {
	status, err := s.do(http.MethodPost, path, body, out)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("%s: unexpected status %d", path, status)
	}
	return nil
}

func (s *Simulator) do(method, path string, body, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.config.APIBaseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
