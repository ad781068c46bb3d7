package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validSimConfig() SimConfig {
	return SimConfig{
		APIBaseURL:  "http://localhost:8080",
		Duration:    15 * time.Second,
		Workers:     16,
		Doctors:     5,
		Patients:    50,
		Days:        3,
		SlotsPerDay: 8,
		ReadRatio:   0.3,
	}
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, validateConfig(validSimConfig()))

	cases := map[string]func(*SimConfig){
		"zero workers":       func(c *SimConfig) { c.Workers = 0 },
		"zero duration":      func(c *SimConfig) { c.Duration = 0 },
		"zero doctors":       func(c *SimConfig) { c.Doctors = 0 },
		"zero patients":      func(c *SimConfig) { c.Patients = 0 },
		"too many slots":     func(c *SimConfig) { c.SlotsPerDay = 17 },
		"negative readratio": func(c *SimConfig) { c.ReadRatio = -0.1 },
		"readratio of one":   func(c *SimConfig) { c.ReadRatio = 1.0 },
	}
	for name, mutate := range cases {
		cfg := validSimConfig()
		mutate(&cfg)
		assert.Error(t, validateConfig(cfg), name)
	}
}
