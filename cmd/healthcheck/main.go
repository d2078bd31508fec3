// main.go
//
// Record-keeping service for the Ramnagar High School mid-day meal programme
// Copyright (c) 2026 Ramnagar High School <mdm@ramnagarhs.edu>
//
// This file is part of mdm-service.
// mdm-service is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// mdm-service is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with mdm-service.
// If not, see <https://www.gnu.org/licenses/>.

// healthcheck probes the service's dependencies and prints a JSON
// diagnostic. It exits non-zero when any required check fails, which makes
// it usable as a container health probe.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/ramnagarhs/mdm-service/internal/config"
	"github.com/ramnagarhs/mdm-service/internal/database"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/utils"
)

type checkResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type report struct {
	Status    string        `json:"status"`
	Checks    []checkResult `json:"checks"`
	Timestamp time.Time     `json:"timestamp"`
}

func main() {
	_ = godotenv.Load()

	r := report{Status: "healthy", Timestamp: time.Now()}
	fail := func(name, detail string) {
		r.Checks = append(r.Checks, checkResult{Name: name, Status: "fail", Detail: detail})
		r.Status = "unhealthy"
	}
	pass := func(name string) {
		r.Checks = append(r.Checks, checkResult{Name: name, Status: "pass"})
	}

	cfg, err := config.Load()
	if err != nil {
		fail("config", err.Error())
		emit(r)
	}
	pass("config")

	if cfg.DBType == "sqlite" {
		if _, err := os.Stat(cfg.DBDatabase); err != nil {
			fail("database file", err.Error())
		} else {
			pass("database file")
		}
	} else {
		if err := utils.PingService(cfg.DBHost, cfg.DBPort, 1500*time.Millisecond); err != nil {
			fail("database port", err.Error())
		} else {
			pass("database port")
		}
	}

	db, err := database.Connect(cfg)
	if err != nil {
		fail("database connect", err.Error())
		emit(r)
	}
	defer database.Close(db)

	if status := services.HealthCheck(db); status.Status != "ok" {
		fail("database ping", status.Database)
	} else {
		pass("database ping")
	}

	// SMTP is optional; an unreachable relay degrades email only.
	if cfg.SMTPHost != "" {
		if err := utils.PingSMTP(cfg.SMTPHost, cfg.SMTPPort); err != nil {
			r.Checks = append(r.Checks, checkResult{Name: "smtp", Status: "warn", Detail: err.Error()})
		} else {
			pass("smtp")
		}
	}

	emit(r)
}

// emit prints the report and exits.
func emit(r report) {
	output, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health report: %v", err)
	}
	fmt.Println(string(output))

	if r.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
