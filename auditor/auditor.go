// Copyright 2021 The wrapvault Authors
// This file is part of the wrapvault library.
//
// The wrapvault library is free software: you can redistribute it and/or modify
// it under the terms of the MIT Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The wrapvault library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// MIT Lesser General Public License for more details.
//
// You should have received a copy of the MIT Lesser General Public License
// along with the wrapvault library. If not, see <https://mit-license.org/>.

package auditor

import (
	"sync"
	"time"

	"wrapvault"
	"wrapvault/common"

	"github.com/sirupsen/logrus"
)

const defaultSweepIntervalSec = 30

type Config struct {
	SweepIntervalSec uint32
}

// Auditor independently re-verifies the reserve invariant of every
// vault: a full sweep on a timer plus a targeted re-check after each
// deposit or withdraw event. The vault operations already refuse to
// commit a broken state, so anything the auditor finds points at
// storage corruption or a bug, and is worth shouting about.
type Auditor struct {
	*Config
	mu            sync.Mutex
	started       bool
	quit          chan struct{}
	wg            sync.WaitGroup
	ledger        *wrapvault.Ledger
	eventBus      *wrapvault.EventBus
	LastStartTime time.Time
	reportMu      sync.RWMutex
	lastReports   map[common.Address]*wrapvault.InvariantReport
}

func NewAuditor(config *Config, ledger *wrapvault.Ledger, eventBus *wrapvault.EventBus) *Auditor {
	if config.SweepIntervalSec == 0 {
		config.SweepIntervalSec = defaultSweepIntervalSec
	}
	return &Auditor{
		Config:      config,
		ledger:      ledger,
		eventBus:    eventBus,
		lastReports: make(map[common.Address]*wrapvault.InvariantReport),
	}
}

func (a *Auditor) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return
	}
	a.quit = make(chan struct{})
	a.wg.Add(2)
	go a.sweepLoop()
	go a.watchLoop()
	a.LastStartTime = time.Now()
	a.started = true
	logrus.Infof("Auditor started, sweep interval: %ds", a.SweepIntervalSec)
}

func (a *Auditor) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		close(a.quit)
		a.wg.Wait()
		a.started = false
	}
}

func (a *Auditor) GetAuditStatus() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started
}

// sweepLoop walks every registered vault on a timer.
func (a *Auditor) sweepLoop() {
	defer a.wg.Done()
	ticker := time.NewTicker(time.Duration(a.SweepIntervalSec) * time.Second)
	defer ticker.Stop()
out:
	for {
		select {
		case <-ticker.C:
			a.sweep()
		case <-a.quit:
			break out
		}
	}
}

// watchLoop re-checks a vault right after it mutated.
func (a *Auditor) watchLoop() {
	defer a.wg.Done()
	depositSub := a.eventBus.Subscript(wrapvault.DepositEvent{})
	withdrawSub := a.eventBus.Subscript(wrapvault.WithdrawEvent{})
	defer func() {
		depositSub.Unsubscribe()
		withdrawSub.Unsubscribe()
	}()
out:
	for {
		select {
		case e := <-depositSub.Chan():
			if ev, ok := e.(wrapvault.DepositEvent); ok && ev.Record != nil {
				a.audit(ev.Record.Wrapper)
			}
		case e := <-withdrawSub.Chan():
			if ev, ok := e.(wrapvault.WithdrawEvent); ok && ev.Record != nil {
				a.audit(ev.Record.Wrapper)
			}
		case <-a.quit:
			break out
		}
	}
}

func (a *Auditor) sweep() {
	for _, wrapper := range a.ledger.Vaults() {
		a.audit(wrapper)
	}
}

func (a *Auditor) audit(wrapper common.Address) {
	report, err := a.ledger.CheckInvariant(wrapper)
	if err != nil {
		logrus.Warnf("Audit of vault %s failed: %s", wrapper.B58String(), err)
		return
	}
	a.reportMu.Lock()
	a.lastReports[wrapper] = report
	a.reportMu.Unlock()
	if !report.Healthy {
		logrus.Errorf("Vault %s undercollateralized: reserves %s < supply %s",
			wrapper.B58String(), report.Reserves.Text(10), report.Supply.Text(10))
		a.eventBus.Publish(wrapvault.InvariantBrokenEvent{
			Wrapper:  wrapper,
			Reserves: report.Reserves,
			Supply:   report.Supply,
		})
	}
}

// LastReport returns the most recent audit result of a vault, nil if
// the vault has not been audited yet.
func (a *Auditor) LastReport(wrapper common.Address) *wrapvault.InvariantReport {
	a.reportMu.RLock()
	defer a.reportMu.RUnlock()
	return a.lastReports[wrapper]
}

// Reports snapshots the latest audit result of every vault seen so far.
func (a *Auditor) Reports() map[common.Address]*wrapvault.InvariantReport {
	a.reportMu.RLock()
	defer a.reportMu.RUnlock()
	out := make(map[common.Address]*wrapvault.InvariantReport, len(a.lastReports))
	for k, v := range a.lastReports {
		out[k] = v
	}
	return out
}
