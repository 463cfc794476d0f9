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

package backend

import (
	"errors"
	"os"

	"wrapvault"
	"wrapvault/auditor"
	"wrapvault/node"
	"wrapvault/storage/badger"

	"github.com/sirupsen/logrus"
)

var (
	ErrInitialGenesis    = errors.New("initial genesis state fail")
	ErrMainNetDisabled   = errors.New("main net disabled")
	ErrWriteGenesisState = errors.New("write genesis state err")
)

// Backend represents the backend server of wrapvault and implements the
// full vault node service.
type Backend struct {
	config   *Config
	ledger   *wrapvault.Ledger
	wallet   *wrapvault.Wallet
	auditor  *auditor.Auditor
	eventBus *wrapvault.EventBus
}

type Params struct {
	NetworkID        uint32
	GenesisFile      string
	SweepIntervalSec uint32
	Debug            bool
}

// Config contains the configuration options of the Backend.
type Config struct {
	*Params
	StateDB   *badger.Storage
	KeysDB    *badger.Storage
	RecordsDB *badger.Storage
}

// NewBackend constructs and returns a Backend instance by a node in
// network and config. This method is for daemon which should be started
// firstly when the vault service runs.
func NewBackend(stack *node.Node, config *Config) (*Backend, error) {
	var err error = nil
	back := &Backend{
		config: config,
	}
	back.eventBus = wrapvault.NewEventBus()
	genesis := &wrapvault.Genesis{
		GenesisConfig: wrapvault.GenesisConfig{
			StateDB: back.config.StateDB,
			Debug:   config.Params.Debug,
		},
	}
	if config.NetworkID == uint32(1) {
		if wrapvault.VersionMajor() != 1 {
			return nil, ErrMainNetDisabled
		}
		if _, err = genesis.WriteMainNetGenesisN(); err != nil {
			return nil, ErrWriteGenesisState
		}
	} else if config.NetworkID == uint32(2) {
		if _, err = genesis.WriteTestNetGenesisN(); err != nil {
			return nil, err
		}
	} else if len(config.GenesisFile) > 0 {
		var fr *os.File
		if fr, err = os.Open(config.GenesisFile); err != nil {
			return nil, ErrWriteGenesisState
		}
		if _, err = wrapvault.WriteGenesisStateN(
			back.config.StateDB, fr, config.Params.Debug); err != nil {
			return nil, ErrWriteGenesisState
		}
		_ = fr.Close()
	} else {
		return nil, ErrInitialGenesis
	}
	if back.ledger, err = wrapvault.NewLedger(
		back.config.StateDB, back.config.RecordsDB, back.eventBus); err != nil {
		return nil, err
	}
	back.wallet = wrapvault.NewWallet(back.config.KeysDB)
	addrdef := back.wallet.GetDefault()
	if addrdef.IsZero() {
		if addrdef, err = back.wallet.AddByRandom(); err != nil {
			return nil, err
		}
		if err = back.wallet.SetDefault(addrdef); err != nil {
			return nil, err
		}
	}
	auditorConfig := &auditor.Config{
		SweepIntervalSec: config.SweepIntervalSec,
	}
	back.auditor = auditor.NewAuditor(auditorConfig, back.ledger, back.eventBus)
	logrus.Debugf("Initial auditor: sweepInterval=%ds", auditorConfig.SweepIntervalSec)
	if err = stack.RegisterBackend(
		back.config.StateDB,
		back.ledger,
		back.wallet,
		back.auditor); err != nil {
		return nil, err
	}
	return back, nil
}

func (b *Backend) Start() error {
	b.auditor.Start()
	return nil
}

// Stop joins the auditor goroutines. Storage handles are owned and
// closed by the daemon.
func (b *Backend) Stop() {
	b.auditor.Stop()
}
