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

package node

import (
	"log"

	"wrapvault"
	"wrapvault/api"
	"wrapvault/auditor"
	"wrapvault/storage/badger"

	"github.com/sirupsen/logrus"
)

// Node is a container on which services can be registered.
type Node struct {
	config    *Config
	rpcServer *wrapvault.RPCServer
}

type Config struct {
	RPCConfig *wrapvault.RPCConfig
}

// New creates a new node, ready for service registration.
func New(config *Config) (*Node, error) {
	n := &Node{
		config: config,
	}
	n.rpcServer = wrapvault.NewRPCServer(config.RPCConfig)
	return n, nil
}

// Start runs the RPC service in a goroutine.
// Node can only be started once.
func (n *Node) Start() error {
	go func() {
		if err := n.rpcServer.Start(); err != nil {
			logrus.Errorln(err)
		}
	}()
	return nil
}

//RegisterBackend registers built-in APIs.
func (n *Node) RegisterBackend(
	stateDb badger.IStorage,
	ledger *wrapvault.Ledger,
	wallet *wrapvault.Wallet,
	vaultAuditor *auditor.Auditor) error {
	registryApiHandler := &api.RegistryAPIHandler{
		Ledger: ledger,
		Wallet: wallet,
	}
	vaultApiHandler := &api.VaultAPIHandler{
		Ledger: ledger,
		Wallet: wallet,
	}
	tokenApiHandler := &api.TokenApiHandler{
		Ledger: ledger,
		Wallet: wallet,
	}
	walletApiHandler := &api.WalletHandler{
		Wallet: wallet,
		Ledger: ledger,
	}
	stateHandler := &api.StateAPIHandler{
		StateDb: stateDb,
		Ledger:  ledger,
	}
	auditorApiHandler := &api.AuditorAPIHandler{
		Auditor: vaultAuditor,
	}

	if err := n.rpcServer.RegisterName("Registry", registryApiHandler); err != nil {
		log.Fatalf("RPC service register error: %s", err)
		return err
	}
	if err := n.rpcServer.RegisterName("Vault", vaultApiHandler); err != nil {
		log.Fatalf("RPC service register error: %s", err)
		return err
	}
	if err := n.rpcServer.RegisterName("Token", tokenApiHandler); err != nil {
		log.Fatalf("RPC service register error: %s", err)
		return err
	}
	if err := n.rpcServer.RegisterName("Wallet", walletApiHandler); err != nil {
		log.Fatalf("RPC service register error: %s", err)
		return err
	}
	if err := n.rpcServer.RegisterName("State", stateHandler); err != nil {
		log.Fatalf("RPC service register error: %s", err)
		return err
	}
	if err := n.rpcServer.RegisterName("Auditor", auditorApiHandler); err != nil {
		log.Fatalf("RPC service register error: %s", err)
		return err
	}
	return nil
}
