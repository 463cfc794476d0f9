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

package sub

import (
	"fmt"

	"wrapvault"
	"wrapvault/common"

	"github.com/spf13/cobra"
)

var (
	listTokenAddr string
	authSpender   string
	walletCommand = &cobra.Command{
		Use:                   "wallet <command> [options]",
		DisableFlagsInUseLine: true,
		Short:                 "get wallet info",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	walletListCommand = &cobra.Command{
		Use:                   "list [options]",
		DisableFlagsInUseLine: true,
		Short:                 "get wallet address list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getWalletList()
		},
	}
	walletNewCommand = &cobra.Command{
		Use:                   "new [options]",
		DisableFlagsInUseLine: true,
		Short:                 "Create wallet address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return walletNew()
		},
	}
	walletDelCommand = &cobra.Command{
		Use:                   "del [options] <address>",
		DisableFlagsInUseLine: true,
		Short:                 "Delete wallet <address>",
		RunE:                  walletDel,
	}
	walletSetAddrDefCommand = &cobra.Command{
		Use:                   "setdef [options] <address>",
		DisableFlagsInUseLine: true,
		Short:                 "set default wallet <address>",
		RunE:                  setWalletAddrDef,
	}
	walletGetAddrDefCommand = &cobra.Command{
		Use:                   "getdef [options]",
		DisableFlagsInUseLine: true,
		Short:                 "get default wallet address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getWalletAddrDef()
		},
	}
	walletExportCommand = &cobra.Command{
		Use:                   "export [options] <address>",
		DisableFlagsInUseLine: true,
		Short:                 "export wallet <address>",
		RunE:                  runWalletExport,
	}
	walletImportCommand = &cobra.Command{
		Use:                   "import [options] <key>",
		DisableFlagsInUseLine: true,
		Short:                 "[options] import wallet <key>",
		RunE:                  runWalletImport,
	}
	walletSignAuthCommand = &cobra.Command{
		Use:                   "signauth [options] <token> <amount>",
		DisableFlagsInUseLine: true,
		Short:                 "Sign a deposit authorization without submitting it",
		RunE:                  runWalletSignAuth,
	}
)

func walletNew() error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	var addr *string = nil
	err = cli.CallMethod(1, "Wallet.Create", nil, &addr)
	if err != nil {
		fmt.Println(err.Error())
		return nil
	}
	fmt.Println(*addr)
	return nil
}

func walletDel(cmd *cobra.Command, args []string) error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	addr := args[0]
	addrq := &getWalletByAddressArgs{
		Address: addr,
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	var r *interface{} = nil
	err = cli.CallMethod(1, "Wallet.Del", addrq, &r)
	if err != nil {
		fmt.Println(err.Error())
		return nil
	}
	fmt.Println("Successfully deleted address")
	return nil
}

func runWalletExport(cmd *cobra.Command, args []string) error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	addr := args[0]
	addrq := &getWalletByAddressArgs{
		Address: addr,
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	var r *string = nil
	err = cli.CallMethod(1, "Wallet.ExportByAddress", addrq, &r)
	if err != nil {
		return nil
	}
	fmt.Printf("%s\n", *r)
	return nil
}

func runWalletImport(cmd *cobra.Command, args []string) error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	addr := args[0]
	importrq := &walletImportArgs{
		Key: addr,
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	var r *string = nil
	err = cli.CallMethod(1, "Wallet.ImportByPrivateKey", importrq, &r)
	if err != nil {
		return nil
	}
	fmt.Printf("%s\n", *r)
	return nil
}

func setWalletAddrDef(cmd *cobra.Command, args []string) error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	addr := args[0]
	req := &setWalletAddrDefArgs{
		Address: addr,
	}
	var r *string = nil
	err = cli.CallMethod(1, "Wallet.SetDefaultAddress", req, &r)
	if err != nil {
		return nil
	}
	fmt.Printf("Successfully set default address\n")
	return nil
}

func getWalletAddrDef() error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	var defStr *string = nil
	err = cli.CallMethod(1, "Wallet.GetDefaultAddress", nil, &defStr)
	if err != nil {
		return err
	}
	fmt.Println(*defStr)
	return nil
}

func getWalletList() error {
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	//Get wallet default address
	var defAddr common.Address
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	err = cli.CallMethod(1, "Wallet.GetDefaultAddress", nil, &defAddr)
	if err != nil {
		return err
	}
	walletAddress := make([]common.Address, 0)
	err = cli.CallMethod(1, "Wallet.List", nil, &walletAddress)
	if err != nil {
		return err
	}
	if listTokenAddr == "" {
		fmt.Print("Address                            Default")
		fmt.Println()
		for _, w := range walletAddress {
			fmt.Printf("%-35v", w.B58String())
			if w == defAddr {
				fmt.Printf("%-10v", "x")
			}
			fmt.Println()
		}
		return nil
	}
	info, err := tokenInfoOf(cli, listTokenAddr)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	decimals := uint8(info["decimals"].(float64))
	var balance string
	fmt.Print("Address                            Balance                       Default")
	fmt.Println()
	for _, w := range walletAddress {
		req := &tokenBalanceArgs{
			Token:   listTokenAddr,
			Address: w.B58String(),
		}
		err = cli.CallMethod(1, "Token.GetBalance", &req, &balance)
		if err != nil {
			return err
		}
		fmt.Printf("%-35v", w.B58String())
		fmt.Printf("%-30v", displayAmount(balance, decimals))
		if w == defAddr {
			fmt.Printf("%-10v", "x")
		}
		fmt.Println()
	}
	return nil
}

func runWalletSignAuth(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	info, err := tokenInfoOf(cli, args[0])
	if err != nil {
		fmt.Println(err)
		return nil
	}
	decimals := uint8(info["decimals"].(float64))
	amount, err := common.ParseAmount(args[1], decimals)
	if err != nil {
		return err
	}
	req := &signAuthorizationArgs{
		Token:  args[0],
		Amount: amount.Text(10),
	}
	if authHolder != "" {
		req.Holder = authHolder
	}
	if authSpender != "" {
		req.Spender = authSpender
	}
	if authDeadline != "" {
		req.Deadline = authDeadline
	}
	if authNonce != "" {
		req.Nonce = authNonce
	}
	var signed *depositAuthorizationArgs = nil
	err = cli.CallMethod(1, "Wallet.SignAuthorization", &req, &signed)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	bs, err := common.MarshalIndent(signed)
	if err != nil {
		return err
	}
	fmt.Println(string(bs))
	return nil
}

func init() {
	walletCommand.AddCommand(walletListCommand)
	mListFlags := walletListCommand.PersistentFlags()
	mListFlags.StringVarP(&listTokenAddr, "token", "t", "", "Show balances of the token address")
	walletCommand.AddCommand(walletNewCommand)
	walletCommand.AddCommand(walletDelCommand)
	walletCommand.AddCommand(walletImportCommand)
	walletCommand.AddCommand(walletExportCommand)
	walletCommand.AddCommand(walletGetAddrDefCommand)
	walletCommand.AddCommand(walletSignAuthCommand)
	mSignFlags := walletSignAuthCommand.PersistentFlags()
	mSignFlags.StringVarP(&authHolder, "holder", "", "", "Set token holder address")
	mSignFlags.StringVarP(&authSpender, "spender", "", "", "Set authorized spender address")
	mSignFlags.StringVarP(&authDeadline, "deadline", "", "", "Set authorization deadline, unix seconds")
	mSignFlags.StringVarP(&authNonce, "nonce", "", "", "Set authorization nonce")
	walletCommand.AddCommand(walletSetAddrDefCommand)
	rootCmd.AddCommand(walletCommand)
}
