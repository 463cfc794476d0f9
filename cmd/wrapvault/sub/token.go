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
	tokenFromAddr string
	tokenCommand  = &cobra.Command{
		Use:                   "token <command> [options]",
		DisableFlagsInUseLine: true,
		Short:                 "token operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	tokenCreateCommand = &cobra.Command{
		Use:                   "create [options] <name> <symbol> <decimals> [<taxbps>]",
		DisableFlagsInUseLine: true,
		Short:                 "Create a token, optionally with a transfer tax in basis points",
		RunE:                  runTokenCreate,
	}
	tokenInfoCommand = &cobra.Command{
		Use:                   "info [options] <address>",
		DisableFlagsInUseLine: true,
		Short:                 "Get token info",
		RunE:                  runTokenInfo,
	}
	tokenMintCommand = &cobra.Command{
		Use:                   "mint [options] <token> <to> <amount>",
		DisableFlagsInUseLine: true,
		Short:                 "Mint tokens to an address, minter only",
		RunE:                  runTokenMint,
	}
	tokenTransferCommand = &cobra.Command{
		Use:                   "transfer [options] <token> <to> <amount>",
		DisableFlagsInUseLine: true,
		Short:                 "Transfer tokens to an address",
		RunE:                  runTokenTransfer,
	}
	tokenApproveCommand = &cobra.Command{
		Use:                   "approve [options] <token> <spender> <amount>",
		DisableFlagsInUseLine: true,
		Short:                 "Approve a spender allowance",
		RunE:                  runTokenApprove,
	}
	tokenBalanceCommand = &cobra.Command{
		Use:                   "balance [options] <token> <address>",
		DisableFlagsInUseLine: true,
		Short:                 "Get the token balance of an address",
		RunE:                  runTokenBalance,
	}
	tokenAllowanceCommand = &cobra.Command{
		Use:                   "allowance [options] <token> <owner> <spender>",
		DisableFlagsInUseLine: true,
		Short:                 "Get the allowance granted by an owner to a spender",
		RunE:                  runTokenAllowance,
	}
	tokenNonceCommand = &cobra.Command{
		Use:                   "nonce [options] <token> <address>",
		DisableFlagsInUseLine: true,
		Short:                 "Get the authorization nonce of an address",
		RunE:                  runTokenNonce,
	}
)

func tokenInfoOf(cli *wrapvault.Client, address string) (map[string]interface{}, error) {
	result := make(map[string]interface{}, 1)
	req := &tokenGetArgs{
		Address: address,
	}
	if err := cli.CallMethod(1, "Token.GetInfo", &req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func runTokenCreate(cmd *cobra.Command, args []string) error {
	if len(args) < 3 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	req := &tokenCreateArgs{
		Name:     args[0],
		Symbol:   args[1],
		Decimals: args[2],
	}
	if len(args) > 3 {
		req.TaxBps = args[3]
	}
	if tokenFromAddr != "" {
		req.From = tokenFromAddr
	}
	var result string
	err = cli.CallMethod(1, "Token.Create", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Println(result)
	return nil
}

func runTokenInfo(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	result, err := tokenInfoOf(cli, args[0])
	if err != nil {
		fmt.Println(err)
		return nil
	}
	bs, err := common.MarshalIndent(result)
	if err != nil {
		return err
	}
	fmt.Println(string(bs))
	return nil
}

func runTokenMint(cmd *cobra.Command, args []string) error {
	if len(args) < 3 {
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
	amount, err := common.ParseAmount(args[2], decimals)
	if err != nil {
		return err
	}
	req := &tokenMintArgs{
		Token:  args[0],
		To:     args[1],
		Amount: amount.Text(10),
	}
	if tokenFromAddr != "" {
		req.From = tokenFromAddr
	}
	var result string
	err = cli.CallMethod(1, "Token.Mint", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Println("ok")
	return nil
}

func runTokenTransfer(cmd *cobra.Command, args []string) error {
	if len(args) < 3 {
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
	amount, err := common.ParseAmount(args[2], decimals)
	if err != nil {
		return err
	}
	req := &tokenTransferArgs{
		Token:  args[0],
		To:     args[1],
		Amount: amount.Text(10),
	}
	if tokenFromAddr != "" {
		req.From = tokenFromAddr
	}
	var result string
	err = cli.CallMethod(1, "Token.Transfer", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Println("ok")
	return nil
}

func runTokenApprove(cmd *cobra.Command, args []string) error {
	if len(args) < 3 {
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
	amount, err := common.ParseAmount(args[2], decimals)
	if err != nil {
		return err
	}
	req := &tokenApproveArgs{
		Token:   args[0],
		Spender: args[1],
		Amount:  amount.Text(10),
	}
	if tokenFromAddr != "" {
		req.From = tokenFromAddr
	}
	var result string
	err = cli.CallMethod(1, "Token.Approve", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Println("ok")
	return nil
}

func runTokenBalance(cmd *cobra.Command, args []string) error {
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
	req := &tokenBalanceArgs{
		Token:   args[0],
		Address: args[1],
	}
	var result string
	err = cli.CallMethod(1, "Token.GetBalance", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Printf("%s %s\n", displayAmount(result, decimals), info["symbol"])
	return nil
}

func runTokenAllowance(cmd *cobra.Command, args []string) error {
	if len(args) < 3 {
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
	req := &tokenAllowanceArgs{
		Token:   args[0],
		Owner:   args[1],
		Spender: args[2],
	}
	var result string
	err = cli.CallMethod(1, "Token.GetAllowance", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Printf("%s %s\n", displayAmount(result, decimals), info["symbol"])
	return nil
}

func runTokenNonce(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return cmd.Help()
	}
	config, err := parseClientConfig(cfgFile)
	if err != nil {
		return err
	}
	cli := wrapvault.NewClient(config.rpcClientApiHost, config.rpcClientApiTimeOut)
	req := &tokenAuthNonceArgs{
		Token:   args[0],
		Address: args[1],
	}
	var result uint64
	err = cli.CallMethod(1, "Token.GetAuthNonce", &req, &result)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Println(result)
	return nil
}

func init() {
	tokenCommand.AddCommand(tokenCreateCommand)
	mCreateFlags := tokenCreateCommand.PersistentFlags()
	mCreateFlags.StringVarP(&tokenFromAddr, "address", "a", "", "Set from address")
	tokenCommand.AddCommand(tokenInfoCommand)
	tokenCommand.AddCommand(tokenMintCommand)
	mMintFlags := tokenMintCommand.PersistentFlags()
	mMintFlags.StringVarP(&tokenFromAddr, "address", "a", "", "Set from address")
	tokenCommand.AddCommand(tokenTransferCommand)
	mTransferFlags := tokenTransferCommand.PersistentFlags()
	mTransferFlags.StringVarP(&tokenFromAddr, "address", "a", "", "Set from address")
	tokenCommand.AddCommand(tokenApproveCommand)
	mApproveFlags := tokenApproveCommand.PersistentFlags()
	mApproveFlags.StringVarP(&tokenFromAddr, "address", "a", "", "Set from address")
	tokenCommand.AddCommand(tokenBalanceCommand)
	tokenCommand.AddCommand(tokenAllowanceCommand)
	tokenCommand.AddCommand(tokenNonceCommand)
	rootCmd.AddCommand(tokenCommand)
}
