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

package wrapvault

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	hostUrl string
	rest    *resty.Client
}

type jsonRPCReq struct {
	JsonRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type jsonRPCResp struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result"`
	Error   *RPCError   `json:"error"`
	ID      int         `json:"id"`
}

func NewClient(url, timeOut string) *Client {
	rest := resty.New()
	if timeDur, err := time.ParseDuration(timeOut); err == nil {
		rest = rest.SetTimeout(timeDur)
	}
	return &Client{
		hostUrl: url,
		rest:    rest,
	}
}

// CallMethod executes one JSON-RPC call and unmarshals the result field
// into out. A non nil error field of the response comes back as an
// *RPCError.
func (cli *Client) CallMethod(id int, methodname string, params interface{}, out interface{}) error {
	req := &jsonRPCReq{
		JsonRPC: jsonrpcVersion,
		ID:      id,
		Method:  methodname,
		Params:  params,
	}
	// The result must be a pointer so that response json can unmarshal into it.
	var resp *jsonRPCResp = nil
	_, err := cli.rest.R().
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&resp).
		Post(cli.hostUrl)
	if err != nil {
		return err
	}
	if resp == nil {
		return fmt.Errorf("resp null")
	}
	if e := resp.Error; e != nil {
		return e
	}
	js, err := json.Marshal(resp.Result)
	if err != nil {
		return err
	}
	return json.Unmarshal(js, out)
}
