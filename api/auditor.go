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

package api

import (
	"time"

	"wrapvault"
	"wrapvault/auditor"
	"wrapvault/common"
)

type AuditorAPIHandler struct {
	Auditor *auditor.Auditor
}

type AuditorCheckArgs struct {
	Wrapper string `json:"wrapper"`
}

func (handler *AuditorAPIHandler) Start(_ EmptyArgs, resp *string) error {
	handler.Auditor.Start()
	*resp = ""
	return nil
}

func (handler *AuditorAPIHandler) Stop(_ EmptyArgs, resp *string) error {
	handler.Auditor.Stop()
	*resp = ""
	return nil
}

func (handler *AuditorAPIHandler) Status(_ EmptyArgs, resp *AuditStatusResp) error {
	reports := handler.Auditor.Reports()
	list := make([]*InvariantResp, 0, len(reports))
	for _, report := range reports {
		var item *InvariantResp
		if err := coverInvariant2Resp(report, &item); err != nil {
			return errorcase(err)
		}
		list = append(list, item)
	}
	result := &AuditStatusResp{
		Status:        handler.Auditor.GetAuditStatus(),
		LastStartTime: handler.Auditor.LastStartTime.Format(time.RFC3339),
		SweepInterval: handler.Auditor.SweepIntervalSec,
		Reports:       list,
	}
	*resp = *result
	return nil
}

func (handler *AuditorAPIHandler) GetReport(args AuditorCheckArgs, resp **InvariantResp) error {
	if args.Wrapper == "" {
		return wrapvault.NewRPCError(-1006, "wrapper not be empty")
	}
	if err := common.AddrCalibrator(args.Wrapper); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	wrapper := common.StrB58ToAddress(args.Wrapper)
	report := handler.Auditor.LastReport(wrapper)
	if report == nil {
		return wrapvault.NewRPCError(-1006, "no report for vault")
	}
	return coverInvariant2Resp(report, resp)
}
