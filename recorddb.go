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
	"encoding/binary"

	"wrapvault/common"
	"wrapvault/common/rawencode"
	"wrapvault/storage/badger"

	"github.com/sirupsen/logrus"
)

var (
	creationRecPre = []byte("cr:")
	depositRecPre  = []byte("dr:")
	withdrawRecPre = []byte("wr:")
	recordSeqKey   = []byte("RecordSeq")
)

// recordDB is the append-only audit log of vault operations. Records are
// keyed per wrapper with a global big endian sequence number, so a
// prefix walk yields them in execution order. Nothing in here is ever
// rewritten or deleted.
type recordDB struct {
	storage badger.IStorage
}

func newRecordDB(db badger.IStorage) *recordDB {
	return &recordDB{
		storage: db,
	}
}

func (db *recordDB) nextSeq() uint64 {
	var seq uint64
	if val, err := db.storage.GetData(recordSeqKey); err == nil && len(val) == 8 {
		seq = binary.BigEndian.Uint64(val)
	}
	seq += 1
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seq)
	if err := db.storage.SetData(recordSeqKey, buf[:]); err != nil {
		logrus.Errorf("Write record seq err: %s", err)
	}
	return seq
}

// cr:<wrapper>
func (db *recordDB) WriteVaultCreationRecord(r *VaultCreationRecord) error {
	key := append(creationRecPre, r.Wrapper.Bytes()...)
	val, err := rawencode.Encode(r)
	if err != nil {
		logrus.Errorf("Write creation record err: %s", err)
		return err
	}
	return db.storage.SetData(key, val)
}

func (db *recordDB) GetVaultCreationRecord(wrapper common.Address) *VaultCreationRecord {
	key := append(creationRecPre, wrapper.Bytes()...)
	val, err := db.storage.GetData(key)
	if err != nil {
		return nil
	}
	rec := &VaultCreationRecord{}
	if err := rawencode.Decode(val, rec); err != nil {
		logrus.Debugf("Decode creation record:%v", err)
		return nil
	}
	return rec
}

// dr:<wrapper><seq_64bits>
func (db *recordDB) WriteDepositRecord(r *DepositRecord) error {
	var seqBuf [8]byte
	binary.BigEndian.PutUint64(seqBuf[:], db.nextSeq())
	key := append(depositRecPre, r.Wrapper.Bytes()...)
	key = append(key, seqBuf[:]...)
	val, err := rawencode.Encode(r)
	if err != nil {
		logrus.Errorf("Write deposit record err: %s", err)
		return err
	}
	return db.storage.SetData(key, val)
}

func (db *recordDB) GetDepositRecords(wrapper common.Address) []*DepositRecord {
	prefix := append(depositRecPre, wrapper.Bytes()...)
	records := make([]*DepositRecord, 0)
	db.storage.PrefixForeachData(prefix, func(_ []byte, v []byte) error {
		rec := &DepositRecord{}
		if err := rawencode.Decode(v, rec); err != nil {
			logrus.Debugf("Decode deposit record:%v", err)
			return nil
		}
		records = append(records, rec)
		return nil
	})
	return records
}

// wr:<wrapper><seq_64bits>
func (db *recordDB) WriteWithdrawRecord(r *WithdrawRecord) error {
	var seqBuf [8]byte
	binary.BigEndian.PutUint64(seqBuf[:], db.nextSeq())
	key := append(withdrawRecPre, r.Wrapper.Bytes()...)
	key = append(key, seqBuf[:]...)
	val, err := rawencode.Encode(r)
	if err != nil {
		logrus.Errorf("Write withdraw record err: %s", err)
		return err
	}
	return db.storage.SetData(key, val)
}

func (db *recordDB) GetWithdrawRecords(wrapper common.Address) []*WithdrawRecord {
	prefix := append(withdrawRecPre, wrapper.Bytes()...)
	records := make([]*WithdrawRecord, 0)
	db.storage.PrefixForeachData(prefix, func(_ []byte, v []byte) error {
		rec := &WithdrawRecord{}
		if err := rawencode.Decode(v, rec); err != nil {
			logrus.Debugf("Decode withdraw record:%v", err)
			return nil
		}
		records = append(records, rec)
		return nil
	})
	return records
}
