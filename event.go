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
	"reflect"
	"sync"
)

// EventBus dispatches events to registered receivers. A receiver
// subscribes with a sample value and gets every event published with
// that concrete type. The ledger publishes a record event after each
// committed mutation, the auditor is the main consumer.
type EventBus struct {
	subs map[reflect.Type][]chan interface{}
	rw   sync.RWMutex
}

type Subscription struct {
	eb  *EventBus
	typ reflect.Type
	c   chan interface{}
}

func (s *Subscription) Chan() chan interface{} {
	return s.c
}

// Unsubscribe detaches the channel from the bus. Events already in
// flight may still be delivered, later publishes will not be.
func (s *Subscription) Unsubscribe() {
	s.eb.unsubscribe(s.typ, s.c)
}

func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[reflect.Type][]chan interface{}),
	}
}

func (e *EventBus) Subscript(t interface{}) *Subscription {
	e.rw.Lock()
	defer e.rw.Unlock()
	rtyp := reflect.TypeOf(t)
	sub := &Subscription{
		typ: rtyp,
		c:   make(chan interface{}),
		eb:  e,
	}
	e.subs[rtyp] = append(e.subs[rtyp], sub.c)
	return sub
}

func (e *EventBus) Publish(data interface{}) {
	e.rw.RLock()
	rtyp := reflect.TypeOf(data)
	cs, found := e.subs[rtyp]
	if found {
		cs = append([]chan interface{}{}, cs...)
	}
	e.rw.RUnlock()
	if !found {
		return
	}
	go func(d interface{}, cs []chan interface{}) {
		for _, ch := range cs {
			ch <- d
		}
	}(data, cs)
}

func (e *EventBus) unsubscribe(rtyp reflect.Type, c chan interface{}) {
	e.rw.Lock()
	defer e.rw.Unlock()
	old, found := e.subs[rtyp]
	if !found {
		return
	}
	next := old[:0]
	for _, ch := range old {
		if ch != c {
			next = append(next, ch)
		}
	}
	e.subs[rtyp] = next
}
