/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned for writes submitted after Close.
var ErrClosed = errors.New("storage service closed")

type writeReq struct {
	fn   func() error
	done chan error
}

// writer runs submitted writes one at a time on its own goroutine.
type writer struct {
	q      chan writeReq
	closed chan struct{}
	once   sync.Once
}

func newWriter() *writer {
	w := &writer{q: make(chan writeReq), closed: make(chan struct{})}
	go w.loop()
	return w
}

func (w *writer) loop() {
	for {
		select {
		case <-w.closed:
			return
		case r := <-w.q:
			r.done <- r.fn()
		}
	}
}

// do hands fn to the writer goroutine and waits for its result.
// q is unbuffered, so an accepted request is always answered.
func (w *writer) do(ctx context.Context, fn func() error) error {
	r := writeReq{fn: fn, done: make(chan error, 1)}
	select {
	case w.q <- r:
	case <-w.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-r.done
}

func (w *writer) close() { w.once.Do(func() { close(w.closed) }) }
