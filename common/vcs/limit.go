/*
 *  Copyright IBM Corporation 2024
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 */

package vcs

import (
	"errors"
	"sync/atomic"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage"
)

// ErrLimitExceeded is returned when a clone would store more bytes than allowed
var ErrLimitExceeded = errors.New("repo size limit exceeded")

// Limited is an object storage that rejects objects once its byte budget is spent
type Limited struct {
	storage.Storer
	N atomic.Int64
}

// Limit returns a git.Storer limited to the specified number of bytes. A negative limit disables the check.
func Limit(s storage.Storer, n int64) storage.Storer {
	if n < 0 {
		return s
	}
	l := &Limited{Storer: s}
	l.N.Store(n)
	return l
}

// Remaining returns the number of bytes that can still be stored
func (s *Limited) Remaining() int64 {
	return s.N.Load()
}

// SetEncodedObject stores the object if it fits in the remaining budget
func (s *Limited) SetEncodedObject(obj plumbing.EncodedObject) (plumbing.Hash, error) {
	size := obj.Size()
	for {
		n := s.N.Load()
		if n-size < 0 {
			return plumbing.ZeroHash, ErrLimitExceeded
		}
		if s.N.CompareAndSwap(n, n-size) {
			break
		}
	}
	return s.Storer.SetEncodedObject(obj)
}

// Module limits the storage of a submodule to the remaining budget
func (s *Limited) Module(name string) (storage.Storer, error) {
	m, err := s.Storer.Module(name)
	if err != nil {
		return nil, err
	}
	return Limit(m, s.N.Load()), nil
}
