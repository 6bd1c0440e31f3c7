// Zero-configuration advertisement contract
//
// Copyright (c) 2024 go-checkers authors
//
// This file is part of go-checkers.
//
// go-checkers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-checkers is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-checkers. If not, see
// <http://www.gnu.org/licenses/>

// Package discovery names the contract for advertising the server on
// the local network. Only a no-op implementation ships here: a real
// implementation (mDNS/zeroconf) is an external collaborator, out of
// scope for this repository.
package discovery

// Publisher advertises a running server and retracts that
// advertisement on shutdown.
type Publisher interface {
	Publish(host string, port int) error
	Shutdown() error
}

// NullPublisher satisfies Publisher without advertising anything. It
// is the default when no real publisher is wired in.
type NullPublisher struct{}

func (NullPublisher) Publish(host string, port int) error { return nil }
func (NullPublisher) Shutdown() error                     { return nil }
