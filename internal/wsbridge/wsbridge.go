// WebSocket-to-line-protocol bridge
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

// Package wsbridge upgrades an HTTP connection to a WebSocket and
// wraps it in an io.ReadWriteCloser so a browser-hosted spectator can
// speak the same line protocol as a raw TCP client.
package wsbridge

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/websocket"

	"go-checkers/internal/logging"
)

var upgrader = websocket.Upgrader{
	// Spectator boards are read from arbitrary origins; the protocol
	// carries no secrets, so the default same-origin check is relaxed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// rwc adapts a *websocket.Conn to io.ReadWriteCloser by buffering
// whatever is left of the current text frame between Read calls.
type rwc struct {
	conn *websocket.Conn
	buf  []byte
}

func (c *rwc) Read(p []byte) (int, error) {
	for len(c.buf) == 0 {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if kind != websocket.TextMessage {
			continue
		}
		c.buf = data
	}
	n := copy(p, c.buf)
	c.buf = c.buf[n:]
	return n, nil
}

func (c *rwc) Write(p []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *rwc) Close() error {
	return c.conn.Close()
}

// Handler returns an http.HandlerFunc that upgrades every request to
// a WebSocket and hands the wrapped connection to serve. serve is
// expected to block for the lifetime of the connection, mirroring the
// contract of the raw TCP accept loop.
func Handler(serve func(conn io.ReadWriteCloser, label string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Debug.Printf("websocket upgrade from %s failed: %s", r.RemoteAddr, err)
			return
		}
		logging.Info.Printf("new websocket connection from %s", r.RemoteAddr)
		serve(&rwc{conn: conn}, fmt.Sprintf("ws:%s", r.RemoteAddr))
	}
}
