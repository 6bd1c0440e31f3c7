// Entry point
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

package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go-checkers/internal/config"
	"go-checkers/internal/conn"
	"go-checkers/internal/discovery"
	"go-checkers/internal/idgen"
	"go-checkers/internal/logging"
	"go-checkers/internal/registry"
	"go-checkers/internal/wsbridge"
)

// server is the process-wide Shutdowner the SHUTDOWN command reaches
// into to close the listeners exactly once.
type server struct {
	once     sync.Once
	listener net.Listener
	wsServer *http.Server
	pub      discovery.Publisher
}

func (s *server) Shutdown() {
	s.once.Do(func() {
		logging.Info.Print("shutting down")
		if s.listener != nil {
			s.listener.Close()
		}
		if s.wsServer != nil {
			s.wsServer.Close()
		}
		if s.pub != nil {
			s.pub.Shutdown()
		}
	})
}

func main() {
	conf, err := config.Load(flag.NewFlagSet("checkerd", flag.ExitOnError), os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.SetDebug(conf.LogLevel == "debug")

	reg := registry.New(int(conf.BoardSize), time.Duration(conf.IdleSeconds)*time.Second, idgen.Random(), int64(conf.GameSlots))
	srv := &server{pub: discovery.NullPublisher{}}

	addr := fmt.Sprintf("%s:%d", conf.Bind, conf.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		logging.Info.Fatal(err)
	}
	srv.listener = listener
	logging.Info.Printf("listening on tcp %s", addr)

	if err := srv.pub.Publish(conf.Bind, int(conf.Port)); err != nil {
		logging.Debug.Printf("discovery publish failed: %s", err)
	}

	go acceptLoop(listener, reg, srv)

	if conf.WSPort != 0 {
		wsAddr := fmt.Sprintf("%s:%d", conf.Bind, conf.WSPort)
		mux := http.NewServeMux()
		mux.Handle("/socket", wsbridge.Handler(func(rwc io.ReadWriteCloser, label string) {
			conn.New(reg, srv, rwc, label).Serve()
		}))
		srv.wsServer = &http.Server{Addr: wsAddr, Handler: mux}
		go func() {
			logging.Info.Printf("listening on ws %s", wsAddr)
			if err := srv.wsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logging.Info.Print(err)
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	srv.Shutdown()
}

// acceptLoop accepts TCP connections until the listener is closed,
// spawning one goroutine per client per the teacher's own blocking
// I/O, goroutine-per-connection model.
func acceptLoop(listener net.Listener, reg *registry.Registry, srv *server) {
	for {
		c, err := listener.Accept()
		if err != nil {
			logging.Debug.Print("accept loop ending: ", err)
			return
		}
		logging.Info.Printf("new connection from %s", c.RemoteAddr())
		go conn.New(reg, srv, c, c.RemoteAddr().String()).Serve()
	}
}
