// Copyright The Capgate Authors. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/capgate/capgate/cluster/core"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"
)

const version20250901 = "/2025-09-01"

// Server is the cluster capability API server.
type Server struct {
	host     string
	port     int
	server   *http.Server
	listener net.Listener
	exit     chan error
}

// NewServer creates a new cluster API Server.
//
// Unlike net/http server's ListenAndServe, we separate Listen()
// and Serve(); this is done to guarantee order: call to Listen()
// should happen before peers are told where to announce.
//
// When port is 0, OS will dynamically allocate the listening port.
func NewServer(host string, port int, capabilityService core.CapabilityService) *Server {
	exitErrors := make(chan error, 1)

	router := chi.NewRouter()
	router.Mount(version20250901, NewRouter(capabilityService))

	return &Server{
		host:     host,
		port:     port,
		server:   &http.Server{Handler: router},
		listener: nil,
		exit:     exitErrors,
	}
}

// Listen on port
func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.listener = ln
	if s.port == 0 {
		s.port = ln.Addr().(*net.TCPAddr).Port
		log.WithField("port", s.port).Info("Listening port was dynamically allocated")
	}

	log.Debugf("Cluster API Server listening on %s:%d", s.host, s.port)

	return nil
}

func (s *Server) IsListening() bool {
	return s.listener != nil
}

// Serve requests and close on cancelation signals
func (s *Server) Serve(ctx context.Context) error {
	defer s.Close()

	select {
	case err := <-s.serveAsync():
		return err

	case err := <-s.exit:
		log.Errorf("Error triggered exit: %s", err)
		return err

	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) serveAsync() chan error {
	errors := make(chan error)
	go func() {
		errors <- s.server.Serve(s.listener)
	}()

	return errors
}

// Host is server's host
func (s *Server) Host() string {
	return s.host
}

// Port is server's port
func (s *Server) Port() int {
	return s.port
}

// URL is full server url for specified endpoint
func (s *Server) URL(endpoint string) string {
	return fmt.Sprintf("http://%s:%d%s%s", s.Host(), s.Port(), version20250901, endpoint)
}

// Close forcefully closes listeners & connections
func (s *Server) Close() error {
	err := s.server.Close()
	if err == nil {
		log.Info("Cluster API Server closed")
	}
	return err
}
