package server

import "errors"

var (
	ErrServerClosed         = errors.New("server is closed")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrConnectionClosed     = errors.New("connection is closed")
	ErrSlowClient           = errors.New("client send buffer full")
)
