package netsvc

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/kestrelvcs/kestrel/core"
	"github.com/kestrelvcs/kestrel/vcs"
)

// Server is a TCP service exposing a subset of the Version Engine API
// over a newline-delimited JSON protocol.
type Server struct {
	listener        net.Listener
	engine          *vcs.Engine
	defaultIdentity core.Identity
	authConfig      *AuthConfig
	logger          *log.Logger

	done chan struct{}
	wg   sync.WaitGroup
}

// NewServer exposes engine with authentication disabled; every commit
// uses defaultIdentity.
func NewServer(engine *vcs.Engine, defaultIdentity core.Identity) *Server {
	return &Server{
		engine:          engine,
		defaultIdentity: defaultIdentity,
		logger:          log.Default(),
		done:            make(chan struct{}),
	}
}

// NewServerWithAuth exposes engine requiring a successful AUTH JWT
// handshake before any other command is accepted.
func NewServerWithAuth(engine *vcs.Engine, authConfig *AuthConfig) *Server {
	return &Server{
		engine:     engine,
		authConfig: authConfig,
		logger:     log.Default(),
		done:       make(chan struct{}),
	}
}

// Start begins listening on addr and accepting connections in the background.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("kestrel: start server: %w", err)
	}
	s.listener = listener

	s.logger.Printf("kestrel: netsvc listening on %s", addr)
	go s.acceptLoop()
	return nil
}

// Addr returns the server's listening address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop closes the listener and waits for in-flight connections to drain.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				s.logger.Printf("kestrel: accept error: %v", err)
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	connID := uuid.NewString()
	s.logger.Printf("kestrel: [%s] client connected: %s", connID, conn.RemoteAddr())

	state := &ConnectionState{}
	if s.authConfig == nil || !s.authConfig.Enabled {
		state.identity = &s.defaultIdentity
		state.authenticated = true
	}

	reader := bufio.NewReader(conn)
	for {
		select {
		case <-s.done:
			return
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				s.logger.Printf("kestrel: [%s] read error: %v", connID, err)
			}
			return
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		requestID := uuid.NewString()
		if strings.HasPrefix(strings.ToUpper(trimmed), "AUTH ") {
			s.writeResponse(conn, requestID, s.handleAuthLine(trimmed, state))
			continue
		}
		if !state.authenticated {
			s.writeResponse(conn, requestID, Response{Success: false, Error: "authentication required: send AUTH JWT <token>"})
			continue
		}

		req, err := DecodeRequest([]byte(trimmed))
		if err != nil {
			s.writeResponse(conn, requestID, Response{Success: false, Error: fmt.Sprintf("kestrel: malformed request: %v", err)})
			continue
		}
		s.writeResponse(conn, requestID, s.dispatch(req, state))
	}
}

func (s *Server) handleAuthLine(line string, state *ConnectionState) Response {
	if s.authConfig == nil || !s.authConfig.Enabled {
		return Response{Success: false, Error: "kestrel: authentication not enabled on this server"}
	}
	_, token, err := parseAuthCommand(line)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	result := s.validateJWT(token)
	if result.err != nil {
		return Response{Success: false, Error: result.err.Error()}
	}
	state.identity = &result.identity
	state.authenticated = true
	state.tokenExpiry = result.expiresAt
	return Response{Success: true, Type: "auth"}
}

func (s *Server) dispatch(req Request, state *ConnectionState) Response {
	switch req.Command {
	case "write":
		s.engine.Write(req.Path, []byte(req.Content))
		return Response{Success: true, Type: "write"}
	case "read":
		f, ok := s.engine.Read(req.Path)
		if !ok {
			return Response{Success: false, Error: "kestrel: not found"}
		}
		return jsonResult("read", map[string]string{"content": string(f.Content)})
	case "delete":
		s.engine.Delete(req.Path)
		return Response{Success: true, Type: "delete"}
	case "commit":
		identity := core.Identity{}
		if state.identity != nil {
			identity = *state.identity
		}
		hash, err := s.engine.Commit(req.Message, vcs.CommitOptions{Author: identity})
		if err != nil {
			return Response{Success: false, Error: err.Error()}
		}
		return jsonResult("commit", map[string]string{"hash": hash.String()})
	case "checkout":
		if err := s.engine.Checkout(req.Target); err != nil {
			return Response{Success: false, Error: err.Error()}
		}
		return Response{Success: true, Type: "checkout"}
	case "merge":
		status, err := s.engine.Merge(req.Target)
		if err != nil {
			return Response{Success: false, Error: err.Error()}
		}
		return jsonResult("merge", map[string]string{"status": string(status)})
	case "log":
		entries, err := s.engine.Log()
		if err != nil {
			return Response{Success: false, Error: err.Error()}
		}
		return jsonResult("log", entries)
	case "status":
		status, err := s.engine.Status()
		if err != nil {
			return Response{Success: false, Error: err.Error()}
		}
		return jsonResult("status", status)
	default:
		return Response{Success: false, Error: fmt.Sprintf("kestrel: unknown command %q", req.Command)}
	}
}

func jsonResult(kind string, v interface{}) Response {
	data, err := gojson.Marshal(v)
	if err != nil {
		return Response{Success: false, Error: fmt.Sprintf("kestrel: encode result: %v", err)}
	}
	return Response{Success: true, Type: kind, Result: data}
}

func (s *Server) writeResponse(conn net.Conn, requestID string, resp Response) {
	resp.RequestID = requestID
	data, err := EncodeResponse(resp)
	if err != nil {
		s.logger.Printf("kestrel: encode response: %v", err)
		return
	}
	if _, err := conn.Write(data); err != nil {
		s.logger.Printf("kestrel: write to %s: %v", conn.RemoteAddr(), err)
	}
}
