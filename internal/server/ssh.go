// Package server exposes the diagnostics shell over SSH, the network
// analogue of the device's serial console. Each accepted connection gets
// its own shell session.
package server

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/subtle"
	"encoding/pem"
	"io"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"

	"github.com/devconsole/devcon/internal/errors"
	"github.com/devconsole/devcon/internal/logging"
)

// Handler runs one interactive session over the given transport pair.
// It returns when the session ends.
type Handler func(in io.Reader, out io.Writer)

// Server accepts SSH connections and runs a shell session per channel.
type Server struct {
	addr      string
	sshConfig *ssh.ServerConfig
	handler   Handler
	log       *logging.Logger

	listener net.Listener
}

// New creates a console server. An empty password disables client
// authentication entirely, which is only sensible on a trusted link.
func New(addr string, hostKey ssh.Signer, password string, handler Handler) *Server {
	sshConfig := &ssh.ServerConfig{}
	if password == "" {
		sshConfig.NoClientAuth = true
	} else {
		secret := []byte(password)
		sshConfig.PasswordCallback = func(meta ssh.ConnMetadata, given []byte) (*ssh.Permissions, error) {
			if subtle.ConstantTimeCompare(secret, given) == 1 {
				return nil, nil
			}
			return nil, errors.New(errors.ErrServe, "Authentication failed", "")
		}
	}
	sshConfig.AddHostKey(hostKey)

	return &Server{
		addr:      addr,
		sshConfig: sshConfig,
		handler:   handler,
		log:       logging.Default().Tagged("server"),
	}
}

// ListenAndServe blocks accepting connections until Close is called.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrServe,
			"Cannot listen on "+s.addr,
			"Check the address is free and you may bind the port")
	}
	s.listener = listener
	return s.Serve(listener)
}

// Serve accepts connections from an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	s.listener = listener
	s.log.Info("console listening on %s", listener.Addr())

	for {
		conn, err := listener.Accept()
		if err != nil {
			// Closed listener means orderly shutdown.
			return nil
		}
		go s.handleConn(conn)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() {
	if s.listener != nil {
		s.listener.Close()
	}
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	serverConn, chans, reqs, err := ssh.NewServerConn(conn, s.sshConfig)
	if err != nil {
		s.log.Debug("handshake from %s failed: %v", conn.RemoteAddr(), err)
		return
	}
	defer serverConn.Close()
	go ssh.DiscardRequests(reqs)

	s.log.Info("session from %s", serverConn.RemoteAddr())

	for newChannel := range chans {
		if newChannel.ChannelType() != "session" {
			newChannel.Reject(ssh.UnknownChannelType, "only session channels are supported")
			continue
		}

		channel, requests, err := newChannel.Accept()
		if err != nil {
			s.log.Debug("channel accept failed: %v", err)
			continue
		}

		go acknowledgeSessionRequests(requests)
		go func() {
			defer channel.Close()
			s.handler(channel, channel)
		}()
	}
}

// acknowledgeSessionRequests accepts the requests an interactive client
// sends to set up its terminal and declines everything else.
func acknowledgeSessionRequests(requests <-chan *ssh.Request) {
	for req := range requests {
		switch req.Type {
		case "pty-req", "shell", "env", "window-change":
			if req.WantReply {
				req.Reply(true, nil)
			}
		default:
			if req.WantReply {
				req.Reply(false, nil)
			}
		}
	}
}

// LoadOrGenerateHostKey reads the host key at path, generating and
// persisting a new ed25519 key on first use.
func LoadOrGenerateHostKey(path string) (ssh.Signer, error) {
	if pemBytes, err := os.ReadFile(path); err == nil {
		signer, err := ssh.ParsePrivateKey(pemBytes)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrServe,
				"Cannot parse host key at "+path,
				"Delete the file to generate a fresh key")
		}
		return signer, nil
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrServe,
			"Cannot generate host key", "")
	}

	block, err := ssh.MarshalPrivateKey(priv, "devcon host key")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrServe,
			"Cannot encode host key", "")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrServe,
			"Cannot create host key directory "+filepath.Dir(path),
			"Check directory permissions")
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrServe,
			"Cannot write host key to "+path,
			"Check directory permissions")
	}

	return ssh.NewSignerFromKey(priv)
}
