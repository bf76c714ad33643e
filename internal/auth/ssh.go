package auth

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHClient is an SSH connection used to tunnel database traffic.
type SSHClient struct {
	client   *ssh.Client
	hostname string
	username string
}

// SSHConfig represents SSH connection configuration
type SSHConfig struct {
	Hostname           string
	Username           string
	Port               string
	KeyPath            string
	UseAgent           bool
	Timeout            time.Duration
	KeepAlive          time.Duration
	DisableDefaultKeys bool

	// KnownHostsPath is checked for the host key when the file exists.
	KnownHostsPath string
}

func (c *SSHConfig) applyDefaults() {
	if c.Port == "" {
		c.Port = "22"
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.KeepAlive == 0 {
		c.KeepAlive = 30 * time.Second
	}
	if c.KnownHostsPath == "" {
		c.KnownHostsPath = filepath.Join(os.Getenv("HOME"), ".ssh", "known_hosts")
	}
}

// hostKeyCallback verifies against a known_hosts file. Without one, any
// host key is accepted.
func hostKeyCallback(path string) (ssh.HostKeyCallback, error) {
	if _, err := os.Stat(path); err != nil {
		return ssh.InsecureIgnoreHostKey(), nil
	}

	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts from %s: %w", path, err)
	}
	return callback, nil
}

// authMethods collects agent, explicit key, and default key auth, in
// that order.
func (c SSHConfig) authMethods() []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if c.UseAgent {
		if agentAuth, err := getSSHAgent(); err == nil {
			methods = append(methods, agentAuth)
		}
	}

	if c.KeyPath != "" {
		if keyAuth, err := getPublicKeyAuth(c.KeyPath); err == nil {
			methods = append(methods, keyAuth)
		}
	}

	if !c.DisableDefaultKeys {
		for _, keyPath := range defaultKeyPaths() {
			if c.KeyPath != "" && filepath.Clean(keyPath) == filepath.Clean(c.KeyPath) {
				continue // already added explicitly
			}
			if _, err := os.Stat(keyPath); err == nil {
				if keyAuth, err := getPublicKeyAuth(keyPath); err == nil {
					methods = append(methods, keyAuth)
				}
			}
		}
	}

	return methods
}

func defaultKeyPaths() []string {
	home := os.Getenv("HOME")
	return []string{
		filepath.Join(home, ".ssh", "id_rsa"),
		filepath.Join(home, ".ssh", "id_ed25519"),
		filepath.Join(home, ".ssh", "id_ecdsa"),
	}
}

// NewSSHClient connects to the jump host and keeps the session alive
// until Close.
func NewSSHClient(config SSHConfig) (*SSHClient, error) {
	config.applyDefaults()

	authMethods := config.authMethods()
	if len(authMethods) == 0 {
		return nil, fmt.Errorf("no valid authentication methods found")
	}

	hostKeys, err := hostKeyCallback(config.KnownHostsPath)
	if err != nil {
		return nil, err
	}

	sshConfig := &ssh.ClientConfig{
		User:            config.Username,
		Auth:            authMethods,
		HostKeyCallback: hostKeys,
		Timeout:         config.Timeout,
	}

	address := net.JoinHostPort(config.Hostname, config.Port)
	client, err := ssh.Dial("tcp", address, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	go func() {
		ticker := time.NewTicker(config.KeepAlive)
		defer ticker.Stop()
		for range ticker.C {
			_, _, err := client.SendRequest("keepalive@openssh.com", true, nil)
			if err != nil {
				return
			}
		}
	}()

	return &SSHClient{
		client:   client,
		hostname: config.Hostname,
		username: config.Username,
	}, nil
}

// getSSHAgent returns SSH agent authentication method
func getSSHAgent() (ssh.AuthMethod, error) {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil, fmt.Errorf("SSH_AUTH_SOCK not set")
	}

	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SSH agent: %w", err)
	}

	agentClient := agent.NewClient(conn)
	return ssh.PublicKeysCallback(agentClient.Signers), nil
}

// getPublicKeyAuth returns public key authentication method
func getPublicKeyAuth(keyPath string) (ssh.AuthMethod, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return ssh.PublicKeys(signer), nil
}

// DialContext opens a connection to addr as seen from the jump host.
// addr is resolved remotely, so "127.0.0.1:3306" reaches a database
// bound to the jump host's loopback.
func (c *SSHClient) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if c.client == nil {
		return nil, fmt.Errorf("ssh client is not connected")
	}
	conn, err := c.client.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s via %s: %w", addr, c.hostname, err)
	}
	return conn, nil
}

// Close closes the SSH connection
func (c *SSHClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// GetHostname returns the hostname of the connection
func (c *SSHClient) GetHostname() string {
	return c.hostname
}

// GetUsername returns the username of the connection
func (c *SSHClient) GetUsername() string {
	return c.username
}
