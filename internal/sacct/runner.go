package sacct

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"slurmeff/internal/util"
)

// Runner executes the accounting command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args []string) ([]byte, error)
}

// ---------------------------------------------------------------------------
// Local execution
// ---------------------------------------------------------------------------

// LocalRunner runs the command directly on this host.
type LocalRunner struct{}

func (LocalRunner) Run(ctx context.Context, name string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s: %s: %w", name, msg, err)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// ---------------------------------------------------------------------------
// Remote execution over SSH
// ---------------------------------------------------------------------------

// SSHRunner runs the command on the cluster head node over SSH. Connection
// establishment is retried; the command itself is executed exactly once.
type SSHRunner struct {
	Host     string
	Port     int
	User     string
	KeyPath  string
	Password string
}

func (r *SSHRunner) Run(ctx context.Context, name string, args []string) ([]byte, error) {
	client, err := r.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w", r.Host, err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("ssh session: %w", err)
	}
	defer session.Close()

	out, err := session.Output(name + " " + strings.Join(args, " "))
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", name, r.Host, err)
	}
	return out, nil
}

func (r *SSHRunner) dial(ctx context.Context) (*ssh.Client, error) {
	auth, err := r.authMethods()
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            r.User,
		Auth:            auth,
		Timeout:         10 * time.Second,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	addr := fmt.Sprintf("%s:%d", r.Host, r.Port)

	var client *ssh.Client
	err = util.Retry(ctx, 3, 2*time.Second, func() error {
		var derr error
		client, derr = ssh.Dial("tcp", addr, cfg)
		return derr
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *SSHRunner) authMethods() ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if r.KeyPath != "" {
		key, err := os.ReadFile(r.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("reading ssh key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parsing ssh key: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if r.Password != "" {
		methods = append(methods, ssh.Password(r.Password))
	}
	if len(methods) == 0 {
		return nil, errors.New("ssh: no key_path or password configured")
	}
	return methods, nil
}

// ---------------------------------------------------------------------------
// Exit codes
// ---------------------------------------------------------------------------

// ExitCode surfaces the accounting command's own exit status when the error
// wraps one, otherwise 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var execErr *exec.ExitError
	if errors.As(err, &execErr) {
		return execErr.ExitCode()
	}
	var sshErr *ssh.ExitError
	if errors.As(err, &sshErr) {
		return sshErr.ExitStatus()
	}
	return 1
}
