// Package hostenv probes the machine the pipeline runs on.
//
// The probe runs exactly once at startup and the resulting Host value is
// passed to whatever needs it, instead of modules reading PATH and
// environment variables ambiently mid-run.
package hostenv

import (
	"context"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
)

// Host is the resolved picture of the execution environment.
type Host struct {
	// HasConda reports whether a conda executable is on the search path.
	// It selects the local install branch of create_environment.
	HasConda bool

	// OnHPC reports whether the machine looks like a cluster login or
	// compute node. The heuristic is a "scratch" directory in the user's
	// home, which shared clusters provision and workstations do not.
	OnHPC bool

	// VirtualEnv is the value of $VIRTUAL_ENV, empty when no virtual
	// environment is active.
	VirtualEnv string

	// Home is the user's home directory, empty when it cannot be
	// resolved. Environment setup creates its virtualenv beneath it.
	Home string

	// FQDN is the machine's fully-qualified domain name, used to bind
	// the generated notebook helper to a reachable address.
	FQDN string
}

// Probe holds the lookups Detect performs, replaceable in tests.
type Probe struct {
	LookPath func(file string) (string, error)
	Getenv   func(key string) string
	UserHome func() (string, error)
	Stat     func(name string) (os.FileInfo, error)
	Hostname func() (string, error)
	LookupIP func(host string) ([]net.IP, error)
}

// NewProbe returns a Probe wired to the real host.
func NewProbe() *Probe {
	return &Probe{
		LookPath: exec.LookPath,
		Getenv:   os.Getenv,
		UserHome: os.UserHomeDir,
		Stat:     os.Stat,
		Hostname: os.Hostname,
		LookupIP: net.LookupIP,
	}
}

// Detect resolves the Host once. It never fails: anything that cannot be
// determined degrades to its zero value, which downstream code treats as
// "feature absent".
func (p *Probe) Detect(ctx context.Context) Host {
	logger := ctxlog.FromContext(ctx)

	h := Host{
		VirtualEnv: p.Getenv("VIRTUAL_ENV"),
	}

	if _, err := p.LookPath("conda"); err == nil {
		h.HasConda = true
	}

	if home, err := p.UserHome(); err == nil {
		h.Home = home
		if info, err := p.Stat(filepath.Join(home, "scratch")); err == nil && info.IsDir() {
			h.OnHPC = true
		}
	}

	h.FQDN = p.fqdn()

	logger.Debug("Host environment detected.",
		"hasConda", h.HasConda,
		"onHPC", h.OnHPC,
		"virtualEnv", h.VirtualEnv,
		"fqdn", h.FQDN,
	)
	return h
}

// fqdn approximates `hostname -f`: if the kernel hostname is already
// qualified it is used as-is, otherwise a forward-then-reverse DNS lookup
// is attempted, falling back to the short name.
func (p *Probe) fqdn() string {
	name, err := p.Hostname()
	if err != nil {
		return "localhost"
	}
	if strings.Contains(name, ".") {
		return name
	}

	ips, err := p.LookupIP(name)
	if err != nil || len(ips) == 0 {
		return name
	}
	hosts, err := net.LookupAddr(ips[0].String())
	if err != nil || len(hosts) == 0 {
		return name
	}
	return strings.TrimSuffix(hosts[0], ".")
}
