package tenant

import (
	"net"
	"strings"

	"mediastore/infrastructure/logger"
)

// Resolver maps a request host onto a tenant id. It is a pure function of its
// configuration.
type Resolver struct {
	defaultTenant string
	rootDomain    string
	domains       map[string]string
}

// NewResolver builds a resolver. domains maps custom host names to tenant ids.
func NewResolver(defaultTenant, rootDomain string, domains map[string]string) *Resolver {
	normalized := make(map[string]string, len(domains))
	for host, tenant := range domains {
		normalized[strings.ToLower(host)] = tenant
	}
	return &Resolver{
		defaultTenant: defaultTenant,
		rootDomain:    strings.ToLower(rootDomain),
		domains:       normalized,
	}
}

func (r *Resolver) Resolve(host string) string {
	host = strings.ToLower(strings.TrimSpace(stripPort(host)))
	if tenant, ok := r.domains[host]; ok {
		return tenant
	}
	if !r.isPlatformHost(host) {
		logger.GetLogger().WithField("host", host).Debug("Unknown host, using default tenant")
	}
	return r.defaultTenant
}

func (r *Resolver) isPlatformHost(host string) bool {
	switch {
	case host == "", host == "localhost", host == "127.0.0.1":
		return true
	case r.rootDomain != "" && (host == r.rootDomain || strings.HasSuffix(host, "."+r.rootDomain)):
		return true
	}
	return false
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
