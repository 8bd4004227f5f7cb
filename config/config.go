// Package config loads the casual domain configuration: the boot graph,
// per-service defaults, gateway connection definitions, and queue
// definitions that drive the Domain Manager, Service Manager, Gateway and
// Queue Group. Loading goes through Viper + TOML + mapstructure, with env
// override and fsnotify hot-reload, rather than hand-rolling a flag/ini
// parser.
package config

import "time"

// Config is the root configuration for a domain.
type Config struct {
	Domain      DomainConfig      `mapstructure:"domain"`
	Service     ServiceConfig     `mapstructure:"service"`
	Transaction TransactionConfig `mapstructure:"transaction"`
	Gateway     GatewayConfig     `mapstructure:"gateway"`
	Queue       []QueueConfig     `mapstructure:"queue"`
	Admin       AdminConfig       `mapstructure:"admin"`
}

// AdminConfig addresses the per-manager admin control-plane endpoints
// that the casual CLI dials: each manager exposes
// its state/mutation surface over the same JSON-over-gRPC substitution
// the gateway uses for its own admin queries.
type AdminConfig struct {
	DomainAddr      string `mapstructure:"domain_addr"`
	ServiceAddr     string `mapstructure:"service_addr"`
	TransactionAddr string `mapstructure:"transaction_addr"`
	GatewayAddr     string `mapstructure:"gateway_addr"`
}

// DomainConfig describes the boot graph.
type DomainConfig struct {
	IPCQueuePath string        `mapstructure:"ipc_queue_path"`
	Groups       []GroupConfig `mapstructure:"groups"`
	BootDeadline time.Duration `mapstructure:"boot_deadline"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

// GroupConfig is one node in the boot dependency DAG.
type GroupConfig struct {
	Name       string       `mapstructure:"name"`
	DependsOn  []string     `mapstructure:"depends_on"`
	Executables []ExecConfig `mapstructure:"executables"`
}

// ExecConfig is one spawnable member of a boot group.
type ExecConfig struct {
	Alias           string   `mapstructure:"alias"`
	Path            string   `mapstructure:"path"`
	Args            []string `mapstructure:"args"`
	TargetInstances int      `mapstructure:"target_instances"`
	Restart         bool     `mapstructure:"restart"`
}

// ServiceConfig holds defaults applied to advertised services absent an
// explicit override.
type ServiceConfig struct {
	DefaultTimeout  time.Duration `mapstructure:"default_timeout"`
	DefaultContract string        `mapstructure:"default_contract"` // "linger" | "kill"
}

// TransactionConfig configures the Transaction Manager's persistent log
// and resource proxy pools.
type TransactionConfig struct {
	LogPath        string               `mapstructure:"log_path"`
	DefaultTimeout time.Duration        `mapstructure:"default_timeout"`
	Resources      []ResourceProxyConfig `mapstructure:"resources"`
}

// ResourceProxyConfig configures one XA resource's proxy pool.
type ResourceProxyConfig struct {
	Name      string `mapstructure:"name"`
	ProxyPath string `mapstructure:"proxy_path"`
	Proxies   int    `mapstructure:"proxies"`
}

// GatewayConfig configures outbound/inbound connection groups.
type GatewayConfig struct {
	DomainID           string               `mapstructure:"domain_id"`
	Listen             string               `mapstructure:"listen"`
	SupportedVersions  []string             `mapstructure:"supported_versions"`
	Outbound           []OutboundGroupConfig `mapstructure:"outbound"`
}

// OutboundGroupConfig is one priority band of outbound connections.
type OutboundGroupConfig struct {
	Name         string              `mapstructure:"name"`
	Order        int                 `mapstructure:"order"`
	Connections  []ConnectionConfig  `mapstructure:"connections"`
}

// ConnectionConfig is one outbound (or reverse-outbound) connection.
type ConnectionConfig struct {
	Address           string        `mapstructure:"address"`
	Reverse           bool          `mapstructure:"reverse"`
	Services          []string      `mapstructure:"services"`
	Queues            []string      `mapstructure:"queues"`
	Reconnect         bool          `mapstructure:"reconnect"`
	ReconnectMinDelay time.Duration `mapstructure:"reconnect_min_delay"`
	ReconnectMaxDelay time.Duration `mapstructure:"reconnect_max_delay"`
}

// QueueConfig describes one durable queue.
type QueueConfig struct {
	Name          string        `mapstructure:"name"`
	StorePath     string        `mapstructure:"store_path"`
	RetryCount    int           `mapstructure:"retry_count"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	ForwardTo     string        `mapstructure:"forward_to_service"`
	ReplyQueue    string        `mapstructure:"reply_queue"`
}
