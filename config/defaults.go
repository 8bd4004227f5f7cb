package config

import "github.com/spf13/viper"

// SetDefaults configures default values for every configuration option, so
// a domain can boot from an empty casual.toml.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("domain.ipc_queue_path", "/var/run/casual/domain.ipc")
	v.SetDefault("domain.boot_deadline", "30s")
	v.SetDefault("domain.shutdown_grace", "5s")

	v.SetDefault("service.default_timeout", "60s")
	v.SetDefault("service.default_contract", "linger")

	v.SetDefault("transaction.log_path", "casual-transaction.db")
	v.SetDefault("transaction.default_timeout", "120s")

	v.SetDefault("gateway.listen", ":7771")
	v.SetDefault("gateway.supported_versions", []string{"1.0", "1.1"})

	v.SetDefault("admin.domain_addr", "127.0.0.1:8471")
	v.SetDefault("admin.service_addr", "127.0.0.1:8472")
	v.SetDefault("admin.transaction_addr", "127.0.0.1:8473")
	v.SetDefault("admin.gateway_addr", "127.0.0.1:8474")
}
