package domain

import "github.com/google/uuid"

// Well-known singleton identities. Exactly
// one process per identity may be registered with a domain at a time.
var (
	IdentityServiceManager     = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	IdentityTransactionManager = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	IdentityQueueManager       = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	IdentityGatewayManager     = uuid.MustParse("00000000-0000-0000-0000-000000000004")
	IdentityForwardCache       = uuid.MustParse("00000000-0000-0000-0000-000000000005")
)

// singletonEnvVar maps a well-known identity to the environment variable
// exported to children once that identity is registered, so children can
// locate singletons without repeated lookups against the domain manager.
var singletonEnvVar = map[uuid.UUID]string{
	IdentityServiceManager:     "CASUAL_SERVICE_MANAGER_IPC",
	IdentityTransactionManager: "CASUAL_TRANSACTION_MANAGER_IPC",
	IdentityQueueManager:       "CASUAL_QUEUE_MANAGER_IPC",
	IdentityGatewayManager:     "CASUAL_GATEWAY_MANAGER_IPC",
	IdentityForwardCache:       "CASUAL_FORWARD_CACHE_IPC",
}

// EnvVarForIdentity reports the environment variable name exported on
// singleton registration for identity, if any.
func EnvVarForIdentity(identity uuid.UUID) (string, bool) {
	v, ok := singletonEnvVar[identity]
	return v, ok
}
