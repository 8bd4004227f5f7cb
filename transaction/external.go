package transaction

// External is the Transaction Manager's view of a remote domain reached
// through the Gateway, presented uniformly as just another XA resource
//: the TM drives it with the same
// prepare/commit/rollback messages and the Gateway is responsible for
// carrying them across the wire and re-injecting them into the remote
// TM.
type External interface {
	// Name is the resource name this external domain is registered
	// under for resource_involved tracking (e.g. "gateway:domain-b").
	Name() string
	// Send forwards a prepare/commit/rollback request across the
	// gateway connection that owns the remote domain.
	Send(req ProxyRequest) error
}

// externalResource adapts an External into something the coordinator can
// route exactly like a local ProxyPool of size one.
type externalResource struct {
	ext External
}

func newExternalResource(ext External) *externalResource {
	return &externalResource{ext: ext}
}

func (e *externalResource) dispatch(req ProxyRequest) error {
	return e.ext.Send(req)
}
