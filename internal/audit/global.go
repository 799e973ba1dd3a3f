package audit

import "sync"

// The package-level writer backs the Log* helpers. It defaults to a
// NopWriter so callers never need to check whether auditing is enabled.
var (
	globalMu     sync.Mutex
	globalWriter Writer = NopWriter{}
)

// InitFile routes audit events to a hash-chained JSONL file.
func InitFile(path string) error {
	w, err := NewFileWriter(path)
	if err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalWriter = w
	return nil
}

// Close closes the active writer and reverts to the no-op writer.
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	err := globalWriter.Close()
	globalWriter = NopWriter{}
	return err
}

func write(event *Event) error {
	globalMu.Lock()
	w := globalWriter
	globalMu.Unlock()
	return w.Write(event)
}

func result(ok bool) Result {
	if ok {
		return ResultSuccess
	}
	return ResultFailure
}

// LogKeyGenerated records a key pair generation.
func LogKeyGenerated(domain, role, algorithm string, ok bool) error {
	return write(NewEvent(EventKeyGenerated, result(ok)).
		WithObject(Object{Type: "key"}).
		WithContext(Context{Domain: domain, Role: role, Algorithm: algorithm}))
}

// LogCertIssued records a certificate issuance.
func LogCertIssued(domain, role, serial, subject, algorithm string, ok bool) error {
	return write(NewEvent(EventCertIssued, result(ok)).
		WithObject(Object{Type: "certificate", Serial: serial, Subject: subject}).
		WithContext(Context{Domain: domain, Role: role, Algorithm: algorithm}))
}

// LogCSRCreated records a certificate signing request creation.
func LogCSRCreated(domain, role string, ok bool) error {
	return write(NewEvent(EventCSRCreated, result(ok)).
		WithObject(Object{Type: "csr"}).
		WithContext(Context{Domain: domain, Role: role}))
}

// LogChainAssembled records an assembled chain bundle.
func LogChainAssembled(domain, leaf, path string, ok bool) error {
	return write(NewEvent(EventChainAssembled, result(ok)).
		WithObject(Object{Type: "chain", Path: path}).
		WithContext(Context{Domain: domain, Role: leaf}))
}

// LogChainVerified records the outcome of a chain verification.
func LogChainVerified(domain, leaf string, ok bool, reason string) error {
	return write(NewEvent(EventChainVerified, result(ok)).
		WithObject(Object{Type: "chain"}).
		WithContext(Context{Domain: domain, Role: leaf, Reason: reason}))
}
