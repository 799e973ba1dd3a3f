package chain

import "fmt"

// InputError reports a missing or malformed domain argument.
// No artifacts are produced when an InputError is returned.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string {
	return e.Msg
}

// CryptoProviderError reports a failure from the underlying cryptography
// provider (key generation, signing, digesting). It aborts the remaining
// issuance steps, since later certificates depend on earlier ones.
type CryptoProviderError struct {
	Op  string
	Err error
}

func (e *CryptoProviderError) Error() string {
	return fmt.Sprintf("crypto provider: failed to %s: %v", e.Op, e.Err)
}

func (e *CryptoProviderError) Unwrap() error {
	return e.Err
}

// DNEncodingError reports a distinguished name attribute that cannot be
// encoded. Structured DN construction makes this unreachable for well-formed
// thumbprints; it exists so a failure is precise rather than silent.
type DNEncodingError struct {
	Attribute string
	Err       error
}

func (e *DNEncodingError) Error() string {
	return fmt.Sprintf("cannot encode DN attribute %s: %v", e.Attribute, e.Err)
}

func (e *DNEncodingError) Unwrap() error {
	return e.Err
}

// IssuanceError reports a certificate that could not be issued.
type IssuanceError struct {
	Role   Role
	Reason string
	Err    error
}

func (e *IssuanceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("issuance failed for %s certificate: %s: %v", e.Role, e.Reason, e.Err)
	}
	return fmt.Sprintf("issuance failed for %s certificate: %s", e.Role, e.Reason)
}

func (e *IssuanceError) Unwrap() error {
	return e.Err
}

// VerificationError reports a certificate that failed chain validation.
// The failing certificate is identified by role and subject so a broken
// link is never passed over silently.
type VerificationError struct {
	Role    Role
	Subject string
	Err     error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification failed for %s certificate %q: %v", e.Role, e.Subject, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}
