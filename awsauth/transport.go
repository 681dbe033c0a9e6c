package awsauth

import (
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2/signer"
	requestsigner "github.com/opensearch-project/opensearch-go/v2/signer/awsv2"
	"github.com/pkg/errors"
)

// SigningTransport signs every request with AWS Signature V4 before
// handing it to Base.
type SigningTransport struct {
	Base   http.RoundTripper
	Signer signer.Signer
}

// RoundTrip implementation
func (t *SigningTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	signed := req.Clone(req.Context())
	if err := t.Signer.SignRequest(signed); err != nil {
		return nil, errors.Wrap(err, "sign request")
	}
	return t.base().RoundTrip(signed)
}

func (t *SigningTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// NewTransport wraps base with a SigV4 signer for the es service. Unsigned
// credentials get base back untouched.
func NewTransport(creds *Credentials, base http.RoundTripper) (http.RoundTripper, error) {
	if !creds.Signed() {
		return base, nil
	}
	s, err := requestsigner.NewSignerWithService(creds.Config, ServiceName)
	if err != nil {
		return nil, errors.Wrap(err, "create request signer")
	}
	return &SigningTransport{Base: base, Signer: s}, nil
}
