package awsauth

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticsearchservice"
	"github.com/pkg/errors"
)

// DomainsAPI is the part of the Elasticsearch Service API used to
// discover domains.
type DomainsAPI interface {
	ListDomainNames(ctx context.Context, params *elasticsearchservice.ListDomainNamesInput,
		optFns ...func(*elasticsearchservice.Options)) (*elasticsearchservice.ListDomainNamesOutput, error)
	DescribeElasticsearchDomain(ctx context.Context, params *elasticsearchservice.DescribeElasticsearchDomainInput,
		optFns ...func(*elasticsearchservice.Options)) (*elasticsearchservice.DescribeElasticsearchDomainOutput, error)
}

type Domain struct {
	Name       string
	Endpoint   string
	Version    string
	ARN        string
	Processing bool
}

// NewDomainsClient for the region and credentials of creds.
func NewDomainsClient(creds *Credentials) DomainsAPI {
	return elasticsearchservice.NewFromConfig(creds.Config)
}

// ListDomains returns the domain names of the account, with endpoint and
// version filled in when describe is set.
func ListDomains(ctx context.Context, api DomainsAPI, describe bool) ([]Domain, error) {
	out, err := api.ListDomainNames(ctx, &elasticsearchservice.ListDomainNamesInput{})
	if err != nil {
		return nil, errors.Wrap(err, "list domain names")
	}

	domains := make([]Domain, 0, len(out.DomainNames))
	for _, info := range out.DomainNames {
		d := Domain{Name: aws.ToString(info.DomainName)}
		if describe {
			res, err := api.DescribeElasticsearchDomain(ctx,
				&elasticsearchservice.DescribeElasticsearchDomainInput{
					DomainName: info.DomainName,
				})
			if err != nil {
				return nil, errors.Wrapf(err, "describe domain %s", d.Name)
			}
			if st := res.DomainStatus; st != nil {
				d.Endpoint = aws.ToString(st.Endpoint)
				if d.Endpoint == "" {
					d.Endpoint = st.Endpoints["vpc"]
				}
				d.Version = aws.ToString(st.ElasticsearchVersion)
				d.ARN = aws.ToString(st.ARN)
				d.Processing = aws.ToBool(st.Processing)
			}
		}
		domains = append(domains, d)
	}
	return domains, nil
}

// PrintDomains writes one line per domain, with details when described.
func PrintDomains(w io.Writer, domains []Domain, describe bool) {
	names := make([]string, 0, len(domains))
	for _, d := range domains {
		names = append(names, d.Name)
	}
	fmt.Fprintln(w, "DOMAIN NAMES:", names)
	if !describe {
		return
	}
	for _, d := range domains {
		fmt.Fprintf(w, "DOMAIN: %s\n  endpoint:   %s\n  version:    %s\n  arn:        %s\n  processing: %t\n",
			d.Name, d.Endpoint, d.Version, d.ARN, d.Processing)
	}
}
