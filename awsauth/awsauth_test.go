package awsauth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/elasticsearchservice"
	"github.com/aws/aws-sdk-go-v2/service/elasticsearchservice/types"
	"github.com/magiconair/properties/assert"
)

func getenv(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

// isolated shared config files so the host machine profile never leaks in
func sharedFiles(t *testing.T, credentialsBody string) Options {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config")
	cred := filepath.Join(dir, "credentials")
	if err := os.WriteFile(cfg, []byte(""), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cred, []byte(credentialsBody), 0o600); err != nil {
		t.Fatal(err)
	}
	return Options{ConfigFiles: []string{cfg}, CredentialsFiles: []string{cred}}
}

func TestParseSource(t *testing.T) {
	for in, want := range map[string]Source{"": SourceFile, "file": SourceFile,
		"env": SourceEnv, "none": SourceNone} {
		got, err := ParseSource(in)
		assert.Equal(t, err, nil)
		assert.Equal(t, got, want)
	}
	if _, err := ParseSource("boto"); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestResolveEnv(t *testing.T) {
	opts := sharedFiles(t, "")
	opts.Source = SourceEnv
	opts.Getenv = getenv(map[string]string{
		"AWS_ACCESS_KEY_ID":     "AKID",
		"AWS_SECRET_ACCESS_KEY": "SECRET",
	})

	creds, err := Resolve(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, creds.Source, SourceEnv)
	assert.Equal(t, creds.Config.Region, DefaultRegion)

	v, err := creds.Config.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, v.AccessKeyID, "AKID")
	assert.Equal(t, v.SecretAccessKey, "SECRET")
}

func TestResolveEnvMissing(t *testing.T) {
	opts := sharedFiles(t, "")
	opts.Source = SourceEnv
	opts.Getenv = getenv(map[string]string{"AWS_ACCESS_KEY_ID": "AKID"})

	_, err := Resolve(context.Background(), opts)
	assert.Equal(t, err, ErrNoEnvCredentials)
}

func TestResolveFile(t *testing.T) {
	opts := sharedFiles(t, "[search]\n"+
		"aws_access_key_id = FILEKEY\n"+
		"aws_secret_access_key = FILESECRET\n")
	opts.Source = SourceFile
	opts.Profile = "search"
	opts.Region = "eu-west-1"

	creds, err := Resolve(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, creds.Config.Region, "eu-west-1")
	v, err := creds.Config.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, v.AccessKeyID, "FILEKEY")
}

func TestResolveFileMissing(t *testing.T) {
	opts := sharedFiles(t, "")
	opts.Source = SourceFile

	_, err := Resolve(context.Background(), opts)
	assert.Equal(t, err, ErrNoFileCredentials)
}

func TestResolveNone(t *testing.T) {
	creds, err := Resolve(context.Background(), Options{Source: SourceNone})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, creds.Signed(), false)

	base := http.DefaultTransport
	tr, err := NewTransport(creds, base)
	assert.Equal(t, err, nil)
	assert.Equal(t, tr, base)
}

type headerSigner struct{ calls int }

func (s *headerSigner) SignRequest(r *http.Request) error {
	s.calls++
	r.Header.Set("Authorization", "signed")
	return nil
}

func TestSigningTransport(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	s := &headerSigner{}
	client := &http.Client{Transport: &SigningTransport{Signer: s}}
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	res, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()

	assert.Equal(t, got, "signed")
	assert.Equal(t, s.calls, 1)
	assert.Equal(t, req.Header.Get("Authorization"), "", "original request untouched")
}

func TestSigV4Transport(t *testing.T) {
	var auth, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
	}))
	defer srv.Close()

	creds := &Credentials{
		Source: SourceEnv,
		Config: aws.Config{
			Region:      "us-east-1",
			Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		},
	}
	tr, err := NewTransport(creds, nil)
	if err != nil {
		t.Fatal(err)
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/bot2/_search",
		strings.NewReader(`{"query":{"match_all":{}}}`))
	res, err := (&http.Client{Transport: tr}).Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()

	assert.Equal(t, strings.HasPrefix(auth, "AWS4-HMAC-SHA256 Credential=AKID/"), true, auth)
	assert.Equal(t, strings.Contains(auth, "/us-east-1/es/aws4_request"), true, auth)
	assert.Equal(t, body, `{"query":{"match_all":{}}}`, "body survives hashing")
}

type fakeDomains struct {
	names    []string
	describe map[string]types.ElasticsearchDomainStatus
}

func (f *fakeDomains) ListDomainNames(ctx context.Context, params *elasticsearchservice.ListDomainNamesInput,
	optFns ...func(*elasticsearchservice.Options)) (*elasticsearchservice.ListDomainNamesOutput, error) {

	out := &elasticsearchservice.ListDomainNamesOutput{}
	for _, n := range f.names {
		out.DomainNames = append(out.DomainNames, types.DomainInfo{DomainName: aws.String(n)})
	}
	return out, nil
}

func (f *fakeDomains) DescribeElasticsearchDomain(ctx context.Context, params *elasticsearchservice.DescribeElasticsearchDomainInput,
	optFns ...func(*elasticsearchservice.Options)) (*elasticsearchservice.DescribeElasticsearchDomainOutput, error) {

	st := f.describe[aws.ToString(params.DomainName)]
	return &elasticsearchservice.DescribeElasticsearchDomainOutput{DomainStatus: &st}, nil
}

func TestListDomains(t *testing.T) {
	api := &fakeDomains{
		names: []string{"kb-prod", "kb-vpc"},
		describe: map[string]types.ElasticsearchDomainStatus{
			"kb-prod": {
				Endpoint:             aws.String("search-kb-prod.us-east-1.es.amazonaws.com"),
				ElasticsearchVersion: aws.String("7.10"),
				ARN:                  aws.String("arn:aws:es:us-east-1:1:domain/kb-prod"),
			},
			"kb-vpc": {
				Endpoints:  map[string]string{"vpc": "vpc-kb.us-east-1.es.amazonaws.com"},
				Processing: aws.Bool(true),
			},
		},
	}

	domains, err := ListDomains(context.Background(), api, false)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(domains), 2)
	assert.Equal(t, domains[0].Endpoint, "")

	domains, err = ListDomains(context.Background(), api, true)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, domains[0].Version, "7.10")
	assert.Equal(t, domains[1].Endpoint, "vpc-kb.us-east-1.es.amazonaws.com")
	assert.Equal(t, domains[1].Processing, true)

	var b strings.Builder
	PrintDomains(&b, domains, false)
	assert.Equal(t, b.String(), "DOMAIN NAMES: [kb-prod kb-vpc]\n")
}
