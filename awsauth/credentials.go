package awsauth

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/pkg/errors"
)

// Source of the AWS credentials.
type Source string

const (
	// shared credentials file, ~/.aws/credentials
	SourceFile Source = "file"

	// AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY
	SourceEnv Source = "env"

	// no signing, for local clusters
	SourceNone Source = "none"

	DefaultRegion  = "us-east-1"
	DefaultProfile = "default"

	// signing name of the Elasticsearch service
	ServiceName = "es"
)

var (
	ErrNoFileCredentials = errors.New("no AWS credentials in ~/.aws/credentials")
	ErrNoEnvCredentials  = errors.New("no AWS credentials exported to environment")
)

// ParseSource accepts file, env or none. Empty means file.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case "", SourceFile:
		return SourceFile, nil
	case SourceEnv, SourceNone:
		return Source(s), nil
	}
	return "", errors.Errorf("unknown credential source %q (file, env, none)", s)
}

type Options struct {
	Source  Source
	Profile string
	Region  string

	// Getenv reads AWS_ACCESS_KEY_ID and friends, os.Getenv when nil
	Getenv func(string) string

	// Shared config and credentials files, SDK defaults when empty
	ConfigFiles      []string
	CredentialsFiles []string
}

// Credentials resolved for one invocation.
type Credentials struct {
	Source Source
	Config aws.Config
}

// Signed reports whether requests have to be signed.
func (c *Credentials) Signed() bool {
	return c.Source != SourceNone
}

func (o Options) getenv(key string) string {
	if o.Getenv != nil {
		return o.Getenv(key)
	}
	return os.Getenv(key)
}

// Resolve loads the credentials from the configured source and fails
// when that source has none.
func Resolve(ctx context.Context, opts Options) (*Credentials, error) {
	switch opts.Source {
	case SourceNone:
		return &Credentials{
			Source: SourceNone,
			Config: aws.Config{Region: regionOr(opts.Region, DefaultRegion)},
		}, nil
	case SourceEnv:
		return resolveEnv(ctx, opts)
	case "", SourceFile:
		return resolveFile(ctx, opts)
	}
	return nil, errors.Errorf("unknown credential source %q", opts.Source)
}

func resolveEnv(ctx context.Context, opts Options) (*Credentials, error) {
	key := opts.getenv("AWS_ACCESS_KEY_ID")
	secret := opts.getenv("AWS_SECRET_ACCESS_KEY")
	if key == "" || secret == "" {
		return nil, ErrNoEnvCredentials
	}
	provider := credentials.NewStaticCredentialsProvider(key, secret,
		opts.getenv("AWS_SESSION_TOKEN"))

	cfg, err := load(ctx, opts, "", regionOr(opts.Region, DefaultRegion), provider)
	if err != nil {
		return nil, err
	}
	return &Credentials{Source: SourceEnv, Config: cfg}, nil
}

func resolveFile(ctx context.Context, opts Options) (*Credentials, error) {
	profile := opts.Profile
	if profile == "" {
		profile = DefaultProfile
	}

	shared, err := awsconfig.LoadSharedConfigProfile(ctx, profile,
		func(o *awsconfig.LoadSharedConfigOptions) {
			if len(opts.ConfigFiles) > 0 {
				o.ConfigFiles = opts.ConfigFiles
			}
			if len(opts.CredentialsFiles) > 0 {
				o.CredentialsFiles = opts.CredentialsFiles
			}
		})
	if err != nil || !shared.Credentials.HasKeys() {
		return nil, ErrNoFileCredentials
	}

	provider := credentials.StaticCredentialsProvider{Value: shared.Credentials}
	region := regionOr(regionOr(opts.Region, shared.Region), DefaultRegion)

	cfg, err := load(ctx, opts, profile, region, provider)
	if err != nil {
		return nil, err
	}
	return &Credentials{Source: SourceFile, Config: cfg}, nil
}

func load(ctx context.Context, opts Options, profile, region string,
	provider aws.CredentialsProvider) (aws.Config, error) {

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(aws.NewCredentialsCache(provider)),
	}
	if profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}
	if len(opts.ConfigFiles) > 0 {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigFiles(opts.ConfigFiles))
	}
	if len(opts.CredentialsFiles) > 0 {
		loadOpts = append(loadOpts, awsconfig.WithSharedCredentialsFiles(opts.CredentialsFiles))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "load aws config")
	}
	return cfg, nil
}

func regionOr(region, def string) string {
	if region != "" {
		return region
	}
	return def
}
