package config

import (
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/magiconair/properties"
	"github.com/pkg/errors"
)

const (
	// Hostname of the Elasticsearch domain
	HostKey = "AWS_ELASTICSEARCH_HOST"

	// Region of the domain, AltRegionKey is checked when unset
	RegionKey    = "AWS_DEFAULT_REGION"
	AltRegionKey = "AWS_REGION"

	// Profile of the shared credentials file
	ProfileKey = "AWS_PROFILE"

	// Credential source: file, env or none
	CredentialsKey = "KBSEARCH_CREDENTIALS"

	// Static credentials
	AccessKeyKey    = "AWS_ACCESS_KEY_ID"
	SecretKeyKey    = "AWS_SECRET_ACCESS_KEY"
	SessionTokenKey = "AWS_SESSION_TOKEN"

	DefaultPropertiesFile = ".kbsearch.properties"
	DefaultDotenvFile     = ".env"
	DefaultLocalURL       = "http://localhost:9200"
)

// Source looks keys up in the process environment, then in the
// properties file, then in the .env file.
type Source struct {
	lookup func(string) (string, bool)
	props  *properties.Properties
	dotenv map[string]string
}

// DefaultPropertiesPath is ~/.kbsearch.properties, or "" when the home
// directory is unknown.
func DefaultPropertiesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultPropertiesFile)
}

// Load reads the properties and .env files. A missing file is an error
// only when required is set.
func Load(propsPath, dotenvPath string, required bool) (*Source, error) {
	s := &Source{
		lookup: os.LookupEnv,
		props:  properties.NewProperties(),
		dotenv: map[string]string{},
	}

	if propsPath != "" {
		if _, err := os.Stat(propsPath); err == nil || required {
			p, err := properties.LoadFile(propsPath, properties.UTF8)
			if err != nil {
				return nil, errors.Wrapf(err, "load properties %s", propsPath)
			}
			s.props = p
		}
	}

	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			env, err := godotenv.Read(dotenvPath)
			if err != nil {
				return nil, errors.Wrapf(err, "load %s", dotenvPath)
			}
			s.dotenv = env
		}
	}

	return s, nil
}

// NewSource builds a Source from explicit layers, nil layers are empty.
func NewSource(lookup func(string) (string, bool), props map[string]string,
	dotenv map[string]string) *Source {

	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	if dotenv == nil {
		dotenv = map[string]string{}
	}
	return &Source{
		lookup: lookup,
		props:  properties.LoadMap(props),
		dotenv: dotenv,
	}
}

// Get returns the first non empty value for key.
func (s *Source) Get(key string) string {
	if v, ok := s.lookup(key); ok && v != "" {
		return v
	}
	if v, ok := s.props.Get(key); ok && v != "" {
		return v
	}
	return s.dotenv[key]
}

// GetDefault is Get with a fallback.
func (s *Source) GetDefault(key, def string) string {
	if v := s.Get(key); v != "" {
		return v
	}
	return def
}

// Region from AWS_DEFAULT_REGION, then AWS_REGION. Empty when neither is set.
func (s *Source) Region() string {
	if v := s.Get(RegionKey); v != "" {
		return v
	}
	return s.Get(AltRegionKey)
}

// Endpoint turns a domain hostname into a client URL. A bare hostname is
// reached over https on port 443; a value with a scheme is kept as is.
// Unsigned clients without a host fall back to a local cluster.
func Endpoint(host string, local bool) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		if local {
			return DefaultLocalURL, nil
		}
		return "", errors.Errorf("%s is not set", HostKey)
	}
	if strings.Contains(host, "://") {
		return strings.TrimRight(host, "/"), nil
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return "https://" + host, nil
	}
	return "https://" + net.JoinHostPort(host, "443"), nil
}
