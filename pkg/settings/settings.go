package settings

import (
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"software.sslmate.com/src/go-pkcs12"
)

const Extension = ".publishsettings"

var (
	ErrNotFound               = errors.New("publish settings file (.publishsettings) not found; download one with 'azpublish download-settings'")
	ErrNoSubscriptions        = errors.New("no subscriptions found in publish settings")
	ErrMultipleSubscriptions  = errors.New("multiple subscriptions found; select one with --subscription")
	ErrUnknownSubscription    = errors.New("subscription not found in publish settings")
	ErrMissingCertificate     = errors.New("subscription has no management certificate")
	ErrMissingManagementURL   = errors.New("subscription has no management URL")
	ErrUnsupportedPrivateKey  = errors.New("management certificate holds an unsupported private key")
	errMissingPublishProfiles = errors.New("no publish profiles found")
)

type Subscription struct {
	ID   string `xml:"Id,attr"`
	Name string `xml:"Name,attr"`

	// Newer settings files carry these per subscription instead of per profile.
	ServiceManagementURL  string `xml:"ServiceManagementUrl,attr"`
	ManagementCertificate string `xml:"ManagementCertificate,attr"`
}

type publishProfile struct {
	URL                   string         `xml:"Url,attr"`
	ManagementCertificate string         `xml:"ManagementCertificate,attr"`
	Subscriptions         []Subscription `xml:"Subscription"`
}

type publishData struct {
	XMLName  xml.Name         `xml:"PublishData"`
	Profiles []publishProfile `xml:"PublishProfile"`
}

// Settings is the parsed content of a publish settings file.
type Settings struct {
	Profiles []*Profile
}

// Profile is one subscription together with the endpoint and certificate to reach it.
type Profile struct {
	Endpoint     string
	Subscription Subscription
	certificate  string
}

type Credentials struct {
	Key         crypto.PrivateKey
	Certificate *x509.Certificate
	Chain       []*x509.Certificate
}

func (c *Credentials) TLSCertificate() tls.Certificate {
	chain := [][]byte{c.Certificate.Raw}
	for _, ca := range c.Chain {
		chain = append(chain, ca.Raw)
	}
	return tls.Certificate{
		Certificate: chain,
		PrivateKey:  c.Key,
		Leaf:        c.Certificate,
	}
}

// Discover returns the path of the first publish settings file in dir, in lexical order.
func Discover(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	names := make([]string, 0)
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(strings.ToLower(entry.Name()), Extension) {
			names = append(names, entry.Name())
		}
	}

	if len(names) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNotFound, dir)
	}

	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}

func Load(path string) (*Settings, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	s, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Parse(r io.Reader) (*Settings, error) {
	data := &publishData{}
	err := xml.NewDecoder(r).Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse publish settings: %w", err)
	}

	if len(data.Profiles) == 0 {
		return nil, errMissingPublishProfiles
	}

	s := &Settings{}
	for _, profile := range data.Profiles {
		for _, sub := range profile.Subscriptions {
			p := &Profile{
				Endpoint:     profile.URL,
				Subscription: sub,
				certificate:  profile.ManagementCertificate,
			}
			if len(sub.ServiceManagementURL) > 0 {
				p.Endpoint = sub.ServiceManagementURL
			}
			if len(sub.ManagementCertificate) > 0 {
				p.certificate = sub.ManagementCertificate
			}
			p.Endpoint = strings.TrimSuffix(p.Endpoint, "/")
			s.Profiles = append(s.Profiles, p)
		}
	}

	if len(s.Profiles) == 0 {
		return nil, ErrNoSubscriptions
	}

	return s, nil
}

func (s *Settings) SubscriptionIDs() []string {
	ids := make([]string, len(s.Profiles))
	for i, p := range s.Profiles {
		ids[i] = p.Subscription.ID
	}
	return ids
}

// Select returns the profile for subscriptionID. An empty ID is only accepted
// when the settings hold exactly one subscription.
func (s *Settings) Select(subscriptionID string) (*Profile, error) {
	if len(subscriptionID) == 0 {
		switch len(s.Profiles) {
		case 0:
			return nil, ErrNoSubscriptions
		case 1:
			return s.Profiles[0], nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrMultipleSubscriptions, strings.Join(s.SubscriptionIDs(), ", "))
		}
	}

	for _, p := range s.Profiles {
		if strings.EqualFold(p.Subscription.ID, subscriptionID) {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownSubscription, subscriptionID)
}

func (p *Profile) Validate() error {
	if len(p.Endpoint) == 0 {
		return ErrMissingManagementURL
	}
	if len(p.certificate) == 0 {
		return ErrMissingCertificate
	}
	return nil
}

// Credentials decodes the management certificate and its private key.
func (p *Profile) Credentials() (*Credentials, error) {
	if len(p.certificate) == 0 {
		return nil, ErrMissingCertificate
	}

	der, err := base64.StdEncoding.DecodeString(p.certificate)
	if err != nil {
		return nil, fmt.Errorf("decode management certificate: %w", err)
	}

	key, cert, chain, err := pkcs12.DecodeChain(der, "")
	if err != nil {
		return nil, fmt.Errorf("decode management certificate: %w", err)
	}

	if _, ok := key.(crypto.Decrypter); !ok {
		return nil, ErrUnsupportedPrivateKey
	}

	return &Credentials{
		Key:         key,
		Certificate: cert,
		Chain:       chain,
	}, nil
}
