package credentials

import (
	"crypto"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mozilla.org/pkcs7"
	"software.sslmate.com/src/go-pkcs12"
)

const (
	// DefaultUsername is used when remote desktop is disabled. The platform requires
	// remote access settings on every deployment, enabled or not.
	DefaultUsername = "cloud9"

	// Exported certificates carry no password.
	exportPassword = ""
)

var (
	ErrMissingKey         = errors.New("private key is required")
	ErrMissingCertificate = errors.New("certificate is required")
	ErrMissingCredentials = errors.New("remote desktop username and password are required")
)

// Package holds what a deployment needs to enable remote desktop with the given
// credentials on its role instances.
type Package struct {
	Username string
	// EncryptedPassword is the base64 encoded CMS envelope of the password,
	// readable only by the holder of the certificate's private key.
	EncryptedPassword string
	// Certificate is the PKCS#12 bundle of the certificate and private key,
	// to be uploaded to the hosted service.
	Certificate []byte
	// Thumbprint is the upper-case hex SHA-1 fingerprint of the certificate.
	Thumbprint string
}

type Deriver interface {
	DeriveRDPCredentialPackage(username, password string, key crypto.PrivateKey, cert *x509.Certificate) (*Package, error)
}

type deriver struct{}

func NewDeriver() Deriver {
	return &deriver{}
}

func init() {
	pkcs7.ContentEncryptionAlgorithm = pkcs7.EncryptionAlgorithmAES256CBC
}

func (d *deriver) DeriveRDPCredentialPackage(username, password string, key crypto.PrivateKey, cert *x509.Certificate) (*Package, error) {
	switch {
	case len(username) == 0 || len(password) == 0:
		return nil, ErrMissingCredentials
	case key == nil:
		return nil, ErrMissingKey
	case cert == nil:
		return nil, ErrMissingCertificate
	}

	envelope, err := pkcs7.Encrypt([]byte(password), []*x509.Certificate{cert})
	if err != nil {
		return nil, fmt.Errorf("encrypt remote desktop password: %w", err)
	}

	bundle, err := pkcs12.LegacyDES.Encode(key, cert, nil, exportPassword)
	if err != nil {
		return nil, fmt.Errorf("export remote desktop certificate: %w", err)
	}

	return &Package{
		Username:          username,
		EncryptedPassword: base64.StdEncoding.EncodeToString(envelope),
		Certificate:       bundle,
		Thumbprint:        Thumbprint(cert),
	}, nil
}

func Thumbprint(cert *x509.Certificate) string {
	sum := sha1.Sum(cert.Raw)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// RandomPassword returns a throwaway password for deployments without remote desktop.
func RandomPassword() string {
	return uuid.NewString()[10:]
}
