package credentials_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"math/big"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mozilla.org/pkcs7"
	"software.sslmate.com/src/go-pkcs12"

	"github.com/nais/azpublish/pkg/credentials"
)

func selfSigned(t *testing.T) (*rsa.PrivateKey, *x509.Certificate) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "azpublish test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	return key, cert
}

func TestDeriveRDPCredentialPackage(t *testing.T) {
	key, cert := selfSigned(t)

	pkg, err := credentials.NewDeriver().DeriveRDPCredentialPackage("admin", "s3cret", key, cert)
	require.NoError(t, err)

	assert.Equal(t, "admin", pkg.Username)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{40}$`), pkg.Thumbprint)
	assert.Equal(t, credentials.Thumbprint(cert), pkg.Thumbprint)

	t.Run("password envelope decrypts with the certificate key", func(t *testing.T) {
		envelope, err := base64.StdEncoding.DecodeString(pkg.EncryptedPassword)
		require.NoError(t, err)

		p7, err := pkcs7.Parse(envelope)
		require.NoError(t, err)

		plain, err := p7.Decrypt(cert, key)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", string(plain))
	})

	t.Run("certificate bundle holds key and certificate", func(t *testing.T) {
		decodedKey, decodedCert, err := pkcs12.Decode(pkg.Certificate, "")
		require.NoError(t, err)
		assert.Equal(t, cert.Raw, decodedCert.Raw)
		assert.True(t, key.Equal(decodedKey))
	})
}

func TestDeriveRDPCredentialPackageErrors(t *testing.T) {
	key, cert := selfSigned(t)
	deriver := credentials.NewDeriver()

	_, err := deriver.DeriveRDPCredentialPackage("", "password", key, cert)
	assert.ErrorIs(t, err, credentials.ErrMissingCredentials)

	_, err = deriver.DeriveRDPCredentialPackage("user", "", key, cert)
	assert.ErrorIs(t, err, credentials.ErrMissingCredentials)

	_, err = deriver.DeriveRDPCredentialPackage("user", "password", nil, cert)
	assert.ErrorIs(t, err, credentials.ErrMissingKey)

	_, err = deriver.DeriveRDPCredentialPackage("user", "password", key, nil)
	assert.ErrorIs(t, err, credentials.ErrMissingCertificate)
}

func TestRandomPassword(t *testing.T) {
	a := credentials.RandomPassword()
	b := credentials.RandomPassword()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
