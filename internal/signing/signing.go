// Package signing implements the signing gateway: a detached PKCS#7/CMS
// signature over the exact manifest bytes, produced with the pass type
// certificate and the platform intermediate in the chain.
package signing

import (
	"context"
	"crypto"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"

	"github.com/smallstep/pkcs7"
	"golang.org/x/crypto/pkcs12"
)

// Gateway produces a detached signature over manifest bytes. It satisfies
// the engine's Signer contract.
type Gateway struct {
	cert         *x509.Certificate
	key          crypto.PrivateKey
	intermediate *x509.Certificate
}

// NewGateway creates a gateway from loaded key material. The intermediate
// (the platform's WWDR certificate) is optional but required by real
// client-side verification.
func NewGateway(cert *x509.Certificate, key crypto.PrivateKey, intermediate *x509.Certificate) *Gateway {
	return &Gateway{cert: cert, key: key, intermediate: intermediate}
}

// SignManifest returns the detached DER signature over manifest. The
// digest algorithm is SHA-1 to match the bundle manifest's digest scheme.
func (g *Gateway) SignManifest(_ context.Context, manifest []byte) ([]byte, error) {
	sd, err := pkcs7.NewSignedData(manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signed data: %w", err)
	}
	sd.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA1)

	var parents []*x509.Certificate
	if g.intermediate != nil {
		parents = append(parents, g.intermediate)
	}
	if err := sd.AddSignerChain(g.cert, g.key, parents, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, fmt.Errorf("failed to add signer: %w", err)
	}

	sd.Detach()

	signature, err := sd.Finish()
	if err != nil {
		return nil, fmt.Errorf("failed to produce signature: %w", err)
	}
	return signature, nil
}

// SecretGetter is the slice of the secret store this package needs.
type SecretGetter interface {
	Get(ctx context.Context, name string) ([]byte, error)
}

// MaterialNames identifies the secrets holding the signing material.
type MaterialNames struct {
	// Cert is a base64-encoded PKCS#12 bundle, or a PEM file containing
	// the certificate and private key.
	Cert string
	// Password unlocks the PKCS#12 bundle. Ignored for PEM material.
	Password string
	// Intermediate is the PEM-encoded platform intermediate certificate.
	// Optional.
	Intermediate string
}

// LoadGateway retrieves the signing material from the secret store and
// builds a ready Gateway.
func LoadGateway(ctx context.Context, store SecretGetter, names MaterialNames) (*Gateway, error) {
	raw, err := store.Get(ctx, names.Cert)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing certificate: %w", err)
	}

	var cert *x509.Certificate
	var key crypto.PrivateKey

	if isPEM(raw) {
		cert, key, err = parsePEMMaterial(raw)
	} else {
		cert, key, err = parsePKCS12Material(ctx, store, raw, names.Password)
	}
	if err != nil {
		return nil, err
	}

	var intermediate *x509.Certificate
	if names.Intermediate != "" {
		pemBytes, err := store.Get(ctx, names.Intermediate)
		if err != nil {
			return nil, fmt.Errorf("failed to load intermediate certificate: %w", err)
		}
		intermediate, err = parsePEMCertificate(pemBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse intermediate certificate: %w", err)
		}
	}

	return NewGateway(cert, key, intermediate), nil
}

func isPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

// parsePKCS12Material decodes a base64 PKCS#12 bundle using the password
// secret.
func parsePKCS12Material(ctx context.Context, store SecretGetter, raw []byte, passwordName string) (*x509.Certificate, crypto.PrivateKey, error) {
	password := ""
	if passwordName != "" {
		pw, err := store.Get(ctx, passwordName)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load certificate password: %w", err)
		}
		password = string(pw)
	}

	der, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		// The secret may hold the raw DER directly.
		der = raw
	}

	key, cert, err := pkcs12.Decode(der, password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode PKCS#12 bundle: %w", err)
	}
	return cert, key, nil
}

// parsePEMMaterial extracts the certificate and private key from
// concatenated PEM blocks.
func parsePEMMaterial(data []byte) (*x509.Certificate, crypto.PrivateKey, error) {
	var cert *x509.Certificate
	var key crypto.PrivateKey

	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		switch block.Type {
		case "CERTIFICATE":
			c, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to parse certificate: %w", err)
			}
			if cert == nil {
				cert = c
			}
		case "PRIVATE KEY":
			k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to parse private key: %w", err)
			}
			key = k
		case "RSA PRIVATE KEY":
			k, err := x509.ParsePKCS1PrivateKey(block.Bytes)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to parse RSA private key: %w", err)
			}
			key = k
		case "EC PRIVATE KEY":
			k, err := x509.ParseECPrivateKey(block.Bytes)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to parse EC private key: %w", err)
			}
			key = k
		}
	}

	if cert == nil {
		return nil, nil, fmt.Errorf("PEM material contains no certificate")
	}
	if key == nil {
		return nil, nil, fmt.Errorf("PEM material contains no private key")
	}
	return cert, key, nil
}

func parsePEMCertificate(data []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("no certificate PEM block found")
	}
	return x509.ParseCertificate(block.Bytes)
}
