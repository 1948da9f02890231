package certs

import (
	"crypto/tls"
	"strings"
	"testing"
	"time"
)

func TestValidateCertificate(t *testing.T) {
	valid := testCert(t, 90*24*time.Hour, "luciuz.test")

	expiredPEM, expiredKey, err := GenerateSelfSigned(SelfSignedOptions{
		Hosts:     []string{"luciuz.test"},
		NotBefore: time.Now().Add(-48 * time.Hour),
		ValidFor:  24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("GenerateSelfSigned() error = %v", err)
	}
	expired, err := tls.X509KeyPair(expiredPEM, expiredKey)
	if err != nil {
		t.Fatalf("X509KeyPair() error = %v", err)
	}

	tests := []struct {
		name        string
		cert        *tls.Certificate
		expectError bool
	}{
		{name: "valid certificate", cert: valid},
		{name: "nil certificate", cert: nil, expectError: true},
		{name: "empty chain", cert: &tls.Certificate{}, expectError: true},
		{name: "expired certificate", cert: &expired, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCertificate(tt.cert)
			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckCertificateExpiration(t *testing.T) {
	long, err := Leaf(testCert(t, 90*24*time.Hour, "luciuz.test"))
	if err != nil {
		t.Fatal(err)
	}
	days, warning := CheckCertificateExpiration(long)
	if days < 88 || days > 90 {
		t.Errorf("days = %d, want about 89", days)
	}
	if warning != "" {
		t.Errorf("unexpected warning %q", warning)
	}

	short, err := Leaf(testCert(t, 10*24*time.Hour, "luciuz.test"))
	if err != nil {
		t.Fatal(err)
	}
	if _, warning := CheckCertificateExpiration(short); !strings.Contains(warning, "expires in") {
		t.Errorf("expected expiry warning, got %q", warning)
	}
}

func TestExtractCertificateInfo(t *testing.T) {
	certPEM, _ := testPair(t, 24*time.Hour, "luciuz.test", "127.0.0.1")
	leaf, err := ParseCertificatePEM(certPEM)
	if err != nil {
		t.Fatalf("ParseCertificatePEM() error = %v", err)
	}

	info := ExtractCertificateInfo(leaf)
	if !strings.Contains(info.Subject, "luciuz.test") {
		t.Errorf("Subject = %q", info.Subject)
	}
	if len(info.DNSNames) != 1 || info.DNSNames[0] != "luciuz.test" {
		t.Errorf("DNSNames = %v", info.DNSNames)
	}
	if len(info.IPAddresses) != 1 || info.IPAddresses[0] != "127.0.0.1" {
		t.Errorf("IPAddresses = %v", info.IPAddresses)
	}
	if info.PublicKeyAlgorithm != "ECDSA" {
		t.Errorf("PublicKeyAlgorithm = %q", info.PublicKeyAlgorithm)
	}
}

func TestParseCertificatePEM_NoBlock(t *testing.T) {
	if _, err := ParseCertificatePEM([]byte("not pem")); err == nil {
		t.Error("expected error")
	}
	_, keyPEM := testPair(t, time.Hour, "luciuz.test")
	if _, err := ParseCertificatePEM(keyPEM); err == nil {
		t.Error("expected error for a key-only PEM")
	}
}

func TestGenerateSelfSigned_RequiresHost(t *testing.T) {
	if _, _, err := GenerateSelfSigned(SelfSignedOptions{}); err == nil {
		t.Error("expected error without hosts")
	}
}
