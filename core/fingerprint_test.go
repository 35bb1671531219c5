package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"collapses whitespace", "foo   bar\t\tbaz", "foo bar baz"},
		{"trims edges", "  foo bar  ", "foo bar"},
		{"collapses newlines", "foo\n\nbar", "foo bar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCode(tt.in))
		})
	}
}

func TestSASTFingerprintStableUnderFormatting(t *testing.T) {
	a := SASTFingerprint("semgrep", "sql-injection", "app.py", "query = \"SELECT * FROM x\"")
	b := SASTFingerprint("semgrep", "sql-injection", "app.py", "query   =   \"SELECT * FROM x\"")
	assert.Equal(t, a, b, "whitespace-only differences must not change the fingerprint")
}

func TestSASTFingerprintDiffersOnRule(t *testing.T) {
	a := SASTFingerprint("semgrep", "sql-injection", "app.py", "x = 1")
	b := SASTFingerprint("semgrep", "xss", "app.py", "x = 1")
	assert.NotEqual(t, a, b)
}

func TestDASTFingerprintIdentity(t *testing.T) {
	a := DASTFingerprint("nuclei", "CVE-2021-1", "example.com", "/login", "user")
	b := DASTFingerprint("nuclei", "CVE-2021-1", "example.com", "/login", "user")
	c := DASTFingerprint("nuclei", "CVE-2021-1", "example.com", "/login", "pass")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSCAFingerprintIncludesTool(t *testing.T) {
	a := SCAFingerprint("grype", "CVE-2022-1", "requests", "2.25.0")
	b := SCAFingerprint("osv", "CVE-2022-1", "requests", "2.25.0")
	assert.NotEqual(t, a, b, "two different SCA backends reporting the same CVE/package/version are distinct fingerprints")
}

func TestEntitySignatureGroupsOnCategoryToolRuleFile(t *testing.T) {
	a := EntitySignature(CategorySAST, "semgrep", "sql-injection", "app.py")
	b := EntitySignature(CategorySAST, "semgrep", "sql-injection", "app.py")
	c := EntitySignature(CategorySAST, "semgrep", "sql-injection", "other.py")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
