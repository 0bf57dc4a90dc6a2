package otp

import (
	"testing"
	"time"

	libOTP "github.com/pquerna/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rfcSecret is the RFC 6238 reference seed ("12345678901234567890") in base32.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestTOTPValidate(t *testing.T) {
	tp := NewTOTP(30, 1, libOTP.DigitsSix, "SHA1")
	at := time.Unix(59, 0).UTC()

	t.Run("AcceptsReferenceVector", func(t *testing.T) {
		// RFC 6238 Appendix B: T=59, SHA-1 → 94287082; six digits → 287082.
		assert.True(t, tp.Validate("287082", rfcSecret, at))
	})

	t.Run("AcceptsCommonDemoSecret", func(t *testing.T) {
		const secret = "JBSWY3DPEHPK3PXP"

		code, err := tp.GenerateCode(secret, at)
		require.NoError(t, err)

		assert.True(t, tp.Validate(code, secret, at))
		assert.False(t, tp.Validate(code, rfcSecret, at))
	})

	t.Run("AcceptsAdjacentSteps", func(t *testing.T) {
		previous, err := tp.GenerateCode(rfcSecret, at.Add(-30*time.Second))
		require.NoError(t, err)
		next, err := tp.GenerateCode(rfcSecret, at.Add(30*time.Second))
		require.NoError(t, err)

		assert.True(t, tp.Validate(previous, rfcSecret, at))
		assert.True(t, tp.Validate(next, rfcSecret, at))
	})

	t.Run("RejectsBeyondWindow", func(t *testing.T) {
		stale, err := tp.GenerateCode(rfcSecret, at.Add(-120*time.Second))
		require.NoError(t, err)

		assert.False(t, tp.Validate(stale, rfcSecret, at))
	})

	t.Run("RejectsWrongCode", func(t *testing.T) {
		assert.False(t, tp.Validate("000000", rfcSecret, at))
	})

	t.Run("RejectsMalformedCode", func(t *testing.T) {
		assert.False(t, tp.Validate("28708", rfcSecret, at))
		assert.False(t, tp.Validate("abcdef", rfcSecret, at))
		assert.False(t, tp.Validate("", rfcSecret, at))
	})
}

func TestTOTPGenerateCode(t *testing.T) {
	tp := NewTOTP(30, 1, libOTP.DigitsSix, "SHA1")
	at := time.Unix(59, 0).UTC()

	code, err := tp.GenerateCode(rfcSecret, at)
	require.NoError(t, err)
	assert.Equal(t, "287082", code)

	_, err = tp.GenerateCode("not a base32 secret!!", at)
	assert.Error(t, err)
}

func TestTOTPAlgorithms(t *testing.T) {
	at := time.Unix(59, 0).UTC()

	for _, algorithm := range []string{"SHA1", "SHA256", "SHA512", "sha256", "unknown"} {
		tp := NewTOTP(30, 1, libOTP.DigitsSix, algorithm)

		code, err := tp.GenerateCode(rfcSecret, at)
		require.NoError(t, err, algorithm)
		assert.True(t, tp.Validate(code, rfcSecret, at), algorithm)
	}
}

func TestNewTOTPDefaults(t *testing.T) {
	tp := NewTOTP(0, 0, libOTP.Digits(4), "")

	assert.Equal(t, uint(30), tp.period)
	assert.Equal(t, uint(1), tp.skew)
	assert.Equal(t, libOTP.DigitsSix, tp.digits)
	assert.Equal(t, libOTP.AlgorithmSHA1, tp.algorithm)
}
