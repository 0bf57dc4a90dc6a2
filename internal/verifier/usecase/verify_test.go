package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	libOTP "github.com/pquerna/otp"
	"github.com/kavelabs/kavela/internal/pkg/goerror"
	"github.com/kavelabs/kavela/internal/pkg/instrument"
	"github.com/kavelabs/kavela/internal/pkg/otp"
	"github.com/kavelabs/kavela/internal/pkg/validator"
	"github.com/kavelabs/kavela/internal/verifier/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

type fakeRepo struct {
	secrets map[string]string
	err     error
}

func (f *fakeRepo) GetEnrolledSecret(_ context.Context, userID string) (*entity.EnrolledSecret, error) {
	if f.err != nil {
		return nil, f.err
	}

	secret, ok := f.secrets[userID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &entity.EnrolledSecret{UserID: userID, Secret: secret}, nil
}

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time {
	return c.at
}

func newVerifyUsecase(t *testing.T, repo *fakeRepo, at time.Time) *Usecase {
	t.Helper()

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	return New(Dependency{
		RepoDB:     repo,
		Validator:  v10,
		Totp:       otp.NewTOTP(30, 1, libOTP.DigitsSix, "SHA1"),
		Clock:      fixedClock{at: at},
		Instrument: instrument.NewNoop(),
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	at := time.Unix(59, 0).UTC()
	repo := &fakeRepo{secrets: map[string]string{"user-1": testSecret}}

	uc := newVerifyUsecase(t, repo, at)

	t.Run("AcceptsCurrentCode", func(t *testing.T) {
		out, err := uc.Verify(ctx, VerifyInput{UserID: "user-1", Code: "287082"})
		require.NoError(t, err)
		assert.True(t, out.OK)
	})

	t.Run("AcceptsAdjacentStepCode", func(t *testing.T) {
		code, err := uc.totp.GenerateCode(testSecret, at.Add(-30*time.Second))
		require.NoError(t, err)

		out, err := uc.Verify(ctx, VerifyInput{UserID: "user-1", Code: code})
		require.NoError(t, err)
		assert.True(t, out.OK)
	})

	t.Run("AcceptsCommonDemoSecret", func(t *testing.T) {
		const secret = "JBSWY3DPEHPK3PXP"
		demo := newVerifyUsecase(t, &fakeRepo{secrets: map[string]string{"user-4": secret}}, at)

		code, err := demo.totp.GenerateCode(secret, at)
		require.NoError(t, err)

		out, err := demo.Verify(ctx, VerifyInput{UserID: "user-4", Code: code})
		require.NoError(t, err)
		assert.True(t, out.OK)
	})

	t.Run("RejectsWrongCode", func(t *testing.T) {
		out, err := uc.Verify(ctx, VerifyInput{UserID: "user-1", Code: "000000"})
		require.NoError(t, err)
		assert.False(t, out.OK)
	})

	t.Run("RejectsBeyondWindowCode", func(t *testing.T) {
		code, err := uc.totp.GenerateCode(testSecret, at.Add(-120*time.Second))
		require.NoError(t, err)

		out, err := uc.Verify(ctx, VerifyInput{UserID: "user-1", Code: code})
		require.NoError(t, err)
		assert.False(t, out.OK)
	})

	t.Run("MissingInput", func(t *testing.T) {
		for _, in := range []VerifyInput{
			{},
			{UserID: "user-1"},
			{Code: "287082"},
			{UserID: "   ", Code: "287082"},
		} {
			_, err := uc.Verify(ctx, in)

			var gerr *goerror.Error
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, goerror.CodeInvalidInput, gerr.Code())
		}
	})

	t.Run("UnenrolledUser", func(t *testing.T) {
		_, err := uc.Verify(ctx, VerifyInput{UserID: "user-2", Code: "287082"})

		var gerr *goerror.Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, goerror.CodeNotFound, gerr.Code())
	})

	t.Run("EmptyEnrolledSecret", func(t *testing.T) {
		empty := newVerifyUsecase(t, &fakeRepo{secrets: map[string]string{"user-3": ""}}, at)

		_, err := empty.Verify(ctx, VerifyInput{UserID: "user-3", Code: "287082"})

		var gerr *goerror.Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, goerror.CodeNotFound, gerr.Code())
	})

	t.Run("BackendFailure", func(t *testing.T) {
		broken := newVerifyUsecase(t, &fakeRepo{err: errors.New("connection refused")}, at)

		_, err := broken.Verify(ctx, VerifyInput{UserID: "user-1", Code: "287082"})

		var gerr *goerror.Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, goerror.CodeInternal, gerr.Code())
		assert.Equal(t, "Internal server error", gerr.Msg())
	})
}
