package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctabha/coop-training/internal/audit"
	"github.com/ctabha/coop-training/internal/roster"
	dErrors "github.com/ctabha/coop-training/pkg/domain-errors"
)

type fakeDirectory map[string]roster.TraineeRecord

func (d fakeDirectory) Trainee(_ context.Context, traineeID string) (roster.TraineeRecord, error) {
	if rec, ok := d[traineeID]; ok {
		return rec, nil
	}
	return roster.TraineeRecord{}, dErrors.New(dErrors.CodeNotFound, "trainee not found in roster")
}

func newAuthService(ttl time.Duration) *Service {
	directory := fakeDirectory{
		"1001": {TraineeID: "1001", Name: "Ahmed", Phone: "+966 55-123-4567", Specialization: "CS", Organization: "Acme"},
		"1002": {TraineeID: "1002", Name: "Sara", Phone: "123", Specialization: "CS", Organization: "Acme"},
	}
	return NewService(directory, "test-signing-key", ttl)
}

func TestLoginAndValidateRoundTrip(t *testing.T) {
	svc := newAuthService(time.Minute)

	token, rec, err := svc.Login(context.Background(), " 1001 ", "4567")
	require.NoError(t, err)
	assert.Equal(t, "Ahmed", rec.Name)

	traineeID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "1001", traineeID)
}

type captureAuditor struct {
	events []audit.Event
}

func (a *captureAuditor) Emit(_ context.Context, event audit.Event) {
	a.events = append(a.events, event)
}

func TestLoginEmitsAuditEvent(t *testing.T) {
	auditor := &captureAuditor{}
	directory := fakeDirectory{
		"1001": {TraineeID: "1001", Name: "Ahmed", Phone: "0551234567", Specialization: "CS", Organization: "Acme"},
	}
	svc := NewService(directory, "test-signing-key", time.Minute, WithAuditor(auditor))

	_, _, err := svc.Login(context.Background(), "1001", "4567")
	require.NoError(t, err)
	require.Len(t, auditor.events, 1)
	assert.Equal(t, audit.ActionLogin, auditor.events[0].Action)
	assert.Equal(t, "1001", auditor.events[0].TraineeID)

	// A rejected login leaves no trail.
	_, _, err = svc.Login(context.Background(), "1001", "0000")
	require.Error(t, err)
	assert.Len(t, auditor.events, 1)
}

func TestLoginAcceptsFormattedSuffix(t *testing.T) {
	svc := newAuthService(time.Minute)

	// Full phone number pasted instead of just the suffix: the digits'
	// last four still match.
	_, _, err := svc.Login(context.Background(), "1001", "0551234567")
	require.NoError(t, err)
}

func TestLoginRejectsWrongSuffix(t *testing.T) {
	svc := newAuthService(time.Minute)

	_, _, err := svc.Login(context.Background(), "1001", "0000")
	var domainErr *dErrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, dErrors.CodeUnauthorized, domainErr.Code)
}

func TestLoginRejectsShortRegisteredPhone(t *testing.T) {
	svc := newAuthService(time.Minute)

	// Roster phone has fewer than four digits; nothing can match it.
	_, _, err := svc.Login(context.Background(), "1002", "0123")
	var domainErr *dErrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, dErrors.CodeUnauthorized, domainErr.Code)
}

func TestLoginUnknownTrainee(t *testing.T) {
	svc := newAuthService(time.Minute)

	_, _, err := svc.Login(context.Background(), "9999", "4567")
	var domainErr *dErrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, dErrors.CodeNotFound, domainErr.Code)
}

func TestLoginValidation(t *testing.T) {
	svc := newAuthService(time.Minute)

	for _, tc := range []struct {
		name       string
		traineeID  string
		phoneLast4 string
	}{
		{"empty trainee id", "", "4567"},
		{"short suffix", "1001", "45"},
		{"non-digit suffix", "1001", "abcd"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc.traineeID, tc.phoneLast4)
			var domainErr *dErrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, dErrors.CodeValidation, domainErr.Code)
		})
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newAuthService(-time.Minute)

	token, _, err := svc.Login(context.Background(), "1001", "4567")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	var domainErr *dErrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, dErrors.CodeUnauthorized, domainErr.Code)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newAuthService(time.Minute)

	_, err := svc.ValidateToken("not.a.token")
	var domainErr *dErrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, dErrors.CodeUnauthorized, domainErr.Code)
}

func TestValidateTokenWrongKey(t *testing.T) {
	svc := newAuthService(time.Minute)
	other := NewService(fakeDirectory{}, "different-key", time.Minute)

	token, _, err := svc.Login(context.Background(), "1001", "4567")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	require.Error(t, err)
}
