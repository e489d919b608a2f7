package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAPIKeys(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.CreateAPIKey("k1", " figma ", "hash1"))
	require.NoError(t, s.CreateAPIKey("k2", "ci", "hash2"))

	k, err := s.GetAPIKey("k1")
	require.NoError(t, err)
	require.Equal(t, "figma", k.Name)
	require.Equal(t, "hash1", k.SecretHash)
	require.False(t, k.Revoked)
	require.Nil(t, k.LastUsedAt)

	require.NoError(t, s.TouchAPIKey("k1"))
	k, err = s.GetAPIKey("k1")
	require.NoError(t, err)
	require.NotNil(t, k.LastUsedAt)

	require.NoError(t, s.RevokeAPIKey("k2"))
	require.ErrorIs(t, s.RevokeAPIKey("missing"), ErrKeyNotFound)
	_, err = s.GetAPIKey("missing")
	require.ErrorIs(t, err, ErrKeyNotFound)

	keys, err := s.ListAPIKeys()
	require.NoError(t, err)
	require.Len(t, keys, 2)
	for _, k := range keys {
		require.Equal(t, k.ID == "k2", k.Revoked)
	}
}

func TestAuthFailureLockout(t *testing.T) {
	s := openTestStore(t)
	const ip = "203.0.113.9"

	for i := 1; i < MaxAuthFailures; i++ {
		d, err := s.RegisterAuthFailure(ip)
		require.NoError(t, err)
		require.Zero(t, d)
		locked, _, err := s.CheckAuthAllowed(ip)
		require.NoError(t, err)
		require.False(t, locked)
	}

	d, err := s.RegisterAuthFailure(ip)
	require.NoError(t, err)
	require.Equal(t, time.Minute, d)
	locked, retry, err := s.CheckAuthAllowed(ip)
	require.NoError(t, err)
	require.True(t, locked)
	require.Greater(t, retry, time.Duration(0))

	d, err = s.RegisterAuthFailure(ip)
	require.NoError(t, err)
	require.Equal(t, 2*time.Minute, d)

	require.NoError(t, s.ResetAuthFailures(ip))
	locked, _, err = s.CheckAuthAllowed(ip)
	require.NoError(t, err)
	require.False(t, locked)
}

func TestAuditAndRuns(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.RecordAudit("", "theme.generate", "acme", `{"applied":3}`))
	require.NoError(t, s.RecordAudit("k1", "favicons.generate", "Acme", ""))

	logs, err := s.ListAudit(10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "favicons.generate", logs[0].Action)
	require.Equal(t, "anonymous", logs[1].Actor)

	id, err := s.RecordRun("acme", RunGenerate, `{"files":4}`)
	require.NoError(t, err)
	_, err = s.RecordRun("other", RunPublish, `{}`)
	require.NoError(t, err)

	run, err := s.GetRun(id)
	require.NoError(t, err)
	require.Equal(t, "acme", run.Brand)
	require.Equal(t, RunGenerate, run.Kind)

	all, err := s.ListRuns("", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	only, err := s.ListRuns("acme", 0)
	require.NoError(t, err)
	require.Len(t, only, 1)
	require.Equal(t, id, only[0].ID)
}
