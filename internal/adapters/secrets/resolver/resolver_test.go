package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/alert-bot/internal/domain"
	portmocks "github.com/bnema/alert-bot/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fakeEnv(values map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		value, ok := values[name]
		return value, ok
	}
}

func TestResolveReplacesReferences(t *testing.T) {
	t.Parallel()

	store := portmocks.NewMockSecretStore(t)
	store.EXPECT().Get(mock.Anything, "alert-bot/telegram").Return("123:abc", nil).Once()
	store.EXPECT().Get(mock.Anything, "hooks/auth").Return("Bearer xyz", nil).Once()

	r := New(store)
	r.lookupEnv = fakeEnv(map[string]string{"CHAT_ID": "-1001"})

	params := map[string]any{
		"token":   "secret:alert-bot/telegram",
		"chat_id": "env:CHAT_ID",
		"timeout": int64(5),
		"headers": map[string]any{"Authorization": "secret:hooks/auth"},
		"args":    []any{"--verbose", "plain"},
	}

	resolved, err := r.Resolve(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"token":   "123:abc",
		"chat_id": "-1001",
		"timeout": int64(5),
		"headers": map[string]any{"Authorization": "Bearer xyz"},
		"args":    []any{"--verbose", "plain"},
	}, resolved)
	assert.Equal(t, "secret:alert-bot/telegram", params["token"])
}

func TestResolveMissingEnvironmentVariable(t *testing.T) {
	t.Parallel()

	r := New(nil)
	r.lookupEnv = fakeEnv(nil)

	_, err := r.Resolve(context.Background(), map[string]any{"headers": map[string]any{"X-Key": "env:HOOK_KEY"}})
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "headers.X-Key")
}

func TestResolveStoreFailure(t *testing.T) {
	t.Parallel()

	store := portmocks.NewMockSecretStore(t)
	store.EXPECT().Get(mock.Anything, "absent").Return("", errors.New("pass show: exit status 1")).Once()

	_, err := New(store).Resolve(context.Background(), map[string]any{"args": []any{"secret:absent"}})
	require.Error(t, err)
	assert.ErrorContains(t, err, "args[0]")
}

func TestResolveRejectsEmptyReferences(t *testing.T) {
	t.Parallel()

	for _, ref := range []string{"env:", "secret:"} {
		_, err := New(nil).Resolve(context.Background(), map[string]any{"token": ref})
		assert.ErrorIs(t, err, domain.ErrUnsupportedSecretRef, ref)
	}
}

func TestResolveWithoutStore(t *testing.T) {
	t.Parallel()

	_, err := New(nil).Resolve(context.Background(), map[string]any{"token": "secret:x"})
	require.ErrorIs(t, err, domain.ErrSecretNotFound)

	resolved, err := New(nil).Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}
