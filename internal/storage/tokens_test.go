package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newMockStore(t *testing.T) (*TokenStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTokenStore(db), mock
}

func TestTokenStoreSave(t *testing.T) {
	store, mock := newMockStore(t)

	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	blob, err := json.Marshal(token)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO oauth_tokens").
		WithArgs("gmail", "owner@x.com", blob).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = store.Save(context.Background(), "gmail", "owner@x.com", token)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStoreLoad(t *testing.T) {
	store, mock := newMockStore(t)

	stored := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"}
	blob, err := json.Marshal(stored)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT token FROM oauth_tokens").
		WithArgs("gmail", "owner@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"token"}).AddRow(blob))

	token, err := store.Load(context.Background(), "gmail", "owner@x.com")
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStoreLoadMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT token FROM oauth_tokens").
		WithArgs("gmail", "missing@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"token"}))

	_, err := store.Load(context.Background(), "gmail", "missing@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenStoreDelete(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM oauth_tokens").
		WithArgs("gmail", "owner@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Delete(context.Background(), "gmail", "owner@x.com"))

	mock.ExpectExec("DELETE FROM oauth_tokens").
		WithArgs("gmail", "gone@x.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, store.Delete(context.Background(), "gmail", "gone@x.com"), ErrNotFound)
}

func TestTokenStoreListAccounts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT email FROM oauth_tokens").
		WithArgs("gmail").
		WillReturnRows(sqlmock.NewRows([]string{"email"}).
			AddRow("a@x.com").
			AddRow("b@y.com"))

	emails, err := store.ListAccounts(context.Background(), "gmail")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, emails)
}
