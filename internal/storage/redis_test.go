package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := NewRedisStorage("redis://"+mr.Addr(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestNewRedisStorage_BadURL(t *testing.T) {
	_, err := NewRedisStorage("not a url", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestRedisStorage_Ping(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.WaitForConnection(ctx, 3, time.Millisecond))

	mr.Close()
	assert.Error(t, store.Ping(ctx))
	assert.Error(t, store.WaitForConnection(ctx, 2, time.Millisecond))
}

func TestRedisStorage_CreateFillsDefaults(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCharacter(ctx, "  Silas  "))

	rec, err := store.GetCharacter(ctx, "Silas")
	require.NoError(t, err)
	assert.Equal(t, DefaultRecord(), rec)
	assert.Len(t, rec, len(sheet.Fields()))
	assert.Equal(t, "0", rec[sheet.FieldStrength])
	assert.Equal(t, "", rec[sheet.FieldInventory])

	assert.True(t, mr.Exists("character:Silas"))
	ok, err := mr.SIsMember(namesKey, "Silas")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStorage_CreateRejectsDuplicatesAndBadNames(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCharacter(ctx, "Evelyn"))
	assert.ErrorIs(t, store.CreateCharacter(ctx, "Evelyn"), ErrCharacterExists)
	assert.ErrorIs(t, store.CreateCharacter(ctx, " Evelyn"), ErrCharacterExists)

	for _, bad := range []string{"", "   ", "Eve/Anne", "Who?"} {
		assert.ErrorIs(t, store.CreateCharacter(ctx, bad), ErrInvalidName, bad)
	}

	names, err := store.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Evelyn"}, names)
}

func TestRedisStorage_NormalizesNames(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	composed := "Ram\u00f3n"
	decomposed := "Ramo\u0301n"

	require.NoError(t, store.CreateCharacter(ctx, decomposed))
	assert.ErrorIs(t, store.CreateCharacter(ctx, composed), ErrCharacterExists)

	_, err := store.GetCharacter(ctx, composed)
	require.NoError(t, err)
}

func TestRedisStorage_ListPreservesOrder(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	names, err := store.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, n := range []string{"Silas", "*Cultista", "Harker", "Evelyn"} {
		require.NoError(t, store.CreateCharacter(ctx, n))
	}

	names, err = store.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Silas", "*Cultista", "Harker", "Evelyn"}, names)
}

func TestRedisStorage_UpdateOnlyWritesSchemaColumns(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCharacter(ctx, "Harker"))
	require.NoError(t, store.UpdateCharacter(ctx, "Harker", sheet.Record{
		sheet.FieldAgility:   "4",
		sheet.FieldInventory: "Revólver .38\nLinterna",
		"Columna fantasma":   "x",
	}))

	rec, err := store.GetCharacter(ctx, "Harker")
	require.NoError(t, err)
	assert.Equal(t, "4", rec[sheet.FieldAgility])
	assert.Equal(t, "Revólver .38\nLinterna", rec[sheet.FieldInventory])
	assert.Equal(t, "0", rec[sheet.FieldStrength])
	assert.NotContains(t, rec, "Columna fantasma")
	assert.Equal(t, "", mr.HGet("character:Harker", "Columna fantasma"))
}

func TestRedisStorage_MissingCharacter(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	_, err := store.GetCharacter(ctx, "Nadie")
	assert.ErrorIs(t, err, ErrCharacterNotFound)
	assert.ErrorIs(t, store.UpdateCharacter(ctx, "Nadie", sheet.Record{sheet.FieldStrength: "1"}), ErrCharacterNotFound)
}

func TestMockStorage(t *testing.T) {
	m := NewMockStorage()
	ctx := context.Background()

	require.NoError(t, m.CreateCharacter(ctx, "Silas"))
	assert.ErrorIs(t, m.CreateCharacter(ctx, "Silas"), ErrCharacterExists)
	assert.ErrorIs(t, m.CreateCharacter(ctx, "a/b"), ErrInvalidName)
	require.NoError(t, m.UpdateCharacter(ctx, "Silas", sheet.Record{sheet.FieldStrength: "4", "extra": "1"}))

	rec, err := m.GetCharacter(ctx, "Silas")
	require.NoError(t, err)
	assert.Equal(t, "4", rec[sheet.FieldStrength])
	assert.NotContains(t, rec, "extra")

	m.AddCharacter("*Oculto", sheet.Record{})
	names, err := m.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Silas", "*Oculto"}, names)

	m.SetFailure(assert.AnError)
	_, err = m.ListCharacters(ctx)
	assert.ErrorIs(t, err, assert.AnError)
}
