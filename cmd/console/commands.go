package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/investigator-sheets/internal/sheetclient"
	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
)

// characterStore is the remote side of the console. *sheetclient.Client satisfies it.
type characterStore interface {
	Configured() bool
	ListCharacters(ctx context.Context) ([]string, error)
	GetCharacter(ctx context.Context, name string) (sheet.Record, error)
	CreateCharacter(ctx context.Context, name string) (*sheetclient.MutationResult, error)
	UpdateCharacter(ctx context.Context, name string, data sheet.Record) (*sheetclient.MutationResult, error)
}

var _ characterStore = (*sheetclient.Client)(nil)

type namesLoadedMsg struct {
	names []string
	err   error
}

type characterLoadedMsg struct {
	name   string
	record sheet.Record
	err    error
}

type characterCreatedMsg struct {
	name   string
	result *sheetclient.MutationResult
	err    error
}

type characterSavedMsg struct {
	name   string
	result *sheetclient.MutationResult
	err    error
}

// requestTimeout bounds a single remote call made from the UI
const requestTimeout = 45 * time.Second

func loadNames(store characterStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		names, err := store.ListCharacters(ctx)
		return namesLoadedMsg{names: names, err: err}
	}
}

func loadCharacter(store characterStore, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		rec, err := store.GetCharacter(ctx, name)
		return characterLoadedMsg{name: name, record: rec, err: err}
	}
}

func createCharacter(store characterStore, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := store.CreateCharacter(ctx, name)
		return characterCreatedMsg{name: name, result: res, err: err}
	}
}

func saveCharacter(store characterStore, name string, data sheet.Record) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := store.UpdateCharacter(ctx, name, data)
		return characterSavedMsg{name: name, result: res, err: err}
	}
}
