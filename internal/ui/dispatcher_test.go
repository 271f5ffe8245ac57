package ui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-phonebook/internal/config"
)

func TestIsExit(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"exit", true},
		{"quit", true},
		{"q", true},
		{"  q  ", true},
		{"quit now", false},
		{"Q", false},
		{"exits", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExit(tt.line))
		})
	}
}

func TestDispatcher_Resolve(t *testing.T) {
	s, _ := newSession(t, "", okStore())
	s.registerCommands()
	d := &s.dispatcher

	tests := []struct {
		line       string
		wantPrefix string
		wantRest   string
	}{
		{"clear phonebook", config.CmdClearPhonebook, ""},
		{"clear", config.CmdClear, ""},
		{"cls", config.CmdCls, ""},
		{"add contact Ann 123", config.CmdAddContact, " Ann 123"},
		{"show near bd 7", config.CmdShowNearBD, " 7"},
		{"show all", config.CmdShowAll, ""},
		{"search ann", config.CmdSearch, " ann"},
		{"hello", config.CmdHello, ""},
		{"help", config.CmdHelp, ""},
		{"quit now", config.CmdQuit, " now"},
		{"quick", config.CmdQ, "uick"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			h, prefix, rest, ok := d.Resolve(tt.line)
			require.True(t, ok)
			assert.NotNil(t, h)
			assert.Equal(t, tt.wantPrefix, prefix)
			assert.Equal(t, tt.wantRest, rest)
		})
	}

	_, _, _, ok := d.Resolve("Show all")
	assert.False(t, ok, "Matching is case-sensitive")
}

func TestDispatcher_RegistrationOrder(t *testing.T) {
	var d Dispatcher
	var hit string
	d.Register(func(context.Context, string) error { hit = "long"; return nil }, "clear phonebook")
	d.Register(func(context.Context, string) error { hit = "short"; return nil }, "clear", "cls")

	assert.Equal(t, []string{"clear phonebook", "clear", "cls"}, d.prefixes())

	h, _, _, ok := d.Resolve("clear phonebook")
	require.True(t, ok)
	require.NoError(t, h(context.Background(), ""))
	assert.Equal(t, "long", hit)
}

func TestSession_RegistersEveryCommand(t *testing.T) {
	s, _ := newSession(t, "", okStore())
	s.registerCommands()
	s.registerCommands()

	assert.ElementsMatch(t, []string{
		config.CmdAddContact, config.CmdUpdateNumber, config.CmdAppendNumber, config.CmdDeleteNumber,
		config.CmdAddEmail, config.CmdUpdateEmail, config.CmdAppendEmail, config.CmdDeleteEmail,
		config.CmdAddBirthday, config.CmdDeleteContact, config.CmdShowAll, config.CmdShowNearBD,
		config.CmdFind, config.CmdSearch, config.CmdClearPhonebook, config.CmdExportCalendar,
		config.CmdImportContacts, config.CmdHelp, config.CmdHello, config.CmdHi, config.CmdClear, config.CmdCls,
		config.CmdExit, config.CmdQuit, config.CmdQ,
	}, s.dispatcher.prefixes(), "Registering twice must not duplicate routes")
}
