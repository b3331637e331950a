package intent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContacts(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadContactsKeepsFileOrder(t *testing.T) {
	path := writeContacts(t, `{
		"zoe":  {"phone": "+111"},
		"Anna": {"phone": "+222", "whatsapp": "+222"},
		"bob":  {"email": "bob@example.org"}
	}`)

	c, err := LoadContacts(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"zoe", "anna", "bob"}, c.Names())
	assert.Equal(t, 3, c.Len())

	anna, ok := c.Get("ANNA")
	require.True(t, ok)
	assert.Equal(t, "+222", anna.Phone)
	assert.Equal(t, "+222", anna.WhatsApp)
}

func TestLoadContactsMissingFile(t *testing.T) {
	c, err := LoadContacts(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestResolveContactCall(t *testing.T) {
	c := NewContacts([]string{"mom"}, map[string]Contact{
		"mom": {Phone: "+15551234"},
	})

	cls, ok := ResolveContact("call mom", c)
	require.True(t, ok)
	assert.Equal(t, Call, cls.Intent)
	assert.Equal(t, "mom", cls.Arg)

	cls, ok = ResolveContact("please dial mom", c)
	require.True(t, ok)
	assert.Equal(t, Call, cls.Intent)

	_, ok = ResolveContact("call the office", c)
	assert.False(t, ok)
}

func TestResolveContactMessageMarkers(t *testing.T) {
	c := NewContacts([]string{"bob"}, map[string]Contact{
		"bob": {WhatsApp: "+333"},
	})

	tests := []struct {
		command string
		body    string
	}{
		{"message bob: dinner at 8", "dinner at 8"},
		{"message bob, dinner at 8", "dinner at 8"},
		{"message bob that dinner is at 8", "dinner is at 8"},
		{"message bob saying see you soon", "see you soon"},
		{"send a message bob say hi", "hi"},
	}

	for _, tt := range tests {
		cls, ok := ResolveContact(tt.command, c)
		require.True(t, ok, tt.command)
		require.Equal(t, Message, cls.Intent)
		msg := cls.Arg.(ContactMessage)
		assert.Equal(t, "bob", msg.Name)
		assert.Equal(t, tt.body, msg.Body, tt.command)
	}

	// Name without a marker still resolves, with an empty body.
	cls, ok := ResolveContact("message bob", c)
	require.True(t, ok)
	assert.Equal(t, ContactMessage{Name: "bob"}, cls.Arg)
}

func TestResolveContactFirstInOrderWins(t *testing.T) {
	c := NewContacts([]string{"ann", "annabelle"}, map[string]Contact{
		"ann":       {Phone: "+1"},
		"annabelle": {Phone: "+2"},
	})

	// Directory-order containment: "ann" is scanned first and is a prefix
	// of "annabelle", so it claims the call.
	cls, ok := ResolveContact("call annabelle", c)
	require.True(t, ok)
	assert.Equal(t, "ann", cls.Arg)
}

func TestResolveContactEmptyDirectory(t *testing.T) {
	_, ok := ResolveContact("call mom", NewContacts(nil, map[string]Contact{}))
	assert.False(t, ok)
	_, ok = ResolveContact("call mom", nil)
	assert.False(t, ok)
}
