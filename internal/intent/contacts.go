package intent

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Contact holds the channels known for one person. All fields are optional.
type Contact struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
}

// Contacts is a read-only directory keyed by lowercase display name. Names
// keep the order they appear in the contacts file: resolution scans them in
// that order and the first containment hit wins.
type Contacts struct {
	names  []string
	byName map[string]Contact
}

// NewContacts builds a directory from an ordered name list. Mostly for tests;
// production code loads the file.
func NewContacts(names []string, byName map[string]Contact) *Contacts {
	return &Contacts{names: names, byName: byName}
}

// LoadContacts reads the contact directory, preserving file order. A missing
// file yields an empty directory, not an error.
func LoadContacts(path string) (*Contacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Contacts{byName: map[string]Contact{}}, nil
		}
		return nil, fmt.Errorf("read contacts: %w", err)
	}

	c := &Contacts{byName: map[string]Contact{}}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, fmt.Errorf("parse contacts: %w", err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse contacts: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("parse contacts: key is not a string")
		}
		var info Contact
		if err := dec.Decode(&info); err != nil {
			return nil, fmt.Errorf("parse contact %q: %w", name, err)
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := c.byName[name]; !dup {
			c.names = append(c.names, name)
		}
		c.byName[name] = info
	}
	return c, nil
}

// Get returns the contact record for a lowercase name.
func (c *Contacts) Get(name string) (Contact, bool) {
	info, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return info, ok
}

// Names returns contact names in directory order.
func (c *Contacts) Names() []string { return c.names }

// Len reports the number of contacts.
func (c *Contacts) Len() int { return len(c.names) }

// Body-delimiting markers after "message <name>".
var messageMarkers = []string{":", ",", " that ", " saying ", " say "}

// ResolveContact infers a call or message intent from an utterance the rule
// table could not classify by scanning for known contact names. First hit in
// directory order wins; there is no ranking.
func ResolveContact(command string, contacts *Contacts) (Classification, bool) {
	if contacts == nil || contacts.Len() == 0 {
		return Classification{}, false
	}
	c := strings.ToLower(strings.TrimSpace(command))

	if strings.HasPrefix(c, "call ") || strings.HasPrefix(c, "dial ") ||
		strings.Contains(c, " call ") || strings.Contains(c, " dial ") {
		for _, name := range contacts.names {
			if strings.Contains(c, "call "+name) || strings.Contains(c, "dial "+name) {
				return Classification{Intent: Call, Arg: name}, true
			}
		}
	}

	if strings.HasPrefix(c, "message ") || strings.Contains(c, " message ") ||
		strings.HasPrefix(c, "send message") {
		for _, name := range contacts.names {
			for _, marker := range messageMarkers {
				key := "message " + name + marker
				if i := strings.Index(c, key); i >= 0 {
					body := strings.TrimSpace(c[i+len(key):])
					return Classification{Intent: Message, Arg: ContactMessage{Name: name, Body: body}}, true
				}
			}
			if strings.Contains(c, "message "+name) {
				return Classification{Intent: Message, Arg: ContactMessage{Name: name}}, true
			}
		}
	}

	return Classification{}, false
}
