package mention

import (
	"puppet-lab/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func contacts() (alice, bob, bobby *domain.Contact) {
	alice = domain.NewContact(domain.ContactPayload{ID: "alice", Name: "Alice", Alias: "Al"})
	bob = domain.NewContact(domain.ContactPayload{ID: "bob", Name: "Bob"})
	bobby = domain.NewContact(domain.ContactPayload{ID: "bobby", Name: "Bobby"})
	return
}

func TestMatcher_Match(t *testing.T) {
	alice, bob, bobby := contacts()
	matcher, err := NewMatcher([]*domain.Contact{alice, bob, bobby})
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected []*domain.Contact
	}{
		{name: "No mention", input: "hello world", expected: []*domain.Contact{}},
		{name: "Single mention with separator", input: "@Bob\u2005ding", expected: []*domain.Contact{bob}},
		{name: "Case insensitive", input: "hey @ALICE how are you", expected: []*domain.Contact{alice}},
		{name: "Alias is a valid handle", input: "@Al ping", expected: []*domain.Contact{alice}},
		{name: "Order of appearance", input: "@Bob @Alice", expected: []*domain.Contact{bob, alice}},
		{name: "Longest name wins", input: "@Bobby hi", expected: []*domain.Contact{bobby}},
		{name: "Duplicates removed", input: "@Bob @Bob @Bob", expected: []*domain.Contact{bob}},
		{name: "Partial word is not a mention", input: "@Bobcat hi", expected: []*domain.Contact{}},
		{name: "Trailing punctuation", input: "thanks @Bob!", expected: []*domain.Contact{bob}},
		{name: "End of content", input: "ping @Alice", expected: []*domain.Contact{alice}},
		{name: "Email is not a mention", input: "mail bob@example.com", expected: []*domain.Contact{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			got := matcher.Match(tt.input)
			req.NotNil(got)
			req.Equal(tt.expected, got)
		})
	}
}

func TestMatcher_Strip(t *testing.T) {
	req := require.New(t)
	alice, bob, bobby := contacts()
	matcher, err := NewMatcher([]*domain.Contact{alice, bob, bobby})
	req.NoError(err)

	req.Equal("ding", matcher.Strip("@Bob\u2005ding"))
	req.Equal("hello there", matcher.Strip("hello @Alice there"))
	req.Equal("no mention", matcher.Strip("  no mention "))
	req.Equal("", matcher.Strip("@Bob @Bobby"))
}

func TestMatcher_Without_Contacts(t *testing.T) {
	req := require.New(t)
	matcher, err := NewMatcher(nil)
	req.NoError(err)

	req.Empty(matcher.Match("@Bob hi"))
	req.NotNil(matcher.Match("@Bob hi"))
	req.Equal("@Bob hi", matcher.Strip("@Bob hi"))
}

func TestMatcher_Shared_Name_Reports_All_Contacts(t *testing.T) {
	req := require.New(t)
	first := domain.NewContact(domain.ContactPayload{ID: "1", Name: "Sam"})
	second := domain.NewContact(domain.ContactPayload{ID: "2", Name: "sam"})
	matcher, err := NewMatcher([]*domain.Contact{first, second})
	req.NoError(err)

	req.Equal([]*domain.Contact{first, second}, matcher.Match("@Sam hello"))
}

func TestIndex_Requires_A_Boundary_After_The_Name(t *testing.T) {
	tests := []struct {
		name    string
		content string
		at      string
		want    int
	}{
		{name: "at the start", content: "@Al ding", at: "@Al", want: 0},
		{name: "at the end", content: "ding @Al", at: "@Al", want: 5},
		{name: "skips a longer name", content: "@Alice\u2005@Al\u2005ding", at: "@Al", want: 9},
		{name: "followed by punctuation", content: "@Alice, ding", at: "@Alice", want: 0},
		{name: "only inside a longer name", content: "@Alice ding", at: "@Al", want: -1},
		{name: "absent", content: "ding", at: "@Al", want: -1},
		{name: "empty pattern", content: "ding", at: "", want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Index(tt.content, tt.at))
		})
	}
}
