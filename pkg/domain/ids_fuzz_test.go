//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseCardID checks that parsing never panics and that every accepted id
// is already canonical, so a second parse is the identity.
func FuzzParseCardID(f *testing.F) {
	f.Add("")
	f.Add("ABC123")
	f.Add("abc123")
	f.Add("FC1A2B3C4D")
	f.Add("'; DROP TABLE cards;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("abc\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseCardID(input)
		if err != nil {
			return
		}

		again, err2 := ParseCardID(id.String())
		if err2 != nil {
			t.Errorf("canonical id %q failed re-parse: %v", id, err2)
		}
		if again != id {
			t.Errorf("re-parse changed id %q -> %q", id, again)
		}
		if !utf8.ValidString(id.String()) {
			t.Error("non-UTF8 id was accepted")
		}
	})
}

// FuzzParseUserID checks round-tripping of accepted user ids.
func FuzzParseUserID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseUserID(input)
		if err != nil {
			return
		}
		roundTrip, err2 := ParseUserID(id.String())
		if err2 != nil {
			t.Errorf("valid id failed round-trip: %v", err2)
		}
		if roundTrip != id {
			t.Error("round-trip changed id value")
		}
	})
}
